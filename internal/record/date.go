package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrBadMonth = errors.New("unknown month")
	ErrBadDate  = errors.New("invalid date")
)

type Month int

const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var monthAbbrev = [...]string{"", "jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// The import files spell months with Russian three-letter abbreviations.
var monthAbbrevRu = [...]string{"", "янв", "фев", "мар", "апр", "май", "июн", "июл", "авг", "сен", "окт", "ноя", "дек"}

var monthNames = [...]string{"", "january", "february", "march", "april", "may", "june", "july", "august", "september", "october", "november", "december"}

// Valid reports whether m is within January..December.
func (m Month) Valid() bool {
	return m >= January && m <= December
}

func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthAbbrev[m]
}

// ParseMonth accepts a number 1-12, an English name or abbreviation, or the
// Russian three-letter abbreviation.
func ParseMonth(s string) (Month, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if m := Month(n); m.Valid() {
			return m, nil
		}
		return 0, fmt.Errorf("%w: %q", ErrBadMonth, s)
	}
	for i := 1; i <= 12; i++ {
		if s == monthAbbrev[i] || s == monthNames[i] || s == monthAbbrevRu[i] {
			return Month(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadMonth, s)
}

// Date is a calendar date ordered by (Year, Month, Day).
type Date struct {
	Day   int
	Month Month
	Year  int
}

func NewDate(day int, month Month, year int) Date {
	return Date{Day: day, Month: month, Year: year}
}

// Compare returns -1, 0, or 1 if d is before, equal to, or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

// Validate rejects dates that do not exist on the calendar and years
// outside 1..9999, which Key cannot encode.
func (d Date) Validate() error {
	if !d.Month.Valid() {
		return fmt.Errorf("%w: %w: %d", ErrBadDate, ErrBadMonth, int(d.Month))
	}
	if d.Year < 1 || d.Year > 9999 || d.Day < 1 {
		return fmt.Errorf("%w: %s", ErrBadDate, d)
	}
	if t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC); t.Day() != d.Day {
		return fmt.Errorf("%w: %s", ErrBadDate, d)
	}
	return nil
}

func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

// Key renders d as YYYYMMDD. Lexicographic order of keys equals date order
// for years 0..9999.
func (d Date) Key() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) String() string {
	return fmt.Sprintf("%02d %s %04d", d.Day, d.Month, d.Year)
}

// ParseDateKey is the inverse of Key.
func ParseDateKey(key string) (Date, error) {
	if len(key) != 8 {
		return Date{}, fmt.Errorf("bad date key %q", key)
	}
	y, errY := strconv.Atoi(key[:4])
	m, errM := strconv.Atoi(key[4:6])
	d, errD := strconv.Atoi(key[6:])
	if errY != nil || errM != nil || errD != nil {
		return Date{}, fmt.Errorf("bad date key %q", key)
	}
	return Date{Day: d, Month: Month(m), Year: y}, nil
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

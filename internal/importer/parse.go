// Package importer reads the patient and appointment text files into a
// Dataset.
//
// Patient lines hold the policy as four groups of four digits followed by
// surname, name, middle name and the birth date:
//
//	1234 5678 9012 3456 Ivanov Ivan Ivanovich 01 янв 1980
//
// Appointment lines are comma separated:
//
//	1234 5678 9012 3456,Flu,Therapist,10 янв 2024
//
// A malformed line is skipped and reported; it never stops the import.
package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yashagw/clinicdb/internal/dataset"
	"github.com/yashagw/clinicdb/internal/record"
)

var ErrMalformedLine = errors.New("malformed line")

// LineError describes a skipped line. Line is 1-based.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

type PatientLine struct {
	Line    int
	Policy  dataset.Policy
	Patient record.Patient
}

type AppointmentLine struct {
	Line        int
	Policy      dataset.Policy
	Appointment record.Appointment
}

// ParsePatients reads every patient line from r. Blank lines are ignored.
// The error is only non-nil when r itself fails.
func ParsePatients(r io.Reader) ([]PatientLine, []LineError, error) {
	var (
		out  []PatientLine
		bad  []LineError
		line int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		pl, err := parsePatientLine(text)
		if err != nil {
			bad = append(bad, LineError{Line: line, Err: err})
			continue
		}
		pl.Line = line
		out = append(out, pl)
	}
	if err := scanner.Err(); err != nil {
		return out, bad, fmt.Errorf("read patients: %w", err)
	}
	return out, bad, nil
}

func parsePatientLine(text string) (PatientLine, error) {
	f := strings.Fields(text)
	if len(f) != 10 {
		return PatientLine{}, fmt.Errorf("%w: want 10 fields, got %d", ErrMalformedLine, len(f))
	}

	policy, err := dataset.ParsePolicy(strings.Join(f[0:4], ""))
	if err != nil {
		return PatientLine{}, err
	}
	date, err := parseDate(f[7], f[8], f[9])
	if err != nil {
		return PatientLine{}, err
	}

	return PatientLine{
		Policy: policy,
		Patient: record.Patient{
			Surname:    f[4],
			Name:       f[5],
			Middlename: f[6],
			BirthDate:  date,
		},
	}, nil
}

// ParseAppointments reads every appointment line from r. Blank lines are
// ignored. The error is only non-nil when r itself fails.
func ParseAppointments(r io.Reader) ([]AppointmentLine, []LineError, error) {
	var (
		out  []AppointmentLine
		bad  []LineError
		line int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		al, err := parseAppointmentLine(text)
		if err != nil {
			bad = append(bad, LineError{Line: line, Err: err})
			continue
		}
		al.Line = line
		out = append(out, al)
	}
	if err := scanner.Err(); err != nil {
		return out, bad, fmt.Errorf("read appointments: %w", err)
	}
	return out, bad, nil
}

func parseAppointmentLine(text string) (AppointmentLine, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 4 {
		return AppointmentLine{}, fmt.Errorf("%w: want 4 comma separated fields, got %d", ErrMalformedLine, len(parts))
	}

	policy, err := dataset.ParsePolicy(parts[0])
	if err != nil {
		return AppointmentLine{}, err
	}
	diagnosis := strings.TrimSpace(parts[1])
	doctor := strings.TrimSpace(parts[2])
	if diagnosis == "" || doctor == "" {
		return AppointmentLine{}, fmt.Errorf("%w: empty doctor or diagnosis", ErrMalformedLine)
	}

	d := strings.Fields(parts[3])
	if len(d) != 3 {
		return AppointmentLine{}, fmt.Errorf("%w: date %q", ErrMalformedLine, strings.TrimSpace(parts[3]))
	}
	date, err := parseDate(d[0], d[1], d[2])
	if err != nil {
		return AppointmentLine{}, err
	}

	return AppointmentLine{
		Policy: policy,
		Appointment: record.Appointment{
			Doctor:    doctor,
			Diagnosis: diagnosis,
			Date:      date,
		},
	}, nil
}

func parseDate(day, month, year string) (record.Date, error) {
	d, err := strconv.Atoi(day)
	if err != nil {
		return record.Date{}, fmt.Errorf("%w: day %q", ErrMalformedLine, day)
	}
	m, err := record.ParseMonth(month)
	if err != nil {
		return record.Date{}, err
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return record.Date{}, fmt.Errorf("%w: year %q", ErrMalformedLine, year)
	}
	date := record.NewDate(d, m, y)
	if err := date.Validate(); err != nil {
		return record.Date{}, err
	}
	return date, nil
}

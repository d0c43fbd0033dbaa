package record

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownField = errors.New("unknown field")

// Patient is the owner record. It is comparable; two patients are equal when
// every field is equal.
type Patient struct {
	Surname    string
	Name       string
	Middlename string
	BirthDate  Date
}

// FullName returns "Surname Name Middlename".
func (p Patient) FullName() string {
	return strings.Join([]string{p.Surname, p.Name, p.Middlename}, " ")
}

func (p Patient) String() string {
	return fmt.Sprintf("%s (%s)", p.FullName(), p.BirthDate)
}

// Appointment is the event record filed under its owner's policy and under
// its date.
type Appointment struct {
	Doctor    string
	Diagnosis string
	Date      Date
}

func (a Appointment) String() string {
	return fmt.Sprintf("%s: %s on %s", a.Doctor, a.Diagnosis, a.Date)
}

// AppointmentFields lists the fields Value understands, in display order.
var AppointmentFields = []string{"doctor", "diagnosis", "day", "month", "year"}

// Value returns the named field as an int or a string.
func (a Appointment) Value(field string) (any, error) {
	switch strings.ToLower(field) {
	case "doctor":
		return a.Doctor, nil
	case "diagnosis":
		return a.Diagnosis, nil
	case "day":
		return a.Date.Day, nil
	case "month":
		return int(a.Date.Month), nil
	case "year":
		return a.Date.Year, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
}

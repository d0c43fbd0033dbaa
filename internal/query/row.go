package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/yashagw/clinicdb/internal/dataset"
	"github.com/yashagw/clinicdb/internal/record"
)

var ErrUnknownField = errors.New("unknown field")

// Row is anything a predicate can be evaluated against.
type Row interface {
	GetValue(field string) (any, error)
}

// AppointmentFields lists the fields of an AppointmentRow.
var AppointmentFields = append([]string{"policy"}, record.AppointmentFields...)

// AppointmentRow is an appointment together with its owner's policy.
type AppointmentRow struct {
	Policy      dataset.Policy
	Appointment record.Appointment
}

func (r AppointmentRow) GetValue(field string) (any, error) {
	if strings.EqualFold(field, "policy") {
		return r.Policy.String(), nil
	}
	v, err := r.Appointment.Value(field)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return v, nil
}

// IsAppointmentField reports whether field can be used in an appointment
// filter.
func IsAppointmentField(field string) bool {
	return slices.Contains(AppointmentFields, strings.ToLower(field))
}

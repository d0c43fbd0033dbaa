package parserdata

import (
	"github.com/yashagw/clinicdb/internal/query"
	"github.com/yashagw/clinicdb/internal/record"
)

// AppointmentData is shared by add and delete appointment commands.
type AppointmentData struct {
	policy      string
	appointment record.Appointment
}

func (d *AppointmentData) Policy() string {
	return d.policy
}

func (d *AppointmentData) Appointment() record.Appointment {
	return d.appointment
}

type AddAppointmentData struct {
	AppointmentData
}

func NewAddAppointmentData(policy string, appointment record.Appointment) *AddAppointmentData {
	return &AddAppointmentData{AppointmentData{policy: policy, appointment: appointment}}
}

type DeleteAppointmentData struct {
	AppointmentData
}

func NewDeleteAppointmentData(policy string, appointment record.Appointment) *DeleteAppointmentData {
	return &DeleteAppointmentData{AppointmentData{policy: policy, appointment: appointment}}
}

// ListAppointmentsData is "list appointments [for policy] [where ...]".
// A for clause is folded into the predicate as policy = constant.
type ListAppointmentsData struct {
	predicate *query.Predicate
}

func NewListAppointmentsData(predicate *query.Predicate) *ListAppointmentsData {
	return &ListAppointmentsData{
		predicate: predicate,
	}
}

// Predicate may be nil.
func (d *ListAppointmentsData) Predicate() *query.Predicate {
	return d.predicate
}

// ListByDateData is "list appointments by date [from d m y] [to d m y]". A
// missing bound is nil.
type ListByDateData struct {
	from *record.Date
	to   *record.Date
}

func NewListByDateData(from, to *record.Date) *ListByDateData {
	return &ListByDateData{
		from: from,
		to:   to,
	}
}

func (d *ListByDateData) From() *record.Date {
	return d.from
}

func (d *ListByDateData) To() *record.Date {
	return d.to
}

// Package shell executes clinic commands against a dataset and renders the
// results for a terminal.
package shell

import (
	"fmt"
	"log/slog"

	"github.com/yashagw/clinicdb/internal/dataset"
	"github.com/yashagw/clinicdb/internal/logging"
	"github.com/yashagw/clinicdb/internal/parse"
	"github.com/yashagw/clinicdb/internal/parse/parserdata"
	"github.com/yashagw/clinicdb/internal/query"
	"github.com/yashagw/clinicdb/internal/record"
)

const (
	TypeQuery  = "query"
	TypeUpdate = "update"
	TypeInfo   = "info"
	TypeError  = "error"
)

var (
	PatientColumns     = []string{"policy", "surname", "name", "middlename", "birth"}
	AppointmentColumns = []string{"policy", "date", "doctor", "diagnosis"}
	statsColumns       = []string{"metric", "value"}

	earliest = record.NewDate(1, record.January, 1)
	latest   = record.NewDate(31, record.December, 9999)
)

// Response is the outcome of one command.
type Response struct {
	Type     string
	Rows     []map[string]any
	Columns  []string
	Affected int
	Message  string
	Error    string
}

type Shell struct {
	ds  *dataset.Dataset
	log *slog.Logger
}

func New(ds *dataset.Dataset) *Shell {
	return &Shell{
		ds:  ds,
		log: logging.WithComponent("shell"),
	}
}

// Execute parses and runs one command. Failures are reported in the
// response, never returned.
func (s *Shell) Execute(line string) Response {
	cmd, err := parse.NewParserFromString(line).Command()
	if err != nil {
		return errorResponse(err)
	}
	s.log.Debug("executing command", "type", fmt.Sprintf("%T", cmd))

	switch c := cmd.(type) {
	case *parserdata.AddPatientData:
		if err := s.ds.AddPatient(c.Policy(), c.Patient()); err != nil {
			return errorResponse(err)
		}
		return Response{Type: TypeUpdate, Affected: 1}

	case *parserdata.DeletePatientData:
		n, err := s.ds.RemovePatient(c.Policy())
		if err != nil {
			return errorResponse(err)
		}
		return Response{Type: TypeUpdate, Affected: 1 + n}

	case *parserdata.GetPatientData:
		pol, err := dataset.ParsePolicy(c.Policy())
		if err != nil {
			return errorResponse(err)
		}
		p, err := s.ds.Patient(c.Policy())
		if err != nil {
			return errorResponse(err)
		}
		return Response{Type: TypeQuery, Columns: PatientColumns, Rows: []map[string]any{patientRow(pol, p)}}

	case *parserdata.ListPatientsData:
		resp := Response{Type: TypeQuery, Columns: PatientColumns}
		s.ds.EachPatient(func(pol dataset.Policy, p record.Patient) {
			resp.Rows = append(resp.Rows, patientRow(pol, p))
		})
		return resp

	case *parserdata.AddAppointmentData:
		if err := s.ds.AddAppointment(c.Policy(), c.Appointment()); err != nil {
			return errorResponse(err)
		}
		return Response{Type: TypeUpdate, Affected: 1}

	case *parserdata.DeleteAppointmentData:
		if err := s.ds.RemoveAppointment(c.Policy(), c.Appointment()); err != nil {
			return errorResponse(err)
		}
		return Response{Type: TypeUpdate, Affected: 1}

	case *parserdata.ListAppointmentsData:
		resp := Response{Type: TypeQuery, Columns: AppointmentColumns}
		err := query.SelectAppointments(s.ds, c.Predicate(), func(r query.AppointmentRow) {
			resp.Rows = append(resp.Rows, appointmentRow(r.Policy, r.Appointment))
		})
		if err != nil {
			return errorResponse(err)
		}
		return resp

	case *parserdata.ListByDateData:
		from, to := earliest, latest
		if c.From() != nil {
			from = *c.From()
		}
		if c.To() != nil {
			to = *c.To()
		}
		resp := Response{Type: TypeQuery, Columns: AppointmentColumns}
		s.ds.AppointmentsBetween(from, to, func(pol dataset.Policy, a record.Appointment) {
			resp.Rows = append(resp.Rows, appointmentRow(pol, a))
		})
		return resp

	case *parserdata.StatsData:
		resp := Response{Type: TypeQuery, Columns: statsColumns}
		for _, kv := range s.ds.Stats().Rows() {
			resp.Rows = append(resp.Rows, map[string]any{"metric": kv[0], "value": kv[1]})
		}
		return resp

	case *parserdata.CheckData:
		if err := s.ds.Check(); err != nil {
			s.log.Error("integrity check failed", "error", err)
			return errorResponse(err)
		}
		return Response{Type: TypeInfo, Message: "all indexes consistent"}
	}
	return errorResponse(fmt.Errorf("unsupported command %T", cmd))
}

func errorResponse(err error) Response {
	return Response{Type: TypeError, Error: err.Error()}
}

func patientRow(pol dataset.Policy, p record.Patient) map[string]any {
	return map[string]any{
		"policy":     pol.Grouped(),
		"surname":    p.Surname,
		"name":       p.Name,
		"middlename": p.Middlename,
		"birth":      p.BirthDate.String(),
	}
}

func appointmentRow(pol dataset.Policy, a record.Appointment) map[string]any {
	return map[string]any{
		"policy":    pol.Grouped(),
		"date":      a.Date.String(),
		"doctor":    a.Doctor,
		"diagnosis": a.Diagnosis,
	}
}

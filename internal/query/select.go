package query

import (
	"fmt"

	"github.com/yashagw/clinicdb/internal/dataset"
	"github.com/yashagw/clinicdb/internal/record"
)

// SelectAppointments calls fn for every appointment matching pred. When pred
// pins the policy to a constant only that patient's appointments are read
// through the owner index; otherwise every appointment is tested.
func SelectAppointments(ds *dataset.Dataset, pred *Predicate, fn func(AppointmentRow)) error {
	if err := pred.Validate(AppointmentFields); err != nil {
		return err
	}
	pred, err := normalizePolicies(pred)
	if err != nil {
		return err
	}

	if c := pred.EquatesWithConstant("policy"); c != nil {
		policy := dataset.Policy(c.String())
		if !ds.HasPatient(policy.String()) {
			return nil
		}
		appts, err := ds.AppointmentsFor(policy.String())
		if err != nil {
			return err
		}
		for _, a := range appts {
			row := AppointmentRow{Policy: policy, Appointment: a}
			ok, err := pred.IsSatisfied(row)
			if err != nil {
				return err
			}
			if ok {
				fn(row)
			}
		}
		return nil
	}

	var evalErr error
	ds.FilterAppointments(func(policy dataset.Policy, a record.Appointment) bool {
		if evalErr != nil {
			return false
		}
		ok, err := pred.IsSatisfied(AppointmentRow{Policy: policy, Appointment: a})
		if err != nil {
			evalErr = err
			return false
		}
		return ok
	}, func(policy dataset.Policy, a record.Appointment) {
		fn(AppointmentRow{Policy: policy, Appointment: a})
	})
	return evalErr
}

// normalizePolicies rewrites every constant compared with the policy field
// to its canonical 16 digit form, so '1234 5678 9012 3456' and
// 1234567890123456 both match.
func normalizePolicies(pred *Predicate) (*Predicate, error) {
	if pred.IsEmpty() {
		return pred, nil
	}
	out := &Predicate{terms: make([]Term, 0, len(pred.terms))}
	for _, t := range pred.terms {
		left, err := normalizePolicySide(t.left, t.right)
		if err != nil {
			return nil, err
		}
		right, err := normalizePolicySide(t.right, t.left)
		if err != nil {
			return nil, err
		}
		out.terms = append(out.terms, *NewTerm(left, right))
	}
	return out, nil
}

func normalizePolicySide(e, other Expression) (Expression, error) {
	if e.IsFieldName() || !other.IsFieldName() || other.AsFieldName() != "policy" {
		return e, nil
	}
	c := e.AsConstant()
	var policy dataset.Policy
	if c.IsInt() {
		if c.AsInt() < 0 {
			return Expression{}, fmt.Errorf("%w: %d", dataset.ErrBadPolicy, c.AsInt())
		}
		policy = dataset.PolicyFromKey(uint64(c.AsInt()))
	} else {
		var err error
		if policy, err = dataset.ParsePolicy(c.String()); err != nil {
			return Expression{}, err
		}
	}
	return *NewConstantExpression(*NewStringConstant(policy.String())), nil
}

// Package dataset ties the patient and appointment stores to their indexes.
//
// Patients live in one store indexed uniquely by policy number through a
// HashIndex. Appointments live in a second store that is indexed twice: by
// owner policy and by date. Both appointment indexes are unfiled before the
// single swap-remove that deletes a record, and both receive the fixup.
//
// A Dataset is not safe for concurrent use.
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/yashagw/clinicdb/internal/index"
	"github.com/yashagw/clinicdb/internal/logging"
	"github.com/yashagw/clinicdb/internal/record"
	"github.com/yashagw/clinicdb/internal/slotstore"
)

const (
	DefaultPatientCapacity     = 1000
	DefaultHashTableSize       = 1000
	DefaultAppointmentCapacity = 1000
)

type Options struct {
	PatientCapacity     int
	HashTableSize       int
	AppointmentCapacity int
}

func DefaultOptions() Options {
	return Options{
		PatientCapacity:     DefaultPatientCapacity,
		HashTableSize:       DefaultHashTableSize,
		AppointmentCapacity: DefaultAppointmentCapacity,
	}
}

type Dataset struct {
	patients *slotstore.Store[record.Patient]
	byPolicy *index.HashIndex[record.Patient]

	appointments *slotstore.Store[record.Appointment]
	byOwner      *index.OrderedIndex[string, record.Appointment]
	byDate       *index.OrderedIndex[string, record.Appointment]

	log *slog.Logger
}

// New creates an empty dataset. Zero options fall back to the defaults.
func New(opts Options) *Dataset {
	if opts.PatientCapacity <= 0 {
		opts.PatientCapacity = DefaultPatientCapacity
	}
	if opts.HashTableSize <= 0 {
		opts.HashTableSize = DefaultHashTableSize
	}
	if opts.AppointmentCapacity <= 0 {
		opts.AppointmentCapacity = DefaultAppointmentCapacity
	}

	patients := slotstore.New[record.Patient](opts.PatientCapacity)
	appointments := slotstore.New[record.Appointment](opts.AppointmentCapacity)

	return &Dataset{
		patients:     patients,
		byPolicy:     index.NewHashIndex("patients_by_policy", opts.HashTableSize, patients),
		appointments: appointments,
		byOwner:      index.NewOrderedIndex[string, record.Appointment]("appointments_by_owner"),
		byDate:       index.NewOrderedIndex[string, record.Appointment]("appointments_by_date"),
		log:          logging.WithComponent("dataset"),
	}
}

func (ds *Dataset) AddPatient(policy string, p record.Patient) error {
	pol, err := ParsePolicy(policy)
	if err != nil {
		return err
	}
	if err := p.BirthDate.Validate(); err != nil {
		return fmt.Errorf("patient %s: %w", pol, err)
	}
	if err := ds.byPolicy.Insert(pol.Key(), p); err != nil {
		return fmt.Errorf("add patient %s: %w", pol, err)
	}
	ds.log.Debug("patient added", "policy", pol.String())
	return nil
}

// RemovePatient deletes the patient and every appointment filed under the
// policy. It returns how many appointments went with it.
func (ds *Dataset) RemovePatient(policy string) (int, error) {
	pol, err := ParsePolicy(policy)
	if err != nil {
		return 0, err
	}
	if !ds.byPolicy.Exists(pol.Key()) {
		return 0, fmt.Errorf("remove patient %s: %w", pol, index.ErrKeyNotFound)
	}

	removed := 0
	if slots, ok := ds.byOwner.DetachAll(pol.String()); ok {
		fix := slotstore.Fixups{ds.byOwner, ds.byDate}
		for _, slot := range slots {
			appt := ds.appointments.At(slot)
			if !ds.byDate.Unfile(appt.Date.Key(), slot) {
				ds.log.Warn("appointment missing from date index", "policy", pol.String(), "slot", slot)
			}
			if err := ds.appointments.RemoveAt(slot, fix); err != nil {
				return removed, fmt.Errorf("remove patient %s: %w", pol, err)
			}
			removed++
		}
	}

	ds.byPolicy.Remove(pol.Key())
	ds.log.Debug("patient removed", "policy", pol.String(), "appointments", removed)
	return removed, nil
}

func (ds *Dataset) Patient(policy string) (record.Patient, error) {
	pol, err := ParsePolicy(policy)
	if err != nil {
		return record.Patient{}, err
	}
	p, ok := ds.byPolicy.Get(pol.Key())
	if !ok {
		return record.Patient{}, fmt.Errorf("patient %s: %w", pol, index.ErrKeyNotFound)
	}
	return p, nil
}

func (ds *Dataset) HasPatient(policy string) bool {
	pol, err := ParsePolicy(policy)
	if err != nil {
		return false
	}
	return ds.byPolicy.Exists(pol.Key())
}

// Policies returns the policy of every patient in ascending order.
func (ds *Dataset) Policies() []Policy {
	keys := ds.byPolicy.AllKeys()
	slices.Sort(keys)
	out := make([]Policy, len(keys))
	for i, k := range keys {
		out[i] = PolicyFromKey(k)
	}
	return out
}

// EachPatient calls fn for every patient in policy order.
func (ds *Dataset) EachPatient(fn func(policy Policy, p record.Patient)) {
	for _, pol := range ds.Policies() {
		p, _ := ds.byPolicy.Get(pol.Key())
		fn(pol, p)
	}
}

func (ds *Dataset) PatientCount() int {
	return ds.patients.Size()
}

// AddAppointment files a into both appointment indexes. The owner must
// already be a patient.
func (ds *Dataset) AddAppointment(policy string, a record.Appointment) error {
	pol, err := ParsePolicy(policy)
	if err != nil {
		return err
	}
	if err := a.Date.Validate(); err != nil {
		return fmt.Errorf("appointment for %s: %w", pol, err)
	}
	if !ds.byPolicy.Exists(pol.Key()) {
		return fmt.Errorf("appointment for %s: patient: %w", pol, index.ErrKeyNotFound)
	}

	slot, err := ds.appointments.Append(a)
	if err != nil {
		return fmt.Errorf("appointment for %s: %w", pol, err)
	}
	ds.byOwner.InsertSlot(pol.String(), slot)
	ds.byDate.InsertSlot(a.Date.Key(), slot)
	ds.log.Debug("appointment added", "policy", pol.String(), "date", a.Date.Key(), "slot", slot)
	return nil
}

// RemoveAppointment deletes one appointment equal to a from the policy's
// appointments.
func (ds *Dataset) RemoveAppointment(policy string, a record.Appointment) error {
	pol, err := ParsePolicy(policy)
	if err != nil {
		return err
	}
	slot, ok := ds.byOwner.Find(pol.String(), a, ds.appointments)
	if !ok {
		return fmt.Errorf("appointment %s for %s: %w", a, pol, index.ErrKeyNotFound)
	}

	ds.byOwner.Unfile(pol.String(), slot)
	if !ds.byDate.Unfile(a.Date.Key(), slot) {
		ds.log.Warn("appointment missing from date index", "policy", pol.String(), "slot", slot)
	}
	if err := ds.appointments.RemoveAt(slot, slotstore.Fixups{ds.byOwner, ds.byDate}); err != nil {
		return fmt.Errorf("appointment %s for %s: %w", a, pol, err)
	}
	ds.log.Debug("appointment removed", "policy", pol.String(), "slot", slot)
	return nil
}

// AppointmentsFor returns the appointments of one patient, newest filed
// first.
func (ds *Dataset) AppointmentsFor(policy string) ([]record.Appointment, error) {
	pol, err := ParsePolicy(policy)
	if err != nil {
		return nil, err
	}
	if !ds.byPolicy.Exists(pol.Key()) {
		return nil, fmt.Errorf("patient %s: %w", pol, index.ErrKeyNotFound)
	}
	var out []record.Appointment
	ds.byOwner.TraverseByKey(pol.String(), func(slot int) {
		out = append(out, ds.appointments.At(slot))
	})
	return out, nil
}

// EachAppointment calls fn for every appointment in policy order.
func (ds *Dataset) EachAppointment(fn func(policy Policy, a record.Appointment)) {
	ds.byOwner.Traverse(ds.appointments, func(a record.Appointment, key string) {
		fn(mustPolicy(key), a)
	})
}

// AppointmentsBetween calls fn for every appointment dated within [from, to]
// in date order.
func (ds *Dataset) AppointmentsBetween(from, to record.Date, fn func(policy Policy, a record.Appointment)) {
	owners := ds.ownersBySlot()
	ds.byDate.TraverseRange(from.Key(), to.Key(), func(slot int, _ string) {
		fn(owners[slot], ds.appointments.At(slot))
	})
}

// ownersBySlot maps every appointment slot to its owner in one walk of the
// by-owner index.
func (ds *Dataset) ownersBySlot() []Policy {
	owners := make([]Policy, ds.appointments.Size())
	ds.byOwner.TraverseIndex(func(slot int, key string) {
		owners[slot] = mustPolicy(key)
	})
	return owners
}

// FilterAppointments calls fn for every appointment accepted by pred, in
// policy order.
func (ds *Dataset) FilterAppointments(pred func(policy Policy, a record.Appointment) bool, fn func(policy Policy, a record.Appointment)) {
	ds.EachAppointment(func(policy Policy, a record.Appointment) {
		if pred(policy, a) {
			fn(policy, a)
		}
	})
}

func (ds *Dataset) AppointmentCount() int {
	return ds.appointments.Size()
}

// OwnerOf returns the policy an appointment slot is filed under.
func (ds *Dataset) OwnerOf(slot int) (Policy, bool) {
	key, ok := ds.byOwner.KeyForSlot(slot)
	if !ok {
		return "", false
	}
	return mustPolicy(key), true
}

// Check validates every index against its store, both trees' AVL
// invariants and that every appointment has an owner.
func (ds *Dataset) Check() error {
	var errs []error
	if err := ds.byPolicy.ValidateIntegrity(); err != nil {
		errs = append(errs, err)
	}

	for _, tree := range []*index.OrderedIndex[string, record.Appointment]{ds.byOwner, ds.byDate} {
		if !tree.ValidateIntegrity(ds.appointments) {
			errs = append(errs, fmt.Errorf("%w: %s: slot outside store", index.ErrIntegrityViolation, tree.Name()))
		}
		if err := tree.CheckBalance(); err != nil {
			errs = append(errs, err)
		}
		if tree.Len() != ds.appointments.Size() {
			errs = append(errs, fmt.Errorf("%w: %s: %d slots filed for %d stored",
				index.ErrIntegrityViolation, tree.Name(), tree.Len(), ds.appointments.Size()))
		}
	}

	for _, owner := range ds.byOwner.AllKeys() {
		pol, err := ParsePolicy(owner)
		if err != nil || !ds.byPolicy.Exists(pol.Key()) {
			errs = append(errs, fmt.Errorf("%w: appointments filed under unknown patient %s", index.ErrIntegrityViolation, owner))
		}
	}
	return errors.Join(errs...)
}

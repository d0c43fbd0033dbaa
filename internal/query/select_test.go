package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashagw/clinicdb/internal/dataset"
	"github.com/yashagw/clinicdb/internal/record"
)

func setupSelectTest(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New(dataset.Options{PatientCapacity: 5, HashTableSize: 7, AppointmentCapacity: 10})
	birth := record.NewDate(1, record.January, 1980)
	require.NoError(t, ds.AddPatient("1111 2222 3333 4444", record.Patient{Surname: "Ivanov", BirthDate: birth}))
	require.NoError(t, ds.AddPatient("0000 0000 0000 0042", record.Patient{Surname: "Petrov", BirthDate: birth}))

	add := func(policy, doctor, diagnosis string, day int, month record.Month, year int) {
		require.NoError(t, ds.AddAppointment(policy, record.Appointment{
			Doctor: doctor, Diagnosis: diagnosis, Date: record.NewDate(day, month, year),
		}))
	}
	add("1111 2222 3333 4444", "Therapist", "Flu", 10, record.January, 2024)
	add("0000 0000 0000 0042", "Therapist", "Cold", 12, record.January, 2024)
	add("1111 2222 3333 4444", "Surgeon", "Fracture", 5, record.February, 2024)
	return ds
}

func selectDoctors(t *testing.T, ds *dataset.Dataset, pred *Predicate) []string {
	t.Helper()
	var out []string
	require.NoError(t, SelectAppointments(ds, pred, func(r AppointmentRow) {
		out = append(out, r.Policy.String()+" "+r.Appointment.Doctor)
	}))
	return out
}

func TestSelectAppointments(t *testing.T) {
	ds := setupSelectTest(t)

	assert.Equal(t, []string{
		"0000000000000042 Therapist",
		"1111222233334444 Surgeon",
		"1111222233334444 Therapist",
	}, selectDoctors(t, ds, nil))

	assert.Equal(t, []string{
		"0000000000000042 Therapist",
		"1111222233334444 Therapist",
	}, selectDoctors(t, ds, createEqualsPredicate("doctor", "therapist")))

	assert.Empty(t, selectDoctors(t, ds, createEqualsPredicate("year", 2023)))
}

func TestSelectAppointmentsByPolicy(t *testing.T) {
	ds := setupSelectTest(t)

	assert.Equal(t, []string{
		"1111222233334444 Surgeon",
		"1111222233334444 Therapist",
	}, selectDoctors(t, ds, createEqualsPredicate("policy", "1111 2222 3333 4444")))

	// leading zeros are lost in an integer literal
	assert.Equal(t, []string{"0000000000000042 Therapist"},
		selectDoctors(t, ds, createEqualsPredicate("policy", 42)))

	assert.Equal(t, []string{"1111222233334444 Surgeon"},
		selectDoctors(t, ds, createCompoundPredicate(
			condition{"policy", "1111222233334444"},
			condition{"month", 2},
		)))

	assert.Empty(t, selectDoctors(t, ds, createEqualsPredicate("policy", "9999 9999 9999 9999")))
}

func TestSelectAppointmentsErrors(t *testing.T) {
	ds := setupSelectTest(t)

	err := SelectAppointments(ds, createEqualsPredicate("ward", 1), func(AppointmentRow) {})
	assert.ErrorIs(t, err, ErrUnknownField)

	err = SelectAppointments(ds, createEqualsPredicate("policy", "12"), func(AppointmentRow) {})
	assert.ErrorIs(t, err, dataset.ErrBadPolicy)
}

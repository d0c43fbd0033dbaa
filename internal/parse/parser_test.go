package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashagw/clinicdb/internal/parse/parserdata"
	"github.com/yashagw/clinicdb/internal/record"
)

func TestParserField(t *testing.T) {
	p := NewParser(NewLexer("Doctor"))
	require.NotNil(t, p)

	f, err := p.field()
	require.NoError(t, err)
	assert.Equal(t, "doctor", f)

	_, err = p.field()
	assert.ErrorIs(t, err, ErrBadSyntax)
	assert.Contains(t, err.Error(), "end of input")
}

func TestParserConstant(t *testing.T) {
	val, err := NewParserFromString("123").constant()
	require.NoError(t, err)
	require.True(t, val.IsInt())
	assert.Equal(t, 123, val.AsInt())

	val, err = NewParserFromString("'hello'").constant()
	require.NoError(t, err)
	assert.Equal(t, "hello", val.AsString())

	val, err = NewParserFromString(`"world"`).constant()
	require.NoError(t, err)
	assert.Equal(t, "world", val.AsString())

	_, err = NewParserFromString("list").constant()
	assert.ErrorIs(t, err, ErrBadSyntax)
	assert.Contains(t, err.Error(), `found "list"`)
}

func TestParserPredicate(t *testing.T) {
	p := NewParser(NewLexer("doctor = 'Surgeon' and year = 2024"))
	pred, err := p.predicate()
	require.NoError(t, err)
	assert.Equal(t, "doctor = 'Surgeon' and year = 2024", pred.String())

	p2 := NewParser(NewLexer("doctor 'Surgeon'"))
	_, err = p2.predicate()
	assert.ErrorIs(t, err, ErrBadSyntax)
}

func TestParserDate(t *testing.T) {
	tests := []struct {
		input string
		want  record.Date
	}{
		{"1 1 2024", record.NewDate(1, record.January, 2024)},
		{"09 мар 1999", record.NewDate(9, record.March, 1999)},
		{"15 July 1975", record.NewDate(15, record.July, 1975)},
		{"31 'дек' 2023", record.NewDate(31, record.December, 2023)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := NewParserFromString(tt.input).date()
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}

	_, err := NewParserFromString("1 13 2024").date()
	assert.ErrorIs(t, err, ErrBadSyntax)
	assert.ErrorIs(t, err, record.ErrBadMonth)

	_, err = NewParserFromString("1 jan").date()
	assert.ErrorIs(t, err, ErrBadSyntax)
}

func TestParserAddPatient(t *testing.T) {
	cmd, err := NewParserFromString(
		"add patient '1111 2222 3333 4444' 'Ivanov' 'Ivan' 'Ivanovich' 01 янв 1980;").Command()
	require.NoError(t, err)

	data, ok := cmd.(*parserdata.AddPatientData)
	require.True(t, ok, "got %T", cmd)
	assert.Equal(t, "1111 2222 3333 4444", data.Policy())
	assert.Equal(t, record.Patient{
		Surname: "Ivanov", Name: "Ivan", Middlename: "Ivanovich",
		BirthDate: record.NewDate(1, record.January, 1980),
	}, data.Patient())

	cmd, err = NewParserFromString("ADD PATIENT 0000000000000042 'A' 'B' 'C' 1 2 2000").Command()
	require.NoError(t, err)
	assert.Equal(t, "0000000000000042", cmd.(*parserdata.AddPatientData).Policy())

	_, err = NewParserFromString("add patient '1111' Ivanov 'Ivan' 'Ivanovich' 1 1 1980").Command()
	assert.ErrorIs(t, err, ErrBadSyntax)
	assert.Contains(t, err.Error(), "expected surname")
}

func TestParserAppointments(t *testing.T) {
	cmd, err := NewParserFromString("add appointment '1111 2222 3333 4444' 'Therapist' 'Flu' 10 jan 2024").Command()
	require.NoError(t, err)
	add, ok := cmd.(*parserdata.AddAppointmentData)
	require.True(t, ok, "got %T", cmd)
	assert.Equal(t, "1111 2222 3333 4444", add.Policy())
	assert.Equal(t, record.Appointment{
		Doctor: "Therapist", Diagnosis: "Flu", Date: record.NewDate(10, record.January, 2024),
	}, add.Appointment())

	cmd, err = NewParserFromString("delete appointment '1111 2222 3333 4444' 'Therapist' 'Flu' 10 1 2024").Command()
	require.NoError(t, err)
	del, ok := cmd.(*parserdata.DeleteAppointmentData)
	require.True(t, ok, "got %T", cmd)
	assert.Equal(t, add.Appointment(), del.Appointment())
}

func TestParserPatientCommands(t *testing.T) {
	cmd, err := NewParserFromString("delete patient '1111 2222 3333 4444'").Command()
	require.NoError(t, err)
	assert.Equal(t, "1111 2222 3333 4444", cmd.(*parserdata.DeletePatientData).Policy())

	cmd, err = NewParserFromString("get patient '1111 2222 3333 4444'").Command()
	require.NoError(t, err)
	assert.Equal(t, "1111 2222 3333 4444", cmd.(*parserdata.GetPatientData).Policy())

	cmd, err = NewParserFromString("list patients").Command()
	require.NoError(t, err)
	assert.IsType(t, &parserdata.ListPatientsData{}, cmd)

	cmd, err = NewParserFromString("stats").Command()
	require.NoError(t, err)
	assert.IsType(t, &parserdata.StatsData{}, cmd)

	cmd, err = NewParserFromString("check;").Command()
	require.NoError(t, err)
	assert.IsType(t, &parserdata.CheckData{}, cmd)
}

func TestParserListAppointments(t *testing.T) {
	cmd, err := NewParserFromString("list appointments").Command()
	require.NoError(t, err)
	list, ok := cmd.(*parserdata.ListAppointmentsData)
	require.True(t, ok, "got %T", cmd)
	assert.Nil(t, list.Predicate())

	cmd, err = NewParserFromString("list appointments for '1111 2222 3333 4444' where year = 2024").Command()
	require.NoError(t, err)
	list = cmd.(*parserdata.ListAppointmentsData)
	assert.Equal(t, "policy = '1111 2222 3333 4444' and year = 2024", list.Predicate().String())

	cmd, err = NewParserFromString("list appointments where doctor = 'Surgeon' and month = 2").Command()
	require.NoError(t, err)
	list = cmd.(*parserdata.ListAppointmentsData)
	assert.Equal(t, "doctor = 'Surgeon' and month = 2", list.Predicate().String())

	_, err = NewParserFromString("list appointments where doctor").Command()
	assert.ErrorIs(t, err, ErrBadSyntax)
}

func TestParserListByDate(t *testing.T) {
	cmd, err := NewParserFromString("list appointments by date").Command()
	require.NoError(t, err)
	byDate, ok := cmd.(*parserdata.ListByDateData)
	require.True(t, ok, "got %T", cmd)
	assert.Nil(t, byDate.From())
	assert.Nil(t, byDate.To())

	cmd, err = NewParserFromString("list appointments by date from 1 jan 2024 to 31 дек 2024").Command()
	require.NoError(t, err)
	byDate = cmd.(*parserdata.ListByDateData)
	require.NotNil(t, byDate.From())
	require.NotNil(t, byDate.To())
	assert.Equal(t, record.NewDate(1, record.January, 2024), *byDate.From())
	assert.Equal(t, record.NewDate(31, record.December, 2024), *byDate.To())

	cmd, err = NewParserFromString("list appointments by date to 1 1 2000").Command()
	require.NoError(t, err)
	byDate = cmd.(*parserdata.ListByDateData)
	assert.Nil(t, byDate.From())
	require.NotNil(t, byDate.To())
}

func TestParserRejects(t *testing.T) {
	for _, input := range []string{
		"",
		"select * from patients",
		"add",
		"add doctor 'x'",
		"get '1111 2222 3333 4444'",
		"list",
		"list patients extra",
		"list appointments by",
		"stats now",
		"get patient '1111 2222 3333 4444",
		"add appointment '1111 2222 3333 4444' 'Therapist \"Flu\" 10 jan 2024",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := NewParserFromString(input).Command()
			assert.ErrorIs(t, err, ErrBadSyntax)
		})
	}
}

func TestParserUnterminatedString(t *testing.T) {
	_, err := NewParserFromString("get patient '1111 2222 3333 4444").Command()
	require.ErrorIs(t, err, ErrBadSyntax)
	assert.Equal(t, "bad syntax: unterminated string starting at column 13", err.Error())
}

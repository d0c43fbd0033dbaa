package shell

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashagw/clinicdb/internal/dataset"
)

func setupShellTest(t *testing.T) *Shell {
	t.Helper()
	sh := New(dataset.New(dataset.Options{PatientCapacity: 5, HashTableSize: 7, AppointmentCapacity: 10}))
	for _, cmd := range []string{
		"add patient '1111 2222 3333 4444' 'Ivanov' 'Ivan' 'Ivanovich' 01 янв 1980",
		"add patient '5555 6666 7777 8888' 'Petrov' 'Petr' 'Petrovich' 15 jul 1975;",
		"add appointment '1111 2222 3333 4444' 'Therapist' 'Flu' 10 jan 2024",
		"add appointment '5555 6666 7777 8888' 'Surgeon' 'Fracture' 5 feb 2024",
		"add appointment '1111 2222 3333 4444' 'Oculist' 'Myopia' 20 12 2023",
	} {
		resp := sh.Execute(cmd)
		require.Equal(t, TypeUpdate, resp.Type, "%s: %s", cmd, resp.Error)
		require.Equal(t, 1, resp.Affected)
	}
	return sh
}

func column(resp Response, col string) []any {
	out := make([]any, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		out = append(out, row[col])
	}
	return out
}

func TestExecutePatients(t *testing.T) {
	sh := setupShellTest(t)

	resp := sh.Execute("get patient '1111222233334444'")
	require.Equal(t, TypeQuery, resp.Type, resp.Error)
	assert.Equal(t, PatientColumns, resp.Columns)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, map[string]any{
		"policy":     "1111 2222 3333 4444",
		"surname":    "Ivanov",
		"name":       "Ivan",
		"middlename": "Ivanovich",
		"birth":      "01 jan 1980",
	}, resp.Rows[0])

	resp = sh.Execute("list patients")
	assert.Equal(t, []any{"Ivanov", "Petrov"}, column(resp, "surname"))

	resp = sh.Execute("add patient '1111 2222 3333 4444' 'X' 'Y' 'Z' 1 1 2000")
	assert.Equal(t, TypeError, resp.Type)
	assert.NotEmpty(t, resp.Error)

	resp = sh.Execute("get patient '0000 0000 0000 0000'")
	assert.Equal(t, TypeError, resp.Type)
}

func TestExecuteAppointments(t *testing.T) {
	sh := setupShellTest(t)

	resp := sh.Execute("list appointments")
	require.Equal(t, TypeQuery, resp.Type, resp.Error)
	assert.Equal(t, AppointmentColumns, resp.Columns)
	assert.Len(t, resp.Rows, 3)

	resp = sh.Execute("list appointments for '1111 2222 3333 4444'")
	assert.Equal(t, []any{"Oculist", "Therapist"}, column(resp, "doctor"))

	resp = sh.Execute("list appointments where doctor = 'surgeon'")
	assert.Equal(t, []any{"5555 6666 7777 8888"}, column(resp, "policy"))

	resp = sh.Execute("list appointments where ward = 1")
	assert.Equal(t, TypeError, resp.Type)

	resp = sh.Execute("list appointments by date")
	assert.Equal(t, []any{"20 dec 2023", "10 jan 2024", "05 feb 2024"}, column(resp, "date"))

	resp = sh.Execute("list appointments by date from 1 jan 2024 to 31 jan 2024")
	assert.Equal(t, []any{"Therapist"}, column(resp, "doctor"))

	resp = sh.Execute("delete appointment '1111 2222 3333 4444' 'Therapist' 'Flu' 10 jan 2024")
	require.Equal(t, TypeUpdate, resp.Type, resp.Error)
	resp = sh.Execute("delete appointment '1111 2222 3333 4444' 'Therapist' 'Flu' 10 jan 2024")
	assert.Equal(t, TypeError, resp.Type)

	resp = sh.Execute("add appointment '0000 0000 0000 0001' 'Dentist' 'Caries' 1 mar 2024")
	assert.Equal(t, TypeError, resp.Type)

	assert.Equal(t, TypeInfo, sh.Execute("check").Type)
}

func TestExecuteDeletePatientCascades(t *testing.T) {
	sh := setupShellTest(t)

	resp := sh.Execute("delete patient '1111 2222 3333 4444'")
	require.Equal(t, TypeUpdate, resp.Type, resp.Error)
	assert.Equal(t, 3, resp.Affected)

	resp = sh.Execute("list appointments")
	assert.Equal(t, []any{"Surgeon"}, column(resp, "doctor"))
	assert.Equal(t, TypeInfo, sh.Execute("check").Type)
}

func TestExecuteStatsAndSyntax(t *testing.T) {
	sh := setupShellTest(t)

	resp := sh.Execute("stats")
	require.Equal(t, TypeQuery, resp.Type)
	assert.Equal(t, map[string]any{"metric": "Patients", "value": "2/5"}, resp.Rows[0])

	resp = sh.Execute("select * from patients")
	assert.Equal(t, TypeError, resp.Type)
	assert.Contains(t, resp.Error, "bad syntax")

	resp = sh.Execute("delete patient '1111 2222 3333 4444")
	assert.Equal(t, TypeError, resp.Type)
	assert.Contains(t, resp.Error, "unterminated string")
	assert.Equal(t, 2, len(sh.Execute("list patients").Rows))
}

func TestRenderPlain(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	r.Render(Response{
		Type:    TypeQuery,
		Columns: []string{"policy", "doctor"},
		Rows: []map[string]any{
			{"policy": "1111 2222 3333 4444", "doctor": "Therapist"},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "policy               doctor")
	assert.Contains(t, out, "1111 2222 3333 4444  Therapist")
	assert.Contains(t, out, "(1 row(s))")
	assert.NotContains(t, out, "\x1b[")

	buf.Reset()
	r.Render(Response{Type: TypeQuery, Columns: []string{"policy"}})
	assert.Equal(t, "(0 rows)\n\n", buf.String())

	buf.Reset()
	r.Render(Response{Type: TypeUpdate, Affected: 2})
	assert.Equal(t, "2 row(s) affected\n\n", buf.String())

	buf.Reset()
	r.Render(Response{Type: TypeError, Error: "boom"})
	assert.Equal(t, "Error: boom\n\n", buf.String())
}

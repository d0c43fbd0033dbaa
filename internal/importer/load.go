package importer

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/yashagw/clinicdb/internal/dataset"
	"github.com/yashagw/clinicdb/internal/logging"
)

// Summary counts what happened to each line of an import. Rejected lines
// parsed but the dataset refused them; their errors are in Rejections.
type Summary struct {
	PatientsLoaded       int
	PatientsRejected     int
	AppointmentsLoaded   int
	AppointmentsRejected int
	Malformed            []LineError
	Rejections           []LineError
}

// LoadFiles parses both files concurrently, then loads patients followed by
// appointments into ds. An empty path skips that file. Only I/O failures
// and cancellation are returned as errors.
func LoadFiles(ctx context.Context, ds *dataset.Dataset, patientsPath, appointmentsPath string) (Summary, error) {
	log := logging.WithComponent("importer")

	var (
		patients     []PatientLine
		appointments []AppointmentLine
		patientsBad  []LineError
		apptsBad     []LineError
	)

	g, gctx := errgroup.WithContext(ctx)
	if patientsPath != "" {
		g.Go(func() error {
			f, err := os.Open(patientsPath)
			if err != nil {
				return fmt.Errorf("open patients file: %w", err)
			}
			defer f.Close()
			if err := gctx.Err(); err != nil {
				return err
			}
			patients, patientsBad, err = ParsePatients(f)
			return err
		})
	}
	if appointmentsPath != "" {
		g.Go(func() error {
			f, err := os.Open(appointmentsPath)
			if err != nil {
				return fmt.Errorf("open appointments file: %w", err)
			}
			defer f.Close()
			if err := gctx.Err(); err != nil {
				return err
			}
			appointments, apptsBad, err = ParseAppointments(f)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	var sum Summary
	for _, le := range patientsBad {
		le.Err = fmt.Errorf("%s: %w", patientsPath, le.Err)
		sum.Malformed = append(sum.Malformed, le)
	}
	for _, le := range apptsBad {
		le.Err = fmt.Errorf("%s: %w", appointmentsPath, le.Err)
		sum.Malformed = append(sum.Malformed, le)
	}

	for _, pl := range patients {
		if err := ds.AddPatient(pl.Policy.String(), pl.Patient); err != nil {
			sum.PatientsRejected++
			sum.Rejections = append(sum.Rejections, LineError{Line: pl.Line, Err: fmt.Errorf("%s: %w", patientsPath, err)})
			log.Warn("patient rejected", "line", pl.Line, "policy", pl.Policy.String(), "error", err)
			continue
		}
		sum.PatientsLoaded++
	}
	for _, al := range appointments {
		if err := ds.AddAppointment(al.Policy.String(), al.Appointment); err != nil {
			sum.AppointmentsRejected++
			sum.Rejections = append(sum.Rejections, LineError{Line: al.Line, Err: fmt.Errorf("%s: %w", appointmentsPath, err)})
			log.Warn("appointment rejected", "line", al.Line, "policy", al.Policy.String(), "error", err)
			continue
		}
		sum.AppointmentsLoaded++
	}

	log.Info("import finished",
		"patients", sum.PatientsLoaded,
		"appointments", sum.AppointmentsLoaded,
		"rejected", sum.PatientsRejected+sum.AppointmentsRejected,
		"malformed", len(sum.Malformed))
	return sum, nil
}

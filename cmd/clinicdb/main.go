package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/yashagw/clinicdb/internal/config"
	"github.com/yashagw/clinicdb/internal/dataset"
	"github.com/yashagw/clinicdb/internal/importer"
	"github.com/yashagw/clinicdb/internal/logging"
	"github.com/yashagw/clinicdb/internal/shell"
)

// processCommand executes a command and prints the result.
// Returns true if the shell should exit (QUIT/EXIT command).
func processCommand(cmd string, sh *shell.Shell, r *shell.Renderer, out io.Writer) bool {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return false
	}

	upper := strings.ToUpper(cmd)
	if upper == "QUIT" || upper == "EXIT" {
		fmt.Fprintln(out, "Goodbye!")
		return true
	}

	r.Render(sh.Execute(cmd))
	return false
}

func printSummary(out io.Writer, sum importer.Summary) {
	fmt.Fprintf(out, "Imported %d patient(s) and %d appointment(s)\n", sum.PatientsLoaded, sum.AppointmentsLoaded)
	if n := sum.PatientsRejected + sum.AppointmentsRejected; n > 0 {
		fmt.Fprintf(out, "Rejected %d line(s):\n", n)
		for _, le := range sum.Rejections {
			fmt.Fprintf(out, "  %v\n", le)
		}
	}
	if len(sum.Malformed) > 0 {
		fmt.Fprintf(out, "Skipped %d malformed line(s):\n", len(sum.Malformed))
		for _, le := range sum.Malformed {
			fmt.Fprintf(out, "  %v\n", le)
		}
	}
	fmt.Fprintln(out)
}

// run is the whole program. It returns the process exit code so that
// deferred cleanup, the log file in particular, always happens.
func run(args []string, in io.Reader, out, errOut io.Writer) int {
	cfg, err := config.Parse(args[0], args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 2
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 2
	}
	if err := logging.Init(logging.Config{
		Level:      level,
		OutputPath: cfg.LogFile,
		Format:     cfg.LogFormat,
	}); err != nil {
		fmt.Fprintf(errOut, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logging.Close()

	log := logging.WithComponent("main")

	ds := dataset.New(dataset.Options{
		PatientCapacity:     cfg.PatientCapacity,
		HashTableSize:       cfg.HashTableSize,
		AppointmentCapacity: cfg.AppointmentCapacity,
	})

	r := shell.NewRenderer(out, !cfg.NoColor)
	r.Title("ClinicDB")

	if cfg.PatientsFile != "" || cfg.AppointmentsFile != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		sum, err := importer.LoadFiles(ctx, ds, cfg.PatientsFile, cfg.AppointmentsFile)
		stop()
		if err != nil {
			log.Error("import failed", "error", err)
			fmt.Fprintf(errOut, "Import failed: %v\n", err)
			return 1
		}
		printSummary(out, sum)
	}

	fmt.Fprintln(out, "Type 'QUIT' or 'EXIT' to exit. Commands end with ';'")
	fmt.Fprintln(out)

	sh := shell.New(ds)
	scanner := bufio.NewScanner(in)
	var cmdBuilder strings.Builder

	for {
		if cmdBuilder.Len() == 0 {
			fmt.Fprint(out, "clinicdb> ")
		} else {
			fmt.Fprint(out, "       -> ")
		}

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		upper := strings.ToUpper(strings.TrimSuffix(line, ";"))
		if cmdBuilder.Len() == 0 && (upper == "QUIT" || upper == "EXIT") {
			processCommand(upper, sh, r, out)
			break
		}

		if strings.HasSuffix(line, ";") {
			cmdBuilder.WriteString(" " + strings.TrimSuffix(line, ";"))
			cmd := cmdBuilder.String()
			cmdBuilder.Reset()
			if processCommand(cmd, sh, r, out) {
				break
			}
		} else {
			if cmdBuilder.Len() > 0 {
				cmdBuilder.WriteString(" ")
			}
			cmdBuilder.WriteString(line)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "Error reading input: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

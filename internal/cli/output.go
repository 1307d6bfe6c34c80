package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/mattn/go-isatty"

	"github.com/AntonStoeckl/querycache-stress-go/stress"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// reportJSON is the --output json rendering of a stress.Report.
type reportJSON struct {
	RunID             string  `json:"run_id"`
	Workers           int     `json:"workers"`
	AttemptsPerWorker int     `json:"attempts_per_worker"`
	Attempts          int64   `json:"attempts"`
	TotalErrors       int64   `json:"total_errors"`
	LastError         string  `json:"last_error,omitempty"`
	DurationMS        float64 `json:"duration_ms"`
}

// writeReport renders report in the requested format.
//
// The text format is the last error with its causes on errOut and "Total # of errors: <N>" on out.
// With verdict set, a colored one-line verdict follows on errOut.
func writeReport(report stress.Report, format string, verdict bool, out io.Writer, errOut io.Writer) error {
	if format == outputJSON {
		return writeReportJSON(report, out)
	}

	if err := report.WriteSummary(out, errOut); err != nil {
		return err
	}

	if !verdict {
		return nil
	}

	if report.HasErrors() {
		_, err := color.New(color.FgRed, color.Bold).Fprintf(errOut,
			"%d of %d attempts failed (%d workers, run %s)\n",
			report.TotalErrors, report.Attempts(), report.Workers, report.RunID)

		return err
	}

	_, err := color.New(color.FgGreen).Fprintf(errOut,
		"all %d attempts succeeded (%d workers, run %s)\n",
		report.Attempts(), report.Workers, report.RunID)

	return err
}

// isTerminal reports whether w writes to an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func writeReportJSON(report stress.Report, out io.Writer) error {
	rendered := reportJSON{
		RunID:             report.RunID,
		Workers:           report.Workers,
		AttemptsPerWorker: report.AttemptsPerWorker,
		Attempts:          report.Attempts(),
		TotalErrors:       report.TotalErrors,
		DurationMS:        float64(report.Duration.Microseconds()) / 1000,
	}

	if report.LastError != nil {
		rendered.LastError = report.LastError.Error()
	}

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(out).Encode(rendered); err != nil {
		return fmt.Errorf("encoding the report: %w", err)
	}

	return nil
}

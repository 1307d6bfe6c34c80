package stress

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const summaryTotalLine = "Total # of errors: %d\n"

// Report is the outcome of a run.
//
// TotalErrors and LastError come from the FaultAggregator; the remaining fields are filled in
// by the Coordinator and describe the run that produced them.
type Report struct {
	RunID             string
	Workers           int
	AttemptsPerWorker int
	TotalErrors       int64
	LastError         error
	Duration          time.Duration
}

// Attempts returns the number of attempts the run executed.
func (r Report) Attempts() int64 {
	return int64(r.Workers) * int64(r.AttemptsPerWorker)
}

// HasErrors reports whether any attempt failed.
func (r Report) HasErrors() bool {
	return r.TotalErrors > 0
}

// WriteSummary writes the last error, including its cause chain, to errOut (if there is one)
// and then the line "Total # of errors: <N>" to out.
func (r Report) WriteSummary(out io.Writer, errOut io.Writer) error {
	if r.LastError != nil {
		if err := WriteErrorDetail(errOut, r.LastError); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(out, summaryTotalLine, r.TotalErrors)

	return err
}

// WriteErrorDetail writes err followed by one indented "caused by" line per wrapped cause.
func WriteErrorDetail(w io.Writer, err error) error {
	if _, writeErr := fmt.Fprintln(w, err.Error()); writeErr != nil {
		return writeErr
	}

	return writeCauses(w, err, 1)
}

func writeCauses(w io.Writer, err error, depth int) error {
	var causes []error

	switch unwrapper := err.(type) {
	case interface{ Unwrap() []error }:
		causes = unwrapper.Unwrap()
	case interface{ Unwrap() error }:
		if cause := unwrapper.Unwrap(); cause != nil {
			causes = []error{cause}
		}
	}

	indent := strings.Repeat("\t", depth)
	for _, cause := range causes {
		if cause == nil {
			continue
		}

		if _, writeErr := fmt.Fprintf(w, "%scaused by (%T): %v\n", indent, cause, cause); writeErr != nil {
			return writeErr
		}

		if writeErr := writeCauses(w, cause, depth+1); writeErr != nil {
			return writeErr
		}
	}

	return nil
}

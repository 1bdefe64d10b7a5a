// Package report aggregates per-URL outcomes into the run summary table and
// the failed-download report file.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
)

const (
	StatusSuccess = "Success"
	StatusFailed  = "Failed"
)

// Outcome is the per-URL processing result. Immutable once its session
// completes.
type Outcome struct {
	OriginalURL    string
	ImageID        string
	Status         string
	OutputFilename string
	ErrorMessage   string
}

// NewOutcome starts a pessimistic outcome for url; Succeed flips it.
func NewOutcome(url string) *Outcome {
	return &Outcome{
		OriginalURL:    url,
		ImageID:        "N/A",
		Status:         StatusFailed,
		OutputFilename: "N/A",
	}
}

// Succeed marks the outcome successful with its output filename.
func (o *Outcome) Succeed(outputFilename string) {
	o.Status = StatusSuccess
	o.OutputFilename = outputFilename
	o.ErrorMessage = "N/A"
}

// Fail records the failure reason.
func (o *Outcome) Fail(reason string) {
	o.Status = StatusFailed
	o.ErrorMessage = reason
}

// WriteSummary renders the outcome table.
func WriteSummary(w io.Writer, outcomes []*Outcome) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Original URL", "Image ID", "Status", "Output Filename", "Error Message"})
	for _, o := range outcomes {
		table.Append([]string{
			valueOrNA(o.OriginalURL),
			valueOrNA(o.ImageID),
			valueOrNA(o.Status),
			valueOrNA(o.OutputFilename),
			valueOrNA(o.ErrorMessage),
		})
	}
	table.Render()
}

// WriteFailureReport persists the failures so the run can be retried by
// hand. An empty outcome list and an all-success run both still produce a
// file, so its presence always means the run finished.
func WriteFailureReport(path string, outcomes []*Outcome) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	var b strings.Builder
	switch {
	case len(outcomes) == 0:
		b.WriteString("The extractor did not attempt any downloads.\n")
	case !anyFailed(outcomes):
		b.WriteString("All downloads succeeded.\n")
	default:
		b.WriteString("Failed SmartFrame downloads:\n")
		for _, o := range outcomes {
			if o.Status == StatusSuccess {
				continue
			}
			reason := o.ErrorMessage
			if reason == "" {
				reason = "No additional error details."
			}
			fmt.Fprintf(&b, "- %s\n    Reason: %s\n", o.OriginalURL, reason)
		}
	}

	if err := os.WriteFile(abs, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write failure report %s: %w", abs, err)
	}
	return nil
}

func anyFailed(outcomes []*Outcome) bool {
	for _, o := range outcomes {
		if o.Status != StatusSuccess {
			return true
		}
	}
	return false
}

func valueOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

package capture

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	// DefaultAttempts and DefaultDelay tolerate very large render targets;
	// the embed can take several seconds to repaint at 9999x9999.
	DefaultAttempts = 15
	DefaultDelay    = 1000 * time.Millisecond
)

// Evaluator runs a wrapped script in the page and unmarshals its data
// payload into out.
type Evaluator interface {
	Evaluate(ctx context.Context, js string, out any) error
}

// Machine is the canvas search/export loop for one page session. Each
// attempt is a single search evaluation over the three candidate locations;
// the found canvas is staged page-side so the export evaluation can apply
// the borrowed-toDataURL trick to the same element.
type Machine struct {
	Attempts int
	Delay    time.Duration
	Selector string
}

// Run searches for the live canvas and exports its pixels. A search
// evaluation error counts as a miss for that attempt; exhausting all
// attempts yields CANVAS_NOT_FOUND.
func (m *Machine) Run(ctx context.Context, ev Evaluator) (*Result, error) {
	attempts := m.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	delay := m.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	search := SearchScript(m.Selector)
	for attempt := 1; attempt <= attempts; attempt++ {
		var found searchResult
		if err := ev.Evaluate(ctx, search, &found); err != nil {
			slog.Debug("canvas search attempt errored", "attempt", attempt, "max_attempts", attempts, "error", err)
		} else if found.Found {
			slog.Info("canvas located",
				"attempt", attempt,
				"location", found.Location,
				"width", found.Width,
				"height", found.Height)
			return m.export(ctx, ev, &found, attempt)
		} else {
			slog.Debug("canvas not found yet",
				"attempt", attempt,
				"max_attempts", attempts,
				"embed_present", found.EmbedPresent)
		}

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, NewError(CodeCaptureTimeout, "capture aborted between search attempts", ctx.Err())
			case <-time.After(delay):
			}
		}
	}

	return nil, NewError(CodeCanvasNotFound, "canvas not found after all retries", nil)
}

func (m *Machine) export(ctx context.Context, ev Evaluator, found *searchResult, attempt int) (*Result, error) {
	var exported exportResult
	if err := ev.Evaluate(ctx, ExportScript(), &exported); err != nil {
		var coded *CodedError
		if errors.As(err, &coded) {
			return nil, err
		}
		return nil, NewError(CodeExportFailure, "canvas export failed", err)
	}
	if exported.DataURL == "" {
		return nil, NewError(CodeExportFailure, "export produced an empty data URL", nil)
	}
	return &Result{
		DataURL:  exported.DataURL,
		Width:    found.Width,
		Height:   found.Height,
		Location: found.Location,
		Attempts: attempt,
	}, nil
}

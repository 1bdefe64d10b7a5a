// Package session drives one full page lifecycle: browser allocation,
// script injection, navigation, metadata extraction, the capture wait, and
// unconditional teardown.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/pellucid-labs/framegrab/internal/browser"
	"github.com/pellucid-labs/framegrab/internal/capture"
	"github.com/pellucid-labs/framegrab/internal/imageio"
	"github.com/pellucid-labs/framegrab/internal/inject"
	"github.com/pellucid-labs/framegrab/internal/metadata"
	"github.com/pellucid-labs/framegrab/internal/thumbnail"
)

// Config carries the per-session tunables.
type Config struct {
	Browser browser.Options

	CaptureAttempts int
	CaptureDelay    time.Duration
	SettleDelay     time.Duration
	MarkerTimeout   time.Duration
	NavTimeout      time.Duration
	EvalTimeout     time.Duration
}

// Result is what one session produced. On failure the pixel payload is
// empty but the request, resolved image id, and metadata record are still
// populated as far as the session got.
type Result struct {
	Request      *inject.CaptureRequest
	DataURL      string
	ImageID      string
	Metadata     *metadata.Record
	ThumbnailURL string
}

// Run processes one target URL through a fresh browser session. Teardown is
// unconditional; the returned Result is never nil once the URL validates.
func Run(ctx context.Context, targetURL string, cfg Config) (*Result, error) {
	req, err := inject.NewCaptureRequest(targetURL)
	if err != nil {
		return nil, capture.NewError(capture.CodeValidation, "invalid target url", err)
	}
	res := &Result{Request: req, Metadata: &metadata.Record{}}

	bs, err := browser.NewSession(ctx, cfg.Browser)
	if err != nil {
		return res, capture.NewError(capture.CodeCDPUnavailable, "browser session unavailable", err)
	}
	defer bs.Close()
	pageCtx := bs.Ctx

	ev := &pageEvaluator{evalTimeout: cfg.EvalTimeout}
	handler := &captureHandler{
		ctx:      pageCtx,
		ev:       ev,
		origin:   req.Origin,
		selector: req.Selector,
		attempts: cfg.CaptureAttempts,
		delay:    cfg.CaptureDelay,
	}
	chromedp.ListenTarget(pageCtx, handler.handleEvent)

	if err := installScripts(pageCtx, req, cfg.SettleDelay); err != nil {
		return res, capture.NewError(capture.CodeCDPUnavailable, "install capture scripts", err)
	}

	slog.Info("navigating to target", "url", targetURL)
	navCtx, navCancel := context.WithTimeout(pageCtx, cfg.NavTimeout)
	defer navCancel()
	if err := chromedp.Run(navCtx, chromedp.Navigate(targetURL)); err != nil {
		return res, capture.NewError(capture.CodeNavFailure, fmt.Sprintf("navigate to %s", targetURL), err)
	}

	extractPageData(pageCtx, req, res)

	slog.Info("waiting for capture marker", "selector", inject.MarkerReadySelector, "timeout", cfg.MarkerTimeout)
	markerCtx, markerCancel := context.WithTimeout(pageCtx, cfg.MarkerTimeout)
	defer markerCancel()
	if err := chromedp.Run(markerCtx, chromedp.WaitReady(inject.MarkerReadySelector, chromedp.ByQuery)); err != nil {
		resolveImageID(pageCtx, ev, req, res)
		return res, capture.NewError(capture.CodeCaptureTimeout, "capture marker never appeared", err)
	}

	var dataURL, markerErr string
	var okURL, okErr bool
	if err := chromedp.Run(pageCtx,
		chromedp.AttributeValue("#"+inject.MarkerID, "data-url", &dataURL, &okURL, chromedp.ByQuery),
		chromedp.AttributeValue("#"+inject.MarkerID, "data-error", &markerErr, &okErr, chromedp.ByQuery),
	); err != nil {
		return res, capture.NewError(capture.CodeEvalFailure, "read capture marker", err)
	}

	resolveImageID(pageCtx, ev, req, res)

	if okErr && markerErr != "" {
		return res, fmt.Errorf("Extension reported error: %s", markerErr)
	}
	if !okURL || !strings.HasPrefix(dataURL, imageio.PNGDataURLPrefix) {
		return res, fmt.Errorf("no valid image data URL received from capture marker")
	}
	res.DataURL = dataURL
	return res, nil
}

// installScripts registers the relay binding and the two init scripts: the
// main-world globals+initializer, and the relay in its isolated world.
func installScripts(pageCtx context.Context, req *inject.CaptureRequest, settle time.Duration) error {
	return chromedp.Run(pageCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := runtime.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable runtime domain: %w", err)
		}
		if err := page.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable page domain: %w", err)
		}
		if err := runtime.AddBinding(inject.BindingName).
			WithExecutionContextName(inject.RelayWorldName).
			Do(ctx); err != nil {
			return fmt.Errorf("add capture binding: %w", err)
		}

		initSource := inject.GlobalsScript(req) + "\n" + inject.InitializerScript(int(settle/time.Millisecond))
		if _, err := page.AddScriptToEvaluateOnNewDocument(initSource).Do(ctx); err != nil {
			return fmt.Errorf("register initializer script: %w", err)
		}
		if _, err := page.AddScriptToEvaluateOnNewDocument(inject.RelayScript()).
			WithWorldName(inject.RelayWorldName).
			Do(ctx); err != nil {
			return fmt.Errorf("register relay script: %w", err)
		}
		return nil
	}))
}

// extractPageData runs the metadata passes (gallery hosts) or resolves the
// thumbnail donor URL (other hosts). Extraction problems are absent values,
// never session failures.
func extractPageData(pageCtx context.Context, req *inject.CaptureRequest, res *Result) {
	var pageHTML string
	if err := chromedp.Run(pageCtx, chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery)); err != nil {
		slog.Warn("failed to read page HTML", "error", err)
		return
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		slog.Warn("failed to parse page HTML", "error", err)
		return
	}

	if !req.SmartFrameHost {
		res.ThumbnailURL = thumbnail.ResolveURL(doc, req.PageURL)
		return
	}

	metadata.Structured(doc, res.Metadata)
	if missing := res.Metadata.MissingCore(); len(missing) > 0 {
		slog.Info("running fallback metadata pass", "missing_fields", missing)
		var bodyText string
		if err := chromedp.Run(pageCtx, chromedp.Text("body", &bodyText, chromedp.ByQuery)); err != nil {
			slog.Warn("failed to read page text for fallback pass", "error", err)
		} else {
			metadata.Fallback(bodyText, res.Metadata)
		}
	}
	res.Metadata.Reconcile()
}

// resolveImageID reads the embed's image-id attribute and normalizes it.
// Runs on failure paths too so outcome records can still name the image.
func resolveImageID(pageCtx context.Context, ev capture.Evaluator, req *inject.CaptureRequest, res *Result) {
	var idResult struct {
		ImageID string `json:"image_id"`
	}
	if err := ev.Evaluate(pageCtx, inject.ResolveImageIDScript(req.Selector), &idResult); err != nil {
		slog.Warn("could not resolve image id", "error", err)
		return
	}
	if idResult.ImageID != "" {
		res.ImageID = inject.NormalizeImageID(idResult.ImageID)
		slog.Info("resolved image id", "image_id", res.ImageID)
	}
}

// captureHandler reacts to relay binding calls: it validates the request,
// runs the capture state machine, and always writes a result marker.
type captureHandler struct {
	ctx      context.Context
	ev       capture.Evaluator
	origin   string
	selector string
	attempts int
	delay    time.Duration

	inFlight atomic.Bool
}

func (h *captureHandler) handleEvent(ev any) {
	switch e := ev.(type) {
	case *runtime.EventBindingCalled:
		if e.Name != inject.BindingName {
			return
		}
		if !h.inFlight.CompareAndSwap(false, true) {
			slog.Warn("capture already in flight, ignoring duplicate request")
			return
		}
		go h.capture(e.Payload)
	case *runtime.EventConsoleAPICalled:
		slog.Debug("browser console", "type", e.Type, "message", consoleMessage(e))
	}
}

func (h *captureHandler) capture(payload string) {
	p, err := decodeBindingPayload(payload, h.origin)
	if err != nil {
		slog.Warn("rejected capture request", "error", err)
		h.inFlight.Store(false)
		return
	}

	selector := p.Selector
	if selector == "" {
		selector = h.selector
	}
	machine := &capture.Machine{Attempts: h.attempts, Delay: h.delay, Selector: selector}

	result, err := machine.Run(h.ctx, h.ev)

	var marker string
	if err != nil {
		msg := err.Error()
		var coded *capture.CodedError
		if errors.As(err, &coded) {
			msg = coded.Message
		}
		slog.Error("canvas capture failed", "error", err)
		marker = inject.MarkerScript("", msg)
	} else {
		slog.Info("canvas captured",
			"attempts", result.Attempts,
			"location", result.Location,
			"data_url_length", len(result.DataURL))
		marker = inject.MarkerScript(result.DataURL, "")
	}

	if err := h.ev.Evaluate(h.ctx, marker, nil); err != nil {
		slog.Error("failed to write capture marker", "error", err)
	}
}

func consoleMessage(e *runtime.EventConsoleAPICalled) string {
	parts := make([]string, 0, len(e.Args))
	for _, arg := range e.Args {
		if arg.Value != nil {
			parts = append(parts, string(arg.Value))
		}
	}
	return strings.Join(parts, " ")
}

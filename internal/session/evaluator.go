package session

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/pellucid-labs/framegrab/internal/capture"
)

// pageEvaluator runs wrapped scripts in the page's main world and decodes
// their envelope. It satisfies capture.Evaluator.
type pageEvaluator struct {
	evalTimeout time.Duration
}

func (e *pageEvaluator) Evaluate(ctx context.Context, js string, out any) error {
	evalCtx := ctx
	if e.evalTimeout > 0 {
		var cancel context.CancelFunc
		evalCtx, cancel = context.WithTimeout(ctx, e.evalTimeout)
		defer cancel()
	}

	var raw string
	err := chromedp.Run(evalCtx, chromedp.Evaluate(js, &raw, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true).WithReturnByValue(true)
	}))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return capture.NewError(capture.CodeEvalTimeout, "page evaluation timed out", err)
		}
		return capture.NewError(capture.CodeEvalFailure, "page evaluation failed", err)
	}
	return capture.DecodeEnvelope(raw, out)
}

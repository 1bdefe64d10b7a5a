// Package browser owns the Chromium allocator lifecycle for one page
// session: a throwaway profile directory, an oversized window, and
// unconditional teardown.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/chromedp/chromedp"
)

// Options configures one browser session.
type Options struct {
	Headless       bool
	RemoteCDPURL   string
	ViewportWidth  int
	ViewportHeight int
}

// Session is one allocated browser with a single page context. Close must
// run on every path; it tears down the browser and the temporary profile.
type Session struct {
	Ctx        context.Context
	cancels    []context.CancelFunc
	profileDir string
}

// NewSession allocates a browser. With RemoteCDPURL set it attaches to an
// already-running Chromium instead of spawning one; otherwise it launches a
// fresh process with a throwaway profile. The window is oversized because
// the embed renders its canvas at display size, and full-resolution capture
// needs a display that can hold it.
func NewSession(parent context.Context, opts Options) (*Session, error) {
	s := &Session{}

	width := opts.ViewportWidth
	height := opts.ViewportHeight
	if width <= 0 {
		width = 9999
	}
	if height <= 0 {
		height = 9999
	}

	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if opts.RemoteCDPURL != "" {
		slog.Info("attaching to remote browser", "url", opts.RemoteCDPURL)
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(parent, opts.RemoteCDPURL)
	} else {
		profileDir, err := os.MkdirTemp("", "framegrab_profile_")
		if err != nil {
			return nil, fmt.Errorf("create profile dir: %w", err)
		}
		s.profileDir = profileDir

		execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("ignore-certificate-errors", true),
			chromedp.Flag("start-maximized", true),
			chromedp.UserDataDir(profileDir),
			chromedp.WindowSize(width, height),
		)
		allocCtx, allocCancel = chromedp.NewExecAllocator(parent, execOpts...)
	}
	s.cancels = append(s.cancels, allocCancel)

	pageCtx, pageCancel := chromedp.NewContext(allocCtx)
	s.cancels = append(s.cancels, pageCancel)
	s.Ctx = pageCtx

	// Force the browser to actually start so failures surface here, not on
	// the first action.
	if err := chromedp.Run(pageCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return s, nil
}

// Close tears the session down: page context, allocator, then the profile
// directory.
func (s *Session) Close() {
	for i := len(s.cancels) - 1; i >= 0; i-- {
		s.cancels[i]()
	}
	s.cancels = nil

	if s.profileDir != "" {
		if err := os.RemoveAll(s.profileDir); err != nil {
			slog.Warn("failed to remove profile dir", "dir", s.profileDir, "error", err)
		}
		s.profileDir = ""
	}
}

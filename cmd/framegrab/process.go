package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pellucid-labs/framegrab/internal/browser"
	"github.com/pellucid-labs/framegrab/internal/config"
	"github.com/pellucid-labs/framegrab/internal/exiftool"
	"github.com/pellucid-labs/framegrab/internal/imageio"
	"github.com/pellucid-labs/framegrab/internal/output"
	"github.com/pellucid-labs/framegrab/internal/report"
	"github.com/pellucid-labs/framegrab/internal/session"
	"github.com/pellucid-labs/framegrab/internal/tagmap"
	"github.com/pellucid-labs/framegrab/internal/thumbnail"
)

// processURL takes one URL through capture, conversion, and metadata
// writing. Everything after a decoded image is best-effort: tagging or
// sidecar problems degrade the artifact, they never fail the download.
func processURL(ctx context.Context, targetURL string, cfg *config.Config, store *output.Store) *report.Outcome {
	out := report.NewOutcome(targetURL)

	sessCfg := session.Config{
		Browser: browser.Options{
			Headless:       cfg.Headless,
			RemoteCDPURL:   cfg.RemoteCDPURL,
			ViewportWidth:  cfg.ViewportWidth,
			ViewportHeight: cfg.ViewportHeight,
		},
		CaptureAttempts: cfg.CaptureAttempts,
		CaptureDelay:    cfg.CaptureDelay(),
		SettleDelay:     cfg.SettleDelay(),
		MarkerTimeout:   cfg.MarkerTimeout(),
		NavTimeout:      cfg.NavTimeout(),
		EvalTimeout:     cfg.EvalTimeout(),
	}

	res, err := session.Run(ctx, targetURL, sessCfg)
	if res != nil && res.ImageID != "" {
		out.ImageID = res.ImageID
	}
	if err != nil {
		slog.Error("capture session failed", "url", targetURL, "error", err)
		out.Fail(err.Error())
		return out
	}

	pngData, err := imageio.DecodePNGDataURL(res.DataURL)
	if err != nil {
		slog.Error("captured payload is unusable", "url", targetURL, "error", err)
		out.Fail(err.Error())
		return out
	}

	stem := res.ImageID
	if stem == "" {
		stem = stemFromURL(targetURL)
	}

	pngPath, err := store.SaveImage(stem, ".png", pngData)
	if err != nil {
		slog.Error("failed to save image", "url", targetURL, "error", err)
		out.Fail(err.Error())
		return out
	}
	slog.Info("image saved", "path", pngPath, "bytes", len(pngData))

	finalPath := pngPath
	jpgPath := strings.TrimSuffix(pngPath, ".png") + ".jpg"
	if err := imageio.ConvertPNGToJPEG(pngPath, jpgPath); err != nil {
		slog.Warn("jpeg conversion failed, keeping png", "path", pngPath, "error", err)
	} else {
		if err := os.Remove(pngPath); err != nil {
			slog.Warn("failed to remove intermediate png", "path", pngPath, "error", err)
		}
		finalPath = jpgPath
	}

	runner := &exiftool.Runner{Path: cfg.ExiftoolPath}

	if res.Request != nil && !res.Request.SmartFrameHost && res.ThumbnailURL != "" {
		transferThumbnailTags(ctx, cfg, runner, res.ThumbnailURL, finalPath)
	}

	if res.Metadata != nil && !res.Metadata.Empty() {
		if sidecarPath, err := store.SaveSidecar(finalPath, res.Metadata); err != nil {
			slog.Warn("failed to write metadata sidecar", "error", err)
		} else {
			slog.Info("metadata sidecar written", "path", sidecarPath)
		}
		if err := runner.WriteTags(ctx, finalPath, tagmap.Assignments(res.Metadata)); err != nil {
			slog.Warn("failed to write metadata tags", "image", finalPath, "error", err)
		}
	}

	out.Succeed(filepath.Base(finalPath))
	return out
}

// transferThumbnailTags downloads the page thumbnail and copies its embedded
// tags onto the captured image, then discards the thumbnail.
func transferThumbnailTags(ctx context.Context, cfg *config.Config, runner *exiftool.Runner, thumbnailURL, imagePath string) {
	thumbPath := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + "_thumb.jpg"

	client := &http.Client{Timeout: cfg.ThumbnailTimeout()}
	if err := thumbnail.Download(ctx, client, thumbnailURL, thumbPath); err != nil {
		slog.Warn("thumbnail download failed", "url", thumbnailURL, "error", err)
		return
	}
	defer func() {
		if err := os.Remove(thumbPath); err != nil {
			slog.Warn("failed to remove thumbnail", "path", thumbPath, "error", err)
		}
	}()

	if err := runner.TransferTags(ctx, thumbPath, imagePath); err != nil {
		slog.Warn("thumbnail tag transfer failed", "image", imagePath, "error", err)
		return
	}
	slog.Info("thumbnail tags transferred", "image", imagePath)
}

// stemFromURL derives a filename stem from the target URL when no image id
// was resolved.
func stemFromURL(targetURL string) string {
	u, err := url.Parse(targetURL)
	if err != nil {
		return output.SanitizeName(targetURL)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := segments[len(segments)-1]
	if last == "" {
		return output.SanitizeName(u.Host)
	}
	return output.SanitizeName(last)
}

package main

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pellucid-labs/framegrab/internal/config"
	"github.com/pellucid-labs/framegrab/internal/notify"
	"github.com/pellucid-labs/framegrab/internal/output"
	"github.com/pellucid-labs/framegrab/internal/report"
	"gopkg.in/natefinch/lumberjack.v2"
)

// exampleURL keeps the extractor runnable without a urls file.
const exampleURL = "https://archive.newsimages.co.uk/id/00333991"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		_, _ = io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n")
		os.Exit(1)
	}

	slog.Info("config loaded",
		"urls_file", cfg.URLsFile,
		"output_dir", cfg.OutputDir,
		"headless", cfg.Headless,
		"capture_attempts", cfg.CaptureAttempts,
		"marker_timeout_ms", cfg.MarkerTimeoutMS,
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	urls := loadURLs(cfg.URLsFile)

	store, err := output.NewStore(cfg.OutputDir)
	if err != nil {
		slog.Error("failed to prepare output directory", "dir", cfg.OutputDir, "error", err)
		os.Exit(1)
	}
	slog.Info("output directory ready", "dir", store.Dir())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var outcomes []*report.Outcome
	for i, targetURL := range urls {
		if ctx.Err() != nil {
			slog.Warn("run interrupted, skipping remaining URLs", "remaining", len(urls)-i)
			break
		}
		slog.Info("processing URL", "url", targetURL, "position", i+1, "total", len(urls))
		outcomes = append(outcomes, processURL(ctx, targetURL, cfg, store))
	}

	report.WriteSummary(os.Stdout, outcomes)

	if err := report.WriteFailureReport(cfg.FailedReportFile, outcomes); err != nil {
		slog.Error("failed to write failure report", "error", err)
	}

	succeeded, failed := countOutcomes(outcomes)
	slog.Info("run complete", "succeeded", succeeded, "failed", failed)

	if cfg.NotifyURL != "" {
		if err := notify.SendBatchSummary(context.Background(), http.DefaultClient, cfg.NotifyURL, succeeded, failed); err != nil {
			slog.Warn("failed to send run notification", "error", err)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// loadURLs reads the batch file, one URL per line. A missing or empty file
// falls back to the example URL so a bare invocation still demonstrates the
// pipeline.
func loadURLs(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		slog.Warn("urls file not readable, using example URL", "path", path, "error", err)
		return []string{exampleURL}
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("failed reading urls file", "path", path, "error", err)
	}
	if len(urls) == 0 {
		slog.Warn("urls file is empty, using example URL", "path", path)
		return []string{exampleURL}
	}
	return urls
}

func countOutcomes(outcomes []*report.Outcome) (succeeded, failed int) {
	for _, o := range outcomes {
		if o.Status == report.StatusSuccess {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

func setupLogger(level, filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}

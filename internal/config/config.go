package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the framegrab batch extractor.
type Config struct {
	// Batch input/output
	URLsFile         string
	OutputDir        string
	FailedReportFile string

	// Browser session settings
	Headless       bool
	RemoteCDPURL   string
	ViewportWidth  int
	ViewportHeight int

	// Capture behavior
	CaptureAttempts int
	CaptureDelayMS  int
	SettleDelayMS   int
	MarkerTimeoutMS int
	NavTimeoutMS    int
	EvalTimeoutMS   int

	// External tools
	ExiftoolPath       string
	ThumbnailTimeoutMS int

	// Logging and notification
	LogLevel  string
	LogFile   string
	NotifyURL string
}

// Load reads configuration from environment variables and optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		URLsFile:           getEnvOrDefault("FRAMEGRAB_URLS_FILE", "urls.txt"),
		OutputDir:          getEnvOrDefault("FRAMEGRAB_OUTPUT_DIR", "downloaded_images"),
		FailedReportFile:   getEnvOrDefault("FRAMEGRAB_FAILED_REPORT", "failed_downloads.txt"),
		Headless:           getEnvBoolOrDefault("FRAMEGRAB_HEADLESS", false),
		RemoteCDPURL:       getEnvOrDefault("FRAMEGRAB_CDP_URL", ""),
		ViewportWidth:      getEnvIntOrDefault("FRAMEGRAB_VIEWPORT_WIDTH", 9999),
		ViewportHeight:     getEnvIntOrDefault("FRAMEGRAB_VIEWPORT_HEIGHT", 9999),
		CaptureAttempts:    getEnvIntOrDefault("FRAMEGRAB_CAPTURE_ATTEMPTS", 15),
		CaptureDelayMS:     getEnvIntOrDefault("FRAMEGRAB_CAPTURE_DELAY_MS", 1000),
		SettleDelayMS:      getEnvIntOrDefault("FRAMEGRAB_SETTLE_DELAY_MS", 3000),
		MarkerTimeoutMS:    getEnvIntOrDefault("FRAMEGRAB_MARKER_TIMEOUT_MS", 120000),
		NavTimeoutMS:       getEnvIntOrDefault("FRAMEGRAB_NAV_TIMEOUT_MS", 60000),
		EvalTimeoutMS:      getEnvIntOrDefault("FRAMEGRAB_EVAL_TIMEOUT_MS", 30000),
		ExiftoolPath:       getEnvOrDefault("FRAMEGRAB_EXIFTOOL_PATH", "exiftool"),
		ThumbnailTimeoutMS: getEnvIntOrDefault("FRAMEGRAB_THUMBNAIL_TIMEOUT_MS", 10000),
		LogLevel:           getEnvOrDefault("FRAMEGRAB_LOG_LEVEL", "info"),
		LogFile:            getEnvOrDefault("FRAMEGRAB_LOG_FILE", "logs/framegrab.log"),
		NotifyURL:          getEnvOrDefault("FRAMEGRAB_NOTIFY_URL", ""),
	}

	return cfg, nil
}

// CaptureDelay returns the pause between canvas search attempts.
func (c *Config) CaptureDelay() time.Duration {
	return time.Duration(c.CaptureDelayMS) * time.Millisecond
}

// SettleDelay returns the wait applied after embed resizing before capture.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

// MarkerTimeout bounds the wait for the capture result marker element.
func (c *Config) MarkerTimeout() time.Duration {
	return time.Duration(c.MarkerTimeoutMS) * time.Millisecond
}

// NavTimeout bounds page navigation.
func (c *Config) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutMS) * time.Millisecond
}

// EvalTimeout bounds a single in-page evaluation.
func (c *Config) EvalTimeout() time.Duration {
	return time.Duration(c.EvalTimeoutMS) * time.Millisecond
}

// ThumbnailTimeout bounds a thumbnail HTTP download.
func (c *Config) ThumbnailTimeout() time.Duration {
	return time.Duration(c.ThumbnailTimeoutMS) * time.Millisecond
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// Package exiftool shells out to the external exiftool binary to write and
// transfer image metadata tags.
package exiftool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner invokes one exiftool binary. The zero value uses "exiftool" from
// PATH.
type Runner struct {
	Path string
}

func (r *Runner) binary() string {
	if r.Path != "" {
		return r.Path
	}
	return "exiftool"
}

// WriteTags applies the given tag assignments to imagePath in place.
func (r *Runner) WriteTags(ctx context.Context, imagePath string, assignments []string) error {
	if len(assignments) == 0 {
		slog.Info("no tag assignments to write", "image", imagePath)
		return nil
	}
	args := append([]string{"-overwrite_original"}, assignments...)
	args = append(args, imagePath)
	return r.run(ctx, args)
}

// TransferTags copies all tags from sourcePath into targetPath in place.
func (r *Runner) TransferTags(ctx context.Context, sourcePath, targetPath string) error {
	return r.run(ctx, []string{"-tagsFromFile", sourcePath, "-overwrite_original", targetPath})
}

func (r *Runner) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.binary(), args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if out := strings.TrimSpace(stdout.String()); out != "" {
		slog.Debug("exiftool stdout", "output", out)
	}
	if errOut := strings.TrimSpace(stderr.String()); errOut != "" {
		slog.Warn("exiftool stderr", "output", errOut)
	}

	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("exiftool binary %q not found in PATH: %w", r.binary(), err)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("exiftool exited with code %d: %s", exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
	}
	return fmt.Errorf("run exiftool: %w", err)
}

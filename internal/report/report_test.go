package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteSummaryRendersAllColumns(t *testing.T) {
	success := NewOutcome("https://example.com/a")
	success.ImageID = "001"
	success.Succeed("001.jpg")

	failed := NewOutcome("https://example.com/b")
	failed.Fail("canvas not found after all retries")

	var buf bytes.Buffer
	WriteSummary(&buf, []*Outcome{success, failed})
	got := buf.String()

	for _, want := range []string{
		"ORIGINAL URL", "IMAGE ID", "STATUS", "OUTPUT FILENAME", "ERROR MESSAGE",
		"https://example.com/a", "001.jpg", "Success",
		"https://example.com/b", "Failed", "canvas not found after all",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestWriteFailureReportNoAttempts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed.txt")
	if err := WriteFailureReport(path, nil); err != nil {
		t.Fatalf("WriteFailureReport failed: %v", err)
	}
	got := readFile(t, path)
	if got != "The extractor did not attempt any downloads.\n" {
		t.Fatalf("report = %q", got)
	}
}

func TestWriteFailureReportAllSuccess(t *testing.T) {
	o := NewOutcome("https://example.com/a")
	o.Succeed("a.jpg")

	path := filepath.Join(t.TempDir(), "failed.txt")
	if err := WriteFailureReport(path, []*Outcome{o}); err != nil {
		t.Fatalf("WriteFailureReport failed: %v", err)
	}
	if got := readFile(t, path); got != "All downloads succeeded.\n" {
		t.Fatalf("report = %q", got)
	}
}

func TestWriteFailureReportListsFailures(t *testing.T) {
	ok := NewOutcome("https://example.com/ok")
	ok.Succeed("ok.jpg")

	bad := NewOutcome("https://example.com/bad")
	bad.Fail("Extension reported error: canvas not found after all retries")

	silent := NewOutcome("https://example.com/silent")

	path := filepath.Join(t.TempDir(), "failed.txt")
	if err := WriteFailureReport(path, []*Outcome{ok, bad, silent}); err != nil {
		t.Fatalf("WriteFailureReport failed: %v", err)
	}
	got := readFile(t, path)

	if !strings.HasPrefix(got, "Failed SmartFrame downloads:\n") {
		t.Fatalf("report = %q", got)
	}
	if !strings.Contains(got, "- https://example.com/bad\n    Reason: Extension reported error: canvas not found after all retries\n") {
		t.Fatalf("report missing failure detail:\n%s", got)
	}
	if !strings.Contains(got, "- https://example.com/silent\n    Reason: No additional error details.\n") {
		t.Fatalf("report missing default reason:\n%s", got)
	}
	if strings.Contains(got, "example.com/ok") {
		t.Fatalf("report lists a success:\n%s", got)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(raw)
}

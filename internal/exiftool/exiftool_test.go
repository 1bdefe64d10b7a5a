package exiftool

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exiftool-stub")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestWriteTagsNoAssignments(t *testing.T) {
	r := &Runner{Path: "/nonexistent/exiftool"}
	if err := r.WriteTags(context.Background(), "img.jpg", nil); err != nil {
		t.Fatalf("empty assignment list must not invoke the binary: %v", err)
	}
}

func TestWriteTagsArgumentOrder(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args.txt")
	stub := writeStub(t, `printf '%s\n' "$@" > `+argsFile)
	r := &Runner{Path: stub}

	err := r.WriteTags(context.Background(), "out.jpg", []string{"-IPTC:City=Paris"})
	if err != nil {
		t.Fatalf("WriteTags failed: %v", err)
	}

	raw, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	got := strings.Split(strings.TrimSpace(string(raw)), "\n")
	want := []string{"-overwrite_original", "-IPTC:City=Paris", "out.jpg"}
	if len(got) != len(want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("args[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTransferTagsArgumentOrder(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args.txt")
	stub := writeStub(t, `printf '%s\n' "$@" > `+argsFile)
	r := &Runner{Path: stub}

	if err := r.TransferTags(context.Background(), "thumb.jpg", "out.jpg"); err != nil {
		t.Fatalf("TransferTags failed: %v", err)
	}

	raw, _ := os.ReadFile(argsFile)
	want := "-tagsFromFile\nthumb.jpg\n-overwrite_original\nout.jpg"
	if strings.TrimSpace(string(raw)) != want {
		t.Fatalf("args = %q, want %q", strings.TrimSpace(string(raw)), want)
	}
}

func TestRunReportsExitCode(t *testing.T) {
	stub := writeStub(t, "echo 'bad tag' >&2\nexit 3")
	r := &Runner{Path: stub}

	err := r.WriteTags(context.Background(), "out.jpg", []string{"-IPTC:City=Paris"})
	if err == nil {
		t.Fatal("failing exiftool did not error")
	}
	if !strings.Contains(err.Error(), "code 3") || !strings.Contains(err.Error(), "bad tag") {
		t.Fatalf("error = %v", err)
	}
}

func TestRunMissingBinary(t *testing.T) {
	r := &Runner{Path: "/nonexistent/exiftool"}
	if err := r.TransferTags(context.Background(), "a.jpg", "b.jpg"); err == nil {
		t.Fatal("missing binary did not error")
	}
}

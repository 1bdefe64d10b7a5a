package thumbnail

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestResolveURLPrefersOGImage(t *testing.T) {
	doc := parseDoc(t, `<html><head>
<meta name="twitter:image" content="https://cdn.example.com/tw.jpg">
<meta property="og:image" content="/images/og.jpg">
</head></html>`)

	got := ResolveURL(doc, "https://example.com/photo/1")
	if got != "https://example.com/images/og.jpg" {
		t.Fatalf("ResolveURL = %q", got)
	}
}

func TestResolveURLFallsBackToTwitter(t *testing.T) {
	doc := parseDoc(t, `<html><head>
<meta name="twitter:image" content="https://cdn.example.com/tw.jpg">
</head></html>`)

	if got := ResolveURL(doc, "https://example.com/"); got != "https://cdn.example.com/tw.jpg" {
		t.Fatalf("ResolveURL = %q", got)
	}
}

func TestResolveURLNoneFound(t *testing.T) {
	doc := parseDoc(t, `<html><head><title>plain</title></head></html>`)
	if got := ResolveURL(doc, "https://example.com/"); got != "" {
		t.Fatalf("ResolveURL = %q, want empty", got)
	}
}

func TestDownload(t *testing.T) {
	payload := []byte("jpeg-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "thumb.jpg")
	if err := Download(context.Background(), srv.Client(), srv.URL, path); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("downloaded payload = %q", got)
	}
}

func TestDownloadNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	err := Download(context.Background(), srv.Client(), srv.URL, filepath.Join(t.TempDir(), "thumb.jpg"))
	if err == nil {
		t.Fatal("404 response did not error")
	}
	if !strings.Contains(err.Error(), "status=404") {
		t.Fatalf("error = %v", err)
	}
}

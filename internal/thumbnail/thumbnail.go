// Package thumbnail resolves and downloads a page's preview image, used as
// the metadata donor for non-gallery hosts.
package thumbnail

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ResolveURL extracts the page's preview image URL from its social meta
// tags, preferring og:image over twitter:image, resolved against pageURL.
func ResolveURL(doc *goquery.Document, pageURL string) string {
	for _, selector := range []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
	} {
		content, ok := doc.Find(selector).First().Attr("content")
		if !ok || strings.TrimSpace(content) == "" {
			continue
		}
		resolved := resolveAgainst(pageURL, strings.TrimSpace(content))
		slog.Info("found thumbnail URL", "selector", selector, "url", resolved)
		return resolved
	}
	slog.Debug("no thumbnail URL in page metadata")
	return ""
}

func resolveAgainst(pageURL, ref string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(r).String()
}

// Download fetches thumbnailURL to outputPath. The client's timeout bounds
// the whole transfer.
func Download(ctx context.Context, client *http.Client, thumbnailURL, outputPath string) error {
	c := client
	if c == nil {
		c = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, thumbnailURL, nil)
	if err != nil {
		return fmt.Errorf("build thumbnail request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("fetch thumbnail: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("thumbnail fetch failed: status=%d", resp.StatusCode)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create thumbnail file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("write thumbnail file: %w", err)
	}
	return f.Close()
}

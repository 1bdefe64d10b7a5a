package inject

import (
	"fmt"
	"net/url"
	"strings"
)

// CaptureRequest describes one page session's capture target. Built once
// from the input URL and immutable afterwards.
type CaptureRequest struct {
	PageURL        string
	Origin         string
	Selector       string
	ImageID        string
	SmartFrameHost bool
}

// NewCaptureRequest derives the embed selector, target image id, and origin
// constraint from a target URL. SmartFrame gallery URLs carry the image id as
// the last path segment; other hosts fall back to the bare embed tag.
func NewCaptureRequest(rawURL string) (*CaptureRequest, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse target url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("target url %q has no scheme or host", rawURL)
	}

	req := &CaptureRequest{
		PageURL:  rawURL,
		Origin:   u.Scheme + "://" + u.Host,
		Selector: "smartframe-embed",
	}

	host := strings.ToLower(u.Hostname())
	req.SmartFrameHost = host == "smartframe.com" || strings.HasSuffix(host, ".smartframe.com")
	if !req.SmartFrameHost {
		return req, nil
	}

	if seg := lastPathSegment(u.Path); seg != "" {
		req.ImageID = seg
		req.Selector = fmt.Sprintf("smartframe-embed[image-id=%q]", seg)
	} else {
		req.Selector = "smartframe-embed:not([thumbnail-mode])"
	}
	return req, nil
}

func lastPathSegment(path string) string {
	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}

// NormalizeImageID reduces a raw image-id attribute to its filename form:
// the portion after the last underscore, with spaces dashed.
func NormalizeImageID(raw string) string {
	parts := strings.Split(raw, "_")
	id := parts[len(parts)-1]
	return strings.ReplaceAll(id, " ", "-")
}

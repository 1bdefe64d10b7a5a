package inject

import "testing"

func TestNewCaptureRequestSmartFrameHost(t *testing.T) {
	req, err := NewCaptureRequest("https://gallery.smartframe.com/photos/SF_2021 Paris_001")
	if err != nil {
		t.Fatalf("NewCaptureRequest failed: %v", err)
	}
	if !req.SmartFrameHost {
		t.Fatal("SmartFrameHost = false for smartframe.com subdomain")
	}
	if req.ImageID != "SF_2021 Paris_001" {
		t.Fatalf("ImageID = %q", req.ImageID)
	}
	if want := `smartframe-embed[image-id="SF_2021 Paris_001"]`; req.Selector != want {
		t.Fatalf("Selector = %q, want %q", req.Selector, want)
	}
	if req.Origin != "https://gallery.smartframe.com" {
		t.Fatalf("Origin = %q", req.Origin)
	}
}

func TestNewCaptureRequestSmartFrameNoPath(t *testing.T) {
	req, err := NewCaptureRequest("https://smartframe.com/")
	if err != nil {
		t.Fatalf("NewCaptureRequest failed: %v", err)
	}
	if req.ImageID != "" {
		t.Fatalf("ImageID = %q, want empty", req.ImageID)
	}
	if req.Selector != "smartframe-embed:not([thumbnail-mode])" {
		t.Fatalf("Selector = %q", req.Selector)
	}
}

func TestNewCaptureRequestOtherHost(t *testing.T) {
	req, err := NewCaptureRequest("https://archive.newsimages.co.uk/id/00333991")
	if err != nil {
		t.Fatalf("NewCaptureRequest failed: %v", err)
	}
	if req.SmartFrameHost {
		t.Fatal("SmartFrameHost = true for non-smartframe host")
	}
	if req.Selector != "smartframe-embed" {
		t.Fatalf("Selector = %q", req.Selector)
	}
	if req.ImageID != "" {
		t.Fatalf("ImageID = %q, want empty for non-smartframe host", req.ImageID)
	}
}

func TestNewCaptureRequestRejectsRelative(t *testing.T) {
	if _, err := NewCaptureRequest("not-a-url"); err == nil {
		t.Fatal("relative input did not error")
	}
}

func TestNewCaptureRequestDoesNotMatchLookalikeHost(t *testing.T) {
	req, err := NewCaptureRequest("https://notsmartframe.com/id/123")
	if err != nil {
		t.Fatalf("NewCaptureRequest failed: %v", err)
	}
	if req.SmartFrameHost {
		t.Fatal("suffix match must require a dot boundary")
	}
}

func TestNormalizeImageID(t *testing.T) {
	cases := []struct{ in, want string }{
		{"SF_2021 Paris_001", "001"},
		{"prefix_ab cd", "ab-cd"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeImageID(tc.in); got != tc.want {
			t.Fatalf("NormalizeImageID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

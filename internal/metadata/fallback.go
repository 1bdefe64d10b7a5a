package metadata

import (
	"log/slog"
	"strings"
)

// minCaptionLength guards the caption heuristic against picking up stray
// single-character lines.
const minCaptionLength = 3

// Fallback runs the text-based pass over the page's visible body text,
// filling only fields the structured pass left empty. It understands the
// structured markers plus three fallback-only ones (Photographer:, Country:,
// City:).
func Fallback(bodyText string, rec *Record) {
	lines := strings.Split(bodyText, "\n")

	for _, rawLine := range lines {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		switch {
		case rec.Date == "" && strings.HasPrefix(line, "When:"):
			setIfEmpty(&rec.Date, strings.TrimPrefix(line, "When:"))
		case rec.Credit == "" && strings.HasPrefix(line, "Credit:"):
			setIfEmpty(&rec.Credit, strings.TrimPrefix(line, "Credit:"))
		case rec.Featuring == "" && strings.HasPrefix(line, "Featuring:"):
			setIfEmpty(&rec.Featuring, strings.TrimPrefix(line, "Featuring:"))
		case rec.Location == "" && strings.HasPrefix(line, "Where:"):
			applyLocation(strings.TrimPrefix(line, "Where:"), rec)
		case rec.ImageID == "" && strings.Contains(line, "SmartFrame image ID:"):
			parts := strings.Split(line, "SmartFrame image ID:")
			setIfEmpty(&rec.ImageID, parts[len(parts)-1])
		case rec.ImageSize == "" && strings.Contains(line, "Image size:"):
			parts := strings.Split(line, "Image size:")
			setIfEmpty(&rec.ImageSize, parts[len(parts)-1])
		case rec.Photographer == "" && strings.HasPrefix(line, "Photographer:"):
			setIfEmpty(&rec.Photographer, strings.TrimPrefix(line, "Photographer:"))
		case rec.Country == "" && strings.HasPrefix(line, "Country:"):
			setIfEmpty(&rec.Country, strings.TrimPrefix(line, "Country:"))
		case rec.City == "" && strings.HasPrefix(line, "City:"):
			setIfEmpty(&rec.City, strings.TrimPrefix(line, "City:"))
		}
	}

	if rec.Caption == "" && rec.Provider != "" {
		if caption := captionAfterProvider(lines, rec.Provider); caption != "" {
			rec.Caption = caption
			slog.Debug("fallback pass derived caption", "caption", caption)
		}
	}
}

// captionAfterProvider is the fallback caption heuristic: the line right
// after the provider label, unless it is itself a marker line or too short.
func captionAfterProvider(lines []string, provider string) string {
	for i, line := range lines {
		if strings.TrimSpace(line) != provider || i+1 >= len(lines) {
			continue
		}
		candidate := strings.TrimSpace(lines[i+1])
		if candidate == "" ||
			strings.HasPrefix(candidate, "When:") ||
			strings.HasPrefix(candidate, "Credit:") ||
			len(candidate) <= minCaptionLength {
			continue
		}
		return candidate
	}
	return ""
}

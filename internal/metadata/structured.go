package metadata

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// detailMarkers is the fixed vocabulary of the details paragraph. Each marker
// is forced onto its own line before the paragraph is split and scanned.
var detailMarkers = []string{
	"Featuring:",
	"Where:",
	"When:",
	"Credit:",
	"SmartFrame image ID:",
	"Image size:",
}

// containerSelector matches the metadata block on SmartFrame gallery pages.
const containerSelector = "div.flex.flex-col.gap-4x"

// Structured runs the structured extraction pass over a parsed page. Missing
// elements are absent values, not errors; the record is only ever added to.
func Structured(doc *goquery.Document, rec *Record) {
	container := doc.Find(containerSelector).First()
	if container.Length() == 0 {
		slog.Debug("structured metadata container not found")
		return
	}

	sections := container.Find("section")

	if provider := strings.TrimSpace(sections.Eq(0).Find("h2").First().Text()); provider != "" {
		setIfEmpty(&rec.Provider, provider)
		slog.Debug("structured pass found provider", "provider", provider)
	}

	if caption := strings.TrimSpace(sections.Eq(1).Find("h1").First().Text()); caption != "" {
		setIfEmpty(&rec.Caption, caption)
		slog.Debug("structured pass found caption", "caption", caption)
	}

	if details := paragraphText(sections.Eq(1).Find("p").First()); details != "" {
		parseDetails(details, rec)
	}

	container.Find("section.bg-iy-neutral-100 li").Each(func(_ int, li *goquery.Selection) {
		scanInfoItem(li.Text(), rec)
	})
}

// paragraphText extracts a paragraph's text with <br> boundaries preserved as
// newlines, matching what a rendered-text read of the node would produce.
func paragraphText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	clone := sel.Clone()
	clone.Find("br").ReplaceWithHtml("\n")
	return strings.TrimSpace(clone.Text())
}

// parseDetails splits the details paragraph into its marker lines. Narrative
// sentences before the first marker flow into caption, title, and subject.
func parseDetails(details string, rec *Record) {
	normalized := strings.ReplaceAll(details, "\u00a0", " ")
	for _, marker := range detailMarkers {
		normalized = strings.ReplaceAll(normalized, " "+marker, "\n"+marker)
	}

	var prefaceLines []string
	markerSectionStarted := false
	for _, rawLine := range strings.Split(normalized, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if !lineStartsWithMarker(line) {
			if !markerSectionStarted {
				prefaceLines = append(prefaceLines, line)
			}
			continue
		}
		markerSectionStarted = true

		switch {
		case strings.HasPrefix(line, "When:"):
			setIfEmpty(&rec.Date, strings.TrimPrefix(line, "When:"))
		case strings.HasPrefix(line, "Credit:"):
			setIfEmpty(&rec.Credit, strings.TrimPrefix(line, "Credit:"))
		case strings.HasPrefix(line, "Featuring:"):
			setIfEmpty(&rec.Featuring, strings.TrimPrefix(line, "Featuring:"))
		case strings.HasPrefix(line, "Where:"):
			applyLocation(strings.TrimPrefix(line, "Where:"), rec)
		case strings.HasPrefix(line, "SmartFrame image ID:"):
			setIfEmpty(&rec.ImageID, strings.TrimPrefix(line, "SmartFrame image ID:"))
		case strings.HasPrefix(line, "Image size:"):
			setIfEmpty(&rec.ImageSize, strings.TrimPrefix(line, "Image size:"))
		}
	}

	if len(prefaceLines) == 0 {
		return
	}
	preface := strings.Join(prefaceLines, " | ")
	if rec.Caption == "" {
		rec.Caption = preface
	} else if !strings.Contains(rec.Caption, preface) {
		rec.Caption = preface + " | " + rec.Caption
	}
	setIfEmpty(&rec.Title, preface)
	setIfEmpty(&rec.Subject, preface)
}

// applyLocation records a Where: value and derives city/country from its
// comma parts: a single part is the city; otherwise first is city, last is
// country.
func applyLocation(value string, rec *Record) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	setIfEmpty(&rec.Location, value)

	var parts []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return
	}
	setIfEmpty(&rec.City, parts[0])
	if len(parts) > 1 {
		setIfEmpty(&rec.Country, parts[len(parts)-1])
	}
}

// scanInfoItem matches a "Label: value" list item against the secondary
// field vocabulary, filling only fields that are still empty.
func scanInfoItem(text string, rec *Record) {
	normalized := strings.Join(strings.Fields(text), " ")
	label, value, ok := strings.Cut(normalized, ":")
	if !ok {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	switch strings.ToLower(strings.TrimSpace(label)) {
	case "smartframe image id":
		setIfEmpty(&rec.ImageID, value)
	case "image size":
		setIfEmpty(&rec.ImageSize, value)
	case "credit":
		setIfEmpty(&rec.Credit, value)
	case "photographer":
		setIfEmpty(&rec.Photographer, value)
	case "country":
		setIfEmpty(&rec.Country, value)
	case "city":
		setIfEmpty(&rec.City, value)
	}
}

func lineStartsWithMarker(line string) bool {
	for _, marker := range detailMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

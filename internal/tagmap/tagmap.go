// Package tagmap converts a normalized metadata record into the exiftool
// field assignments that embed it across the EXIF, IPTC, and XMP namespaces.
package tagmap

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/pellucid-labs/framegrab/internal/metadata"
)

// featuringSplit separates the names in a Featuring: value.
var featuringSplit = regexp.MustCompile(`,| and `)

// Assignments maps the populated fields of rec to exiftool tag assignments,
// in a stable order. Unset fields emit nothing. The field names are the
// external tool's wire contract and must match exiftool's tag tables.
func Assignments(rec *metadata.Record) []string {
	var args []string

	if rec.Caption != "" {
		args = append(args,
			"-IPTC:Caption-Abstract="+rec.Caption,
			"-XMP:Description="+rec.Caption,
			"-EXIF:ImageDescription="+rec.Caption,
		)
	}

	if rec.Title != "" {
		args = append(args,
			"-IPTC:ObjectName="+rec.Title,
			"-IPTC:Headline="+rec.Title,
			"-XMP:Title="+rec.Title,
			"-XMP-photoshop:Headline="+rec.Title,
			"-EXIF:XPTitle="+rec.Title,
		)
	}

	if rec.Subject != "" {
		args = append(args,
			"-XMP:Subject="+rec.Subject,
			"-IPTC:Keywords="+rec.Subject,
		)
	}

	if rec.Credit != "" {
		args = append(args,
			"-IPTC:Credit="+rec.Credit,
			"-IPTC:By-line="+rec.Credit,
			"-XMP:Credit="+rec.Credit,
			"-EXIF:Artist="+rec.Credit,
			"-XMP:Creator="+rec.Credit,
		)
	}

	if rec.Provider != "" {
		args = append(args,
			"-IPTC:Source="+rec.Provider,
			"-XMP:Source="+rec.Provider,
		)
	}

	if rec.Date != "" {
		args = append(args, dateAssignments(rec.Date)...)
	}

	if rec.City != "" {
		args = append(args,
			"-IPTC:City="+rec.City,
			"-XMP-photoshop:City="+rec.City,
		)
	}

	if rec.Country != "" {
		args = append(args,
			"-IPTC:Country-PrimaryLocationName="+rec.Country,
			"-XMP-photoshop:Country="+rec.Country,
		)
	}

	if rec.Location != "" {
		args = append(args,
			"-IPTC:Sub-location="+rec.Location,
			"-XMP-photoshop:Location="+rec.Location,
		)
	}

	if rec.Photographer != "" {
		args = append(args, "-XMP:Contributor="+rec.Photographer)
	}

	for _, person := range SplitFeaturing(rec.Featuring) {
		args = append(args, "-XMP:PersonInImage+="+person)
	}

	if rec.ImageID != "" {
		args = append(args,
			"-XMP:Identifier="+rec.ImageID,
			"-IPTC:OriginalTransmissionReference="+rec.ImageID,
		)
	}

	if comment := Comment(rec); comment != "" {
		args = append(args,
			"-EXIF:UserComment="+comment,
			"-XMP:UserComment="+comment,
		)
	}

	return args
}

// dateAssignments projects the raw date through DateComponents. When the
// date cannot be parsed the raw text still lands in the two permissive
// date-created fields.
func dateAssignments(raw string) []string {
	dc, err := metadata.ParseDateComponents(raw)
	if err != nil {
		slog.Warn("date not parseable into structured components", "date", raw, "error", err)
		cleaned := strings.TrimSpace(raw)
		if cleaned == "" {
			return nil
		}
		return []string{
			"-IPTC:DateCreated=" + cleaned,
			"-XMP:DateCreated=" + cleaned,
		}
	}
	return []string{
		"-EXIF:DateTimeOriginal=" + dc.ExifDateTime,
		"-EXIF:CreateDate=" + dc.ExifDateTime,
		"-EXIF:DateTimeDigitized=" + dc.ExifDateTime,
		"-IPTC:DateCreated=" + dc.IPTCDate,
		"-IPTC:TimeCreated=" + dc.IPTCTime,
		"-XMP:DateCreated=" + dc.XMPDateTime,
		"-XMP:DateTimeOriginal=" + dc.XMPDateTime,
		"-XMP:CreateDate=" + dc.XMPDateTime,
		"-XMP:MetadataDate=" + dc.XMPDateTime,
		"-XMP:ModifyDate=" + dc.XMPDateTime,
	}
}

// SplitFeaturing breaks a Featuring: value into individual names on commas
// and the word "and".
func SplitFeaturing(featuring string) []string {
	if featuring == "" {
		return nil
	}
	var names []string
	for _, part := range featuringSplit.Split(featuring, -1) {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		names = []string{strings.TrimSpace(featuring)}
	}
	return names
}

// Comment synthesizes the free-text summary embedded in the user-comment
// fields. Values equal to an already-included field are skipped to avoid a
// comment full of duplicates; image size is deliberately left out.
func Comment(rec *metadata.Record) string {
	var parts []string
	if rec.Caption != "" {
		parts = append(parts, "Caption: "+rec.Caption)
	}
	if rec.Date != "" {
		parts = append(parts, "Date: "+rec.Date)
	}
	if rec.Credit != "" {
		parts = append(parts, "Credit: "+rec.Credit)
	}
	if rec.Photographer != "" && rec.Photographer != rec.Credit {
		parts = append(parts, "Photographer: "+rec.Photographer)
	}
	if rec.ImageID != "" {
		parts = append(parts, "Image ID: "+rec.ImageID)
	}
	if rec.Provider != "" {
		parts = append(parts, "Provider: "+rec.Provider)
	}
	var locationParts []string
	if rec.City != "" {
		locationParts = append(locationParts, rec.City)
	}
	if rec.Country != "" {
		locationParts = append(locationParts, rec.Country)
	}
	if len(locationParts) > 0 {
		parts = append(parts, "Location: "+strings.Join(locationParts, ", "))
	} else if rec.Location != "" {
		parts = append(parts, "Location: "+rec.Location)
	}
	if rec.Featuring != "" {
		parts = append(parts, "Featuring: "+rec.Featuring)
	}
	if rec.Subject != "" && rec.Subject != rec.Caption {
		parts = append(parts, "Subject: "+rec.Subject)
	}
	if rec.Title != "" && rec.Title != rec.Caption && rec.Title != rec.Subject {
		parts = append(parts, "Title: "+rec.Title)
	}
	return strings.Join(parts, " | ")
}

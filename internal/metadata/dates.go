package metadata

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/araddon/dateparse"
)

// DateComponents projects one raw date string into the representations the
// three tag namespaces expect. Computed on demand, never cached on a record.
type DateComponents struct {
	ExifDateTime string // YYYY:MM:DD HH:MM:SS
	IPTCDate     string // YYYY:MM:DD
	IPTCTime     string // HH:MM:SS+/-HH:MM
	XMPDateTime  string // YYYY-MM-DDTHH:MM:SS(+/-HH:MM or Z)
}

// dottedDate matches the dd.mm.yy / dd.mm.yyyy form SmartFrame pages use.
var dottedDate = regexp.MustCompile(`^\s*(\d{1,2})\.(\d{1,2})\.(\d{2}|\d{4})\s*$`)

// twoDigitYearPivot: two-digit years below it land in 20xx, the rest in 19xx.
const twoDigitYearPivot = 50

// ParseDateComponents parses a raw date string into DateComponents. Dotted
// day-first dates are rewritten to ISO before delegating to the general
// parser, because a bare dd.mm.yy would otherwise be read month-first.
func ParseDateComponents(raw string) (*DateComponents, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty date string")
	}

	candidate := raw
	if m := dottedDate.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			if year < twoDigitYearPivot {
				year += 2000
			} else {
				year += 1900
			}
		}
		candidate = fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}

	parsed, err := dateparse.ParseAny(candidate)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", raw, err)
	}

	_, offsetSeconds := parsed.Zone()
	sign := "+"
	if offsetSeconds < 0 {
		sign = "-"
		offsetSeconds = -offsetSeconds
	}
	offset := fmt.Sprintf("%s%02d:%02d", sign, offsetSeconds/3600, (offsetSeconds%3600)/60)

	xmpOffset := offset
	if offset == "+00:00" {
		xmpOffset = "Z"
	}

	return &DateComponents{
		ExifDateTime: parsed.Format("2006:01:02 15:04:05"),
		IPTCDate:     parsed.Format("2006:01:02"),
		IPTCTime:     parsed.Format("15:04:05") + offset,
		XMPDateTime:  parsed.Format("2006-01-02T15:04:05") + xmpOffset,
	}, nil
}

package metadata

import "testing"

func TestParseDateComponentsDottedTwoDigitYear(t *testing.T) {
	dc, err := ParseDateComponents("15.11.07")
	if err != nil {
		t.Fatalf("ParseDateComponents failed: %v", err)
	}
	if dc.ExifDateTime != "2007:11:15 00:00:00" {
		t.Fatalf("ExifDateTime = %q", dc.ExifDateTime)
	}
	if dc.IPTCDate != "2007:11:15" {
		t.Fatalf("IPTCDate = %q", dc.IPTCDate)
	}
	if dc.IPTCTime != "00:00:00+00:00" {
		t.Fatalf("IPTCTime = %q", dc.IPTCTime)
	}
	if dc.XMPDateTime != "2007-11-15T00:00:00Z" {
		t.Fatalf("XMPDateTime = %q", dc.XMPDateTime)
	}
}

func TestParseDateComponentsPivotOlderYear(t *testing.T) {
	dc, err := ParseDateComponents("25.12.75")
	if err != nil {
		t.Fatalf("ParseDateComponents failed: %v", err)
	}
	if dc.IPTCDate != "1975:12:25" {
		t.Fatalf("IPTCDate = %q", dc.IPTCDate)
	}
}

func TestParseDateComponentsDottedFourDigitYear(t *testing.T) {
	dc, err := ParseDateComponents("1.2.2021")
	if err != nil {
		t.Fatalf("ParseDateComponents failed: %v", err)
	}
	if dc.IPTCDate != "2021:02:01" {
		t.Fatalf("IPTCDate = %q", dc.IPTCDate)
	}
}

func TestParseDateComponentsISO(t *testing.T) {
	dc, err := ParseDateComponents("2021-05-01")
	if err != nil {
		t.Fatalf("ParseDateComponents failed: %v", err)
	}
	if dc.ExifDateTime != "2021:05:01 00:00:00" {
		t.Fatalf("ExifDateTime = %q", dc.ExifDateTime)
	}
	if dc.XMPDateTime != "2021-05-01T00:00:00Z" {
		t.Fatalf("XMPDateTime = %q", dc.XMPDateTime)
	}
}

func TestParseDateComponentsWithOffset(t *testing.T) {
	dc, err := ParseDateComponents("2021-05-01T10:30:00+02:00")
	if err != nil {
		t.Fatalf("ParseDateComponents failed: %v", err)
	}
	if dc.IPTCTime != "10:30:00+02:00" {
		t.Fatalf("IPTCTime = %q", dc.IPTCTime)
	}
	if dc.XMPDateTime != "2021-05-01T10:30:00+02:00" {
		t.Fatalf("XMPDateTime = %q", dc.XMPDateTime)
	}
}

func TestParseDateComponentsRejectsGarbage(t *testing.T) {
	if _, err := ParseDateComponents(""); err == nil {
		t.Fatal("empty date did not error")
	}
	if _, err := ParseDateComponents("not a date at all"); err == nil {
		t.Fatal("unparseable date did not error")
	}
}

package metadata

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const galleryPage = `
<html><body>
<div class="flex flex-col gap-4x">
  <section><h2>News Images</h2></section>
  <section>
    <h1>Match day</h1>
    <p>The teams enter the stadium.` + "\u00a0" + `Featuring: Jane Doe Where: Paris, France When: 2021-05-01 Credit: Jane Photo SmartFrame image ID: SF123 Image size: 4000 x 3000</p>
  </section>
  <section class="bg-iy-neutral-100">
    <ul>
      <li>Photographer: John Smith</li>
      <li>City: Lyon</li>
      <li>Image size: 9999 x 9999</li>
    </ul>
  </section>
</div>
</body></html>`

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestStructuredPass(t *testing.T) {
	rec := &Record{}
	Structured(parseDoc(t, galleryPage), rec)

	if rec.Provider != "News Images" {
		t.Fatalf("Provider = %q", rec.Provider)
	}
	if rec.Featuring != "Jane Doe" {
		t.Fatalf("Featuring = %q", rec.Featuring)
	}
	if rec.Location != "Paris, France" {
		t.Fatalf("Location = %q", rec.Location)
	}
	if rec.City != "Paris" || rec.Country != "France" {
		t.Fatalf("City/Country = %q/%q", rec.City, rec.Country)
	}
	if rec.Date != "2021-05-01" {
		t.Fatalf("Date = %q", rec.Date)
	}
	if rec.Credit != "Jane Photo" {
		t.Fatalf("Credit = %q", rec.Credit)
	}
	if rec.ImageID != "SF123" {
		t.Fatalf("ImageID = %q", rec.ImageID)
	}
	if rec.ImageSize != "4000 x 3000" {
		t.Fatalf("ImageSize = %q, list item must not overwrite the paragraph value", rec.ImageSize)
	}
	if rec.Photographer != "John Smith" {
		t.Fatalf("Photographer = %q", rec.Photographer)
	}

	// The narrative preface flows into caption, title, and subject.
	if want := "The teams enter the stadium. | Match day"; rec.Caption != want {
		t.Fatalf("Caption = %q, want %q", rec.Caption, want)
	}
	if rec.Title != "The teams enter the stadium." || rec.Subject != "The teams enter the stadium." {
		t.Fatalf("Title/Subject = %q/%q", rec.Title, rec.Subject)
	}
}

func TestStructuredPassFirstWriterWins(t *testing.T) {
	rec := &Record{}
	Structured(parseDoc(t, galleryPage), rec)

	// The list item's City must not displace the Where:-derived city.
	if rec.City != "Paris" {
		t.Fatalf("City = %q, want the Where:-derived value", rec.City)
	}
}

func TestStructuredPassIdempotent(t *testing.T) {
	rec := &Record{}
	doc := parseDoc(t, galleryPage)
	Structured(doc, rec)
	first := *rec
	Structured(doc, rec)
	if *rec != first {
		t.Fatalf("second structured pass changed the record:\nfirst:  %+v\nsecond: %+v", first, *rec)
	}
}

func TestStructuredPassNoContainer(t *testing.T) {
	rec := &Record{}
	Structured(parseDoc(t, "<html><body><p>nothing here</p></body></html>"), rec)
	if !rec.Empty() {
		t.Fatalf("record not empty: %+v", rec)
	}
}

func TestParseDetailsMarkerAdjacent(t *testing.T) {
	rec := &Record{}
	parseDetails("Featuring: Jane Doe Where: Paris, France When: 2021-05-01", rec)

	if rec.Featuring != "Jane Doe" {
		t.Fatalf("Featuring = %q", rec.Featuring)
	}
	if rec.City != "Paris" || rec.Country != "France" {
		t.Fatalf("City/Country = %q/%q", rec.City, rec.Country)
	}
	if rec.Date != "2021-05-01" {
		t.Fatalf("Date = %q", rec.Date)
	}
	if rec.Caption != "" {
		t.Fatalf("Caption = %q, no preface expected", rec.Caption)
	}
}

func TestParseDetailsSingleLocationPart(t *testing.T) {
	rec := &Record{}
	parseDetails("Where: London", rec)
	if rec.City != "London" || rec.Country != "" {
		t.Fatalf("City/Country = %q/%q", rec.City, rec.Country)
	}
}

func TestParseDetailsBreakSeparated(t *testing.T) {
	html := `<html><body>
<div class="flex flex-col gap-4x">
  <section><h2>P</h2></section>
  <section><h1>Cap</h1><p>When: 12.03.99<br>Credit: Someone</p></section>
</div></body></html>`
	rec := &Record{}
	Structured(parseDoc(t, html), rec)
	if rec.Date != "12.03.99" {
		t.Fatalf("Date = %q", rec.Date)
	}
	if rec.Credit != "Someone" {
		t.Fatalf("Credit = %q", rec.Credit)
	}
}

func TestReconcileBackfillsTitleAndSubject(t *testing.T) {
	rec := &Record{Caption: "A caption", Title: "Kept"}
	rec.Reconcile()
	if rec.Title != "Kept" {
		t.Fatalf("Title = %q, reconcile must not overwrite", rec.Title)
	}
	if rec.Subject != "A caption" {
		t.Fatalf("Subject = %q", rec.Subject)
	}
}

func TestMissingCore(t *testing.T) {
	rec := &Record{Provider: "P", Caption: "C", Date: "D", Credit: "Cr", ImageID: "I", ImageSize: "S"}
	if missing := rec.MissingCore(); len(missing) != 0 {
		t.Fatalf("MissingCore = %v, want none", missing)
	}

	rec = &Record{Provider: "P"}
	missing := rec.MissingCore()
	if len(missing) != 5 {
		t.Fatalf("MissingCore = %v", missing)
	}
}

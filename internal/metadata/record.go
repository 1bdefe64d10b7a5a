package metadata

import "strings"

// Record is the normalized metadata for one image. Every field is either
// empty or a trimmed non-empty string; once a pass populates a field, later
// passes never overwrite it.
type Record struct {
	Caption      string
	Date         string
	Credit       string
	ImageID      string
	ImageSize    string
	Provider     string
	Location     string
	City         string
	Country      string
	Photographer string
	Featuring    string
	Title        string
	Subject      string
}

// Empty reports whether no field was populated by any pass.
func (r *Record) Empty() bool {
	return r.Caption == "" && r.Date == "" && r.Credit == "" && r.ImageID == "" &&
		r.ImageSize == "" && r.Provider == "" && r.Location == "" && r.City == "" &&
		r.Country == "" && r.Photographer == "" && r.Featuring == "" &&
		r.Title == "" && r.Subject == ""
}

// MissingCore lists the primary fields still unset after the structured
// pass. A non-empty result triggers the text fallback pass.
func (r *Record) MissingCore() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"provider", r.Provider},
		{"caption", r.Caption},
		{"date", r.Date},
		{"credit", r.Credit},
		{"image_id", r.ImageID},
		{"image_size", r.ImageSize},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Reconcile finalizes the record: a derived caption backfills title and
// subject when they are still unset.
func (r *Record) Reconcile() {
	if r.Caption != "" {
		setIfEmpty(&r.Title, r.Caption)
		setIfEmpty(&r.Subject, r.Caption)
	}
}

// Fields returns the record in sidecar-file order. Image size is carried in
// the record but excluded from file output by the callers that want it gone.
func (r *Record) Fields() []Field {
	return []Field{
		{"caption", r.Caption},
		{"date", r.Date},
		{"credit", r.Credit},
		{"image_id", r.ImageID},
		{"image_size", r.ImageSize},
		{"provider", r.Provider},
		{"location", r.Location},
		{"city", r.City},
		{"country", r.Country},
		{"photographer", r.Photographer},
		{"featuring", r.Featuring},
		{"title", r.Title},
		{"subject", r.Subject},
	}
}

// Field is one named record value.
type Field struct {
	Name  string
	Value string
}

func setIfEmpty(dst *string, value string) {
	if *dst != "" {
		return
	}
	value = strings.TrimSpace(value)
	if value != "" {
		*dst = value
	}
}

package model

// Remote field names used when a lead is written to a collection.
const (
	FieldCompany     = "Company"
	FieldURL         = "URL"
	FieldLocation    = "Location"
	FieldDescription = "Description"
)

// Lead is a company lead extracted from a single intake line.
type Lead struct {
	Company     string `json:"company" yaml:"company"`
	URL         string `json:"url" yaml:"url"`
	Location    string `json:"location" yaml:"location"`
	Description string `json:"description" yaml:"description"`
}

// Fields returns the lead as a remote field map.
func (l Lead) Fields() Fields {
	return Fields{
		FieldCompany:     l.Company,
		FieldURL:         l.URL,
		FieldLocation:    l.Location,
		FieldDescription: l.Description,
	}
}

package models

// LookupKind selects one of the two labeled lookup tables
type LookupKind string

const (
	LookupPersonnelType LookupKind = "personnel_types"
	LookupSpecialty     LookupKind = "specialties"
)

// Lookup is a labeled, colored entry used by filters and charts (personnel type or specialty)
type Lookup struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

package models

import "time"

// Institution is a hospital, infirmary or other destination identified by a 4-character code
type Institution struct {
	ID              int64           `json:"id"`
	DestinationCode string          `json:"destinationCode"`
	Name            string          `json:"name"`
	Kind            InstitutionKind `json:"kind"`
	Category        Category        `json:"category"`
	Phone           string          `json:"phone,omitempty"`
	Latitude        float64         `json:"latitude"`
	Longitude       float64         `json:"longitude"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Mappable reports whether the institution can be placed on the map.
// Both coordinates must be non-zero.
func (i *Institution) Mappable() bool {
	return i.Latitude != 0 && i.Longitude != 0
}

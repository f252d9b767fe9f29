package roster

import (
	"slices"

	"github.com/disa/mapa/internal/app/models"
)

// MarkerFilter narrows the institutions shown on the map. Empty slices mean no constraint.
type MarkerFilter struct {
	InstitutionKinds []models.InstitutionKind
	PersonnelKinds   []models.PersonnelKind
	SpecialtyIDs     []int64
}

// MarkerCounts are the per-group totals drawn around a marker
type MarkerCounts struct {
	Officers        int `json:"officers"`
	NonCommissioned int `json:"noncommissioned"`
	Civilians       int `json:"civilians"`
	Total           int `json:"total"`
}

// Marker is one mappable institution with the personnel assigned to it
type Marker struct {
	Institution models.Institution `json:"institution"`
	Counts      MarkerCounts       `json:"counts"`
	Personnel   []models.Personnel `json:"personnel"`
}

// BuildMarkers joins personnel to institutions by destination code and keeps the mappable
// institutions passing f. Personnel and specialty constraints only exclude institutions
// that have personnel; an empty institution is never filtered out by them.
func BuildMarkers(institutions []models.Institution, personnel []models.Personnel, f MarkerFilter) []Marker {
	byDestination := make(map[string][]models.Personnel)
	for _, p := range personnel {
		byDestination[p.DestinationCode] = append(byDestination[p.DestinationCode], p)
	}

	markers := make([]Marker, 0, len(institutions))
	for _, inst := range institutions {
		if !inst.Mappable() {
			continue
		}
		if len(f.InstitutionKinds) > 0 && !slices.Contains(f.InstitutionKinds, inst.Kind) {
			continue
		}

		assigned := byDestination[inst.DestinationCode]
		if len(assigned) > 0 && len(f.PersonnelKinds) > 0 &&
			!slices.ContainsFunc(assigned, func(p models.Personnel) bool { return slices.Contains(f.PersonnelKinds, p.Kind) }) {
			continue
		}
		if len(assigned) > 0 && len(f.SpecialtyIDs) > 0 &&
			!slices.ContainsFunc(assigned, func(p models.Personnel) bool {
				return p.SpecialtyID != nil && slices.Contains(f.SpecialtyIDs, *p.SpecialtyID)
			}) {
			continue
		}

		m := Marker{Institution: inst, Personnel: assigned, Counts: MarkerCounts{Total: len(assigned)}}
		if m.Personnel == nil {
			m.Personnel = []models.Personnel{}
		}
		for i := range assigned {
			switch GroupOf(&assigned[i]) {
			case GroupOfficer:
				m.Counts.Officers++
			case GroupNonCommissioned:
				m.Counts.NonCommissioned++
			default:
				m.Counts.Civilians++
			}
		}
		markers = append(markers, m)
	}
	return markers
}

package roster

import (
	"fmt"
	"slices"
	"strings"

	"github.com/disa/mapa/internal/app/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// TypeFilter restricts the view to one group
type TypeFilter string

const (
	FilterAll             TypeFilter = "all"
	FilterOfficer         TypeFilter = "officer"
	FilterNonCommissioned TypeFilter = "noncommissioned"
	FilterCivilian        TypeFilter = "civilian"
)

// ParseTypeFilter accepts the canonical names and the dashboard's Spanish labels.
// An empty string means FilterAll.
func ParseTypeFilter(s string) (TypeFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "todos":
		return FilterAll, nil
	case "officer", "oficial", "oficiales":
		return FilterOfficer, nil
	case "noncommissioned", "suboficial", "suboficiales":
		return FilterNonCommissioned, nil
	case "civilian", "civil", "civiles":
		return FilterCivilian, nil
	}
	return "", fmt.Errorf("unknown personnel type filter %q", s)
}

// Criteria are the inputs of a view besides the list itself
type Criteria struct {
	Type   TypeFilter
	Search string
}

// Counts are the filter-button counters over the unfiltered list
type Counts struct {
	Total           int `json:"total"`
	Officers        int `json:"officers"`
	NonCommissioned int `json:"noncommissioned"`
	Civilians       int `json:"civilians"`
}

// View is the filtered, ordered list plus counters
type View struct {
	Items  []models.Personnel `json:"items"`
	Counts Counts             `json:"counts"`
}

// Matches reports whether p passes both the type filter and the search term
func Matches(p *models.Personnel, c Criteria) bool {
	switch c.Type {
	case FilterOfficer:
		if GroupOf(p) != GroupOfficer {
			return false
		}
	case FilterNonCommissioned:
		if GroupOf(p) != GroupNonCommissioned {
			return false
		}
	case FilterCivilian:
		if p.Kind != models.KindCivilian {
			return false
		}
	}

	term := strings.ToLower(c.Search)
	if term == "" {
		return true
	}
	for _, field := range searchableFields(p) {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func searchableFields(p *models.Personnel) []string {
	return []string{
		p.DestinationCode,
		string(p.Kind),
		p.Rank,
		p.Profession,
		p.Surname,
		p.GivenName,
		p.NationalID,
		p.SpecialtyName,
		p.CorpsCode,
		p.OrientationCode,
		p.RegistrationNumber,
	}
}

// compareSequence orders by import sequence with missing sequences last
func compareSequence(a, b *int64) int {
	switch {
	case a != nil && b != nil:
		switch {
		case *a < *b:
			return -1
		case *a > *b:
			return 1
		}
		return 0
	case a != nil:
		return -1
	case b != nil:
		return 1
	}
	return 0
}

// Sort orders list in place. With FilterAll records are grouped officer, noncommissioned,
// civilian first; then by import sequence (missing last) and surname.
func Sort(list []models.Personnel, filter TypeFilter) {
	col := collate.New(language.Spanish)
	slices.SortStableFunc(list, func(a, b models.Personnel) int {
		if filter == FilterAll {
			if ga, gb := GroupOf(&a), GroupOf(&b); ga != gb {
				return int(ga) - int(gb)
			}
		}
		if c := compareSequence(a.ImportSequence, b.ImportSequence); c != 0 {
			return c
		}
		return col.CompareString(a.Surname, b.Surname)
	})
}

// CountGroups computes the counters shown next to each filter
func CountGroups(list []models.Personnel) Counts {
	counts := Counts{Total: len(list)}
	for i := range list {
		switch GroupOf(&list[i]) {
		case GroupOfficer:
			counts.Officers++
		case GroupNonCommissioned:
			counts.NonCommissioned++
		default:
			if list[i].Kind == models.KindCivilian {
				counts.Civilians++
			}
		}
	}
	return counts
}

// ApplyFilter derives the view from the full list. The input slice is not modified.
func ApplyFilter(list []models.Personnel, c Criteria) View {
	if c.Type == "" {
		c.Type = FilterAll
	}

	items := make([]models.Personnel, 0, len(list))
	for i := range list {
		if Matches(&list[i], c) {
			items = append(items, list[i])
		}
	}
	Sort(items, c.Type)

	return View{Items: items, Counts: CountGroups(list)}
}

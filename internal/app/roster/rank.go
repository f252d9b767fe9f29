// Package roster holds the pure personnel rules: rank classification, spreadsheet row
// extraction and validation, import sequencing and the filtered/ordered list view.
// Nothing in here touches the database or the network.
package roster

import (
	"strings"

	"github.com/disa/mapa/internal/app/models"
)

// RankClass is the derived category of a military rank
type RankClass int

const (
	NonCommissioned RankClass = iota
	Officer
)

func (c RankClass) String() string {
	if c == Officer {
		return "officer"
	}
	return "noncommissioned"
}

// Group is the display group of any record; the order of the constants is the default
// sort order of the view.
type Group int

const (
	GroupOfficer Group = iota
	GroupNonCommissioned
	GroupCivilian
)

func (g Group) String() string {
	switch g {
	case GroupOfficer:
		return "officer"
	case GroupNonCommissioned:
		return "noncommissioned"
	default:
		return "civilian"
	}
}

var (
	// OfficerRanks are the recognized officer codes
	OfficerRanks = []string{"CN", "CF", "CC", "TN", "TF", "TC", "GU"}
	// NonCommissionedRanks are the recognized noncommissioned codes
	NonCommissionedRanks = []string{"SM", "SP", "SI", "SS", "CP", "CI", "CS"}

	officerKeywords = []string{
		"oficial", "teniente", "capitán", "coronel", "almirante",
		"jefe", "mayor", "brigadier", "guardiamarina", "comodoro",
	}

	officerSet         = toSet(OfficerRanks)
	nonCommissionedSet = toSet(NonCommissionedRanks)
)

func toSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// ClassifyRank maps a rank onto Officer or NonCommissioned. Recognized codes win; anything
// else is officer only if it names an officer keyword and does not say "suboficial".
func ClassifyRank(rank string) RankClass {
	code := strings.ToUpper(strings.TrimSpace(rank))
	if _, ok := officerSet[code]; ok {
		return Officer
	}
	if _, ok := nonCommissionedSet[code]; ok {
		return NonCommissioned
	}

	lower := strings.ToLower(rank)
	if strings.Contains(lower, "suboficial") {
		return NonCommissioned
	}
	for _, kw := range officerKeywords {
		if strings.Contains(lower, kw) {
			return Officer
		}
	}
	return NonCommissioned
}

// IsKnownRank reports whether rank is one of the recognized codes
func IsKnownRank(rank string) bool {
	code := strings.ToUpper(strings.TrimSpace(rank))
	_, officer := officerSet[code]
	_, nco := nonCommissionedSet[code]
	return officer || nco
}

// GroupOf returns the display group of a record. Rank classes only apply to military records.
func GroupOf(p *models.Personnel) Group {
	if p.Kind != models.KindMilitary {
		return GroupCivilian
	}
	if ClassifyRank(p.Rank) == Officer {
		return GroupOfficer
	}
	return GroupNonCommissioned
}

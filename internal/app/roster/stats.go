package roster

import (
	"cmp"
	"slices"
	"strings"

	"github.com/disa/mapa/internal/app/models"
)

// TopDestinationsLimit caps the destination ranking of the distribution
const TopDestinationsLimit = 10

// Bucket is one labeled count of a chart
type Bucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Distribution holds the aggregates behind the dashboard charts
type Distribution struct {
	TotalPersonnel  int      `json:"totalPersonnel"`
	TotalMilitary   int      `json:"totalMilitary"`
	TotalCivilian   int      `json:"totalCivilian"`
	Officers        int      `json:"officers"`
	NonCommissioned int      `json:"noncommissioned"`
	TopDestinations []Bucket `json:"topDestinations"`
	Ranks           []Bucket `json:"ranks"`
	Corps           []Bucket `json:"corps"`
	Orientations    []Bucket `json:"orientations"`
}

const (
	unknownDestination = "Desconocido"
	noRank             = "Sin Grado"
	noCorps            = "Sin Escalafón"
	noOrientation      = "Sin Orientación"
)

func labelOr(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

// buckets sorts counts by value descending, then name
func buckets(counts map[string]int) []Bucket {
	out := make([]Bucket, 0, len(counts))
	for name, v := range counts {
		out = append(out, Bucket{Name: name, Value: v})
	}
	slices.SortFunc(out, func(a, b Bucket) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Distribute aggregates list for the distribution charts
func Distribute(list []models.Personnel) Distribution {
	var d Distribution
	destinations := map[string]int{}
	ranks := map[string]int{}
	corps := map[string]int{}
	orientations := map[string]int{}

	for i := range list {
		p := &list[i]
		d.TotalPersonnel++
		destinations[labelOr(p.DestinationCode, unknownDestination)]++

		switch p.Kind {
		case models.KindMilitary:
			d.TotalMilitary++
			ranks[labelOr(p.Rank, noRank)]++
			corps[labelOr(p.CorpsCode, noCorps)]++
			orientations[labelOr(p.OrientationCode, noOrientation)]++
			if ClassifyRank(p.Rank) == Officer {
				d.Officers++
			} else {
				d.NonCommissioned++
			}
		case models.KindCivilian:
			d.TotalCivilian++
		}
	}

	d.TopDestinations = buckets(destinations)
	if len(d.TopDestinations) > TopDestinationsLimit {
		d.TopDestinations = d.TopDestinations[:TopDestinationsLimit]
	}
	d.Ranks = buckets(ranks)
	d.Corps = buckets(corps)
	d.Orientations = buckets(orientations)
	return d
}

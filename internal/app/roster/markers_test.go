package roster

import (
	"testing"

	"github.com/disa/mapa/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func markerFixtures() ([]models.Institution, []models.Personnel) {
	institutions := []models.Institution{
		{DestinationCode: "HNPM", Kind: models.InstitutionHospital, Latitude: -34.6, Longitude: -58.4},
		{DestinationCode: "ENFE", Kind: models.InstitutionInfirmary, Latitude: -38.7, Longitude: -62.2},
		{DestinationCode: "NOGE", Kind: models.InstitutionHospital},
		{DestinationCode: "VACI", Kind: models.InstitutionNonMedical, Latitude: -54.8, Longitude: -68.3},
	}
	personnel := []models.Personnel{
		{Kind: models.KindMilitary, Rank: "CF", DestinationCode: "HNPM", SpecialtyID: seq(1)},
		{Kind: models.KindMilitary, Rank: "SI", DestinationCode: "HNPM"},
		{Kind: models.KindCivilian, DestinationCode: "HNPM", SpecialtyID: seq(2)},
		{Kind: models.KindCivilian, DestinationCode: "ENFE"},
		{Kind: models.KindMilitary, Rank: "CN", DestinationCode: "NOGE"},
	}
	return institutions, personnel
}

func destinations(markers []Marker) []string {
	out := make([]string, len(markers))
	for i, m := range markers {
		out[i] = m.Institution.DestinationCode
	}
	return out
}

func TestBuildMarkers_SkipsUnmappable(t *testing.T) {
	institutions, personnel := markerFixtures()

	markers := BuildMarkers(institutions, personnel, MarkerFilter{})
	require.Equal(t, []string{"HNPM", "ENFE", "VACI"}, destinations(markers))

	assert.Equal(t, MarkerCounts{Officers: 1, NonCommissioned: 1, Civilians: 1, Total: 3}, markers[0].Counts)
	assert.Equal(t, MarkerCounts{Civilians: 1, Total: 1}, markers[1].Counts)
	assert.NotNil(t, markers[2].Personnel)
	assert.Empty(t, markers[2].Personnel)
}

func TestBuildMarkers_Filters(t *testing.T) {
	institutions, personnel := markerFixtures()

	byKind := BuildMarkers(institutions, personnel, MarkerFilter{InstitutionKinds: []models.InstitutionKind{models.InstitutionHospital}})
	assert.Equal(t, []string{"HNPM"}, destinations(byKind))

	military := BuildMarkers(institutions, personnel, MarkerFilter{PersonnelKinds: []models.PersonnelKind{models.KindMilitary}})
	assert.Equal(t, []string{"HNPM", "VACI"}, destinations(military))

	specialty := BuildMarkers(institutions, personnel, MarkerFilter{SpecialtyIDs: []int64{2}})
	assert.Equal(t, []string{"HNPM", "VACI"}, destinations(specialty))
}

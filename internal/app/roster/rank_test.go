package roster

import (
	"testing"

	"github.com/disa/mapa/internal/app/models"
	"github.com/stretchr/testify/assert"
)

func TestClassifyRank(t *testing.T) {
	cases := []struct {
		rank string
		want RankClass
	}{
		{"CN", Officer},
		{"gu", Officer},
		{" TF ", Officer},
		{"SM", NonCommissioned},
		{"cs", NonCommissioned},
		{"Teniente de Fragata", Officer},
		{"Capitán de Corbeta", Officer},
		{"Suboficial Mayor", NonCommissioned},
		{"Suboficial Principal", NonCommissioned},
		{"Cabo Principal", NonCommissioned},
		{"", NonCommissioned},
	}

	for _, tc := range cases {
		t.Run(tc.rank, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyRank(tc.rank))
		})
	}
}

func TestIsKnownRank(t *testing.T) {
	assert.True(t, IsKnownRank("CN"))
	assert.True(t, IsKnownRank(" si"))
	assert.False(t, IsKnownRank("Teniente de Navío"))
}

func TestGroupOf(t *testing.T) {
	officer := models.Personnel{Kind: models.KindMilitary, Rank: "CC"}
	nco := models.Personnel{Kind: models.KindMilitary, Rank: "CP"}
	civilian := models.Personnel{Kind: models.KindCivilian, Rank: "CN", Profession: "Enfermera"}

	assert.Equal(t, GroupOfficer, GroupOf(&officer))
	assert.Equal(t, GroupNonCommissioned, GroupOf(&nco))
	assert.Equal(t, GroupCivilian, GroupOf(&civilian))
	assert.Equal(t, "civilian", GroupOf(&civilian).String())
	assert.Equal(t, "officer", Officer.String())
}

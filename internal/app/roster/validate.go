package roster

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/disa/mapa/internal/app/models"
)

// ValidCorpsCodes is the corps whitelist enforced by spreadsheet imports
var ValidCorpsCodes = []string{"EN", "ES", "FB", "ME", "OD"}

var (
	ErrInvalidCorps        = errors.New("corps code is not accepted for import")
	ErrOrientationMismatch = errors.New("corps ES requires orientation SA")
	ErrMissingField        = errors.New("mandatory field is empty")
	ErrInvalidKind         = errors.New("kind must be military or civilian")
)

type namedValue struct {
	name  string
	value string
}

// ValidateImported applies the batch-import rules to a draft
func ValidateImported(d Draft) error {
	corps := d.Record.CorpsCode
	if !slices.Contains(ValidCorpsCodes, corps) {
		return fmt.Errorf("%w: %q", ErrInvalidCorps, corps)
	}

	if corps == "ES" && d.Record.OrientationCode != "SA" {
		return fmt.Errorf("%w: got %q", ErrOrientationMismatch, d.Record.OrientationCode)
	}

	return nil
}

// ValidateManual checks a record entered through the form path. Corps and orientation are
// free text here; only the mandatory fields of the record kind are enforced.
func ValidateManual(p *models.Personnel) error {
	if !p.Kind.Valid() {
		return ErrInvalidKind
	}

	required := []namedValue{
		{"surname", p.Surname},
		{"givenName", p.GivenName},
		{"destinationCode", p.DestinationCode},
		{"nationalId", p.NationalID},
	}
	switch p.Kind {
	case models.KindMilitary:
		required = append(required, namedValue{"rank", p.Rank})
	case models.KindCivilian:
		required = append(required, namedValue{"profession", p.Profession})
	}

	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}

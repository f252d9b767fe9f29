package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/pkg/spreadsheet"
)

// Header aliases in priority order. Matching is case-sensitive.
var (
	destinationHeaders  = []string{"Dest_act", "DESTINO", "Dest_actual", "destino"}
	rankHeaders         = []string{"Grado", "GRADO", "grado"}
	corpsHeaders        = []string{"Escalafon", "ESC", "Escalafón", "escalafon"}
	orientationHeaders  = []string{"Orientacion", "ORIENT", "Orientación", "orientacion"}
	fullNameHeaders     = []string{"Apellido y Nombre", "APELLIDO Y NOMBRES", "Apellido y nombre", "Apellido y Nombres", "APELLIDO Y NOMBRE"}
	registrationHeaders = []string{"MR", "Matrícula", "Matricula", "matricula"}
	nationalIDHeaders   = []string{"DNI", "Nro. Doc.", "Documento", "dni"}
)

// ErrIncompleteRow marks a row missing one of the mandatory import fields
var ErrIncompleteRow = errors.New("row is missing mandatory fields")

// Draft is a record candidate produced from one spreadsheet row
type Draft struct {
	Record        models.Personnel
	OriginalOrder int
}

// firstOf returns the first non-empty value among the aliases
func firstOf(row spreadsheet.Row, headers []string) string {
	for _, h := range headers {
		if v := row.Get(h); v != "" {
			return v
		}
	}
	return ""
}

// splitFullName splits "Surname, Given Names" on the first comma, or "Surname Given Names"
// on the first space when there is no comma.
func splitFullName(full string) (surname, given string) {
	if before, after, found := strings.Cut(full, ","); found {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	fields := strings.Fields(full)
	if len(fields) < 2 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

func extractName(row spreadsheet.Row) (surname, given string) {
	s, g := row.Get("Apellido"), row.Get("Nombre")
	if s != "" && g != "" {
		return strings.TrimSpace(s), strings.TrimSpace(g)
	}
	if full := firstOf(row, fullNameHeaders); full != "" {
		return splitFullName(full)
	}
	return "", ""
}

// Extract maps one spreadsheet row onto a military draft. Rows lacking destination, rank,
// surname, given name or national id yield ErrIncompleteRow.
func Extract(row spreadsheet.Row) (Draft, error) {
	surname, given := extractName(row)

	rec := models.Personnel{
		Kind:               models.KindMilitary,
		DestinationCode:    strings.TrimSpace(firstOf(row, destinationHeaders)),
		Rank:               strings.TrimSpace(firstOf(row, rankHeaders)),
		CorpsCode:          strings.TrimSpace(firstOf(row, corpsHeaders)),
		OrientationCode:    strings.TrimSpace(firstOf(row, orientationHeaders)),
		Surname:            surname,
		GivenName:          given,
		RegistrationNumber: strings.TrimSpace(firstOf(row, registrationHeaders)),
		NationalID:         strings.TrimSpace(firstOf(row, nationalIDHeaders)),
	}

	var missing []string
	for _, f := range []namedValue{
		{"destination", rec.DestinationCode},
		{"rank", rec.Rank},
		{"surname", rec.Surname},
		{"given name", rec.GivenName},
		{"national id", rec.NationalID},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Draft{}, fmt.Errorf("%w: %s", ErrIncompleteRow, strings.Join(missing, ", "))
	}

	return Draft{Record: rec, OriginalOrder: row.Index}, nil
}

package roster

import (
	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/pkg/spreadsheet"
)

// Rejection records why a spreadsheet row was skipped
type Rejection struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Plan is the outcome of extracting and validating a whole sheet
type Plan struct {
	Accepted   []Draft
	Rejections []Rejection
}

// Prepare runs the extractor and the import validator over rows, keeping file order.
// It is deterministic: the same rows always produce the same plan.
func Prepare(rows []spreadsheet.Row) Plan {
	var plan Plan
	for _, row := range rows {
		draft, err := Extract(row)
		if err == nil {
			err = ValidateImported(draft)
		}
		if err != nil {
			plan.Rejections = append(plan.Rejections, Rejection{Row: row.Index, Reason: err.Error()})
			continue
		}
		plan.Accepted = append(plan.Accepted, draft)
	}
	return plan
}

// MaxSequence returns the highest import sequence in list, 0 when none is set
func MaxSequence(list []models.Personnel) int64 {
	var highest int64
	for i := range list {
		if seq := list[i].ImportSequence; seq != nil && *seq > highest {
			highest = *seq
		}
	}
	return highest
}

// AssignSequences numbers drafts base+1, base+2, ... in the order given and returns them.
// The input slice is left untouched.
func AssignSequences(base int64, drafts []Draft) []Draft {
	out := make([]Draft, len(drafts))
	for i, d := range drafts {
		seq := base + int64(i) + 1
		d.Record.ImportSequence = &seq
		out[i] = d
	}
	return out
}

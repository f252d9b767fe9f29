package roster

import (
	"context"

	"github.com/disa/mapa/internal/app/models"
)

// Creator persists a single record and returns its new id
type Creator interface {
	Create(ctx context.Context, p *models.Personnel) (int64, error)
}

// WriteFailure is a row whose create call failed
type WriteFailure struct {
	Row            int
	ImportSequence int64
	Err            error
}

// WriteOutcome collects the per-row results of a batch
type WriteOutcome struct {
	Created  []models.Personnel
	Failures []WriteFailure
}

// OrderedBatchWriter persists sequenced drafts. Implementations must attempt every draft,
// keep the sequences they were given and report each failure without aborting the rest.
type OrderedBatchWriter interface {
	WriteOrdered(ctx context.Context, drafts []Draft) WriteOutcome
}

// SequentialWriter creates records one at a time, in order
type SequentialWriter struct {
	creator Creator
}

// NewSequentialWriter returns a writer backed by creator
func NewSequentialWriter(creator Creator) *SequentialWriter {
	return &SequentialWriter{creator: creator}
}

// WriteOrdered implements OrderedBatchWriter. A cancelled context fails the remaining rows.
func (w *SequentialWriter) WriteOrdered(ctx context.Context, drafts []Draft) WriteOutcome {
	var out WriteOutcome
	for _, d := range drafts {
		rec := d.Record
		var seq int64
		if rec.ImportSequence != nil {
			seq = *rec.ImportSequence
		}

		if err := ctx.Err(); err != nil {
			out.Failures = append(out.Failures, WriteFailure{Row: d.OriginalOrder, ImportSequence: seq, Err: err})
			continue
		}

		id, err := w.creator.Create(ctx, &rec)
		if err != nil {
			out.Failures = append(out.Failures, WriteFailure{Row: d.OriginalOrder, ImportSequence: seq, Err: err})
			continue
		}
		rec.ID = id
		out.Created = append(out.Created, rec)
	}
	return out
}

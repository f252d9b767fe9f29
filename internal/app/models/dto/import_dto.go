package dto

import "github.com/disa/mapa/internal/app/roster"

// RowFailure is an accepted row whose create call failed
type RowFailure struct {
	Row            int    `json:"row"`
	ImportSequence int64  `json:"importSequence"`
	Reason         string `json:"reason"`
}

// BatchResult summarizes one spreadsheet import. Row numbers are 0-based data row positions.
type BatchResult struct {
	BatchID    string             `json:"batchId"`
	DryRun     bool               `json:"dryRun"`
	RowsRead   int                `json:"rowsRead"`
	Accepted   int                `json:"accepted"`
	Rejected   int                `json:"rejected"`
	Created    int                `json:"created"`
	Failed     int                `json:"failed"`
	FirstSeq   int64              `json:"firstSequence,omitempty"`
	LastSeq    int64              `json:"lastSequence,omitempty"`
	Rejections []roster.Rejection `json:"rejections"`
	Failures   []RowFailure       `json:"failures"`
}

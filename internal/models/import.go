package models

// ImportSummary reports the outcome of one CSV import. Rows that fail
// to parse or to resolve a customer are collected here, never
// individually fatal to the whole import.
type ImportSummary struct {
	TotalRows    int          `json:"total_rows"`
	Imported     int          `json:"imported"`
	Skipped      int          `json:"skipped"`
	SkippedRows  []SkippedRow `json:"skipped_rows,omitempty"`
	UpsertError  string       `json:"upsert_error,omitempty"`
	DeleteError  string       `json:"delete_error,omitempty"`
}

// SkippedRow records why one CSV line was left out.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

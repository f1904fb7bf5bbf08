// Package importer reconciles tabular article metadata against the
// catalog: it groups rows into per-article units, validates them against
// the journal's controlled vocabularies, and applies creates and updates
// under an all-or-nothing commit policy.
package importer

import "fmt"

// RowError is a validation problem scoped to a data row and, usually, a
// field. Row is 1-based over the data rows; 0 means the error concerns
// the whole file (bad headers).
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"error"`
}

func (e RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d, %s: %s", e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Outcome reports what an import did with one article.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

package importer

import (
	"fmt"
	"strings"

	"github.com/mglenn/folio/internal/catalog"
	"github.com/mglenn/folio/internal/normalize"
	"github.com/mglenn/folio/internal/tabular"
)

// VerifyHeaders checks that the table carries every fixed column. It
// returns a single file-level error when any are missing; nothing else
// about the file is inspected in that case.
func VerifyHeaders(table *tabular.Table) *RowError {
	if table.HasHeaders(tabular.FixedHeaders) {
		return nil
	}
	have := make(map[string]bool, len(table.Headers))
	for _, h := range table.Headers {
		have[h] = true
	}
	var missing []string
	for _, h := range tabular.FixedHeaders {
		if !have[h] {
			missing = append(missing, h)
		}
	}
	return &RowError{
		Message: "Expected headers not found: " + strings.Join(missing, ", "),
	}
}

// validate collects every row-level problem in the batch without
// mutating anything. A non-empty result blocks the whole import.
func (e *Engine) validate(tx *catalog.Tx, groups []ArticleGroup) ([]RowError, error) {
	var errs []RowError
	stageSets := map[int64]map[string]bool{}

	for gi := range groups {
		g := &groups[gi]
		journal, jerr := e.groupJournal(tx, g)
		if jerr != nil {
			errs = append(errs, RowError{
				Row:     g.PrimaryRow,
				Field:   "Journal code",
				Message: jerr.Error(),
			})
		}

		if journal != nil {
			if stage := normalize.Trim(g.Primary.Get("Stage")); stage != "" {
				set, ok := stageSets[journal.ID]
				if !ok {
					var err error
					if set, err = e.stageSet(tx, journal.ID); err != nil {
						return nil, err
					}
					stageSets[journal.ID] = set
				}
				if !set[stage] {
					errs = append(errs, RowError{
						Row:     g.PrimaryRow,
						Field:   "Stage",
						Message: fmt.Sprintf("Unrecognized data in field Stage: %s", stage),
					})
				}
			}

			if g.IsUpdate() {
				a, err := tx.ArticleByID(journal.ID, g.ArticleID)
				if err != nil {
					return nil, err
				}
				if a == nil {
					errs = append(errs, RowError{
						Row:     g.PrimaryRow,
						Field:   "Article ID",
						Message: fmt.Sprintf("no article %d in journal %s", g.ArticleID, journal.Code),
					})
				}
			}
		}

		if lang := normalize.Trim(g.Primary.Get("Language")); lang != "" {
			if _, err := normalize.LanguageCode(lang); err != nil {
				errs = append(errs, RowError{
					Row:     g.PrimaryRow,
					Field:   "Language",
					Message: fmt.Sprintf("Unrecognized data in field Language: %s", lang),
				})
			}
		}

		for _, col := range []string{"Date accepted", "Date published", "Issue pub date"} {
			if raw := normalize.Trim(g.Primary.Get(col)); raw != "" {
				if _, err := normalize.ParseTime(raw); err != nil {
					errs = append(errs, RowError{
						Row:     g.PrimaryRow,
						Field:   col,
						Message: fmt.Sprintf("unparseable date %q", raw),
					})
				}
			}
		}

		for i, row := range g.Rows() {
			block := readAuthorBlock(row)
			if block.blank() {
				continue
			}
			if block.email == "" && !(block.isCorporate && block.institution != "") {
				errs = append(errs, RowError{
					Row:     g.PrimaryRow + i,
					Field:   "Author email",
					Message: "author needs an email or a corporate institution",
				})
			}
		}
	}
	return errs, nil
}

// stageSet assembles the valid stage identifiers for a journal: the
// fixed stages, the journal's registered workflow stages, and any extra
// stages configured on the engine.
func (e *Engine) stageSet(tx *catalog.Tx, journalID int64) (map[string]bool, error) {
	set := make(map[string]bool, len(catalog.FixedStages)+len(e.ExtraStages))
	for _, s := range catalog.FixedStages {
		set[s] = true
	}
	workflow, err := tx.WorkflowStages(journalID)
	if err != nil {
		return nil, err
	}
	for _, s := range workflow {
		set[s] = true
	}
	for _, s := range e.ExtraStages {
		set[s] = true
	}
	return set, nil
}

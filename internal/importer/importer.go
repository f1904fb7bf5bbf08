package importer

import (
	"github.com/mglenn/folio/internal/catalog"
	"github.com/mglenn/folio/internal/tabular"
)

// Engine runs imports against a catalog.
type Engine struct {
	Store *catalog.Store

	// DefaultJournal is the journal code applied to groups whose
	// "Journal code" cell is blank.
	DefaultJournal string

	// OwnerID, when non-zero, is the account recorded as owner of
	// created articles. Updates never change ownership.
	OwnerID int64

	// ExtraStages widens the valid stage vocabulary beyond the fixed
	// stages and each journal's workflow stages.
	ExtraStages []string

	// Persist commits the import. When false the whole run is rolled
	// back after the outcomes are computed (a dry run).
	Persist bool
}

// Import runs one batch against the catalog. It returns the validation
// errors when the batch is blocked (nothing was written), or the
// per-article outcomes when it was applied. The error return covers
// infrastructure failures only.
//
// The batch is all-or-nothing: one bad row blocks every row, and a
// mid-apply failure rolls back everything already applied.
func (e *Engine) Import(table *tabular.Table) ([]RowError, map[int64]Outcome, error) {
	if he := VerifyHeaders(table); he != nil {
		return []RowError{*he}, nil, nil
	}

	tx, err := e.Store.Begin()
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	groups, errs := PrepareRows(table)
	verrs, err := e.validate(tx, groups)
	if err != nil {
		return nil, nil, err
	}
	errs = append(errs, verrs...)
	if len(errs) > 0 {
		return errs, nil, nil
	}

	customHeaders := table.CustomHeaders()
	outcomes := make(map[int64]Outcome, len(groups))
	for gi := range groups {
		g := &groups[gi]
		journal, err := e.groupJournal(tx, g)
		if err != nil {
			return nil, nil, err
		}
		article, _, err := e.prepare(tx, g, journal)
		if err != nil {
			return nil, nil, err
		}
		if err := e.applyFields(tx, g, journal, article); err != nil {
			return nil, nil, err
		}

		if g.IsUpdate() {
			outcomes[article.ID] = OutcomeUpdated
		} else {
			if _, err := tx.CreateArticle(article); err != nil {
				return nil, nil, err
			}
			outcomes[article.ID] = OutcomeCreated
		}

		if err := e.applyExtras(tx, g, journal, article, customHeaders); err != nil {
			return nil, nil, err
		}
		if err := e.reconcileAuthors(tx, g, article); err != nil {
			return nil, nil, err
		}
		if err := tx.UpdateArticle(article); err != nil {
			return nil, nil, err
		}
	}

	if e.Persist {
		if err := tx.Commit(); err != nil {
			return nil, nil, err
		}
	}
	return nil, outcomes, nil
}

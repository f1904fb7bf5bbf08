package importer

import (
	"fmt"
	"strconv"

	"github.com/mglenn/folio/internal/catalog"
	"github.com/mglenn/folio/internal/normalize"
)

// defaultIssueType is the issue type assigned to issues the importer
// creates on demand.
const defaultIssueType = "issue"

// importAgreement marks articles whose submission agreement was never
// collected because they entered through an import.
const importAgreement = "Imported article"

// groupJournal resolves the journal a group belongs to: its "Journal
// code" cell when present, the engine's default journal otherwise.
func (e *Engine) groupJournal(tx *catalog.Tx, g *ArticleGroup) (*catalog.Journal, error) {
	code := normalize.Trim(g.Primary.Get("Journal code"))
	if code == "" {
		code = e.DefaultJournal
	}
	journal, err := tx.JournalByCode(code)
	if err != nil {
		return nil, err
	}
	if journal == nil {
		return nil, fmt.Errorf("unknown journal code %q", code)
	}
	return journal, nil
}

// prepare resolves a group's issue and loads or instantiates its
// article. The issue is keyed by (journal, volume, number) with blank
// cells reading as zero; its title and date are overwritten only by
// non-blank input. Rows are assumed validated.
func (e *Engine) prepare(tx *catalog.Tx, g *ArticleGroup, journal *catalog.Journal) (*catalog.Article, *catalog.Issue, error) {
	issueType, err := tx.EnsureIssueType(journal.ID, defaultIssueType)
	if err != nil {
		return nil, nil, err
	}

	volume := intOrZero(g.Primary.Get("Volume number"))
	number := intOrZero(g.Primary.Get("Issue number"))
	issue, err := tx.EnsureIssue(journal.ID, issueType.ID, volume, number)
	if err != nil {
		return nil, nil, err
	}

	changed := false
	if title := normalize.Trim(g.Primary.Get("Issue title")); title != "" {
		issue.Title = title
		changed = true
	}
	if raw := normalize.Trim(g.Primary.Get("Issue pub date")); raw != "" {
		date, err := normalize.ParseTime(raw)
		if err != nil {
			return nil, nil, err
		}
		issue.Date = &date
		changed = true
	}
	if changed {
		if err := tx.UpdateIssue(issue); err != nil {
			return nil, nil, err
		}
	}

	var article *catalog.Article
	if g.IsUpdate() {
		article, err = tx.ArticleByID(journal.ID, g.ArticleID)
		if err != nil {
			return nil, nil, err
		}
		if article == nil {
			return nil, nil, fmt.Errorf("no article %d in journal %s", g.ArticleID, journal.Code)
		}
	} else {
		article = &catalog.Article{
			JournalID: journal.ID,
			Stage:     catalog.StageUnassigned,
			Agreement: importAgreement,
		}
		if e.OwnerID != 0 {
			owner := e.OwnerID
			article.OwnerID = &owner
		}
	}
	article.JournalID = journal.ID
	article.IssueID = &issue.ID
	return article, issue, nil
}

// intOrZero smooths a numeric cell: blank or unparseable values read as
// zero.
func intOrZero(cell string) int {
	n, err := strconv.Atoi(normalize.Trim(cell))
	if err != nil {
		return 0
	}
	return n
}

package importer

import (
	"strconv"
	"time"

	"github.com/mglenn/folio/internal/catalog"
	"github.com/mglenn/folio/internal/normalize"
)

// fieldRule maps one column of the primary row onto the article.
// Rules marked keepBlank never fire on an empty cell, so an update
// with the cell blank leaves the stored value alone. Every other rule
// fires unconditionally, so a blank cell clears on update.
type fieldRule struct {
	column    string
	keepBlank bool
	apply     func(tx *catalog.Tx, journal *catalog.Journal, a *catalog.Article, cell string) error
}

// fieldRules is the complete per-column merge policy. The "DOI (URL
// form)" rule runs before "DOI" so the plain column wins when a row
// carries both.
var fieldRules = []fieldRule{
	{"Article title", false, setString(func(a *catalog.Article) *string { return &a.Title })},
	{"Article abstract", false, setString(func(a *catalog.Article) *string { return &a.Abstract })},
	{"Rights", false, setString(func(a *catalog.Article) *string { return &a.Rights })},
	{"Licence", false, setString(func(a *catalog.Article) *string { return &a.Licence })},
	{"Article number", false, setString(func(a *catalog.Article) *string { return &a.ArticleNumber })},
	{"Page numbers (custom)", false, setString(func(a *catalog.Article) *string { return &a.PageNumbers })},
	{"Competing interests", false, setString(func(a *catalog.Article) *string { return &a.CompetingInterests })},
	{"Peer reviewed (Y/N)", false, func(tx *catalog.Tx, j *catalog.Journal, a *catalog.Article, cell string) error {
		a.PeerReviewed = normalize.Bool(cell)
		return nil
	}},
	{"Language", false, func(tx *catalog.Tx, j *catalog.Journal, a *catalog.Article, cell string) error {
		if cell == "" {
			a.Language = ""
			return nil
		}
		code, err := normalize.LanguageCode(cell)
		if err != nil {
			return err
		}
		a.Language = code
		return nil
	}},
	{"Date accepted", false, func(tx *catalog.Tx, j *catalog.Journal, a *catalog.Article, cell string) error {
		var err error
		a.DateAccepted, err = timePtr(cell)
		return err
	}},
	{"Date published", false, func(tx *catalog.Tx, j *catalog.Journal, a *catalog.Article, cell string) error {
		var err error
		a.DatePublished, err = timePtr(cell)
		return err
	}},
	{"First page", false, func(tx *catalog.Tx, j *catalog.Journal, a *catalog.Article, cell string) error {
		a.FirstPage = intPtr(cell)
		return nil
	}},
	{"Last page", false, func(tx *catalog.Tx, j *catalog.Journal, a *catalog.Article, cell string) error {
		a.LastPage = intPtr(cell)
		return nil
	}},
	{"DOI (URL form)", true, func(tx *catalog.Tx, j *catalog.Journal, a *catalog.Article, cell string) error {
		a.DOI = normalize.DOI(cell)
		return nil
	}},
	{"DOI", true, func(tx *catalog.Tx, j *catalog.Journal, a *catalog.Article, cell string) error {
		a.DOI = normalize.DOI(cell)
		return nil
	}},
	{"Stage", true, func(tx *catalog.Tx, j *catalog.Journal, a *catalog.Article, cell string) error {
		a.Stage = cell
		return nil
	}},
	{"Journal title override", true, func(tx *catalog.Tx, j *catalog.Journal, a *catalog.Article, cell string) error {
		a.PublicationTitle = cell
		return nil
	}},
	{"Article section", true, func(tx *catalog.Tx, j *catalog.Journal, a *catalog.Article, cell string) error {
		section, err := tx.EnsureSection(j.ID, cell)
		if err != nil {
			return err
		}
		a.SectionID = &section.ID
		return nil
	}},
	{"ISSN override", true, func(tx *catalog.Tx, j *catalog.Journal, a *catalog.Article, cell string) error {
		if cell == j.ISSN {
			return nil
		}
		if err := tx.SetJournalISSN(j.ID, cell); err != nil {
			return err
		}
		j.ISSN = cell
		return nil
	}},
}

func setString(field func(*catalog.Article) *string) func(*catalog.Tx, *catalog.Journal, *catalog.Article, string) error {
	return func(tx *catalog.Tx, j *catalog.Journal, a *catalog.Article, cell string) error {
		*field(a) = cell
		return nil
	}
}

// applyFields runs the merge policy over a group's primary row. Rows
// are assumed validated.
func (e *Engine) applyFields(tx *catalog.Tx, g *ArticleGroup, journal *catalog.Journal, article *catalog.Article) error {
	for _, rule := range fieldRules {
		cell := normalize.Trim(g.Primary.Get(rule.column))
		if cell == "" && rule.keepBlank {
			continue
		}
		if err := rule.apply(tx, journal, article, cell); err != nil {
			return err
		}
	}
	return nil
}

// applyExtras writes the parts that need the article's id: the keyword
// list, always replaced wholesale, and answers for any custom columns
// the journal defines. Custom columns without a matching field
// definition are ignored.
func (e *Engine) applyExtras(tx *catalog.Tx, g *ArticleGroup, journal *catalog.Journal, article *catalog.Article, customHeaders []string) error {
	words := catalog.SplitKeywords(g.Primary.Get("Keywords"))
	if err := tx.SetKeywords(article.ID, words); err != nil {
		return err
	}

	for _, col := range customHeaders {
		field, err := tx.FieldByName(journal.ID, col)
		if err != nil {
			return err
		}
		if field == nil {
			continue
		}
		answer := normalize.Trim(g.Primary.Get(col))
		if err := tx.SetFieldAnswer(article.ID, field.ID, answer); err != nil {
			return err
		}
	}
	return nil
}

func timePtr(cell string) (*time.Time, error) {
	if cell == "" {
		return nil, nil
	}
	t, err := normalize.ParseTime(cell)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// intPtr smooths a page cell: blank or non-numeric values clear the
// stored page.
func intPtr(cell string) *int {
	n, err := strconv.Atoi(cell)
	if err != nil {
		return nil
	}
	return &n
}

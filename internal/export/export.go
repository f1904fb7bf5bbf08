// Package export renders catalog articles back into the tabular
// metadata format, in a shape the importer accepts unchanged.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mglenn/folio/internal/catalog"
	"github.com/mglenn/folio/internal/normalize"
	"github.com/mglenn/folio/internal/tabular"
)

// Table renders articles as an import-ready table: one primary row per
// article followed by one continuation row per additional author.
// Custom columns are added for every custom field answered by any of
// the articles, in name order.
func Table(tx *catalog.Tx, articles []*catalog.Article) (*tabular.Table, error) {
	answers := make([]map[string]string, len(articles))
	customSet := map[string]bool{}
	for i, a := range articles {
		m, err := tx.FieldAnswers(a.ID)
		if err != nil {
			return nil, err
		}
		answers[i] = m
		for name := range m {
			customSet[name] = true
		}
	}
	var custom []string
	for name := range customSet {
		custom = append(custom, name)
	}
	sort.Strings(custom)

	table := tabular.NewTable(append(append([]string(nil), tabular.FixedHeaders...), custom...))
	for i, a := range articles {
		rows, err := articleRows(tx, a, custom, answers[i])
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			table.Append(r)
		}
	}
	return table, nil
}

func articleRows(tx *catalog.Tx, a *catalog.Article, custom []string, answers map[string]string) ([]tabular.Row, error) {
	journal, err := journalOf(tx, a)
	if err != nil {
		return nil, err
	}

	primary := tabular.Row{
		"Article ID":             strconv.FormatInt(a.ID, 10),
		"Article title":          a.Title,
		"Article abstract":       a.Abstract,
		"Rights":                 a.Rights,
		"Licence":                a.Licence,
		"Language":               languageName(a.Language),
		"Peer reviewed (Y/N)":    normalize.FormatBool(a.PeerReviewed),
		"DOI":                    a.DOI,
		"Article number":         a.ArticleNumber,
		"First page":             pageCell(a.FirstPage),
		"Last page":              pageCell(a.LastPage),
		"Page numbers (custom)":  a.PageNumbers,
		"Competing interests":    a.CompetingInterests,
		"Stage":                  a.Stage,
		"File import identifier": strconv.FormatInt(a.ID, 10),
		"Journal code":           journal.Code,
		"Journal title override": a.PublicationTitle,
		"ISSN override":          journal.ISSN,
	}
	if a.DOI != "" {
		primary["DOI (URL form)"] = normalize.DOIPrefix + a.DOI
	}
	if a.DateAccepted != nil {
		primary["Date accepted"] = normalize.FormatTime(*a.DateAccepted)
	}
	if a.DatePublished != nil {
		primary["Date published"] = normalize.FormatTime(*a.DatePublished)
	}

	words, err := tx.Keywords(a.ID)
	if err != nil {
		return nil, err
	}
	primary["Keywords"] = strings.Join(words, ", ")

	if a.SectionID != nil {
		section, err := tx.SectionByID(*a.SectionID)
		if err != nil {
			return nil, err
		}
		if section != nil {
			primary["Article section"] = section.Name
		}
	}
	if a.IssueID != nil {
		issue, err := tx.IssueByID(*a.IssueID)
		if err != nil {
			return nil, err
		}
		if issue != nil {
			primary["Volume number"] = strconv.Itoa(issue.Volume)
			primary["Issue number"] = strconv.Itoa(issue.Number)
			primary["Issue title"] = issue.Title
			if issue.Date != nil {
				primary["Issue pub date"] = normalize.FormatTime(*issue.Date)
			}
		}
	}
	for _, name := range custom {
		primary[name] = answers[name]
	}

	frozen, err := tx.FrozenAuthors(a.ID)
	if err != nil {
		return nil, err
	}

	rows := []tabular.Row{primary}
	for i, fa := range frozen {
		var row tabular.Row
		if i == 0 {
			row = primary
		} else {
			row = tabular.Row{}
			rows = append(rows, row)
		}
		if err := fillAuthor(tx, row, &fa, a); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func journalOf(tx *catalog.Tx, a *catalog.Article) (*catalog.Journal, error) {
	journal, err := tx.JournalByID(a.JournalID)
	if err != nil {
		return nil, err
	}
	if journal == nil {
		return nil, fmt.Errorf("article %d references missing journal %d", a.ID, a.JournalID)
	}
	return journal, nil
}

// fillAuthor writes one frozen snapshot's author block onto a row.
// Email and salutation live on the account, not the snapshot.
func fillAuthor(tx *catalog.Tx, row tabular.Row, fa *catalog.FrozenAuthor, a *catalog.Article) error {
	row["Author given name"] = fa.FirstName
	row["Author middle name"] = fa.MiddleName
	row["Author surname"] = fa.LastName
	row["Author suffix"] = fa.Suffix
	row["Author institution"] = fa.Institution
	row["Author department"] = fa.Department
	row["Author biography"] = fa.Biography
	row["Author is corporate (Y/N)"] = normalize.FormatBool(fa.IsCorporate)
	row["Author is primary (Y/N)"] = normalize.FormatBool(false)
	if fa.ORCID != "" {
		row["Author ORCID"] = normalize.ORCIDPrefix + fa.ORCID
	}

	if fa.AccountID != nil {
		account, err := tx.AccountByID(*fa.AccountID)
		if err != nil {
			return err
		}
		if account != nil {
			row["Author email"] = account.Email
			row["Author salutation"] = account.Salutation
			if a.CorrespondenceID != nil && *a.CorrespondenceID == account.ID {
				row["Author is primary (Y/N)"] = normalize.FormatBool(true)
			}
		}
	}
	return nil
}

// pageCell renders an optional page number, blank when unset.
func pageCell(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

// languageName renders a stored language code as its display name.
// Unknown codes pass through unchanged.
func languageName(code string) string {
	if name := normalize.LanguageName(code); name != "" {
		return name
	}
	return code
}

package ojs

import (
	"strconv"
	"strings"

	"github.com/mglenn/folio/internal/tabular"
)

// ImportTable converts fetched articles into an import-ready table:
// one primary row per article plus continuation rows for its extra
// authors. Remote ids land in "File import identifier" so repeated
// fetches can be traced back; "Article ID" is left blank because the
// remote ids live in a different id space.
func ImportTable(articles []Article, journalCode string) *tabular.Table {
	table := tabular.NewTable(tabular.FixedHeaders)
	for i := range articles {
		for _, row := range articleRows(&articles[i], journalCode) {
			table.Append(row)
		}
	}
	return table
}

func articleRows(a *Article, journalCode string) []tabular.Row {
	primary := tabular.Row{
		"Article title":          a.Title,
		"Article abstract":       a.Abstract,
		"Keywords":               strings.Join(a.Keywords, ", "),
		"Language":               a.Language,
		"DOI":                    a.DOI,
		"Date accepted":          a.DateAccepted,
		"Date published":         a.DatePublished,
		"Article section":        a.Section,
		"Journal code":           journalCode,
		"File import identifier": strconv.Itoa(a.ID),
	}
	if a.Issue != nil {
		primary["Volume number"] = strconv.Itoa(a.Issue.Volume)
		primary["Issue number"] = strconv.Itoa(a.Issue.Number)
		primary["Issue title"] = a.Issue.Title
		primary["Issue pub date"] = a.Issue.Date
	}
	if len(a.Files) > 0 {
		primary["PDF URI"] = a.Files[0].URL
	}

	rows := []tabular.Row{primary}
	for i, author := range a.Authors {
		row := primary
		if i > 0 {
			row = tabular.Row{}
			rows = append(rows, row)
		}
		fillAuthorRow(row, &author)
	}
	return rows
}

func fillAuthorRow(row tabular.Row, author *Author) {
	row["Author given name"] = author.FirstName
	row["Author middle name"] = author.MiddleName
	row["Author surname"] = author.LastName
	row["Author email"] = author.Email
	row["Author ORCID"] = author.ORCID
	row["Author institution"] = author.Affiliation
	row["Author biography"] = author.Biography
	if author.Primary {
		row["Author is primary (Y/N)"] = "Y"
	}
}

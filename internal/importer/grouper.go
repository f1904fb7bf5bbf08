package importer

import (
	"fmt"
	"strconv"

	"github.com/mglenn/folio/internal/normalize"
	"github.com/mglenn/folio/internal/tabular"
)

// ArticleGroup is one article's unit of work: a primary row plus the
// continuation rows that carry its remaining authors.
type ArticleGroup struct {
	// Primary is the row with a non-blank title. Article-level fields
	// are read from it alone.
	Primary tabular.Row

	// AuthorRows are the continuation rows, in file order.
	AuthorRows []tabular.Row

	// PrimaryRow is the 1-based data-row number of the primary row,
	// used in error reporting.
	PrimaryRow int

	// ArticleID is the target article id for updates, 0 for creates.
	ArticleID int64
}

// IsUpdate reports whether the group targets an existing article.
func (g *ArticleGroup) IsUpdate() bool { return g.ArticleID != 0 }

// Rows returns the group's rows in author order: the primary row first,
// then the continuation rows.
func (g *ArticleGroup) Rows() []tabular.Row {
	return append([]tabular.Row{g.Primary}, g.AuthorRows...)
}

// PrepareRows partitions a table's data rows into article groups. A row
// with a non-blank "Article title" starts a new group; rows after it
// with a blank title belong to that group as author rows. The returned
// errors cover malformed article ids and author rows with no preceding
// primary row.
func PrepareRows(table *tabular.Table) ([]ArticleGroup, []RowError) {
	var groups []ArticleGroup
	var errs []RowError

	for i, row := range table.Rows {
		num := i + 1
		title := normalize.Trim(row.Get("Article title"))
		if title == "" {
			if len(groups) == 0 {
				errs = append(errs, RowError{
					Row:     num,
					Field:   "Article title",
					Message: "author row without a preceding article row",
				})
				continue
			}
			g := &groups[len(groups)-1]
			g.AuthorRows = append(g.AuthorRows, row)
			continue
		}

		g := ArticleGroup{Primary: row, PrimaryRow: num}
		if raw := normalize.Trim(row.Get("Article ID")); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				errs = append(errs, RowError{
					Row:     num,
					Field:   "Article ID",
					Message: fmt.Sprintf("expected a positive integer, got %q", raw),
				})
			} else {
				g.ArticleID = id
			}
		}
		groups = append(groups, g)
	}
	return groups, errs
}

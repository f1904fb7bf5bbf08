// Package tabular models the row-oriented metadata format used for
// article imports and exports.
package tabular

// FixedHeaders is the fixed column schema, in canonical order. Input files
// must carry at least these columns; any additional columns are treated as
// per-journal custom fields.
var FixedHeaders = []string{
	"Article ID",
	"Article title",
	"Article abstract",
	"Keywords",
	"Rights",
	"Licence",
	"Language",
	"Peer reviewed (Y/N)",
	"Author salutation",
	"Author given name",
	"Author middle name",
	"Author surname",
	"Author suffix",
	"Author email",
	"Author ORCID",
	"Author institution",
	"Author department",
	"Author biography",
	"Author is primary (Y/N)",
	"Author is corporate (Y/N)",
	"DOI",
	"DOI (URL form)",
	"Date accepted",
	"Date published",
	"Article number",
	"First page",
	"Last page",
	"Page numbers (custom)",
	"Competing interests",
	"Article section",
	"Stage",
	"File import identifier",
	"Journal code",
	"Journal title override",
	"ISSN override",
	"Volume number",
	"Issue number",
	"Issue title",
	"Issue pub date",
	"PDF URI",
}

// AuthorHeaders is the per-author column block within the fixed schema.
var AuthorHeaders = []string{
	"Author salutation",
	"Author given name",
	"Author middle name",
	"Author surname",
	"Author suffix",
	"Author email",
	"Author ORCID",
	"Author institution",
	"Author department",
	"Author biography",
	"Author is primary (Y/N)",
	"Author is corporate (Y/N)",
}

// Row maps column names to raw cell values. Missing cells read as "".
type Row map[string]string

// Get returns the raw value for a column, or "" when absent.
func (r Row) Get(col string) string {
	return r[col]
}

// Table is an ordered set of rows under a shared header.
type Table struct {
	Headers []string
	Rows    []Row
}

// NewTable returns an empty table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{Headers: append([]string(nil), headers...)}
}

// Append adds a row, filling in blanks for any missing columns.
func (t *Table) Append(r Row) {
	if r == nil {
		r = Row{}
	}
	for _, h := range t.Headers {
		if _, ok := r[h]; !ok {
			r[h] = ""
		}
	}
	t.Rows = append(t.Rows, r)
}

// HasHeaders reports whether the table's header set contains every
// column in want.
func (t *Table) HasHeaders(want []string) bool {
	have := make(map[string]bool, len(t.Headers))
	for _, h := range t.Headers {
		have[h] = true
	}
	for _, h := range want {
		if !have[h] {
			return false
		}
	}
	return true
}

// CustomHeaders returns the table's columns that are not part of the
// fixed schema, in header order.
func (t *Table) CustomHeaders() []string {
	fixed := make(map[string]bool, len(FixedHeaders))
	for _, h := range FixedHeaders {
		fixed[h] = true
	}
	var custom []string
	for _, h := range t.Headers {
		if !fixed[h] {
			custom = append(custom, h)
		}
	}
	return custom
}

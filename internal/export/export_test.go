package export

import (
	"path/filepath"
	"testing"

	"github.com/mglenn/folio/internal/catalog"
	"github.com/mglenn/folio/internal/importer"
	"github.com/mglenn/folio/internal/tabular"
)

func importSample(t *testing.T) (*catalog.Store, int64) {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	err = store.WithTx(func(tx *catalog.Tx) error {
		_, err := tx.CreateJournal("TST", "Test Journal", "")
		return err
	})
	if err != nil {
		t.Fatalf("seeding journal: %v", err)
	}

	table := tabular.NewTable(tabular.FixedHeaders)
	table.Append(tabular.Row{
		"Article title":             "Variopleistocene Inquilibriums",
		"Article abstract":          "How it all went down.",
		"Keywords":                  "dinosaurs, Socratic method",
		"Language":                  "English",
		"Peer reviewed (Y/N)":       "Y",
		"Author salutation":         "Prof",
		"Author given name":         "Unreal",
		"Author surname":            "Person",
		"Author email":              "unrealperson@example.com",
		"Author ORCID":              "0000-1234-5578-901X",
		"Author institution":        "University of Michigan Medical School",
		"Author is primary (Y/N)":   "Y",
		"DOI":                       "10.1234/tst.1",
		"Date published":            "2021-10-25",
		"First page":                "3",
		"Article section":           "Article",
		"Stage":                     "Published",
		"Journal code":              "TST",
		"Volume number":             "1",
		"Issue number":              "1",
		"Issue title":               "Fall 2021",
		"Issue pub date":            "2021-09-15",
	})
	table.Append(tabular.Row{
		"Author institution":        "Example Press",
		"Author is corporate (Y/N)": "Y",
	})

	e := &importer.Engine{Store: store, DefaultJournal: "TST", Persist: true}
	errs, outcomes, err := e.Import(table)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(errs) > 0 {
		t.Fatalf("Import() blocked: %v", errs)
	}
	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(outcomes))
	}
	for id := range outcomes {
		return store, id
	}
	return nil, 0
}

func TestTableRoundTrip(t *testing.T) {
	store, id := importSample(t)

	tx, err := store.Begin()
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer tx.Rollback()

	article, err := tx.ArticleByAnyJournal(id)
	if err != nil {
		t.Fatalf("ArticleByAnyJournal() error = %v", err)
	}
	table, err := Table(tx, []*catalog.Article{article})
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	if len(table.Rows) != 2 {
		t.Fatalf("exported %d rows, want a primary and one author row", len(table.Rows))
	}
	primary, author := table.Rows[0], table.Rows[1]

	checks := map[string]string{
		"Article title":           "Variopleistocene Inquilibriums",
		"Keywords":                "dinosaurs, Socratic method",
		"Language":                "English",
		"Peer reviewed (Y/N)":     "Y",
		"DOI":                     "10.1234/tst.1",
		"DOI (URL form)":          "https://doi.org/10.1234/tst.1",
		"Date published":          "2021-10-25T12:00:00+00:00",
		"First page":              "3",
		"Last page":               "",
		"Article section":         "Article",
		"Stage":                   "Published",
		"Journal code":            "TST",
		"ISSN override":           "0000-0000",
		"Volume number":           "1",
		"Issue number":            "1",
		"Issue title":             "Fall 2021",
		"Issue pub date":          "2021-09-15T12:00:00+00:00",
		"Author email":            "unrealperson@example.com",
		"Author salutation":       "Prof",
		"Author ORCID":            "https://orcid.org/0000-1234-5578-901X",
		"Author is primary (Y/N)": "Y",
	}
	for col, want := range checks {
		if got := primary.Get(col); got != want {
			t.Errorf("primary[%s] = %q, want %q", col, got, want)
		}
	}

	if author.Get("Article title") != "" {
		t.Error("author row carries article fields")
	}
	if author.Get("Author institution") != "Example Press" {
		t.Errorf("author institution = %q", author.Get("Author institution"))
	}
	if author.Get("Author is corporate (Y/N)") != "Y" {
		t.Errorf("author corporate flag = %q", author.Get("Author is corporate (Y/N)"))
	}

	// an export feeds straight back into the importer
	tx.Rollback()
	e := &importer.Engine{Store: store, DefaultJournal: "TST", Persist: true}
	errs, outcomes, err := e.Import(table)
	if err != nil {
		t.Fatalf("re-Import() error = %v", err)
	}
	if len(errs) > 0 {
		t.Fatalf("re-Import() blocked: %v", errs)
	}
	if outcomes[id] != importer.OutcomeUpdated {
		t.Errorf("re-import outcome = %q, want %q", outcomes[id], importer.OutcomeUpdated)
	}
}

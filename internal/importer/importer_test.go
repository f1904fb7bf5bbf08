package importer

import (
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mglenn/folio/internal/catalog"
	"github.com/mglenn/folio/internal/tabular"
)

func setupEngine(t *testing.T) *Engine {
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
	return &Engine{Store: store, DefaultJournal: "TST", Persist: true}
}

func testTable(rows ...tabular.Row) *tabular.Table {
	table := tabular.NewTable(tabular.FixedHeaders)
	for _, r := range rows {
		table.Append(r)
	}
	return table
}

func sampleRow() tabular.Row {
	return tabular.Row{
		"Article title":             "Variopleistocene Inquilibriums",
		"Article abstract":          "How it all went down.",
		"Keywords":                  "dinosaurs, Socratic method",
		"Rights":                    "All rights reserved",
		"Licence":                   "CC BY-NC-SA 4.0",
		"Language":                  "English",
		"Peer reviewed (Y/N)":       "Y",
		"Author salutation":         "Prof",
		"Author given name":         "Unreal",
		"Author surname":            "Person",
		"Author email":              "unrealperson@example.com",
		"Author ORCID":              "https://orcid.org/0000-1234-5578-901X",
		"Author institution":        "University of Michigan Medical School",
		"Author department":         "Cancer Center",
		"Author biography":          "Prof Person teaches dinosaur sociology.",
		"Author is primary (Y/N)":   "Y",
		"Author is corporate (Y/N)": "N",
		"DOI":                       "https://doi.org/10.1234/tst.1",
		"Date accepted":             "2021-10-24",
		"Date published":            "2021-10-25",
		"First page":                "3",
		"Last page":                 "4",
		"Competing interests":       "None declared",
		"Article section":           "Article",
		"Stage":                     "Editor Copyediting",
		"Journal code":              "TST",
		"Volume number":             "1",
		"Issue number":              "1",
		"Issue title":               "Fall 2021",
		"Issue pub date":            "2021-09-15",
	}
}

// runImport runs a batch that is expected to apply cleanly.
func runImport(t *testing.T, e *Engine, table *tabular.Table) map[int64]Outcome {
	t.Helper()
	errs, outcomes, err := e.Import(table)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(errs) > 0 {
		t.Fatalf("Import() blocked: %v", errs)
	}
	return outcomes
}

func soleOutcome(t *testing.T, outcomes map[int64]Outcome, want Outcome) int64 {
	t.Helper()
	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1: %v", len(outcomes), outcomes)
	}
	for id, o := range outcomes {
		if o != want {
			t.Fatalf("outcome = %q, want %q", o, want)
		}
		return id
	}
	return 0
}

// inspect opens a read transaction over the committed state.
func inspect(t *testing.T, e *Engine) *catalog.Tx {
	t.Helper()
	tx, err := e.Store.Begin()
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

func TestImportCreatesArticle(t *testing.T) {
	e := setupEngine(t)
	id := soleOutcome(t, runImport(t, e, testTable(sampleRow())), OutcomeCreated)

	tx := inspect(t, e)
	a, err := tx.ArticleByAnyJournal(id)
	if err != nil {
		t.Fatalf("ArticleByAnyJournal() error = %v", err)
	}
	if a == nil {
		t.Fatal("imported article not found")
	}

	if a.Title != "Variopleistocene Inquilibriums" {
		t.Errorf("Title = %q", a.Title)
	}
	if a.Abstract != "How it all went down." {
		t.Errorf("Abstract = %q", a.Abstract)
	}
	if a.Language != "eng" {
		t.Errorf("Language = %q, want eng", a.Language)
	}
	if a.DOI != "10.1234/tst.1" {
		t.Errorf("DOI = %q, want 10.1234/tst.1", a.DOI)
	}
	if !a.PeerReviewed {
		t.Error("PeerReviewed = false, want true")
	}
	if a.Stage != "Editor Copyediting" {
		t.Errorf("Stage = %q", a.Stage)
	}
	if a.Agreement != "Imported article" {
		t.Errorf("Agreement = %q", a.Agreement)
	}
	wantAccepted := time.Date(2021, 10, 24, 12, 0, 0, 0, time.UTC)
	if a.DateAccepted == nil || !a.DateAccepted.Equal(wantAccepted) {
		t.Errorf("DateAccepted = %v, want %v", a.DateAccepted, wantAccepted)
	}
	if a.FirstPage == nil || *a.FirstPage != 3 {
		t.Errorf("FirstPage = %v, want 3", a.FirstPage)
	}
	if a.LastPage == nil || *a.LastPage != 4 {
		t.Errorf("LastPage = %v, want 4", a.LastPage)
	}

	words, err := tx.Keywords(a.ID)
	if err != nil {
		t.Fatalf("Keywords() error = %v", err)
	}
	if len(words) != 2 || words[0] != "dinosaurs" || words[1] != "Socratic method" {
		t.Errorf("Keywords() = %v", words)
	}

	if a.IssueID == nil {
		t.Fatal("IssueID = nil")
	}
	issue, err := tx.IssueByID(*a.IssueID)
	if err != nil {
		t.Fatalf("IssueByID() error = %v", err)
	}
	if issue.Volume != 1 || issue.Number != 1 {
		t.Errorf("issue key = %d.%d, want 1.1", issue.Volume, issue.Number)
	}
	if issue.Title != "Fall 2021" {
		t.Errorf("issue Title = %q", issue.Title)
	}
	if issue.Date == nil {
		t.Error("issue Date = nil")
	}

	if a.SectionID == nil {
		t.Fatal("SectionID = nil")
	}
	section, err := tx.SectionByID(*a.SectionID)
	if err != nil {
		t.Fatalf("SectionByID() error = %v", err)
	}
	if section.Name != "Article" {
		t.Errorf("section = %q, want Article", section.Name)
	}

	fas, err := tx.FrozenAuthors(a.ID)
	if err != nil {
		t.Fatalf("FrozenAuthors() error = %v", err)
	}
	if len(fas) != 1 {
		t.Fatalf("FrozenAuthors() returned %d, want 1", len(fas))
	}
	if fas[0].Order != 1 || fas[0].LastName != "Person" {
		t.Errorf("frozen author = %+v", fas[0])
	}
	if fas[0].ORCID != "0000-1234-5578-901X" {
		t.Errorf("frozen ORCID = %q, want the bare id", fas[0].ORCID)
	}

	account, err := tx.AccountByEmail("unrealperson@example.com")
	if err != nil {
		t.Fatalf("AccountByEmail() error = %v", err)
	}
	if account == nil {
		t.Fatal("author account not created")
	}
	if a.CorrespondenceID == nil || *a.CorrespondenceID != account.ID {
		t.Errorf("CorrespondenceID = %v, want %d", a.CorrespondenceID, account.ID)
	}
}

func TestUpdateClearsAndPreserves(t *testing.T) {
	e := setupEngine(t)
	id := soleOutcome(t, runImport(t, e, testTable(sampleRow())), OutcomeCreated)

	update := sampleRow()
	update["Article ID"] = intCell(id)
	update["Article title"] = "Multipleistocene Exquilibriums"
	for _, col := range []string{
		"Article abstract", "Keywords", "Rights", "Licence", "Language",
		"Peer reviewed (Y/N)", "DOI", "Date accepted", "Date published",
		"First page", "Last page", "Competing interests", "Article section",
		"Stage", "Volume number", "Issue number", "Issue title", "Issue pub date",
	} {
		update[col] = ""
	}

	got := soleOutcome(t, runImport(t, e, testTable(update)), OutcomeUpdated)
	if got != id {
		t.Fatalf("updated article %d, want %d", got, id)
	}

	tx := inspect(t, e)
	a, err := tx.ArticleByAnyJournal(id)
	if err != nil {
		t.Fatalf("ArticleByAnyJournal() error = %v", err)
	}

	if a.Title != "Multipleistocene Exquilibriums" {
		t.Errorf("Title = %q", a.Title)
	}
	// blank cells clear these
	if a.Abstract != "" || a.Rights != "" || a.Licence != "" || a.Language != "" {
		t.Errorf("text fields not cleared: %q %q %q %q", a.Abstract, a.Rights, a.Licence, a.Language)
	}
	if a.PeerReviewed {
		t.Error("PeerReviewed = true after blank cell")
	}
	if a.DateAccepted != nil || a.DatePublished != nil {
		t.Errorf("dates not cleared: %v %v", a.DateAccepted, a.DatePublished)
	}
	if a.FirstPage != nil || a.LastPage != nil {
		t.Errorf("pages not cleared: %v %v", a.FirstPage, a.LastPage)
	}
	words, _ := tx.Keywords(a.ID)
	if len(words) != 0 {
		t.Errorf("Keywords = %v, want none", words)
	}
	// blank cells keep these
	if a.DOI != "10.1234/tst.1" {
		t.Errorf("DOI = %q, want preserved value", a.DOI)
	}
	if a.Stage != "Editor Copyediting" {
		t.Errorf("Stage = %q, want preserved value", a.Stage)
	}
	if a.SectionID == nil {
		t.Error("SectionID cleared by blank cell")
	}
	// blank issue cells re-key the article onto issue 0.0
	if a.IssueID == nil {
		t.Fatal("IssueID = nil")
	}
	issue, _ := tx.IssueByID(*a.IssueID)
	if issue.Volume != 0 || issue.Number != 0 {
		t.Errorf("issue key = %d.%d, want 0.0", issue.Volume, issue.Number)
	}
}

func TestGroupedAuthorRows(t *testing.T) {
	e := setupEngine(t)

	second := tabular.Row{
		"Author given name":       "Second",
		"Author surname":          "Author",
		"Author email":            "second@example.com",
		"Author is primary (Y/N)": "Y",
	}
	corporate := tabular.Row{
		"Author institution":        "Example Press",
		"Author is corporate (Y/N)": "Y",
	}
	id := soleOutcome(t, runImport(t, e, testTable(sampleRow(), second, corporate)), OutcomeCreated)

	tx := inspect(t, e)
	fas, err := tx.FrozenAuthors(id)
	if err != nil {
		t.Fatalf("FrozenAuthors() error = %v", err)
	}
	if len(fas) != 3 {
		t.Fatalf("FrozenAuthors() returned %d, want 3", len(fas))
	}
	for i, fa := range fas {
		if fa.Order != i+1 {
			t.Errorf("snapshot %d has order %d", i, fa.Order)
		}
	}
	if !fas[2].IsCorporate || fas[2].Institution != "Example Press" {
		t.Errorf("corporate snapshot = %+v", fas[2])
	}

	corp, err := tx.CorporateAccountByInstitution("Example Press")
	if err != nil {
		t.Fatalf("CorporateAccountByInstitution() error = %v", err)
	}
	if corp == nil {
		t.Fatal("corporate account not created")
	}

	// the later primary flag wins the correspondence role
	a, _ := tx.ArticleByAnyJournal(id)
	winner, _ := tx.AccountByEmail("second@example.com")
	if a.CorrespondenceID == nil || *a.CorrespondenceID != winner.ID {
		t.Errorf("CorrespondenceID = %v, want %d", a.CorrespondenceID, winner.ID)
	}
}

func TestUpdateDropsRemovedAuthors(t *testing.T) {
	e := setupEngine(t)

	second := tabular.Row{
		"Author given name": "Second",
		"Author surname":    "Author",
		"Author email":      "second@example.com",
	}
	third := tabular.Row{
		"Author given name": "Third",
		"Author surname":    "Author",
		"Author email":      "third@example.com",
	}
	id := soleOutcome(t, runImport(t, e, testTable(sampleRow(), second, third)), OutcomeCreated)

	// the update re-states only the first author
	update := sampleRow()
	update["Article ID"] = intCell(id)
	soleOutcome(t, runImport(t, e, testTable(update)), OutcomeUpdated)

	tx := inspect(t, e)
	fas, err := tx.FrozenAuthors(id)
	if err != nil {
		t.Fatalf("FrozenAuthors() error = %v", err)
	}
	if len(fas) != 1 {
		t.Fatalf("FrozenAuthors() returned %d, want 1", len(fas))
	}
	if fas[0].Order != 1 || fas[0].LastName != "Person" {
		t.Errorf("surviving snapshot = %+v", fas[0])
	}
	authors, err := tx.Authors(id)
	if err != nil {
		t.Fatalf("Authors() error = %v", err)
	}
	if len(authors) != 1 || authors[0].Email != "unrealperson@example.com" {
		t.Errorf("Authors() = %v, want only the re-stated author", authors)
	}
}

func TestUpdateWithBlankAuthorsRemovesAll(t *testing.T) {
	e := setupEngine(t)
	id := soleOutcome(t, runImport(t, e, testTable(sampleRow())), OutcomeCreated)

	update := sampleRow()
	update["Article ID"] = intCell(id)
	for _, col := range tabular.AuthorHeaders {
		update[col] = ""
	}
	soleOutcome(t, runImport(t, e, testTable(update)), OutcomeUpdated)

	tx := inspect(t, e)
	fas, err := tx.FrozenAuthors(id)
	if err != nil {
		t.Fatalf("FrozenAuthors() error = %v", err)
	}
	if len(fas) != 0 {
		t.Errorf("FrozenAuthors() = %v, want none", fas)
	}
	authors, _ := tx.Authors(id)
	if len(authors) != 0 {
		t.Errorf("Authors() = %v, want none", authors)
	}
	a, _ := tx.ArticleByAnyJournal(id)
	if a.CorrespondenceID != nil {
		t.Errorf("CorrespondenceID = %v, want nil", a.CorrespondenceID)
	}
}

func TestUpdateWithoutPrimaryFlagClearsCorrespondence(t *testing.T) {
	e := setupEngine(t)
	id := soleOutcome(t, runImport(t, e, testTable(sampleRow())), OutcomeCreated)

	update := sampleRow()
	update["Article ID"] = intCell(id)
	update["Author is primary (Y/N)"] = "N"
	soleOutcome(t, runImport(t, e, testTable(update)), OutcomeUpdated)

	tx := inspect(t, e)
	a, err := tx.ArticleByAnyJournal(id)
	if err != nil {
		t.Fatalf("ArticleByAnyJournal() error = %v", err)
	}
	if a.CorrespondenceID != nil {
		t.Errorf("CorrespondenceID = %v, want nil when no block claims primary", a.CorrespondenceID)
	}

	// flagging primary again restores the role
	tx.Rollback()
	update["Author is primary (Y/N)"] = "Y"
	soleOutcome(t, runImport(t, e, testTable(update)), OutcomeUpdated)
	tx2 := inspect(t, e)
	a, _ = tx2.ArticleByAnyJournal(id)
	account, _ := tx2.AccountByEmail("unrealperson@example.com")
	if a.CorrespondenceID == nil || *a.CorrespondenceID != account.ID {
		t.Errorf("CorrespondenceID = %v, want %d", a.CorrespondenceID, account.ID)
	}
}

// storedState captures everything an import writes for one article.
type storedState struct {
	article catalog.Article
	frozen  []catalog.FrozenAuthor
	words   []string
}

func snapshotState(t *testing.T, e *Engine, id int64) storedState {
	t.Helper()
	tx := inspect(t, e)
	defer tx.Rollback()
	a, err := tx.ArticleByAnyJournal(id)
	if err != nil || a == nil {
		t.Fatalf("ArticleByAnyJournal() = %v, %v", a, err)
	}
	fas, err := tx.FrozenAuthors(id)
	if err != nil {
		t.Fatalf("FrozenAuthors() error = %v", err)
	}
	words, err := tx.Keywords(id)
	if err != nil {
		t.Fatalf("Keywords() error = %v", err)
	}
	return storedState{article: *a, frozen: fas, words: words}
}

func TestReimportIdempotent(t *testing.T) {
	e := setupEngine(t)

	second := tabular.Row{
		"Author given name": "Second",
		"Author surname":    "Author",
		"Author email":      "second@example.com",
	}
	id := soleOutcome(t, runImport(t, e, testTable(sampleRow(), second)), OutcomeCreated)

	update := sampleRow()
	update["Article ID"] = intCell(id)
	soleOutcome(t, runImport(t, e, testTable(update, second)), OutcomeUpdated)
	first := snapshotState(t, e, id)

	soleOutcome(t, runImport(t, e, testTable(update, second)), OutcomeUpdated)
	got := snapshotState(t, e, id)

	if !reflect.DeepEqual(got, first) {
		t.Errorf("state after second import = %+v, want %+v", got, first)
	}
}

func TestDryRunRollsBack(t *testing.T) {
	e := setupEngine(t)
	e.Persist = false

	id := soleOutcome(t, runImport(t, e, testTable(sampleRow())), OutcomeCreated)
	if id == 0 {
		t.Fatal("dry run reported no article id")
	}

	tx := inspect(t, e)
	a, err := tx.ArticleByAnyJournal(id)
	if err != nil {
		t.Fatalf("ArticleByAnyJournal() error = %v", err)
	}
	if a != nil {
		t.Errorf("dry run persisted article %d", id)
	}
}

func TestBadRowBlocksWholeBatch(t *testing.T) {
	e := setupEngine(t)

	good := sampleRow()
	bad := sampleRow()
	bad["Article title"] = "Another"
	bad["Stage"] = "Totally Unknown Stage"

	errs, outcomes, err := e.Import(testTable(good, bad))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(outcomes) != 0 {
		t.Errorf("outcomes = %v, want none", outcomes)
	}
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want one stage error", errs)
	}
	if errs[0].Row != 2 || errs[0].Field != "Stage" {
		t.Errorf("error = %+v, want row 2 Stage", errs[0])
	}
	if !strings.Contains(errs[0].Message, "Totally Unknown Stage") {
		t.Errorf("message = %q", errs[0].Message)
	}

	// the good row must not have been applied
	tx := inspect(t, e)
	a, _ := tx.ArticleByAnyJournal(1)
	if a != nil {
		t.Error("blocked batch still wrote an article")
	}
}

func TestHeaderMismatch(t *testing.T) {
	e := setupEngine(t)

	headers := append([]string(nil), tabular.FixedHeaders[:len(tabular.FixedHeaders)-1]...)
	table := tabular.NewTable(headers)
	table.Append(sampleRow())

	errs, outcomes, err := e.Import(table)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if outcomes != nil {
		t.Errorf("outcomes = %v, want nil", outcomes)
	}
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "Expected headers not found") {
		t.Fatalf("errs = %v, want a single header error", errs)
	}
}

func TestStageVocabulary(t *testing.T) {
	e := setupEngine(t)

	row := sampleRow()
	row["Stage"] = "typesetting_plugin"
	errs, _, err := e.Import(testTable(row))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(errs) == 0 {
		t.Fatal("unregistered stage accepted")
	}

	// a journal workflow element widens the vocabulary
	err = e.Store.WithTx(func(tx *catalog.Tx) error {
		j, err := tx.JournalByCode("TST")
		if err != nil {
			return err
		}
		return tx.RegisterWorkflowElement(j.ID, "typesetting_plugin")
	})
	if err != nil {
		t.Fatalf("registering workflow element: %v", err)
	}
	runImport(t, e, testTable(row))

	// so do engine-level extra stages
	row2 := sampleRow()
	row2["Stage"] = "external_review"
	e.ExtraStages = []string{"external_review"}
	runImport(t, e, testTable(row2))
}

func TestBadArticleID(t *testing.T) {
	e := setupEngine(t)

	row := sampleRow()
	row["Article ID"] = "abc"
	errs, _, err := e.Import(testTable(row))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(errs) != 1 || errs[0].Field != "Article ID" {
		t.Fatalf("errs = %v, want one Article ID error", errs)
	}
}

func TestUpdateOfMissingArticle(t *testing.T) {
	e := setupEngine(t)

	row := sampleRow()
	row["Article ID"] = "999"
	errs, _, err := e.Import(testTable(row))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(errs) != 1 || errs[0].Field != "Article ID" {
		t.Fatalf("errs = %v, want one missing-article error", errs)
	}
}

func TestUnknownJournalCode(t *testing.T) {
	e := setupEngine(t)

	row := sampleRow()
	row["Journal code"] = "ZZZ"
	errs, _, err := e.Import(testTable(row))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(errs) != 1 || errs[0].Field != "Journal code" {
		t.Fatalf("errs = %v, want one journal error", errs)
	}
}

func TestAuthorIdentityRequired(t *testing.T) {
	e := setupEngine(t)

	row := sampleRow()
	row["Author email"] = ""
	errs, _, err := e.Import(testTable(row))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(errs) != 1 || errs[0].Field != "Author email" {
		t.Fatalf("errs = %v, want one identity error", errs)
	}
}

func TestBlankAuthorBlockSkipped(t *testing.T) {
	e := setupEngine(t)

	row := sampleRow()
	for _, col := range tabular.AuthorHeaders {
		row[col] = ""
	}
	id := soleOutcome(t, runImport(t, e, testTable(row)), OutcomeCreated)

	tx := inspect(t, e)
	fas, err := tx.FrozenAuthors(id)
	if err != nil {
		t.Fatalf("FrozenAuthors() error = %v", err)
	}
	if len(fas) != 0 {
		t.Errorf("FrozenAuthors() = %v, want none", fas)
	}
}

func TestBooleanAndPageSmoothing(t *testing.T) {
	e := setupEngine(t)

	row := sampleRow()
	row["Peer reviewed (Y/N)"] = "I think so, but not sure"
	row["First page"] = "about seven"
	id := soleOutcome(t, runImport(t, e, testTable(row)), OutcomeCreated)

	tx := inspect(t, e)
	a, _ := tx.ArticleByAnyJournal(id)
	if a.PeerReviewed {
		t.Error("PeerReviewed = true for a non-Y token")
	}
	if a.FirstPage != nil {
		t.Errorf("FirstPage = %v, want nil for garbage", a.FirstPage)
	}
}

func TestAccountFieldsFrozenAtCreate(t *testing.T) {
	e := setupEngine(t)
	soleOutcome(t, runImport(t, e, testTable(sampleRow())), OutcomeCreated)

	// a later import under the same email must not rewrite the account
	row := sampleRow()
	row["Author given name"] = "Different"
	row["Author biography"] = "Changed bio."
	id := soleOutcome(t, runImport(t, e, testTable(row)), OutcomeCreated)

	tx := inspect(t, e)
	account, _ := tx.AccountByEmail("unrealperson@example.com")
	if account.FirstName != "Unreal" {
		t.Errorf("account FirstName = %q, want original value", account.FirstName)
	}

	// while the new article's snapshot carries the new data
	fas, _ := tx.FrozenAuthors(id)
	if len(fas) != 1 || fas[0].FirstName != "Different" {
		t.Errorf("frozen = %+v, want the row's name", fas)
	}
}

func TestCustomFieldColumns(t *testing.T) {
	e := setupEngine(t)
	err := e.Store.WithTx(func(tx *catalog.Tx) error {
		j, err := tx.JournalByCode("TST")
		if err != nil {
			return err
		}
		_, err = tx.EnsureField(j.ID, "Data availability")
		return err
	})
	if err != nil {
		t.Fatalf("seeding field: %v", err)
	}

	headers := append(append([]string(nil), tabular.FixedHeaders...), "Data availability", "Nonexistent column")
	table := tabular.NewTable(headers)
	row := sampleRow()
	row["Data availability"] = "on request"
	row["Nonexistent column"] = "ignored"
	table.Append(row)

	errs, outcomes, err := e.Import(table)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(errs) > 0 {
		t.Fatalf("Import() blocked: %v", errs)
	}
	id := soleOutcome(t, outcomes, OutcomeCreated)

	tx := inspect(t, e)
	answers, err := tx.FieldAnswers(id)
	if err != nil {
		t.Fatalf("FieldAnswers() error = %v", err)
	}
	if answers["Data availability"] != "on request" {
		t.Errorf("answer = %q, want %q", answers["Data availability"], "on request")
	}
	if _, ok := answers["Nonexistent column"]; ok {
		t.Error("undefined custom column was stored")
	}
}

func TestMergePolicyExceptions(t *testing.T) {
	// the columns a blank update cell leaves untouched
	want := map[string]bool{
		"DOI":                    true,
		"DOI (URL form)":         true,
		"Stage":                  true,
		"Journal title override": true,
		"Article section":        true,
		"ISSN override":          true,
	}
	got := map[string]bool{}
	for _, rule := range fieldRules {
		if rule.keepBlank {
			got[rule.column] = true
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("keep-on-blank columns = %v, want %v", got, want)
	}
}

func intCell(id int64) string {
	return strconv.FormatInt(id, 10)
}

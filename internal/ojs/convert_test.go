package ojs

import "testing"

func TestImportTable(t *testing.T) {
	articles := []Article{{
		ID:       12,
		Title:    "A Study",
		DOI:      "10.1234/tst.12",
		Keywords: []string{"fish", "scales"},
		Issue:    &Issue{Volume: 2, Number: 1, Title: "Spring"},
		Authors: []Author{
			{FirstName: "Ann", LastName: "Li", Email: "ann@example.com", Primary: true},
			{FirstName: "Bo", LastName: "Chen", Email: "bo@example.com"},
		},
	}}

	table := ImportTable(articles, "TST")
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.Rows))
	}

	primary := table.Rows[0]
	if primary.Get("Article title") != "A Study" {
		t.Errorf("title = %q", primary.Get("Article title"))
	}
	if primary.Get("Article ID") != "" {
		t.Errorf("Article ID = %q, want blank", primary.Get("Article ID"))
	}
	if primary.Get("File import identifier") != "12" {
		t.Errorf("File import identifier = %q", primary.Get("File import identifier"))
	}
	if primary.Get("Keywords") != "fish, scales" {
		t.Errorf("Keywords = %q", primary.Get("Keywords"))
	}
	if primary.Get("Volume number") != "2" || primary.Get("Issue number") != "1" {
		t.Errorf("issue key = %q.%q", primary.Get("Volume number"), primary.Get("Issue number"))
	}
	if primary.Get("Author is primary (Y/N)") != "Y" {
		t.Errorf("primary flag = %q", primary.Get("Author is primary (Y/N)"))
	}

	author := table.Rows[1]
	if author.Get("Article title") != "" {
		t.Error("continuation row carries article fields")
	}
	if author.Get("Author email") != "bo@example.com" {
		t.Errorf("author email = %q", author.Get("Author email"))
	}
}

package catalog

import (
	"database/sql"
	"fmt"
	"strings"
)

const articleFields = `id, journal_id, issue_id, owner_id, title, abstract,
	rights, licence, language, peer_reviewed, doi,
	date_accepted, date_published, article_number, first_page, last_page,
	page_numbers, competing_interests, section_id, stage,
	publication_title, correspondence_author_id, agreement`

// CreateArticle inserts a new article and returns its generated id.
func (t *Tx) CreateArticle(a *Article) (int64, error) {
	res, err := t.tx.Exec(
		`INSERT INTO articles (journal_id, issue_id, owner_id, title, abstract,
			rights, licence, language, peer_reviewed, doi,
			date_accepted, date_published, article_number, first_page, last_page,
			page_numbers, competing_interests, section_id, stage,
			publication_title, correspondence_author_id, agreement)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.JournalID, nullInt64(a.IssueID), nullInt64(a.OwnerID), a.Title, a.Abstract,
		a.Rights, a.Licence, a.Language, a.PeerReviewed, a.DOI,
		nullTime(a.DateAccepted), nullTime(a.DatePublished), a.ArticleNumber,
		nullInt(a.FirstPage), nullInt(a.LastPage),
		a.PageNumbers, a.CompetingInterests, nullInt64(a.SectionID), a.Stage,
		a.PublicationTitle, nullInt64(a.CorrespondenceID), a.Agreement,
	)
	if err != nil {
		return 0, fmt.Errorf("creating article: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("creating article: %w", err)
	}
	a.ID = id
	return id, nil
}

// UpdateArticle saves every attribute of an existing article.
func (t *Tx) UpdateArticle(a *Article) error {
	_, err := t.tx.Exec(
		`UPDATE articles SET journal_id = ?, issue_id = ?, owner_id = ?, title = ?,
			abstract = ?, rights = ?, licence = ?, language = ?, peer_reviewed = ?,
			doi = ?, date_accepted = ?, date_published = ?, article_number = ?,
			first_page = ?, last_page = ?, page_numbers = ?, competing_interests = ?,
			section_id = ?, stage = ?, publication_title = ?,
			correspondence_author_id = ?, agreement = ?
		 WHERE id = ?`,
		a.JournalID, nullInt64(a.IssueID), nullInt64(a.OwnerID), a.Title,
		a.Abstract, a.Rights, a.Licence, a.Language, a.PeerReviewed,
		a.DOI, nullTime(a.DateAccepted), nullTime(a.DatePublished), a.ArticleNumber,
		nullInt(a.FirstPage), nullInt(a.LastPage), a.PageNumbers, a.CompetingInterests,
		nullInt64(a.SectionID), a.Stage, a.PublicationTitle,
		nullInt64(a.CorrespondenceID), a.Agreement,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating article %d: %w", a.ID, err)
	}
	return nil
}

// ArticleByID loads an article by id under a specific journal. Returns
// nil when the id does not resolve under that journal.
func (t *Tx) ArticleByID(journalID, id int64) (*Article, error) {
	row := t.tx.QueryRow(
		`SELECT `+articleFields+` FROM articles WHERE id = ? AND journal_id = ?`,
		id, journalID,
	)
	return scanArticle(row)
}

// ArticleByAnyJournal loads an article without a journal constraint.
func (t *Tx) ArticleByAnyJournal(id int64) (*Article, error) {
	row := t.tx.QueryRow(
		`SELECT `+articleFields+` FROM articles WHERE id = ?`, id,
	)
	return scanArticle(row)
}

func scanArticle(row *sql.Row) (*Article, error) {
	var a Article
	var issueID, ownerID, sectionID, corrID sql.NullInt64
	var firstPage, lastPage sql.NullInt64
	var accepted, published sql.NullString

	err := row.Scan(
		&a.ID, &a.JournalID, &issueID, &ownerID, &a.Title, &a.Abstract,
		&a.Rights, &a.Licence, &a.Language, &a.PeerReviewed, &a.DOI,
		&accepted, &published, &a.ArticleNumber, &firstPage, &lastPage,
		&a.PageNumbers, &a.CompetingInterests, &sectionID, &a.Stage,
		&a.PublicationTitle, &corrID, &a.Agreement,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning article: %w", err)
	}

	a.IssueID = scanInt64(issueID)
	a.OwnerID = scanInt64(ownerID)
	a.SectionID = scanInt64(sectionID)
	a.CorrespondenceID = scanInt64(corrID)
	a.FirstPage = scanInt(firstPage)
	a.LastPage = scanInt(lastPage)
	if a.DateAccepted, err = scanTime(accepted); err != nil {
		return nil, err
	}
	if a.DatePublished, err = scanTime(published); err != nil {
		return nil, err
	}
	return &a, nil
}

// SetKeywords replaces an article's keyword list. The stored order is the
// given order; an empty list clears the keywords.
func (t *Tx) SetKeywords(articleID int64, words []string) error {
	if _, err := t.tx.Exec(`DELETE FROM keywords WHERE article_id = ?`, articleID); err != nil {
		return fmt.Errorf("clearing keywords: %w", err)
	}
	for i, w := range words {
		if _, err := t.tx.Exec(
			`INSERT INTO keywords (article_id, pos, word) VALUES (?, ?, ?)`,
			articleID, i, w,
		); err != nil {
			return fmt.Errorf("storing keyword %q: %w", w, err)
		}
	}
	return nil
}

// Keywords returns an article's keywords in stored order.
func (t *Tx) Keywords(articleID int64) ([]string, error) {
	rows, err := t.tx.Query(
		`SELECT word FROM keywords WHERE article_id = ? ORDER BY pos`, articleID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing keywords: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scanning keyword: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// SplitKeywords parses a comma-separated keyword cell into a trimmed,
// order-preserving list. Blank entries are dropped.
func SplitKeywords(cell string) []string {
	var words []string
	for _, part := range strings.Split(cell, ",") {
		if w := strings.TrimSpace(part); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// FieldByName looks up a custom field definition by name within a
// journal. Returns nil when the journal has no such field.
func (t *Tx) FieldByName(journalID int64, name string) (*Field, error) {
	var f Field
	err := t.tx.QueryRow(
		`SELECT id, journal_id, name FROM fields WHERE journal_id = ? AND name = ?`,
		journalID, name,
	).Scan(&f.ID, &f.JournalID, &f.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up field %s: %w", name, err)
	}
	return &f, nil
}

// EnsureField resolves or creates a custom field definition.
func (t *Tx) EnsureField(journalID int64, name string) (*Field, error) {
	f, err := t.FieldByName(journalID, name)
	if err != nil {
		return nil, err
	}
	if f != nil {
		return f, nil
	}
	res, err := t.tx.Exec(
		`INSERT INTO fields (journal_id, name) VALUES (?, ?)`, journalID, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating field %s: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating field %s: %w", name, err)
	}
	return &Field{ID: id, JournalID: journalID, Name: name}, nil
}

// SetFieldAnswer creates or overwrites an article's answer for a custom
// field.
func (t *Tx) SetFieldAnswer(articleID, fieldID int64, answer string) error {
	_, err := t.tx.Exec(
		`INSERT INTO field_answers (article_id, field_id, answer) VALUES (?, ?, ?)
		 ON CONFLICT (article_id, field_id) DO UPDATE SET answer = excluded.answer`,
		articleID, fieldID, answer,
	)
	if err != nil {
		return fmt.Errorf("storing field answer: %w", err)
	}
	return nil
}

// FieldAnswers returns an article's custom field answers keyed by field
// name.
func (t *Tx) FieldAnswers(articleID int64) (map[string]string, error) {
	rows, err := t.tx.Query(
		`SELECT f.name, fa.answer FROM field_answers fa
		 JOIN fields f ON f.id = fa.field_id
		 WHERE fa.article_id = ?`, articleID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing field answers: %w", err)
	}
	defer rows.Close()

	answers := map[string]string{}
	for rows.Next() {
		var name, answer string
		if err := rows.Scan(&name, &answer); err != nil {
			return nil, fmt.Errorf("scanning field answer: %w", err)
		}
		answers[name] = answer
	}
	return answers, rows.Err()
}

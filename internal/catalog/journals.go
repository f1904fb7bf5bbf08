package catalog

import (
	"database/sql"
	"fmt"
)

// CreateJournal registers a new journal. A blank ISSN gets the default
// placeholder so imports always have a value to round-trip.
func (t *Tx) CreateJournal(code, title, issn string) (*Journal, error) {
	if issn == "" {
		issn = DefaultISSN
	}
	res, err := t.tx.Exec(
		`INSERT INTO journals (code, title, issn) VALUES (?, ?, ?)`,
		code, title, issn,
	)
	if err != nil {
		return nil, fmt.Errorf("creating journal %s: %w", code, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating journal %s: %w", code, err)
	}
	return &Journal{ID: id, Code: code, Title: title, ISSN: issn}, nil
}

// JournalByCode looks up a journal by its short code. Returns nil when
// the code is unknown.
func (t *Tx) JournalByCode(code string) (*Journal, error) {
	var j Journal
	err := t.tx.QueryRow(
		`SELECT id, code, title, issn FROM journals WHERE code = ?`, code,
	).Scan(&j.ID, &j.Code, &j.Title, &j.ISSN)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up journal %s: %w", code, err)
	}
	return &j, nil
}

// JournalByID loads a journal by primary key. Returns nil when absent.
func (t *Tx) JournalByID(id int64) (*Journal, error) {
	var j Journal
	err := t.tx.QueryRow(
		`SELECT id, code, title, issn FROM journals WHERE id = ?`, id,
	).Scan(&j.ID, &j.Code, &j.Title, &j.ISSN)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up journal %d: %w", id, err)
	}
	return &j, nil
}

// SetJournalISSN overwrites a journal's ISSN.
func (t *Tx) SetJournalISSN(journalID int64, issn string) error {
	if _, err := t.tx.Exec(`UPDATE journals SET issn = ? WHERE id = ?`, issn, journalID); err != nil {
		return fmt.Errorf("updating journal ISSN: %w", err)
	}
	return nil
}

// EnsureIssueType resolves or creates an issue type for a journal.
func (t *Tx) EnsureIssueType(journalID int64, code string) (*IssueType, error) {
	var it IssueType
	err := t.tx.QueryRow(
		`SELECT id, journal_id, code FROM issue_types WHERE journal_id = ? AND code = ?`,
		journalID, code,
	).Scan(&it.ID, &it.JournalID, &it.Code)
	if err == nil {
		return &it, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("looking up issue type %s: %w", code, err)
	}

	res, err := t.tx.Exec(
		`INSERT INTO issue_types (journal_id, code) VALUES (?, ?)`, journalID, code,
	)
	if err != nil {
		return nil, fmt.Errorf("creating issue type %s: %w", code, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating issue type %s: %w", code, err)
	}
	return &IssueType{ID: id, JournalID: journalID, Code: code}, nil
}

// EnsureIssue resolves or creates the issue keyed by (journal, volume,
// number). Re-resolving the same key never duplicates the issue.
func (t *Tx) EnsureIssue(journalID, typeID int64, volume, number int) (*Issue, error) {
	issue, err := t.issueByKey(journalID, volume, number)
	if err != nil {
		return nil, err
	}
	if issue != nil {
		return issue, nil
	}

	res, err := t.tx.Exec(
		`INSERT INTO issues (journal_id, issue_type_id, volume, number) VALUES (?, ?, ?, ?)`,
		journalID, typeID, volume, number,
	)
	if err != nil {
		return nil, fmt.Errorf("creating issue %d.%d: %w", volume, number, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating issue %d.%d: %w", volume, number, err)
	}
	return &Issue{ID: id, JournalID: journalID, TypeID: typeID, Volume: volume, Number: number}, nil
}

func (t *Tx) issueByKey(journalID int64, volume, number int) (*Issue, error) {
	row := t.tx.QueryRow(
		`SELECT id, journal_id, issue_type_id, volume, number, title, pub_date
		 FROM issues WHERE journal_id = ? AND volume = ? AND number = ?`,
		journalID, volume, number,
	)
	return scanIssue(row)
}

// IssueByID loads an issue by primary key. Returns nil when absent.
func (t *Tx) IssueByID(id int64) (*Issue, error) {
	row := t.tx.QueryRow(
		`SELECT id, journal_id, issue_type_id, volume, number, title, pub_date
		 FROM issues WHERE id = ?`, id,
	)
	return scanIssue(row)
}

func scanIssue(row *sql.Row) (*Issue, error) {
	var i Issue
	var date sql.NullString
	err := row.Scan(&i.ID, &i.JournalID, &i.TypeID, &i.Volume, &i.Number, &i.Title, &date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning issue: %w", err)
	}
	if i.Date, err = scanTime(date); err != nil {
		return nil, err
	}
	return &i, nil
}

// UpdateIssue saves an issue's title and publication date.
func (t *Tx) UpdateIssue(i *Issue) error {
	_, err := t.tx.Exec(
		`UPDATE issues SET title = ?, pub_date = ? WHERE id = ?`,
		i.Title, nullTime(i.Date), i.ID,
	)
	if err != nil {
		return fmt.Errorf("updating issue %d: %w", i.ID, err)
	}
	return nil
}

// EnsureSection resolves or creates a named section within a journal.
func (t *Tx) EnsureSection(journalID int64, name string) (*Section, error) {
	var s Section
	err := t.tx.QueryRow(
		`SELECT id, journal_id, name FROM sections WHERE journal_id = ? AND name = ?`,
		journalID, name,
	).Scan(&s.ID, &s.JournalID, &s.Name)
	if err == nil {
		return &s, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("looking up section %s: %w", name, err)
	}

	res, err := t.tx.Exec(
		`INSERT INTO sections (journal_id, name) VALUES (?, ?)`, journalID, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating section %s: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating section %s: %w", name, err)
	}
	return &Section{ID: id, JournalID: journalID, Name: name}, nil
}

// SectionByID loads a section by primary key. Returns nil when absent.
func (t *Tx) SectionByID(id int64) (*Section, error) {
	var s Section
	err := t.tx.QueryRow(
		`SELECT id, journal_id, name FROM sections WHERE id = ?`, id,
	).Scan(&s.ID, &s.JournalID, &s.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up section %d: %w", id, err)
	}
	return &s, nil
}

// RegisterWorkflowElement records a stage identifier contributed by an
// installed workflow element for a journal.
func (t *Tx) RegisterWorkflowElement(journalID int64, stage string) error {
	_, err := t.tx.Exec(
		`INSERT OR IGNORE INTO workflow_elements (journal_id, stage) VALUES (?, ?)`,
		journalID, stage,
	)
	if err != nil {
		return fmt.Errorf("registering workflow stage %s: %w", stage, err)
	}
	return nil
}

// WorkflowStages returns the stage identifiers registered by a journal's
// workflow elements. The full valid set for a journal is this union
// FixedStages; callers assemble it at validation time.
func (t *Tx) WorkflowStages(journalID int64) ([]string, error) {
	rows, err := t.tx.Query(
		`SELECT stage FROM workflow_elements WHERE journal_id = ? ORDER BY stage`,
		journalID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing workflow stages: %w", err)
	}
	defer rows.Close()

	var stages []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning workflow stage: %w", err)
		}
		stages = append(stages, s)
	}
	return stages, rows.Err()
}

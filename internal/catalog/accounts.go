package catalog

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const accountFields = `id, email, salutation, first_name, middle_name, last_name,
	suffix, orcid, institution, department, biography, is_corporate`

// AccountByEmail matches an account by exact email. Returns nil when no
// account carries that email.
func (t *Tx) AccountByEmail(email string) (*Account, error) {
	row := t.tx.QueryRow(
		`SELECT `+accountFields+` FROM accounts WHERE email = ? AND email != ''`,
		email,
	)
	return scanAccount(row)
}

// CorporateAccountByInstitution matches a corporate account by exact
// institution name. Personal accounts never match here, whatever their
// institution says.
func (t *Tx) CorporateAccountByInstitution(institution string) (*Account, error) {
	row := t.tx.QueryRow(
		`SELECT `+accountFields+` FROM accounts
		 WHERE is_corporate = 1 AND institution = ?`,
		institution,
	)
	return scanAccount(row)
}

// AccountByID loads an account by primary key. Returns nil when absent.
func (t *Tx) AccountByID(id int64) (*Account, error) {
	row := t.tx.QueryRow(`SELECT `+accountFields+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (*Account, error) {
	var a Account
	err := row.Scan(
		&a.ID, &a.Email, &a.Salutation, &a.FirstName, &a.MiddleName, &a.LastName,
		&a.Suffix, &a.ORCID, &a.Institution, &a.Department, &a.Biography, &a.IsCorporate,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning account: %w", err)
	}
	return &a, nil
}

// CreateAccount inserts a new account. New accounts get an unusable
// random password hash; holders reset it through the usual channel.
func (t *Tx) CreateAccount(a *Account) (int64, error) {
	hash, err := generatedPasswordHash()
	if err != nil {
		return 0, err
	}
	res, err := t.tx.Exec(
		`INSERT INTO accounts (email, salutation, first_name, middle_name, last_name,
			suffix, orcid, institution, department, biography, is_corporate, password_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Email, a.Salutation, a.FirstName, a.MiddleName, a.LastName,
		a.Suffix, a.ORCID, a.Institution, a.Department, a.Biography, a.IsCorporate, hash,
	)
	if err != nil {
		return 0, fmt.Errorf("creating account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("creating account: %w", err)
	}
	a.ID = id
	return id, nil
}

func generatedPasswordHash() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(raw)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// LinkAuthor makes the account a member of the article's author
// collection. Adding the same pair twice is a no-op.
func (t *Tx) LinkAuthor(articleID, accountID int64) error {
	_, err := t.tx.Exec(
		`INSERT OR IGNORE INTO article_authors (article_id, account_id) VALUES (?, ?)`,
		articleID, accountID,
	)
	if err != nil {
		return fmt.Errorf("linking author: %w", err)
	}
	return nil
}

// Authors returns the accounts linked to an article, ordered by email.
func (t *Tx) Authors(articleID int64) ([]Account, error) {
	rows, err := t.tx.Query(
		`SELECT `+accountFields+` FROM accounts a
		 JOIN article_authors aa ON aa.account_id = a.id
		 WHERE aa.article_id = ? ORDER BY a.email`, articleID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing authors: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(
			&a.ID, &a.Email, &a.Salutation, &a.FirstName, &a.MiddleName, &a.LastName,
			&a.Suffix, &a.ORCID, &a.Institution, &a.Department, &a.Biography, &a.IsCorporate,
		); err != nil {
			return nil, fmt.Errorf("scanning author: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// UpsertFrozenAuthor creates or overwrites the frozen snapshot keyed by
// (article, order).
func (t *Tx) UpsertFrozenAuthor(fa *FrozenAuthor) error {
	_, err := t.tx.Exec(
		`INSERT INTO frozen_authors (article_id, account_id, ord, first_name,
			middle_name, last_name, suffix, institution, department, biography,
			orcid, is_corporate)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (article_id, ord) DO UPDATE SET
			account_id = excluded.account_id,
			first_name = excluded.first_name,
			middle_name = excluded.middle_name,
			last_name = excluded.last_name,
			suffix = excluded.suffix,
			institution = excluded.institution,
			department = excluded.department,
			biography = excluded.biography,
			orcid = excluded.orcid,
			is_corporate = excluded.is_corporate`,
		fa.ArticleID, nullInt64(fa.AccountID), fa.Order, fa.FirstName,
		fa.MiddleName, fa.LastName, fa.Suffix, fa.Institution, fa.Department,
		fa.Biography, fa.ORCID, fa.IsCorporate,
	)
	if err != nil {
		return fmt.Errorf("storing frozen author %d/%d: %w", fa.ArticleID, fa.Order, err)
	}
	return nil
}

// PruneFrozenAuthors deletes an article's snapshots at every order not
// in keep. An empty keep removes them all.
func (t *Tx) PruneFrozenAuthors(articleID int64, keep []int) error {
	query := `DELETE FROM frozen_authors WHERE article_id = ?`
	args := []any{articleID}
	if len(keep) > 0 {
		query += ` AND ord NOT IN (?` + strings.Repeat(", ?", len(keep)-1) + `)`
		for _, ord := range keep {
			args = append(args, ord)
		}
	}
	if _, err := t.tx.Exec(query, args...); err != nil {
		return fmt.Errorf("pruning frozen authors: %w", err)
	}
	return nil
}

// PruneAuthorLinks removes the article's author memberships for every
// account not in keep. The accounts themselves are untouched.
func (t *Tx) PruneAuthorLinks(articleID int64, keep []int64) error {
	query := `DELETE FROM article_authors WHERE article_id = ?`
	args := []any{articleID}
	if len(keep) > 0 {
		query += ` AND account_id NOT IN (?` + strings.Repeat(", ?", len(keep)-1) + `)`
		for _, id := range keep {
			args = append(args, id)
		}
	}
	if _, err := t.tx.Exec(query, args...); err != nil {
		return fmt.Errorf("pruning author links: %w", err)
	}
	return nil
}

// FrozenAuthors returns an article's frozen snapshots in order.
func (t *Tx) FrozenAuthors(articleID int64) ([]FrozenAuthor, error) {
	rows, err := t.tx.Query(
		`SELECT id, article_id, account_id, ord, first_name, middle_name, last_name,
			suffix, institution, department, biography, orcid, is_corporate
		 FROM frozen_authors WHERE article_id = ? ORDER BY ord`, articleID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing frozen authors: %w", err)
	}
	defer rows.Close()

	var fas []FrozenAuthor
	for rows.Next() {
		var fa FrozenAuthor
		var accountID sql.NullInt64
		if err := rows.Scan(
			&fa.ID, &fa.ArticleID, &accountID, &fa.Order, &fa.FirstName,
			&fa.MiddleName, &fa.LastName, &fa.Suffix, &fa.Institution,
			&fa.Department, &fa.Biography, &fa.ORCID, &fa.IsCorporate,
		); err != nil {
			return nil, fmt.Errorf("scanning frozen author: %w", err)
		}
		fa.AccountID = scanInt64(accountID)
		fas = append(fas, fa)
	}
	return fas, rows.Err()
}

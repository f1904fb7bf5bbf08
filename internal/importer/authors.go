package importer

import (
	"github.com/mglenn/folio/internal/catalog"
	"github.com/mglenn/folio/internal/normalize"
	"github.com/mglenn/folio/internal/tabular"
)

// authorBlock is one row's author columns, trimmed.
type authorBlock struct {
	salutation  string
	firstName   string
	middleName  string
	lastName    string
	suffix      string
	email       string
	orcid       string
	institution string
	department  string
	biography   string
	isPrimary   bool
	isCorporate bool

	raw []string
}

func readAuthorBlock(row tabular.Row) authorBlock {
	b := authorBlock{
		salutation:  normalize.Trim(row.Get("Author salutation")),
		firstName:   normalize.Trim(row.Get("Author given name")),
		middleName:  normalize.Trim(row.Get("Author middle name")),
		lastName:    normalize.Trim(row.Get("Author surname")),
		suffix:      normalize.Trim(row.Get("Author suffix")),
		email:       normalize.Trim(row.Get("Author email")),
		orcid:       normalize.ORCID(normalize.Trim(row.Get("Author ORCID"))),
		institution: normalize.Trim(row.Get("Author institution")),
		department:  normalize.Trim(row.Get("Author department")),
		biography:   normalize.Trim(row.Get("Author biography")),
		isPrimary:   normalize.Bool(row.Get("Author is primary (Y/N)")),
		isCorporate: normalize.Bool(row.Get("Author is corporate (Y/N)")),
	}
	for _, col := range tabular.AuthorHeaders {
		b.raw = append(b.raw, normalize.Trim(row.Get(col)))
	}
	return b
}

// blank reports whether every author column in the block is empty. A
// blank block contributes no author at that position.
func (b *authorBlock) blank() bool {
	for _, v := range b.raw {
		if v != "" {
			return false
		}
	}
	return true
}

// reconcileAuthors resolves each row's author block to an account and
// freezes a snapshot at the row's 1-based position. The primary row's
// block is order 1. Account fields are only written when the account is
// created; later imports never overwrite them. The import's author set
// is authoritative: snapshots and links from earlier imports that no
// block re-states are removed, and the correspondence role is held
// only by the last block flagged primary, or nobody. Rows are assumed
// validated.
func (e *Engine) reconcileAuthors(tx *catalog.Tx, g *ArticleGroup, article *catalog.Article) error {
	article.CorrespondenceID = nil

	var keptOrders []int
	var keptAccounts []int64
	for i, row := range g.Rows() {
		block := readAuthorBlock(row)
		if block.blank() {
			continue
		}

		account, err := resolveAccount(tx, block)
		if err != nil {
			return err
		}
		if err := tx.LinkAuthor(article.ID, account.ID); err != nil {
			return err
		}
		keptOrders = append(keptOrders, i+1)
		keptAccounts = append(keptAccounts, account.ID)

		frozen := catalog.FrozenAuthor{
			ArticleID:   article.ID,
			AccountID:   &account.ID,
			Order:       i + 1,
			FirstName:   block.firstName,
			MiddleName:  block.middleName,
			LastName:    block.lastName,
			Suffix:      block.suffix,
			Institution: block.institution,
			Department:  block.department,
			Biography:   block.biography,
			ORCID:       block.orcid,
			IsCorporate: block.isCorporate,
		}
		if err := tx.UpsertFrozenAuthor(&frozen); err != nil {
			return err
		}

		if block.isPrimary {
			article.CorrespondenceID = &account.ID
		}
	}

	if err := tx.PruneFrozenAuthors(article.ID, keptOrders); err != nil {
		return err
	}
	return tx.PruneAuthorLinks(article.ID, keptAccounts)
}

// resolveAccount matches the block to an existing account or creates
// one. People match by email; corporate authors without an email match
// by institution name.
func resolveAccount(tx *catalog.Tx, block authorBlock) (*catalog.Account, error) {
	if block.email != "" {
		account, err := tx.AccountByEmail(block.email)
		if err != nil || account != nil {
			return account, err
		}
	} else {
		account, err := tx.CorporateAccountByInstitution(block.institution)
		if err != nil || account != nil {
			return account, err
		}
	}

	account := &catalog.Account{
		Email:       block.email,
		Salutation:  block.salutation,
		FirstName:   block.firstName,
		MiddleName:  block.middleName,
		LastName:    block.lastName,
		Suffix:      block.suffix,
		ORCID:       block.orcid,
		Institution: block.institution,
		Department:  block.department,
		Biography:   block.biography,
		IsCorporate: block.isCorporate && block.email == "",
	}
	if _, err := tx.CreateAccount(account); err != nil {
		return nil, err
	}
	return account, nil
}

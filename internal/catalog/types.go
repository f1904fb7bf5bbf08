// Package catalog persists the journal catalog: journals, issues,
// sections, articles, accounts and frozen author snapshots.
package catalog

import "time"

// Journal is identified by a short code and owns issues, sections,
// custom field definitions and workflow stages.
type Journal struct {
	ID    int64
	Code  string
	Title string
	ISSN  string
}

// DefaultISSN is assigned to journals without a registered ISSN.
const DefaultISSN = "0000-0000"

// IssueType categorizes issues within a journal ("issue", "collection").
type IssueType struct {
	ID        int64
	JournalID int64
	Code      string
}

// Issue is keyed by (journal, volume, number) and created on demand
// during imports.
type Issue struct {
	ID        int64
	JournalID int64
	TypeID    int64
	Volume    int
	Number    int
	Title     string
	Date      *time.Time
}

// Section is a named part of a journal ("Article", "Interview").
type Section struct {
	ID        int64
	JournalID int64
	Name      string
}

// Account is a person or corporate entity shared across articles.
// People are identified by email; corporate accounts carry no email and
// are keyed by institution name.
type Account struct {
	ID          int64
	Email       string
	Salutation  string
	FirstName   string
	MiddleName  string
	LastName    string
	Suffix      string
	ORCID       string
	Institution string
	Department  string
	Biography   string
	IsCorporate bool
}

// Article is the reconciliation target. It always belongs to exactly one
// journal and, once resolved, one issue.
type Article struct {
	ID                 int64
	JournalID          int64
	IssueID            *int64
	OwnerID            *int64
	Title              string
	Abstract           string
	Rights             string
	Licence            string
	Language           string
	PeerReviewed       bool
	DOI                string
	DateAccepted       *time.Time
	DatePublished      *time.Time
	ArticleNumber      string
	FirstPage          *int
	LastPage           *int
	PageNumbers        string
	CompetingInterests string
	SectionID          *int64
	Stage              string
	PublicationTitle   string
	CorrespondenceID   *int64
	Agreement          string
}

// FrozenAuthor is a per-article, per-order snapshot of one author's
// biographical data at import time. (article, order) is unique; a
// re-import of the same order overwrites the snapshot.
type FrozenAuthor struct {
	ID          int64
	ArticleID   int64
	AccountID   *int64
	Order       int
	FirstName   string
	MiddleName  string
	LastName    string
	Suffix      string
	Institution string
	Department  string
	Biography   string
	ORCID       string
	IsCorporate bool
}

// Field is a per-journal custom field definition. Columns outside the
// fixed schema are matched against these by name.
type Field struct {
	ID        int64
	JournalID int64
	Name      string
}

// Workflow stage identifiers. The valid set for a journal is the union of
// FixedStages and the stages registered by its workflow elements.
const (
	StageUnassigned = "Unassigned"
	StagePublished  = "Published"
)

// FixedStages are the stages every journal recognizes.
var FixedStages = []string{
	"Unassigned",
	"Assigned",
	"Under Review",
	"Under Revision",
	"Rejected",
	"Accepted",
	"Editor Copyediting",
	"Author Copyediting",
	"Final Copyediting",
	"Typesetting",
	"Proofing",
	"pre_publication",
	"Published",
	"Archived",
}

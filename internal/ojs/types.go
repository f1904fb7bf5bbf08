package ojs

// Article is the remote representation of a submission.
type Article struct {
	ID            int      `json:"ojs_id"`
	Title         string   `json:"title"`
	Abstract      string   `json:"abstract"`
	DOI           string   `json:"doi"`
	Language      string   `json:"language"`
	Section       string   `json:"section"`
	DateAccepted  string   `json:"date_accepted"`
	DatePublished string   `json:"date_published"`
	Keywords      []string `json:"keywords"`
	Authors       []Author `json:"authors"`
	Files         []File   `json:"manuscript_files"`
	Issue         *Issue   `json:"issue"`
}

// Author is one contributor on a remote article.
type Author struct {
	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	ORCID       string `json:"orcid"`
	Affiliation string `json:"affiliation"`
	Biography   string `json:"bio"`
	Primary     bool   `json:"primary_contact"`
}

// File is a downloadable galley or manuscript file.
type File struct {
	URL      string `json:"url"`
	Label    string `json:"label"`
	MimeType string `json:"mime_type"`
}

// Issue is the remote issue an article was published in.
type Issue struct {
	Volume int    `json:"volume"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	Date   string `json:"date_published"`
}

// SectionInfo is a remote journal section.
type SectionInfo struct {
	ID    int    `json:"section_id"`
	Title string `json:"section_title"`
}

// User is a remote account.
type User struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Affiliation string `json:"affiliation"`
	Country     string `json:"country"`
}

// Metric is a per-article view/download counter.
type Metric struct {
	ArticleID int `json:"ojs_id"`
	Views     int `json:"views"`
	Downloads int `json:"downloads"`
}

package archive

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// ScanAssets walks a bundle's asset directory and extracts a DOI from
// each PDF it finds. The result maps the file name relative to the
// asset directory to the extracted DOI; PDFs without a detectable DOI
// are omitted. Used to cross-check PDF assets against the DOI column.
func (b *Bundle) ScanAssets() (map[string]string, error) {
	if b.AssetDir == "" {
		return nil, nil
	}

	found := map[string]string{}
	err := filepath.WalkDir(b.AssetDir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !strings.EqualFold(filepath.Ext(p), ".pdf") {
			return nil
		}
		doi, err := ExtractDOI(p)
		if err != nil {
			// unreadable PDFs don't block the import
			return nil
		}
		if doi != "" {
			rel, rerr := filepath.Rel(b.AssetDir, p)
			if rerr != nil {
				rel = filepath.Base(p)
			}
			found[rel] = doi
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ExtractDOI extracts a DOI from a PDF file.
// It searches the first few pages for DOI patterns.
func ExtractDOI(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// DOI is usually on the first page
	maxPages := 3
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if doi := findDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil // no DOI found (not an error)
}

// findDOI finds a DOI in text.
func findDOI(text string) string {
	matches := doiPattern.FindAllString(text, -1)
	for _, match := range matches {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	if !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	if slashIdx == -1 || slashIdx >= len(doi)-1 {
		return false
	}
	return true
}

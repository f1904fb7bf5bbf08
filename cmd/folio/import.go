package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/mglenn/folio/internal/archive"
	"github.com/mglenn/folio/internal/catalog"
	"github.com/mglenn/folio/internal/config"
	"github.com/mglenn/folio/internal/importer"
	"github.com/mglenn/folio/internal/normalize"
	"github.com/mglenn/folio/internal/tabular"
	"github.com/spf13/cobra"
)

var (
	importJournal string
	importOwner   string
	importDryRun  bool
)

func init() {
	importCmd.Flags().StringVar(&importJournal, "journal", "", "Default journal code (overrides config)")
	importCmd.Flags().StringVar(&importOwner, "owner", "", "Owner email for created articles (overrides config)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate and report without writing")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import article metadata from a table or archive",
	Long: `Import article metadata from a CSV/XLSX table or a zip archive
bundling the table with article files.

Usage:
  folio import metadata.csv
  folio import bundle.zip --dry-run

The batch is all-or-nothing: any invalid row blocks the whole file.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResult reports what an import run did.
type ImportResult struct {
	Created  int               `json:"created"`
	Updated  int               `json:"updated"`
	DryRun   bool              `json:"dry_run"`
	Articles map[string]string `json:"articles"`
	Warnings []string          `json:"warnings,omitempty"`
}

func runImport(cmd *cobra.Command, args []string) error {
	repoRoot := findRepo()
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	cfg = config.Effective(cfg)

	journalCode := importJournal
	if journalCode == "" {
		journalCode = cfg.JournalCode
	}
	if journalCode == "" {
		exitWithError(ExitConfigError, "no journal code configured (set journal_code or pass --journal)")
	}

	bundle, err := archive.Prepare(args[0], config.StagingPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	table, err := tabular.ReadFile(bundle.MetadataPath)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	store, err := catalog.Open(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening catalog: %v", err)
	}
	defer store.Close()

	ownerEmail := importOwner
	if ownerEmail == "" {
		ownerEmail = cfg.OwnerEmail
	}
	ownerID, err := resolveOwner(store, ownerEmail, !importDryRun)
	if err != nil {
		exitWithError(ExitError, "resolving owner: %v", err)
	}

	engine := &importer.Engine{
		Store:          store,
		DefaultJournal: journalCode,
		OwnerID:        ownerID,
		ExtraStages:    cfg.ExtraStages,
		Persist:        !importDryRun,
	}
	rowErrs, outcomes, err := engine.Import(table)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if len(rowErrs) > 0 {
		reportRowErrors(rowErrs)
		os.Exit(ExitDataError)
	}

	result := ImportResult{DryRun: importDryRun, Articles: map[string]string{}}
	for id, outcome := range outcomes {
		result.Articles[strconv.FormatInt(id, 10)] = string(outcome)
		if outcome == importer.OutcomeCreated {
			result.Created++
		} else {
			result.Updated++
		}
	}
	result.Warnings = assetWarnings(bundle, table)

	if humanOutput {
		verb := "Imported"
		if importDryRun {
			verb = "Would import"
		}
		fmt.Printf("%s %d article(s): %d created, %d updated\n",
			verb, len(outcomes), result.Created, result.Updated)
		for _, w := range result.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
	} else {
		outputJSON(result)
	}
	return nil
}

// resolveOwner maps an owner email to an account id, creating the
// account on persisted runs when it does not exist yet.
func resolveOwner(store *catalog.Store, email string, create bool) (int64, error) {
	if email == "" {
		return 0, nil
	}
	var id int64
	err := store.WithTx(func(tx *catalog.Tx) error {
		account, err := tx.AccountByEmail(email)
		if err != nil {
			return err
		}
		if account != nil {
			id = account.ID
			return nil
		}
		if !create {
			return nil
		}
		account = &catalog.Account{Email: email}
		id, err = tx.CreateAccount(account)
		return err
	})
	return id, err
}

func reportRowErrors(rowErrs []importer.RowError) {
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: import blocked by %d problem(s):\n", len(rowErrs))
		for _, re := range rowErrs {
			fmt.Fprintf(os.Stderr, "  - %s\n", re.Error())
		}
		return
	}
	outputJSON(struct {
		Errors []importer.RowError `json:"errors"`
	}{Errors: rowErrs})
}

// assetWarnings cross-checks DOIs found inside bundled PDFs against the
// DOI column of the table.
func assetWarnings(bundle *archive.Bundle, table *tabular.Table) []string {
	found, err := bundle.ScanAssets()
	if err != nil || len(found) == 0 {
		return nil
	}

	declared := map[string]bool{}
	for _, row := range table.Rows {
		if doi := normalize.DOI(row.Get("DOI")); doi != "" {
			declared[doi] = true
		}
	}

	var names []string
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)

	var warnings []string
	for _, name := range names {
		if !declared[found[name]] {
			warnings = append(warnings,
				fmt.Sprintf("%s carries DOI %s, which no row declares", name, found[name]))
		}
	}
	return warnings
}

package main

import (
	"fmt"
	"os"

	"github.com/mglenn/folio/internal/catalog"
	"github.com/mglenn/folio/internal/config"
	"github.com/spf13/cobra"
)

var (
	initJournalCode  string
	initJournalTitle string
	initJournalISSN  string
)

func init() {
	initCmd.Flags().StringVar(&initJournalCode, "journal", "", "Code of the journal to register")
	initCmd.Flags().StringVar(&initJournalTitle, "title", "", "Title of the journal")
	initCmd.Flags().StringVar(&initJournalISSN, "issn", "", "ISSN of the journal")
	initCmd.MarkFlagRequired("journal")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new folio repository",
	Long: `Initialize a new folio repository in the current directory.

Creates:
  .folio/
  ├── config.yml      # Default config
  ├── catalog.db      # SQLite catalog
  └── staging/        # Archive staging area`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, exitCode := getRepoRoot()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a folio repository")
	}

	if err := os.MkdirAll(config.FolioPath(root), 0755); err != nil {
		exitWithError(ExitError, "creating .folio directory: %v", err)
	}
	if err := os.MkdirAll(config.StagingPath(root), 0755); err != nil {
		exitWithError(ExitError, "creating staging directory: %v", err)
	}

	cfg := &config.Config{JournalCode: initJournalCode}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "creating config.yml: %v", err)
	}

	store, err := catalog.Open(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "creating catalog: %v", err)
	}
	defer store.Close()

	err = store.WithTx(func(tx *catalog.Tx) error {
		existing, err := tx.JournalByCode(initJournalCode)
		if err != nil || existing != nil {
			return err
		}
		_, err = tx.CreateJournal(initJournalCode, initJournalTitle, initJournalISSN)
		return err
	})
	if err != nil {
		exitWithError(ExitError, "registering journal: %v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized folio repository in %s (journal %s)\n", root, initJournalCode)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: root})
	}
	return nil
}

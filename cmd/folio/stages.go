package main

import (
	"fmt"

	"github.com/mglenn/folio/internal/catalog"
	"github.com/mglenn/folio/internal/config"
	"github.com/spf13/cobra"
)

var stagesJournal string

func init() {
	stagesCmd.Flags().StringVar(&stagesJournal, "journal", "", "Journal code (overrides config)")
	rootCmd.AddCommand(stagesCmd)
}

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List the stage values imports accept",
	Long: `List the workflow stage values the Stage column accepts for a
journal: the fixed stages, the journal's registered workflow stages,
and any extra stages from the repository config.`,
	Args: cobra.NoArgs,
	RunE: runStages,
}

// StagesResponse lists the accepted stage vocabulary.
type StagesResponse struct {
	Journal string   `json:"journal"`
	Stages  []string `json:"stages"`
}

func runStages(cmd *cobra.Command, args []string) error {
	repoRoot := findRepo()
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	cfg = config.Effective(cfg)

	code := stagesJournal
	if code == "" {
		code = cfg.JournalCode
	}
	if code == "" {
		exitWithError(ExitConfigError, "no journal code configured (set journal_code or pass --journal)")
	}

	store, err := catalog.Open(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening catalog: %v", err)
	}
	defer store.Close()

	var stages []string
	err = store.WithTx(func(tx *catalog.Tx) error {
		journal, err := tx.JournalByCode(code)
		if err != nil {
			return err
		}
		if journal == nil {
			return fmt.Errorf("unknown journal code %q", code)
		}
		workflow, err := tx.WorkflowStages(journal.ID)
		if err != nil {
			return err
		}
		stages = append(stages, catalog.FixedStages...)
		stages = append(stages, workflow...)
		stages = append(stages, cfg.ExtraStages...)
		return nil
	})
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		for _, s := range stages {
			fmt.Println(s)
		}
	} else {
		outputJSON(StagesResponse{Journal: code, Stages: stages})
	}
	return nil
}

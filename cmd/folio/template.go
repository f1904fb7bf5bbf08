package main

import (
	"fmt"

	"github.com/mglenn/folio/internal/tabular"
	"github.com/spf13/cobra"
)

var templateOut string

func init() {
	templateCmd.Flags().StringVar(&templateOut, "out", "metadata_template.csv", "Output file (.csv or .xlsx)")
	rootCmd.AddCommand(templateCmd)
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write an empty metadata template",
	Long: `Write a metadata table containing only the expected header row,
ready to be filled in and imported.`,
	Args: cobra.NoArgs,
	RunE: runTemplate,
}

func runTemplate(cmd *cobra.Command, args []string) error {
	table := tabular.NewTable(tabular.FixedHeaders)
	if err := tabular.WriteFile(templateOut, table); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Wrote template to %s\n", templateOut)
	} else {
		outputJSON(StatusResponse{Status: "written", Path: templateOut})
	}
	return nil
}

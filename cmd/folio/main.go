// Package main provides the folio CLI entry point.
package main

import (
	"os"

	"github.com/mglenn/folio/internal/config"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Journal article metadata reconciler",
	Long: `folio reconciles tabular article metadata against a journal catalog.

It imports CSV or XLSX metadata tables (optionally zipped with their
article files), creating and updating articles, issues, sections and
author records, and exports catalog articles back into the same format.
All commands output JSON by default for easy scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// getRepoRoot returns the directory to treat as the working root.
func getRepoRoot() (string, int) {
	if root := os.Getenv("FOLIO_ROOT"); root != "" {
		return root, 0
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// findRepo locates the enclosing repository or exits.
func findRepo() string {
	root, exitCode := getRepoRoot()
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	repoRoot, err := config.FindRepository(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return repoRoot
}

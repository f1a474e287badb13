// Package cli implements the raggrep command-line surface (ยง6):
// index, query, status, reset, cleanup, plus the global --version flag
// (--verbose is a flag of index and cleanup). Every subcommand is a thin wrapper over
// internal/engine; RunE's returned error is what turns into exit code 1.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conradkoh/raggrep/internal/engine"
)

var verbose bool

// rootCmd is raggrep's entry point.
var rootCmd = &cobra.Command{
	Use:   "raggrep",
	Short: "A local, filesystem-resident hybrid code search engine",
	Long: `raggrep indexes a project tree into BM25, literal, and vector
indices stored entirely on the local filesystem, then answers free-text
and exact queries against them without any external service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// eng is the single Engine instance every subcommand's RunE closes over.
var eng = engine.New()

// Execute runs the root command. It is the only function cmd/raggrep
// calls.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(indexCmd, queryCmd, statusCmd, resetCmd, cleanupCmd, versionCmd)
}

// projectRoot resolves the directory a subcommand operates on: the
// current working directory, always — raggrep has no project-switching
// flag, matching ยง6's CLI surface (index/query/status/reset/cleanup
// take no explicit directory argument).
func projectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return dir, nil
}

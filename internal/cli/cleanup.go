package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conradkoh/raggrep/internal/engine"
	"github.com/conradkoh/raggrep/internal/logging"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove index entries for files deleted from disk",
	Long: `cleanup walks every enabled module's manifest and drops entries for
files that no longer exist, without re-walking the tree for new or
changed content. index and query already do this as part of their own
reconciliation; cleanup is for reclaiming space after a large deletion
without paying for a full index pass.`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging output")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	results, err := eng.Cleanup(cmd.Context(), root, engine.CleanupOptions{
		Logger: logging.NewConsole(verbose),
	})
	if err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}

	total := 0
	for _, r := range results {
		total += r.Removed
		if verbose && r.Removed > 0 {
			fmt.Printf("  %-24s removed=%d\n", r.ModuleID, r.Removed)
		}
	}
	fmt.Printf("removed %d stale entries\n", total)
	return nil
}

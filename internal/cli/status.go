package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current index's state without reconciling it",
	Long: `status reads the persisted global and per-module manifests as they
currently sit on disk. Unlike query, it does not run ensureFresh first,
so it reflects the index's state as of the last index or query call.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	st, err := eng.Status(root)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	fmt.Printf("root:           %s\n", st.Root)
	fmt.Printf("index dir:      %s\n", st.IndexDir)
	fmt.Printf("schema version: %d\n", st.SchemaVersion)
	fmt.Printf("active modules: %d\n", len(st.ActiveModules))
	for _, m := range st.Modules {
		fmt.Printf("  %-24s files=%-6d version=%-8s updated=%s\n",
			m.ModuleID, m.FileCount, m.Version, m.LastUpdated.Format("2006-01-02 15:04:05"))
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe the current directory's entire index",
	Long: `reset deletes the index directory outright: every module's manifest,
chunk payload, and sidecar, plus the global manifest. The next index
call starts from a clean slate.

Running reset against a directory with no index is a user error.`,
	RunE: runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	if err := eng.Reset(root); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	fmt.Println("index reset")
	return nil
}

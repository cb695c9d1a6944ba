package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nagare-go/nagare/internal/state"
	"github.com/nagare-go/nagare/internal/version"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback <version>",
	Short: "Revert a release by version",
	Long: `Revert a previously published release: delete its tag locally and on
the remote, reset to the commit preceding the release, and restore any
files it rewrote.

Running rollback twice on the same version is safe — a release with no
matching tag is treated as already rolled back.`,
	Args: cobra.ExactArgs(1),
	RunE: runRollback,
}

func runRollback(cmd *cobra.Command, args []string) error {
	ver, err := version.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", args[0], err)
	}

	rb, err := newRollback(cmd.Context())
	if err != nil {
		return err
	}

	result, err := rb.Run(cmd.Context(), ver, state.RunID(""))
	if err != nil {
		printError(fmt.Sprintf("rollback failed: %v", err))
		return exitCodeError{code: 1, err: err}
	}

	printSuccess(msg("release_rolled_back", result.TagName))
	if result.ResetPerformed {
		printInfo("reset to the commit preceding the release")
	}
	for _, f := range result.FilesRestored {
		printInfo(fmt.Sprintf("  restored %s", f))
	}

	return nil
}

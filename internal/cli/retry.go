package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nagare-go/nagare/internal/version"
)

var retryCmd = &cobra.Command{
	Use:   "retry <version>",
	Short: "Clear failed state for <version> and re-release",
	Long: `Re-attempt publishing a release that reached TAG but failed (or was
interrupted) before PUBLISH completed.

retry never recomputes the version or re-runs hooks: it validates the tag
and release commit are still present, then repeats only the push and
remote-release step.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetry,
}

func runRetry(cmd *cobra.Command, args []string) error {
	ver, err := version.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", args[0], err)
	}

	opts := buildOptions(dryRun)

	orch, err := newOrchestrator(cmd.Context())
	if err != nil {
		return err
	}

	result := orch.Retry(cmd.Context(), ver, opts)
	printReleaseResult(result)

	return exitErrorFor(result)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	rperrors "github.com/nagare-go/nagare/internal/errors"
	"github.com/nagare-go/nagare/internal/release"
	"github.com/nagare-go/nagare/internal/version"
)

var releaseCmd = &cobra.Command{
	Use:   "release [major|minor|patch]",
	Short: "Execute a release",
	Long: `Execute a release: compute the next version, generate the changelog,
rewrite version files, commit, tag, and (unless configured otherwise) push
and publish a remote release entry.

With no argument the bump type is auto-detected from conventional commits
since the last release tag.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRelease,
}

func runRelease(cmd *cobra.Command, args []string) error {
	opts := buildOptions(dryRun)

	if len(args) == 1 {
		bump, err := version.ParseBumpType(args[0])
		if err != nil {
			return fmt.Errorf("invalid bump type %q: %w", args[0], err)
		}
		opts.Bump = bump
	}

	orch, err := newOrchestrator(cmd.Context())
	if err != nil {
		return err
	}

	result := orch.Run(cmd.Context(), opts)
	printReleaseResult(result)

	return exitErrorFor(result)
}

// printReleaseResult renders a release.Result to stdout using the active
// message catalog for the headline status lines.
func printReleaseResult(result *release.Result) {
	if result.DryRun {
		printInfo(msg("dry_run_notice"))
	}

	for _, fp := range result.FilePreviews {
		if !fp.Changed {
			continue
		}
		printInfo(fmt.Sprintf("  %s", fp.Path))
	}

	switch {
	case result.Succeeded():
		printSuccess(msg("release_published", result.NextVersion.String()))
		if result.RemoteReleaseURL != "" {
			printInfo(result.RemoteReleaseURL)
		}
	case result.PartiallySucceeded():
		printWarning(fmt.Sprintf("published locally as %s, remote publish failed: %v", result.TagName, result.Err))
	case result.State == release.StateFailed || result.State == release.StateRollback:
		printError(msg("error") + ": " + errString(result.Err))
	default:
		printError(errString(result.Err))
	}

	for _, hr := range result.HookResults {
		if hr.Err != nil {
			printWarning(fmt.Sprintf("hook %s failed: %v", hr.Name, hr.Err))
		}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// exitErrorFor maps a release.Result to the process's exit behavior, per
// the exit-code contract (0 success, 3 preflight failure, 4 release
// failure with rollback, 5 partial success).
func exitErrorFor(result *release.Result) error {
	switch {
	case result.Succeeded():
		return nil
	case result.PartiallySucceeded():
		return exitCodeError{code: 5, err: result.Err}
	case result.State == release.StatePreflight || rperrors.GetCode(result.Err) == rperrors.CodeGitUserNotConfigured:
		return exitCodeError{code: 3, err: result.Err}
	default:
		return exitCodeError{code: 4, err: result.Err}
	}
}

// exitCodeError carries the process exit code a failure should produce;
// main translates it via ExitCode.
type exitCodeError struct {
	code int
	err  error
}

func (e exitCodeError) Error() string {
	if e.err == nil {
		return "release failed"
	}
	return e.err.Error()
}

// ExitCode extracts the intended process exit code from an error returned
// by Execute, defaulting to 1 for anything not classified.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ce, ok := err.(exitCodeError); ok {
		return ce.code
	}
	return 1
}

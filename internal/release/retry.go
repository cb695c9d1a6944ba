package release

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	rperrors "github.com/nagare-go/nagare/internal/errors"
	"github.com/nagare-go/nagare/internal/version"
)

// Retry re-attempts PUBLISH for a release that already completed COMMIT and
// TAG but failed (or was interrupted) before or during PUBLISH. It never
// re-derives the version, re-runs hooks, or touches the working tree: the
// tag and commit from the original run are taken as given, and only the
// push/forge-release step is repeated.
func (o *Orchestrator) Retry(ctx context.Context, ver version.SemanticVersion, opts Options) *Result {
	const op = "release.Retry"
	result := &Result{DryRun: opts.DryRun}

	tagName := o.cfg.Versioning.TagPrefix + ver.String()
	result.TagName = tagName
	result.NextVersion = ver

	tag, err := o.git.GetTag(ctx, tagName)
	if err != nil {
		result.Err = rperrors.GitWrap(err, op, fmt.Sprintf("release tag %s not found; nothing to retry", tagName))
		result.State = StateFailed
		return o.finish(result)
	}

	runID, _, err := o.tracker.FindByTag(tagName)
	if err == nil {
		result.RunID = runID
	}

	if _, err := o.git.GetCommit(ctx, tag.Hash); err != nil {
		result.Err = rperrors.GitWrap(err, op, "release commit referenced by the tag is no longer reachable")
		result.State = StateFailed
		return o.finish(result)
	}

	if opts.DryRun {
		result.State = StateDone
		result.Pushed = o.cfg.Versioning.GitPush
		return o.finish(result)
	}

	changelogEntry := o.readChangelogSection(ver)

	pushed, remoteURL, err := o.publish(ctx, tagName, ver, changelogEntry, opts)
	result.Pushed = pushed
	result.RemoteReleaseURL = remoteURL
	if err != nil {
		result.Err = err
		result.State = StatePublishFailed
		return o.finish(result)
	}

	if runID != "" {
		if err := o.tracker.Clear(runID); err != nil {
			o.logf("retry: failed to clear release state for %s: %v", runID, err)
		}
	}

	result.State = StateDone
	return o.finish(result)
}

// readChangelogSection extracts the section for ver from the on-disk
// changelog, best-effort: a release entry whose remote-release body
// couldn't be recovered still gets pushed, just with an empty body.
func (o *Orchestrator) readChangelogSection(ver version.SemanticVersion) string {
	path := filepath.Join(o.repoRoot, o.cfg.Changelog.File)
	content, err := os.ReadFile(path) // #nosec G304 -- path built from repoRoot + configured changelog file
	if err != nil {
		return ""
	}

	heading := "## [" + ver.String() + "]"
	lines := strings.Split(string(content), "\n")
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(line, heading) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "## [") {
			end = i
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}

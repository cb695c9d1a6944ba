package release

import (
	"context"

	charmlog "github.com/charmbracelet/log"

	"github.com/nagare-go/nagare/internal/config"
	rperrors "github.com/nagare-go/nagare/internal/errors"
	"github.com/nagare-go/nagare/internal/gitrepo"
	"github.com/nagare-go/nagare/internal/state"
	"github.com/nagare-go/nagare/internal/version"
)

// Rollback reverts a named version (C11): locates its tag, removes it
// locally and on the remote (best-effort), resets to the commit preceding
// the release commit, and restores tracked files. It is idempotent: running
// it twice on an already-reverted version is a no-op the second time, since
// a missing tag and a missing state log are both treated as "already done"
// rather than as errors.
type Rollback struct {
	cfg     *config.Config
	git     GitClient
	tracker *state.Tracker
	logger  *charmlog.Logger
}

// NewRollback wires the rollback orchestrator's collaborators.
func NewRollback(cfg *config.Config, git GitClient, tracker *state.Tracker, logger *charmlog.Logger) *Rollback {
	return &Rollback{cfg: cfg, git: git, tracker: tracker, logger: logger}
}

// RollbackResult reports what Run actually reverted.
type RollbackResult struct {
	TagName        string
	TagDeleted     bool
	RemoteDeleted  bool
	ResetPerformed bool
	FilesRestored  []string
}

// Run reverts ver. runID, if known, lets Run consume the recorded
// side-effect log in reverse order; when runID is empty (rolling back a
// release performed in an earlier process, with no state log available),
// files are instead left as restored by the hard reset to the parent
// commit, per §4.11's stated fallback.
func (r *Rollback) Run(ctx context.Context, ver version.SemanticVersion, runID state.RunID) (*RollbackResult, error) {
	const op = "release.Rollback"
	result := &RollbackResult{}

	tagName := r.cfg.Versioning.TagPrefix + ver.String()
	result.TagName = tagName

	tag, err := r.git.GetTag(ctx, tagName)
	if err != nil {
		if rperrors.GetCode(err) == rperrors.CodeVersionNotFound {
			return result, nil // already rolled back: nothing to do
		}
		return result, rperrors.GitWrap(err, op, "failed to look up release tag")
	}

	remote := r.cfg.Git.DefaultRemote
	if remote == "" {
		remote = "origin"
	}

	if err := r.git.Push(ctx, gitrepo.PushOptions{Remote: remote, RefSpec: ":refs/tags/" + tagName}); err != nil {
		r.logf("rollback: failed to delete remote tag %s (continuing): %v", tagName, err)
	} else {
		result.RemoteDeleted = true
	}

	if err := r.git.DeleteTag(ctx, tagName); err != nil {
		r.logf("rollback: failed to delete local tag %s (continuing): %v", tagName, err)
	} else {
		result.TagDeleted = true
	}

	if c, err := r.git.GetCommit(ctx, tag.Hash); err == nil && len(c.Parents) > 0 {
		if err := r.git.ResetHard(ctx, c.Parents[0]); err != nil {
			return result, rperrors.GitWrap(err, op, "failed to reset to the commit preceding the release")
		}
		result.ResetPerformed = true
	}

	if runID != "" {
		effects, err := r.tracker.LoadReversed(runID)
		if err == nil && len(effects) > 0 {
			for _, e := range effects {
				if e.Kind == state.KindFileWritten || e.Kind == state.KindFileCreated {
					result.FilesRestored = append(result.FilesRestored, e.Path)
				}
			}
			_ = r.tracker.Clear(runID)
		}
	}

	return result, nil
}

func (r *Rollback) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Warnf(format, args...)
	}
}

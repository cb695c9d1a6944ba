// Package release implements the release orchestrator (C10) and rollback
// orchestrator (C11): the state machine that drives a release from preflight
// checks through publish, and the inverse operation that reverts one.
package release

import (
	"time"

	"github.com/nagare-go/nagare/internal/commit"
	"github.com/nagare-go/nagare/internal/state"
	"github.com/nagare-go/nagare/internal/version"
)

// PreflightCheck is one user-configured command run during PREFLIGHT.
type PreflightCheck struct {
	Name     string
	Command  []string
	Fixable  bool
	FixedBy  []string // command run once to repair a failing fixable check
	Optional bool
}

// PreflightCheckResult is the outcome of running one PreflightCheck.
type PreflightCheckResult struct {
	Name     string
	Passed   bool
	Repaired bool
	Optional bool
	Output   string
	Err      error
}

// PreflightReport summarizes the PREFLIGHT stage.
type PreflightReport struct {
	Clean           bool
	AuthorConfigured bool
	MissingTools    []string
	Checks          []PreflightCheckResult
}

// Passed reports whether every required condition in the report is satisfied.
func (r PreflightReport) Passed() bool {
	if !r.Clean || !r.AuthorConfigured || len(r.MissingTools) > 0 {
		return false
	}
	for _, c := range r.Checks {
		if !c.Passed && !c.Repaired && !c.Optional {
			return false
		}
	}
	return true
}

// Options configures one Run of the orchestrator.
type Options struct {
	// Bump, when non-empty, overrides the auto-detected bump type.
	Bump version.BumpType
	// DryRun runs every stage up to the point of side-effect and stops.
	DryRun bool
	// SkipConfirmation bypasses any interactive confirmation (the CLI layer's
	// concern; the orchestrator never prompts itself).
	SkipConfirmation bool
	// SyncFromFile allows COMPUTE to proceed when the version file disagrees
	// with the authoritative tag, adopting the tag's value.
	SyncFromFile bool
	// PreflightChecks are the user-configured checks run during PREFLIGHT.
	PreflightChecks []PreflightCheck
	// PreReleaseHooks run at the start of MUTATE and may abort with no
	// side-effects.
	PreReleaseHooks []PluginHook
	// PostReleaseHooks run during HOOKS, in declaration order.
	PostReleaseHooks []PluginHook
	// Forge, if non-nil, is invoked during PUBLISH to create a remote
	// release entry.
	Forge ForgeClient
}

// FilePreview is one extra file's computed change, produced by GENERATE.
type FilePreview struct {
	Path    string
	Changed bool
	Before  string
	After   string
}

// Result is what Run returns on any terminal state.
type Result struct {
	RunID            state.RunID
	State            StateID
	PreviousVersion  version.SemanticVersion
	NextVersion      version.SemanticVersion
	Changes          *commit.ChangeSet
	ChangelogEntry   string
	FilePreviews     []FilePreview
	CommitHash       string
	TagName          string
	Pushed           bool
	RemoteReleaseURL string
	Preflight        PreflightReport
	HookResults      []HookResult
	DryRun           bool
	StartedAt        time.Time
	FinishedAt       time.Time
	Err              error
}

// Succeeded reports whether the release reached DONE.
func (r Result) Succeeded() bool {
	return r.State == StateDone
}

// PartiallySucceeded reports whether local state succeeded but PUBLISH
// failed to push or create the remote release (exit code 5 territory).
func (r Result) PartiallySucceeded() bool {
	return r.State == StatePublishFailed
}

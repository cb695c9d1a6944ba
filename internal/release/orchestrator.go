package release

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/nagare-go/nagare/internal/backup"
	"github.com/nagare-go/nagare/internal/changelog"
	"github.com/nagare-go/nagare/internal/commit"
	"github.com/nagare-go/nagare/internal/config"
	rperrors "github.com/nagare-go/nagare/internal/errors"
	"github.com/nagare-go/nagare/internal/filehandler"
	"github.com/nagare-go/nagare/internal/fileutil"
	"github.com/nagare-go/nagare/internal/gitrepo"
	"github.com/nagare-go/nagare/internal/security"
	"github.com/nagare-go/nagare/internal/state"
	"github.com/nagare-go/nagare/internal/template"
	"github.com/nagare-go/nagare/internal/version"
)

// GitClient is the subset of gitrepo.ServiceImpl the orchestrator depends
// on, narrowed to an interface so tests can supply a fake.
type GitClient interface {
	GetRepositoryRoot(ctx context.Context) (string, error)
	IsClean(ctx context.Context) (bool, error)
	GetHeadCommit(ctx context.Context) (*gitrepo.Commit, error)
	GetCommit(ctx context.Context, hash string) (*gitrepo.Commit, error)
	GetLatestVersionTag(ctx context.Context, prefix string) (*gitrepo.Tag, error)
	GetCommitsSince(ctx context.Context, ref string) ([]gitrepo.Commit, error)
	GetCurrentBranch(ctx context.Context) (string, error)
	GetDefaultBranch(ctx context.Context) (string, error)
	GetTag(ctx context.Context, name string) (*gitrepo.Tag, error)
	CreateTag(ctx context.Context, name, message string, opts gitrepo.TagOptions) error
	DeleteTag(ctx context.Context, name string) error
	PushTag(ctx context.Context, name string, opts gitrepo.PushOptions) error
	Push(ctx context.Context, opts gitrepo.PushOptions) error
	Stage(ctx context.Context, paths []string) error
	Commit(ctx context.Context, opts gitrepo.CommitOptions) (*gitrepo.Commit, error)
	ResetHard(ctx context.Context, ref string) error
}

// Orchestrator drives one release attempt through the
// IDLE→PREFLIGHT→COMPUTE→GENERATE→MUTATE→COMMIT→TAG→PUBLISH→HOOKS→DONE
// state machine (C10). It owns a fresh backup.Manager per Run; the
// git client, template service, file-handler registry, and state tracker are
// shared, read-mostly collaborators.
type Orchestrator struct {
	cfg      *config.Config
	git      GitClient
	tmpl     template.Service
	handlers *filehandler.Registry
	tracker  *state.Tracker
	logger   *charmlog.Logger
	repoRoot string
}

// NewOrchestrator wires the release orchestrator's collaborators.
func NewOrchestrator(cfg *config.Config, git GitClient, tmpl template.Service, handlers *filehandler.Registry, tracker *state.Tracker, logger *charmlog.Logger, repoRoot string) *Orchestrator {
	return &Orchestrator{cfg: cfg, git: git, tmpl: tmpl, handlers: handlers, tracker: tracker, logger: logger, repoRoot: repoRoot}
}

// Run drives a single release attempt to a terminal state.
func (o *Orchestrator) Run(ctx context.Context, opts Options) *Result {
	runID := state.NewRunID()
	result := &Result{RunID: runID, DryRun: opts.DryRun, StartedAt: time.Now()}

	machine, err := newRunMachine()
	if err != nil {
		result.Err = rperrors.InternalWrap(err, "release.Run", "failed to construct state machine")
		result.State = StateFailed
		return o.finish(result)
	}
	machine.start()
	machine.send(eventStart)
	result.State = machine.current()

	backups := backup.NewManager()

	select {
	case <-ctx.Done():
		return o.cancel(ctx, machine, result, backups)
	default:
	}

	// PREFLIGHT
	preflight, err := o.preflight(ctx, opts)
	result.Preflight = preflight
	if err != nil || !preflight.Passed() {
		if err == nil {
			err = rperrors.Validation("release.preflight", "preflight checks did not pass").WithCode(rperrors.CodeGitNotClean)
		}
		machine.send(eventPreflightFail)
		result.Err = err
		result.State = machine.current()
		return o.finish(result)
	}
	machine.send(eventPreflightPass)
	result.State = machine.current()

	// COMPUTE
	previous, next, changes, err := o.compute(ctx, opts)
	if err != nil {
		machine.send(eventComputeFail)
		result.Err = err
		result.State = machine.current()
		return o.finish(result)
	}
	result.PreviousVersion = previous
	result.NextVersion = next
	result.Changes = changes
	machine.send(eventComputePass)
	result.State = machine.current()

	// GENERATE
	changelogEntry, previews, err := o.generate(ctx, previous, next, changes)
	if err != nil {
		machine.send(eventGenerateFail)
		result.Err = err
		result.State = machine.current()
		return o.rollback(ctx, machine, result, backups)
	}
	result.ChangelogEntry = changelogEntry
	result.FilePreviews = previews
	machine.send(eventGeneratePass)
	result.State = machine.current()

	if opts.DryRun {
		machine.send(eventMutatePass)
		machine.send(eventCommitPass)
		machine.send(eventTagPass)
		machine.send(eventPublishPass)
		machine.send(eventHooksDone)
		result.State = machine.current()
		return o.finish(result)
	}

	// pre-release hooks run at the start of MUTATE, after preflight.
	if hookResults, err := runPreReleaseHooks(ctx, opts.PreReleaseHooks); err != nil {
		result.HookResults = hookResults
		machine.send(eventMutateFail)
		result.Err = rperrors.Wrap(err, rperrors.KindInternal, "release.preReleaseHooks", "pre-release hook aborted the release")
		result.State = machine.current()
		return o.finish(result) // no side-effects yet, no rollback needed
	}

	// MUTATE
	if err := o.mutate(ctx, next, changelogEntry, previews, backups, runID); err != nil {
		machine.send(eventMutateFail)
		result.Err = err
		result.State = machine.current()
		return o.rollback(ctx, machine, result, backups)
	}
	machine.send(eventMutatePass)
	result.State = machine.current()

	// COMMIT
	commitHash, err := o.commitStage(ctx, next, previews, runID)
	if err != nil {
		machine.send(eventCommitFail)
		result.Err = err
		result.State = machine.current()
		return o.rollback(ctx, machine, result, backups)
	}
	result.CommitHash = commitHash
	machine.send(eventCommitPass)
	result.State = machine.current()

	// TAG
	tagName, err := o.tagStage(ctx, next, runID)
	if err != nil {
		machine.send(eventTagFail)
		result.Err = err
		result.State = machine.current()
		return o.rollback(ctx, machine, result, backups)
	}
	result.TagName = tagName
	machine.send(eventTagPass)
	result.State = machine.current()

	// Local state now exists (commit + tag); failures beyond this point do
	// not roll back, per §4.10 step 7.
	backups.Release()

	// PUBLISH
	pushed, remoteURL, err := o.publish(ctx, tagName, next, changelogEntry, opts)
	result.Pushed = pushed
	result.RemoteReleaseURL = remoteURL
	if err != nil {
		machine.send(eventPublishFail)
		result.Err = err
		result.State = machine.current()
		return o.finish(result)
	}
	machine.send(eventPublishPass)
	result.State = machine.current()
	_ = o.tracker.Clear(runID)

	// HOOKS
	result.HookResults = append(result.HookResults, runPostReleaseHooks(ctx, opts.PostReleaseHooks)...)
	for _, hr := range result.HookResults {
		if hr.Err != nil {
			o.logf("post-release hook %q failed: %v", hr.Name, hr.Err)
		}
	}
	machine.send(eventHooksDone)
	result.State = machine.current()

	return o.finish(result)
}

func (o *Orchestrator) cancel(ctx context.Context, machine *runMachine, result *Result, backups *backup.Manager) *Result {
	machine.send(eventCancel)
	result.State = machine.current()
	result.Err = rperrors.New(rperrors.KindCanceled, "release canceled").WithCode(rperrors.CodeOpCancelled)
	if result.State == StateRollback {
		return o.rollback(ctx, machine, result, backups)
	}
	return o.finish(result)
}

func (o *Orchestrator) rollback(ctx context.Context, machine *runMachine, result *Result, backups *backup.Manager) *Result {
	if restoreErr := backups.RestoreAll(); restoreErr != nil {
		o.logf("rollback: failed to restore one or more files: %v", restoreErr)
	}
	machine.send(eventRollbackDone)
	result.State = machine.current()
	return o.finish(result)
}

func (o *Orchestrator) finish(result *Result) *Result {
	result.FinishedAt = time.Now()
	return result
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.logger != nil {
		o.logger.Warnf(format, args...)
	}
}

// preflight runs git.is_clean, the author-identity check, external-tool
// presence, and every user-configured check concurrently, collecting all
// results before the state transition (§5).
func (o *Orchestrator) preflight(ctx context.Context, opts Options) (PreflightReport, error) {
	report := PreflightReport{}

	clean, err := o.git.IsClean(ctx)
	if err != nil {
		return report, rperrors.GitWrap(err, "release.preflight", "failed to check working tree cleanliness")
	}
	report.Clean = clean

	report.AuthorConfigured = gitAuthorConfigured(ctx, o.repoRoot)

	if c, ok := opts.Forge.(*CommandForgeClient); ok && len(c.Args) > 0 {
		if _, err := exec.LookPath(c.Args[0]); err != nil {
			report.MissingTools = append(report.MissingTools, c.Args[0])
		}
	}

	if len(opts.PreflightChecks) == 0 {
		return report, nil
	}

	results := make([]PreflightCheckResult, len(opts.PreflightChecks))
	g, gctx := errgroup.WithContext(ctx)
	for i, check := range opts.PreflightChecks {
		i, check := i, check
		g.Go(func() error {
			results[i] = runPreflightCheck(gctx, check)
			return nil
		})
	}
	_ = g.Wait() // individual check failures are reported in results, not as a group error

	report.Checks = results
	return report, nil
}

func runPreflightCheck(ctx context.Context, check PreflightCheck) PreflightCheckResult {
	result := PreflightCheckResult{Name: check.Name, Optional: check.Optional}
	if len(check.Command) == 0 {
		result.Passed = true
		return result
	}
	if err := security.ValidateCLIArgs(check.Command); err != nil {
		result.Err = err
		return result
	}

	run := func(args []string) (string, error) {
		cctx, cancel := context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
		cmd := exec.CommandContext(cctx, args[0], args[1:]...)
		out, err := cmd.CombinedOutput()
		return string(out), err
	}

	out, err := run(check.Command)
	result.Output = out
	if err == nil {
		result.Passed = true
		return result
	}

	if check.Fixable && len(check.FixedBy) > 0 {
		if _, fixErr := run(check.FixedBy); fixErr == nil {
			out, err = run(check.Command)
			result.Output = out
			if err == nil {
				result.Passed = true
				result.Repaired = true
				return result
			}
		}
	}

	result.Err = rperrors.Validation("release.preflightCheck", fmt.Sprintf("check %q failed: %s", check.Name, out))
	return result
}

func gitAuthorConfigured(ctx context.Context, repoRoot string) bool {
	for _, key := range []string{"user.name", "user.email"} {
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		cmd := exec.CommandContext(cctx, "git", "config", "--get", key)
		cmd.Dir = repoRoot
		out, err := cmd.CombinedOutput()
		cancel()
		if err != nil || strings.TrimSpace(string(out)) == "" {
			return false
		}
	}
	return true
}

// compute reads the authoritative tag version, parses commits since it, and
// decides the next version. Tags are authoritative over the version file
// (§9): if the file disagrees and the caller has not opted into
// --sync-from-file, compute fails.
func (o *Orchestrator) compute(ctx context.Context, opts Options) (version.SemanticVersion, version.SemanticVersion, *commit.ChangeSet, error) {
	const op = "release.compute"

	var previous version.SemanticVersion
	fromRef := ""

	tag, err := o.git.GetLatestVersionTag(ctx, o.cfg.Versioning.TagPrefix)
	if err != nil && rperrors.GetCode(err) != rperrors.CodeVersionNotFound {
		return previous, previous, nil, rperrors.GitWrap(err, op, "failed to read latest version tag")
	}
	if tag != nil {
		v, perr := version.Parse(strings.TrimPrefix(tag.Name, o.cfg.Versioning.TagPrefix))
		if perr != nil {
			return previous, previous, nil, rperrors.VersionWrap(perr, op, "latest tag is not a valid semantic version").WithCode(rperrors.CodeVersionInvalidFormat)
		}
		previous = v
		fromRef = tag.Name
	}

	if err := o.checkVersionFileAgreement(previous, opts); err != nil {
		return previous, previous, nil, err
	}

	commits, err := o.git.GetCommitsSince(ctx, fromRef)
	if err != nil {
		return previous, previous, nil, rperrors.GitWrap(err, op, "failed to read commits since last release")
	}

	cs := commit.NewChangeSet(commit.ChangeSetID(fromRef+"..HEAD"), fromRef, "HEAD")
	for _, c := range commits {
		parsed := commit.ParseConventionalCommit(c.Hash, c.Message,
			commit.WithAuthor(c.Author.Name, c.Author.Email),
			commit.WithDate(c.Date))
		cs.AddCommit(parsed)
	}

	bumpType := opts.Bump
	if bumpType == "" {
		if len(commits) == 0 {
			return previous, previous, cs, rperrors.New(rperrors.KindGit, "no releasable commits since the last release").WithCode(rperrors.CodeGitNoCommits)
		}
		bumpType = cs.ReleaseType().ToBumpType()
	} else if cs.HasBreakingChanges() && previous.Major() != 0 && bumpType != version.BumpMajor {
		return previous, previous, cs, rperrors.New(rperrors.KindVersion, fmt.Sprintf("commits since %s contain breaking changes; forced bump %q is not allowed, use major", fromRef, bumpType)).WithCode(rperrors.CodeBreakingRequiresMajor)
	}

	if bumpType == version.BumpMajor && previous.Major() == 0 {
		o.logf("major version bump demoted to minor: %s is still pre-1.0", previous.String())
	}

	next := version.NewVersionBump(bumpType).Apply(previous)
	return previous, next, cs, nil
}

func (o *Orchestrator) checkVersionFileAgreement(previous version.SemanticVersion, opts Options) error {
	const op = "release.compute"

	path := o.cfg.Versioning.VersionFile
	if path == "" || opts.SyncFromFile {
		return nil
	}

	h, err := o.handlers.Find(path)
	if err != nil {
		return nil // no handler for this file type: nothing to cross-check
	}
	content, err := fileutil.ReadFileLimited(path, filehandler.MaxFileSize)
	if err != nil {
		return nil // file missing or unreadable: COMPUTE proceeds from the tag alone
	}
	recorded, ok := h.CurrentVersion(content)
	if !ok {
		return nil
	}
	recordedVersion, err := version.Parse(recorded)
	if err != nil {
		return nil
	}
	if !recordedVersion.Equal(previous) {
		return rperrors.Newf(rperrors.KindVersion, "version file %s records %s but the authoritative tag is %s; pass --sync-from-file to adopt the tag", path, recordedVersion, previous).
			WithCode(rperrors.CodeVersionInvalidFormat)
	}
	return nil
}

// generate produces the changelog fragment and every configured extra
// file's preview via the template processor, aborting on any template
// failure.
func (o *Orchestrator) generate(ctx context.Context, previous, next version.SemanticVersion, changes *commit.ChangeSet) (string, []FilePreview, error) {
	const op = "release.generate"

	notes := changelog.CreateFromChangeSet(next, changes, func(b *changelog.ReleaseNotesBuilder) {
		b.WithTitle(o.cfg.Changelog.ProductName)
	})

	rendered, err := o.tmpl.Render("changelog", struct {
		Version         version.SemanticVersion
		PreviousVersion version.SemanticVersion
		Date            time.Time
		Changes         *commit.Categories
		Summary         string
		Highlights      []string
	}{
		Version: next, PreviousVersion: previous, Date: time.Now(),
		Changes: changes.Categories(), Summary: notes.Summary(), Highlights: notes.Highlights(),
	})
	if err != nil {
		return "", nil, rperrors.TemplateWrap(err, op, "failed to render changelog template")
	}

	previews := make([]FilePreview, 0, 1)
	for path, vf := range o.versionFiles() {
		if !vf.Update {
			continue
		}
		h, err := o.handlers.Find(path)
		if err != nil {
			continue
		}
		content, err := fileutil.ReadFileLimited(path, filehandler.MaxFileSize)
		if err != nil {
			continue
		}
		result, err := h.Preview(content, next.String())
		if err != nil {
			return "", nil, rperrors.TemplateWrap(err, op, fmt.Sprintf("failed to preview %s", path))
		}
		preview := FilePreview{Path: path, Changed: result.Changed}
		if len(result.Preview) > 0 {
			preview.Before = result.Preview[0].Before
			preview.After = result.Preview[0].After
		}
		previews = append(previews, preview)
	}

	return rendered, previews, nil
}

func (o *Orchestrator) versionFiles() map[string]config.VersionFileConfig {
	files := map[string]config.VersionFileConfig{}
	if o.cfg.Versioning.VersionFile != "" {
		files[o.cfg.Versioning.VersionFile] = config.VersionFileConfig{File: o.cfg.Versioning.VersionFile, Update: true}
	}
	return files
}

// mutate acquires a backup then writes the new content for every extra file
// whose preview reported a change, and merges the rendered changelog
// fragment into the configured changelog file.
func (o *Orchestrator) mutate(ctx context.Context, next version.SemanticVersion, changelogEntry string, previews []FilePreview, backups *backup.Manager, runID state.RunID) error {
	const op = "release.mutate"

	if o.cfg.Changelog.File != "" {
		if err := o.writeChangelog(changelogEntry, backups, runID); err != nil {
			return rperrors.IOWrap(err, op, "failed to update changelog file")
		}
	}

	for _, p := range previews {
		if !p.Changed {
			continue
		}
		if err := backups.Capture(p.Path); err != nil {
			return rperrors.IOWrap(err, op, fmt.Sprintf("failed to capture backup of %s", p.Path))
		}

		h, err := o.handlers.Find(p.Path)
		if err != nil {
			return rperrors.NotFoundWrap(err, op, fmt.Sprintf("no file handler for %s", p.Path))
		}
		if _, err := h.Update(o.repoRoot, p.Path, next.String()); err != nil {
			return rperrors.Wrap(err, rperrors.KindIO, op, fmt.Sprintf("failed to update %s", p.Path)).WithCode(rperrors.CodeFileUpdateFailed)
		}

		_ = o.tracker.Record(runID, state.FileWritten(p.Path, p.Path))
	}
	return nil
}

// writeChangelog merges changelogEntry into the configured changelog file,
// capturing a backup first if the file already exists.
func (o *Orchestrator) writeChangelog(changelogEntry string, backups *backup.Manager, runID state.RunID) error {
	path := filepath.Join(o.repoRoot, o.cfg.Changelog.File)

	existing := ""
	created := true
	if content, err := fileutil.ReadFileLimited(path, filehandler.MaxFileSize); err == nil {
		existing = string(content)
		created = false
	}
	if err := backups.Capture(path); err != nil {
		return err
	}

	merged := changelog.MergeSection(existing, changelogEntry)
	if err := fileutil.AtomicWriteFile(path, []byte(merged), 0644); err != nil { // #nosec G306 -- changelog is not sensitive
		return err
	}

	if created {
		_ = o.tracker.Record(runID, state.FileCreated(o.cfg.Changelog.File))
	} else {
		_ = o.tracker.Record(runID, state.FileWritten(o.cfg.Changelog.File, o.cfg.Changelog.File))
	}
	return nil
}

// commitStage stages every modified/created file and performs one commit.
func (o *Orchestrator) commitStage(ctx context.Context, next version.SemanticVersion, previews []FilePreview, runID state.RunID) (string, error) {
	const op = "release.commit"

	paths := make([]string, 0, len(previews))
	for _, p := range previews {
		if p.Changed {
			paths = append(paths, p.Path)
		}
	}
	if o.cfg.Changelog.File != "" {
		paths = append(paths, o.cfg.Changelog.File)
	}
	if len(paths) == 0 {
		return "", nil
	}

	if err := o.git.Stage(ctx, paths); err != nil {
		return "", rperrors.GitWrap(err, op, "failed to stage release files")
	}

	message := fmt.Sprintf("chore(release): v%s", next.String())
	c, err := o.git.Commit(ctx, gitrepo.CommitOptions{Message: message})
	if err != nil {
		return "", rperrors.GitWrap(err, op, "failed to create release commit")
	}

	_ = o.tracker.Record(runID, state.CommitMade(c.Hash))
	return c.Hash, nil
}

// tagStage creates the annotated release tag.
func (o *Orchestrator) tagStage(ctx context.Context, next version.SemanticVersion, runID state.RunID) (string, error) {
	const op = "release.tag"

	tagName := o.cfg.Versioning.TagPrefix + next.String()
	message := fmt.Sprintf("Release %s", next.String())
	if err := o.git.CreateTag(ctx, tagName, message, gitrepo.TagOptions{Annotated: true}); err != nil {
		return "", rperrors.GitWrap(err, op, "failed to create release tag").WithCode(rperrors.CodeGitTagExists)
	}

	_ = o.tracker.Record(runID, state.TagCreated(tagName, o.cfg.Git.DefaultRemote))
	return tagName, nil
}

// publish pushes the branch and tag, then optionally creates a remote
// release entry. Failures here do not roll back local state.
func (o *Orchestrator) publish(ctx context.Context, tagName string, next version.SemanticVersion, changelogEntry string, opts Options) (bool, string, error) {
	const op = "release.publish"

	if !o.cfg.Versioning.GitPush {
		return false, "", nil
	}

	remote := o.cfg.Git.DefaultRemote
	if remote == "" {
		remote = "origin"
	}

	if err := o.git.Push(ctx, gitrepo.PushOptions{Remote: remote}); err != nil {
		return false, "", rperrors.NetworkWrap(err, op, "failed to push release branch")
	}
	if err := o.git.PushTag(ctx, tagName, gitrepo.PushOptions{Remote: remote}); err != nil {
		return true, "", rperrors.NetworkWrap(err, op, "failed to push release tag")
	}

	if opts.Forge == nil {
		return true, "", nil
	}

	res, err := opts.Forge.CreateRelease(ctx, RemoteReleaseRequest{
		Tag:        tagName,
		Title:      fmt.Sprintf("%s %s", o.cfg.Changelog.ProductName, next.String()),
		Body:       changelogEntry,
		Prerelease: next.IsPrerelease(),
	})
	if err != nil {
		return true, "", err
	}
	return true, res.URL, nil
}

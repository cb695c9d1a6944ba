package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	mastersemver "github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	gittransport "github.com/go-git/go-git/v5/plumbing/transport/http"

	rperrors "github.com/nagare-go/nagare/internal/errors"
	"github.com/nagare-go/nagare/internal/security"
)

// errStopIteration signals early termination of a commit log walk.
var errStopIteration = errors.New("stop iteration")

// repoInfoCacheTTL bounds how long repository info is cached before refresh.
const repoInfoCacheTTL = 5 * time.Second

type repoInfoCache struct {
	info      *RepositoryInfo
	expiresAt time.Time
}

// ServiceImpl is the go-git-backed implementation of Service.
type ServiceImpl struct {
	cfg      ServiceConfig
	repo     *git.Repository
	worktree *git.Worktree
	auth     transport.AuthMethod

	repoInfoMu    sync.RWMutex
	repoInfoCache *repoInfoCache
}

var _ Service = (*ServiceImpl)(nil)

// NewService opens the repository at the configured path and returns a ready
// Service. It fails fast (GIT_NOT_REPO) if the path is not a git worktree.
func NewService(opts ...ServiceOption) (*ServiceImpl, error) {
	const op = "gitrepo.NewService"

	cfg := DefaultServiceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	absPath, err := filepath.Abs(cfg.RepoPath)
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to resolve repository path").WithCode(rperrors.CodeGitNotRepo)
	}

	repo, err := git.PlainOpen(absPath)
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "not a git repository").WithCode(rperrors.CodeGitNotRepo)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to get worktree").WithCode(rperrors.CodeGitNotRepo)
	}

	svc := &ServiceImpl{cfg: cfg, repo: repo, worktree: worktree}
	if cfg.AuthToken != "" {
		svc.auth = &gittransport.BasicAuth{Username: "nagare", Password: cfg.AuthToken}
	}

	return svc, nil
}

// GetRepositoryRoot returns the absolute path to the repository root.
func (s *ServiceImpl) GetRepositoryRoot(_ context.Context) (string, error) {
	return s.worktree.Filesystem.Root(), nil
}

// GetRepositoryInfo returns information about the repository, cached briefly
// to avoid repeated syscalls during a single release run.
func (s *ServiceImpl) GetRepositoryInfo(ctx context.Context) (*RepositoryInfo, error) {
	s.repoInfoMu.RLock()
	if s.repoInfoCache != nil && time.Now().Before(s.repoInfoCache.expiresAt) {
		info := s.repoInfoCache.info
		s.repoInfoMu.RUnlock()
		return info, nil
	}
	s.repoInfoMu.RUnlock()

	info, err := s.fetchRepositoryInfo(ctx)
	if err != nil {
		return nil, err
	}

	s.repoInfoMu.Lock()
	s.repoInfoCache = &repoInfoCache{info: info, expiresAt: time.Now().Add(repoInfoCacheTTL)}
	s.repoInfoMu.Unlock()

	return info, nil
}

// InvalidateRepoInfoCache forces GetRepositoryInfo to refetch on next call.
// Call after any operation that mutates repository state (tag, commit, reset).
func (s *ServiceImpl) InvalidateRepoInfoCache() {
	s.repoInfoMu.Lock()
	s.repoInfoCache = nil
	s.repoInfoMu.Unlock()
}

func (s *ServiceImpl) fetchRepositoryInfo(ctx context.Context) (*RepositoryInfo, error) {
	const op = "gitrepo.GetRepositoryInfo"

	root, err := s.GetRepositoryRoot(ctx)
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to get repository root")
	}

	branch, err := s.GetCurrentBranch(ctx)
	if err != nil {
		branch = ""
	}

	defaultBranch, err := s.GetDefaultBranch(ctx)
	if err != nil {
		defaultBranch = "main"
	}

	clean, err := s.IsClean(ctx)
	if err != nil {
		clean = false
	}

	head, err := s.GetHeadCommit(ctx)
	headHash := ""
	if err == nil {
		headHash = head.Hash
	}

	remotes, err := s.repo.Remotes()
	if err != nil {
		remotes = nil
	}

	remoteInfos := make([]RemoteInfo, 0, len(remotes))
	for _, remote := range remotes {
		rc := remote.Config()
		info := RemoteInfo{Name: rc.Name}
		if len(rc.URLs) > 0 {
			info.URL = rc.URLs[0]
		}
		remoteInfos = append(remoteInfos, info)
	}

	return &RepositoryInfo{
		Root:          root,
		CurrentBranch: branch,
		DefaultBranch: defaultBranch,
		Remotes:       remoteInfos,
		IsDirty:       !clean,
		HeadCommit:    headHash,
	}, nil
}

// IsClean returns true if the working tree has no uncommitted changes.
func (s *ServiceImpl) IsClean(_ context.Context) (bool, error) {
	const op = "gitrepo.IsClean"

	status, err := s.worktree.Status()
	if err != nil {
		return false, rperrors.GitWrap(err, op, "failed to get worktree status")
	}

	return status.IsClean(), nil
}

// GetCommit returns a specific commit by hash.
func (s *ServiceImpl) GetCommit(_ context.Context, hash string) (*Commit, error) {
	const op = "gitrepo.GetCommit"

	obj, err := s.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to get commit")
	}

	return convertCommit(obj), nil
}

// GetCommitsSince returns all commits since (exclusive) the given reference,
// up to HEAD. An empty ref means there is no prior release tag yet, and
// every reachable commit is included.
func (s *ServiceImpl) GetCommitsSince(ctx context.Context, ref string) ([]Commit, error) {
	const op = "gitrepo.GetCommitsSince"

	refHash := plumbing.ZeroHash
	if ref != "" {
		var err error
		refHash, err = s.resolveRef(ref)
		if err != nil {
			return nil, rperrors.GitWrap(err, op, fmt.Sprintf("failed to resolve reference %s", ref)).WithCode(rperrors.CodeGitRemoteError)
		}
	}

	head, err := s.repo.Head()
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to get HEAD")
	}

	return s.getCommitsBetweenHashes(ctx, refHash, head.Hash())
}

// GetCommitsBetween returns all commits between two references (from exclusive, to inclusive).
func (s *ServiceImpl) GetCommitsBetween(ctx context.Context, from, to string) ([]Commit, error) {
	const op = "gitrepo.GetCommitsBetween"

	fromHash, err := s.resolveRef(from)
	if err != nil {
		return nil, rperrors.GitWrap(err, op, fmt.Sprintf("failed to resolve from reference %s", from))
	}

	toHash, err := s.resolveRef(to)
	if err != nil {
		return nil, rperrors.GitWrap(err, op, fmt.Sprintf("failed to resolve to reference %s", to))
	}

	return s.getCommitsBetweenHashes(ctx, fromHash, toHash)
}

func (s *ServiceImpl) getCommitsBetweenHashes(ctx context.Context, from, to plumbing.Hash) ([]Commit, error) {
	const op = "gitrepo.getCommitsBetweenHashes"
	const estimatedCommits = 50

	iter, err := s.repo.Log(&git.LogOptions{From: to, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to get log iterator")
	}
	defer iter.Close()

	commits := make([]Commit, 0, estimatedCommits)
	err = iter.ForEach(func(c *object.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if c.Hash == from {
			return errStopIteration
		}
		commits = append(commits, *convertCommit(c))
		return nil
	})
	if err != nil && !errors.Is(err, errStopIteration) {
		if ctx.Err() != nil {
			return nil, rperrors.GitWrap(ctx.Err(), op, "operation canceled").WithCode(rperrors.CodeOpCancelled)
		}
		return nil, rperrors.GitWrap(err, op, "failed to iterate commits")
	}

	return commits, nil
}

// GetHeadCommit returns the current HEAD commit.
func (s *ServiceImpl) GetHeadCommit(_ context.Context) (*Commit, error) {
	const op = "gitrepo.GetHeadCommit"

	head, err := s.repo.Head()
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to get HEAD").WithCode(rperrors.CodeGitNoCommits)
	}

	commit, err := s.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to get HEAD commit")
	}

	return convertCommit(commit), nil
}

// GetLatestTag returns the most recent tag by date.
func (s *ServiceImpl) GetLatestTag(ctx context.Context) (*Tag, error) {
	tags, err := s.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, rperrors.NotFound("gitrepo.GetLatestTag", "no tags found")
	}
	return &tags[0], nil
}

// GetLatestVersionTag returns the highest semver tag matching the prefix.
func (s *ServiceImpl) GetLatestVersionTag(ctx context.Context, prefix string) (*Tag, error) {
	tags, err := s.ListVersionTags(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, rperrors.NotFound("gitrepo.GetLatestVersionTag", "no version tags found").WithCode(rperrors.CodeVersionNotFound)
	}
	return &tags[0], nil
}

// ListTags returns all tags, newest first by date.
func (s *ServiceImpl) ListTags(ctx context.Context) ([]Tag, error) {
	const op = "gitrepo.ListTags"
	const estimatedTags = 20

	tags := make([]Tag, 0, estimatedTags)

	iter, err := s.repo.Tags()
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to get tags iterator")
	}
	defer iter.Close()

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		tag, convErr := s.convertTagRef(ref)
		if convErr != nil {
			return convErr
		}
		tags = append(tags, *tag)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, rperrors.GitWrap(ctx.Err(), op, "operation canceled").WithCode(rperrors.CodeOpCancelled)
		}
		return nil, rperrors.GitWrap(err, op, "failed to iterate tags")
	}

	sort.Slice(tags, func(i, j int) bool { return tags[i].Date.After(tags[j].Date) })

	return tags, nil
}

type versionTagEntry struct {
	tag     Tag
	version *mastersemver.Version
}

// ListVersionTags returns tags matching prefix, parsed and sorted as semver
// (newest first), silently skipping tags whose suffix isn't a valid version.
func (s *ServiceImpl) ListVersionTags(ctx context.Context, prefix string) ([]Tag, error) {
	allTags, err := s.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]versionTagEntry, 0, len(allTags))
	for _, tag := range allTags {
		if prefix != "" && !strings.HasPrefix(tag.Name, prefix) {
			continue
		}
		versionStr := strings.TrimPrefix(tag.Name, prefix)
		if v, err := mastersemver.NewVersion(versionStr); err == nil {
			entries = append(entries, versionTagEntry{tag: tag, version: v})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].version.GreaterThan(entries[j].version) })

	versionTags := make([]Tag, len(entries))
	for i, e := range entries {
		versionTags[i] = e.tag
	}

	return versionTags, nil
}

// GetTag returns a specific tag by name.
func (s *ServiceImpl) GetTag(_ context.Context, name string) (*Tag, error) {
	const op = "gitrepo.GetTag"

	ref, err := s.repo.Tag(name)
	if err != nil {
		return nil, rperrors.Git(op, fmt.Sprintf("tag not found: %s", name)).WithCode(rperrors.CodeVersionNotFound)
	}

	return s.convertTagRef(ref)
}

// CreateTag creates a lightweight or annotated tag at opts.Ref (default HEAD).
func (s *ServiceImpl) CreateTag(_ context.Context, name, message string, opts TagOptions) error {
	const op = "gitrepo.CreateTag"

	if err := security.ValidateGitRef(name); err != nil {
		return rperrors.GitWrap(err, op, "invalid tag name").WithCode(rperrors.CodeSecInvalidRef)
	}

	if _, err := s.repo.Tag(name); err == nil {
		return rperrors.Git(op, fmt.Sprintf("tag %s already exists", name)).WithCode(rperrors.CodeGitTagExists)
	}

	ref := opts.Ref
	if ref == "" {
		ref = "HEAD"
	}

	hash, err := s.resolveRef(ref)
	if err != nil {
		return rperrors.GitWrap(err, op, fmt.Sprintf("failed to resolve reference %s", ref))
	}

	if opts.Annotated {
		_, err = s.repo.CreateTag(name, hash, &git.CreateTagOptions{
			Message: message,
			Tagger:  &object.Signature{Name: "nagare", Email: "nagare@localhost", When: time.Now()},
		})
	} else {
		err = s.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewTagReferenceName(name), hash))
	}
	if err != nil {
		return rperrors.GitWrap(err, op, fmt.Sprintf("failed to create tag %s", name))
	}

	s.InvalidateRepoInfoCache()

	return nil
}

// DeleteTag deletes a local tag.
func (s *ServiceImpl) DeleteTag(_ context.Context, name string) error {
	const op = "gitrepo.DeleteTag"

	if err := s.repo.Storer.RemoveReference(plumbing.NewTagReferenceName(name)); err != nil {
		return rperrors.GitWrap(err, op, fmt.Sprintf("failed to delete tag %s", name))
	}

	s.InvalidateRepoInfoCache()

	return nil
}

// PushTag pushes a single tag to the remote.
func (s *ServiceImpl) PushTag(ctx context.Context, name string, opts PushOptions) error {
	const op = "gitrepo.PushTag"

	if opts.DryRun {
		return nil
	}

	remote := opts.Remote
	if remote == "" {
		remote = s.cfg.DefaultRemote
	}

	refSpec := gitconfig.RefSpec(fmt.Sprintf("refs/tags/%s:refs/tags/%s", name, name))

	if s.cfg.UseCLIFallback {
		return s.pushViaCLI(ctx, remote, string(refSpec), opts.Force)
	}

	err := s.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []gitconfig.RefSpec{refSpec},
		Auth:       s.auth,
		Force:      opts.Force,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return rperrors.GitWrap(err, op, fmt.Sprintf("failed to push tag %s", name)).WithCode(rperrors.CodeGitRemoteError)
	}

	return nil
}

// GetCurrentBranch returns the current branch name, erroring on detached HEAD.
func (s *ServiceImpl) GetCurrentBranch(_ context.Context) (string, error) {
	const op = "gitrepo.GetCurrentBranch"

	head, err := s.repo.Head()
	if err != nil {
		return "", rperrors.GitWrap(err, op, "failed to get HEAD")
	}
	if !head.Name().IsBranch() {
		return "", rperrors.Git(op, "HEAD is not on a branch (detached HEAD)")
	}

	return head.Name().Short(), nil
}

// GetDefaultBranch returns the remote HEAD's target branch, falling back to
// main/master, then "main".
func (s *ServiceImpl) GetDefaultBranch(_ context.Context) (string, error) {
	remote, err := s.repo.Remote(s.cfg.DefaultRemote)
	if err == nil {
		refs, err := remote.List(&git.ListOptions{Auth: s.auth})
		if err == nil {
			for _, ref := range refs {
				if ref.Name() == plumbing.HEAD && ref.Target().IsBranch() {
					return ref.Target().Short(), nil
				}
			}
		}
	}

	for _, name := range []string{"main", "master"} {
		if ref, err := s.repo.Reference(plumbing.NewBranchReferenceName(name), true); err == nil && ref != nil {
			return name, nil
		}
	}

	return "main", nil
}

// GetRemoteURL returns the URL of the specified remote.
func (s *ServiceImpl) GetRemoteURL(_ context.Context, name string) (string, error) {
	const op = "gitrepo.GetRemoteURL"

	remote, err := s.repo.Remote(name)
	if err != nil {
		return "", rperrors.GitWrap(err, op, fmt.Sprintf("failed to get remote %s", name))
	}

	cfg := remote.Config()
	if len(cfg.URLs) == 0 {
		return "", rperrors.NotFound(op, fmt.Sprintf("remote %s has no URLs", name))
	}

	return cfg.URLs[0], nil
}

// Push pushes the current branch (and optionally a refspec) to the remote.
func (s *ServiceImpl) Push(ctx context.Context, opts PushOptions) error {
	const op = "gitrepo.Push"

	if opts.DryRun {
		return nil
	}

	remote := opts.Remote
	if remote == "" {
		remote = s.cfg.DefaultRemote
	}

	if s.cfg.UseCLIFallback {
		return s.pushViaCLI(ctx, remote, opts.RefSpec, opts.Force)
	}

	pushOpts := &git.PushOptions{RemoteName: remote, Auth: s.auth, Force: opts.Force}
	if opts.RefSpec != "" {
		pushOpts.RefSpecs = []gitconfig.RefSpec{gitconfig.RefSpec(opts.RefSpec)}
	}

	if err := s.repo.PushContext(ctx, pushOpts); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return rperrors.GitWrap(err, op, "failed to push").WithCode(rperrors.CodeGitRemoteError)
	}

	return nil
}

// pushViaCLI shells out to the git binary, validating every argv element
// through internal/security first since this is the one sanctioned subprocess
// spawn in this package.
func (s *ServiceImpl) pushViaCLI(ctx context.Context, remote, refSpec string, force bool) error {
	const op = "gitrepo.pushViaCLI"

	args := []string{"push"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, remote)
	if refSpec != "" {
		args = append(args, refSpec)
	}

	if err := security.ValidateCLIArgs(args); err != nil {
		return rperrors.GitWrap(err, op, "refusing to run git push with unsafe arguments").WithCode(rperrors.CodeSecShellInjection)
	}

	root, err := s.GetRepositoryRoot(ctx)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = root
	if out, err := cmd.CombinedOutput(); err != nil {
		return rperrors.GitWrap(fmt.Errorf("%w: %s", err, rperrors.RedactSensitive(string(out))), op, "git push failed").WithCode(rperrors.CodeGitRemoteError)
	}

	return nil
}

// Fetch fetches refs (and optionally tags) from the remote.
func (s *ServiceImpl) Fetch(ctx context.Context, opts FetchOptions) error {
	const op = "gitrepo.Fetch"

	remote := opts.Remote
	if remote == "" {
		remote = s.cfg.DefaultRemote
	}

	fetchOpts := &git.FetchOptions{RemoteName: remote, Auth: s.auth, Prune: opts.Prune}
	if opts.Tags {
		fetchOpts.Tags = git.AllTags
	}

	if err := s.repo.FetchContext(ctx, fetchOpts); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return rperrors.GitWrap(err, op, "failed to fetch").WithCode(rperrors.CodeGitRemoteError)
	}

	return nil
}

// GetDiffStats returns insertion/deletion statistics between two refs.
func (s *ServiceImpl) GetDiffStats(_ context.Context, from, to string) (*DiffStats, error) {
	const op = "gitrepo.GetDiffStats"

	fromHash, err := s.resolveRef(from)
	if err != nil {
		return nil, rperrors.GitWrap(err, op, fmt.Sprintf("failed to resolve from reference %s", from))
	}
	toHash, err := s.resolveRef(to)
	if err != nil {
		return nil, rperrors.GitWrap(err, op, fmt.Sprintf("failed to resolve to reference %s", to))
	}

	fromCommit, err := s.repo.CommitObject(fromHash)
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to get from commit")
	}
	toCommit, err := s.repo.CommitObject(toHash)
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to get to commit")
	}

	fromTree, err := fromCommit.Tree()
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to get from tree")
	}
	toTree, err := toCommit.Tree()
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to get to tree")
	}

	changes, err := fromTree.Diff(toTree)
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to compute diff")
	}

	stats := &DiffStats{FilesChanged: len(changes)}
	for _, change := range changes {
		patch, err := change.Patch()
		if err != nil {
			continue
		}
		for _, fileStat := range patch.Stats() {
			stats.Insertions += fileStat.Addition
			stats.Deletions += fileStat.Deletion
			stats.Files = append(stats.Files, FileStats{
				Path: fileStat.Name, Insertions: fileStat.Addition, Deletions: fileStat.Deletion,
			})
		}
	}

	return stats, nil
}

// Stage adds the given paths (relative to the repository root) to the index.
func (s *ServiceImpl) Stage(_ context.Context, paths []string) error {
	const op = "gitrepo.Stage"

	for _, p := range paths {
		if _, err := s.worktree.Add(p); err != nil {
			return rperrors.GitWrap(err, op, fmt.Sprintf("failed to stage %s", p))
		}
	}

	return nil
}

// Commit creates a new commit from the currently staged changes.
func (s *ServiceImpl) Commit(_ context.Context, opts CommitOptions) (*Commit, error) {
	const op = "gitrepo.Commit"

	commitOpts := &git.CommitOptions{AllowEmptyCommits: opts.AllowEmpty}
	if opts.Author != nil {
		commitOpts.Author = &object.Signature{Name: opts.Author.Name, Email: opts.Author.Email, When: time.Now()}
	} else {
		commitOpts.Author = &object.Signature{Name: "nagare", Email: "nagare@localhost", When: time.Now()}
	}

	hash, err := s.worktree.Commit(opts.Message, commitOpts)
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to create commit")
	}

	s.InvalidateRepoInfoCache()

	commitObj, err := s.repo.CommitObject(hash)
	if err != nil {
		return nil, rperrors.GitWrap(err, op, "failed to read back created commit")
	}

	return convertCommit(commitObj), nil
}

// ResetHard resets the working tree and index to ref, discarding local changes.
// Used exclusively by the rollback orchestrator (C11).
func (s *ServiceImpl) ResetHard(_ context.Context, ref string) error {
	const op = "gitrepo.ResetHard"

	hash, err := s.resolveRef(ref)
	if err != nil {
		return rperrors.GitWrap(err, op, fmt.Sprintf("failed to resolve reference %s", ref))
	}

	if err := s.worktree.Reset(&git.ResetOptions{Commit: hash, Mode: git.HardReset}); err != nil {
		return rperrors.GitWrap(err, op, "failed to hard reset")
	}

	s.InvalidateRepoInfoCache()

	return nil
}

func (s *ServiceImpl) resolveRef(ref string) (plumbing.Hash, error) {
	if plumbing.IsHash(ref) {
		return plumbing.NewHash(ref), nil
	}

	resolved, err := s.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve reference %s: %w", ref, err)
	}

	return *resolved, nil
}

func convertCommit(c *object.Commit) *Commit {
	subject, body := splitMessage(c.Message)

	parents := make([]string, 0, len(c.ParentHashes))
	for _, parent := range c.ParentHashes {
		parents = append(parents, parent.String())
	}

	hashStr := c.Hash.String()
	shortHash := hashStr
	if len(hashStr) > 7 {
		shortHash = hashStr[:7]
	}

	return &Commit{
		Hash:      hashStr,
		ShortHash: shortHash,
		Message:   c.Message,
		Subject:   subject,
		Body:      body,
		Author:    Author{Name: c.Author.Name, Email: c.Author.Email},
		Committer: Author{Name: c.Committer.Name, Email: c.Committer.Email},
		Date:      c.Author.When,
		Parents:   parents,
	}
}

func (s *ServiceImpl) convertTagRef(ref *plumbing.Reference) (*Tag, error) {
	tag := &Tag{Name: ref.Name().Short(), Hash: ref.Hash().String()}

	tagObj, err := s.repo.TagObject(ref.Hash())
	if err == nil {
		tag.Message = tagObj.Message
		tag.IsAnnotated = true
		tag.Date = tagObj.Tagger.When
		tag.Tagger = &Author{Name: tagObj.Tagger.Name, Email: tagObj.Tagger.Email}
		if commit, err := tagObj.Commit(); err == nil {
			tag.Hash = commit.Hash.String()
		}
		return tag, nil
	}

	if commit, err := s.repo.CommitObject(ref.Hash()); err == nil {
		tag.Date = commit.Author.When
	} else {
		tag.Date = time.Now()
	}

	return tag, nil
}

func splitMessage(message string) (subject, body string) {
	lines := strings.SplitN(strings.TrimSpace(message), "\n", 2)
	subject = strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		body = strings.TrimSpace(lines[1])
	}
	return subject, body
}

package gitrepo

import "context"

// Service defines the git operations the release orchestrator depends on.
// It deliberately excludes conventional-commit parsing (see internal/commit) —
// this interface is the thin C2 "repository" boundary, not a changes analyzer.
type Service interface {
	GetRepositoryRoot(ctx context.Context) (string, error)
	GetRepositoryInfo(ctx context.Context) (*RepositoryInfo, error)
	IsClean(ctx context.Context) (bool, error)

	GetCommit(ctx context.Context, hash string) (*Commit, error)
	GetCommitsSince(ctx context.Context, ref string) ([]Commit, error)
	GetCommitsBetween(ctx context.Context, from, to string) ([]Commit, error)
	GetHeadCommit(ctx context.Context) (*Commit, error)

	GetLatestTag(ctx context.Context) (*Tag, error)
	GetLatestVersionTag(ctx context.Context, prefix string) (*Tag, error)
	ListTags(ctx context.Context) ([]Tag, error)
	ListVersionTags(ctx context.Context, prefix string) ([]Tag, error)
	GetTag(ctx context.Context, name string) (*Tag, error)
	CreateTag(ctx context.Context, name, message string, opts TagOptions) error
	DeleteTag(ctx context.Context, name string) error
	PushTag(ctx context.Context, name string, opts PushOptions) error

	GetCurrentBranch(ctx context.Context) (string, error)
	GetDefaultBranch(ctx context.Context) (string, error)

	GetRemoteURL(ctx context.Context, name string) (string, error)
	Push(ctx context.Context, opts PushOptions) error
	Fetch(ctx context.Context, opts FetchOptions) error

	GetDiffStats(ctx context.Context, from, to string) (*DiffStats, error)

	// Stage stages the given paths (relative to the repository root) for commit.
	Stage(ctx context.Context, paths []string) error

	// Commit creates a new commit from the currently staged changes.
	Commit(ctx context.Context, opts CommitOptions) (*Commit, error)

	// ResetHard performs a hard reset of the working tree to ref, used by rollback.
	ResetHard(ctx context.Context, ref string) error
}

// ServiceConfig configures the git service.
type ServiceConfig struct {
	RepoPath      string
	DefaultRemote string
	// AuthToken, when set, is used as HTTP basic-auth password for push/fetch
	// against https remotes (GitHub/GitLab personal-access-token convention).
	AuthToken string
	// UseCLIFallback shells out to the git binary for push operations instead
	// of go-git's native transport, for credential-helper setups go-git can't
	// reproduce. Off by default; every argv it builds is validated by
	// internal/security before being passed to exec.Command.
	UseCLIFallback bool
}

// DefaultServiceConfig returns the default service configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{RepoPath: ".", DefaultRemote: "origin"}
}

// ServiceOption configures the git service.
type ServiceOption func(*ServiceConfig)

// WithRepoPath sets the repository path.
func WithRepoPath(path string) ServiceOption {
	return func(cfg *ServiceConfig) { cfg.RepoPath = path }
}

// WithDefaultRemote sets the default remote.
func WithDefaultRemote(remote string) ServiceOption {
	return func(cfg *ServiceConfig) { cfg.DefaultRemote = remote }
}

// WithAuthToken configures HTTP basic-auth token for push/fetch.
func WithAuthToken(token string) ServiceOption {
	return func(cfg *ServiceConfig) { cfg.AuthToken = token }
}

// WithCLIFallback enables the subprocess push fallback path.
func WithCLIFallback(enabled bool) ServiceOption {
	return func(cfg *ServiceConfig) { cfg.UseCLIFallback = enabled }
}

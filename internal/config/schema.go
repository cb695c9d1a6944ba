// Package config provides configuration management for nagare.
package config

import (
	"time"
)

// Config is the root configuration for nagare.
type Config struct {
	// Versioning configures version management.
	Versioning VersioningConfig `mapstructure:"versioning" json:"versioning"`
	// Git configures git operations and authentication.
	Git GitConfig `mapstructure:"git" json:"git"`
	// Changelog configures changelog generation.
	Changelog ChangelogConfig `mapstructure:"changelog" json:"changelog"`
	// Workflow configures the release workflow.
	Workflow WorkflowConfig `mapstructure:"workflow" json:"workflow"`
	// Output configures output settings.
	Output OutputConfig `mapstructure:"output" json:"output"`
}

// VersioningConfig configures version management.
type VersioningConfig struct {
	// Strategy is the versioning strategy (conventional, manual).
	Strategy string `mapstructure:"strategy" json:"strategy"`
	// TagPrefix is the prefix for version tags (default: "v").
	TagPrefix string `mapstructure:"tag_prefix" json:"tag_prefix"`
	// GitTag indicates whether to create a git tag.
	GitTag bool `mapstructure:"git_tag" json:"git_tag"`
	// GitPush indicates whether to push the tag to remote.
	GitPush bool `mapstructure:"git_push" json:"git_push"`
	// GitSign indicates whether to sign the tag with GPG.
	GitSign bool `mapstructure:"git_sign" json:"git_sign"`
	// PrereleaseSuffix is the suffix for prerelease versions (e.g., "alpha", "beta", "rc").
	PrereleaseSuffix string `mapstructure:"prerelease_suffix" json:"prerelease_suffix,omitempty"`
	// BuildMetadata is optional build metadata to append to the version.
	BuildMetadata string `mapstructure:"build_metadata" json:"build_metadata,omitempty"`
	// BumpFrom specifies where to read the current version from (tag, file, package.json).
	BumpFrom string `mapstructure:"bump_from" json:"bump_from"`
	// VersionFile is the file to update with the new version (if BumpFrom is "file").
	VersionFile string `mapstructure:"version_file" json:"version_file,omitempty"`
}

// GitConfig configures git operations and authentication.
type GitConfig struct {
	// DefaultRemote is the default remote name (default: "origin").
	DefaultRemote string `mapstructure:"default_remote" json:"default_remote,omitempty"`
	// UseCLIFallback enables falling back to git CLI when go-git fails.
	// This is useful for authentication with credential helpers (default: true).
	UseCLIFallback *bool `mapstructure:"use_cli_fallback" json:"use_cli_fallback,omitempty"`
	// Auth configures git authentication.
	Auth GitAuthConfig `mapstructure:"auth" json:"auth,omitempty"`
}

// GitAuthConfig configures git authentication.
type GitAuthConfig struct {
	// Type is the authentication type: "auto" (default), "token", "ssh", "basic".
	// "auto" uses system credential helpers via git CLI fallback.
	// "token" uses a personal access token for HTTPS authentication.
	// "ssh" uses SSH key authentication.
	// "basic" uses username/password authentication.
	Type string `mapstructure:"type" json:"type,omitempty"`
	// Token is the personal access token for HTTPS auth (can use env var expansion).
	// Used when Type is "token" or for GitHub/GitLab APIs.
	Token string `mapstructure:"token" json:"token,omitempty"`
	// Username is the username for basic auth.
	Username string `mapstructure:"username" json:"username,omitempty"`
	// Password is the password for basic auth (can use env var expansion).
	Password string `mapstructure:"password" json:"password,omitempty"`
	// SSHKeyPath is the path to the SSH private key file.
	SSHKeyPath string `mapstructure:"ssh_key_path" json:"ssh_key_path,omitempty"`
	// SSHKeyPassword is the password for the SSH key (can use env var expansion).
	SSHKeyPassword string `mapstructure:"ssh_key_password" json:"ssh_key_password,omitempty"`
}

// UseCLI returns whether to use CLI fallback (defaults to true).
func (g *GitConfig) UseCLI() bool {
	if g.UseCLIFallback == nil {
		return true
	}
	return *g.UseCLIFallback
}

// ChangelogConfig configures changelog generation.
type ChangelogConfig struct {
	// File is the changelog file path.
	File string `mapstructure:"file" json:"file"`
	// Format is the changelog format (keep-a-changelog, conventional, custom).
	Format string `mapstructure:"format" json:"format"`
	// ProductName is the product name for display in changelogs.
	ProductName string `mapstructure:"product_name" json:"product_name,omitempty"`
	// GroupBy specifies how to group changes (type, scope, none).
	GroupBy string `mapstructure:"group_by" json:"group_by"`
	// Template is a custom template file path.
	Template string `mapstructure:"template" json:"template,omitempty"`
	// IncludeCommitHash includes commit hashes in the changelog.
	IncludeCommitHash bool `mapstructure:"include_commit_hash" json:"include_commit_hash"`
	// IncludeAuthor includes author information in the changelog.
	IncludeAuthor bool `mapstructure:"include_author" json:"include_author"`
	// IncludeDate includes dates in the changelog.
	IncludeDate bool `mapstructure:"include_date" json:"include_date"`
	// LinkCommits links commit hashes to the repository.
	LinkCommits bool `mapstructure:"link_commits" json:"link_commits"`
	// LinkIssues links issue references to the issue tracker.
	LinkIssues bool `mapstructure:"link_issues" json:"link_issues"`
	// RepositoryURL is the repository URL for linking.
	RepositoryURL string `mapstructure:"repository_url" json:"repository_url,omitempty"`
	// IssueURL is the issue tracker URL pattern.
	IssueURL string `mapstructure:"issue_url" json:"issue_url,omitempty"`
	// Exclude lists commit types to exclude from the changelog.
	Exclude []string `mapstructure:"exclude" json:"exclude,omitempty"`
	// Categories customizes category labels for commit types.
	Categories map[string]string `mapstructure:"categories" json:"categories,omitempty"`
}

// WorkflowConfig configures the release workflow.
type WorkflowConfig struct {
	// RequireApproval requires manual approval before publishing.
	RequireApproval bool `mapstructure:"require_approval" json:"require_approval"`
	// AllowedBranches restricts releases to specific branches.
	AllowedBranches []string `mapstructure:"allowed_branches" json:"allowed_branches,omitempty"`
	// RequireCleanWorkingTree requires no uncommitted changes.
	RequireCleanWorkingTree bool `mapstructure:"require_clean_working_tree" json:"require_clean_working_tree"`
	// RequireUpToDate requires the branch to be up-to-date with remote.
	RequireUpToDate bool `mapstructure:"require_up_to_date" json:"require_up_to_date"`
	// DryRunByDefault runs in dry-run mode by default.
	DryRunByDefault bool `mapstructure:"dry_run_by_default" json:"dry_run_by_default"`
	// AutoCommitChangelog automatically commits changelog changes.
	AutoCommitChangelog bool `mapstructure:"auto_commit_changelog" json:"auto_commit_changelog"`
	// ChangelogCommitMessage is the commit message for changelog updates.
	ChangelogCommitMessage string `mapstructure:"changelog_commit_message" json:"changelog_commit_message,omitempty"`
	// PreReleaseHook is a command to run before the release.
	PreReleaseHook string `mapstructure:"pre_release_hook" json:"pre_release_hook,omitempty"`
	// PostReleaseHook is a command to run after the release.
	PostReleaseHook string `mapstructure:"post_release_hook" json:"post_release_hook,omitempty"`
	// PreflightChecks are additional commands PREFLIGHT runs before COMPUTE.
	PreflightChecks []PreflightCheckConfig `mapstructure:"preflight_checks" json:"preflight_checks,omitempty"`
	// Forge configures how PUBLISH creates a remote release entry.
	Forge ForgeConfig `mapstructure:"forge" json:"forge,omitempty"`
}

// PreflightCheckConfig describes one external tool or repository-state
// check the orchestrator runs (and optionally repairs) during PREFLIGHT.
type PreflightCheckConfig struct {
	// Name identifies the check for reporting.
	Name string `mapstructure:"name" json:"name"`
	// Command is the argv to run; a non-zero exit counts as a failure.
	Command []string `mapstructure:"command" json:"command"`
	// Fixable marks a check whose failure can be auto-repaired by FixedBy.
	Fixable bool `mapstructure:"fixable" json:"fixable,omitempty"`
	// FixedBy is the argv to run to repair a failed check, then re-run it.
	FixedBy []string `mapstructure:"fixed_by" json:"fixed_by,omitempty"`
	// Optional checks are reported but never fail PREFLIGHT.
	Optional bool `mapstructure:"optional" json:"optional,omitempty"`
}

// ForgeConfig configures the subprocess used to create a remote release
// entry (e.g. `gh release create`, `glab release create`).
type ForgeConfig struct {
	// Command is the argv template, with %TAG%/%TITLE%/%BODY%/%PRERELEASE%
	// substituted per-argument before exec.
	Command []string `mapstructure:"command" json:"command,omitempty"`
	// TimeoutSeconds bounds the command; zero uses the package default.
	TimeoutSeconds int `mapstructure:"timeout_seconds" json:"timeout_seconds,omitempty"`
}

// OutputConfig configures output settings.
type OutputConfig struct {
	// Format is the output format (text, json, yaml).
	Format string `mapstructure:"format" json:"format"`
	// Color enables colored output.
	Color bool `mapstructure:"color" json:"color"`
	// Verbose enables verbose output.
	Verbose bool `mapstructure:"verbose" json:"verbose"`
	// Quiet suppresses non-essential output.
	Quiet bool `mapstructure:"quiet" json:"quiet"`
	// LogFile is the path to a log file.
	LogFile string `mapstructure:"log_file" json:"log_file,omitempty"`
	// LogLevel is the log level (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" json:"log_level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	useCLIFallback := true
	return &Config{
		Versioning: VersioningConfig{
			Strategy:  "conventional",
			TagPrefix: "v",
			GitTag:    true,
			GitPush:   true,
			GitSign:   false,
			BumpFrom:  "tag",
		},
		Git: GitConfig{
			DefaultRemote:  "origin",
			UseCLIFallback: &useCLIFallback,
			Auth: GitAuthConfig{
				Type: "auto", // Use system credential helpers via git CLI
			},
		},
		Changelog: ChangelogConfig{
			File:              "CHANGELOG.md",
			Format:            "keep-a-changelog",
			GroupBy:           "type",
			IncludeCommitHash: true,
			IncludeAuthor:     false,
			IncludeDate:       true,
			LinkCommits:       false, // Auto-enabled if repository_url is detected from git
			LinkIssues:        false, // Must be explicitly enabled with issue_url
			Exclude:           []string{"chore", "ci", "docs", "style", "test"},
			Categories: map[string]string{
				"feat":     "Features",
				"fix":      "Bug Fixes",
				"perf":     "Performance Improvements",
				"refactor": "Code Refactoring",
				"revert":   "Reverts",
				"build":    "Build System",
			},
		},
		Workflow: WorkflowConfig{
			RequireApproval:         true,
			AllowedBranches:         []string{"main", "master"},
			RequireCleanWorkingTree: true,
			RequireUpToDate:         false,
			DryRunByDefault:         false,
			AutoCommitChangelog:     true,
			ChangelogCommitMessage:  "chore(release): update changelog for ${version}",
		},
		Output: OutputConfig{
			Format:   "text",
			Color:    true,
			Verbose:  false,
			Quiet:    false,
			LogLevel: "info",
		},
	}
}

// VersionFileConfig configures how to detect and update version files.
type VersionFileConfig struct {
	// File is the version file name (e.g., "package.json", "Cargo.toml").
	File string `mapstructure:"file" json:"file"`
	// Files is a list of version file names to check (for types with multiple options).
	// Example for Python: ["setup.py", "pyproject.toml", "__version__.py"]
	Files []string `mapstructure:"files" json:"files,omitempty"`
	// Field is the field name containing the version (e.g., "version").
	Field string `mapstructure:"field" json:"field,omitempty"`
	// Pattern is a regex pattern to match and extract version.
	// Used for files without structured format (e.g., __version__.py).
	Pattern string `mapstructure:"pattern" json:"pattern,omitempty"`
	// Update indicates whether to update the version in this file.
	// Set to false for formats that use git tags only (like go.mod).
	Update bool `mapstructure:"update" json:"update"`
	// UpdateFormat is a template for how to write the version.
	// Example: "__version__ = '{{.Version}}'"
	UpdateFormat string `mapstructure:"update_format" json:"update_format,omitempty"`
}

// ConfigFileNames to search for.
// Only .nagare.{yaml,yml,json,toml} is supported for consistency
// with Go ecosystem conventions (.goreleaser.yaml, .golangci.yml, etc.).
var ConfigFileNames = []string{
	".nagare",
}

// ConfigFileExtensions supported by Viper.
var ConfigFileExtensions = []string{
	"yaml",
	"yml",
	"json",
	"toml",
}

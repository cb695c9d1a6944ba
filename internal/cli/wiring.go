package cli

import (
	"context"
	"fmt"

	"github.com/nagare-go/nagare/internal/filehandler"
	"github.com/nagare-go/nagare/internal/gitrepo"
	"github.com/nagare-go/nagare/internal/release"
	"github.com/nagare-go/nagare/internal/state"
	"github.com/nagare-go/nagare/internal/template"
)

func newGitClient() (*gitrepo.ServiceImpl, error) {
	return gitrepo.NewService(
		gitrepo.WithDefaultRemote(cfg.Git.DefaultRemote),
		gitrepo.WithCLIFallback(cfg.Git.UseCLI()),
	)
}

// newOrchestrator wires one release.Orchestrator from the loaded
// configuration, opening the repository at the current directory.
func newOrchestrator(ctx context.Context) (*release.Orchestrator, error) {
	git, err := newGitClient()
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	root, err := git.GetRepositoryRoot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine repository root: %w", err)
	}

	tmpl, err := template.NewService()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize template service: %w", err)
	}

	handlers := filehandler.NewRegistry()
	tracker := state.NewTracker(root)

	return release.NewOrchestrator(cfg, git, tmpl, handlers, tracker, logger, root), nil
}

// newRollback wires one release.Rollback from the loaded configuration.
func newRollback(ctx context.Context) (*release.Rollback, error) {
	git, err := newGitClient()
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	root, err := git.GetRepositoryRoot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine repository root: %w", err)
	}

	tracker := state.NewTracker(root)
	return release.NewRollback(cfg, git, tracker, logger), nil
}

// buildOptions translates configuration into release.Options, wiring the
// configured preflight checks, hooks, and forge client.
func buildOptions(dryRunFlag bool) release.Options {
	opts := release.Options{
		DryRun:           dryRunFlag || cfg.Workflow.DryRunByDefault,
		SkipConfirmation: skipConfirmation || !cfg.Workflow.RequireApproval,
		SyncFromFile:     cfg.Versioning.BumpFrom == "file",
	}

	for _, c := range cfg.Workflow.PreflightChecks {
		opts.PreflightChecks = append(opts.PreflightChecks, release.PreflightCheck{
			Name:     c.Name,
			Command:  c.Command,
			Fixable:  c.Fixable,
			FixedBy:  c.FixedBy,
			Optional: c.Optional,
		})
	}

	if cfg.Workflow.PreReleaseHook != "" {
		opts.PreReleaseHooks = append(opts.PreReleaseHooks, release.PluginHook{
			Name:    "pre-release",
			Command: []string{"sh", "-c", cfg.Workflow.PreReleaseHook},
		})
	}
	if cfg.Workflow.PostReleaseHook != "" {
		opts.PostReleaseHooks = append(opts.PostReleaseHooks, release.PluginHook{
			Name:    "post-release",
			Command: []string{"sh", "-c", cfg.Workflow.PostReleaseHook},
		})
	}

	if len(cfg.Workflow.Forge.Command) > 0 {
		opts.Forge = &release.CommandForgeClient{
			Args: cfg.Workflow.Forge.Command,
		}
	}

	return opts
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nagare-go/nagare/internal/config"
	"github.com/nagare-go/nagare/internal/gitrepo"
)

var (
	initForce  bool
	initFormat string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a nagare configuration",
	Long: `Scaffold a nagare configuration in the current directory.

Writes a config file with sensible defaults, detecting the repository's
default branch and remote URL where possible.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
	initCmd.Flags().StringVar(&initFormat, "format", "yaml", "config file format (yaml, json)")
}

func runInit(cmd *cobra.Command, args []string) error {
	printTitle("nagare init")
	fmt.Println()

	existing, _ := config.FindConfigFile(".")
	if existing != "" && !initForce {
		printWarning(fmt.Sprintf("Config file already exists: %s", existing))
		printInfo("Use --force to overwrite")
		return nil
	}

	configFile := "nagare.config.yaml"
	if initFormat == "json" {
		configFile = "nagare.config.json"
	}

	newCfg := config.DefaultConfig()

	if err := detectRepoSettings(newCfg); err != nil {
		printWarning(fmt.Sprintf("Could not detect repository settings: %v", err))
	}

	if err := config.WriteConfig(newCfg, configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printSuccess(fmt.Sprintf("Created %s", configFile))
	fmt.Println()
	printTitle("Next steps")
	fmt.Println("  1. Review and customize the config file")
	fmt.Println("  2. Set GITHUB_TOKEN (or your forge's token) if PUBLISH should create a remote release")
	fmt.Println("  3. Run 'nagare release' to cut your first release")
	fmt.Println()

	return nil
}

// detectRepoSettings fills in what can be inferred from the repository:
// the default branch and, for GitHub remotes, the changelog compare-URL
// base.
func detectRepoSettings(cfg *config.Config) error {
	git, err := gitrepo.NewService()
	if err != nil {
		return err
	}

	ctx := context.Background()

	defaultBranch, err := git.GetDefaultBranch(ctx)
	if err == nil && defaultBranch != "" {
		cfg.Workflow.AllowedBranches = []string{defaultBranch}
	}

	remoteURL, err := git.GetRemoteURL(ctx, "origin")
	if err == nil {
		if repoURL := parseGitHubURL(remoteURL); repoURL != "" {
			cfg.Changelog.RepositoryURL = repoURL
		}
	}

	return nil
}

// parseGitHubURL normalizes a git remote URL (SSH or HTTPS) into an
// https://github.com/owner/repo URL, or "" if it isn't a GitHub remote.
func parseGitHubURL(remoteURL string) string {
	if strings.HasPrefix(remoteURL, "git@github.com:") {
		path := strings.TrimPrefix(remoteURL, "git@github.com:")
		path = strings.TrimSuffix(path, ".git")
		return "https://github.com/" + path
	}

	if strings.Contains(remoteURL, "github.com") {
		url := strings.TrimSuffix(remoteURL, ".git")
		if !strings.HasPrefix(url, "https://") {
			url = "https://" + strings.TrimPrefix(url, "http://")
		}
		return url
	}

	return ""
}

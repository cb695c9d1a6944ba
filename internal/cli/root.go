// Package cli provides the command-line interface for Nagare.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nagare-go/nagare/internal/config"
	"github.com/nagare-go/nagare/internal/i18n"
)

var (
	// versionInfo is set by main via SetVersionInfo.
	versionInfo struct {
		Version string
		Commit  string
		Date    string
	}

	// Global flags, per the command-line surface's --config/--dry-run/
	// --skip-confirmation/--log-level/--lang.
	cfgFile          string
	dryRun           bool
	skipConfirmation bool
	logLevel         string
	lang             string

	cfg *config.Config

	logger *log.Logger

	logFile *os.File

	styles = struct {
		Title   lipgloss.Style
		Success lipgloss.Style
		Error   lipgloss.Style
		Warning lipgloss.Style
		Info    lipgloss.Style
		Subtle  lipgloss.Style
		Bold    lipgloss.Style
	}{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Subtle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Bold:    lipgloss.NewStyle().Bold(true),
	}
)

// SetVersionInfo sets the version information from main.
func SetVersionInfo(version, commit, date string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.Date = date
}

var rootCmd = &cobra.Command{
	Use:   "nagare",
	Short: "Conventional-commit-driven release automation",
	Long: `Nagare drives a release from the first commit since the last tag to a
published, tagged, changelogged release.

It computes the next version from conventional commits, rewrites version
files, generates a changelog, and publishes a git tag and (optionally) a
remote release — with a rollback path if anything fails partway through.

Get started with 'nagare init' to scaffold a configuration.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" || cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context for graceful shutdown.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		ReportCaller:    false,
	})

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: nagare.config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "simulate actions without making changes")
	rootCmd.PersistentFlags().BoolVarP(&skipConfirmation, "skip-confirmation", "y", false, "skip confirmation prompts")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "message language (en, ja); default en")

	viper.BindPFlag("output.log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(releaseCmd)
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(retryCmd)
}

// loadAndValidateConfig loads and validates the configuration.
func loadAndValidateConfig() error {
	loader := config.NewLoader()
	if cfgFile != "" {
		loader.WithConfigPath(cfgFile)
	}

	var err error
	cfg, err = loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// applyGlobalFlags applies global CLI flags to the configuration.
func applyGlobalFlags() {
	if dryRun {
		cfg.Workflow.DryRunByDefault = true
	}
	if skipConfirmation {
		cfg.Workflow.RequireApproval = false
	}
	if !cfg.Output.Color {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// resolveLang settles the effective message language: --lang, then
// <prefix>_LANG, then English.
func resolveLang() string {
	if lang != "" {
		return lang
	}
	if env := os.Getenv("NAGARE_LANG"); env != "" {
		return env
	}
	return "en"
}

func configureLoggerFormat() {
	if cfg.Output.Format == "json" {
		logger.SetFormatter(log.JSONFormatter)
		logger.SetReportTimestamp(true)
		logger.SetReportCaller(true)
	} else if !cfg.Output.Color {
		logger.SetFormatter(log.TextFormatter)
	}
}

func configureLogLevel() {
	effective := logLevel
	if cfg.Output.LogLevel != "" && logLevel == "info" {
		effective = cfg.Output.LogLevel
	}
	switch effective {
	case "debug", "DEBUG":
		logger.SetLevel(log.DebugLevel)
	case "warn", "WARN":
		logger.SetLevel(log.WarnLevel)
	case "error", "ERROR":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	if cfg.Output.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
}

func configureLogFile() error {
	if cfg.Output.LogFile == "" {
		return nil
	}
	var err error
	logFile, err = os.OpenFile(cfg.Output.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(logFile)
	return nil
}

// initConfig reads configuration and wires the logger, called once per
// invocation via PersistentPreRunE.
func initConfig() error {
	if err := loadAndValidateConfig(); err != nil {
		return err
	}
	applyGlobalFlags()
	configureLoggerFormat()
	configureLogLevel()
	return configureLogFile()
}

// Cleanup closes any open resources. Should be called before program exit.
func Cleanup() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nagare %s\n", versionInfo.Version)
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			fmt.Printf("  commit: %s\n", versionInfo.Commit)
			fmt.Printf("  built:  %s\n", versionInfo.Date)
		}
	},
}

func init() {
	versionCmd.Flags().Bool("verbose", false, "also print commit and build date")
}

func printSuccess(msg string) {
	fmt.Println(styles.Success.Render("✓ " + msg))
}

func printError(msg string) {
	fmt.Println(styles.Error.Render("✗ " + msg))
}

func printWarning(msg string) {
	fmt.Println(styles.Warning.Render("⚠ " + msg))
}

func printInfo(msg string) {
	fmt.Println(styles.Info.Render("ℹ " + msg))
}

func printTitle(msg string) {
	fmt.Println(styles.Title.Render(msg))
}

// msg translates key via the active --lang/NAGARE_LANG catalog.
func msg(key string, args ...any) string {
	return i18n.Printer(resolveLang()).Sprintf(key, args...)
}

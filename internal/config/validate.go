// Package config provides configuration management for nagare.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	rperrors "github.com/nagare-go/nagare/internal/errors"
)

// ValidationError contains all validation errors.
type ValidationError struct {
	Errors []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// HasErrors returns true if there are validation errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Addf adds a formatted error to the validation error.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// Validator validates configuration.
type Validator struct {
	errors *ValidationError
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: &ValidationError{},
	}
}

// Validate validates the configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateVersioning(cfg.Versioning)
	v.validateChangelog(cfg.Changelog)
	v.validateWorkflow(cfg.Workflow)
	v.validateOutput(cfg.Output)

	if v.errors.HasErrors() {
		return rperrors.Validation("config.Validate", v.errors.Error())
	}

	return nil
}

// validateVersioning validates versioning configuration.
func (v *Validator) validateVersioning(cfg VersioningConfig) {
	// Validate strategy
	validStrategies := []string{"conventional", "manual"}
	if !slices.Contains(validStrategies, cfg.Strategy) {
		v.errors.Addf("versioning.strategy: must be one of %v, got %q", validStrategies, cfg.Strategy)
	}

	// Validate bump_from
	validBumpFrom := []string{"tag", "file", "package.json"}
	if !slices.Contains(validBumpFrom, cfg.BumpFrom) {
		v.errors.Addf("versioning.bump_from: must be one of %v, got %q", validBumpFrom, cfg.BumpFrom)
	}

	// If bump_from is file, version_file must be specified
	if cfg.BumpFrom == "file" && cfg.VersionFile == "" {
		v.errors.Addf("versioning.version_file: required when bump_from is 'file'")
	}

	// Note: Empty tag_prefix is valid (some repos use tags without prefix)
}

// validateChangelog validates changelog configuration.
func (v *Validator) validateChangelog(cfg ChangelogConfig) {
	// Validate format
	validFormats := []string{"keep-a-changelog", "conventional", "custom"}
	if !slices.Contains(validFormats, cfg.Format) {
		v.errors.Addf("changelog.format: must be one of %v, got %q", validFormats, cfg.Format)
	}

	// Validate group_by
	validGroupBy := []string{"type", "scope", "none"}
	if !slices.Contains(validGroupBy, cfg.GroupBy) {
		v.errors.Addf("changelog.group_by: must be one of %v, got %q", validGroupBy, cfg.GroupBy)
	}

	// If format is custom, template must be specified
	if cfg.Format == "custom" && cfg.Template == "" {
		v.errors.Addf("changelog.template: required when format is 'custom'")
	}

	// Validate template file exists if specified
	if cfg.Template != "" {
		if _, err := os.Stat(cfg.Template); os.IsNotExist(err) {
			v.errors.Addf("changelog.template: file does not exist: %s", cfg.Template)
		}
	}

	// Validate URLs if link options are enabled
	if cfg.LinkCommits && cfg.RepositoryURL != "" {
		if _, err := url.Parse(cfg.RepositoryURL); err != nil {
			v.errors.Addf("changelog.repository_url: invalid URL: %s", cfg.RepositoryURL)
		}
	}

	if cfg.LinkIssues && cfg.IssueURL != "" {
		if _, err := url.Parse(cfg.IssueURL); err != nil {
			v.errors.Addf("changelog.issue_url: invalid URL: %s", cfg.IssueURL)
		}
	}

	// Validate changelog file path
	// Note: If changelog directory doesn't exist, it will be created when needed
}

// validateWorkflow validates workflow configuration.
func (v *Validator) validateWorkflow(cfg WorkflowConfig) {
	// Validate allowed_branches
	// Note: Having no branch restrictions with approval required is valid
	// Note: Hook commands are validated at runtime

	// Validate changelog_commit_message
	if cfg.AutoCommitChangelog && cfg.ChangelogCommitMessage == "" {
		v.errors.Addf("workflow.changelog_commit_message: required when auto_commit_changelog is enabled")
	}
}

// validateOutput validates output configuration.
func (v *Validator) validateOutput(cfg OutputConfig) {
	// Validate format
	validFormats := []string{"text", "json", "yaml"}
	if !slices.Contains(validFormats, cfg.Format) {
		v.errors.Addf("output.format: must be one of %v, got %q", validFormats, cfg.Format)
	}

	// Validate log_level
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		v.errors.Addf("output.log_level: must be one of %v, got %q", validLogLevels, cfg.LogLevel)
	}

	// Quiet and verbose are mutually exclusive
	if cfg.Quiet && cfg.Verbose {
		v.errors.Addf("output: quiet and verbose cannot both be enabled")
	}

	// Validate log_file directory exists
	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				v.errors.Addf("output.log_file: directory does not exist: %s", dir)
			}
		}
	}
}

// Validate is a convenience function to validate configuration.
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// ValidateAndLoad loads and validates configuration.
func ValidateAndLoad() (*Config, error) {
	cfg, err := NewLoader().Load()
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

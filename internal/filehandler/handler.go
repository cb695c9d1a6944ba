// Package filehandler implements the pattern-driven file rewriting registry:
// built-in handlers per file type, user-registered custom handlers, pattern
// safety validation, bounded-occurrence checks, and dry-run previewing.
package filehandler

import (
	"fmt"
	"os"
	"regexp"

	rperrors "github.com/nagare-go/nagare/internal/errors"
	"github.com/nagare-go/nagare/internal/fileutil"
	"github.com/nagare-go/nagare/internal/security"
)

// MaxFileSize bounds how large a version file the registry will read, in
// line with fileutil.ReadFileLimited's DoS-prevention role elsewhere.
const MaxFileSize = 10 << 20 // 10 MiB

// Pattern is a single named capture-and-replace rule for a handler.
type Pattern struct {
	// Name identifies the pattern within the handler (e.g. "version").
	Name string
	// Regex must contain at least one capturing group; VersionGroup selects
	// which one holds the version token to replace. Regexes are compiled
	// with the multiline flag so ^ and $ anchor to line boundaries.
	Regex *regexp.Regexp
	// VersionGroup is the 1-based index of the capturing group holding the
	// version token (the only text ever replaced).
	VersionGroup int
	// Structural marks that this pattern targets a structural key in a
	// structured file format (JSON/YAML/TOML), used by safety validation.
	Structural bool
}

// Handler rewrites a single class of version-bearing file.
type Handler struct {
	// ID is the stable identifier (e.g. "json", "yaml", "markdown-badge").
	ID string
	// Name is a human-readable description.
	Name string
	// Detector reports whether this handler applies to path.
	Detector func(path string) bool
	// Patterns are tried against the file content, in order.
	Patterns []Pattern
	// MaxOccurrences bounds how many times a pattern may match in the
	// target file before the registry refuses to apply it. Zero means the
	// package default of 1.
	MaxOccurrences int
	// Validator, if set, parses the post-write content to confirm it is
	// still structurally well-formed (e.g. valid JSON/YAML/TOML).
	Validator func(content []byte) error
}

func (h *Handler) maxOccurrences() int {
	if h.MaxOccurrences > 0 {
		return h.MaxOccurrences
	}
	return 1
}

// LineChange describes one line-level edit produced by an update or preview.
type LineChange struct {
	Line   int
	Before string
	After  string
}

// UpdateResult reports the outcome of Update or Preview.
type UpdateResult struct {
	Changed bool
	Preview []LineChange
}

// applyPattern substitutes the version-capture group of the first matching
// pattern, enforcing the bounded-occurrence check, and returns the new
// content plus the line-level diff. It replaces only the captured version
// token, never the surrounding matched text.
func applyPattern(content []byte, p Pattern, newVersion string, maxOccurrences int) ([]byte, []LineChange, error) {
	locs := p.Regex.FindAllSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return content, nil, nil
	}
	if len(locs) > maxOccurrences {
		return nil, nil, rperrors.Validation("filehandler.applyPattern",
			fmt.Sprintf("pattern %q matches %d occurrences, exceeding the bound of %d", p.Name, len(locs), maxOccurrences)).
			WithCode(rperrors.CodeFilePatternDangerous)
	}

	groupIdx := p.VersionGroup
	result := make([]byte, 0, len(content))
	var changes []LineChange
	prevEnd := 0

	for _, loc := range locs {
		groupStart, groupEnd := loc[2*groupIdx], loc[2*groupIdx+1]
		if groupStart < 0 {
			continue
		}
		before := string(content[loc[0]:loc[1]])
		result = append(result, content[prevEnd:groupStart]...)
		result = append(result, []byte(newVersion)...)
		prevEnd = groupEnd
		after := before[:groupStart-loc[0]] + newVersion + before[groupEnd-loc[0]:]
		changes = append(changes, LineChange{
			Line:   lineNumber(content, loc[0]),
			Before: before,
			After:  after,
		})
	}
	result = append(result, content[prevEnd:]...)

	return result, changes, nil
}

func lineNumber(content []byte, offset int) int {
	line := 1
	for i := 0; i < offset && i < len(content); i++ {
		if content[i] == '\n' {
			line++
		}
	}
	return line
}

// CurrentVersion extracts the version token currently recorded in content
// via the first pattern that matches, without modifying anything. Used by
// COMPUTE to compare the version file against the authoritative tag.
func (h *Handler) CurrentVersion(content []byte) (string, bool) {
	for _, p := range h.Patterns {
		loc := p.Regex.FindSubmatchIndex(content)
		if loc == nil {
			continue
		}
		groupStart, groupEnd := loc[2*p.VersionGroup], loc[2*p.VersionGroup+1]
		if groupStart < 0 {
			continue
		}
		return string(content[groupStart:groupEnd]), true
	}
	return "", false
}

// Preview computes the would-be substitution for path's current content
// without touching disk.
func (h *Handler) Preview(content []byte, newVersion string) (*UpdateResult, error) {
	const op = "filehandler.Preview"

	for _, p := range h.Patterns {
		newContent, changes, err := applyPattern(content, p, newVersion, h.maxOccurrences())
		if err != nil {
			return nil, err
		}
		if len(changes) == 0 {
			continue
		}
		if h.Validator != nil {
			if err := h.Validator(newContent); err != nil {
				return nil, rperrors.ValidationWrap(err, op, "post-update content failed structural validation").
					WithCode(rperrors.CodeFileJSONInvalid)
			}
		}
		return &UpdateResult{Changed: true, Preview: changes}, nil
	}

	return nil, rperrors.NotFound(op, "no pattern matched the target file").WithCode(rperrors.CodeFilePatternNoMatch)
}

// Update reads path, applies the handler's patterns, validates the result
// structurally if a validator is configured, and writes the result back
// atomically. root is the repository root, used for path-containment
// validation.
func (h *Handler) Update(root, path, newVersion string) (*UpdateResult, error) {
	const op = "filehandler.Update"

	if err := security.ValidateFilePath(root, path); err != nil {
		return nil, err
	}

	content, err := fileutil.ReadFileLimited(path, MaxFileSize)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, rperrors.NotFoundWrap(err, op, fmt.Sprintf("version file not found: %s", path)).
				WithCode(rperrors.CodeFileNotFound)
		}
		return nil, rperrors.IOWrap(err, op, fmt.Sprintf("failed to read %s", path))
	}

	info, statErr := os.Stat(path)
	perm := os.FileMode(0o644)
	if statErr == nil {
		perm = info.Mode().Perm()
	}

	for _, p := range h.Patterns {
		newContent, changes, err := applyPattern(content, p, newVersion, h.maxOccurrences())
		if err != nil {
			return nil, err
		}
		if len(changes) == 0 {
			continue
		}

		if h.Validator != nil {
			if err := h.Validator(newContent); err != nil {
				return nil, rperrors.ValidationWrap(err, op, fmt.Sprintf("post-update content for %s failed structural validation", path)).
					WithCode(rperrors.CodeFileJSONInvalid)
			}
		}

		if err := fileutil.AtomicWriteFile(path, newContent, perm); err != nil {
			return nil, rperrors.IOWrap(err, op, fmt.Sprintf("failed to write %s", path)).
				WithCode(rperrors.CodeFileUpdateFailed)
		}

		return &UpdateResult{Changed: true, Preview: changes}, nil
	}

	return nil, rperrors.NotFound(op, fmt.Sprintf("no pattern matched %s", path)).WithCode(rperrors.CodeFilePatternNoMatch)
}

package filehandler

import (
	"fmt"
	"regexp"
	"strings"

	rperrors "github.com/nagare-go/nagare/internal/errors"
)

// SafetyLevel controls how a dangerous user-supplied pattern is treated.
type SafetyLevel string

const (
	// SafetyStrict rejects any dangerous pattern outright.
	SafetyStrict SafetyLevel = "strict"
	// SafetyModerate migrates a dangerous pattern to its safe equivalent
	// and emits a warning. This is the package default.
	SafetyModerate SafetyLevel = "moderate"
)

// DefaultSafetyLevel is used when a caller does not specify one.
const DefaultSafetyLevel = SafetyModerate

// greedyWildcard flags unbounded greedy spans over a version-bearing line.
var greedyWildcard = regexp.MustCompile(`\.\*|\.\+`)

// anchoredKeyLine matches a line-anchored structural key with a captured
// leading-whitespace group — the shape a safe structural pattern must have.
var anchoredKeyLine = regexp.MustCompile(`^\^\(\\s\*\)`)

// IsDangerous reports whether pattern is unsafe to apply to a file of the
// given structural-ness, per two independent criteria:
//
//   - structural is true (the pattern targets a key in JSON/YAML/TOML) but
//     the pattern lacks a beginning-of-line anchor plus whitespace-capture
//     group, so it could match the key anywhere (e.g. inside a string value
//     or a nested object).
//   - the pattern contains an unbounded greedy wildcard (.* or .+) that
//     could span arbitrarily far past the version token.
func IsDangerous(pattern string, structural bool) bool {
	if structural && !anchoredKeyLine.MatchString(pattern) {
		return true
	}
	if greedyWildcard.MatchString(pattern) {
		return true
	}
	return false
}

// SafeEquivalent returns the package's recommended line-anchored
// replacement for a known-dangerous pattern, keyed by the structural key
// name the pattern is meant to capture (e.g. "version"). Returns "" if no
// canned replacement is known for this key, in which case migration must
// fail closed.
func SafeEquivalent(key string) string {
	switch key {
	case "version":
		return `^(\s*)"version":\s*"([^"]+)"`
	default:
		return ""
	}
}

// ValidatePattern checks pattern against the configured safety level.
// - strict: returns FILE_PATTERN_DANGEROUS if pattern is dangerous.
// - moderate: if pattern is dangerous and a safe equivalent for key is
//   known, returns the safe equivalent and a non-empty warning; if no safe
//   equivalent is known, it still rejects (there is nothing safe to
//   migrate to).
func ValidatePattern(level SafetyLevel, key, pattern string, structural bool) (safePattern string, warning string, err error) {
	const op = "filehandler.ValidatePattern"

	if !IsDangerous(pattern, structural) {
		return pattern, "", nil
	}

	if level == SafetyStrict {
		return "", "", rperrors.Validation(op, fmt.Sprintf("pattern %q is unsafe: lacks line anchor or contains an unbounded wildcard", pattern)).
			WithCode(rperrors.CodeFilePatternDangerous)
	}

	safe := SafeEquivalent(key)
	if safe == "" {
		return "", "", rperrors.Validation(op, fmt.Sprintf("pattern %q is unsafe and no safe equivalent is known for key %q", pattern, key)).
			WithCode(rperrors.CodeFilePatternDangerous)
	}

	return safe, fmt.Sprintf("pattern %q was migrated to the safe equivalent %q", pattern, safe), nil
}

// stripAnchors is a small helper used by tests/callers that want to compare
// pattern shapes ignoring surrounding whitespace.
func stripAnchors(p string) string {
	return strings.TrimSpace(p)
}

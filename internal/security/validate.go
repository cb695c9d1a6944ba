package security

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nagare-go/nagare/internal/errors"
)

// gitRefPattern matches safe git reference names: alphanumeric plus the
// punctuation git itself permits in refs (., -, _, /, ^, ~).
var gitRefPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._/~^-]*$`)

// dangerousRefPatterns are substrings that have no legitimate use in a git
// ref but are common shell/argv injection vectors.
var dangerousRefPatterns = []string{"--", ";", "|", "&", "`", "$(", "${", "\n", "\r"}

// ValidateGitRef validates that a git reference is safe to pass to git,
// whether via go-git or a subprocess. An empty ref is allowed (caller
// defaults apply).
func ValidateGitRef(ref string) error {
	const op = "security.ValidateGitRef"

	if ref == "" {
		return nil
	}
	if ref == "HEAD" {
		return nil
	}

	for _, pattern := range dangerousRefPatterns {
		if strings.Contains(ref, pattern) {
			return errors.Validation(op, fmt.Sprintf("reference %q contains dangerous pattern %q", ref, pattern)).WithCode(errors.CodeSecInvalidRef)
		}
	}

	if len(ref) > 250 {
		return errors.Validation(op, fmt.Sprintf("reference %q exceeds maximum length", ref)).WithCode(errors.CodeSecInvalidRef)
	}

	if !gitRefPattern.MatchString(ref) {
		return errors.Validation(op, fmt.Sprintf("reference %q contains invalid characters", ref)).WithCode(errors.CodeSecInvalidRef)
	}

	return nil
}

// ValidateSemver validates that s looks like a bare semantic version
// (optionally "v"-prefixed), rejecting anything that isn't digits, dots,
// hyphens, plus-signs and alphanumerics — enough to rule out shell metachars
// before the string is ever used to build a tag name or file path.
var semverShapePattern = regexp.MustCompile(`^v?\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?$`)

// ValidateSemver rejects version strings containing anything other than the
// semver grammar's own alphabet.
func ValidateSemver(s string) error {
	const op = "security.ValidateSemver"

	if !semverShapePattern.MatchString(s) {
		return errors.Validation(op, fmt.Sprintf("%q is not a well-formed semantic version", s)).WithCode(errors.CodeVersionInvalidFormat)
	}

	return nil
}

// commitHashPattern matches abbreviated or full git object hashes.
var commitHashPattern = regexp.MustCompile(`^[0-9a-fA-F]{7,40}$`)

// ValidateCommitHash validates that s is a plausible git commit hash.
func ValidateCommitHash(s string) error {
	const op = "security.ValidateCommitHash"

	if !commitHashPattern.MatchString(s) {
		return errors.Validation(op, fmt.Sprintf("%q is not a valid commit hash", s)).WithCode(errors.CodeSecInvalidRef)
	}

	return nil
}

// dangerousArgPatterns flags argv elements that smell like shell injection
// even though exec.Command never invokes a shell — defense in depth for
// callers that might later paste the args into a logged shell command.
var dangerousArgPatterns = []string{";", "|", "&", "`", "$(", "${", "\n", "\r", ">", "<"}

// ValidateCLIArgs validates a slice of subprocess arguments, rejecting null
// bytes and shell-metacharacter-bearing arguments before exec.Command sees
// them.
func ValidateCLIArgs(args []string) error {
	const op = "security.ValidateCLIArgs"

	for _, arg := range args {
		if strings.ContainsRune(arg, 0) {
			return errors.Validation(op, fmt.Sprintf("argument %q contains a null byte", arg)).WithCode(errors.CodeSecNullByte)
		}
		for _, pattern := range dangerousArgPatterns {
			if strings.Contains(arg, pattern) {
				return errors.Validation(op, fmt.Sprintf("argument %q contains dangerous pattern %q", arg, pattern)).WithCode(errors.CodeSecShellInjection)
			}
		}
	}

	return nil
}

// ValidateFilePath validates that target, once resolved relative to root, is
// still contained within root — rejecting `../` escapes and absolute paths
// that point outside the repository.
func ValidateFilePath(root, target string) error {
	const op = "security.ValidateFilePath"

	if strings.ContainsRune(target, 0) {
		return errors.Validation(op, fmt.Sprintf("path %q contains a null byte", target)).WithCode(errors.CodeSecNullByte)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return errors.ValidationWrap(err, op, "failed to resolve root path")
	}

	candidate := target
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(absRoot, target)
	}
	candidate = filepath.Clean(candidate)

	rel, err := filepath.Rel(absRoot, candidate)
	if err != nil {
		return errors.ValidationWrap(err, op, "failed to compute relative path").WithCode(errors.CodeSecPathTraversal)
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.Validation(op, fmt.Sprintf("path %q escapes repository root", target)).WithCode(errors.CodeSecPathTraversal)
	}

	return nil
}

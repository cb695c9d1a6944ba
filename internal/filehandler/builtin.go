package filehandler

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"
)

func matchAny(path string, globs ...string) bool {
	base := filepath.Base(path)
	for _, g := range globs {
		if ok, _ := filepath.Match(g, base); ok {
			return true
		}
	}
	return false
}

func validateJSON(content []byte) error {
	var v any
	return json.Unmarshal(content, &v)
}

func validateYAML(content []byte) error {
	var v any
	return yaml.Unmarshal(content, &v)
}

func validateTOML(content []byte) error {
	var v any
	return toml.Unmarshal(content, &v)
}

// NewJSONHandler matches package.json/deno.json(c)/jsr.json/manifest.json
// manifests with a top-level "version" field.
func NewJSONHandler() *Handler {
	return &Handler{
		ID:   "json",
		Name: "JSON manifest",
		Detector: func(path string) bool {
			return matchAny(path, "package.json", "deno.json", "deno.jsonc", "jsr.json", "manifest.json")
		},
		Patterns: []Pattern{{
			Name:         "version",
			Regex:        regexp.MustCompile(`(?m)^(\s*)"version":\s*"([^"]+)"`),
			VersionGroup: 2,
			Structural:   true,
		}},
		Validator: validateJSON,
	}
}

// NewYAMLHandler matches *.yaml/*.yml files with a top-level "version" key.
func NewYAMLHandler() *Handler {
	return &Handler{
		ID:   "yaml",
		Name: "YAML manifest",
		Detector: func(path string) bool {
			return matchAny(path, "*.yaml", "*.yml")
		},
		Patterns: []Pattern{{
			Name:         "version",
			Regex:        regexp.MustCompile(`(?m)^(\s*version:\s*)(['"]?)([^'"\n]+)(['"]?)$`),
			VersionGroup: 3,
			Structural:   true,
		}},
		Validator: validateYAML,
	}
}

// NewMarkdownBadgeHandler matches a version badge URL embedded in Markdown.
func NewMarkdownBadgeHandler() *Handler {
	return &Handler{
		ID:   "markdown-badge",
		Name: "Markdown version badge",
		Detector: func(path string) bool {
			return matchAny(path, "*.md")
		},
		Patterns: []Pattern{{
			Name:         "badge",
			Regex:        regexp.MustCompile(`(badge/version-)(\d+\.\d+\.\d+)`),
			VersionGroup: 2,
		}},
		MaxOccurrences: 1,
	}
}

// NewTOMLHandler matches Cargo.toml/pyproject.toml's top-level version key.
func NewTOMLHandler() *Handler {
	return &Handler{
		ID:   "toml",
		Name: "Cargo/Python TOML manifest",
		Detector: func(path string) bool {
			return matchAny(path, "Cargo.toml", "pyproject.toml")
		},
		Patterns: []Pattern{{
			Name:         "version",
			Regex:        regexp.MustCompile(`(?m)^(version\s*=\s*")([^"]+)(")`),
			VersionGroup: 2,
			Structural:   true,
		}},
		Validator: validateTOML,
	}
}

// NewTypeScriptHandler matches a hand-written `export const VERSION = "..."`
// declaration, as used by version.ts/constants.ts style files.
func NewTypeScriptHandler() *Handler {
	return &Handler{
		ID:   "typescript",
		Name: "TypeScript-like version constant",
		Detector: func(path string) bool {
			base := strings.ToLower(filepath.Base(path))
			return strings.HasPrefix(base, "version.") || strings.HasPrefix(base, "constants.")
		},
		Patterns: []Pattern{{
			Name:         "version",
			Regex:        regexp.MustCompile(`export\s+const\s+VERSION\s*=\s*"([^"]+)"`),
			VersionGroup: 1,
		}},
	}
}

// NewHTMLMetaHandler matches an HTML <meta name="version" content="..."> tag.
func NewHTMLMetaHandler() *Handler {
	return &Handler{
		ID:   "html-meta",
		Name: "HTML version meta tag",
		Detector: func(path string) bool {
			return matchAny(path, "*.html", "*.htm")
		},
		Patterns: []Pattern{{
			Name:         "version",
			Regex:        regexp.MustCompile(`<meta\s+name="version"\s+content="([^"]+)"`),
			VersionGroup: 1,
		}},
	}
}

// BuiltinHandlers returns the package's built-in handlers in the order
// they should be registered (and therefore tried): structured formats first
// to minimize the chance of a looser pattern (badge, meta tag) misfiring on
// a structured file that also happens to match a glob.
func BuiltinHandlers() []*Handler {
	return []*Handler{
		NewJSONHandler(),
		NewYAMLHandler(),
		NewTOMLHandler(),
		NewTypeScriptHandler(),
		NewHTMLMetaHandler(),
		NewMarkdownBadgeHandler(),
	}
}

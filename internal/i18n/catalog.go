// Package i18n provides the small message catalog behind --lang / the
// NAGARE_LANG environment variable: a handful of CLI status words and
// phrases, translated for the languages the command-line surface supports.
package i18n

import (
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported lists the languages the catalog is populated for. The CLI
// rejects any --lang value not in this list at flag-parse time.
var Supported = []string{"en", "ja"}

var catalogOnce sync.Once

func registerCatalog() {
	message.SetString(language.English, "success", "Success")
	message.SetString(language.Japanese, "success", "成功")

	message.SetString(language.English, "error", "Error")
	message.SetString(language.Japanese, "error", "エラー")

	message.SetString(language.English, "warning", "Warning")
	message.SetString(language.Japanese, "warning", "警告")

	message.SetString(language.English, "preflight_failed", "Preflight checks failed")
	message.SetString(language.Japanese, "preflight_failed", "事前確認に失敗しました")

	message.SetString(language.English, "release_published", "Release %s published")
	message.SetString(language.Japanese, "release_published", "リリース %s を公開しました")

	message.SetString(language.English, "release_rolled_back", "Release %s rolled back")
	message.SetString(language.Japanese, "release_rolled_back", "リリース %s をロールバックしました")

	message.SetString(language.English, "dry_run_notice", "Dry run: no changes were made")
	message.SetString(language.Japanese, "dry_run_notice", "ドライラン: 変更は行われていません")
}

// Printer returns a message.Printer for lang (a BCP-47 tag, or "" for the
// default: English). An unrecognized tag falls back to English rather than
// erroring, since a typo in --lang shouldn't block a release.
func Printer(lang string) *message.Printer {
	catalogOnce.Do(registerCatalog)

	tag := language.English
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			tag = parsed
		}
	}
	return message.NewPrinter(tag)
}

// IsSupported reports whether lang is one of the catalog's languages.
func IsSupported(lang string) bool {
	for _, s := range Supported {
		if s == lang {
			return true
		}
	}
	return false
}

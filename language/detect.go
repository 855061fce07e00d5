package language

import (
	"path/filepath"
	"sort"
	"strings"
)

// ExtensionToLanguage maps source extensions (without dot) of languages that
// compile to JVM class files to language names.
var ExtensionToLanguage = map[string]string{
	"java":   "Java",
	"scala":  "Scala",
	"sc":     "Scala",
	"kt":     "Kotlin",
	"kts":    "Kotlin",
	"groovy": "Groovy",
	"gvy":    "Groovy",
	"clj":    "Clojure",
	"cljc":   "Clojure",
}

// DetectLanguage returns the source language for a file path based on its extension.
// Returns "Unknown" if the extension is not recognized.
func DetectLanguage(filePath string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
	if lang, ok := ExtensionToLanguage[ext]; ok {
		return lang
	}
	return "Unknown"
}

// DefaultSourcePatterns returns a doublestar pattern matching every known
// source extension, e.g. "**/*.{clj,cljc,groovy,...}".
func DefaultSourcePatterns() []string {
	exts := make([]string, 0, len(ExtensionToLanguage))
	for ext := range ExtensionToLanguage {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return []string{"**/*.{" + strings.Join(exts, ",") + "}"}
}

// CountByLanguage returns a map of language -> file count for the given paths.
func CountByLanguage(paths []string) map[string]int {
	counts := make(map[string]int)
	for _, p := range paths {
		counts[DetectLanguage(p)]++
	}
	return counts
}

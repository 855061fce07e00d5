package index

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SourceRegistry maps a bare source file name to every configured path
// carrying that name. Built once, read-only afterwards.
type SourceRegistry struct {
	byName      map[string][]string
	sortedPaths []string // sorted for glob iteration
}

// NewSourceRegistry indexes the given source paths by base name. Paths sharing
// a name are kept in encounter order; a repeated path is recorded once.
func NewSourceRegistry(paths []string) *SourceRegistry {
	sr := &SourceRegistry{
		byName: make(map[string][]string),
	}
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		p = filepath.Clean(p)
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		name := filepath.Base(p)
		existing, ok := sr.byName[name]
		if !ok {
			existing = make([]string, 0, 1)
		}
		sr.byName[name] = append(existing, p)
		sr.sortedPaths = append(sr.sortedPaths, p)
	}
	sort.Strings(sr.sortedPaths)
	return sr
}

// Paths returns a copy of the paths registered under name.
func (sr *SourceRegistry) Paths(name string) []string {
	paths, ok := sr.byName[name]
	if !ok {
		return nil
	}
	out := make([]string, len(paths))
	copy(out, paths)
	return out
}

// AllPaths returns every registered path, sorted.
func (sr *SourceRegistry) AllPaths() []string {
	out := make([]string, len(sr.sortedPaths))
	copy(out, sr.sortedPaths)
	return out
}

// NameCount returns the number of distinct bare names.
func (sr *SourceRegistry) NameCount() int {
	return len(sr.byName)
}

// PathCount returns the number of registered paths.
func (sr *SourceRegistry) PathCount() int {
	return len(sr.sortedPaths)
}

// AmbiguousNames returns the bare names that map to more than one path, sorted.
func (sr *SourceRegistry) AmbiguousNames() []string {
	var names []string
	for name, paths := range sr.byName {
		if len(paths) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// SearchByGlob returns registered paths matching a doublestar pattern.
// The pattern is matched against slash-separated paths with any leading
// slash removed, so "**/*.scala" and "proj/src/**" both work.
func (sr *SourceRegistry) SearchByGlob(pattern string, maxResults int) ([]string, error) {
	if maxResults <= 0 {
		maxResults = 50
	}

	pattern = strings.TrimPrefix(strings.ReplaceAll(pattern, "\\", "/"), "/")
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	var results []string
	for _, p := range sr.sortedPaths {
		if len(results) >= maxResults {
			break
		}
		matched, err := doublestar.Match(pattern, strings.TrimPrefix(filepath.ToSlash(p), "/"))
		if err != nil {
			continue
		}
		if matched {
			results = append(results, p)
		}
	}
	return results, nil
}

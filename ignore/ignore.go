package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Matcher determines whether a path should be skipped while enumerating a tree.
// Hidden files and directories below the walked directory are always skipped.
// Default directory excludes, .gitignore rules and custom patterns are layered
// on top depending on options. A Matcher is immutable and safe for concurrent
// use; build a new one to pick up .gitignore changes.
type Matcher struct {
	rootDir        string
	walkRoot       string
	gitIgnore      gitignore.GitIgnore
	useGitignore   bool
	useDefaults    bool
	excludeDirs    []string
	customPatterns []string
}

// MatcherOptions configures the ignore matcher.
type MatcherOptions struct {
	RootDir        string   // project root; .gitignore and default dirs are relative to it
	WalkRoot       string   // directory being enumerated, RootDir when empty
	CustomPatterns []string // doublestar patterns, matched against the relative path and the base name
	ExcludeDirs    []string // absolute directories skipped with everything below them
	UseGitignore   bool     // honour <RootDir>/.gitignore
	UseDefaults    bool     // skip DefaultIgnoreDirs at the top of RootDir
}

// NewMatcher creates an ignore matcher for the tree under options.WalkRoot.
func NewMatcher(options MatcherOptions) *Matcher {
	walkRoot := options.WalkRoot
	if walkRoot == "" {
		walkRoot = options.RootDir
	}
	matcher := &Matcher{
		rootDir:        filepath.Clean(options.RootDir),
		walkRoot:       filepath.Clean(walkRoot),
		useGitignore:   options.UseGitignore,
		useDefaults:    options.UseDefaults,
		customPatterns: options.CustomPatterns,
	}
	for _, dir := range options.ExcludeDirs {
		matcher.excludeDirs = append(matcher.excludeDirs, filepath.Clean(dir))
	}
	if matcher.useGitignore {
		matcher.gitIgnore = loadIgnoreFile(filepath.Join(matcher.rootDir, ".gitignore"), matcher.rootDir)
	}
	return matcher
}

// NewSourceMatcher returns the matcher used to walk sourceRoot inside the
// project at projectRoot: the project's .gitignore, default build directories
// at the top of the project, excludeDirs and custom patterns. Defaults are
// off when sourceRoot itself lies in a default directory, as with generated
// sources under target/.
func NewSourceMatcher(projectRoot, sourceRoot string, customPatterns, excludeDirs []string) *Matcher {
	useDefaults := true
	if rel, inside := relativeTo(projectRoot, sourceRoot); inside && matchesDefaultDirs(rel) {
		useDefaults = false
	}
	return NewMatcher(MatcherOptions{
		RootDir:        projectRoot,
		WalkRoot:       sourceRoot,
		CustomPatterns: customPatterns,
		ExcludeDirs:    excludeDirs,
		UseGitignore:   true,
		UseDefaults:    useDefaults,
	})
}

// NewOutputMatcher returns the matcher used for the compiled output root.
// Build output is usually gitignored and lives under a default-excluded
// directory, so only hidden files and custom patterns apply.
func NewOutputMatcher(rootDir string, customPatterns []string) *Matcher {
	return NewMatcher(MatcherOptions{
		RootDir:        rootDir,
		CustomPatterns: customPatterns,
	})
}

// Within reports whether path is dir or lies below it.
func Within(dir, path string) bool {
	_, inside := relativeTo(dir, path)
	return inside
}

// relativeTo returns path relative to base in forward slashes, and whether
// path lies inside base.
func relativeTo(base, path string) (string, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return rel, false
	}
	return rel, true
}

// ShouldIgnore returns true if the given absolute path should be excluded.
func (m *Matcher) ShouldIgnore(absolutePath string) bool {
	walkRel, inWalk := relativeTo(m.walkRoot, absolutePath)
	if walkRel == "." {
		return false
	}
	if inWalk && isHidden(walkRel) {
		return true
	}

	for _, dir := range m.excludeDirs {
		if Within(dir, absolutePath) {
			return true
		}
	}

	relativePath, inProject := relativeTo(m.rootDir, absolutePath)
	if !inProject {
		return m.matchesCustomPatterns(walkRel)
	}

	if m.useDefaults && matchesDefaultDirs(relativePath) {
		return true
	}

	// Check .gitignore using Relative() which doesn't require the file to exist on disk
	if m.gitIgnore != nil && relativePath != "." {
		isDir := false
		if info, err := os.Stat(absolutePath); err == nil {
			isDir = info.IsDir()
		}
		match := m.gitIgnore.Relative(relativePath, isDir)
		if match != nil && match.Ignore() {
			return true
		}
	}

	return m.matchesCustomPatterns(relativePath) || (walkRel != relativePath && m.matchesCustomPatterns(walkRel))
}

// ShouldIgnoreDir returns true if a directory should be skipped entirely during traversal.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	dirName := filepath.Base(absolutePath)

	if strings.HasPrefix(dirName, ".") && dirName != "." && dirName != ".." {
		return true
	}

	return m.ShouldIgnore(absolutePath)
}

// isHidden reports whether any component of a slash-separated relative path starts with a dot.
func isHidden(relativePath string) bool {
	for _, part := range strings.Split(relativePath, "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// matchesDefaultDirs reports whether a project-relative path starts with a
// default excluded directory. Deeper components are left alone so package
// directories such as com/acme/build stay visible.
func matchesDefaultDirs(relativePath string) bool {
	for _, dir := range DefaultIgnoreDirs {
		if relativePath == dir || strings.HasPrefix(relativePath, dir+"/") {
			return true
		}
	}
	return false
}

// matchesCustomPatterns checks if the path matches any user-provided exclude pattern.
func (m *Matcher) matchesCustomPatterns(relativePath string) bool {
	baseName := filepath.Base(relativePath)
	for _, pattern := range m.customPatterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.Match(pattern, relativePath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
			return true
		}
	}
	return false
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
// Uses io.Reader approach to ensure the file handle is properly closed on Windows.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	gi := gitignore.New(f, baseDir, nil)
	return gi
}

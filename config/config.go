// Package config loads the project description the scanner works from:
// where compiled output lives and which source files exist.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"

	"github.com/lexandro/classmap-mcp/ignore"
	"github.com/lexandro/classmap-mcp/language"
)

// DefaultFileName is looked up in the project root when no -config is given.
const DefaultFileName = "classmap.toml"

// DefaultWorkers is the extraction parallelism when none is configured.
const DefaultWorkers = 8

// Config describes one project. Relative paths are resolved against RootDir.
type Config struct {
	RootDir        string   `toml:"-"`
	OutputRoot     string   `toml:"output_root"`
	SourceRoots    []string `toml:"source_roots"`
	SourcePatterns []string `toml:"source_patterns"`
	Exclude        []string `toml:"exclude"`
	Workers        int      `toml:"workers"`
}

// Load reads a TOML config file. A missing file yields an empty config,
// a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Overrides holds values given on the command line. Zero values leave the
// file's settings alone.
type Overrides struct {
	OutputRoot  string
	SourceRoots []string
	Exclude     []string
	Workers     int
}

// Apply merges command-line overrides into the config. Excludes are added
// to the configured ones rather than replacing them.
func (c *Config) Apply(o Overrides) {
	if o.OutputRoot != "" {
		c.OutputRoot = o.OutputRoot
	}
	if len(o.SourceRoots) > 0 {
		c.SourceRoots = o.SourceRoots
	}
	c.Exclude = append(c.Exclude, o.Exclude...)
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
}

// Resolve fills defaults and makes every path absolute relative to rootDir.
func (c *Config) Resolve(rootDir string) error {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	c.RootDir = absRoot

	if c.OutputRoot == "" {
		return errors.New("no output root configured (set output_root or -output)")
	}
	c.OutputRoot = c.resolvePath(c.OutputRoot)
	info, err := os.Stat(c.OutputRoot)
	if err != nil {
		return fmt.Errorf("output root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output root %s is not a directory", c.OutputRoot)
	}

	if len(c.SourceRoots) == 0 {
		c.SourceRoots = []string{c.RootDir}
	}
	for i, root := range c.SourceRoots {
		c.SourceRoots[i] = c.resolvePath(root)
	}

	if len(c.SourcePatterns) == 0 {
		c.SourcePatterns = language.DefaultSourcePatterns()
	}
	for _, pattern := range append(append([]string{}, c.SourcePatterns...), c.Exclude...) {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return fmt.Errorf("invalid glob pattern: %s", pattern)
		}
	}

	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	return nil
}

func (c *Config) resolvePath(p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.RootDir, p)
	}
	return filepath.Clean(p)
}

// SourceFiles walks every source root and returns the absolute paths of
// files matching the source patterns, in walk order per root. Missing
// roots are skipped. The project's .gitignore applies to every root, and
// the output root is skipped unless it contains the source root.
func (c *Config) SourceFiles() ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	for _, root := range c.SourceRoots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		var excludeDirs []string
		if !ignore.Within(c.OutputRoot, root) {
			excludeDirs = []string{c.OutputRoot}
		}
		matcher := ignore.NewSourceMatcher(c.RootDir, root, c.Exclude, excludeDirs)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if path != root && matcher.ShouldIgnoreDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if matcher.ShouldIgnore(path) || !c.matchesSourcePattern(root, path) {
				return nil
			}
			if _, dup := seen[path]; dup {
				return nil
			}
			seen[path] = struct{}{}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking source root %s: %w", root, err)
		}
	}
	return files, nil
}

func (c *Config) matchesSourcePattern(root, path string) bool {
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)
	for _, pattern := range c.SourcePatterns {
		if matched, err := doublestar.Match(filepath.ToSlash(pattern), relPath); err == nil && matched {
			return true
		}
	}
	return false
}

// CompiledFile is one file found under the output root.
type CompiledFile struct {
	Path         string
	RelativePath string // forward slashes
	Info         fs.FileInfo
}

// CompiledFiles walks the output root and returns every class file and jar,
// sorted by relative path. Hidden files and excluded patterns are skipped.
func (c *Config) CompiledFiles() ([]CompiledFile, error) {
	matcher := ignore.NewOutputMatcher(c.OutputRoot, c.Exclude)
	var files []CompiledFile
	err := filepath.WalkDir(c.OutputRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != c.OutputRoot && matcher.ShouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !language.IsCompiledOutput(path) || matcher.ShouldIgnore(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		relPath, _ := filepath.Rel(c.OutputRoot, path)
		files = append(files, CompiledFile{
			Path:         path,
			RelativePath: filepath.ToSlash(relPath),
			Info:         info,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking output root %s: %w", c.OutputRoot, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelativePath < files[j].RelativePath })
	return files, nil
}

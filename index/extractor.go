package index

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lexandro/classmap-mcp/classfile"
)

// unitBuilder accumulates the state of the type declaration being visited.
type unitBuilder struct {
	qualifiedName string
	sourceName    string
	startLine     int
	endLine       int
}

func (b *unitBuilder) build(compiledPath string) *CompiledUnit {
	return &CompiledUnit{
		QualifiedName:    b.qualifiedName,
		PackageName:      packageOf(b.qualifiedName),
		SourceName:       b.sourceName,
		CompiledFilePath: compiledPath,
		StartLine:        b.startLine,
		EndLine:          b.endLine,
	}
}

// Extractor turns the events of the class-file reader into CompiledUnits.
// Units are only visible through Units once their end event was seen.
type Extractor struct {
	compiledPath string
	current      *unitBuilder
	units        []*CompiledUnit
}

// NewExtractor creates an extractor that attributes units to compiledPath.
func NewExtractor(compiledPath string) *Extractor {
	return &Extractor{compiledPath: compiledPath}
}

func (e *Extractor) VisitClass(name string) {
	e.current = &unitBuilder{
		qualifiedName: normalizeClassName(name),
		startLine:     NoStartLine,
		endLine:       NoEndLine,
	}
}

func (e *Extractor) VisitLineNumber(line int) {
	if e.current == nil {
		return
	}
	e.current.startLine = min(e.current.startLine, line)
	e.current.endLine = max(e.current.endLine, line)
}

func (e *Extractor) VisitSource(name string) {
	if e.current == nil {
		return
	}
	e.current.sourceName = name
}

func (e *Extractor) VisitEnd() {
	if e.current == nil {
		return
	}
	e.units = append(e.units, e.current.build(e.compiledPath))
	e.current = nil
}

// Units returns the units committed so far.
func (e *Extractor) Units() []*CompiledUnit {
	return e.units
}

// ExtractFile reads every compiled unit of one compiled file: a single
// class file, or each class entry of a jar. On error no unit is returned,
// even if some were committed before the failure.
func ExtractFile(path string) ([]*CompiledUnit, error) {
	if strings.EqualFold(filepath.Ext(path), ".jar") {
		return extractJar(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening class file: %w", err)
	}
	defer f.Close()

	extractor := NewExtractor(path)
	if err := classfile.Read(f, extractor); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return extractor.Units(), nil
}

func extractJar(path string) ([]*CompiledUnit, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening jar: %w", err)
	}
	defer archive.Close()

	var units []*CompiledUnit
	for _, entry := range archive.File {
		if entry.FileInfo().IsDir() || !strings.HasSuffix(entry.Name, ".class") {
			continue
		}
		entryUnits, err := extractJarEntry(path, entry)
		if err != nil {
			return nil, err
		}
		units = append(units, entryUnits...)
	}
	return units, nil
}

func extractJarEntry(jarPath string, entry *zip.File) ([]*CompiledUnit, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("opening jar entry %s: %w", entry.Name, err)
	}
	defer rc.Close()

	extractor := NewExtractor(jarPath + "!/" + entry.Name)
	if err := classfile.Read(rc, extractor); err != nil {
		return nil, fmt.Errorf("reading %s!/%s: %w", jarPath, entry.Name, err)
	}
	return extractor.Units(), nil
}

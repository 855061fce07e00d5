package index

import (
	"math"
	"strings"
)

// Sentinels for a unit that has not seen any line marker. A unit that keeps
// them has an empty range and never contains a line.
const (
	NoStartLine = math.MaxInt
	NoEndLine   = math.MinInt
)

// CompiledUnit is one type declaration read from one compiled file.
// It is never modified after the extractor commits it.
type CompiledUnit struct {
	QualifiedName    string // dotted, nested classes keep '$'
	PackageName      string // container prefix of QualifiedName, "" for the default package
	SourceName       string // bare source file name, "" when the class declares none
	CompiledFilePath string // class file path, or "<jar>!/<entry>" for jar entries
	StartLine        int
	EndLine          int
}

// HasLines reports whether any line marker was seen for the unit.
func (u *CompiledUnit) HasLines() bool {
	return u.StartLine <= u.EndLine
}

// Contains reports whether line falls within [StartLine, EndLine].
func (u *CompiledUnit) Contains(line int) bool {
	return u.StartLine <= line && line <= u.EndLine
}

// SimpleName returns the last dotted segment of the qualified name.
func (u *CompiledUnit) SimpleName() string {
	if i := strings.LastIndexByte(u.QualifiedName, '.'); i >= 0 {
		return u.QualifiedName[i+1:]
	}
	return u.QualifiedName
}

// normalizeClassName turns an internal JVM name into its dotted form.
func normalizeClassName(internalName string) string {
	return strings.ReplaceAll(internalName, "/", ".")
}

// packageOf returns everything before the last '.' of a dotted name.
func packageOf(qualifiedName string) string {
	if i := strings.LastIndexByte(qualifiedName, '.'); i >= 0 {
		return qualifiedName[:i]
	}
	return ""
}

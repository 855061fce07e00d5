package index

import "strings"

// ClassLocation is a position in compiled code: a qualified class name and a line.
type ClassLocation struct {
	ClassName string `json:"className"`
	Line      int    `json:"line"`
}

// SourceLocation is a position in a source file. Path is empty when the
// class could not be mapped to any source file.
type SourceLocation struct {
	Path string `json:"path"`
	Line int    `json:"line"`
}

// ResolveSourceLocation maps a class location to the first source path
// registered for the class. Other candidates are ignored; use
// SourceCandidates to see them.
func (ui *UnitIndex) ResolveSourceLocation(className string, line int) SourceLocation {
	ui.mu.RLock()
	defer ui.mu.RUnlock()

	candidates := ui.classToSources[className]
	if len(candidates) == 0 {
		return SourceLocation{Path: "", Line: line}
	}
	return SourceLocation{Path: candidates[0], Line: line}
}

// ResolveSourceLocations resolves each location in order; the result has the
// same length as the input.
func (ui *UnitIndex) ResolveSourceLocations(locations []ClassLocation) []SourceLocation {
	result := make([]SourceLocation, len(locations))
	for i, loc := range locations {
		result[i] = ui.ResolveSourceLocation(loc.ClassName, loc.Line)
	}
	return result
}

// SourceCandidates returns every source path registered for className, in
// registration order.
func (ui *UnitIndex) SourceCandidates(className string) []string {
	ui.mu.RLock()
	defer ui.mu.RUnlock()

	candidates := ui.classToSources[className]
	out := make([]string, len(candidates))
	copy(out, candidates)
	return out
}

// FindUnit returns the first unit compiled from sourceName whose line range
// contains line and whose package starts with packagePrefix. Units are
// scanned by descending StartLine, so the innermost declaration wins when
// ranges nest.
func (ui *UnitIndex) FindUnit(sourceName string, line int, packagePrefix string) (*CompiledUnit, bool) {
	ui.mu.RLock()
	defer ui.mu.RUnlock()

	for _, unit := range ui.sourceToUnits[sourceName] {
		if unit.Contains(line) && strings.HasPrefix(unit.PackageName, packagePrefix) {
			return unit, true
		}
	}
	return nil, false
}

// UnitsForSource returns the units compiled from sourceName in lookup order.
func (ui *UnitIndex) UnitsForSource(sourceName string) []*CompiledUnit {
	ui.mu.RLock()
	defer ui.mu.RUnlock()

	units := ui.sourceToUnits[sourceName]
	out := make([]*CompiledUnit, len(units))
	copy(out, units)
	return out
}

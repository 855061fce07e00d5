package index

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrSealed is returned when adding to an index whose build has finished.
var ErrSealed = errors.New("unit index is sealed")

// IndexedFile describes one compiled file that contributed to the index.
type IndexedFile struct {
	Path         string    // Absolute file path
	RelativePath string    // Path relative to the output root (forward slashes)
	SizeBytes    int64     // File size in bytes
	ModTime      time.Time // Last modification time
	UnitCount    int       // Number of compiled units read from the file
}

// UnitIndex owns the two derived mappings of the scan:
// qualified class name -> candidate source paths, and
// bare source name -> units ordered by descending StartLine.
type UnitIndex struct {
	mu             sync.RWMutex
	registry       *SourceRegistry
	classToSources map[string][]string
	sourceToUnits  map[string][]*CompiledUnit
	unattributed   []*CompiledUnit
	units          []*CompiledUnit // commit order
	files          map[string]*IndexedFile
	sortedPaths    []string
	sealed         bool
}

// NewUnitIndex creates an empty index resolving source names through registry.
func NewUnitIndex(registry *SourceRegistry) *UnitIndex {
	if registry == nil {
		registry = NewSourceRegistry(nil)
	}
	return &UnitIndex{
		registry:       registry,
		classToSources: make(map[string][]string),
		sourceToUnits:  make(map[string][]*CompiledUnit),
		files:          make(map[string]*IndexedFile),
	}
}

// Registry returns the source registry the index resolves against.
func (ui *UnitIndex) Registry() *SourceRegistry {
	return ui.registry
}

// AddFile records a compiled file together with all units read from it.
func (ui *UnitIndex) AddFile(file *IndexedFile, units []*CompiledUnit) error {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	if ui.sealed {
		return ErrSealed
	}
	if _, exists := ui.files[file.RelativePath]; !exists {
		pos := sort.SearchStrings(ui.sortedPaths, file.RelativePath)
		ui.sortedPaths = append(ui.sortedPaths, "")
		copy(ui.sortedPaths[pos+1:], ui.sortedPaths[pos:])
		ui.sortedPaths[pos] = file.RelativePath
	}
	file.UnitCount = len(units)
	ui.files[file.RelativePath] = file

	for _, unit := range units {
		ui.addLocked(unit)
	}
	return nil
}

// Add registers one committed unit.
func (ui *UnitIndex) Add(unit *CompiledUnit) error {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	if ui.sealed {
		return ErrSealed
	}
	ui.addLocked(unit)
	return nil
}

func (ui *UnitIndex) addLocked(unit *CompiledUnit) {
	ui.units = append(ui.units, unit)

	if unit.SourceName == "" {
		ui.unattributed = append(ui.unattributed, unit)
		return
	}

	for _, path := range ui.registry.Paths(unit.SourceName) {
		candidates, ok := ui.classToSources[unit.QualifiedName]
		if !ok {
			candidates = make([]string, 0, 1)
		}
		ui.classToSources[unit.QualifiedName] = append(candidates, path)
	}

	units, ok := ui.sourceToUnits[unit.SourceName]
	if !ok {
		units = make([]*CompiledUnit, 0, 1)
	}
	ui.sourceToUnits[unit.SourceName] = insertByStartLine(units, unit)
}

// insertByStartLine places unit after every unit whose StartLine is not
// smaller, which keeps the slice in descending StartLine order and leaves
// units with equal StartLine in insertion order.
func insertByStartLine(units []*CompiledUnit, unit *CompiledUnit) []*CompiledUnit {
	pos := sort.Search(len(units), func(i int) bool {
		return units[i].StartLine < unit.StartLine
	})
	units = append(units, nil)
	copy(units[pos+1:], units[pos:])
	units[pos] = unit
	return units
}

// Seal ends the build phase. Later Add and AddFile calls fail with ErrSealed.
func (ui *UnitIndex) Seal() {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	ui.sealed = true
}

// UnitCount returns the number of committed units.
func (ui *UnitIndex) UnitCount() int {
	ui.mu.RLock()
	defer ui.mu.RUnlock()
	return len(ui.units)
}

// UnattributedCount returns the number of units without a SourceFile attribute.
func (ui *UnitIndex) UnattributedCount() int {
	ui.mu.RLock()
	defer ui.mu.RUnlock()
	return len(ui.unattributed)
}

// UnresolvedCount returns the number of units whose class has no candidate source path.
func (ui *UnitIndex) UnresolvedCount() int {
	ui.mu.RLock()
	defer ui.mu.RUnlock()

	count := 0
	for _, unit := range ui.units {
		if len(ui.classToSources[unit.QualifiedName]) == 0 {
			count++
		}
	}
	return count
}

// FileCount returns the number of compiled files recorded.
func (ui *UnitIndex) FileCount() int {
	ui.mu.RLock()
	defer ui.mu.RUnlock()
	return len(ui.files)
}

// TotalSizeBytes returns the total size of all recorded compiled files.
func (ui *UnitIndex) TotalSizeBytes() int64 {
	ui.mu.RLock()
	defer ui.mu.RUnlock()

	var totalSize int64
	for _, file := range ui.files {
		totalSize += file.SizeBytes
	}
	return totalSize
}

// AllFiles returns all recorded compiled files sorted by relative path.
func (ui *UnitIndex) AllFiles() []*IndexedFile {
	ui.mu.RLock()
	defer ui.mu.RUnlock()

	result := make([]*IndexedFile, 0, len(ui.sortedPaths))
	for _, path := range ui.sortedPaths {
		if file, ok := ui.files[path]; ok {
			result = append(result, file)
		}
	}
	return result
}

// AllUnits returns every committed unit in commit order.
func (ui *UnitIndex) AllUnits() []*CompiledUnit {
	ui.mu.RLock()
	defer ui.mu.RUnlock()

	result := make([]*CompiledUnit, len(ui.units))
	copy(result, ui.units)
	return result
}

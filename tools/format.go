package tools

import (
	"fmt"
	"strings"
	"time"

	"github.com/lexandro/classmap-mcp/index"
)

// FormatResolution formats a single class-to-source resolution. Additional
// candidates are listed when the source name is ambiguous.
func FormatResolution(query index.ClassLocation, location index.SourceLocation, candidates []string) string {
	if location.Path == "" {
		return fmt.Sprintf("No source file found for %s (line %d).", query.ClassName, query.Line)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s:%d -> %s:%d\n", query.ClassName, query.Line, location.Path, location.Line))
	if len(candidates) > 1 {
		builder.WriteString(fmt.Sprintf("\n%d candidate source files (first one used):\n", len(candidates)))
		for _, candidate := range candidates {
			builder.WriteString(fmt.Sprintf("  %s\n", candidate))
		}
	}
	return builder.String()
}

// FormatBatchResolution formats one line per location, in input order.
func FormatBatchResolution(queries []index.ClassLocation, locations []index.SourceLocation) string {
	if len(queries) == 0 {
		return "No locations given."
	}

	var builder strings.Builder
	for i, query := range queries {
		location := locations[i]
		if location.Path == "" {
			builder.WriteString(fmt.Sprintf("%s:%d -> (unresolved)\n", query.ClassName, query.Line))
			continue
		}
		builder.WriteString(fmt.Sprintf("%s:%d -> %s:%d\n", query.ClassName, query.Line, location.Path, location.Line))
	}
	return builder.String()
}

// FormatUnit formats one compiled unit with its line range and origin.
func FormatUnit(unit *index.CompiledUnit) string {
	source := unit.SourceName
	if source == "" {
		source = "(no source attribute)"
	}
	return fmt.Sprintf("  %s  (%s, %s)\n    compiled: %s\n",
		unit.QualifiedName,
		source,
		formatLineRange(unit),
		unit.CompiledFilePath,
	)
}

// FormatUnitList formats every unit compiled from one source file.
func FormatUnitList(sourceName string, units []*index.CompiledUnit) string {
	if len(units) == 0 {
		return fmt.Sprintf("No classes compiled from %s.", sourceName)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%d classes compiled from %s:\n\n", len(units), sourceName))
	for _, unit := range units {
		builder.WriteString(fmt.Sprintf("  %-50s %s\n", unit.QualifiedName, formatLineRange(unit)))
	}
	return builder.String()
}

// FormatClassResults formats class search results as human-readable text.
func FormatClassResults(results []index.ClassSearchResult, total int) string {
	if len(results) == 0 {
		return "No classes matched."
	}

	var builder strings.Builder
	if total > len(results) {
		builder.WriteString(fmt.Sprintf("Found %d classes (showing %d):\n\n", total, len(results)))
	} else {
		builder.WriteString(fmt.Sprintf("Found %d classes:\n\n", total))
	}
	for _, result := range results {
		builder.WriteString(FormatUnit(result.Unit))
	}
	return builder.String()
}

// FormatSourcePaths formats a list of source paths.
func FormatSourcePaths(paths []string) string {
	if len(paths) == 0 {
		return "No source files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d source files:\n\n", len(paths)))
	for _, path := range paths {
		builder.WriteString(path)
		builder.WriteString("\n")
	}
	return builder.String()
}

func formatLineRange(unit *index.CompiledUnit) string {
	if !unit.HasLines() {
		return "no line information"
	}
	if unit.StartLine == unit.EndLine {
		return fmt.Sprintf("line %d", unit.StartLine)
	}
	return fmt.Sprintf("lines %d-%d", unit.StartLine, unit.EndLine)
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}

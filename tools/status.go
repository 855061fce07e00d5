package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/lexandro/classmap-mcp/index"
	"github.com/lexandro/classmap-mcp/language"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusArgs defines the input parameters for the classmap_status tool.
type StatusArgs struct {
	CheckDrift bool `json:"checkDrift,omitempty" jsonschema:"Compare the output directory with the index and report changed class files"`
}

// DriftReport is the outcome of a drift check, as shown by the status tool.
type DriftReport struct {
	Missing  int
	Stale    int
	Modified int
}

// DriftFunc compares the output directory with the published snapshot.
// It is provided by main.go to avoid circular dependencies, and is called
// outside the snapshot read lock because it walks the disk.
type DriftFunc func() (DriftReport, error)

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Holder     *index.Holder
	StartTime  time.Time
	RootDir    string
	OutputRoot string
	CheckDrift DriftFunc // optional
	Logger     *slog.Logger
}

// maxSkippedShown caps the skipped-file listing.
const maxSkippedShown = 20

// Handle processes a classmap_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	var builder strings.Builder
	uptime := time.Since(h.StartTime)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	builder.WriteString("=== classmap-mcp Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Root directory: %s\n", h.RootDir))
	builder.WriteString(fmt.Sprintf("Output directory: %s\n", h.OutputRoot))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))

	err := viewSnapshot(h.Holder, func(snap *index.Snapshot) error {
		units := snap.Units
		registry := units.Registry()
		stats := snap.Stats

		h.Logger.Info("classmap_status",
			"files", units.FileCount(),
			"units", units.UnitCount(),
			"memory", memStats.Alloc,
			"uptime", uptime,
		)

		builder.WriteString(fmt.Sprintf("Last build: %s (took %s)\n",
			stats.BuiltAt.Format(time.RFC3339), stats.Duration.Round(time.Millisecond)))
		builder.WriteString(fmt.Sprintf("Compiled files: %d indexed, %d skipped (%s)\n",
			stats.FilesIndexed, len(stats.Skipped), formatFileSize(units.TotalSizeBytes())))
		builder.WriteString(fmt.Sprintf("Compiled classes: %d (%d without source attribute, %d without known source file)\n",
			units.UnitCount(), units.UnattributedCount(), units.UnresolvedCount()))
		builder.WriteString(fmt.Sprintf("Searchable classes: %d\n", snap.Classes.DocumentCount()))
		builder.WriteString(fmt.Sprintf("Source files: %d (%d distinct names, %d ambiguous)\n",
			registry.PathCount(), registry.NameCount(), len(registry.AmbiguousNames())))

		writeLanguages(&builder, language.CountByLanguage(registry.AllPaths()))

		if len(stats.Skipped) > 0 {
			builder.WriteString("\nSkipped files:\n")
			for i, skipped := range stats.Skipped {
				if i == maxSkippedShown {
					builder.WriteString(fmt.Sprintf("  ... and %d more\n", len(stats.Skipped)-maxSkippedShown))
					break
				}
				builder.WriteString(fmt.Sprintf("  %s: %s\n", skipped.RelativePath, skipped.Err))
			}
		}
		return nil
	})
	if err != nil {
		builder.WriteString(fmt.Sprintf("Index: %v\n", err))
	}

	if err == nil && args.CheckDrift && h.CheckDrift != nil {
		report, err := h.CheckDrift()
		if err != nil {
			builder.WriteString(fmt.Sprintf("Drift check failed: %v\n", err))
		} else if report.Missing+report.Stale+report.Modified == 0 {
			builder.WriteString("Drift: none, index matches the output directory\n")
		} else {
			builder.WriteString(fmt.Sprintf("Drift: %d new, %d removed, %d modified class files (run classmap_reindex)\n",
				report.Missing, report.Stale, report.Modified))
		}
	}

	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	return textResult(builder.String()), nil, nil
}

func writeLanguages(builder *strings.Builder, langCounts map[string]int) {
	if len(langCounts) == 0 {
		return
	}
	builder.WriteString("\nSource languages:\n")

	// Sort by count descending
	type langEntry struct {
		lang  string
		count int
	}
	entries := make([]langEntry, 0, len(langCounts))
	for lang, count := range langCounts {
		entries = append(entries, langEntry{lang, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].lang < entries[j].lang
	})

	for _, entry := range entries {
		builder.WriteString(fmt.Sprintf("  %-20s %d files\n", entry.lang, entry.count))
	}
}

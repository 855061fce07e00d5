package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lexandro/classmap-mcp/config"
	"github.com/lexandro/classmap-mcp/index"
)

// extractResult is what one worker produced for one compiled file.
type extractResult struct {
	units []*index.CompiledUnit
	err   error
}

// performIndexing builds a complete, sealed snapshot: it registers the
// configured source files, extracts every compiled file in parallel and then
// feeds the results into a fresh UnitIndex in path order.
func performIndexing(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*index.Snapshot, error) {
	start := time.Now()

	sources, err := cfg.SourceFiles()
	if err != nil {
		return nil, fmt.Errorf("enumerating sources: %w", err)
	}
	registry := index.NewSourceRegistry(sources)
	if ambiguous := registry.AmbiguousNames(); len(ambiguous) > 0 {
		logger.Debug("source names shared by several files", "names", ambiguous)
	}

	files, err := cfg.CompiledFiles()
	if err != nil {
		return nil, fmt.Errorf("enumerating compiled files: %w", err)
	}

	results, err := extractAll(ctx, files, cfg.Workers)
	if err != nil {
		return nil, err
	}

	// Single aggregation step: the index is only ever written from here.
	units := index.NewUnitIndex(registry)
	stats := index.ScanStats{FilesSeen: len(files)}
	for i, file := range files {
		result := results[i]
		if result.err != nil {
			logger.Warn("skipped compiled file", "path", file.RelativePath, "error", result.err)
			stats.Skipped = append(stats.Skipped, index.SkippedFile{
				RelativePath: file.RelativePath,
				Err:          result.err.Error(),
			})
			continue
		}
		indexedFile := &index.IndexedFile{
			Path:         file.Path,
			RelativePath: file.RelativePath,
			SizeBytes:    file.Info.Size(),
			ModTime:      file.Info.ModTime(),
		}
		if err := units.AddFile(indexedFile, result.units); err != nil {
			return nil, fmt.Errorf("adding %s: %w", file.RelativePath, err)
		}
		stats.FilesIndexed++
	}
	units.Seal()

	classes, err := index.NewClassSearchIndex(units.AllUnits())
	if err != nil {
		return nil, fmt.Errorf("building class search index: %w", err)
	}

	stats.Duration = time.Since(start)
	stats.BuiltAt = time.Now()
	logger.Info("index built",
		"sources", registry.PathCount(),
		"files", stats.FilesSeen,
		"indexed", stats.FilesIndexed,
		"skipped", len(stats.Skipped),
		"units", units.UnitCount(),
		"duration", stats.Duration,
	)

	return &index.Snapshot{Units: units, Classes: classes, Stats: stats}, nil
}

// extractAll runs ExtractFile over files with bounded parallelism. Each
// worker writes only its own slot, so no locking is needed. A per-file
// failure is recorded in its slot; only cancellation aborts the whole run.
func extractAll(ctx context.Context, files []config.CompiledFile, workers int) ([]extractResult, error) {
	results := make([]extractResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, file := range files {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			units, err := index.ExtractFile(file.Path)
			results[i] = extractResult{units: units, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extraction cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extraction cancelled: %w", err)
	}
	return results, nil
}

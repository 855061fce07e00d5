package main

import (
	"errors"
	"log/slog"
	"time"

	"github.com/lexandro/classmap-mcp/config"
	"github.com/lexandro/classmap-mcp/index"
)

// DriftResult holds the outcome of comparing the output tree with an index snapshot.
// The index is never modified; a caller that cares runs a full reindex.
type DriftResult struct {
	MissingFiles  int // compiled files on disk but not in the snapshot
	StaleFiles    int // files in the snapshot but no longer on disk
	ModifiedFiles int // files whose ModTime differs
	Duration      time.Duration
}

// InSync reports whether no discrepancy was found.
func (r DriftResult) InSync() bool {
	return r.MissingFiles+r.StaleFiles+r.ModifiedFiles == 0
}

// errNoSnapshot is returned when the holder has nothing published, as after Close.
var errNoSnapshot = errors.New("no index snapshot published")

// driftBaseline is what a snapshot recorded about the output tree.
type driftBaseline struct {
	files   []*index.IndexedFile
	skipped []index.SkippedFile
}

// baselineOf copies the recorded files of snap.
func baselineOf(snap *index.Snapshot) (driftBaseline, error) {
	if snap == nil {
		return driftBaseline{}, errNoSnapshot
	}
	return driftBaseline{
		files:   snap.Units.AllFiles(),
		skipped: append([]index.SkippedFile(nil), snap.Stats.Skipped...),
	}, nil
}

// currentBaseline copies the baseline of the published snapshot. The read
// lock is released before returning so the disk walk never delays a Swap.
func currentBaseline(holder *index.Holder) (driftBaseline, error) {
	var baseline driftBaseline
	err := holder.View(func(snap *index.Snapshot) error {
		var err error
		baseline, err = baselineOf(snap)
		return err
	})
	return baseline, err
}

// checkCurrentDrift compares the output tree with the published snapshot.
func checkCurrentDrift(cfg *config.Config, holder *index.Holder) (DriftResult, error) {
	baseline, err := currentBaseline(holder)
	if err != nil {
		return DriftResult{}, err
	}
	return performDriftCheck(cfg, baseline)
}

// runPeriodicDriftCheck logs drift between the output tree and the current
// snapshot at the given interval until stop is closed.
func runPeriodicDriftCheck(
	intervalSeconds int,
	cfg *config.Config,
	holder *index.Holder,
	logger *slog.Logger,
	stop <-chan struct{},
) {
	ticker := time.NewTicker(time.Duration(intervalSeconds) * time.Second)
	defer ticker.Stop()

	logger.Info("periodic drift check started", "intervalSeconds", intervalSeconds)

	for {
		select {
		case <-stop:
			logger.Info("periodic drift check stopped")
			return
		case <-ticker.C:
			result, err := checkCurrentDrift(cfg, holder)
			if err != nil {
				logger.Warn("drift check failed", "error", err)
				continue
			}
			if !result.InSync() {
				logger.Info("compiled output drifted from index, run classmap_reindex",
					"missing", result.MissingFiles,
					"stale", result.StaleFiles,
					"modified", result.ModifiedFiles,
					"duration", result.Duration,
				)
			} else {
				logger.Debug("drift check complete, index is in sync", "duration", result.Duration)
			}
		}
	}
}

// performDriftCheck compares the compiled files currently on disk with the
// files recorded in baseline. Files that were skipped during the build count
// as known so they are not reported as missing on every check.
func performDriftCheck(cfg *config.Config, baseline driftBaseline) (DriftResult, error) {
	start := time.Now()
	var result DriftResult

	diskFiles, err := cfg.CompiledFiles()
	if err != nil {
		return result, err
	}
	onDisk := make(map[string]config.CompiledFile, len(diskFiles))
	for _, f := range diskFiles {
		onDisk[f.RelativePath] = f
	}

	indexed := make(map[string]*index.IndexedFile)
	for _, f := range baseline.files {
		indexed[f.RelativePath] = f
	}
	skipped := make(map[string]struct{}, len(baseline.skipped))
	for _, s := range baseline.skipped {
		skipped[s.RelativePath] = struct{}{}
	}

	for relPath, diskFile := range onDisk {
		indexedFile, ok := indexed[relPath]
		if !ok {
			if _, wasSkipped := skipped[relPath]; !wasSkipped {
				result.MissingFiles++
			}
			continue
		}
		if !diskFile.Info.ModTime().Equal(indexedFile.ModTime) {
			result.ModifiedFiles++
		}
	}

	for relPath := range indexed {
		if _, ok := onDisk[relPath]; !ok {
			result.StaleFiles++
		}
	}
	for relPath := range skipped {
		if _, ok := onDisk[relPath]; !ok {
			result.StaleFiles++
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lexandro/classmap-mcp/config"
	"github.com/lexandro/classmap-mcp/index"
	"github.com/lexandro/classmap-mcp/server"
	"github.com/lexandro/classmap-mcp/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// repeatedFlag is a repeatable CLI flag collecting every value given.
type repeatedFlag []string

func (r *repeatedFlag) String() string { return strings.Join(*r, ", ") }
func (r *repeatedFlag) Set(value string) error {
	*r = append(*r, value)
	return nil
}

func main() {
	// Parse CLI flags
	var rootDir string
	var configPath string
	var outputRoot string
	var workers int
	var driftInterval int
	var logLevel string
	var logFile string
	var sources repeatedFlag
	var excludes repeatedFlag

	flag.StringVar(&rootDir, "root", "", "Project root directory (default: current working directory)")
	flag.StringVar(&configPath, "config", "", "Config file (default: <root>/"+config.DefaultFileName+" if present)")
	flag.StringVar(&outputRoot, "output", "", "Compiled output directory holding .class and .jar files")
	flag.Var(&sources, "source", "Source root directory (repeatable, default: project root)")
	flag.Var(&excludes, "exclude", "Extra ignore pattern (repeatable)")
	flag.IntVar(&workers, "workers", 0, fmt.Sprintf("Parallel class file readers (default: %d)", config.DefaultWorkers))
	flag.IntVar(&driftInterval, "drift-interval", 0, "Seconds between drift checks of the output directory, logged only (default: off)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: <root>/classmap-mcp.log)")
	flag.Parse()

	// Resolve root directory
	if rootDir == "" {
		var err error
		rootDir, err = os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
			os.Exit(1)
		}
	}
	rootDir, _ = filepath.Abs(rootDir)

	// Default log file: classmap-mcp.log in the root directory
	if logFile == "" {
		logFile = filepath.Join(rootDir, "classmap-mcp.log")
	}

	// Setup logger (always to file or stderr, never to stdout - stdout is for MCP stdio)
	logger := setupLogger(logLevel, logFile)

	if configPath == "" {
		configPath = filepath.Join(rootDir, config.DefaultFileName)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg.Apply(config.Overrides{
		OutputRoot:  outputRoot,
		SourceRoots: sources,
		Exclude:     excludes,
		Workers:     workers,
	})
	if err := cfg.Resolve(rootDir); err != nil {
		logger.Error("invalid configuration", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting classmap-mcp",
		"root", cfg.RootDir,
		"output", cfg.OutputRoot,
		"sourceRoots", cfg.SourceRoots,
		"workers", cfg.Workers,
	)

	startTime := time.Now()

	// Perform initial indexing
	snapshot, err := performIndexing(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("initial indexing failed", "error", err)
		os.Exit(1)
	}
	holder := index.NewHolder(snapshot)
	defer holder.Close()

	if driftInterval > 0 {
		stop := make(chan struct{})
		defer close(stop)
		go runPeriodicDriftCheck(driftInterval, cfg, holder, logger, stop)
	}

	// Create tool handlers
	statusHandler := &tools.StatusHandler{
		Holder:     holder,
		StartTime:  startTime,
		RootDir:    cfg.RootDir,
		OutputRoot: cfg.OutputRoot,
		CheckDrift: func() (tools.DriftReport, error) {
			result, err := checkCurrentDrift(cfg, holder)
			if err != nil {
				return tools.DriftReport{}, err
			}
			return tools.DriftReport{
				Missing:  result.MissingFiles,
				Stale:    result.StaleFiles,
				Modified: result.ModifiedFiles,
			}, nil
		},
		Logger: logger,
	}

	// One rebuild at a time; queries keep using the old snapshot meanwhile.
	var reindexMu sync.Mutex
	reindexHandler := &tools.ReindexHandler{
		Logger: logger,
		DoReindex: func(ctx context.Context) (tools.ReindexSummary, error) {
			reindexMu.Lock()
			defer reindexMu.Unlock()

			start := time.Now()
			next, err := performIndexing(ctx, cfg, logger)
			if err != nil {
				return tools.ReindexSummary{}, err
			}
			summary := tools.ReindexSummary{
				Files:     next.Stats.FilesIndexed,
				Units:     next.Units.UnitCount(),
				Skipped:   len(next.Stats.Skipped),
				SizeBytes: next.Units.TotalSizeBytes(),
			}
			if err := holder.Swap(next); err != nil {
				logger.Warn("closing previous index", "error", err)
			}
			summary.Elapsed = time.Since(start)
			return summary, nil
		},
	}

	// Setup and run MCP server on stdio
	mcpServer := server.Setup(server.Handlers{
		Resolve:      &tools.ResolveHandler{Holder: holder, Logger: logger},
		ResolveBatch: &tools.ResolveBatchHandler{Holder: holder, Logger: logger},
		FindUnit:     &tools.FindUnitHandler{Holder: holder, Logger: logger},
		Classes:      &tools.ClassesHandler{Holder: holder, Logger: logger},
		Sources:      &tools.SourcesHandler{Holder: holder, Logger: logger},
		Status:       statusHandler,
		Reindex:      reindexHandler,
	})

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}

// setupLogger creates an slog.Logger writing to stderr or a file.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	} else {
		writer = os.Stderr
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}

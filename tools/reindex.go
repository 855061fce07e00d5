package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReindexArgs defines the input parameters for the classmap_reindex tool.
type ReindexArgs struct{}

// ReindexSummary describes a completed rebuild.
type ReindexSummary struct {
	Files     int
	Units     int
	Skipped   int
	SizeBytes int64
	Elapsed   time.Duration
}

// ReindexFunc rebuilds the index and publishes the result.
// It is provided by main.go to avoid circular dependencies.
type ReindexFunc func(ctx context.Context) (ReindexSummary, error)

// ReindexHandler holds the dependencies for the reindex tool.
type ReindexHandler struct {
	DoReindex ReindexFunc
	Logger    *slog.Logger
}

// Handle processes a classmap_reindex request.
func (h *ReindexHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReindexArgs) (*mcp.CallToolResult, any, error) {
	h.Logger.Info("classmap_reindex started")

	summary, err := h.DoReindex(ctx)
	if err != nil {
		h.Logger.Error("classmap_reindex failed", "error", err)
		return errorResult("Reindex error: %v", err), nil, nil
	}

	h.Logger.Info("classmap_reindex complete",
		"files", summary.Files,
		"units", summary.Units,
		"skipped", summary.Skipped,
		"elapsed", summary.Elapsed,
	)

	output := fmt.Sprintf("Reindex complete: %d classes from %d files (%s), %d skipped, in %s",
		summary.Units, summary.Files, formatFileSize(summary.SizeBytes), summary.Skipped,
		summary.Elapsed.Round(time.Millisecond))

	return textResult(output), nil, nil
}

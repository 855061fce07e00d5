package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/classmap-mcp/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ResolveArgs defines the input parameters for the classmap_resolve tool.
type ResolveArgs struct {
	ClassName string `json:"className" jsonschema:"Fully qualified class name, nested classes with $ (e.g. com.acme.Foo$Inner)"`
	Line      int    `json:"line" jsonschema:"Line number reported for the class, e.g. from a stack trace"`
}

// ResolveHandler holds the dependencies for the resolve tool.
type ResolveHandler struct {
	Holder *index.Holder
	Logger *slog.Logger
}

// Handle processes a classmap_resolve request.
func (h *ResolveHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ResolveArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.ClassName == "" {
		h.Logger.Warn("classmap_resolve called with empty className")
		return errorResult("Error: className parameter is required"), nil, nil
	}

	var output string
	err := viewSnapshot(h.Holder, func(snap *index.Snapshot) error {
		location := snap.Units.ResolveSourceLocation(args.ClassName, args.Line)
		candidates := snap.Units.SourceCandidates(args.ClassName)
		output = FormatResolution(index.ClassLocation{ClassName: args.ClassName, Line: args.Line}, location, candidates)
		return nil
	})
	if err != nil {
		h.Logger.Error("classmap_resolve failed", "className", args.ClassName, "error", err)
		return errorResult("Resolve error: %v", err), nil, nil
	}

	h.Logger.Info("classmap_resolve",
		"className", args.ClassName,
		"line", args.Line,
		"elapsed", time.Since(start),
	)
	return textResult(output), nil, nil
}

// ResolveBatchArgs defines the input parameters for the classmap_resolve_batch tool.
type ResolveBatchArgs struct {
	Locations []index.ClassLocation `json:"locations" jsonschema:"Class locations to resolve, answered in the same order"`
}

// ResolveBatchHandler holds the dependencies for the batch resolve tool.
type ResolveBatchHandler struct {
	Holder *index.Holder
	Logger *slog.Logger
}

// Handle processes a classmap_resolve_batch request.
func (h *ResolveBatchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ResolveBatchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	var output string
	var resolved int
	err := viewSnapshot(h.Holder, func(snap *index.Snapshot) error {
		results := snap.Units.ResolveSourceLocations(args.Locations)
		for _, r := range results {
			if r.Path != "" {
				resolved++
			}
		}
		output = FormatBatchResolution(args.Locations, results)
		return nil
	})
	if err != nil {
		h.Logger.Error("classmap_resolve_batch failed", "error", err)
		return errorResult("Resolve error: %v", err), nil, nil
	}

	h.Logger.Info("classmap_resolve_batch",
		"locations", len(args.Locations),
		"resolved", resolved,
		"elapsed", time.Since(start),
	)
	return textResult(output), nil, nil
}

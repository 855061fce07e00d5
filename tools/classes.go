package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/classmap-mcp/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ClassesArgs defines the input parameters for the classmap_classes tool.
type ClassesArgs struct {
	Query         string `json:"query" jsonschema:"Class name query: plain name or prefix, \"exact.qualified.Name\", wildcard like com.acme.*Service, or /regex/"`
	PackagePrefix string `json:"packagePrefix,omitempty" jsonschema:"Only return classes whose package starts with this prefix"`
	MaxResults    int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// ClassesHandler holds the dependencies for the class search tool.
type ClassesHandler struct {
	Holder *index.Holder
	Logger *slog.Logger
}

// Handle processes a classmap_classes request.
func (h *ClassesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ClassesArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("classmap_classes called with empty query")
		return errorResult("Error: query parameter is required"), nil, nil
	}

	var output string
	var total int
	err := viewSnapshot(h.Holder, func(snap *index.Snapshot) error {
		results, count, err := snap.Classes.Search(index.ClassSearchOptions{
			Query:         args.Query,
			PackagePrefix: args.PackagePrefix,
			MaxResults:    args.MaxResults,
		})
		if err != nil {
			return err
		}
		total = count
		output = FormatClassResults(results, count)
		return nil
	})
	if err != nil {
		h.Logger.Error("classmap_classes failed", "query", args.Query, "error", err)
		return errorResult("Search error: %v", err), nil, nil
	}

	h.Logger.Info("classmap_classes",
		"query", args.Query,
		"packagePrefix", args.PackagePrefix,
		"total", total,
		"elapsed", time.Since(start),
	)
	return textResult(output), nil, nil
}

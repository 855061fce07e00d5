package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/classmap-mcp/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SourcesArgs defines the input parameters for the classmap_sources tool.
type SourcesArgs struct {
	Name       string `json:"name,omitempty" jsonschema:"Bare source file name; lists every path carrying it (e.g. Foo.scala)"`
	Pattern    string `json:"pattern,omitempty" jsonschema:"Glob pattern over source paths (e.g. **/acme/**/*.scala); ignored when name is set"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// SourcesHandler holds the dependencies for the sources tool.
type SourcesHandler struct {
	Holder *index.Holder
	Logger *slog.Logger
}

// Handle processes a classmap_sources request.
func (h *SourcesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SourcesArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Name == "" && args.Pattern == "" {
		h.Logger.Warn("classmap_sources called without name or pattern")
		return errorResult("Error: name or pattern parameter is required"), nil, nil
	}

	var paths []string
	err := viewSnapshot(h.Holder, func(snap *index.Snapshot) error {
		registry := snap.Units.Registry()
		if args.Name != "" {
			paths = registry.Paths(args.Name)
			return nil
		}
		var err error
		paths, err = registry.SearchByGlob(args.Pattern, args.MaxResults)
		return err
	})
	if err != nil {
		h.Logger.Error("classmap_sources failed", "pattern", args.Pattern, "error", err)
		return errorResult("Search error: %v", err), nil, nil
	}

	h.Logger.Info("classmap_sources",
		"name", args.Name,
		"pattern", args.Pattern,
		"results", len(paths),
		"elapsed", time.Since(start),
	)
	return textResult(FormatSourcePaths(paths)), nil, nil
}

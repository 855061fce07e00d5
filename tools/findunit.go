package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/classmap-mcp/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FindUnitArgs defines the input parameters for the classmap_find_unit tool.
type FindUnitArgs struct {
	SourceName    string `json:"sourceName" jsonschema:"Bare source file name (e.g. Foo.scala)"`
	Line          int    `json:"line" jsonschema:"Line in the source file"`
	PackagePrefix string `json:"packagePrefix,omitempty" jsonschema:"Only consider classes whose package starts with this prefix"`
	ShowAll       bool   `json:"showAll,omitempty" jsonschema:"Also list every class compiled from the source file"`
}

// FindUnitHandler holds the dependencies for the find-unit tool.
type FindUnitHandler struct {
	Holder *index.Holder
	Logger *slog.Logger
}

// Handle processes a classmap_find_unit request.
func (h *FindUnitHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FindUnitArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.SourceName == "" {
		h.Logger.Warn("classmap_find_unit called with empty sourceName")
		return errorResult("Error: sourceName parameter is required"), nil, nil
	}

	var output string
	var found bool
	err := viewSnapshot(h.Holder, func(snap *index.Snapshot) error {
		var unit *index.CompiledUnit
		unit, found = snap.Units.FindUnit(args.SourceName, args.Line, args.PackagePrefix)
		if found {
			output = fmt.Sprintf("%s:%d is compiled into:\n\n%s", args.SourceName, args.Line, FormatUnit(unit))
		} else {
			output = fmt.Sprintf("No compiled class covers %s:%d.", args.SourceName, args.Line)
		}
		if args.ShowAll {
			output += "\n" + FormatUnitList(args.SourceName, snap.Units.UnitsForSource(args.SourceName))
		}
		return nil
	})
	if err != nil {
		h.Logger.Error("classmap_find_unit failed", "sourceName", args.SourceName, "error", err)
		return errorResult("Lookup error: %v", err), nil, nil
	}

	h.Logger.Info("classmap_find_unit",
		"sourceName", args.SourceName,
		"line", args.Line,
		"packagePrefix", args.PackagePrefix,
		"found", found,
		"elapsed", time.Since(start),
	)
	return textResult(output), nil, nil
}

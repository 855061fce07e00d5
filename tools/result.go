package tools

import (
	"errors"
	"fmt"

	"github.com/lexandro/classmap-mcp/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// errNoIndex is returned while no snapshot has been published yet.
var errNoIndex = errors.New("index is not built yet")

// viewSnapshot runs fn against the current snapshot of holder.
func viewSnapshot(holder *index.Holder, fn func(snap *index.Snapshot) error) error {
	return holder.View(func(snap *index.Snapshot) error {
		if snap == nil {
			return errNoIndex
		}
		return fn(snap)
	})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

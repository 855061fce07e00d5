package server

import (
	"github.com/lexandro/classmap-mcp/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handlers groups the tool handlers registered on the server.
type Handlers struct {
	Resolve      *tools.ResolveHandler
	ResolveBatch *tools.ResolveBatchHandler
	FindUnit     *tools.FindUnitHandler
	Classes      *tools.ClassesHandler
	Sources      *tools.SourcesHandler
	Status       *tools.StatusHandler
	Reindex      *tools.ReindexHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(h Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "classmap-mcp",
			Version: "0.1.0",
		},
		&mcp.ServerOptions{
			Instructions: `This server maps between compiled JVM classes and the source files they were compiled from. It reads the class files in the project's output directory once and answers from memory.

Use these tools when working with JVM stack traces, profiler output or coverage data:
- Use classmap_resolve to turn a class name and line (e.g. from "at com.acme.Foo$Inner.run(Foo.scala:22)") into a source path
- Use classmap_resolve_batch for a whole stack trace at once
- Use classmap_find_unit to learn which compiled class a source line belongs to
- Use classmap_classes to search compiled class names
- The index does not follow recompilation; call classmap_reindex after a build`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "classmap_resolve",
		Description: `Map a compiled class location to its source file. The line number is passed through unchanged.

When several source files share the class's source name, the first registered one is used and all candidates are listed.`,
	}, h.Resolve.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "classmap_resolve_batch",
		Description: "Resolve many class locations at once. Results come back one per line, in input order; unknown classes are marked unresolved.",
	}, h.ResolveBatch.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "classmap_find_unit",
		Description: `Find the compiled class whose line range covers a source line.

When ranges nest (an inner class inside its outer class), the innermost class wins. packagePrefix narrows the match to classes in matching packages.`,
	}, h.FindUnit.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "classmap_classes",
		Description: `Search compiled classes by name.

Query formats:
  - Plain text: simple class name or case-insensitive prefix (e.g. "FooServ"), or a source file name (e.g. "Foo.scala")
  - "quoted": exact qualified name (e.g. "\"com.acme.Foo$Inner\"")
  - Wildcard over the qualified name (e.g. "com.acme.*Service")
  - /regex/: regular expression over the qualified name`,
	}, h.Classes.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "classmap_sources",
		Description: `List known source files, either every path carrying a bare name (name) or paths matching a glob (pattern).

Pattern examples:
  - "**/*.scala" - all Scala sources
  - "**/acme/**/Foo*.java" - Java files starting with Foo under an acme directory`,
	}, h.Sources.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "classmap_status",
		Description: "Show index status: compiled files and classes, skipped files, source files, languages, memory usage and uptime. Set checkDrift to compare against the output directory.",
	}, h.Status.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "classmap_reindex",
		Description: "Rebuild the index from the output directory. Queries keep using the previous index until the new one is complete.",
	}, h.Reindex.Handle)

	return mcpServer
}

package tools

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/lexandro/classmap-mcp/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	return result.Content[0].(*mcp.TextContent).Text
}

// newTestHolder publishes a snapshot for a small project: Foo.scala holds
// Foo, Foo$Inner and Bar; Util.java exists in two directories.
func newTestHolder(t *testing.T) *index.Holder {
	t.Helper()
	registry := index.NewSourceRegistry([]string{
		"/proj/src/com/acme/Foo.scala",
		"/proj/a/Util.java",
		"/proj/b/Util.java",
	})
	units := index.NewUnitIndex(registry)
	file := &index.IndexedFile{
		Path:         "/proj/out/classes.jar",
		RelativePath: "classes.jar",
		SizeBytes:    2048,
		ModTime:      time.Now(),
	}
	err := units.AddFile(file, []*index.CompiledUnit{
		{QualifiedName: "com.acme.Foo", PackageName: "com.acme", SourceName: "Foo.scala", CompiledFilePath: "/proj/out/classes.jar!/com/acme/Foo.class", StartLine: 10, EndLine: 40},
		{QualifiedName: "com.acme.Foo$Inner", PackageName: "com.acme", SourceName: "Foo.scala", CompiledFilePath: "/proj/out/classes.jar!/com/acme/Foo$Inner.class", StartLine: 20, EndLine: 25},
		{QualifiedName: "com.acme.Bar", PackageName: "com.acme", SourceName: "Foo.scala", CompiledFilePath: "/proj/out/classes.jar!/com/acme/Bar.class", StartLine: 50, EndLine: 60},
		{QualifiedName: "util.Util", PackageName: "util", SourceName: "Util.java", CompiledFilePath: "/proj/out/classes.jar!/util/Util.class", StartLine: 3, EndLine: 8},
		{QualifiedName: "gen.Synthetic", PackageName: "gen", CompiledFilePath: "/proj/out/classes.jar!/gen/Synthetic.class", StartLine: index.NoStartLine, EndLine: index.NoEndLine},
	})
	if err != nil {
		t.Fatal(err)
	}
	units.Seal()

	classes, err := index.NewClassSearchIndex(units.AllUnits())
	if err != nil {
		t.Fatal(err)
	}
	holder := index.NewHolder(&index.Snapshot{
		Units:   units,
		Classes: classes,
		Stats: index.ScanStats{
			FilesSeen:    2,
			FilesIndexed: 1,
			Skipped:      []index.SkippedFile{{RelativePath: "Broken.class", Err: "bad magic"}},
			Duration:     150 * time.Millisecond,
			BuiltAt:      time.Now(),
		},
	})
	t.Cleanup(func() { holder.Close() })
	return holder
}

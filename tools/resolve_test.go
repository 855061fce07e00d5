package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/lexandro/classmap-mcp/index"
)

func Test_ResolveHandler_EmptyClassName(t *testing.T) {
	h := &ResolveHandler{Holder: newTestHolder(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, ResolveArgs{Line: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty className")
	}
	if text := resultText(t, result); !strings.Contains(text, "className parameter is required") {
		t.Errorf("expected error about className, got: %s", text)
	}
}

func Test_ResolveHandler_Resolves(t *testing.T) {
	h := &ResolveHandler{Holder: newTestHolder(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, ResolveArgs{ClassName: "com.acme.Foo$Inner", Line: 22})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "com.acme.Foo$Inner:22 -> /proj/src/com/acme/Foo.scala:22") {
		t.Errorf("unexpected output:\n%s", text)
	}
	if strings.Contains(text, "candidate") {
		t.Errorf("expected no candidate list for an unambiguous class, got:\n%s", text)
	}
}

func Test_ResolveHandler_ListsCandidates(t *testing.T) {
	h := &ResolveHandler{Holder: newTestHolder(t), Logger: testLogger()}

	result, _, _ := h.Handle(context.Background(), nil, ResolveArgs{ClassName: "util.Util", Line: 5})
	text := resultText(t, result)

	if !strings.Contains(text, "-> /proj/a/Util.java:5") {
		t.Errorf("expected first candidate to win, got:\n%s", text)
	}
	if !strings.Contains(text, "2 candidate source files") || !strings.Contains(text, "/proj/b/Util.java") {
		t.Errorf("expected both candidates listed, got:\n%s", text)
	}
}

func Test_ResolveHandler_Unresolved(t *testing.T) {
	h := &ResolveHandler{Holder: newTestHolder(t), Logger: testLogger()}

	result, _, _ := h.Handle(context.Background(), nil, ResolveArgs{ClassName: "gen.Synthetic", Line: 7})
	if result.IsError {
		t.Fatal("an unresolved class is not an error")
	}
	if text := resultText(t, result); !strings.Contains(text, "No source file found for gen.Synthetic (line 7)") {
		t.Errorf("unexpected output:\n%s", text)
	}
}

func Test_ResolveHandler_NoIndex(t *testing.T) {
	h := &ResolveHandler{Holder: index.NewHolder(nil), Logger: testLogger()}

	result, _, _ := h.Handle(context.Background(), nil, ResolveArgs{ClassName: "a.B", Line: 1})
	if !result.IsError {
		t.Fatal("expected IsError=true without an index")
	}
	if text := resultText(t, result); !strings.Contains(text, "not built") {
		t.Errorf("unexpected output:\n%s", text)
	}
}

func Test_ResolveBatchHandler_PreservesOrder(t *testing.T) {
	h := &ResolveBatchHandler{Holder: newTestHolder(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, ResolveBatchArgs{Locations: []index.ClassLocation{
		{ClassName: "com.acme.Bar", Line: 55},
		{ClassName: "missing.Class", Line: 1},
		{ClassName: "com.acme.Foo", Line: 12},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(resultText(t, result)), "\n")
	want := []string{
		"com.acme.Bar:55 -> /proj/src/com/acme/Foo.scala:55",
		"missing.Class:1 -> (unresolved)",
		"com.acme.Foo:12 -> /proj/src/com/acme/Foo.scala:12",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), resultText(t, result))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func Test_ResolveBatchHandler_Empty(t *testing.T) {
	h := &ResolveBatchHandler{Holder: newTestHolder(t), Logger: testLogger()}

	result, _, _ := h.Handle(context.Background(), nil, ResolveBatchArgs{})
	if text := resultText(t, result); text != "No locations given." {
		t.Errorf("unexpected output: %q", text)
	}
}

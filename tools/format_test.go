package tools

import (
	"strings"
	"testing"

	"github.com/lexandro/classmap-mcp/index"
)

// --- formatFileSize ---

func Test_FormatFileSize_Bytes(t *testing.T) {
	got := formatFileSize(500)
	if got != "500 B" {
		t.Errorf("expected '500 B', got '%s'", got)
	}
}

func Test_FormatFileSize_Kilobytes(t *testing.T) {
	got := formatFileSize(2048)
	if got != "2.0 KB" {
		t.Errorf("expected '2.0 KB', got '%s'", got)
	}
}

func Test_FormatFileSize_Megabytes(t *testing.T) {
	got := formatFileSize(3 * 1024 * 1024)
	if got != "3.0 MB" {
		t.Errorf("expected '3.0 MB', got '%s'", got)
	}
}

// --- formatLineRange ---

func Test_FormatLineRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		expected   string
	}{
		{"Range", 10, 40, "lines 10-40"},
		{"SingleLine", 7, 7, "line 7"},
		{"NoLines", index.NoStartLine, index.NoEndLine, "no line information"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatLineRange(&index.CompiledUnit{StartLine: tt.start, EndLine: tt.end})
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// --- FormatResolution ---

func Test_FormatResolution_Unresolved(t *testing.T) {
	got := FormatResolution(index.ClassLocation{ClassName: "a.B", Line: 3}, index.SourceLocation{Line: 3}, nil)
	if got != "No source file found for a.B (line 3)." {
		t.Errorf("unexpected output: %q", got)
	}
}

func Test_FormatResolution_SingleCandidate(t *testing.T) {
	got := FormatResolution(
		index.ClassLocation{ClassName: "a.B", Line: 3},
		index.SourceLocation{Path: "/src/a/B.java", Line: 3},
		[]string{"/src/a/B.java"},
	)
	if got != "a.B:3 -> /src/a/B.java:3\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

// --- FormatUnit ---

func Test_FormatUnit_NoSourceAttribute(t *testing.T) {
	got := FormatUnit(&index.CompiledUnit{
		QualifiedName:    "gen.Synthetic",
		CompiledFilePath: "/out/gen/Synthetic.class",
		StartLine:        index.NoStartLine,
		EndLine:          index.NoEndLine,
	})
	for _, check := range []string{"gen.Synthetic", "(no source attribute)", "no line information", "/out/gen/Synthetic.class"} {
		if !strings.Contains(got, check) {
			t.Errorf("expected %q in output, got:\n%s", check, got)
		}
	}
}

// --- FormatClassResults ---

func Test_FormatClassResults_Empty(t *testing.T) {
	if got := FormatClassResults(nil, 0); got != "No classes matched." {
		t.Errorf("expected 'No classes matched.', got '%s'", got)
	}
}

func Test_FormatClassResults_Truncated(t *testing.T) {
	results := []index.ClassSearchResult{
		{Unit: &index.CompiledUnit{QualifiedName: "a.One", SourceName: "One.java", StartLine: 1, EndLine: 2}},
	}
	got := FormatClassResults(results, 12)
	if !strings.Contains(got, "Found 12 classes (showing 1)") {
		t.Errorf("expected truncation header, got:\n%s", got)
	}
}

// --- FormatSourcePaths ---

func Test_FormatSourcePaths(t *testing.T) {
	if got := FormatSourcePaths(nil); got != "No source files matched." {
		t.Errorf("unexpected empty output: %q", got)
	}
	got := FormatSourcePaths([]string{"/a/X.kt", "/b/Y.kt"})
	if !strings.HasPrefix(got, "Found 2 source files:") || !strings.HasSuffix(got, "/b/Y.kt\n") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/lexandro/classmap-mcp/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTestFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

// testConfig resolves a config for a project rooted at root with compiled
// output under root/out and sources under root/src.
func testConfig(t *testing.T, root string, workers int) *config.Config {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, "out"), 0755); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		OutputRoot:  "out",
		SourceRoots: []string{"src"},
		Workers:     workers,
	}
	if err := cfg.Resolve(root); err != nil {
		t.Fatal(err)
	}
	return cfg
}

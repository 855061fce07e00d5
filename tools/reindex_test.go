package tools

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func Test_ReindexHandler_Success(t *testing.T) {
	h := &ReindexHandler{
		DoReindex: func(ctx context.Context) (ReindexSummary, error) {
			return ReindexSummary{Files: 42, Units: 97, Skipped: 1, SizeBytes: 1024 * 1024, Elapsed: 1500 * time.Millisecond}, nil
		},
		Logger: testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, ReindexArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := resultText(t, result)
	for _, check := range []string{"Reindex complete", "97 classes", "42 files", "1.0 MB", "1 skipped", "1.5s"} {
		if !strings.Contains(text, check) {
			t.Errorf("expected %q, got:\n%s", check, text)
		}
	}
}

func Test_ReindexHandler_Error(t *testing.T) {
	h := &ReindexHandler{
		DoReindex: func(ctx context.Context) (ReindexSummary, error) {
			return ReindexSummary{}, fmt.Errorf("output root missing")
		},
		Logger: testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, ReindexArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for failed reindex")
	}
	if text := resultText(t, result); !strings.Contains(text, "output root missing") {
		t.Errorf("expected error message, got: %s", text)
	}
}

package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/internal/logging/console"
)

func TestConsoleLogger_WritesSortedFields(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2025, 2, 1, 10, 30, 0, 0, time.UTC)

	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
	})

	logger := logging.WithFields(provider.GetLogger("dyncms.records"), map[string]any{"module": "dyncms.records"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"request_id": "req-1"})
	logger = logger.WithContext(ctx)

	recordID := uuid.MustParse("2f1c4f6e-5c1f-4f36-9a55-7e0d9d0b51aa")
	logger.Info("record.create.success", "record_id", recordID, "title", "Hello world")

	got := strings.TrimSpace(buf.String())
	want := `2025-02-01T10:30:00Z INFO record.create.success logger=dyncms.records module=dyncms.records record_id=2f1c4f6e-5c1f-4f36-9a55-7e0d9d0b51aa request_id=req-1 title="Hello world"`
	if got != want {
		t.Fatalf("unexpected entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	level := console.LevelWarn
	logger := console.NewProvider(console.Options{Writer: &buf, MinLevel: &level}).GetLogger("test")

	logger.Info("dropped")
	logger.Error("kept", "error", errors.New("boom"))

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "dropped") {
		t.Fatalf("expected info entry to be filtered, got %q", out)
	}
	if !strings.Contains(out, "ERROR kept") || !strings.Contains(out, "error=boom") {
		t.Fatalf("expected error entry, got %q", out)
	}
}

func TestConsoleLogger_OddArgsArePositional(t *testing.T) {
	var buf bytes.Buffer
	logger := console.NewProvider(console.Options{Writer: &buf}).GetLogger("test")

	logger.Info("odd", "key", 1, "dangling")

	if !strings.Contains(buf.String(), "field_1=dangling") {
		t.Fatalf("expected positional field, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"debug":   console.LevelDebug,
		"WARNING": console.LevelWarn,
		"error":   console.LevelError,
		"bogus":   console.LevelInfo,
	}
	for input, want := range cases {
		if got := console.ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

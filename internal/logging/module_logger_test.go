package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-dyncms/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerWithoutProviderIsNoOp(t *testing.T) {
	logger := ModuleLogger(nil, RecordsModule)
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noop logger, got %T", logger)
	}
	logger.WithContext(context.Background()).Info("noop")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ModuleLogger(provider, CascadeModule).Info("hello")

	if len(provider.requested) != 1 || provider.requested[0] != CascadeModule {
		t.Fatalf("expected provider lookup for %s, got %v", CascadeModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != CascadeModule {
		t.Fatalf("expected module field, got %v", rec.fields)
	}
}

func TestModuleLoggerDefaultsToRoot(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ModuleLogger(provider, "  ")

	if provider.requested[0] != RootModule {
		t.Fatalf("expected root module, got %q", provider.requested[0])
	}
}

func TestWithContentTypeSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}
	WithContentType(rec, "abc", "")
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if _, ok := rec.fields[0]["content_type_slug"]; ok {
		t.Fatalf("expected empty slug to be skipped")
	}
	if rec.fields[0]["content_type_id"] != "abc" {
		t.Fatalf("unexpected fields %v", rec.fields[0])
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"a": 1})
	ctx = ContextWithFields(ctx, map[string]any{"b": 2})

	fields := ContextFields(ctx)
	if fields["a"] != 1 || fields["b"] != 2 {
		t.Fatalf("expected merged fields, got %v", fields)
	}
	fields["a"] = 99
	if ContextFields(ctx)["a"] != 1 {
		t.Fatalf("expected ContextFields to return a copy")
	}
}

package http_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/domain"
	dynhttp "github.com/goliatone/go-dyncms/internal/http"
	"github.com/goliatone/go-dyncms/internal/logging/console"
)

const secretDetail = "pq: password authentication failed for user admin at 10.0.0.5"

type failingHooks struct{ err error }

func (h failingHooks) AfterCreate(context.Context, *contenttypes.ContentType) error { return h.err }
func (h failingHooks) BeforeDelete(context.Context, *contenttypes.ContentType) error {
	return h.err
}

type lockedRepo struct {
	*contenttypes.MemoryRepository
}

func (lockedRepo) List(context.Context) ([]*contenttypes.ContentType, error) {
	return nil, errors.New("sql: database is locked /var/lib/dyncms.db")
}

func adminWith(t *testing.T, types contenttypes.Service, logs *bytes.Buffer) *http.ServeMux {
	t.Helper()
	provider := console.NewProvider(console.Options{Writer: logs})
	mux := http.NewServeMux()
	admin := dynhttp.NewAdminAPI(
		dynhttp.WithContentTypeService(types),
		dynhttp.WithLogger(provider.GetLogger("dyncms.http")),
	)
	if err := admin.Register(mux); err != nil {
		t.Fatalf("register admin: %v", err)
	}
	return mux
}

func TestCascadeFailureResponseHidesTransportDetail(t *testing.T) {
	transport := &domain.TransportFailure{Operation: "menu_item", Err: errors.New(secretDetail)}
	types := contenttypes.NewService(contenttypes.NewMemoryRepository(),
		contenttypes.WithHooks(failingHooks{err: transport}),
	)
	var logs bytes.Buffer
	mux := adminWith(t, types, &logs)

	rec := doJSON(t, mux, http.MethodPost, "/admin/api/content-types", map[string]any{"name": "Blog Post"}, nil, http.StatusInternalServerError)
	var body map[string]any
	decode(t, rec, &body)
	if body["error"] != "cascade_failed" {
		t.Fatalf("expected cascade_failed, got %v", body)
	}
	message, _ := body["message"].(string)
	if !strings.Contains(message, domain.TransportMessage) {
		t.Fatalf("expected generic transport text, got %q", message)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") || strings.Contains(rec.Body.String(), "pq:") {
		t.Fatalf("response leaked transport detail: %s", rec.Body.String())
	}
	if !strings.Contains(logs.String(), "10.0.0.5") {
		t.Fatalf("expected transport detail in logs, got %q", logs.String())
	}
}

func TestInternalErrorResponseIsGeneric(t *testing.T) {
	types := contenttypes.NewService(lockedRepo{MemoryRepository: contenttypes.NewMemoryRepository()})
	var logs bytes.Buffer
	mux := adminWith(t, types, &logs)

	rec := doJSON(t, mux, http.MethodGet, "/admin/api/content-types", nil, nil, http.StatusInternalServerError)
	if strings.Contains(rec.Body.String(), "/var/lib/dyncms.db") {
		t.Fatalf("response leaked error detail: %s", rec.Body.String())
	}
	var body map[string]any
	decode(t, rec, &body)
	if body["error"] != "internal_error" || body["message"] == "" {
		t.Fatalf("unexpected body: %v", body)
	}
	if !strings.Contains(logs.String(), "database is locked") {
		t.Fatalf("expected detail in logs, got %q", logs.String())
	}
}

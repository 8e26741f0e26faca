package replication_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/replication"
	"github.com/goliatone/go-dyncms/pkg/activity"
)

type call struct {
	op         string
	collection string
	id         string
}

type fakeRemote struct {
	mu    sync.Mutex
	calls []call
	fail  bool
}

func (f *fakeRemote) record(op, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op, collection, id})
	if f.fail {
		return errors.New("remote offline")
	}
	return nil
}

func (f *fakeRemote) Create(_ context.Context, collection, id string, _ any) error {
	return f.record("create", collection, id)
}

func (f *fakeRemote) Patch(_ context.Context, collection, id string, _ any) error {
	return f.record("patch", collection, id)
}

func (f *fakeRemote) Delete(_ context.Context, collection, id string) error {
	return f.record("delete", collection, id)
}

func TestReplicatorDrainsQueueOnClose(t *testing.T) {
	remote := &fakeRemote{}
	r := replication.New(remote)
	r.Start(context.Background())

	for _, job := range []replication.Job{
		{Op: replication.OpCreate, Collection: domain.CollectionContentTypes, ID: "1", Payload: map[string]any{"name": "x"}},
		{Op: replication.OpPatch, Collection: domain.CollectionContentTypes, ID: "1", Payload: map[string]any{"name": "y"}},
		{Op: replication.OpDelete, Collection: domain.CollectionContentTypes, ID: "1"},
	} {
		if err := r.Enqueue(job); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(remote.calls) != 3 || remote.calls[0].op != "create" || remote.calls[2].op != "delete" {
		t.Fatalf("unexpected calls: %+v", remote.calls)
	}
	if err := r.Enqueue(replication.Job{Op: replication.OpDelete}); !errors.Is(err, replication.ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
}

func TestReplicatorFailuresDoNotSurface(t *testing.T) {
	remote := &fakeRemote{fail: true}
	results := make(chan error, 1)
	r := replication.New(remote, replication.WithResultHook(func(_ replication.Job, err error) { results <- err }))
	r.Start(context.Background())
	defer r.Close()

	if err := r.Enqueue(replication.Job{Op: replication.OpDelete, Collection: domain.CollectionUsers, ID: "u1"}); err != nil {
		t.Fatalf("enqueue should not fail: %v", err)
	}
	if err := <-results; err == nil {
		t.Fatalf("expected the remote error to reach the result hook")
	}
}

func TestHookMapsActivityEvents(t *testing.T) {
	remote := &fakeRemote{}
	r := replication.New(remote)
	r.Start(context.Background())
	emitter := activity.NewEmitter(activity.Hooks{replication.Hook{Replicator: r}}, activity.Config{Enabled: true})

	ctx := context.Background()
	_ = emitter.Emit(ctx, activity.Event{Verb: "create", ObjectType: "menu_item", ObjectID: "m1", Object: map[string]any{"label": "a"}})
	_ = emitter.Emit(ctx, activity.Event{Verb: "update", ObjectType: "content_record", ObjectID: "r1", Object: map[string]any{}})
	_ = emitter.Emit(ctx, activity.Event{Verb: "delete", ObjectType: "content_type", ObjectID: "c1"})
	_ = emitter.Emit(ctx, activity.Event{Verb: "create", ObjectType: "unknown", ObjectID: "x"})
	_ = r.Close()

	want := []call{
		{"create", "menuItems", "m1"},
		{"patch", "content", "r1"},
		{"delete", "contentTypes", "c1"},
	}
	if len(remote.calls) != len(want) {
		t.Fatalf("unexpected calls: %+v", remote.calls)
	}
	for i := range want {
		if remote.calls[i] != want[i] {
			t.Fatalf("call %d: expected %+v, got %+v", i, want[i], remote.calls[i])
		}
	}
}

func TestHTTPStoreRoutes(t *testing.T) {
	var mu sync.Mutex
	seen := []string{}
	var created map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, req.Method+" "+req.URL.Path)
		if req.Method == http.MethodPost {
			_ = json.NewDecoder(req.Body).Decode(&created)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := replication.NewHTTPStore(server.URL+"/", nil)
	ctx := context.Background()
	if err := store.Create(ctx, "contentTypes", "abc", map[string]any{"name": "Blog"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Patch(ctx, "contentTypes", "abc", map[string]any{"name": "Post"}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if err := store.Delete(ctx, "contentTypes", "abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{"POST /contentTypes", "PATCH /contentTypes/abc", "DELETE /contentTypes/abc"}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("request %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
	if created["id"] != "abc" {
		t.Fatalf("expected id merged into create payload, got %#v", created)
	}
}

func TestHTTPStoreReportsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := replication.NewHTTPStore(server.URL, nil).Delete(context.Background(), "users", "1")
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport failure, got %v", err)
	}
}

package notify_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-dyncms/internal/notify"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	"github.com/google/uuid"
)

func TestMessages(t *testing.T) {
	id := uuid.New()
	ok := notify.Success("Blog Post", id, notify.ActionCreate)
	if ok.Message != "Blog Post item created successfully" || ok.Level != interfaces.NoticeSuccess || ok.ContentTypeID != id {
		t.Fatalf("unexpected success notice: %+v", ok)
	}
	failed := notify.Failure("Blog Post", id, notify.ActionDelete)
	if failed.Message != "Failed to delete blog post item. Please try again." || failed.Level != interfaces.NoticeError {
		t.Fatalf("unexpected failure notice: %+v", failed)
	}
	if got := notify.Success("", id, notify.ActionUpdate).Message; got != "Content item updated successfully" {
		t.Fatalf("unexpected fallback name: %q", got)
	}
}

func TestRecorderAndMulti(t *testing.T) {
	first := notify.NewRecorder()
	second := notify.NewRecorder()
	n := notify.Multi(first, nil, second, notify.Logger(nil))

	n.Notify(context.Background(), notify.Success("Page", uuid.Nil, notify.ActionCreate))
	if len(first.Notices()) != 1 || len(second.Notices()) != 1 {
		t.Fatalf("expected both recorders to receive the notice")
	}
	last, ok := first.Last()
	if !ok || last.Action != notify.ActionCreate {
		t.Fatalf("unexpected last notice: %+v", last)
	}
	if drained := first.Drain(); len(drained) != 1 || len(first.Notices()) != 0 {
		t.Fatalf("expected drain to clear notices")
	}
}

package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-dyncms/pkg/activity"
)

func TestEmitterStampsAndFansOut(t *testing.T) {
	var got []activity.Event
	record := activity.HookFunc(func(_ context.Context, event activity.Event) error {
		got = append(got, event)
		return nil
	})
	failing := activity.HookFunc(func(context.Context, activity.Event) error {
		return errors.New("sink down")
	})

	emitter := activity.NewEmitter(activity.Hooks{record, failing, record}, activity.Config{Enabled: true})
	err := emitter.Emit(context.Background(), activity.Event{Verb: "create", ObjectType: "content_type", ObjectID: "x"})
	if err == nil {
		t.Fatalf("expected joined hook error")
	}
	if len(got) != 2 {
		t.Fatalf("expected every hook to run, got %d events", len(got))
	}
	if got[0].Channel != "dyncms" || got[0].DefinitionCode != "content_type:create" || got[0].OccurredAt.IsZero() {
		t.Fatalf("expected stamped event, got %+v", got[0])
	}
}

func TestEmitterDisabled(t *testing.T) {
	called := false
	hook := activity.HookFunc(func(context.Context, activity.Event) error {
		called = true
		return nil
	})
	emitter := activity.NewEmitter(activity.Hooks{hook}, activity.Config{})
	if emitter.Enabled() {
		t.Fatalf("expected disabled emitter")
	}
	_ = emitter.Emit(context.Background(), activity.Event{Verb: "create"})
	var nilEmitter *activity.Emitter
	_ = nilEmitter.Emit(context.Background(), activity.Event{Verb: "create"})
	if called {
		t.Fatalf("expected no hook calls")
	}
}

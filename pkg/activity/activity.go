// Package activity fans schema and record mutation events out to hooks such
// as the go-users activity sink adapter in usersink.
package activity

import (
	"context"
	"errors"
	"maps"
	"strings"
	"time"
)

// Event describes one mutation.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
	// Object is the entity after the mutation, or before it for deletes.
	Object any
}

// Hook receives emitted events.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

type HookFunc func(ctx context.Context, event Event) error

func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	return fn(ctx, event)
}

type Hooks []Hook

// Config controls emitter defaults.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter stamps events and forwards them to every hook.
type Emitter struct {
	hooks   Hooks
	enabled bool
	channel string
	now     func() time.Time
}

func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = "dyncms"
	}
	return &Emitter{
		hooks:   append(Hooks(nil), hooks...),
		enabled: cfg.Enabled && len(hooks) > 0,
		channel: channel,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Emit forwards event to all hooks. Hook errors are joined; every hook runs.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() || strings.TrimSpace(event.Verb) == "" {
		return nil
	}
	if event.Channel == "" {
		event.Channel = e.channel
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now()
	}
	if event.DefinitionCode == "" && event.ObjectType != "" {
		event.DefinitionCode = event.ObjectType + ":" + event.Verb
	}
	event.Metadata = maps.Clone(event.Metadata)

	var errs []error
	for _, hook := range e.hooks {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

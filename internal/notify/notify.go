package notify

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	"github.com/google/uuid"
)

// Record actions named in notices.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

var pastTense = map[string]string{
	ActionCreate: "created",
	ActionUpdate: "updated",
	ActionDelete: "deleted",
}

// Success builds "<Type> item created successfully".
func Success(typeName string, contentTypeID uuid.UUID, action string) interfaces.Notice {
	verb, ok := pastTense[action]
	if !ok {
		verb = action
	}
	return interfaces.Notice{
		Level:         interfaces.NoticeSuccess,
		Message:       displayName(typeName) + " item " + verb + " successfully",
		ContentTypeID: contentTypeID,
		Action:        action,
	}
}

// Failure builds the generic retryable notice. It never carries error detail.
func Failure(typeName string, contentTypeID uuid.UUID, action string) interfaces.Notice {
	return interfaces.Notice{
		Level:         interfaces.NoticeError,
		Message:       "Failed to " + action + " " + strings.ToLower(displayName(typeName)) + " item. Please try again.",
		ContentTypeID: contentTypeID,
		Action:        action,
	}
}

func displayName(typeName string) string {
	name := strings.TrimSpace(typeName)
	if name == "" {
		return "Content"
	}
	return name
}

// NoOp drops every notice.
func NoOp() interfaces.Notifier { return noop{} }

type noop struct{}

func (noop) Notify(context.Context, interfaces.Notice) {}

// Func adapts a function to interfaces.Notifier.
type Func func(ctx context.Context, notice interfaces.Notice)

func (fn Func) Notify(ctx context.Context, notice interfaces.Notice) { fn(ctx, notice) }

// Multi forwards to every notifier in order.
func Multi(notifiers ...interfaces.Notifier) interfaces.Notifier {
	out := make([]interfaces.Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return multi(out)
}

type multi []interfaces.Notifier

func (m multi) Notify(ctx context.Context, notice interfaces.Notice) {
	for _, n := range m {
		n.Notify(ctx, notice)
	}
}

// Logger writes notices as log entries.
func Logger(logger interfaces.Logger) interfaces.Notifier {
	return loggerNotifier{logger: logging.Or(logger)}
}

type loggerNotifier struct {
	logger interfaces.Logger
}

func (l loggerNotifier) Notify(ctx context.Context, notice interfaces.Notice) {
	logger := l.logger.WithContext(ctx)
	args := []any{"message", notice.Message, "action", notice.Action}
	if notice.ContentTypeID != uuid.Nil {
		args = append(args, "content_type_id", notice.ContentTypeID.String())
	}
	if notice.Level == interfaces.NoticeError {
		logger.Warn("notice.error", args...)
		return
	}
	logger.Info("notice.success", args...)
}

// Recorder keeps delivered notices in memory. The HTTP layer drains it to
// attach notices to responses; tests inspect it directly.
type Recorder struct {
	mu      sync.Mutex
	notices []interfaces.Notice
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Notify(_ context.Context, notice interfaces.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []interfaces.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]interfaces.Notice(nil), r.notices...)
}

// Drain returns and clears the recorded notices.
func (r *Recorder) Drain() []interfaces.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.notices
	r.notices = nil
	return out
}

// Last returns the most recent notice.
func (r *Recorder) Last() (interfaces.Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return interfaces.Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

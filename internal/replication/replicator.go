// Package replication mirrors local writes to a best-effort remote store.
// The local store stays authoritative; replication never blocks or fails a
// caller.
package replication

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
)

// Op is the remote operation kind.
type Op string

const (
	OpCreate Op = "create"
	OpPatch  Op = "patch"
	OpDelete Op = "delete"
)

// Job is one queued remote write.
type Job struct {
	Op         Op
	Collection domain.Collection
	ID         string
	Payload    any
}

var ErrClosed = errors.New("replication: replicator closed")

const (
	DefaultQueueSize = 256
	DefaultTimeout   = 10 * time.Second
)

type Option func(*Replicator)

func WithQueueSize(size int) Option {
	return func(r *Replicator) {
		if size > 0 {
			r.queueSize = size
		}
	}
}

// WithTimeout bounds each remote call.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Replicator) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(r *Replicator) {
		r.logger = logging.Or(logger)
	}
}

// WithResultHook observes the outcome of every job. Tests use it to wait
// for the worker.
func WithResultHook(fn func(Job, error)) Option {
	return func(r *Replicator) {
		r.onResult = fn
	}
}

// Replicator drains a bounded queue with one worker goroutine.
type Replicator struct {
	remote    interfaces.RemoteStore
	queueSize int
	timeout   time.Duration
	logger    interfaces.Logger
	onResult  func(Job, error)

	mu      sync.Mutex
	queue   chan Job
	started bool
	closed  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(remote interfaces.RemoteStore, opts ...Option) *Replicator {
	r := &Replicator{
		remote:    remote,
		queueSize: DefaultQueueSize,
		timeout:   DefaultTimeout,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.queue = make(chan Job, r.queueSize)
	r.done = make(chan struct{})
	return r
}

// Start launches the worker, which runs until ctx is cancelled or Close
// drains the queue. Repeated calls are ignored.
func (r *Replicator) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.closed {
		return
	}
	r.started = true
	workerCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	go r.run(workerCtx)
}

// Enqueue adds a job without blocking. A full queue drops the job and logs
// it.
func (r *Replicator) Enqueue(job Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	select {
	case r.queue <- job:
		return nil
	default:
		r.logger.Warn("replication.queue.full",
			"collection", string(job.Collection),
			"id", job.ID,
			"op", string(job.Op),
		)
		return nil
	}
}

// Close stops accepting jobs, drains what is queued and waits for the
// worker.
func (r *Replicator) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.queue)
	started := r.started
	r.mu.Unlock()

	if !started {
		return nil
	}
	<-r.done
	if r.cancel != nil {
		r.cancel()
	}
	return nil
}

func (r *Replicator) run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-r.queue:
			if !ok {
				return
			}
			r.handle(ctx, job)
		}
	}
}

func (r *Replicator) handle(ctx context.Context, job Job) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.call(callCtx, job)
	if err != nil {
		r.logger.Error("replication.job.failed",
			"collection", string(job.Collection),
			"id", job.ID,
			"op", string(job.Op),
			"error", err,
		)
	} else {
		r.logger.Debug("replication.job.success",
			"collection", string(job.Collection),
			"id", job.ID,
			"op", string(job.Op),
		)
	}
	if r.onResult != nil {
		r.onResult(job, err)
	}
}

func (r *Replicator) call(ctx context.Context, job Job) error {
	if r.remote == nil {
		return nil
	}
	collection := string(job.Collection)
	switch job.Op {
	case OpCreate:
		return r.remote.Create(ctx, collection, job.ID, job.Payload)
	case OpPatch:
		return r.remote.Patch(ctx, collection, job.ID, job.Payload)
	case OpDelete:
		return r.remote.Delete(ctx, collection, job.ID)
	default:
		return errors.New("replication: unknown op " + string(job.Op))
	}
}

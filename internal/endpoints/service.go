package endpoints

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/identity"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/internal/routes"
	"github.com/goliatone/go-dyncms/pkg/activity"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	"github.com/google/uuid"
)

// Service manages generated endpoint descriptors.
type Service interface {
	Create(ctx context.Context, req CreateEndpointRequest) (*Endpoint, error)
	Get(ctx context.Context, id uuid.UUID) (*Endpoint, error)
	List(ctx context.Context) ([]*Endpoint, error)
	ListByContentType(ctx context.Context, contentTypeID uuid.UUID) ([]*Endpoint, error)
	UpdatePath(ctx context.Context, id uuid.UUID, slug string) (*Endpoint, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByContentType(ctx context.Context, contentTypeID uuid.UUID) ([]uuid.UUID, error)
	PathFor(slug string) (string, error)
}

// CreateEndpointRequest derives the path from Slug. Method defaults to GET.
type CreateEndpointRequest struct {
	ContentTypeID uuid.UUID
	Slug          string
	Method        Method
}

type Repository interface {
	Create(ctx context.Context, endpoint *Endpoint) (*Endpoint, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Endpoint, error)
	List(ctx context.Context) ([]*Endpoint, error)
	ListByContentType(ctx context.Context, contentTypeID uuid.UUID) ([]*Endpoint, error)
	Update(ctx context.Context, endpoint *Endpoint) (*Endpoint, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByContentType(ctx context.Context, contentTypeID uuid.UUID) ([]uuid.UUID, error)
}

// ActivityObjectType tags endpoint activity events.
const ActivityObjectType = "api_endpoint"

var (
	ErrContentTypeRequired = errors.New("endpoint: content type is required")
	ErrSlugRequired        = errors.New("endpoint: slug is required")
	ErrMethodInvalid       = errors.New("endpoint: method must be GET, POST, PUT or DELETE")
)

type Option func(*service)

func WithClock(clock func() time.Time) Option {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

func WithIDGenerator(generator identity.Generator) Option {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithRoutes overrides how paths are derived from slugs.
func WithRoutes(builder routes.Builder) Option {
	return func(s *service) {
		if builder != nil {
			s.routes = builder
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(s *service) {
		s.logger = logging.Or(logger)
	}
}

func WithActivity(emitter *activity.Emitter) Option {
	return func(s *service) {
		s.activity = emitter
	}
}

type service struct {
	repo     Repository
	routes   routes.Builder
	now      func() time.Time
	id       identity.Generator
	logger   interfaces.Logger
	activity *activity.Emitter
}

func NewService(repo Repository, opts ...Option) Service {
	s := &service{
		repo:   repo,
		routes: routes.Static(),
		now:    func() time.Time { return time.Now().UTC() },
		id:     identity.Random,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *service) PathFor(slug string) (string, error) {
	if strings.TrimSpace(slug) == "" {
		return "", domain.NewValidationError("slug", ErrSlugRequired.Error())
	}
	return s.routes.EndpointPath(slug)
}

func (s *service) Create(ctx context.Context, req CreateEndpointRequest) (*Endpoint, error) {
	if req.ContentTypeID == uuid.Nil {
		return nil, domain.NewValidationError("contentTypeId", ErrContentTypeRequired.Error())
	}
	method := MethodGet
	if req.Method != "" {
		parsed, ok := ParseMethod(string(req.Method))
		if !ok {
			return nil, domain.NewValidationError("method", ErrMethodInvalid.Error())
		}
		method = parsed
	}
	path, err := s.PathFor(req.Slug)
	if err != nil {
		return nil, err
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &Endpoint{
		ID:            s.id(),
		Path:          path,
		Method:        method,
		ContentTypeID: req.ContentTypeID,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		s.logger.Error("endpoint.create.failed", "path", path, "error", err)
		return nil, err
	}
	s.logger.Info("endpoint.create.success", "path", created.Path, "method", string(created.Method))
	s.emit(ctx, "create", created.ID, created)
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Endpoint, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Endpoint, error) {
	return s.repo.List(ctx)
}

func (s *service) ListByContentType(ctx context.Context, contentTypeID uuid.UUID) ([]*Endpoint, error) {
	return s.repo.ListByContentType(ctx, contentTypeID)
}

// UpdatePath re-derives the path from slug. The method is fixed at creation.
func (s *service) UpdatePath(ctx context.Context, id uuid.UUID, slug string) (*Endpoint, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	path, err := s.PathFor(slug)
	if err != nil {
		return nil, err
	}
	if existing.Path == path {
		return existing, nil
	}
	previous := existing.Path
	existing.Path = path
	existing.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		s.logger.Error("endpoint.update.failed", "path", path, "error", err)
		return nil, err
	}
	s.logger.Info("endpoint.update.success", "from", previous, "to", updated.Path)
	s.emit(ctx, "update", updated.ID, updated)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, "delete", id, nil)
	return nil
}

// DeleteByContentType returns the removed ids. Activity is left to the
// caller.
func (s *service) DeleteByContentType(ctx context.Context, contentTypeID uuid.UUID) ([]uuid.UUID, error) {
	removed, err := s.repo.DeleteByContentType(ctx, contentTypeID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("endpoint.delete_by_type.success", "content_type_id", contentTypeID.String(), "removed", len(removed))
	return removed, nil
}

func (s *service) emit(ctx context.Context, verb string, id uuid.UUID, endpoint *Endpoint) {
	if !s.activity.Enabled() {
		return
	}
	event := activity.Event{
		Verb:       verb,
		ObjectType: ActivityObjectType,
		ObjectID:   id.String(),
	}
	if endpoint != nil {
		event.Object = cloneEndpoint(endpoint)
		event.Metadata = map[string]any{
			"path":            endpoint.Path,
			"method":          string(endpoint.Method),
			"content_type_id": endpoint.ContentTypeID.String(),
		}
	}
	if err := s.activity.Emit(ctx, event); err != nil {
		s.logger.Warn("endpoint.activity.failed", "error", err)
	}
}

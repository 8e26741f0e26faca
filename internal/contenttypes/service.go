package contenttypes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/internal/identity"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/pkg/activity"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	"github.com/google/uuid"
)

// Service manages content type definitions.
type Service interface {
	Create(ctx context.Context, req CreateContentTypeRequest) (*ContentType, error)
	Update(ctx context.Context, req UpdateContentTypeRequest) (*ContentType, error)
	Delete(ctx context.Context, req DeleteContentTypeRequest) error
	Get(ctx context.Context, id uuid.UUID) (*ContentType, error)
	GetBySlug(ctx context.Context, slug string) (*ContentType, error)
	List(ctx context.Context) ([]*ContentType, error)
}

// CreateContentTypeRequest captures a new schema. Name and Slug are both
// required; callers that want a name-derived slug use DefaultSlug.
type CreateContentTypeRequest struct {
	Name   string
	Slug   string
	Icon   string
	Fields []Field
}

// UpdateContentTypeRequest merges the non-nil members into the stored type.
type UpdateContentTypeRequest struct {
	ID     uuid.UUID
	Name   *string
	Slug   *string
	Icon   *string
	Fields *[]Field
}

type DeleteContentTypeRequest struct {
	ID uuid.UUID
}

// Hooks keep dependent collections in step with schema lifecycle changes.
type Hooks interface {
	AfterCreate(ctx context.Context, ct *ContentType) error
	BeforeDelete(ctx context.Context, ct *ContentType) error
}

var (
	ErrNameRequired      = errors.New("content type: name is required")
	ErrSlugRequired      = errors.New("content type: slug is required")
	ErrSlugInvalid       = errors.New("content type: slug must contain only a-z, 0-9 and hyphens")
	ErrSlugExists        = errors.New("content type: slug already exists")
	ErrFieldNameRequired = errors.New("content type: field name is required")
	ErrFieldNameExists   = errors.New("content type: field names must be unique")
	ErrFieldTypeUnknown  = errors.New("content type: unknown field type")
	ErrIDRequired        = errors.New("content type: id required")
)

// Repository abstracts content type storage.
type Repository interface {
	Create(ctx context.Context, record *ContentType) (*ContentType, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ContentType, error)
	GetBySlug(ctx context.Context, slug string) (*ContentType, error)
	List(ctx context.Context) ([]*ContentType, error)
	Update(ctx context.Context, record *ContentType) (*ContentType, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

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

// WithHooks installs the cascade hooks.
func WithHooks(hooks Hooks) Option {
	return func(s *service) {
		s.hooks = hooks
	}
}

// WithRegistry overrides the field type registry used to check field types.
func WithRegistry(registry *fields.Registry) Option {
	return func(s *service) {
		if registry != nil {
			s.registry = registry
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
	registry *fields.Registry
	hooks    Hooks
	now      func() time.Time
	id       identity.Generator
	logger   interfaces.Logger
	activity *activity.Emitter
}

func NewService(repo Repository, opts ...Option) Service {
	s := &service{
		repo:     repo,
		registry: fields.Default(),
		now:      func() time.Time { return time.Now().UTC() },
		id:       identity.Random,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateContentTypeRequest) (*ContentType, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", ErrNameRequired.Error())
	}
	slugValue, err := resolveSlug(req.Slug)
	if err != nil {
		return nil, err
	}
	normalized, err := s.normalizeFields(req.Fields)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugAvailable(ctx, slugValue, uuid.Nil); err != nil {
		return nil, err
	}

	now := s.now()
	record := &ContentType{
		ID:        s.id(),
		Name:      name,
		Slug:      slugValue,
		Icon:      strings.TrimSpace(req.Icon),
		Fields:    normalized,
		CreatedAt: now,
		UpdatedAt: now,
	}

	logger := logging.WithContentType(s.logger, record.ID.String(), record.Slug)
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		logger.Error("content_type.create.failed", "error", err)
		return nil, err
	}

	if s.hooks != nil {
		if hookErr := s.hooks.AfterCreate(ctx, cloneContentType(created)); hookErr != nil {
			if delErr := s.repo.Delete(ctx, created.ID); delErr != nil {
				logger.Error("content_type.create.rollback_failed", "error", delErr)
			}
			logger.Error("content_type.create.cascade_failed", "error", hookErr)
			return nil, asCascadeFailure(created.ID, "create", hookErr)
		}
	}

	logger.Info("content_type.create.success", "fields", len(created.Fields))
	s.emit(ctx, "create", created)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateContentTypeRequest) (*ContentType, error) {
	if req.ID == uuid.Nil {
		return nil, domain.NewValidationError("id", ErrIDRequired.Error())
	}
	existing, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updated := cloneContentType(existing)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", ErrNameRequired.Error())
		}
		updated.Name = name
	}
	if req.Slug != nil {
		slugValue, err := resolveSlug(*req.Slug)
		if err != nil {
			return nil, err
		}
		if slugValue != existing.Slug {
			if err := s.ensureSlugAvailable(ctx, slugValue, existing.ID); err != nil {
				return nil, err
			}
		}
		updated.Slug = slugValue
	}
	if req.Icon != nil {
		updated.Icon = strings.TrimSpace(*req.Icon)
	}
	if req.Fields != nil {
		normalized, err := s.normalizeFields(*req.Fields)
		if err != nil {
			return nil, err
		}
		updated.Fields = normalized
	}
	updated.UpdatedAt = s.now()

	logger := logging.WithContentType(s.logger, updated.ID.String(), updated.Slug)
	result, err := s.repo.Update(ctx, updated)
	if err != nil {
		logger.Error("content_type.update.failed", "error", err)
		return nil, err
	}
	logger.Info("content_type.update.success", "renamed", existing.Slug != result.Slug || existing.Name != result.Name)
	s.emit(ctx, "update", result)
	return result, nil
}

func (s *service) Delete(ctx context.Context, req DeleteContentTypeRequest) error {
	if req.ID == uuid.Nil {
		return domain.NewValidationError("id", ErrIDRequired.Error())
	}
	existing, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	logger := logging.WithContentType(s.logger, existing.ID.String(), existing.Slug)
	if s.hooks != nil {
		if err := s.hooks.BeforeDelete(ctx, cloneContentType(existing)); err != nil {
			logger.Error("content_type.delete.cascade_failed", "error", err)
			return asCascadeFailure(existing.ID, "delete", err)
		}
	}
	if err := s.repo.Delete(ctx, existing.ID); err != nil {
		logger.Error("content_type.delete.failed", "error", err)
		return err
	}
	logger.Info("content_type.delete.success")
	s.emit(ctx, "delete", existing)
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ContentType, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slugValue string) (*ContentType, error) {
	return s.repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slugValue)))
}

func (s *service) List(ctx context.Context) ([]*ContentType, error) {
	return s.repo.List(ctx)
}

func (s *service) ensureSlugAvailable(ctx context.Context, slugValue string, self uuid.UUID) error {
	existing, err := s.repo.GetBySlug(ctx, slugValue)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing != nil && existing.ID != self {
		return domain.NewValidationError("slug", ErrSlugExists.Error())
	}
	return nil
}

// normalizeFields checks names and types, assigns missing ids and drops
// options from types that do not use them.
func (s *service) normalizeFields(list []Field) ([]Field, error) {
	out := make([]Field, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, field := range cloneFields(list) {
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return nil, domain.NewValidationError("fields", ErrFieldNameRequired.Error())
		}
		key := strings.ToLower(field.Name)
		if _, dup := seen[key]; dup {
			return nil, domain.NewValidationError("fields", ErrFieldNameExists.Error()+": "+field.Name)
		}
		seen[key] = struct{}{}

		if field.Type == "" {
			field.Type = fields.TypeText
		}
		def, ok := s.registry.Lookup(field.Type)
		if !ok {
			return nil, domain.NewValidationError("fields", ErrFieldTypeUnknown.Error()+": "+string(field.Type))
		}
		if !def.NeedsOptions {
			field.Options = nil
		}
		if strings.TrimSpace(field.ID) == "" {
			field.ID = s.id().String()
		}
		out = append(out, field)
	}
	return out, nil
}

func (s *service) emit(ctx context.Context, verb string, ct *ContentType) {
	if !s.activity.Enabled() || ct == nil {
		return
	}
	err := s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ObjectType: "content_type",
		ObjectID:   ct.ID.String(),
		Object:     cloneContentType(ct),
		Metadata: map[string]any{
			"name": ct.Name,
			"slug": ct.Slug,
		},
	})
	if err != nil {
		s.logger.Warn("content_type.activity.failed", "error", err)
	}
}

func resolveSlug(explicit string) (string, error) {
	candidate := strings.ToLower(strings.TrimSpace(explicit))
	if candidate == "" {
		return "", domain.NewValidationError("slug", ErrSlugRequired.Error())
	}
	if !ValidSlug(candidate) {
		return "", domain.NewValidationError("slug", ErrSlugInvalid.Error())
	}
	return candidate, nil
}

func asCascadeFailure(id uuid.UUID, step string, err error) error {
	var cascade *domain.CascadeFailure
	if errors.As(err, &cascade) {
		return err
	}
	return &domain.CascadeFailure{ContentTypeID: id, Step: step, Err: err}
}

package records

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/internal/identity"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/internal/notify"
	"github.com/goliatone/go-dyncms/pkg/activity"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	"github.com/google/uuid"
)

// Service manages content records. The owning schema is resolved on every
// call; no copy of it is kept.
type Service interface {
	ListByType(ctx context.Context, contentTypeID uuid.UUID) ([]*Record, error)
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	Create(ctx context.Context, req CreateRecordRequest) (*Record, error)
	Update(ctx context.Context, req UpdateRecordRequest) (*Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByType(ctx context.Context, contentTypeID uuid.UUID) ([]uuid.UUID, error)
}

type CreateRecordRequest struct {
	ContentTypeID uuid.UUID
	Values        fields.Values
}

// UpdateRecordRequest merges Values into the stored record.
type UpdateRecordRequest struct {
	ID     uuid.UUID
	Values fields.Values
}

// SchemaResolver returns the current definition of a content type.
type SchemaResolver interface {
	Get(ctx context.Context, id uuid.UUID) (*contenttypes.ContentType, error)
}

// Repository abstracts record storage.
type Repository interface {
	Create(ctx context.Context, record *Record) (*Record, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	ListByType(ctx context.Context, contentTypeID uuid.UUID) ([]*Record, error)
	Update(ctx context.Context, record *Record) (*Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByType(ctx context.Context, contentTypeID uuid.UUID) ([]uuid.UUID, error)
}

// ActivityObjectType tags record activity events.
const ActivityObjectType = "content_record"

var (
	ErrContentTypeRequired = errors.New("content record: content type is required")
	ErrContentTypeUnknown  = errors.New("content record: content type does not exist")
	ErrIDRequired          = errors.New("content record: id required")
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

func WithRegistry(registry *fields.Registry) Option {
	return func(s *service) {
		if registry != nil {
			s.registry = registry
		}
	}
}

func WithNotifier(notifier interfaces.Notifier) Option {
	return func(s *service) {
		if notifier != nil {
			s.notifier = notifier
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
	schemas  SchemaResolver
	registry *fields.Registry
	notifier interfaces.Notifier
	now      func() time.Time
	id       identity.Generator
	logger   interfaces.Logger
	activity *activity.Emitter
}

func NewService(repo Repository, schemas SchemaResolver, opts ...Option) Service {
	s := &service{
		repo:     repo,
		schemas:  schemas,
		registry: fields.Default(),
		notifier: notify.NoOp(),
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

func (s *service) ListByType(ctx context.Context, contentTypeID uuid.UUID) ([]*Record, error) {
	ct, err := s.resolve(ctx, contentTypeID)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListByType(ctx, contentTypeID)
	if err != nil {
		return nil, err
	}
	for _, record := range list {
		s.coerce(ct, record)
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ct, err := s.schemas.Get(ctx, record.ContentTypeID); err == nil {
		s.coerce(ct, record)
	}
	return record, nil
}

func (s *service) Create(ctx context.Context, req CreateRecordRequest) (*Record, error) {
	ct, err := s.resolve(ctx, req.ContentTypeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &Record{
		ID:            s.id(),
		ContentTypeID: ct.ID,
		Values:        s.project(ct, req.Values),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	logger := logging.WithContentType(s.logger, ct.ID.String(), ct.Slug)
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		logger.Error("content_record.create.failed", "error", err)
		s.notifier.Notify(ctx, notify.Failure(ct.Name, ct.ID, notify.ActionCreate))
		return nil, err
	}
	logger.Info("content_record.create.success", "record_id", created.ID.String())
	s.notifier.Notify(ctx, notify.Success(ct.Name, ct.ID, notify.ActionCreate))
	s.emit(ctx, notify.ActionCreate, ct, created)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateRecordRequest) (*Record, error) {
	if req.ID == uuid.Nil {
		return nil, domain.NewValidationError("id", ErrIDRequired.Error())
	}
	existing, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	ct, err := s.resolve(ctx, existing.ContentTypeID)
	if err != nil {
		return nil, err
	}

	updated := cloneRecord(existing)
	updated.Values = existing.Values.Merge(s.project(ct, req.Values))
	updated.UpdatedAt = s.now()

	logger := logging.WithContentType(s.logger, ct.ID.String(), ct.Slug)
	result, err := s.repo.Update(ctx, updated)
	if err != nil {
		logger.Error("content_record.update.failed", "record_id", req.ID.String(), "error", err)
		s.notifier.Notify(ctx, notify.Failure(ct.Name, ct.ID, notify.ActionUpdate))
		return nil, err
	}
	logger.Info("content_record.update.success", "record_id", result.ID.String())
	s.notifier.Notify(ctx, notify.Success(ct.Name, ct.ID, notify.ActionUpdate))
	s.emit(ctx, notify.ActionUpdate, ct, result)
	return result, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	typeName := ""
	ct, resolveErr := s.schemas.Get(ctx, existing.ContentTypeID)
	if resolveErr == nil {
		typeName = ct.Name
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("content_record.delete.failed", "record_id", id.String(), "error", err)
		s.notifier.Notify(ctx, notify.Failure(typeName, existing.ContentTypeID, notify.ActionDelete))
		return err
	}
	s.logger.Info("content_record.delete.success", "record_id", id.String())
	s.notifier.Notify(ctx, notify.Success(typeName, existing.ContentTypeID, notify.ActionDelete))
	if ct != nil {
		s.emit(ctx, notify.ActionDelete, ct, existing)
	}
	return nil
}

// DeleteByType removes every record of a content type and returns the
// removed ids. Only the cascade coordinator calls it; it raises no notices
// and leaves activity to the caller.
func (s *service) DeleteByType(ctx context.Context, contentTypeID uuid.UUID) ([]uuid.UUID, error) {
	if contentTypeID == uuid.Nil {
		return nil, domain.NewValidationError("contentTypeId", ErrContentTypeRequired.Error())
	}
	removed, err := s.repo.DeleteByType(ctx, contentTypeID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("content_record.delete_by_type.success", "content_type_id", contentTypeID.String(), "removed", len(removed))
	return removed, nil
}

func (s *service) resolve(ctx context.Context, id uuid.UUID) (*contenttypes.ContentType, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("contentTypeId", ErrContentTypeRequired.Error())
	}
	if s.schemas == nil {
		return nil, domain.NewValidationError("contentTypeId", ErrContentTypeUnknown.Error())
	}
	ct, err := s.schemas.Get(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewValidationError("contentTypeId", ErrContentTypeUnknown.Error())
		}
		return nil, err
	}
	return ct, nil
}

// project keeps only keys that name a current field, typed per the registry.
func (s *service) project(ct *contenttypes.ContentType, values fields.Values) fields.Values {
	out := make(fields.Values, len(values))
	for _, field := range ct.Fields {
		if value, ok := values[field.Name]; ok {
			out[field.Name] = s.registry.Coerce(field, value)
		}
	}
	return out
}

func (s *service) coerce(ct *contenttypes.ContentType, record *Record) {
	for _, field := range ct.Fields {
		if value, ok := record.Values[field.Name]; ok {
			record.Values[field.Name] = s.registry.Coerce(field, value)
		}
	}
}

func (s *service) emit(ctx context.Context, verb string, ct *contenttypes.ContentType, record *Record) {
	if !s.activity.Enabled() {
		return
	}
	err := s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ObjectType: ActivityObjectType,
		ObjectID:   record.ID.String(),
		Object:     cloneRecord(record),
		Metadata: map[string]any{
			"content_type_id": ct.ID.String(),
			"content_type":    ct.Slug,
		},
	})
	if err != nil {
		s.logger.Warn("content_record.activity.failed", "error", err)
	}
}

package users

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/identity"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/internal/permissions"
	"github.com/goliatone/go-dyncms/pkg/activity"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	"github.com/google/uuid"
)

type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (*User, error)
	Update(ctx context.Context, req UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

type CreateUserRequest struct {
	Name   string
	Email  string
	Role   permissions.Role
	Avatar string
}

type UpdateUserRequest struct {
	ID     uuid.UUID
	Name   *string
	Email  *string
	Role   *permissions.Role
	Avatar *string
}

type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var (
	ErrEmailExists = errors.New("user: email already in use")
	ErrIDRequired  = errors.New("user: id required")
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
	now      func() time.Time
	id       identity.Generator
	logger   interfaces.Logger
	activity *activity.Emitter
}

func NewService(repo Repository, opts ...Option) Service {
	s := &service{
		repo:   repo,
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

func validateUser(user *User) error {
	err := validation.ValidateStruct(user,
		validation.Field(&user.Name, validation.Required),
		validation.Field(&user.Email, validation.Required, is.EmailFormat),
		validation.Field(&user.Role, validation.Required, validation.By(func(value any) error {
			role, _ := value.(permissions.Role)
			if !role.Valid() {
				return errors.New("must be admin, editor or viewer")
			}
			return nil
		})),
	)
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return domain.NewValidationError("", err.Error())
	}
	messages := make(map[string]string, len(errs))
	for key, fieldErr := range errs {
		messages[key] = fieldErr.Error()
	}
	return domain.NewFieldErrors(messages)
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	now := s.now()
	user := &User{
		ID:        s.id(),
		Name:      strings.TrimSpace(req.Name),
		Email:     normalizeEmail(req.Email),
		Role:      req.Role,
		Avatar:    strings.TrimSpace(req.Avatar),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if user.Role == "" {
		user.Role = permissions.RoleViewer
	}
	if err := validateUser(user); err != nil {
		return nil, err
	}
	if err := s.ensureEmailAvailable(ctx, user.Email, uuid.Nil); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		s.logger.Error("user.create.failed", "error", err)
		return nil, err
	}
	s.logger.Info("user.create.success", "user_id", created.ID.String(), "role", string(created.Role))
	s.emit(ctx, "create", created)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateUserRequest) (*User, error) {
	if req.ID == uuid.Nil {
		return nil, domain.NewValidationError("id", ErrIDRequired.Error())
	}
	existing, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		existing.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		existing.Email = normalizeEmail(*req.Email)
	}
	if req.Role != nil {
		existing.Role = *req.Role
	}
	if req.Avatar != nil {
		existing.Avatar = strings.TrimSpace(*req.Avatar)
	}
	if err := validateUser(existing); err != nil {
		return nil, err
	}
	if err := s.ensureEmailAvailable(ctx, existing.Email, existing.ID); err != nil {
		return nil, err
	}
	existing.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		s.logger.Error("user.update.failed", "user_id", req.ID.String(), "error", err)
		return nil, err
	}
	s.logger.Info("user.update.success", "user_id", updated.ID.String())
	s.emit(ctx, "update", updated)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("user.delete.failed", "user_id", id.String(), "error", err)
		return err
	}
	s.logger.Info("user.delete.success", "user_id", id.String())
	s.emit(ctx, "delete", existing)
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) ensureEmailAvailable(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return domain.NewValidationError("email", ErrEmailExists.Error())
	}
	return nil
}

func (s *service) emit(ctx context.Context, verb string, user *User) {
	if !s.activity.Enabled() {
		return
	}
	err := s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ObjectType: "user",
		ObjectID:   user.ID.String(),
		UserID:     user.ID.String(),
		Object:     cloneUser(user),
		Metadata:   map[string]any{"role": string(user.Role)},
	})
	if err != nil {
		s.logger.Warn("user.activity.failed", "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package settings

import (
	"context"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/identity"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/pkg/activity"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	"github.com/google/uuid"
)

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

type Service interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, req UpdateRequest) (*Settings, error)
	RegenerateAPIKey(ctx context.Context) (*Settings, error)
}

// UpdateRequest replaces whole sections. Nil sections are kept.
type UpdateRequest struct {
	General    *General
	Appearance *Appearance
	API        *API
}

type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Settings, error)
	Save(ctx context.Context, doc *Settings) (*Settings, error)
}

type Option func(*service)

func WithClock(clock func() time.Time) Option {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithKeyGenerator overrides API key generation.
func WithKeyGenerator(fn func() string) Option {
	return func(s *service) {
		if fn != nil {
			s.newKey = fn
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
	id       uuid.UUID
	now      func() time.Time
	newKey   func() string
	logger   interfaces.Logger
	activity *activity.Emitter
}

func NewService(repo Repository, opts ...Option) Service {
	s := &service{
		repo:   repo,
		id:     identity.SettingsUUID(),
		now:    func() time.Time { return time.Now().UTC() },
		newKey: NewAPIKey,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// NewAPIKey returns "api_" followed by 32 hex characters.
func NewAPIKey() string {
	return "api_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Get returns the stored document, or defaults with a fresh API key when
// nothing was saved yet.
func (s *service) Get(ctx context.Context) (*Settings, error) {
	doc, err := s.repo.Get(ctx, s.id)
	if err == nil {
		return doc, nil
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}
	doc = Defaults(s.id)
	doc.API.APIKey = s.newKey()
	return doc, nil
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*Settings, error) {
	doc, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if req.General != nil {
		doc.General = *req.General
		doc.General.AdminEmail = strings.ToLower(strings.TrimSpace(doc.General.AdminEmail))
	}
	if req.Appearance != nil {
		doc.Appearance = *req.Appearance
	}
	if req.API != nil {
		api := *req.API
		api.AllowedOrigins = normalizeOrigins(api.AllowedOrigins)
		if api.APIKey == "" {
			api.APIKey = doc.API.APIKey
		}
		doc.API = api
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	return s.save(ctx, doc, "update")
}

func (s *service) RegenerateAPIKey(ctx context.Context) (*Settings, error) {
	doc, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	doc.API.APIKey = s.newKey()
	return s.save(ctx, doc, "regenerate_key")
}

func (s *service) save(ctx context.Context, doc *Settings, verb string) (*Settings, error) {
	doc.ID = s.id
	doc.UpdatedAt = s.now()
	saved, err := s.repo.Save(ctx, doc)
	if err != nil {
		s.logger.Error("settings."+verb+".failed", "error", err)
		return nil, err
	}
	s.logger.Info("settings." + verb + ".success")
	if s.activity.Enabled() {
		if err := s.activity.Emit(ctx, activity.Event{
			Verb:       "update",
			ObjectType: "settings",
			ObjectID:   saved.ID.String(),
			Object:     cloneSettings(saved),
			Metadata:   map[string]any{"action": verb},
		}); err != nil {
			s.logger.Warn("settings.activity.failed", "error", err)
		}
	}
	return saved, nil
}

func validate(doc *Settings) error {
	messages := map[string]string{}
	collect := func(prefix string, err error) {
		if err == nil {
			return
		}
		if errs, ok := err.(validation.Errors); ok {
			for key, fieldErr := range errs {
				messages[prefix+"."+key] = fieldErr.Error()
			}
			return
		}
		messages[prefix] = err.Error()
	}
	general := doc.General
	collect("general", validation.ValidateStruct(&general,
		validation.Field(&general.SiteName, validation.Required),
		validation.Field(&general.SiteURL, is.URL),
		validation.Field(&general.AdminEmail, is.EmailFormat),
	))
	appearance := doc.Appearance
	collect("appearance", validation.ValidateStruct(&appearance,
		validation.Field(&appearance.Theme, validation.In(ThemeLight, ThemeDark, ThemeSystem)),
		validation.Field(&appearance.PrimaryColor, validation.Match(colorPattern)),
	))
	api := doc.API
	collect("api", validation.ValidateStruct(&api,
		validation.Field(&api.APIKey, validation.Required),
		validation.Field(&api.AllowedOrigins, validation.Each(is.URL)),
	))
	if len(messages) == 0 {
		return nil
	}
	return domain.NewFieldErrors(messages)
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	seen := map[string]bool{}
	for _, origin := range origins {
		trimmed := strings.TrimRight(strings.TrimSpace(origin), "/")
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		out = append(out, trimmed)
	}
	return out
}

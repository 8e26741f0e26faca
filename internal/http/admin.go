package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/endpoints"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/internal/menus"
	"github.com/goliatone/go-dyncms/internal/permissions"
	"github.com/goliatone/go-dyncms/internal/records"
	"github.com/goliatone/go-dyncms/internal/settings"
	"github.com/goliatone/go-dyncms/internal/users"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
)

const (
	DefaultAdminBasePath  = "/admin/api"
	DefaultPublicBasePath = "/api"
	DefaultAPIVersion     = "1.0.0"
)

// Renamer propagates a content type rename to its dependents.
type Renamer interface {
	SyncRename(ctx context.Context, before, after *contenttypes.ContentType) error
}

// RoleResolver extracts the caller's role. A false result leaves the request
// without a permission checker.
type RoleResolver func(r *http.Request) (permissions.Role, bool)

// HeaderRoleResolver reads the role from header.
func HeaderRoleResolver(header string) RoleResolver {
	return func(r *http.Request) (permissions.Role, bool) {
		return permissions.ParseRole(r.Header.Get(header))
	}
}

// AdminAPI registers the admin endpoints. Routes whose service is not wired
// answer 503.
type AdminAPI struct {
	basePath     string
	version      string
	contentTypes contenttypes.Service
	records      records.Service
	menus        menus.Service
	endpoints    endpoints.Service
	users        users.Service
	settings     settings.Service
	renamer      Renamer
	registry     *fields.Registry
	roles        RoleResolver
	logger       interfaces.Logger
}

type AdminOption func(*AdminAPI)

func NewAdminAPI(opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		basePath: DefaultAdminBasePath,
		version:  DefaultAPIVersion,
		registry: fields.Default(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides DefaultAdminBasePath.
func WithBasePath(path string) AdminOption {
	return func(api *AdminAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

func WithVersion(version string) AdminOption {
	return func(api *AdminAPI) {
		if trimmed := strings.TrimSpace(version); trimmed != "" {
			api.version = trimmed
		}
	}
}

func WithContentTypeService(service contenttypes.Service) AdminOption {
	return func(api *AdminAPI) { api.contentTypes = service }
}

func WithRecordService(service records.Service) AdminOption {
	return func(api *AdminAPI) { api.records = service }
}

func WithMenuService(service menus.Service) AdminOption {
	return func(api *AdminAPI) { api.menus = service }
}

func WithEndpointService(service endpoints.Service) AdminOption {
	return func(api *AdminAPI) { api.endpoints = service }
}

func WithUserService(service users.Service) AdminOption {
	return func(api *AdminAPI) { api.users = service }
}

func WithSettingsService(service settings.Service) AdminOption {
	return func(api *AdminAPI) { api.settings = service }
}

// WithRenamer makes content type updates sync menu entries and endpoints.
func WithRenamer(renamer Renamer) AdminOption {
	return func(api *AdminAPI) { api.renamer = renamer }
}

func WithFieldRegistry(registry *fields.Registry) AdminOption {
	return func(api *AdminAPI) {
		if registry != nil {
			api.registry = registry
		}
	}
}

func WithRoleResolver(resolver RoleResolver) AdminOption {
	return func(api *AdminAPI) { api.roles = resolver }
}

func WithLogger(logger interfaces.Logger) AdminOption {
	return func(api *AdminAPI) { api.logger = logging.Or(logger) }
}

// Register attaches the admin endpoints to mux.
func (api *AdminAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: admin api is nil")
	}

	base := joinPath(api.basePath, "")
	api.registerContentTypeRoutes(mux, base)
	api.registerRecordRoutes(mux, base)
	api.registerMenuRoutes(mux, base)
	api.registerEndpointRoutes(mux, base)
	api.registerUserRoutes(mux, base)
	api.registerSettingsRoutes(mux, base)
	return nil
}

func (api *AdminAPI) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.Handle(pattern, withRequest(api.roles, api.logger, fn))
}

// withRequest stores logger on the request context for writeError and
// attaches the resolved role when resolver reports one.
func withRequest(resolver RoleResolver, logger interfaces.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), loggerKey{}, logging.Or(logger))
		if resolver != nil {
			if role, ok := resolver(r); ok {
				ctx = permissions.WithRole(ctx, role)
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

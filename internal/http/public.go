package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/endpoints"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/internal/forms"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/internal/permissions"
	"github.com/goliatone/go-dyncms/internal/records"
	"github.com/goliatone/go-dyncms/internal/validation"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
)

// PublicAPI serves the generated endpoint descriptors. A request is routed
// only when a descriptor with its path and method exists, so deleting a
// descriptor takes the route offline.
//
// Collection paths (/api/<slug>) serve GET as a record list and POST as a
// create. Item paths (/api/<slug>/<id>) serve GET, PUT and DELETE, each
// gated by the descriptor for that method.
type PublicAPI struct {
	basePath     string
	version      string
	endpoints    endpoints.Service
	contentTypes contenttypes.Service
	records      records.Service
	registry     *fields.Registry
	roles        RoleResolver
	logger       interfaces.Logger
}

type PublicOption func(*PublicAPI)

func NewPublicAPI(endpointSvc endpoints.Service, types contenttypes.Service, recordSvc records.Service, opts ...PublicOption) *PublicAPI {
	api := &PublicAPI{
		basePath:     DefaultPublicBasePath,
		version:      DefaultAPIVersion,
		endpoints:    endpointSvc,
		contentTypes: types,
		records:      recordSvc,
		registry:     fields.Default(),
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

func WithPublicBasePath(path string) PublicOption {
	return func(api *PublicAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

func WithPublicVersion(version string) PublicOption {
	return func(api *PublicAPI) {
		if trimmed := strings.TrimSpace(version); trimmed != "" {
			api.version = trimmed
		}
	}
}

func WithPublicFieldRegistry(registry *fields.Registry) PublicOption {
	return func(api *PublicAPI) {
		if registry != nil {
			api.registry = registry
		}
	}
}

func WithPublicRoleResolver(resolver RoleResolver) PublicOption {
	return func(api *PublicAPI) { api.roles = resolver }
}

func WithPublicLogger(logger interfaces.Logger) PublicOption {
	return func(api *PublicAPI) { api.logger = logging.Or(logger) }
}

func (api *PublicAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil || api.endpoints == nil || api.contentTypes == nil || api.records == nil {
		return fmt.Errorf("http: public api requires endpoint, content type and record services")
	}
	base := joinPath(api.basePath, "")
	mux.Handle("GET "+joinPath(base, "openapi.json"), withRequest(api.roles, api.logger, http.HandlerFunc(api.handleOpenAPI)))
	mux.Handle(strings.TrimSuffix(base, "/")+"/", withRequest(api.roles, api.logger, http.HandlerFunc(api.handleGenerated)))
	return nil
}

func (api *PublicAPI) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	writeOpenAPI(w, r, api.version, api.endpoints, api.contentTypes, api.registry)
}

func (api *PublicAPI) handleGenerated(w http.ResponseWriter, r *http.Request) {
	method, ok := endpoints.ParseMethod(r.Method)
	if !ok {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method_not_allowed"})
		return
	}
	list, err := api.endpoints.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	collection, itemID := path, ""
	if idx := strings.LastIndex(path, "/"); idx > 0 && !hasPath(list, path) {
		collection, itemID = path[:idx], path[idx+1:]
	}

	descriptor, pathKnown := match(list, collection, method)
	if descriptor == nil {
		if pathKnown {
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method_not_allowed"})
			return
		}
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "no endpoint for " + r.URL.Path})
		return
	}

	ct, err := api.contentTypes.Get(r.Context(), descriptor.ContentTypeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger := logging.WithContentType(api.logger, ct.ID.String(), ct.Slug)
	logger.Debug("http.public.request", "method", string(method), "path", r.URL.Path)

	if itemID == "" {
		switch method {
		case endpoints.MethodGet:
			api.list(w, r, ct)
		case endpoints.MethodPost:
			api.create(w, r, ct)
		default:
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method_not_allowed"})
		}
		return
	}

	id, err := parseUUID(itemID)
	if err != nil {
		badRequest(w, "invalid record id")
		return
	}
	record, err := api.records.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if record.ContentTypeID != ct.ID {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "record not found"})
		return
	}
	switch method {
	case endpoints.MethodGet:
		if requirePermission(w, r, permissions.ResourceContent, permissions.ActionRead) {
			writeJSON(w, http.StatusOK, record)
		}
	case endpoints.MethodPut:
		api.update(w, r, ct, record)
	case endpoints.MethodDelete:
		if !requirePermission(w, r, permissions.ResourceContent, permissions.ActionDelete) {
			return
		}
		if err := api.records.Delete(r.Context(), record.ID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method_not_allowed"})
	}
}

func (api *PublicAPI) list(w http.ResponseWriter, r *http.Request, ct *contenttypes.ContentType) {
	if !requirePermission(w, r, permissions.ResourceContent, permissions.ActionRead) {
		return
	}
	list, err := api.records.ListByType(r.Context(), ct.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// create checks the payload against the type's JSON Schema before the form
// rules run.
func (api *PublicAPI) create(w http.ResponseWriter, r *http.Request, ct *contenttypes.ContentType) {
	if !requirePermission(w, r, permissions.ResourceContent, permissions.ActionCreate) {
		return
	}
	payload, ok := api.decodePayload(w, r, ct)
	if !ok {
		return
	}
	form, err := forms.Derive(ct, nil, api.registry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	values, err := form.Submit(payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := api.records.Create(r.Context(), records.CreateRecordRequest{ContentTypeID: ct.ID, Values: values})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (api *PublicAPI) update(w http.ResponseWriter, r *http.Request, ct *contenttypes.ContentType, record *records.Record) {
	if !requirePermission(w, r, permissions.ResourceContent, permissions.ActionUpdate) {
		return
	}
	payload, ok := api.decodePayload(w, r, ct)
	if !ok {
		return
	}
	form, err := forms.Derive(ct, record.Values, api.registry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	values, err := form.SubmitPatch(record.Values, payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := api.records.Update(r.Context(), records.UpdateRecordRequest{ID: record.ID, Values: values})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (api *PublicAPI) decodePayload(w http.ResponseWriter, r *http.Request, ct *contenttypes.ContentType) (map[string]any, bool) {
	var payload map[string]any
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid json payload")
		return nil, false
	}
	if err := validation.ValidatePayload(ct, api.registry, payload); err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return payload, true
}

func hasPath(list []*endpoints.Endpoint, path string) bool {
	for _, endpoint := range list {
		if endpoint.Path == path {
			return true
		}
	}
	return false
}

// match returns the descriptor for path and method, and whether any
// descriptor uses path at all.
func match(list []*endpoints.Endpoint, path string, method endpoints.Method) (*endpoints.Endpoint, bool) {
	known := false
	for _, endpoint := range list {
		if endpoint.Path != path {
			continue
		}
		known = true
		if endpoint.Method == method {
			return endpoint, true
		}
	}
	return nil, known
}

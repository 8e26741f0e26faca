package http

import (
	"net/http"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/endpoints"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/internal/permissions"
)

func (api *AdminAPI) registerEndpointRoutes(mux *http.ServeMux, base string) {
	api.handle(mux, "GET "+joinPath(base, "endpoints"), api.handleEndpointList)
	api.handle(mux, "GET "+joinPath(base, "openapi.json"), api.handleOpenAPI)
}

func (api *AdminAPI) handleEndpointList(w http.ResponseWriter, r *http.Request) {
	if api.endpoints == nil {
		unavailable(w)
		return
	}
	if !requirePermission(w, r, permissions.ResourceEndpoints, permissions.ActionRead) {
		return
	}
	list, err := api.endpoints.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *AdminAPI) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	if api.endpoints == nil || api.contentTypes == nil {
		unavailable(w)
		return
	}
	if !requirePermission(w, r, permissions.ResourceEndpoints, permissions.ActionRead) {
		return
	}
	writeOpenAPI(w, r, api.version, api.endpoints, api.contentTypes, api.registry)
}

func writeOpenAPI(w http.ResponseWriter, r *http.Request, version string, endpointSvc endpoints.Service, types contenttypes.Service, registry *fields.Registry) {
	list, err := endpointSvc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	cts, err := types.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, endpoints.BuildOpenAPI(version, list, cts, registry).AsMap())
}

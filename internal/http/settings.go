package http

import (
	"net/http"

	"github.com/goliatone/go-dyncms/internal/permissions"
	"github.com/goliatone/go-dyncms/internal/settings"
)

type settingsUpdatePayload struct {
	General    *settings.General    `json:"general,omitempty"`
	Appearance *settings.Appearance `json:"appearance,omitempty"`
	API        *settings.API        `json:"api,omitempty"`
}

func (api *AdminAPI) registerSettingsRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "settings")
	api.handle(mux, "GET "+root, api.handleSettingsGet)
	api.handle(mux, "PUT "+root, api.handleSettingsUpdate)
	api.handle(mux, "POST "+root+"/api-key", api.handleSettingsRegenerateKey)
}

func (api *AdminAPI) settingsReady(w http.ResponseWriter, r *http.Request, action permissions.Action) bool {
	if api.settings == nil {
		unavailable(w)
		return false
	}
	return requirePermission(w, r, permissions.ResourceSettings, action)
}

func (api *AdminAPI) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	if !api.settingsReady(w, r, permissions.ActionRead) {
		return
	}
	doc, err := api.settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (api *AdminAPI) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	if !api.settingsReady(w, r, permissions.ActionUpdate) {
		return
	}
	var payload settingsUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid json payload")
		return
	}
	doc, err := api.settings.Update(r.Context(), settings.UpdateRequest{
		General:    payload.General,
		Appearance: payload.Appearance,
		API:        payload.API,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (api *AdminAPI) handleSettingsRegenerateKey(w http.ResponseWriter, r *http.Request) {
	if !api.settingsReady(w, r, permissions.ActionUpdate) {
		return
	}
	doc, err := api.settings.RegenerateAPIKey(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

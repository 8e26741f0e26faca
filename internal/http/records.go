package http

import (
	"net/http"

	"github.com/goliatone/go-dyncms/internal/forms"
	"github.com/goliatone/go-dyncms/internal/permissions"
	"github.com/goliatone/go-dyncms/internal/records"
)

// recordPayload carries raw form input keyed by field name.
type recordPayload struct {
	Values map[string]any `json:"values"`
}

func (api *AdminAPI) registerRecordRoutes(mux *http.ServeMux, base string) {
	typed := joinPath(base, "content-types") + "/{id}/records"
	api.handle(mux, "GET "+typed, api.handleRecordList)
	api.handle(mux, "POST "+typed, api.handleRecordCreate)

	root := joinPath(base, "records")
	api.handle(mux, "GET "+root+"/{recordId}", api.handleRecordGet)
	api.handle(mux, "PUT "+root+"/{recordId}", api.handleRecordUpdate)
	api.handle(mux, "DELETE "+root+"/{recordId}", api.handleRecordDelete)
}

func (api *AdminAPI) handleRecordList(w http.ResponseWriter, r *http.Request) {
	if api.records == nil {
		unavailable(w)
		return
	}
	if !requirePermission(w, r, permissions.ResourceContent, permissions.ActionRead) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	list, err := api.records.ListByType(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *AdminAPI) handleRecordCreate(w http.ResponseWriter, r *http.Request) {
	if api.records == nil || api.contentTypes == nil {
		unavailable(w)
		return
	}
	if !requirePermission(w, r, permissions.ResourceContent, permissions.ActionCreate) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var payload recordPayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid json payload")
		return
	}
	ct, err := api.contentTypes.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	form, err := forms.Derive(ct, nil, api.registry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	values, err := form.Submit(payload.Values)
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

func (api *AdminAPI) handleRecordGet(w http.ResponseWriter, r *http.Request) {
	record, ok := api.loadRecord(w, r, permissions.ActionRead)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleRecordUpdate(w http.ResponseWriter, r *http.Request) {
	record, ok := api.loadRecord(w, r, permissions.ActionUpdate)
	if !ok {
		return
	}
	if api.contentTypes == nil {
		unavailable(w)
		return
	}
	var payload recordPayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid json payload")
		return
	}
	ct, err := api.contentTypes.Get(r.Context(), record.ContentTypeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	form, err := forms.Derive(ct, record.Values, api.registry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	values, err := form.SubmitPatch(record.Values, payload.Values)
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

func (api *AdminAPI) handleRecordDelete(w http.ResponseWriter, r *http.Request) {
	record, ok := api.loadRecord(w, r, permissions.ActionDelete)
	if !ok {
		return
	}
	if err := api.records.Delete(r.Context(), record.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *AdminAPI) loadRecord(w http.ResponseWriter, r *http.Request, action permissions.Action) (*records.Record, bool) {
	if api.records == nil {
		unavailable(w)
		return nil, false
	}
	if !requirePermission(w, r, permissions.ResourceContent, action) {
		return nil, false
	}
	id, ok := pathID(w, r, "recordId")
	if !ok {
		return nil, false
	}
	record, err := api.records.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return record, true
}

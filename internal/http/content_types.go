package http

import (
	"net/http"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/internal/forms"
	"github.com/goliatone/go-dyncms/internal/permissions"
	"github.com/goliatone/go-dyncms/internal/validation"
)

type contentTypeCreatePayload struct {
	Name   string               `json:"name"`
	Slug   string               `json:"slug,omitempty"`
	Icon   string               `json:"icon,omitempty"`
	Fields []contenttypes.Field `json:"fields,omitempty"`
}

type contentTypeUpdatePayload struct {
	Name   *string               `json:"name,omitempty"`
	Slug   *string               `json:"slug,omitempty"`
	Icon   *string               `json:"icon,omitempty"`
	Fields *[]contenttypes.Field `json:"fields,omitempty"`
}

type fieldPatchPayload struct {
	Name     *string      `json:"name,omitempty"`
	Type     *fields.Type `json:"type,omitempty"`
	Required *bool        `json:"required,omitempty"`
	Options  *[]string    `json:"options,omitempty"`
}

type fieldMovePayload struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type controlResponse struct {
	Field       contenttypes.Field `json:"field"`
	Control     fields.Control     `json:"control"`
	Label       string             `json:"label"`
	Placeholder string             `json:"placeholder"`
	Options     []string           `json:"options,omitempty"`
	Default     fields.Value       `json:"default"`
}

type formResponse struct {
	ContentType *contenttypes.ContentType `json:"contentType"`
	Controls    []controlResponse         `json:"controls"`
}

func (api *AdminAPI) registerContentTypeRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "content-types")
	api.handle(mux, "GET "+root, api.handleContentTypeList)
	api.handle(mux, "POST "+root, api.handleContentTypeCreate)
	api.handle(mux, "GET "+root+"/{id}", api.handleContentTypeGet)
	api.handle(mux, "PUT "+root+"/{id}", api.handleContentTypeUpdate)
	api.handle(mux, "DELETE "+root+"/{id}", api.handleContentTypeDelete)
	api.handle(mux, "POST "+root+"/{id}/fields", api.handleFieldAdd)
	api.handle(mux, "POST "+root+"/{id}/fields/move", api.handleFieldMove)
	api.handle(mux, "PATCH "+root+"/{id}/fields/{fieldId}", api.handleFieldUpdate)
	api.handle(mux, "DELETE "+root+"/{id}/fields/{fieldId}", api.handleFieldRemove)
	api.handle(mux, "GET "+root+"/{id}/form", api.handleContentTypeForm)
	api.handle(mux, "GET "+root+"/{id}/schema", api.handleContentTypeSchema)
}

func (api *AdminAPI) handleContentTypeList(w http.ResponseWriter, r *http.Request) {
	if api.contentTypes == nil {
		unavailable(w)
		return
	}
	if !requirePermission(w, r, permissions.ResourceContentTypes, permissions.ActionRead) {
		return
	}
	list, err := api.contentTypes.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *AdminAPI) handleContentTypeCreate(w http.ResponseWriter, r *http.Request) {
	if api.contentTypes == nil {
		unavailable(w)
		return
	}
	if !requirePermission(w, r, permissions.ResourceContentTypes, permissions.ActionCreate) {
		return
	}
	var payload contentTypeCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid json payload")
		return
	}
	created, err := api.contentTypes.Create(r.Context(), contenttypes.CreateContentTypeRequest{
		Name:   payload.Name,
		Slug:   contenttypes.DefaultSlug(payload.Slug, payload.Name),
		Icon:   payload.Icon,
		Fields: payload.Fields,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (api *AdminAPI) handleContentTypeGet(w http.ResponseWriter, r *http.Request) {
	ct, ok := api.loadContentType(w, r, permissions.ActionRead)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ct)
}

func (api *AdminAPI) handleContentTypeUpdate(w http.ResponseWriter, r *http.Request) {
	before, ok := api.loadContentType(w, r, permissions.ActionUpdate)
	if !ok {
		return
	}
	var payload contentTypeUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid json payload")
		return
	}
	api.updateContentType(w, r, before, contenttypes.UpdateContentTypeRequest{
		ID:     before.ID,
		Name:   payload.Name,
		Slug:   payload.Slug,
		Icon:   payload.Icon,
		Fields: payload.Fields,
	}, http.StatusOK)
}

func (api *AdminAPI) handleContentTypeDelete(w http.ResponseWriter, r *http.Request) {
	ct, ok := api.loadContentType(w, r, permissions.ActionDelete)
	if !ok {
		return
	}
	if err := api.contentTypes.Delete(r.Context(), contenttypes.DeleteContentTypeRequest{ID: ct.ID}); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *AdminAPI) handleFieldAdd(w http.ResponseWriter, r *http.Request) {
	ct, ok := api.loadContentType(w, r, permissions.ActionUpdate)
	if !ok {
		return
	}
	var field contenttypes.Field
	if err := decodeJSON(r, &field); err != nil {
		badRequest(w, "invalid json payload")
		return
	}
	next := contenttypes.AddField(ct.Fields, field)
	api.updateContentType(w, r, ct, contenttypes.UpdateContentTypeRequest{ID: ct.ID, Fields: &next}, http.StatusCreated)
}

func (api *AdminAPI) handleFieldUpdate(w http.ResponseWriter, r *http.Request) {
	ct, ok := api.loadContentType(w, r, permissions.ActionUpdate)
	if !ok {
		return
	}
	var payload fieldPatchPayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid json payload")
		return
	}
	next := contenttypes.UpdateField(ct.Fields, r.PathValue("fieldId"), contenttypes.FieldPatch{
		Name:     payload.Name,
		Type:     payload.Type,
		Required: payload.Required,
		Options:  payload.Options,
	})
	api.updateContentType(w, r, ct, contenttypes.UpdateContentTypeRequest{ID: ct.ID, Fields: &next}, http.StatusOK)
}

func (api *AdminAPI) handleFieldRemove(w http.ResponseWriter, r *http.Request) {
	ct, ok := api.loadContentType(w, r, permissions.ActionUpdate)
	if !ok {
		return
	}
	next := contenttypes.RemoveField(ct.Fields, r.PathValue("fieldId"))
	if next == nil {
		next = []contenttypes.Field{}
	}
	api.updateContentType(w, r, ct, contenttypes.UpdateContentTypeRequest{ID: ct.ID, Fields: &next}, http.StatusOK)
}

func (api *AdminAPI) handleFieldMove(w http.ResponseWriter, r *http.Request) {
	ct, ok := api.loadContentType(w, r, permissions.ActionUpdate)
	if !ok {
		return
	}
	var payload fieldMovePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid json payload")
		return
	}
	next := contenttypes.MoveField(ct.Fields, payload.From, payload.To)
	api.updateContentType(w, r, ct, contenttypes.UpdateContentTypeRequest{ID: ct.ID, Fields: &next}, http.StatusOK)
}

func (api *AdminAPI) handleContentTypeForm(w http.ResponseWriter, r *http.Request) {
	ct, ok := api.loadContentType(w, r, permissions.ActionRead)
	if !ok {
		return
	}
	form, err := forms.Derive(ct, nil, api.registry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, buildFormResponse(form))
}

func (api *AdminAPI) handleContentTypeSchema(w http.ResponseWriter, r *http.Request) {
	ct, ok := api.loadContentType(w, r, permissions.ActionRead)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, validation.Schema(ct, api.registry))
}

// loadContentType resolves {id} after checking the content type permission
// for action.
func (api *AdminAPI) loadContentType(w http.ResponseWriter, r *http.Request, action permissions.Action) (*contenttypes.ContentType, bool) {
	if api.contentTypes == nil {
		unavailable(w)
		return nil, false
	}
	if !requirePermission(w, r, permissions.ResourceContentTypes, action) {
		return nil, false
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	ct, err := api.contentTypes.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return ct, true
}

func (api *AdminAPI) updateContentType(w http.ResponseWriter, r *http.Request, before *contenttypes.ContentType, req contenttypes.UpdateContentTypeRequest, status int) {
	updated, err := api.contentTypes.Update(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if api.renamer != nil && (before.Name != updated.Name || before.Slug != updated.Slug) {
		if err := api.renamer.SyncRename(r.Context(), before, updated); err != nil {
			api.logger.Error("http.content_type.rename_sync.failed", "content_type_id", updated.ID.String(), "error", err)
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, status, updated)
}

func buildFormResponse(form *forms.Form) formResponse {
	out := formResponse{ContentType: form.ContentType, Controls: make([]controlResponse, 0, len(form.Controls))}
	for _, control := range form.Controls {
		out.Controls = append(out.Controls, controlResponse{
			Field:       control.Field,
			Control:     control.Control,
			Label:       control.Label,
			Placeholder: control.Placeholder,
			Options:     control.Options,
			Default:     control.Default,
		})
	}
	return out
}

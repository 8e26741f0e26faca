package http

import (
	"net/http"

	"github.com/goliatone/go-dyncms/internal/permissions"
	"github.com/goliatone/go-dyncms/internal/users"
)

type userCreatePayload struct {
	Name   string           `json:"name"`
	Email  string           `json:"email"`
	Role   permissions.Role `json:"role,omitempty"`
	Avatar string           `json:"avatar,omitempty"`
}

type userUpdatePayload struct {
	Name   *string           `json:"name,omitempty"`
	Email  *string           `json:"email,omitempty"`
	Role   *permissions.Role `json:"role,omitempty"`
	Avatar *string           `json:"avatar,omitempty"`
}

func (api *AdminAPI) registerUserRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "users")
	api.handle(mux, "GET "+root, api.handleUserList)
	api.handle(mux, "POST "+root, api.handleUserCreate)
	api.handle(mux, "GET "+root+"/{id}", api.handleUserGet)
	api.handle(mux, "PUT "+root+"/{id}", api.handleUserUpdate)
	api.handle(mux, "DELETE "+root+"/{id}", api.handleUserDelete)
}

func (api *AdminAPI) usersReady(w http.ResponseWriter, r *http.Request, action permissions.Action) bool {
	if api.users == nil {
		unavailable(w)
		return false
	}
	return requirePermission(w, r, permissions.ResourceUsers, action)
}

func (api *AdminAPI) handleUserList(w http.ResponseWriter, r *http.Request) {
	if !api.usersReady(w, r, permissions.ActionRead) {
		return
	}
	list, err := api.users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *AdminAPI) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	if !api.usersReady(w, r, permissions.ActionCreate) {
		return
	}
	var payload userCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid json payload")
		return
	}
	created, err := api.users.Create(r.Context(), users.CreateUserRequest{
		Name:   payload.Name,
		Email:  payload.Email,
		Role:   payload.Role,
		Avatar: payload.Avatar,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (api *AdminAPI) handleUserGet(w http.ResponseWriter, r *http.Request) {
	if !api.usersReady(w, r, permissions.ActionRead) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	user, err := api.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (api *AdminAPI) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	if !api.usersReady(w, r, permissions.ActionUpdate) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var payload userUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid json payload")
		return
	}
	updated, err := api.users.Update(r.Context(), users.UpdateUserRequest{
		ID:     id,
		Name:   payload.Name,
		Email:  payload.Email,
		Role:   payload.Role,
		Avatar: payload.Avatar,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (api *AdminAPI) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	if !api.usersReady(w, r, permissions.ActionDelete) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := api.users.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

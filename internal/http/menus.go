package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-dyncms/internal/menus"
	"github.com/goliatone/go-dyncms/internal/permissions"
	"github.com/google/uuid"
)

type menuEntryCreatePayload struct {
	Label        string           `json:"label"`
	Link         string           `json:"link,omitempty"`
	ParentID     *uuid.UUID       `json:"parentId,omitempty"`
	Order        *int             `json:"order,omitempty"`
	Icon         string           `json:"icon,omitempty"`
	RequiredRole permissions.Role `json:"requiredRole,omitempty"`
}

type menuEntryUpdatePayload struct {
	Label        *string           `json:"label,omitempty"`
	Link         *string           `json:"link,omitempty"`
	ParentID     *uuid.UUID        `json:"parentId,omitempty"`
	ClearParent  bool              `json:"clearParent,omitempty"`
	Order        *int              `json:"order,omitempty"`
	ClearOrder   bool              `json:"clearOrder,omitempty"`
	Icon         *string           `json:"icon,omitempty"`
	RequiredRole *permissions.Role `json:"requiredRole,omitempty"`
}

type menuMovePayload struct {
	Direction string `json:"direction"`
}

type menuDeleteResponse struct {
	Deleted int `json:"deleted"`
}

func (api *AdminAPI) registerMenuRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "menus")
	api.handle(mux, "GET "+root, api.handleMenuList)
	api.handle(mux, "POST "+root, api.handleMenuCreate)
	api.handle(mux, "GET "+root+"/tree", api.handleMenuTree)
	api.handle(mux, "GET "+root+"/{id}", api.handleMenuGet)
	api.handle(mux, "PUT "+root+"/{id}", api.handleMenuUpdate)
	api.handle(mux, "DELETE "+root+"/{id}", api.handleMenuDelete)
	api.handle(mux, "POST "+root+"/{id}/move", api.handleMenuMove)
}

func (api *AdminAPI) menusReady(w http.ResponseWriter, r *http.Request, action permissions.Action) bool {
	if api.menus == nil {
		unavailable(w)
		return false
	}
	return requirePermission(w, r, permissions.ResourceMenus, action)
}

func (api *AdminAPI) handleMenuList(w http.ResponseWriter, r *http.Request) {
	if !api.menusReady(w, r, permissions.ActionRead) {
		return
	}
	list, err := api.menus.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleMenuTree returns the forest. ?role= filters it to what that role may
// see; without it the caller's own role applies when known.
func (api *AdminAPI) handleMenuTree(w http.ResponseWriter, r *http.Request) {
	if !api.menusReady(w, r, permissions.ActionRead) {
		return
	}
	role, filtered := permissions.RoleFromContext(r.Context())
	if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
		parsed, ok := permissions.ParseRole(raw)
		if !ok {
			badRequest(w, "unknown role")
			return
		}
		role, filtered = parsed, true
	}
	if filtered {
		nodes, err := api.menus.TreeForRole(r.Context(), role)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, menus.Tree{Roots: nodes})
		return
	}
	tree, err := api.menus.Tree(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (api *AdminAPI) handleMenuCreate(w http.ResponseWriter, r *http.Request) {
	if !api.menusReady(w, r, permissions.ActionCreate) {
		return
	}
	var payload menuEntryCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid json payload")
		return
	}
	order := payload.Order
	if order == nil {
		next, err := api.menus.NextOrder(r.Context(), payload.ParentID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		order = menus.IntPtr(next)
	}
	created, err := api.menus.Create(r.Context(), menus.CreateEntryRequest{
		Label:        payload.Label,
		Link:         payload.Link,
		ParentID:     payload.ParentID,
		Order:        order,
		Icon:         payload.Icon,
		RequiredRole: payload.RequiredRole,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (api *AdminAPI) handleMenuGet(w http.ResponseWriter, r *http.Request) {
	if !api.menusReady(w, r, permissions.ActionRead) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entry, err := api.menus.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (api *AdminAPI) handleMenuUpdate(w http.ResponseWriter, r *http.Request) {
	if !api.menusReady(w, r, permissions.ActionUpdate) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var payload menuEntryUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid json payload")
		return
	}
	updated, err := api.menus.Update(r.Context(), menus.UpdateEntryRequest{
		ID:           id,
		Label:        payload.Label,
		Link:         payload.Link,
		ParentID:     payload.ParentID,
		ClearParent:  payload.ClearParent,
		Order:        payload.Order,
		ClearOrder:   payload.ClearOrder,
		Icon:         payload.Icon,
		RequiredRole: payload.RequiredRole,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (api *AdminAPI) handleMenuDelete(w http.ResponseWriter, r *http.Request) {
	if !api.menusReady(w, r, permissions.ActionDelete) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	removed, err := api.menus.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menuDeleteResponse{Deleted: removed})
}

func (api *AdminAPI) handleMenuMove(w http.ResponseWriter, r *http.Request) {
	if !api.menusReady(w, r, permissions.ActionUpdate) {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var payload menuMovePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid json payload")
		return
	}
	var err error
	switch strings.ToLower(strings.TrimSpace(payload.Direction)) {
	case "up":
		err = api.menus.MoveUp(r.Context(), id)
	case "down":
		err = api.menus.MoveDown(r.Context(), id)
	default:
		badRequest(w, "direction must be up or down")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

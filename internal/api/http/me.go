package http

import (
	"net/http"

	"github.com/siscomando/api/internal/api/hooks"
	"github.com/siscomando/api/internal/api/render"
	"github.com/siscomando/api/internal/api/service"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/pkg/httpx"
)

// MeHandler serves the caller's own account as a singleton view keyed on
// the owner field.
type MeHandler struct {
	UserService *service.UserService
}

func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	callerID := httpx.UserIDFromCtx(r.Context())

	me, err := h.UserService.Me(r.Context(), callerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// The view is a filtered collection fetch collapsed to its single
	// item; anything other than exactly one record is a missing view.
	envelope := render.List("me", []render.Doc{render.User(me)}, 1, 1, 1, nil)
	doc, err := hooks.CollapseSingleton(envelope)
	if err != nil {
		writeServiceError(w, r, store.ErrNotFound)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, doc)
}

type profilePatchRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Location  *string `json:"location"`
	Avatar    *string `json:"avatar"`
}

func (h *MeHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	callerID := httpx.UserIDFromCtx(r.Context())

	var req profilePatchRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	me, err := h.UserService.Me(r.Context(), callerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	updated, err := h.UserService.UpdateProfile(r.Context(), me.ID, store.ProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Location:  req.Location,
		Avatar:    req.Avatar,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, render.User(updated))
}

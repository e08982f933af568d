package http

import (
	"net/http"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/render"
	"github.com/siscomando/api/internal/api/service"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/pkg/httpx"
	"github.com/siscomando/api/pkg/idx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleList returns a page of accounts. The "search" parameter narrows
// by username substring.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	users, total, err := h.UserService.List(r.Context(), r.URL.Query(), page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]render.Doc, 0, len(users))
	for _, u := range users {
		items = append(items, render.User(u))
	}
	httpx.WriteJSON(w, http.StatusOK,
		render.List("users", items, page.Number, page.MaxResults, total, r.URL.Query()))
}

// HandleGet resolves an account by id, falling back to the username
// lookup when the path segment is not a valid id.
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	lookup := r.PathValue("lookup")

	var (
		user domain.User
		err  error
	)
	if _, idErr := idx.Parse(lookup); idErr == nil {
		user, err = h.UserService.Get(r.Context(), lookup)
	} else {
		user, err = h.UserService.GetByUsername(r.Context(), lookup)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, render.User(user))
}

// HandleCreate accepts either a single account document or an array of
// them. Batches are all-or-nothing.
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	reqs, batch, err := decodeOneOrMany[service.NewUser](r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	created, err := h.UserService.CreateUsers(r.Context(), reqs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if !batch {
		httpx.WriteJSON(w, http.StatusCreated, render.User(created[0]))
		return
	}
	items := make([]render.Doc, 0, len(created))
	for _, u := range created {
		items = append(items, render.User(u))
	}
	httpx.WriteJSON(w, http.StatusCreated, render.Doc{"_items": items})
}

// HandlePatch applies profile edits to an account by id. Identity fields
// (email, username, token, roles) are not editable through this surface.
func (h *UsersHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var req profilePatchRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	updated, err := h.UserService.UpdateProfile(r.Context(), r.PathValue("lookup"), store.ProfilePatch{
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

func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.UserService.Delete(r.Context(), r.PathValue("lookup")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.UserService.DeleteAll(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"net/http"

	"github.com/siscomando/api/internal/api/render"
	"github.com/siscomando/api/internal/api/service"
	"github.com/siscomando/api/pkg/httpx"
)

type StarsHandler struct {
	StarService *service.StarService
}

func (h *StarsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	stars, total, err := h.StarService.List(r.Context(), page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]render.Doc, 0, len(stars))
	for _, s := range stars {
		items = append(items, render.Star(s))
	}
	httpx.WriteJSON(w, http.StatusOK,
		render.List("stars", items, page.Number, page.MaxResults, total, r.URL.Query()))
}

func (h *StarsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	star, err := h.StarService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, render.Star(star))
}

// HandleCreate records a star vote by the caller and fans it out onto
// the voted comment.
func (h *StarsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req service.NewStar
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	star, err := h.StarService.CreateStar(r.Context(), httpx.UserIDFromCtx(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, render.Star(star))
}

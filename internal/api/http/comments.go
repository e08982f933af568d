package http

import (
	"encoding/json"
	"net/http"

	"github.com/siscomando/api/internal/api/hooks"
	"github.com/siscomando/api/internal/api/render"
	"github.com/siscomando/api/internal/api/service"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/pkg/httpx"
)

type CommentsHandler struct {
	CommentService *service.CommentService
	Embed          hooks.CommentEmbed
}

// HandleList returns a page of comments, newest first, narrowed by the
// hashtag, u and search query parameters. With embedded={"author":1}
// each item's author id expands into the account document.
func (h *CommentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	comments, total, err := h.CommentService.List(r.Context(), r.URL.Query(), page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]render.Doc, 0, len(comments))
	for _, c := range comments {
		items = append(items, render.Comment(c, "comments"))
	}

	if embedsAuthor(r.URL.Query().Get("embedded")) {
		for _, item := range items {
			if err := h.Embed.Apply(r.Context(), item); err != nil {
				writeServiceError(w, r, err)
				return
			}
		}
	}

	httpx.WriteJSON(w, http.StatusOK,
		render.List("comments", items, page.Number, page.MaxResults, total, r.URL.Query()))
}

// embedsAuthor reports whether an embedded parameter like
// {"author": 1} asks for author expansion.
func embedsAuthor(raw string) bool {
	if raw == "" {
		return false
	}
	var spec map[string]int
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return false
	}
	return spec["author"] == 1
}

func (h *CommentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	comment, err := h.CommentService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, render.Comment(comment, "comments"))
}

// HandleCreate inserts a comment authored by the caller. The response is
// reshaped: the author id expands into the embedded account document and
// the self link points at the canonical comment location rather than the
// creation endpoint.
func (h *CommentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req service.NewComment
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	comment, err := h.CommentService.CreateComment(r.Context(), httpx.UserIDFromCtx(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	doc := render.Comment(comment, "comments/new")
	if err := h.Embed.Apply(r.Context(), doc); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, doc)
}

type commentPatchRequest struct {
	Body   *string `json:"body"`
	Title  *string `json:"title"`
	Origin *int    `json:"origin"`
}

// HandleEdit patches the caller's own comment. A comment someone else
// wrote is reported as not found.
func (h *CommentsHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	var req commentPatchRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	updated, err := h.CommentService.Edit(r.Context(), httpx.UserIDFromCtx(r.Context()), r.PathValue("id"), store.CommentPatch{
		Body:   req.Body,
		Title:  req.Title,
		Origin: req.Origin,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, render.Comment(updated, "comments"))
}

func (h *CommentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.CommentService.Delete(r.Context(), httpx.UserIDFromCtx(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

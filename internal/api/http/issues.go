package http

import (
	"net/http"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/hooks"
	"github.com/siscomando/api/internal/api/render"
	"github.com/siscomando/api/internal/api/service"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/pkg/httpx"
	"github.com/siscomando/api/pkg/idx"
)

type IssuesHandler struct {
	IssueService *service.IssueService
	Grouped      hooks.GroupedIssues
}

// HandleList returns a page of issues. With grouped=1 the envelope also
// carries the bounded title-bucketed aggregation under "_grouped".
func (h *IssuesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	issues, total, err := h.IssueService.List(r.Context(), page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]render.Doc, 0, len(issues))
	for _, i := range issues {
		items = append(items, render.Issue(i))
	}
	envelope := render.List("issues", items, page.Number, page.MaxResults, total, r.URL.Query())

	if r.URL.Query().Get("grouped") == "1" {
		if err := h.Grouped.Augment(r.Context(), envelope); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	httpx.WriteJSON(w, http.StatusOK, envelope)
}

// HandleGet resolves an issue by id, falling back to the register lookup
// when the path segment is not a valid id.
func (h *IssuesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	lookup := r.PathValue("lookup")

	var (
		issue domain.Issue
		err   error
	)
	if _, idErr := idx.Parse(lookup); idErr == nil {
		issue, err = h.IssueService.Get(r.Context(), lookup)
	} else {
		issue, err = h.IssueService.GetByRegister(r.Context(), lookup)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, render.Issue(issue))
}

// HandleCreate accepts either a single issue document or an array of
// them.
func (h *IssuesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	reqs, batch, err := decodeOneOrMany[service.NewIssue](r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	created, err := h.IssueService.CreateIssues(r.Context(), reqs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if !batch {
		httpx.WriteJSON(w, http.StatusCreated, render.Issue(created[0]))
		return
	}
	items := make([]render.Doc, 0, len(created))
	for _, i := range created {
		items = append(items, render.Issue(i))
	}
	httpx.WriteJSON(w, http.StatusCreated, render.Doc{"_items": items})
}

type issuePatchRequest struct {
	Title      *string `json:"title"`
	Body       *string `json:"body"`
	Classifier *int    `json:"classifier"`
	Ugat       *string `json:"ugat"`
	Ugser      *string `json:"ugser"`
	Deadline   *int    `json:"deadline"`
	Closed     *bool   `json:"closed"`
}

func (h *IssuesHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var req issuePatchRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	updated, err := h.IssueService.Update(r.Context(), r.PathValue("id"), store.IssuePatch{
		Title:      req.Title,
		Body:       req.Body,
		Classifier: req.Classifier,
		Ugat:       req.Ugat,
		Ugser:      req.Ugser,
		Deadline:   req.Deadline,
		Closed:     req.Closed,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, render.Issue(updated))
}

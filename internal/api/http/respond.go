package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/siscomando/api/internal/api/service"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/pkg/httpx"
	"github.com/siscomando/api/pkg/slogx"
)

const (
	defaultMaxResults = 25
	maxMaxResults     = 50

	// maxBodyBytes bounds request bodies; documents here are short text.
	maxBodyBytes = 1 << 20
)

// parsePage reads the page and max_results query parameters, clamping
// them to sane bounds.
func parsePage(r *http.Request) store.Page {
	page := store.Page{Number: 1, MaxResults: defaultMaxResults}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page.Number = n
		}
	}
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page.MaxResults = n
		}
	}
	if page.MaxResults > maxMaxResults {
		page.MaxResults = maxMaxResults
	}
	return page
}

// decodeBody decodes a JSON request body into a single document.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body", service.ErrInvalidRequest)
	}
	return nil
}

// decodeOneOrMany decodes a JSON body that may hold either a single
// document or an array of documents, matching the batch-insert contract
// of the write endpoints.
func decodeOneOrMany[T any](r *http.Request) ([]T, bool, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, false, fmt.Errorf("%w: unreadable body", service.ErrInvalidRequest)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("%w: empty body", service.ErrInvalidRequest)
	}

	if trimmed[0] == '[' {
		var many []T
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return nil, false, fmt.Errorf("%w: malformed JSON array", service.ErrInvalidRequest)
		}
		return many, true, nil
	}

	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, false, fmt.Errorf("%w: malformed JSON body", service.ErrInvalidRequest)
	}
	return []T{one}, false, nil
}

// writeServiceError maps service and store errors onto the wire.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		httpx.WriteError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, "conflict", "document conflicts with an existing one")
	case errors.Is(err, store.ErrReferenced):
		httpx.WriteError(w, http.StatusConflict, "conflict", "document is still referenced by other documents")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}

package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/hooks"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/pkg/idx"
)

// CommentService owns the comment collection and its enrichment
// pipeline. Edits and deletions are scoped to the comment's author: a
// comment someone else wrote is indistinguishable from one that does not
// exist.
type CommentService struct {
	Store   store.Store
	Enrich  hooks.CommentEnricher
	Filters hooks.CommentFilters
}

// NewComment captures the client-settable fields of a comment document.
// Author, title, hashtags, shottime and stars are all derived or stamped
// server-side.
type NewComment struct {
	Body     string `json:"body"`
	Issue    string `json:"issue"`
	Register string `json:"register"`
	Origin   int    `json:"origin"`
}

func (r NewComment) validate() error {
	if r.Body == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidRequest)
	}
	switch r.Origin {
	case domain.OriginSC, domain.OriginSCCD, domain.OriginEmail:
	default:
		return fmt.Errorf("%w: unknown origin %d", ErrInvalidRequest, r.Origin)
	}
	return nil
}

// List returns a page of comments, newest first, narrowed by the
// hashtag, author and search query parameters.
func (s *CommentService) List(ctx context.Context, query url.Values, page store.Page) ([]domain.Comment, int, error) {
	var f store.CommentFilter
	if err := s.Filters.Apply(ctx, query, &f); err != nil {
		return nil, 0, err
	}
	return s.Store.Comments().ListComments(ctx, f, page)
}

func (s *CommentService) Get(ctx context.Context, id string) (domain.Comment, error) {
	return s.Store.Comments().GetCommentByID(ctx, id)
}

// CreateComment enriches and inserts a single comment stamped with the
// authenticated author.
func (s *CommentService) CreateComment(ctx context.Context, authorID string, req NewComment) (domain.Comment, error) {
	if err := req.validate(); err != nil {
		return domain.Comment{}, err
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		ID:        idx.New().String(),
		Issue:     req.Issue,
		Register:  req.Register,
		Author:    authorID,
		Body:      req.Body,
		Origin:    req.Origin,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Enrich.Apply(ctx, []*domain.Comment{comment}); err != nil {
		return domain.Comment{}, fmt.Errorf("apply comment enrichment: %w", err)
	}

	if err := s.Store.Comments().CreateComment(ctx, *comment); err != nil {
		return domain.Comment{}, err
	}
	return *comment, nil
}

// Edit applies a patch to the caller's own comment. The author field is
// never patchable.
func (s *CommentService) Edit(ctx context.Context, callerID, commentID string, patch store.CommentPatch) (domain.Comment, error) {
	if err := s.authorize(ctx, callerID, commentID); err != nil {
		return domain.Comment{}, err
	}
	if err := s.Store.Comments().UpdateComment(ctx, commentID, patch); err != nil {
		return domain.Comment{}, err
	}
	return s.Store.Comments().GetCommentByID(ctx, commentID)
}

// Delete removes the caller's own comment.
func (s *CommentService) Delete(ctx context.Context, callerID, commentID string) error {
	if err := s.authorize(ctx, callerID, commentID); err != nil {
		return err
	}
	return s.Store.Comments().DeleteComment(ctx, commentID)
}

func (s *CommentService) authorize(ctx context.Context, callerID, commentID string) error {
	comment, err := s.Store.Comments().GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.Author != callerID {
		return store.ErrNotFound
	}
	return nil
}

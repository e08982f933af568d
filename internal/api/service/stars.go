package service

import (
	"context"
	"fmt"
	"time"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/hooks"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/pkg/idx"
	"github.com/siscomando/api/pkg/slogx"
)

// StarService owns the star collection. Creating a star also fans its id
// out onto the voted comment's stars list.
type StarService struct {
	Store  store.Store
	Fanout hooks.StarFanout
}

// NewStar captures the client-settable fields of a star document. The
// voter is stamped from the authenticated identity.
type NewStar struct {
	Comment string `json:"comment"`
	Score   int    `json:"score"`
}

func (r NewStar) validate() error {
	if r.Comment == "" {
		return fmt.Errorf("%w: comment is required", ErrInvalidRequest)
	}
	if r.Score < 1 {
		return fmt.Errorf("%w: score must be positive", ErrInvalidRequest)
	}
	return nil
}

func (s *StarService) List(ctx context.Context, page store.Page) ([]domain.Star, int, error) {
	return s.Store.Stars().ListStars(ctx, page)
}

func (s *StarService) Get(ctx context.Context, id string) (domain.Star, error) {
	return s.Store.Stars().GetStarByID(ctx, id)
}

// CreateStar inserts a star and appends it to the voted comment. The
// fanout runs after the insert with no spanning transaction: if it fails
// the star still exists, the comment just never displays it. That gap is
// logged rather than failing the request.
func (s *StarService) CreateStar(ctx context.Context, voterID string, req NewStar) (domain.Star, error) {
	if err := req.validate(); err != nil {
		return domain.Star{}, err
	}

	// Reject unknown comments up front with a clean error instead of
	// surfacing a foreign key violation.
	if _, err := s.Store.Comments().GetCommentByID(ctx, req.Comment); err != nil {
		return domain.Star{}, err
	}

	star := &domain.Star{
		ID:        idx.New().String(),
		Voter:     voterID,
		Comment:   req.Comment,
		Score:     req.Score,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.Stars().CreateStar(ctx, *star); err != nil {
		return domain.Star{}, err
	}

	if err := s.Fanout.ApplyInserted(ctx, []*domain.Star{star}); err != nil {
		slogx.FromContext(ctx).Warn("star fanout failed",
			"star_id", star.ID,
			"comment_id", star.Comment,
			"error", err)
	}
	return *star, nil
}

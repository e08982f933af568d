package hooks

import (
	"context"
	"fmt"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/store"
)

// StarFanout appends each freshly inserted star's id onto its comment's
// stars list. The append is a single-document atomic update; there is no
// transaction spanning the star insert and the fanout, so a crash between
// the two leaves a star the comment does not reference. Readers tolerate
// that by treating the comment's list as the display source of truth.
type StarFanout struct {
	Comments store.Comments
}

func (h StarFanout) ApplyInserted(ctx context.Context, stars []*domain.Star) error {
	for _, s := range stars {
		if err := h.Comments.AppendStar(ctx, s.Comment, s.ID); err != nil {
			return fmt.Errorf("append star %s to comment %s: %w", s.ID, s.Comment, err)
		}
	}
	return nil
}

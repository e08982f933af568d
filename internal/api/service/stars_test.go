package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siscomando/api/internal/api/store"
)

func TestCreateStar(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	voter := f.seedAccount(t, "voter@example.com")
	comment, err := f.comments.CreateComment(ctx, voter.ID, NewComment{Body: "star me"})
	require.NoError(t, err)

	t.Run("insert fans out onto the comment", func(t *testing.T) {
		star, err := f.stars.CreateStar(ctx, voter.ID, NewStar{Comment: comment.ID, Score: 1})
		require.NoError(t, err)
		require.Equal(t, voter.ID, star.Voter)

		stored, err := f.comments.Get(ctx, comment.ID)
		require.NoError(t, err)
		require.Equal(t, []string{star.ID}, stored.Stars)
	})

	t.Run("repeat votes accumulate in order", func(t *testing.T) {
		second, err := f.stars.CreateStar(ctx, voter.ID, NewStar{Comment: comment.ID, Score: 2})
		require.NoError(t, err)

		stored, err := f.comments.Get(ctx, comment.ID)
		require.NoError(t, err)
		require.Len(t, stored.Stars, 2)
		require.Equal(t, second.ID, stored.Stars[1])
	})

	t.Run("unknown comment is not found", func(t *testing.T) {
		_, err := f.stars.CreateStar(ctx, voter.ID, NewStar{Comment: "missing", Score: 1})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rejects invalid documents", func(t *testing.T) {
		_, err := f.stars.CreateStar(ctx, voter.ID, NewStar{Comment: "", Score: 1})
		require.ErrorIs(t, err, ErrInvalidRequest)

		_, err = f.stars.CreateStar(ctx, voter.ID, NewStar{Comment: comment.ID, Score: 0})
		require.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestListStars(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	voter := f.seedAccount(t, "voter@example.com")
	comment, err := f.comments.CreateComment(ctx, voter.ID, NewComment{Body: "popular"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := f.stars.CreateStar(ctx, voter.ID, NewStar{Comment: comment.ID, Score: 1})
		require.NoError(t, err)
	}

	stars, total, err := f.stars.List(ctx, store.Page{Number: 1, MaxResults: 2})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, stars, 2)

	got, err := f.stars.Get(ctx, stars[0].ID)
	require.NoError(t, err)
	require.Equal(t, comment.ID, got.Comment)
}

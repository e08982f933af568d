package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/store"
)

func TestCreateIssues(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	t.Run("normalizes registers and defaults the deadline", func(t *testing.T) {
		created, err := f.issues.CreateIssues(ctx, []NewIssue{{
			Title:    "network outage",
			Register: "2026RJ/01234",
		}})
		require.NoError(t, err)
		require.Len(t, created, 1)

		issue := created[0]
		require.Equal(t, "2026RJ01234", issue.Register)
		require.Equal(t, "2026RJ/01234", issue.RegisterOrig)
		require.Equal(t, domain.DefaultDeadlineMinutes, issue.Deadline)

		stored, err := f.issues.GetByRegister(ctx, "2026RJ01234")
		require.NoError(t, err)
		require.Equal(t, issue.ID, stored.ID)
	})

	t.Run("explicit deadline survives", func(t *testing.T) {
		deadline := 30
		created, err := f.issues.CreateIssues(ctx, []NewIssue{{
			Title:    "printer jam",
			Register: "2026RJ/05678",
			Deadline: &deadline,
		}})
		require.NoError(t, err)
		require.Equal(t, 30, created[0].Deadline)
	})

	t.Run("rejects invalid documents", func(t *testing.T) {
		negative := -1
		cases := []NewIssue{
			{Title: "", Register: "r1"},
			{Title: "t", Register: ""},
			{Title: "t", Register: "r2", Deadline: &negative},
		}
		for _, req := range cases {
			_, err := f.issues.CreateIssues(ctx, []NewIssue{req})
			require.ErrorIs(t, err, ErrInvalidRequest)
		}
	})

	t.Run("duplicate register conflicts", func(t *testing.T) {
		_, err := f.issues.CreateIssues(ctx, []NewIssue{{
			Title:    "again",
			Register: "2026RJ01234",
		}})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestUpdateIssue(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	created, err := f.issues.CreateIssues(ctx, []NewIssue{{
		Title:    "network outage",
		Register: "2026RJ00001",
	}})
	require.NoError(t, err)

	closed := true
	title := "network outage (resolved)"
	updated, err := f.issues.Update(ctx, created[0].ID, store.IssuePatch{
		Title:  &title,
		Closed: &closed,
	})
	require.NoError(t, err)
	require.True(t, updated.Closed)
	require.Equal(t, title, updated.Title)
	require.Equal(t, created[0].Register, updated.Register)

	_, err = f.issues.Update(ctx, "missing", store.IssuePatch{Closed: &closed})
	require.ErrorIs(t, err, store.ErrNotFound)
}

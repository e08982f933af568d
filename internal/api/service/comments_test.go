package service

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/store"
)

func (f fixture) seedAccount(t *testing.T, email string) domain.User {
	t.Helper()

	created, err := f.users.CreateUsers(testContext(t), []NewUser{{
		Email:    email,
		Password: "pw",
		Roles:    []string{domain.RoleUsers},
	}})
	require.NoError(t, err)
	return created[0]
}

func TestCreateComment(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	author := f.seedAccount(t, "author@example.com")
	issues, err := f.issues.CreateIssues(ctx, []NewIssue{{
		Title:    "network outage",
		Register: "2026RJ/00042",
	}})
	require.NoError(t, err)

	t.Run("register links and titles the comment", func(t *testing.T) {
		comment, err := f.comments.CreateComment(ctx, author.ID, NewComment{
			Body:     "still no link #outage",
			Register: issues[0].Register,
		})
		require.NoError(t, err)

		require.Equal(t, author.ID, comment.Author)
		require.Equal(t, issues[0].ID, comment.Issue)
		require.Equal(t, "network outage", comment.Title)
		require.Equal(t, []string{"#outage"}, comment.Hashtags)
		require.Contains(t, comment.Body, `class="hashLink"`)
		require.NotEmpty(t, comment.Shottime)
	})

	t.Run("unlinked comment titles from its first hashtag", func(t *testing.T) {
		comment, err := f.comments.CreateComment(ctx, author.ID, NewComment{
			Body: "random chat #vpn #dns",
		})
		require.NoError(t, err)
		require.Equal(t, "#vpn", comment.Title)
		require.Empty(t, comment.Issue)
	})

	t.Run("unknown issue reference creates an unlinked comment", func(t *testing.T) {
		comment, err := f.comments.CreateComment(ctx, author.ID, NewComment{
			Body:  "referencing a ghost #lost",
			Issue: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		})
		require.NoError(t, err)
		require.Empty(t, comment.Issue)
		require.Equal(t, "#lost", comment.Title)
	})

	t.Run("rejects invalid documents", func(t *testing.T) {
		_, err := f.comments.CreateComment(ctx, author.ID, NewComment{Body: ""})
		require.ErrorIs(t, err, ErrInvalidRequest)

		_, err = f.comments.CreateComment(ctx, author.ID, NewComment{Body: "x", Origin: 9})
		require.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestListComments(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	ada := f.seedAccount(t, "ada.lovelace@example.com")
	alan := f.seedAccount(t, "alan.turing@example.com")

	_, err := f.comments.CreateComment(ctx, ada.ID, NewComment{Body: "checking #vpn"})
	require.NoError(t, err)
	_, err = f.comments.CreateComment(ctx, alan.ID, NewComment{Body: "printers again"})
	require.NoError(t, err)

	page := store.Page{Number: 1, MaxResults: 25}

	t.Run("hashtag filter", func(t *testing.T) {
		comments, total, err := f.comments.List(ctx, url.Values{"hashtag": {"vpn"}}, page)
		require.NoError(t, err)
		require.Equal(t, 1, total)
		require.Equal(t, ada.ID, comments[0].Author)
	})

	t.Run("author filter by username", func(t *testing.T) {
		comments, total, err := f.comments.List(ctx, url.Values{"u": {"alanturing"}}, page)
		require.NoError(t, err)
		require.Equal(t, 1, total)
		require.Equal(t, alan.ID, comments[0].Author)
	})

	t.Run("unknown username yields nothing", func(t *testing.T) {
		comments, total, err := f.comments.List(ctx, url.Values{"u": {"ghost"}}, page)
		require.NoError(t, err)
		require.Zero(t, total)
		require.Empty(t, comments)
	})

	t.Run("search matches body text", func(t *testing.T) {
		_, total, err := f.comments.List(ctx, url.Values{"search": {"printers"}}, page)
		require.NoError(t, err)
		require.Equal(t, 1, total)
	})
}

func TestEditAndDeleteComment(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	author := f.seedAccount(t, "author@example.com")
	other := f.seedAccount(t, "other@example.com")

	comment, err := f.comments.CreateComment(ctx, author.ID, NewComment{Body: "first draft"})
	require.NoError(t, err)

	t.Run("author can edit", func(t *testing.T) {
		body := "second draft"
		updated, err := f.comments.Edit(ctx, author.ID, comment.ID, store.CommentPatch{Body: &body})
		require.NoError(t, err)
		require.Equal(t, "second draft", updated.Body)
		require.Equal(t, author.ID, updated.Author)
	})

	t.Run("someone else sees not found", func(t *testing.T) {
		body := "hijacked"
		_, err := f.comments.Edit(ctx, other.ID, comment.ID, store.CommentPatch{Body: &body})
		require.ErrorIs(t, err, store.ErrNotFound)

		err = f.comments.Delete(ctx, other.ID, comment.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("author can delete", func(t *testing.T) {
		require.NoError(t, f.comments.Delete(ctx, author.ID, comment.ID))
		_, err := f.comments.Get(ctx, comment.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

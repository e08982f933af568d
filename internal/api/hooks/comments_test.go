package hooks

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/render"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/pkg/idx"
)

func seedIssue(t *testing.T, st store.Store, title, register string, createdAt time.Time) domain.Issue {
	t.Helper()

	issue := domain.Issue{
		ID:           idx.NewAt(createdAt).String(),
		Title:        title,
		Register:     register,
		RegisterOrig: register,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	require.NoError(t, st.Issues().CreateIssue(testContext(t), issue))
	return issue
}

func seedUser(t *testing.T, st store.Store, email, username string) domain.User {
	t.Helper()

	now := time.Now().UTC()
	user := domain.User{
		ID:        idx.New().String(),
		Email:     email,
		Username:  username,
		Token:     "tok-" + username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Users().CreateUser(testContext(t), user))
	return user
}

func TestCommentEnricherApply(t *testing.T) {
	st := newTestStore(t)
	ctx := testContext(t)

	now := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)
	issue := seedIssue(t, st, "network outage", "2026RJ01234", now.Add(-45*time.Minute))

	hook := CommentEnricher{
		Issues: st.Issues(),
		Now:    func() time.Time { return now },
	}

	t.Run("issue reference wins the title", func(t *testing.T) {
		c := &domain.Comment{Issue: issue.ID, Body: "still down #outage"}
		require.NoError(t, hook.Apply(ctx, []*domain.Comment{c}))

		require.Equal(t, "network outage", c.Title)
		require.Equal(t, []string{"#outage"}, c.Hashtags)
		require.Equal(t, "45", c.Shottime)
	})

	t.Run("register resolves and backfills the issue", func(t *testing.T) {
		c := &domain.Comment{Register: issue.Register, Body: "any news?"}
		require.NoError(t, hook.Apply(ctx, []*domain.Comment{c}))

		require.Equal(t, issue.ID, c.Issue)
		require.Equal(t, "network outage", c.Title)
		require.Equal(t, "45", c.Shottime)
	})

	t.Run("unknown register leaves the comment unlinked", func(t *testing.T) {
		c := &domain.Comment{Register: "nope", Body: "#lost update"}
		require.NoError(t, hook.Apply(ctx, []*domain.Comment{c}))

		require.Empty(t, c.Issue)
		require.Equal(t, "#lost", c.Title)
		require.Equal(t, strconv.Itoa(now.Hour())+"h", c.Shottime)
	})

	t.Run("unknown issue id is cleared from the comment", func(t *testing.T) {
		c := &domain.Comment{Issue: idx.New().String(), Body: "orphan #ref"}
		require.NoError(t, hook.Apply(ctx, []*domain.Comment{c}))

		require.Empty(t, c.Issue)
		require.Equal(t, "#ref", c.Title)
		require.Equal(t, strconv.Itoa(now.Hour())+"h", c.Shottime)
	})

	t.Run("first hashtag titles an unlinked comment", func(t *testing.T) {
		c := &domain.Comment{Body: "talking about #vpn and #dns"}
		require.NoError(t, hook.Apply(ctx, []*domain.Comment{c}))

		require.Equal(t, "#vpn", c.Title)
		require.Equal(t, []string{"#vpn", "#dns"}, c.Hashtags)
	})

	t.Run("fallback title without issue or hashtag", func(t *testing.T) {
		c := &domain.Comment{Body: "nothing to see"}
		require.NoError(t, hook.Apply(ctx, []*domain.Comment{c}))

		require.Equal(t, domain.FallbackTitle, c.Title)
		require.Empty(t, c.Hashtags)
	})

	t.Run("body hashtags become anchors", func(t *testing.T) {
		c := &domain.Comment{Body: "see #vpn"}
		require.NoError(t, hook.Apply(ctx, []*domain.Comment{c}))

		require.Contains(t, c.Body, `href="/hashtag/#vpn"`)
		require.Contains(t, c.Body, `class="hashLink"`)
		require.True(t, strings.HasPrefix(c.Body, "see "))
	})

	t.Run("handles a batch", func(t *testing.T) {
		batch := []*domain.Comment{
			{Issue: issue.ID, Body: "one"},
			{Body: "two #tag"},
		}
		require.NoError(t, hook.Apply(ctx, batch))

		require.Equal(t, "network outage", batch[0].Title)
		require.Equal(t, "#tag", batch[1].Title)
	})
}

func TestCommentFiltersApply(t *testing.T) {
	st := newTestStore(t)
	ctx := testContext(t)

	user := seedUser(t, st, "ada@example.com", "ada")
	hook := CommentFilters{Users: st.Users()}

	t.Run("hashtag gains its prefix", func(t *testing.T) {
		var f store.CommentFilter
		require.NoError(t, hook.Apply(ctx, url.Values{"hashtag": {"vpn"}}, &f))
		require.Equal(t, "#vpn", f.Hashtag)
	})

	t.Run("username resolves to author id", func(t *testing.T) {
		var f store.CommentFilter
		require.NoError(t, hook.Apply(ctx, url.Values{"u": {"ada"}}, &f))
		require.Equal(t, user.ID, f.AuthorID)
		require.False(t, f.MatchNone)
	})

	t.Run("unknown username matches nothing", func(t *testing.T) {
		var f store.CommentFilter
		require.NoError(t, hook.Apply(ctx, url.Values{"u": {"ghost"}}, &f))
		require.True(t, f.MatchNone)
	})

	t.Run("search passes through", func(t *testing.T) {
		var f store.CommentFilter
		require.NoError(t, hook.Apply(ctx, url.Values{"search": {"outage"}}, &f))
		require.Equal(t, "outage", f.Search)
	})

	t.Run("empty query leaves the filter zero", func(t *testing.T) {
		var f store.CommentFilter
		require.NoError(t, hook.Apply(ctx, url.Values{}, &f))
		require.Equal(t, store.CommentFilter{}, f)
	})
}

func TestCommentEmbedApply(t *testing.T) {
	st := newTestStore(t)
	ctx := testContext(t)

	author := seedUser(t, st, "ada@example.com", "ada")
	hook := CommentEmbed{Users: st.Users()}

	commentID := idx.New().String()
	doc := render.Doc{
		"_id":    commentID,
		"author": author.ID,
		"_links": render.SelfLink("comments/new", commentID, "Comment"),
	}

	require.NoError(t, hook.Apply(ctx, doc))

	embedded, ok := doc["author"].(render.Doc)
	require.True(t, ok)
	require.Equal(t, author.ID, embedded["_id"])
	require.Equal(t, "ada", embedded["username"])
	require.NotContains(t, embedded, "token")

	links, ok := doc["_links"].(render.Doc)
	require.True(t, ok)
	self, ok := links["self"].(render.Doc)
	require.True(t, ok)
	require.Equal(t, render.Prefix+"/comments/"+commentID, self["href"])
}

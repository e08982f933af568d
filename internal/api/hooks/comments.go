package hooks

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/render"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/pkg/textx"
)

// CommentEnricher derives the computed comment fields before insert:
// hashtags extracted from the body, the body rewritten with hashtag
// anchors, the title resolution chain and the shottime indicator.
//
// Title resolution, in order: the referenced issue's title (resolving and
// backfilling the issue reference from the register when only the
// register was submitted), the first hashtag, then the fallback title.
// A register or issue id that resolves to no issue simply leaves the
// comment unlinked rather than failing the insert.
type CommentEnricher struct {
	Issues store.Issues

	// Now is injectable for deterministic shottime tests. Nil means
	// time.Now.
	Now func() time.Time
}

func (h CommentEnricher) Apply(ctx context.Context, comments []*domain.Comment) error {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	for _, c := range comments {
		c.Hashtags = textx.ExtractHashtags(c.Body)
		// Applied exactly once per comment; the anchors themselves contain
		// no bare hashtags, so re-extraction on the stored body would drift.
		c.Body = textx.WrapHashtagsAsLinks(c.Body)

		issue, err := h.resolveIssue(ctx, c)
		if err != nil {
			return err
		}

		switch {
		case issue != nil:
			c.Title = issue.Title
		case len(c.Hashtags) > 0:
			c.Title = c.Hashtags[0]
		default:
			c.Title = domain.FallbackTitle
		}

		if issue != nil {
			elapsed := int(now().Sub(issue.CreatedAt).Minutes())
			c.Shottime = strconv.Itoa(elapsed)
		} else {
			c.Shottime = strconv.Itoa(now().Hour()) + "h"
		}
	}
	return nil
}

func (h CommentEnricher) resolveIssue(ctx context.Context, c *domain.Comment) (*domain.Issue, error) {
	switch {
	case c.Issue != "":
		issue, err := h.Issues.GetIssueByID(ctx, c.Issue)
		if errors.Is(err, store.ErrNotFound) {
			// The dangling id must not reach the insert, the comments
			// table enforces the issue reference.
			c.Issue = ""
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("resolve issue %s: %w", c.Issue, err)
		}
		return &issue, nil
	case c.Register != "":
		issue, err := h.Issues.GetIssueByRegister(ctx, c.Register)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("resolve issue by register %q: %w", c.Register, err)
		}
		c.Issue = issue.ID
		return &issue, nil
	}
	return nil, nil
}

// CommentFilters maps the comment list query parameters onto the store
// filter. The "u" parameter resolves a username to an author id; an
// unknown username yields an empty result set instead of an error.
type CommentFilters struct {
	Users store.Users
}

func (h CommentFilters) Apply(ctx context.Context, query url.Values, f *store.CommentFilter) error {
	if tag := query.Get("hashtag"); tag != "" {
		f.Hashtag = "#" + tag
	}

	if username := query.Get("u"); username != "" {
		user, err := h.Users.GetUserByUsername(ctx, username)
		switch {
		case errors.Is(err, store.ErrNotFound):
			f.MatchNone = true
		case err != nil:
			return fmt.Errorf("resolve username %q: %w", username, err)
		default:
			f.AuthorID = user.ID
		}
	}

	if s := query.Get("search"); s != "" {
		f.Search = s
	}
	return nil
}

// CommentEmbed rewrites a comment's wire form: the author id is expanded
// into the embedded user document and the self link is pointed at the
// canonical comment location. Applied to freshly created comments, whose
// creation endpoint lives in a different URL namespace, and to list items
// when the client asks for author embedding.
type CommentEmbed struct {
	Users store.Users
}

func (h CommentEmbed) Apply(ctx context.Context, doc render.Doc) error {
	authorID, _ := doc["author"].(string)
	if authorID != "" {
		author, err := h.Users.GetUserByID(ctx, authorID)
		if err != nil {
			return fmt.Errorf("expand author %s: %w", authorID, err)
		}
		doc["author"] = render.EmbeddedUser(author)
	}

	if id, ok := doc["_id"].(string); ok {
		doc["_links"] = render.SelfLink("comments", id, "Comment")
	}
	return nil
}

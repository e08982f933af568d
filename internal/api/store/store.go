package store

import (
	"context"
	"errors"

	"github.com/siscomando/api/internal/api/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrReferenced reports a write rejected because other documents
	// still reference the target, e.g. deleting a user who has
	// authored comments.
	ErrReferenced = errors.New("store: still referenced")
)

// Page is a 1-based pagination window for list queries.
type Page struct {
	Number     int
	MaxResults int
}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	if p.Number <= 1 {
		return 0
	}
	return (p.Number - 1) * p.MaxResults
}

// UserFilter narrows user list queries. Zero value matches everything.
type UserFilter struct {
	// Username is a case-insensitive substring match against username.
	Username string
}

// CommentFilter narrows comment list queries. Filters are independently
// additive; the zero value matches everything.
type CommentFilter struct {
	// Hashtag restricts to comments whose hashtags list contains a
	// case-insensitive match.
	Hashtag string
	// AuthorID restricts to comments by a specific user.
	AuthorID string
	// Search is a case-insensitive substring match on body and title.
	Search string
	// MatchNone short-circuits the query to an empty result set. Set by
	// the pre-query hooks when a username filter resolves to no account.
	MatchNone bool
}

// ProfilePatch carries the self-service profile fields a PATCH may set.
// Nil members are left untouched.
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Location  *string
	Avatar    *string
}

// IssuePatch carries the issue fields a superuser PATCH may set.
type IssuePatch struct {
	Title      *string
	Body       *string
	Classifier *int
	Ugat       *string
	Ugser      *string
	Deadline   *int
	Closed     *bool
}

// CommentPatch carries the comment fields the edit endpoint may set.
// Author is deliberately absent: it is never settable after creation.
type CommentPatch struct {
	Body   *string
	Title  *string
	Origin *int
}

// Store is the root data access interface. Concrete drivers implement
// this. It exposes sub-repositories to keep concerns tidy and testable,
// and capability-scoped: hooks receive only the sub-repository they need.
type Store interface {
	Users() Users
	Issues() Issues
	Comments() Comments
	Stars() Stars

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during basic (email+password) authentication.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUsername resolves the additional username lookup and the
	// "u" comment filter.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByToken treats the bearer token as an opaque unique key.
	GetUserByToken(ctx context.Context, token string) (domain.User, error)

	// GetUserByOwner locates the singleton "me" record for a caller.
	GetUserByOwner(ctx context.Context, owner string) (domain.User, error)

	// ListUsers returns a page of users plus the unpaged total.
	ListUsers(ctx context.Context, f UserFilter, p Page) ([]domain.User, int, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// SetOwner stamps the owner field after a successful insert.
	SetOwner(ctx context.Context, userID, owner string) error

	// UpdateProfile applies self-service profile edits and bumps updated_at.
	UpdateProfile(ctx context.Context, userID string, p ProfilePatch) error

	// DeleteUser removes a single user.
	DeleteUser(ctx context.Context, userID string) error

	// DeleteAllUsers implements the collection-level DELETE.
	DeleteAllUsers(ctx context.Context) error
}

type Issues interface {
	// GetIssueByID returns an issue by id.
	GetIssueByID(ctx context.Context, id string) (domain.Issue, error)

	// GetIssueByRegister resolves the additional register lookup and the
	// comment title hook.
	GetIssueByRegister(ctx context.Context, register string) (domain.Issue, error)

	// ListIssues returns a page of issues plus the unpaged total.
	ListIssues(ctx context.Context, p Page) ([]domain.Issue, int, error)

	// CreateIssue inserts a new issue.
	CreateIssue(ctx context.Context, i domain.Issue) error

	// UpdateIssue applies a superuser patch and bumps updated_at.
	UpdateIssue(ctx context.Context, issueID string, p IssuePatch) error

	// GroupByTitle aggregates issues into title buckets, newest group
	// first, bounded to at most maxGroups groups.
	GroupByTitle(ctx context.Context, maxGroups int) ([]domain.IssueGroup, error)
}

type Comments interface {
	// GetCommentByID returns a comment by id.
	GetCommentByID(ctx context.Context, id string) (domain.Comment, error)

	// ListComments returns a page of comments, newest first, plus the
	// unpaged total.
	ListComments(ctx context.Context, f CommentFilter, p Page) ([]domain.Comment, int, error)

	// CreateComment inserts a new comment.
	CreateComment(ctx context.Context, c domain.Comment) error

	// UpdateComment applies an edit-endpoint patch and bumps updated_at.
	UpdateComment(ctx context.Context, commentID string, p CommentPatch) error

	// DeleteComment removes a comment.
	DeleteComment(ctx context.Context, commentID string) error

	// AppendStar pushes a star id onto the comment's stars list. The
	// append MUST be atomic at the single-document level: it is issued as
	// one UPDATE statement so concurrent star creations against the same
	// comment cannot lose updates.
	AppendStar(ctx context.Context, commentID, starID string) error
}

type Stars interface {
	// GetStarByID returns a star by id.
	GetStarByID(ctx context.Context, id string) (domain.Star, error)

	// ListStars returns a page of stars plus the unpaged total.
	ListStars(ctx context.Context, p Page) ([]domain.Star, int, error)

	// CreateStar inserts a new star (voter already stamped).
	CreateStar(ctx context.Context, s domain.Star) error
}

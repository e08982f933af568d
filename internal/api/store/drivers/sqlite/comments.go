package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/store"
)

const commentColumns = `id, issue, register, author, title, body, hashtags,
	mentions, origin, shottime, stars, created_at, updated_at`

type commentsRepo struct {
	db dbtx
}

func scanComment(row interface{ Scan(...any) error }) (domain.Comment, error) {
	var c domain.Comment
	var issue sql.NullString
	var hashtags, mentions, stars string
	err := row.Scan(
		&c.ID, &issue, &c.Register, &c.Author, &c.Title, &c.Body, &hashtags,
		&mentions, &c.Origin, &c.Shottime, &stars, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Comment{}, err
	}
	if issue.Valid {
		c.Issue = issue.String
	}
	c.Hashtags = splitList(hashtags)
	c.Mentions = splitList(mentions)
	c.Stars = splitList(stars)
	return c, nil
}

func (r *commentsRepo) GetCommentByID(ctx context.Context, id string) (domain.Comment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)
	c, err := scanComment(row)
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	return c, nil
}

// filterClauses translates a CommentFilter into WHERE clauses. Filters are
// independently additive.
func filterClauses(f store.CommentFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.MatchNone {
		return " WHERE 1 = 0", nil
	}
	if f.Hashtag != "" {
		// Token membership against the space-delimited hashtags field,
		// case-insensitive.
		clauses = append(clauses,
			`(' ' || lower(hashtags) || ' ') LIKE ('% ' || lower(?) || ' %')`)
		args = append(args, f.Hashtag)
	}
	if f.AuthorID != "" {
		clauses = append(clauses, `author = ?`)
		args = append(args, f.AuthorID)
	}
	if f.Search != "" {
		clauses = append(clauses,
			`(body LIKE '%' || ? || '%' OR title LIKE '%' || ? || '%')`)
		args = append(args, f.Search, f.Search)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *commentsRepo) ListComments(
	ctx context.Context,
	f store.CommentFilter,
	p store.Page,
) ([]domain.Comment, int, error) {
	where, args := filterClauses(f)

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.MaxResults, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments`+where+`
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}
	return comments, total, rows.Err()
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) error {
	var issue any
	if c.Issue != "" {
		issue = c.Issue
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (`+commentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, issue, c.Register, c.Author, c.Title, c.Body,
		joinList(c.Hashtags), joinList(c.Mentions), c.Origin, c.Shottime,
		joinList(c.Stars), c.CreatedAt, c.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *commentsRepo) UpdateComment(
	ctx context.Context,
	commentID string,
	p store.CommentPatch,
) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if p.Body != nil {
		sets = append(sets, "body = ?")
		args = append(args, *p.Body)
	}
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Origin != nil {
		sets = append(sets, "origin = ?")
		args = append(args, *p.Origin)
	}
	args = append(args, commentID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *commentsRepo) DeleteComment(ctx context.Context, commentID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, commentID)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRow(res)
}

// AppendStar is a single UPDATE statement so the list append is atomic at
// the document level; concurrent appends against the same comment cannot
// lose updates. There is no cross-document transaction with the star
// insert itself.
func (r *commentsRepo) AppendStar(ctx context.Context, commentID, starID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE comments
		SET stars = trim(stars || ' ' || ?), updated_at = ?
		WHERE id = ?`,
		starID, time.Now().UTC(), commentID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

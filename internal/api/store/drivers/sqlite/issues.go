package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/store"
)

const issueColumns = `id, title, body, register, register_orig, classifier,
	ugat, ugser, deadline, closed, created_at, updated_at`

type issuesRepo struct {
	db dbtx
}

func scanIssue(row interface{ Scan(...any) error }) (domain.Issue, error) {
	var i domain.Issue
	err := row.Scan(
		&i.ID, &i.Title, &i.Body, &i.Register, &i.RegisterOrig, &i.Classifier,
		&i.Ugat, &i.Ugser, &i.Deadline, &i.Closed, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return domain.Issue{}, err
	}
	return i, nil
}

func (r *issuesRepo) GetIssueByID(ctx context.Context, id string) (domain.Issue, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE id = ?`, id)
	i, err := scanIssue(row)
	if err != nil {
		return domain.Issue{}, mapNotFound(err)
	}
	return i, nil
}

func (r *issuesRepo) GetIssueByRegister(
	ctx context.Context,
	register string,
) (domain.Issue, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE register = ?`, register)
	i, err := scanIssue(row)
	if err != nil {
		return domain.Issue{}, mapNotFound(err)
	}
	return i, nil
}

func (r *issuesRepo) ListIssues(
	ctx context.Context,
	p store.Page,
) ([]domain.Issue, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM issues`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+issueColumns+` FROM issues ORDER BY id LIMIT ? OFFSET ?`,
		p.MaxResults, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var issues []domain.Issue
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, 0, err
		}
		issues = append(issues, i)
	}
	return issues, total, rows.Err()
}

func (r *issuesRepo) CreateIssue(ctx context.Context, i domain.Issue) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO issues (`+issueColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.Title, i.Body, i.Register, i.RegisterOrig, i.Classifier,
		i.Ugat, i.Ugser, i.Deadline, i.Closed, i.CreatedAt, i.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *issuesRepo) UpdateIssue(
	ctx context.Context,
	issueID string,
	p store.IssuePatch,
) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Body != nil {
		sets = append(sets, "body = ?")
		args = append(args, *p.Body)
	}
	if p.Classifier != nil {
		sets = append(sets, "classifier = ?")
		args = append(args, *p.Classifier)
	}
	if p.Ugat != nil {
		sets = append(sets, "ugat = ?")
		args = append(args, *p.Ugat)
	}
	if p.Ugser != nil {
		sets = append(sets, "ugser = ?")
		args = append(args, *p.Ugser)
	}
	if p.Deadline != nil {
		sets = append(sets, "deadline = ?")
		args = append(args, *p.Deadline)
	}
	if p.Closed != nil {
		sets = append(sets, "closed = ?")
		args = append(args, *p.Closed)
	}
	args = append(args, issueID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE issues SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// GroupByTitle picks the most recently active titles first, then loads the
// members of each selected group. The group count bound keeps the
// aggregation response proportional to maxGroups rather than to the whole
// collection.
func (r *issuesRepo) GroupByTitle(
	ctx context.Context,
	maxGroups int,
) ([]domain.IssueGroup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT title FROM issues
		GROUP BY title
		ORDER BY MAX(created_at) DESC
		LIMIT ?`, maxGroups)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?, ", len(titles)-1) + "?"
	args := make([]any, len(titles))
	for i, t := range titles {
		args[i] = t
	}

	memberRows, err := r.db.QueryContext(ctx,
		`SELECT `+issueColumns+` FROM issues
		WHERE title IN (`+placeholders+`)
		ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer memberRows.Close()

	byTitle := make(map[string][]domain.Issue, len(titles))
	for memberRows.Next() {
		i, err := scanIssue(memberRows)
		if err != nil {
			return nil, err
		}
		byTitle[i.Title] = append(byTitle[i.Title], i)
	}
	if err := memberRows.Err(); err != nil {
		return nil, err
	}

	groups := make([]domain.IssueGroup, 0, len(titles))
	for _, title := range titles {
		groups = append(groups, domain.IssueGroup{Title: title, Issues: byTitle[title]})
	}
	return groups, nil
}

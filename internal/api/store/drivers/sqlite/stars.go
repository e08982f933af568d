package sqlite

import (
	"context"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/store"
)

const starColumns = `id, voter, comment, score, created_at`

type starsRepo struct {
	db dbtx
}

func scanStar(row interface{ Scan(...any) error }) (domain.Star, error) {
	var s domain.Star
	err := row.Scan(&s.ID, &s.Voter, &s.Comment, &s.Score, &s.CreatedAt)
	if err != nil {
		return domain.Star{}, err
	}
	return s, nil
}

func (r *starsRepo) GetStarByID(ctx context.Context, id string) (domain.Star, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+starColumns+` FROM stars WHERE id = ?`, id)
	s, err := scanStar(row)
	if err != nil {
		return domain.Star{}, mapNotFound(err)
	}
	return s, nil
}

func (r *starsRepo) ListStars(
	ctx context.Context,
	p store.Page,
) ([]domain.Star, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM stars`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+starColumns+` FROM stars ORDER BY id LIMIT ? OFFSET ?`,
		p.MaxResults, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var stars []domain.Star
	for rows.Next() {
		s, err := scanStar(rows)
		if err != nil {
			return nil, 0, err
		}
		stars = append(stars, s)
	}
	return stars, total, rows.Err()
}

func (r *starsRepo) CreateStar(ctx context.Context, s domain.Star) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stars (`+starColumns+`)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Voter, s.Comment, s.Score, s.CreatedAt,
	)
	return mapConstraint(err)
}

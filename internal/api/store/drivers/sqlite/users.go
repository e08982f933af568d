package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/store"
)

const userColumns = `id, email, password_hash, username, roles, token, md5_email,
	first_name, last_name, location, avatar, owner, created_at, updated_at`

type usersRepo struct {
	db dbtx
}

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	var roles string
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Username, &roles, &u.Token,
		&u.MD5Email, &u.FirstName, &u.LastName, &u.Location, &u.Avatar,
		&u.Owner, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.Roles = splitList(roles)
	return u, nil
}

func (r *usersRepo) getBy(ctx context.Context, column, value string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *usersRepo) GetUserByToken(ctx context.Context, token string) (domain.User, error) {
	return r.getBy(ctx, "token", token)
}

func (r *usersRepo) GetUserByOwner(ctx context.Context, owner string) (domain.User, error) {
	return r.getBy(ctx, "owner", owner)
}

func (r *usersRepo) ListUsers(
	ctx context.Context,
	f store.UserFilter,
	p store.Page,
) ([]domain.User, int, error) {
	where := ""
	args := []any{}
	if f.Username != "" {
		where = ` WHERE username LIKE '%' || ? || '%'`
		args = append(args, f.Username)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.MaxResults, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users`+where+` ORDER BY id LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Username, joinList(u.Roles), u.Token,
		u.MD5Email, u.FirstName, u.LastName, u.Location, u.Avatar, u.Owner,
		u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) SetOwner(ctx context.Context, userID, owner string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET owner = ?, updated_at = ? WHERE id = ?`,
		owner, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) UpdateProfile(
	ctx context.Context,
	userID string,
	p store.ProfilePatch,
) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if p.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *p.FirstName)
	}
	if p.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *p.LastName)
	}
	if p.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *p.Location)
	}
	if p.Avatar != nil {
		sets = append(sets, "avatar = ?")
		args = append(args, *p.Avatar)
	}
	args = append(args, userID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRow(res)
}

func (r *usersRepo) DeleteAllUsers(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users`)
	return mapConstraint(err)
}

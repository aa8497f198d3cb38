package database

import (
	"context"
	"fmt"
	"time"

	"marehpilates/internal/domain"
	"marehpilates/internal/models"
)

const userColumns = `id, username, password_hash, is_admin, creado_en`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreadoEn); err != nil {
		return nil, err
	}
	return &u, nil
}

func (q *Queries) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (q *Queries) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (q *Queries) CreateUser(ctx context.Context, u *models.User) error {
	if u.CreadoEn.IsZero() {
		u.CreadoEn = time.Now().UTC()
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, is_admin, creado_en) VALUES (?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.IsAdmin, u.CreadoEn)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Field: "username"}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (q *Queries) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE users SET username = ?, password_hash = ?, is_admin = ? WHERE id = ?`,
		u.Username, u.PasswordHash, u.IsAdmin, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Field: "username"}
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return expectOneRow(res)
}

func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "users", id)
}

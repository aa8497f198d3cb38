package database

import (
	"context"
	"fmt"
	"time"

	"marehpilates/internal/models"

	"github.com/shopspring/decimal"
)

const clientColumns = `id, nombre, telefono, email, activo, saldo, creado_en`

func scanClient(row interface{ Scan(...any) error }) (*models.Client, error) {
	var c models.Client
	if err := row.Scan(&c.ID, &c.Nombre, &c.Telefono, &c.Email, &c.Activo, &c.Saldo, &c.CreadoEn); err != nil {
		return nil, err
	}
	return &c, nil
}

func (q *Queries) ListClients(ctx context.Context) ([]*models.Client, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY nombre ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (q *Queries) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	c, err := scanClient(q.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "client")
	}
	return c, nil
}

// CreateClient inserts c with a zero balance regardless of c.Saldo.
func (q *Queries) CreateClient(ctx context.Context, c *models.Client) error {
	if c.CreadoEn.IsZero() {
		c.CreadoEn = time.Now().UTC()
	}
	c.Saldo = decimal.Zero
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO clients (nombre, telefono, email, activo, saldo, creado_en) VALUES (?, ?, ?, ?, ?, ?)`,
		c.Nombre, c.Telefono, c.Email, c.Activo, c.Saldo, c.CreadoEn)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

// UpdateClient writes the profile fields; the balance is only changed by SetClientBalance.
func (q *Queries) UpdateClient(ctx context.Context, c *models.Client) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE clients SET nombre = ?, telefono = ?, email = ?, activo = ? WHERE id = ?`,
		c.Nombre, c.Telefono, c.Email, c.Activo, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return expectOneRow(res)
}

func (q *Queries) SetClientBalance(ctx context.Context, id int64, saldo decimal.Decimal) error {
	res, err := q.db.ExecContext(ctx, `UPDATE clients SET saldo = ? WHERE id = ?`, saldo, id)
	if err != nil {
		return fmt.Errorf("failed to set client balance: %w", err)
	}
	return expectOneRow(res)
}

func (q *Queries) DeleteClient(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "clients", id)
}

const coachColumns = `id, nombre, telefono, email, activo, creado_en`

func scanCoach(row interface{ Scan(...any) error }) (*models.Coach, error) {
	var c models.Coach
	if err := row.Scan(&c.ID, &c.Nombre, &c.Telefono, &c.Email, &c.Activo, &c.CreadoEn); err != nil {
		return nil, err
	}
	return &c, nil
}

func (q *Queries) ListCoaches(ctx context.Context) ([]*models.Coach, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+coachColumns+` FROM coaches ORDER BY nombre ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list coaches: %w", err)
	}
	defer rows.Close()

	var coaches []*models.Coach
	for rows.Next() {
		c, err := scanCoach(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coach: %w", err)
		}
		coaches = append(coaches, c)
	}
	return coaches, rows.Err()
}

func (q *Queries) GetCoach(ctx context.Context, id int64) (*models.Coach, error) {
	c, err := scanCoach(q.db.QueryRowContext(ctx, `SELECT `+coachColumns+` FROM coaches WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "coach")
	}
	return c, nil
}

func (q *Queries) CreateCoach(ctx context.Context, c *models.Coach) error {
	if c.CreadoEn.IsZero() {
		c.CreadoEn = time.Now().UTC()
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO coaches (nombre, telefono, email, activo, creado_en) VALUES (?, ?, ?, ?, ?)`,
		c.Nombre, c.Telefono, c.Email, c.Activo, c.CreadoEn)
	if err != nil {
		return fmt.Errorf("failed to create coach: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (q *Queries) UpdateCoach(ctx context.Context, c *models.Coach) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE coaches SET nombre = ?, telefono = ?, email = ?, activo = ? WHERE id = ?`,
		c.Nombre, c.Telefono, c.Email, c.Activo, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update coach: %w", err)
	}
	return expectOneRow(res)
}

func (q *Queries) DeleteCoach(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "coaches", id)
}

func (q *Queries) CoachExists(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx, "coaches", id)
}

package database

import (
	"context"
	"fmt"
	"strings"

	"marehpilates/internal/models"
)

const customerColumns = `id, nombre, telefono, email, nit`

func scanCustomer(row interface{ Scan(...any) error }) (*models.Customer, error) {
	var c models.Customer
	if err := row.Scan(&c.ID, &c.Nombre, &c.Telefono, &c.Email, &c.NIT); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCustomers returns customers ordered by name. A non-empty search keeps
// only names containing it, ignoring case.
func (q *Queries) ListCustomers(ctx context.Context, search string) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	var args []any
	if search != "" {
		query += ` WHERE lower(nombre) LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(strings.ToLower(search))+"%")
	}
	query += ` ORDER BY nombre ASC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (q *Queries) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	c, err := scanCustomer(q.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "customer")
	}
	return c, nil
}

// GetCustomerByPhone returns the oldest customer registered with telefono.
func (q *Queries) GetCustomerByPhone(ctx context.Context, telefono string) (*models.Customer, error) {
	c, err := scanCustomer(q.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE telefono = ? ORDER BY id LIMIT 1`, telefono))
	if err != nil {
		return nil, notFound(err, "customer")
	}
	return c, nil
}

func (q *Queries) CreateCustomer(ctx context.Context, c *models.Customer) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO customers (nombre, telefono, email, nit) VALUES (?, ?, ?, ?)`,
		c.Nombre, c.Telefono, c.Email, c.NIT)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (q *Queries) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE customers SET nombre = ?, telefono = ?, email = ?, nit = ? WHERE id = ?`,
		c.Nombre, c.Telefono, c.Email, c.NIT, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return expectOneRow(res)
}

func (q *Queries) DeleteCustomer(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "customers", id)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

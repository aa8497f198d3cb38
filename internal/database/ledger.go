package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"marehpilates/internal/models"
)

const movementSelect = `
	SELECT m.id, m.client_id, m.amount, m.tipo, m.booking_id, m.nota, m.creado_en,
	       p.id, p.membership_id, p.payment_type, p.payment_method, p.payment_reference, p.fecha_pago
	FROM account_movements m
	LEFT JOIN payments p ON p.movement_id = m.id`

func scanMovement(row interface{ Scan(...any) error }) (*models.AccountMovement, error) {
	var (
		m         models.AccountMovement
		paymentID sql.NullInt64
		pay       models.Payment
		fechaPago sql.NullTime
	)
	err := row.Scan(&m.ID, &m.ClientID, &m.Amount, &m.Tipo, &m.BookingID, &m.Nota, &m.CreadoEn,
		&paymentID, &pay.MembershipID, &pay.PaymentType, &pay.PaymentMethod, &pay.PaymentReference, &fechaPago)
	if err != nil {
		return nil, err
	}
	if paymentID.Valid {
		pay.ID = paymentID.Int64
		pay.MovementID = m.ID
		pay.FechaPago = fechaPago.Time
		m.Payment = &pay
	}
	return &m, nil
}

// ListMovements returns ledger entries newest first.
func (q *Queries) ListMovements(ctx context.Context) ([]*models.AccountMovement, error) {
	rows, err := q.db.QueryContext(ctx, movementSelect+` ORDER BY m.creado_en DESC, m.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list account movements: %w", err)
	}
	defer rows.Close()

	var movements []*models.AccountMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func (q *Queries) GetMovement(ctx context.Context, id int64) (*models.AccountMovement, error) {
	m, err := scanMovement(q.db.QueryRowContext(ctx, movementSelect+` WHERE m.id = ?`, id))
	if err != nil {
		return nil, notFound(err, "account movement")
	}
	return m, nil
}

func (q *Queries) CreateMovement(ctx context.Context, m *models.AccountMovement) error {
	if m.CreadoEn.IsZero() {
		m.CreadoEn = time.Now().UTC()
	}
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO account_movements (client_id, amount, tipo, booking_id, nota, creado_en)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ClientID, m.Amount, m.Tipo, m.BookingID, m.Nota, m.CreadoEn)
	if err != nil {
		return fmt.Errorf("failed to create account movement: %w", err)
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (q *Queries) CreatePayment(ctx context.Context, p *models.Payment) error {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO payments (movement_id, membership_id, payment_type, payment_method, payment_reference, fecha_pago)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.MovementID, p.MembershipID, p.PaymentType, p.PaymentMethod, p.PaymentReference, p.FechaPago.UTC())
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

// SumMovements recomputes the client's balance from the ledger rows.
func (q *Queries) SumMovements(ctx context.Context, clientID int64) (models.Balance, error) {
	bal := models.Balance{ClientID: clientID}
	rows, err := q.db.QueryContext(ctx, `SELECT amount FROM account_movements WHERE client_id = ?`, clientID)
	if err != nil {
		return bal, fmt.Errorf("failed to sum account movements: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.AccountMovement
		if err := rows.Scan(&m.Amount); err != nil {
			return bal, fmt.Errorf("failed to scan amount: %w", err)
		}
		bal.Saldo = bal.Saldo.Add(m.Amount)
	}
	return bal, rows.Err()
}

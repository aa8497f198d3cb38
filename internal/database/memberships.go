package database

import (
	"context"
	"fmt"

	"marehpilates/internal/models"
)

const planColumns = `id, nombre, max_clases_por_semana, max_clases_totales, duracion_dias, precio, activo`

func scanPlan(row interface{ Scan(...any) error }) (*models.MembershipPlan, error) {
	var p models.MembershipPlan
	err := row.Scan(&p.ID, &p.Nombre, &p.MaxClasesPorSemana, &p.MaxClasesTotales, &p.DuracionDias, &p.Precio, &p.Activo)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (q *Queries) ListPlans(ctx context.Context) ([]*models.MembershipPlan, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+planColumns+` FROM membership_plans ORDER BY nombre ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list membership plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.MembershipPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (q *Queries) GetPlan(ctx context.Context, id int64) (*models.MembershipPlan, error) {
	p, err := scanPlan(q.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM membership_plans WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "membership plan")
	}
	return p, nil
}

func (q *Queries) CreatePlan(ctx context.Context, p *models.MembershipPlan) error {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO membership_plans (nombre, max_clases_por_semana, max_clases_totales, duracion_dias, precio, activo)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Nombre, p.MaxClasesPorSemana, p.MaxClasesTotales, p.DuracionDias, p.Precio, p.Activo)
	if err != nil {
		return fmt.Errorf("failed to create membership plan: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (q *Queries) UpdatePlan(ctx context.Context, p *models.MembershipPlan) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE membership_plans SET nombre = ?, max_clases_por_semana = ?, max_clases_totales = ?,
		       duracion_dias = ?, precio = ?, activo = ?
		WHERE id = ?`,
		p.Nombre, p.MaxClasesPorSemana, p.MaxClasesTotales, p.DuracionDias, p.Precio, p.Activo, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update membership plan: %w", err)
	}
	return expectOneRow(res)
}

func (q *Queries) DeletePlan(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "membership_plans", id)
}

const membershipColumns = `id, client_id, plan_id, fecha_inicio, fecha_fin, estado, clases_usadas`

func scanMembership(row interface{ Scan(...any) error }) (*models.Membership, error) {
	var m models.Membership
	err := row.Scan(&m.ID, &m.ClientID, &m.PlanID, &m.FechaInicio, &m.FechaFin, &m.Estado, &m.ClasesUsadas)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (q *Queries) ListMemberships(ctx context.Context) ([]*models.Membership, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+membershipColumns+` FROM memberships ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (q *Queries) GetMembership(ctx context.Context, id int64) (*models.Membership, error) {
	m, err := scanMembership(q.db.QueryRowContext(ctx, `SELECT `+membershipColumns+` FROM memberships WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "membership")
	}
	return m, nil
}

func (q *Queries) CreateMembership(ctx context.Context, m *models.Membership) error {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO memberships (client_id, plan_id, fecha_inicio, fecha_fin, estado, clases_usadas)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ClientID, m.PlanID, m.FechaInicio, m.FechaFin, m.Estado, m.ClasesUsadas)
	if err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (q *Queries) UpdateMembership(ctx context.Context, m *models.Membership) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE memberships SET client_id = ?, plan_id = ?, fecha_inicio = ?, fecha_fin = ?, estado = ?, clases_usadas = ?
		WHERE id = ?`,
		m.ClientID, m.PlanID, m.FechaInicio, m.FechaFin, m.Estado, m.ClasesUsadas, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update membership: %w", err)
	}
	return expectOneRow(res)
}

func (q *Queries) DeleteMembership(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "memberships", id)
}

// ExpireMemberships marks every active membership that ended before today as
// inactive and returns how many rows changed.
func (q *Queries) ExpireMemberships(ctx context.Context, today models.Date) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE memberships SET estado = ? WHERE estado = ? AND fecha_fin < ?`,
		models.MembershipInactive, models.MembershipActive, today)
	if err != nil {
		return 0, fmt.Errorf("failed to expire memberships: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (q *Queries) ClientExists(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx, "clients", id)
}

func (q *Queries) PlanExists(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx, "membership_plans", id)
}

func (q *Queries) MembershipExists(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx, "memberships", id)
}

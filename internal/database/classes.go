package database

import (
	"context"
	"fmt"

	"marehpilates/internal/models"
)

const templateColumns = `id, nombre, coach_id, dia_semana, hora_inicio, hora_fin, capacidad, estado, fecha_inicio, fecha_fin`

func scanTemplate(row interface{ Scan(...any) error }) (*models.ClassTemplate, error) {
	var t models.ClassTemplate
	var inicio, fin models.Date
	err := row.Scan(&t.ID, &t.Nombre, &t.CoachID, &t.DiaSemana, &t.HoraInicio, &t.HoraFin,
		&t.Capacidad, &t.Estado, &inicio, &fin)
	if err != nil {
		return nil, err
	}
	if !inicio.IsZero() {
		t.FechaInicio = &inicio
	}
	if !fin.IsZero() {
		t.FechaFin = &fin
	}
	return &t, nil
}

func (q *Queries) ListClassTemplates(ctx context.Context) ([]*models.ClassTemplate, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM class_templates ORDER BY dia_semana, hora_inicio, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list class templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.ClassTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan class template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (q *Queries) GetClassTemplate(ctx context.Context, id int64) (*models.ClassTemplate, error) {
	t, err := scanTemplate(q.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM class_templates WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "class template")
	}
	return t, nil
}

func (q *Queries) CreateClassTemplate(ctx context.Context, t *models.ClassTemplate) error {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO class_templates (nombre, coach_id, dia_semana, hora_inicio, hora_fin, capacidad, estado, fecha_inicio, fecha_fin)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Nombre, t.CoachID, t.DiaSemana, t.HoraInicio, t.HoraFin, t.Capacidad, t.Estado,
		optionalDate(t.FechaInicio), optionalDate(t.FechaFin))
	if err != nil {
		return fmt.Errorf("failed to create class template: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (q *Queries) UpdateClassTemplate(ctx context.Context, t *models.ClassTemplate) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE class_templates SET nombre = ?, coach_id = ?, dia_semana = ?, hora_inicio = ?, hora_fin = ?,
		       capacidad = ?, estado = ?, fecha_inicio = ?, fecha_fin = ?
		WHERE id = ?`,
		t.Nombre, t.CoachID, t.DiaSemana, t.HoraInicio, t.HoraFin, t.Capacidad, t.Estado,
		optionalDate(t.FechaInicio), optionalDate(t.FechaFin), t.ID)
	if err != nil {
		return fmt.Errorf("failed to update class template: %w", err)
	}
	return expectOneRow(res)
}

func (q *Queries) DeleteClassTemplate(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "class_templates", id)
}

func (q *Queries) ClassTemplateExists(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx, "class_templates", id)
}

const sessionColumns = `id, template_id, fecha, hora_inicio, hora_fin, coach_id, capacidad, estado, nota`

func scanSession(row interface{ Scan(...any) error }) (*models.ClassSession, error) {
	var s models.ClassSession
	err := row.Scan(&s.ID, &s.TemplateID, &s.Fecha, &s.HoraInicio, &s.HoraFin, &s.CoachID,
		&s.Capacidad, &s.Estado, &s.Nota)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (q *Queries) ListClassSessions(ctx context.Context) ([]*models.ClassSession, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM class_sessions ORDER BY fecha, hora_inicio, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list class sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.ClassSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan class session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (q *Queries) GetClassSession(ctx context.Context, id int64) (*models.ClassSession, error) {
	s, err := scanSession(q.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM class_sessions WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "class session")
	}
	return s, nil
}

func (q *Queries) CreateClassSession(ctx context.Context, s *models.ClassSession) error {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO class_sessions (template_id, fecha, hora_inicio, hora_fin, coach_id, capacidad, estado, nota)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.TemplateID, s.Fecha, s.HoraInicio, s.HoraFin, s.CoachID, s.Capacidad, s.Estado, s.Nota)
	if err != nil {
		return fmt.Errorf("failed to create class session: %w", err)
	}
	s.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (q *Queries) UpdateClassSession(ctx context.Context, s *models.ClassSession) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE class_sessions SET template_id = ?, fecha = ?, hora_inicio = ?, hora_fin = ?, coach_id = ?,
		       capacidad = ?, estado = ?, nota = ?
		WHERE id = ?`,
		s.TemplateID, s.Fecha, s.HoraInicio, s.HoraFin, s.CoachID, s.Capacidad, s.Estado, s.Nota, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update class session: %w", err)
	}
	return expectOneRow(res)
}

func (q *Queries) DeleteClassSession(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "class_sessions", id)
}

func (q *Queries) ClassSessionExists(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx, "class_sessions", id)
}

// optionalDate maps a nil or zero date to NULL.
func optionalDate(d *models.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return *d
}

package service

import (
	"context"

	"marehpilates/internal/database"
	"marehpilates/internal/domain"
	"marehpilates/internal/models"

	"github.com/rs/zerolog"
)

// ScheduleService manages weekly class templates and dated class sessions.
type ScheduleService struct {
	db     *database.DB
	logger *zerolog.Logger
}

func NewScheduleService(db *database.DB, logger *zerolog.Logger) *ScheduleService {
	return &ScheduleService{db: db, logger: orNop(logger)}
}

func (s *ScheduleService) ListTemplates(ctx context.Context) ([]*models.ClassTemplate, error) {
	return s.db.ListClassTemplates(ctx)
}

func (s *ScheduleService) GetTemplate(ctx context.Context, id int64) (*models.ClassTemplate, error) {
	return s.db.GetClassTemplate(ctx, id)
}

func (s *ScheduleService) CreateTemplate(ctx context.Context, in models.ClassTemplateInput) (*models.ClassTemplate, error) {
	switch {
	case !in.Nombre.Has():
		return nil, domain.Required("nombre")
	case !in.CoachID.Has():
		return nil, domain.Required("coach_id")
	case !in.DiaSemana.Has():
		return nil, domain.Required("dia_semana")
	case !in.HoraInicio.Has():
		return nil, domain.Required("hora_inicio")
	case !in.HoraFin.Has():
		return nil, domain.Required("hora_fin")
	case !in.Capacidad.Has():
		return nil, domain.Required("capacidad")
	case !in.Estado.Has():
		return nil, domain.Required("estado")
	}
	if err := checkWeekday(in.DiaSemana.Value); err != nil {
		return nil, err
	}

	t := &models.ClassTemplate{
		Nombre:      in.Nombre.Value,
		CoachID:     in.CoachID.Value,
		DiaSemana:   in.DiaSemana.Value,
		HoraInicio:  in.HoraInicio.Value,
		HoraFin:     in.HoraFin.Value,
		Capacidad:   in.Capacidad.Value,
		Estado:      in.Estado.Value,
		FechaInicio: in.FechaInicio.Ptr(),
		FechaFin:    in.FechaFin.Ptr(),
	}
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		if err := checkRef(ctx, q.CoachExists, "coach_id", t.CoachID); err != nil {
			return err
		}
		return q.CreateClassTemplate(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *ScheduleService) UpdateTemplate(ctx context.Context, id int64, in models.ClassTemplateInput) (*models.ClassTemplate, error) {
	var updated *models.ClassTemplate
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		t, err := q.GetClassTemplate(ctx, id)
		if err != nil {
			return err
		}
		if in.Nombre.Has() {
			t.Nombre = in.Nombre.Value
		}
		if in.CoachID.Set {
			if !in.CoachID.Has() {
				return domain.InvalidReference("coach_id")
			}
			if err := checkRef(ctx, q.CoachExists, "coach_id", in.CoachID.Value); err != nil {
				return err
			}
			t.CoachID = in.CoachID.Value
		}
		if in.DiaSemana.Has() {
			if err := checkWeekday(in.DiaSemana.Value); err != nil {
				return err
			}
			t.DiaSemana = in.DiaSemana.Value
		}
		if in.HoraInicio.Has() {
			t.HoraInicio = in.HoraInicio.Value
		}
		if in.HoraFin.Has() {
			t.HoraFin = in.HoraFin.Value
		}
		if in.Capacidad.Has() {
			t.Capacidad = in.Capacidad.Value
		}
		if in.Estado.Has() {
			t.Estado = in.Estado.Value
		}
		if in.FechaInicio.Set {
			t.FechaInicio = in.FechaInicio.Ptr()
		}
		if in.FechaFin.Set {
			t.FechaFin = in.FechaFin.Ptr()
		}
		if err := q.UpdateClassTemplate(ctx, t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ScheduleService) DeleteTemplate(ctx context.Context, id int64) error {
	return s.db.DeleteClassTemplate(ctx, id)
}

func (s *ScheduleService) ListSessions(ctx context.Context) ([]*models.ClassSession, error) {
	return s.db.ListClassSessions(ctx)
}

func (s *ScheduleService) GetSession(ctx context.Context, id int64) (*models.ClassSession, error) {
	return s.db.GetClassSession(ctx, id)
}

func (s *ScheduleService) CreateSession(ctx context.Context, in models.ClassSessionInput) (*models.ClassSession, error) {
	switch {
	case !in.Fecha.Has():
		return nil, domain.Required("fecha")
	case !in.HoraInicio.Has():
		return nil, domain.Required("hora_inicio")
	case !in.HoraFin.Has():
		return nil, domain.Required("hora_fin")
	case !in.CoachID.Has():
		return nil, domain.Required("coach_id")
	case !in.Capacidad.Has():
		return nil, domain.Required("capacidad")
	}

	cs := &models.ClassSession{
		Fecha:      in.Fecha.Value,
		HoraInicio: in.HoraInicio.Value,
		HoraFin:    in.HoraFin.Value,
		CoachID:    in.CoachID.Value,
		Capacidad:  in.Capacidad.Value,
		Estado:     models.SessionScheduled,
		Nota:       in.Nota.Ptr(),
	}
	if in.Estado.Has() {
		cs.Estado = in.Estado.Value
	}
	if in.TemplateID.Has() && in.TemplateID.Value != 0 {
		cs.TemplateID = &in.TemplateID.Value
	}

	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		if cs.TemplateID != nil {
			if err := checkRef(ctx, q.ClassTemplateExists, "template_id", *cs.TemplateID); err != nil {
				return err
			}
		}
		if err := checkRef(ctx, q.CoachExists, "coach_id", cs.CoachID); err != nil {
			return err
		}
		return q.CreateClassSession(ctx, cs)
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *ScheduleService) UpdateSession(ctx context.Context, id int64, in models.ClassSessionInput) (*models.ClassSession, error) {
	var updated *models.ClassSession
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		cs, err := q.GetClassSession(ctx, id)
		if err != nil {
			return err
		}
		if in.TemplateID.Set {
			cs.TemplateID = nil
			if in.TemplateID.Has() {
				if err := checkRef(ctx, q.ClassTemplateExists, "template_id", in.TemplateID.Value); err != nil {
					return err
				}
				cs.TemplateID = &in.TemplateID.Value
			}
		}
		if in.Fecha.Has() {
			cs.Fecha = in.Fecha.Value
		}
		if in.HoraInicio.Has() {
			cs.HoraInicio = in.HoraInicio.Value
		}
		if in.HoraFin.Has() {
			cs.HoraFin = in.HoraFin.Value
		}
		if in.CoachID.Set {
			if !in.CoachID.Has() {
				return domain.InvalidReference("coach_id")
			}
			if err := checkRef(ctx, q.CoachExists, "coach_id", in.CoachID.Value); err != nil {
				return err
			}
			cs.CoachID = in.CoachID.Value
		}
		if in.Capacidad.Has() {
			cs.Capacidad = in.Capacidad.Value
		}
		if in.Estado.Has() {
			cs.Estado = in.Estado.Value
		}
		if in.Nota.Set {
			cs.Nota = in.Nota.Ptr()
		}
		if err := q.UpdateClassSession(ctx, cs); err != nil {
			return err
		}
		updated = cs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ScheduleService) DeleteSession(ctx context.Context, id int64) error {
	return s.db.DeleteClassSession(ctx, id)
}

func checkWeekday(d int) error {
	if d < 0 || d > 6 {
		return domain.Invalid("dia_semana", "dia_semana debe estar entre 0 y 6")
	}
	return nil
}

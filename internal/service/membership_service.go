package service

import (
	"context"

	"marehpilates/internal/database"
	"marehpilates/internal/domain"
	"marehpilates/internal/events"
	"marehpilates/internal/models"

	"github.com/rs/zerolog"
)

// MembershipService manages plans, memberships and their expiry.
type MembershipService struct {
	db       *database.DB
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewMembershipService(db *database.DB, eventBus domain.EventPublisher, clock domain.Clock, logger *zerolog.Logger) *MembershipService {
	if clock == nil {
		clock = systemClock
	}
	return &MembershipService{db: db, eventBus: eventBus, clock: clock, logger: orNop(logger)}
}

// Today is the calendar date the service treats as current.
func (s *MembershipService) Today() models.Date {
	return today(s.clock)
}

func (s *MembershipService) ListPlans(ctx context.Context) ([]*models.MembershipPlan, error) {
	return s.db.ListPlans(ctx)
}

func (s *MembershipService) GetPlan(ctx context.Context, id int64) (*models.MembershipPlan, error) {
	return s.db.GetPlan(ctx, id)
}

func (s *MembershipService) CreatePlan(ctx context.Context, in models.MembershipPlanInput) (*models.MembershipPlan, error) {
	if !in.Nombre.Has() || in.Nombre.Value == "" || !in.Precio.Has() {
		return nil, domain.Invalid("nombre", "nombre y precio son requeridos")
	}
	p := &models.MembershipPlan{
		Nombre:             in.Nombre.Value,
		MaxClasesPorSemana: in.MaxClasesPorSemana.Ptr(),
		MaxClasesTotales:   in.MaxClasesTotales.Ptr(),
		DuracionDias:       in.DuracionDias.Ptr(),
		Precio:             in.Precio.Value,
		Activo:             !in.Activo.Set || (in.Activo.Has() && in.Activo.Value),
	}
	if err := s.db.CreatePlan(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePlan applies present keys; an explicit null removes a cap.
func (s *MembershipService) UpdatePlan(ctx context.Context, id int64, in models.MembershipPlanInput) (*models.MembershipPlan, error) {
	var updated *models.MembershipPlan
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		p, err := q.GetPlan(ctx, id)
		if err != nil {
			return err
		}
		if in.Nombre.Set {
			if !in.Nombre.Has() || in.Nombre.Value == "" {
				return domain.Required("nombre")
			}
			p.Nombre = in.Nombre.Value
		}
		if in.MaxClasesPorSemana.Set {
			p.MaxClasesPorSemana = in.MaxClasesPorSemana.Ptr()
		}
		if in.MaxClasesTotales.Set {
			p.MaxClasesTotales = in.MaxClasesTotales.Ptr()
		}
		if in.DuracionDias.Set {
			p.DuracionDias = in.DuracionDias.Ptr()
		}
		if in.Precio.Set {
			if !in.Precio.Has() {
				return domain.Required("precio")
			}
			p.Precio = in.Precio.Value
		}
		if in.Activo.Set {
			p.Activo = in.Activo.Has() && in.Activo.Value
		}
		if err := q.UpdatePlan(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *MembershipService) DeletePlan(ctx context.Context, id int64) error {
	return s.db.DeletePlan(ctx, id)
}

func (s *MembershipService) ListMemberships(ctx context.Context) ([]*models.Membership, error) {
	return s.db.ListMemberships(ctx)
}

func (s *MembershipService) GetMembership(ctx context.Context, id int64) (*models.Membership, error) {
	return s.db.GetMembership(ctx, id)
}

func (s *MembershipService) CreateMembership(ctx context.Context, in models.MembershipInput) (*models.Membership, error) {
	switch {
	case !in.ClientID.Has():
		return nil, domain.Required("client_id")
	case !in.PlanID.Has():
		return nil, domain.Required("plan_id")
	case !in.FechaInicio.Has():
		return nil, domain.Required("fecha_inicio")
	case !in.FechaFin.Has():
		return nil, domain.Required("fecha_fin")
	case !in.Estado.Has():
		return nil, domain.Required("estado")
	}

	m := &models.Membership{
		ClientID:    in.ClientID.Value,
		PlanID:      in.PlanID.Value,
		FechaInicio: in.FechaInicio.Value,
		FechaFin:    in.FechaFin.Value,
		Estado:      in.Estado.Value,
	}
	if in.ClasesUsadas.Has() {
		m.ClasesUsadas = in.ClasesUsadas.Value
	}

	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		if err := checkRef(ctx, q.ClientExists, "client_id", m.ClientID); err != nil {
			return err
		}
		if err := checkRef(ctx, q.PlanExists, "plan_id", m.PlanID); err != nil {
			return err
		}
		return q.CreateMembership(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("membership_id", m.ID).Int64("client_id", m.ClientID).Str("fecha_fin", m.FechaFin.String()).Msg("membership created")
	return m, nil
}

func (s *MembershipService) UpdateMembership(ctx context.Context, id int64, in models.MembershipInput) (*models.Membership, error) {
	var updated *models.Membership
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		m, err := q.GetMembership(ctx, id)
		if err != nil {
			return err
		}
		if in.ClientID.Set {
			if !in.ClientID.Has() {
				return domain.InvalidReference("client_id")
			}
			if err := checkRef(ctx, q.ClientExists, "client_id", in.ClientID.Value); err != nil {
				return err
			}
			m.ClientID = in.ClientID.Value
		}
		if in.PlanID.Set {
			if !in.PlanID.Has() {
				return domain.InvalidReference("plan_id")
			}
			if err := checkRef(ctx, q.PlanExists, "plan_id", in.PlanID.Value); err != nil {
				return err
			}
			m.PlanID = in.PlanID.Value
		}
		if in.FechaInicio.Set {
			if !in.FechaInicio.Has() {
				return domain.Required("fecha_inicio")
			}
			m.FechaInicio = in.FechaInicio.Value
		}
		if in.FechaFin.Set {
			if !in.FechaFin.Has() {
				return domain.Required("fecha_fin")
			}
			m.FechaFin = in.FechaFin.Value
		}
		if in.Estado.Has() {
			m.Estado = in.Estado.Value
		}
		if in.ClasesUsadas.Set {
			m.ClasesUsadas = 0
			if in.ClasesUsadas.Has() {
				m.ClasesUsadas = in.ClasesUsadas.Value
			}
		}
		if err := q.UpdateMembership(ctx, m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *MembershipService) DeleteMembership(ctx context.Context, id int64) error {
	return s.db.DeleteMembership(ctx, id)
}

// ExpireLapsed marks active memberships whose fecha_fin is before today as
// inactive and returns how many changed.
func (s *MembershipService) ExpireLapsed(ctx context.Context, today models.Date) (int64, error) {
	n, err := s.db.ExpireMemberships(ctx, today)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Str("today", today.String()).Int64("expired", n).Msg("memberships reconciled")
	if n > 0 {
		publish(s.logger, s.eventBus, events.EventMembershipsExpired, events.ExpiryEventPayload{
			Today:   today.String(),
			Expired: n,
		})
	}
	return n, nil
}

package service

import (
	"context"
	"errors"

	"marehpilates/internal/database"
	"marehpilates/internal/domain"
	"marehpilates/internal/events"
	"marehpilates/internal/metrics"
	"marehpilates/internal/models"

	"github.com/rs/zerolog"
)

// Admission outcomes reported to metrics.
const (
	outcomeAdmitted           = "admitted"
	outcomeInvalid            = "invalid_request"
	outcomeInvalidReference   = "invalid_reference"
	outcomeBalanceBlocked     = "balance_blocked"
	outcomeMembershipInactive = "membership_inactive"
	outcomeMembershipExpired  = "membership_expired"
	outcomeWeeklyLimit        = "weekly_limit"
	outcomeTotalLimit         = "total_limit"
	outcomeSessionFull        = "session_full"
	outcomeDuplicate          = "duplicate"
	outcomePersistence        = "persistence_error"
	outcomeError              = "error"
)

// BookingService admits clients into class sessions.
type BookingService struct {
	db       *database.DB
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewBookingService(db *database.DB, eventBus domain.EventPublisher, clock domain.Clock, logger *zerolog.Logger) *BookingService {
	if clock == nil {
		clock = systemClock
	}
	return &BookingService{db: db, eventBus: eventBus, clock: clock, logger: orNop(logger)}
}

func (s *BookingService) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	return s.db.ListBookings(ctx)
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.db.GetBooking(ctx, id)
}

// CreateBooking runs the admission gates in order and inserts the booking when
// all pass. Checks and insert share one transaction that holds the write lock,
// so two requests cannot both take the last seat or the last weekly class.
func (s *BookingService) CreateBooking(ctx context.Context, in models.BookingInput) (*models.Booking, error) {
	b, err := s.admit(ctx, in)
	outcome := admissionOutcome(err)
	metrics.IncAdmission(outcome)
	if err != nil {
		if outcome == outcomePersistence || outcome == outcomeError {
			s.logger.Error().Err(err).Msg("booking insert failed")
		} else {
			s.logger.Debug().Err(err).Str("outcome", outcome).Msg("booking rejected")
		}
		return nil, err
	}

	s.logger.Info().
		Int64("booking_id", b.ID).
		Int64("session_id", b.SessionID).
		Int64("client_id", b.ClientID).
		Msg("booking created")
	publish(s.logger, s.eventBus, events.EventBookingCreated, events.BookingEventPayload{
		BookingID:    b.ID,
		SessionID:    b.SessionID,
		ClientID:     b.ClientID,
		MembershipID: b.MembershipID,
		Estado:       b.Estado,
	})
	return b, nil
}

func (s *BookingService) admit(ctx context.Context, in models.BookingInput) (*models.Booking, error) {
	if !in.SessionID.Has() {
		return nil, domain.Required("session_id")
	}
	if !in.ClientID.Has() {
		return nil, domain.Required("client_id")
	}
	if !in.Estado.Has() {
		return nil, domain.Required("estado")
	}

	b := &models.Booking{
		SessionID: in.SessionID.Value,
		ClientID:  in.ClientID.Value,
		Estado:    in.Estado.Value,
		CreadoEn:  s.clock().UTC(),
	}
	if in.MembershipID.Has() && in.MembershipID.Value != 0 {
		b.MembershipID = &in.MembershipID.Value
	}
	if in.Asistio.Has() {
		b.Asistio = in.Asistio.Value
	}
	if in.CheckInAt.Has() {
		t := in.CheckInAt.Value.UTC()
		b.CheckInAt = &t
	}
	day := today(s.clock)

	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		session, err := q.GetClassSession(ctx, b.SessionID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.InvalidReference("session_id")
		}
		if err != nil {
			return err
		}

		client, err := q.GetClient(ctx, b.ClientID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.InvalidReference("client_id")
		}
		if err != nil {
			return err
		}
		if client.HasDebt() {
			return domain.ErrBalanceBlocked
		}

		if b.MembershipID != nil {
			if err := checkMembership(ctx, q, *b.MembershipID, session.Fecha, day); err != nil {
				return err
			}
		}

		if b.Estado == models.BookingReserved {
			reserved, err := q.CountReservedForSession(ctx, session.ID)
			if err != nil {
				return err
			}
			if reserved >= session.Capacidad {
				return domain.ErrSessionFull
			}
		}

		if err := q.CreateBooking(ctx, b); err != nil {
			if errors.Is(err, domain.ErrDuplicateBooking) {
				return err
			}
			return &domain.PersistenceError{Op: "insert booking", Err: err}
		}
		return nil
	})
	if err != nil {
		var commitErr *database.CommitError
		if errors.As(err, &commitErr) {
			return nil, &domain.PersistenceError{Op: "commit booking", Err: commitErr.Err}
		}
		return nil, err
	}
	return b, nil
}

// checkMembership applies the membership gates: usable today, covering the
// class date, and under the plan's weekly and total caps.
func checkMembership(ctx context.Context, q *database.Queries, membershipID int64, sessionDate, day models.Date) error {
	m, err := q.GetMembership(ctx, membershipID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.InvalidReference("membership_id")
	}
	if err != nil {
		return err
	}
	if !m.ActiveOn(day) {
		return domain.ErrMembershipInactive
	}
	if !m.Covers(sessionDate) {
		return &domain.ExpiredError{FechaFin: m.FechaFin, SessionFecha: sessionDate}
	}

	plan, err := q.GetPlan(ctx, m.PlanID)
	if err != nil {
		return err
	}

	if plan.MaxClasesPorSemana != nil {
		start, end := models.WeekWindow(sessionDate)
		weekly, err := q.CountReservedForMembershipBetween(ctx, m.ID, start, end)
		if err != nil {
			return err
		}
		if weekly >= *plan.MaxClasesPorSemana {
			return domain.ErrWeeklyLimitReached
		}
	}

	if plan.MaxClasesTotales != nil {
		total, err := q.CountReservedForMembership(ctx, m.ID)
		if err != nil {
			return err
		}
		if total >= *plan.MaxClasesTotales {
			return domain.ErrTotalLimitReached
		}
	}
	return nil
}

// UpdateBooking applies present keys after checking references. Admission
// gates are not re-run.
func (s *BookingService) UpdateBooking(ctx context.Context, id int64, in models.BookingInput) (*models.Booking, error) {
	var updated *models.Booking
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		b, err := q.GetBooking(ctx, id)
		if err != nil {
			return err
		}

		if in.SessionID.Set {
			if !in.SessionID.Has() {
				return domain.InvalidReference("session_id")
			}
			if err := checkRef(ctx, q.ClassSessionExists, "session_id", in.SessionID.Value); err != nil {
				return err
			}
			b.SessionID = in.SessionID.Value
		}
		if in.ClientID.Set {
			if !in.ClientID.Has() {
				return domain.InvalidReference("client_id")
			}
			if err := checkRef(ctx, q.ClientExists, "client_id", in.ClientID.Value); err != nil {
				return err
			}
			b.ClientID = in.ClientID.Value
		}
		if in.MembershipID.Set {
			b.MembershipID = nil
			if in.MembershipID.Has() {
				if err := checkRef(ctx, q.MembershipExists, "membership_id", in.MembershipID.Value); err != nil {
					return err
				}
				b.MembershipID = &in.MembershipID.Value
			}
		}
		if in.Estado.Has() {
			b.Estado = in.Estado.Value
		}
		if in.Asistio.Set {
			b.Asistio = in.Asistio.Has() && in.Asistio.Value
		}
		if in.CheckInAt.Set {
			b.CheckInAt = nil
			if in.CheckInAt.Has() {
				t := in.CheckInAt.Value.UTC()
				b.CheckInAt = &t
			}
		}

		if err := q.UpdateBooking(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	return s.db.DeleteBooking(ctx, id)
}

func admissionOutcome(err error) string {
	var validation *domain.ValidationError
	var persistence *domain.PersistenceError
	switch {
	case err == nil:
		return outcomeAdmitted
	case errors.As(err, &validation):
		return outcomeInvalid
	case errors.Is(err, domain.ErrInvalidReference):
		return outcomeInvalidReference
	case errors.Is(err, domain.ErrBalanceBlocked):
		return outcomeBalanceBlocked
	case errors.Is(err, domain.ErrMembershipInactive):
		return outcomeMembershipInactive
	case errors.Is(err, domain.ErrMembershipExpired):
		return outcomeMembershipExpired
	case errors.Is(err, domain.ErrWeeklyLimitReached):
		return outcomeWeeklyLimit
	case errors.Is(err, domain.ErrTotalLimitReached):
		return outcomeTotalLimit
	case errors.Is(err, domain.ErrSessionFull):
		return outcomeSessionFull
	case errors.Is(err, domain.ErrDuplicateBooking):
		return outcomeDuplicate
	case errors.As(err, &persistence):
		return outcomePersistence
	default:
		return outcomeError
	}
}

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

// LedgerService records fines, payments and adjustments against a client's
// balance. The movement row and the new saldo are written together.
type LedgerService struct {
	db       *database.DB
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewLedgerService(db *database.DB, eventBus domain.EventPublisher, clock domain.Clock, logger *zerolog.Logger) *LedgerService {
	if clock == nil {
		clock = systemClock
	}
	return &LedgerService{db: db, eventBus: eventBus, clock: clock, logger: orNop(logger)}
}

func (s *LedgerService) ListMovements(ctx context.Context) ([]*models.AccountMovement, error) {
	return s.db.ListMovements(ctx)
}

func (s *LedgerService) GetMovement(ctx context.Context, id int64) (*models.AccountMovement, error) {
	return s.db.GetMovement(ctx, id)
}

// Balance returns the stored saldo of the client.
func (s *LedgerService) Balance(ctx context.Context, clientID int64) (models.Balance, error) {
	c, err := s.db.GetClient(ctx, clientID)
	if err != nil {
		return models.Balance{}, err
	}
	return models.Balance{ClientID: c.ID, Saldo: c.Saldo}, nil
}

// RecordMovement signs the amount by tipo, stores the movement (plus its
// payment detail for payments) and adds it to the client's saldo.
func (s *LedgerService) RecordMovement(ctx context.Context, in models.MovementInput) (*models.AccountMovement, error) {
	if !in.ClientID.Has() {
		return nil, domain.Required("client_id")
	}
	if !in.Amount.Has() {
		return nil, domain.Required("amount")
	}
	if !in.Tipo.Has() {
		return nil, domain.Required("tipo")
	}
	now := s.clock().UTC()

	var (
		recorded *models.AccountMovement
		saldo    = in.Amount.Value
	)
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		client, err := q.GetClient(ctx, in.ClientID.Value)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.InvalidReference("client_id")
		}
		if err != nil {
			return err
		}

		m := &models.AccountMovement{
			ClientID: client.ID,
			Tipo:     in.Tipo.Value,
			Nota:     in.Nota.Ptr(),
			CreadoEn: now,
		}
		if in.BookingID.Has() && in.BookingID.Value != 0 {
			if err := checkRef(ctx, q.BookingExists, "booking_id", in.BookingID.Value); err != nil {
				return err
			}
			m.BookingID = &in.BookingID.Value
		}

		var membershipID *int64
		if in.MembershipID.Has() && in.MembershipID.Value != 0 {
			if err := checkRef(ctx, q.MembershipExists, "membership_id", in.MembershipID.Value); err != nil {
				return err
			}
			membershipID = &in.MembershipID.Value
		}

		signed, ok := models.SignedAmount(m.Tipo, in.Amount.Value)
		if !ok {
			return domain.ErrInvalidMovementType
		}
		if m.Tipo == models.MovementPayment && in.PaymentType.Has() && in.PaymentType.Value != "" &&
			!models.ValidPaymentType(in.PaymentType.Value) {
			return domain.ErrInvalidPaymentType
		}
		m.Amount = signed

		if err := q.CreateMovement(ctx, m); err != nil {
			return err
		}

		if m.Tipo == models.MovementPayment {
			p := &models.Payment{
				MovementID:       m.ID,
				MembershipID:     membershipID,
				PaymentType:      optionalString(in.PaymentType),
				PaymentMethod:    in.PaymentMethod.Ptr(),
				PaymentReference: in.PaymentReference.Ptr(),
				FechaPago:        now,
			}
			switch {
			case in.PaymentDate.Has():
				p.FechaPago = in.PaymentDate.Value.UTC()
			case in.FechaPago.Has():
				p.FechaPago = in.FechaPago.Value.UTC()
			}
			if err := q.CreatePayment(ctx, p); err != nil {
				return err
			}
			m.Payment = p
		}

		saldo = client.Saldo.Add(m.Amount)
		if err := q.SetClientBalance(ctx, client.ID, saldo); err != nil {
			return err
		}
		recorded = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncMovement(recorded.Tipo)
	s.logger.Info().
		Int64("movement_id", recorded.ID).
		Int64("client_id", recorded.ClientID).
		Str("tipo", recorded.Tipo).
		Str("amount", recorded.Amount.String()).
		Str("saldo", saldo.String()).
		Msg("account movement recorded")
	publish(s.logger, s.eventBus, events.EventMovementRecorded, events.MovementEventPayload{
		MovementID: recorded.ID,
		ClientID:   recorded.ClientID,
		Tipo:       recorded.Tipo,
		Amount:     recorded.Amount,
		Saldo:      saldo,
	})
	return recorded, nil
}

// Reconcile compares the stored saldo with the sum of the client's movements.
func (s *LedgerService) Reconcile(ctx context.Context, clientID int64) (stored, computed models.Balance, err error) {
	if stored, err = s.Balance(ctx, clientID); err != nil {
		return stored, computed, err
	}
	computed, err = s.db.SumMovements(ctx, clientID)
	return stored, computed, err
}

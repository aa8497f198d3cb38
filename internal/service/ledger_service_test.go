package service

import (
	"context"
	"testing"
	"time"

	"marehpilates/internal/domain"
	"marehpilates/internal/events"
	"marehpilates/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func movement(clientID int64, tipo, amount string) models.MovementInput {
	return models.MovementInput{
		ClientID: models.Some(clientID),
		Amount:   models.Some(dec(amount)),
		Tipo:     models.Some(tipo),
	}
}

func TestRecordMovementKeepsBalanceEqualToLedger(t *testing.T) {
	db := setupDB(t)
	bus := new(mockEventBus)
	bus.On("PublishJSON", events.EventMovementRecorded, mock.Anything).Return(nil)
	svc := NewLedgerService(db, bus, fixedClock(2025, time.January, 5), nil)
	client := seedClient(t, db, "Lucía")
	ctx := context.Background()

	steps := []struct {
		tipo, amount string
		stored       string
		saldo        string
	}{
		{models.MovementFine, "-100", "100", "100"},
		{models.MovementPayment, "40", "-40", "60"},
		{models.MovementAdjustment, "-10.50", "-10.5", "49.5"},
		{models.MovementPayment, "-49.50", "-49.5", "0"},
	}
	for _, step := range steps {
		m, err := svc.RecordMovement(ctx, movement(client.ID, step.tipo, step.amount))
		require.NoError(t, err)
		assert.True(t, dec(step.stored).Equal(m.Amount), "%s %s stored as %s", step.tipo, step.amount, m.Amount)

		bal, err := svc.Balance(ctx, client.ID)
		require.NoError(t, err)
		assert.True(t, dec(step.saldo).Equal(bal.Saldo), "saldo %s, want %s", bal.Saldo, step.saldo)

		stored, computed, err := svc.Reconcile(ctx, client.ID)
		require.NoError(t, err)
		assert.True(t, stored.Saldo.Equal(computed.Saldo))
	}

	list, err := svc.ListMovements(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(steps))
	bus.AssertNumberOfCalls(t, "PublishJSON", len(steps))
}

func TestRecordPaymentCreatesPaymentDetail(t *testing.T) {
	db := setupDB(t)
	svc := NewLedgerService(db, nil, fixedClock(2025, time.January, 5), nil)
	client := seedClient(t, db, "Lucía")
	plan := seedPlan(t, db, nil, nil)
	m := seedMembership(t, db, client.ID, plan.ID, models.NewDate(2025, time.January, 1), models.NewDate(2025, time.January, 31))
	ctx := context.Background()

	in := movement(client.ID, models.MovementPayment, "350")
	in.PaymentType = models.Some(models.PaymentTypeMembership)
	in.PaymentMethod = models.Some("efectivo")
	in.MembershipID = models.Some(m.ID)
	recorded, err := svc.RecordMovement(ctx, in)
	require.NoError(t, err)

	got, err := svc.GetMovement(ctx, recorded.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Payment)
	assert.Equal(t, models.PaymentTypeMembership, *got.Payment.PaymentType)
	assert.Equal(t, m.ID, *got.Payment.MembershipID)
	assert.True(t, time.Date(2025, time.January, 5, 12, 0, 0, 0, time.UTC).Equal(got.Payment.FechaPago))

	paid := time.Date(2025, time.January, 2, 9, 30, 0, 0, time.UTC)
	in = movement(client.ID, models.MovementPayment, "10")
	in.FechaPago = models.Some(models.Timestamp{Time: paid})
	recorded, err = svc.RecordMovement(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, recorded.Payment)
	assert.True(t, paid.Equal(recorded.Payment.FechaPago))
	assert.Nil(t, recorded.Payment.PaymentType)

	fine, err := svc.RecordMovement(ctx, movement(client.ID, models.MovementFine, "5"))
	require.NoError(t, err)
	assert.Nil(t, fine.Payment)
}

func TestRecordMovementRejections(t *testing.T) {
	db := setupDB(t)
	svc := NewLedgerService(db, nil, nil, nil)
	client := seedClient(t, db, "Lucía")
	ctx := context.Background()

	_, err := svc.RecordMovement(ctx, models.MovementInput{ClientID: models.Some(client.ID), Tipo: models.Some("fine")})
	assert.EqualError(t, err, "falta campo requerido amount")

	_, err = svc.RecordMovement(ctx, movement(404, models.MovementFine, "10"))
	assert.EqualError(t, err, "client_id no válido")

	in := movement(client.ID, models.MovementFine, "10")
	in.BookingID = models.Some(int64(404))
	_, err = svc.RecordMovement(ctx, in)
	assert.EqualError(t, err, "booking_id no válido")

	_, err = svc.RecordMovement(ctx, movement(client.ID, "refund", "10"))
	assert.ErrorIs(t, err, domain.ErrInvalidMovementType)

	in = movement(client.ID, models.MovementPayment, "10")
	in.PaymentType = models.Some("tarjeta")
	_, err = svc.RecordMovement(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentType)

	// Nothing above touched the ledger.
	list, err := svc.ListMovements(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	bal, err := svc.Balance(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, bal.Saldo.IsZero())
}

func TestBalanceUnknownClient(t *testing.T) {
	svc := NewLedgerService(setupDB(t), nil, nil, nil)
	_, err := svc.Balance(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

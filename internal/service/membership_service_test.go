package service

import (
	"context"
	"testing"
	"time"

	"marehpilates/internal/domain"
	"marehpilates/internal/events"
	"marehpilates/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpireLapsed(t *testing.T) {
	db := setupDB(t)
	bus := new(mockEventBus)
	bus.On("PublishJSON", events.EventMembershipsExpired, events.ExpiryEventPayload{Today: "2025-01-11", Expired: 2}).Return(nil).Once()
	svc := NewMembershipService(db, bus, fixedClock(2025, time.January, 11), nil)
	client := seedClient(t, db, "Lucía")
	plan := seedPlan(t, db, nil, nil)
	start := models.NewDate(2024, time.December, 1)
	ctx := context.Background()

	lapsed1 := seedMembership(t, db, client.ID, plan.ID, start, models.NewDate(2025, time.January, 10))
	seedMembership(t, db, client.ID, plan.ID, start, models.NewDate(2024, time.December, 31))
	lastDay := seedMembership(t, db, client.ID, plan.ID, start, models.NewDate(2025, time.January, 11))

	n, err := svc.ExpireLapsed(ctx, svc.Today())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	m, err := svc.GetMembership(ctx, lapsed1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipInactive, m.Estado)
	m, err = svc.GetMembership(ctx, lastDay.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipActive, m.Estado)

	// A second run finds nothing and publishes nothing.
	n, err = svc.ExpireLapsed(ctx, svc.Today())
	require.NoError(t, err)
	assert.Zero(t, n)
	bus.AssertExpectations(t)
}

func TestCreateMembershipChecksReferences(t *testing.T) {
	db := setupDB(t)
	svc := NewMembershipService(db, nil, nil, nil)
	client := seedClient(t, db, "Lucía")
	plan := seedPlan(t, db, intPtr(3), nil)
	ctx := context.Background()

	in := models.MembershipInput{
		ClientID:    models.Some(client.ID),
		PlanID:      models.Some(plan.ID),
		FechaInicio: models.Some(models.NewDate(2025, time.January, 1)),
		FechaFin:    models.Some(models.NewDate(2025, time.January, 31)),
		Estado:      models.Some(models.MembershipActive),
	}
	m, err := svc.CreateMembership(ctx, in)
	require.NoError(t, err)
	assert.Zero(t, m.ClasesUsadas)

	bad := in
	bad.ClientID = models.Some(int64(404))
	_, err = svc.CreateMembership(ctx, bad)
	assert.EqualError(t, err, "client_id no válido")

	bad = in
	bad.PlanID = models.Some(int64(404))
	_, err = svc.CreateMembership(ctx, bad)
	assert.EqualError(t, err, "plan_id no válido")

	bad = in
	bad.FechaFin = models.Field[models.Date]{}
	_, err = svc.CreateMembership(ctx, bad)
	assert.EqualError(t, err, "falta campo requerido fecha_fin")

	updated, err := svc.UpdateMembership(ctx, m.ID, models.MembershipInput{ClasesUsadas: models.Some(4), Estado: models.Some(models.MembershipInactive)})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.ClasesUsadas)
	assert.Equal(t, models.MembershipInactive, updated.Estado)

	_, err = svc.UpdateMembership(ctx, m.ID, models.MembershipInput{PlanID: models.Some(int64(404))})
	assert.EqualError(t, err, "plan_id no válido")
}

func TestPlans(t *testing.T) {
	db := setupDB(t)
	svc := NewMembershipService(db, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.CreatePlan(ctx, models.MembershipPlanInput{Nombre: models.Some("Mensual")})
	assert.EqualError(t, err, "nombre y precio son requeridos")

	p, err := svc.CreatePlan(ctx, models.MembershipPlanInput{
		Nombre:             models.Some("Mensual"),
		Precio:             models.Some(dec("350")),
		MaxClasesPorSemana: models.Some(3),
	})
	require.NoError(t, err)
	assert.True(t, p.Activo)
	require.NotNil(t, p.MaxClasesPorSemana)

	p, err = svc.UpdatePlan(ctx, p.ID, models.MembershipPlanInput{MaxClasesPorSemana: models.Field[int]{Set: true, Null: true}})
	require.NoError(t, err)
	assert.Nil(t, p.MaxClasesPorSemana)

	got, err := svc.GetPlan(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MaxClasesPorSemana)

	require.NoError(t, svc.DeletePlan(ctx, p.ID))
	_, err = svc.GetPlan(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

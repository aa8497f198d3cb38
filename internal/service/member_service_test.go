package service

import (
	"context"
	"testing"
	"time"

	"marehpilates/internal/domain"
	"marehpilates/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClients(t *testing.T) {
	db := setupDB(t)
	svc := NewMemberService(db, fixedClock(2025, time.January, 5), nil)
	ctx := context.Background()

	_, err := svc.CreateClient(ctx, models.PersonInput{Nombre: models.Some("Lucía")})
	assert.EqualError(t, err, "nombre y telefono son requeridos")

	c, err := svc.CreateClient(ctx, models.PersonInput{
		Nombre:   models.Some("  Lucía "),
		Telefono: models.Some(" 5550000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Lucía", c.Nombre)
	assert.Equal(t, "5550000", c.Telefono)
	assert.True(t, c.Activo)
	assert.True(t, c.Saldo.IsZero())

	require.NoError(t, db.SetClientBalance(ctx, c.ID, dec("25")))
	c, err = svc.UpdateClient(ctx, c.ID, models.PersonInput{
		Email:  models.Some("lucia@example.com"),
		Activo: models.Some(false),
	})
	require.NoError(t, err)
	assert.False(t, c.Activo)
	require.NotNil(t, c.Email)

	got, err := svc.GetClient(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, dec("25").Equal(got.Saldo))
	assert.Equal(t, "lucia@example.com", *got.Email)

	_, err = svc.UpdateClient(ctx, c.ID, models.PersonInput{Nombre: models.Some("  ")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, svc.DeleteClient(ctx, c.ID))
	assert.ErrorIs(t, svc.DeleteClient(ctx, c.ID), domain.ErrNotFound)
}

func TestDeleteClientWithMembershipInUse(t *testing.T) {
	db := setupDB(t)
	svc := NewMemberService(db, nil, nil)
	client := seedClient(t, db, "Lucía")
	plan := seedPlan(t, db, nil, nil)
	seedMembership(t, db, client.ID, plan.ID, models.NewDate(2025, time.January, 1), models.NewDate(2025, time.January, 31))

	assert.ErrorIs(t, svc.DeleteClient(context.Background(), client.ID), domain.ErrInUse)
}

func TestCoaches(t *testing.T) {
	db := setupDB(t)
	svc := NewMemberService(db, nil, nil)
	ctx := context.Background()

	c, err := svc.CreateCoach(ctx, models.PersonInput{
		Nombre:   models.Some("Ana"),
		Telefono: models.Some("5551111"),
		Activo:   models.Some(false),
	})
	require.NoError(t, err)
	assert.False(t, c.Activo)

	c, err = svc.UpdateCoach(ctx, c.ID, models.PersonInput{Telefono: models.Some("5552222")})
	require.NoError(t, err)
	assert.Equal(t, "5552222", c.Telefono)
	assert.Equal(t, "Ana", c.Nombre)

	list, err := svc.ListCoaches(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

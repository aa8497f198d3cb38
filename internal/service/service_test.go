package service

import (
	"context"
	"testing"
	"time"

	"marehpilates/internal/database"
	"marehpilates/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) PublishJSON(et string, p interface{}) error { return m.Called(et, p).Error(0) }

func setupDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", 0, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(year, month, day, 12, 0, 0, 0, time.UTC) }
}

func seedClient(t *testing.T, db *database.DB, nombre string) *models.Client {
	t.Helper()
	c := &models.Client{Nombre: nombre, Telefono: "5550000", Activo: true}
	require.NoError(t, db.CreateClient(context.Background(), c))
	return c
}

func seedCoach(t *testing.T, db *database.DB) *models.Coach {
	t.Helper()
	c := &models.Coach{Nombre: "Ana", Telefono: "5551111", Activo: true}
	require.NoError(t, db.CreateCoach(context.Background(), c))
	return c
}

func seedPlan(t *testing.T, db *database.DB, weekly, total *int) *models.MembershipPlan {
	t.Helper()
	p := &models.MembershipPlan{
		Nombre:             "Plan",
		MaxClasesPorSemana: weekly,
		MaxClasesTotales:   total,
		Precio:             decimal.NewFromInt(350),
		Activo:             true,
	}
	require.NoError(t, db.CreatePlan(context.Background(), p))
	return p
}

func seedMembership(t *testing.T, db *database.DB, clientID, planID int64, inicio, fin models.Date) *models.Membership {
	t.Helper()
	m := &models.Membership{
		ClientID:    clientID,
		PlanID:      planID,
		FechaInicio: inicio,
		FechaFin:    fin,
		Estado:      models.MembershipActive,
	}
	require.NoError(t, db.CreateMembership(context.Background(), m))
	return m
}

func seedSession(t *testing.T, db *database.DB, coachID int64, fecha models.Date, capacidad int) *models.ClassSession {
	t.Helper()
	s := &models.ClassSession{
		Fecha:      fecha,
		HoraInicio: "07:00:00",
		HoraFin:    "08:00:00",
		CoachID:    coachID,
		Capacidad:  capacidad,
		Estado:     models.SessionScheduled,
	}
	require.NoError(t, db.CreateClassSession(context.Background(), s))
	return s
}

func seedProduct(t *testing.T, db *database.DB, descripcion string, cantidad int64) *models.Product {
	t.Helper()
	ctx := context.Background()
	store, err := db.FindOrCreateCatalogEntry(ctx, database.Stores, "Centro")
	require.NoError(t, err)
	p := &models.Product{
		TiendaID:    store.ID,
		Descripcion: descripcion,
		Costo:       decimal.NewFromInt(100),
		Precio:      decimal.NewFromInt(300),
		Cantidad:    cantidad,
	}
	require.NoError(t, db.CreateProduct(ctx, p))
	return p
}

func intPtr(v int) *int { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

package database

import (
	"context"
	"testing"
	"time"

	"marehpilates/internal/domain"
	"marehpilates/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, c := range []*models.Customer{
		{Nombre: "María López", Telefono: "111"},
		{Nombre: "Carlos", Telefono: "222"},
		{Nombre: "mario_50%", Telefono: "333"},
	} {
		require.NoError(t, db.CreateCustomer(ctx, c))
	}

	all, err := db.ListCustomers(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Carlos", all[0].Nombre)

	found, err := db.ListCustomers(ctx, "MAR")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = db.ListCustomers(ctx, "_50%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "mario_50%", found[0].Nombre)

	byPhone, err := db.GetCustomerByPhone(ctx, "222")
	require.NoError(t, err)
	assert.Equal(t, "Carlos", byPhone.Nombre)

	_, err = db.GetCustomerByPhone(ctx, "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	nit := "CF"
	byPhone.NIT = &nit
	require.NoError(t, db.UpdateCustomer(ctx, byPhone))
	got, err := db.GetCustomer(ctx, byPhone.ID)
	require.NoError(t, err)
	require.NotNil(t, got.NIT)
	assert.Equal(t, "CF", *got.NIT)

	require.NoError(t, db.DeleteCustomer(ctx, byPhone.ID))
	_, err = db.GetCustomer(ctx, byPhone.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	store, err := db.FindOrCreateCatalogEntry(ctx, Stores, "Centro")
	require.NoError(t, err)
	p := &models.Product{TiendaID: store.ID, Descripcion: "Mat", Costo: decimal.NewFromInt(50), Precio: decimal.NewFromInt(90)}
	require.NoError(t, db.CreateProduct(ctx, p))
	customer := &models.Customer{Nombre: "Lucía", Telefono: "555"}
	require.NoError(t, db.CreateCustomer(ctx, customer))

	older := &models.Order{
		Codigo:    "A-1",
		Fecha:     time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC),
		Descuento: decimal.Zero,
		Total:     decimal.NewFromInt(90),
		ClienteID: customer.ID,
	}
	newer := &models.Order{
		Codigo:    "A-2",
		Fecha:     time.Date(2025, 2, 5, 10, 0, 0, 0, time.UTC),
		Descuento: decimal.NewFromInt(10),
		Total:     decimal.NewFromInt(170),
		ClienteID: customer.ID,
	}
	require.NoError(t, db.CreateOrder(ctx, older))
	require.NoError(t, db.CreateOrder(ctx, newer))

	dup := &models.Order{Codigo: "A-1", Fecha: time.Now(), ClienteID: customer.ID}
	assert.ErrorIs(t, db.CreateOrder(ctx, dup), domain.ErrDuplicateName)

	item := &models.OrderItem{OrdenID: newer.ID, ProductoID: p.ID, Cantidad: 2, PrecioUnitario: decimal.NewFromInt(90)}
	require.NoError(t, db.CreateOrderItem(ctx, item))

	orders, err := db.ListOrders(ctx, models.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "A-2", orders[0].Codigo)
	require.Len(t, orders[0].Items, 1)
	require.NotNil(t, orders[0].Items[0].Producto)
	assert.Equal(t, "Mat", orders[0].Items[0].Producto.Descripcion)
	require.NotNil(t, orders[0].Items[0].Producto.Tienda)
	assert.Equal(t, "Centro", *orders[0].Items[0].Producto.Tienda)
	assert.Equal(t, "Lucía", orders[0].Cliente.Nombre)
	assert.Empty(t, orders[1].Items)

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	filtered, err := db.ListOrders(ctx, models.OrderFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "A-2", filtered[0].Codigo)

	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	filtered, err = db.ListOrders(ctx, models.OrderFilter{To: &to})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "A-1", filtered[0].Codigo)

	newer.Total = decimal.NewFromInt(100)
	require.NoError(t, db.UpdateOrder(ctx, newer))
	got, err := db.GetOrder(ctx, newer.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(100)))
	assert.True(t, got.Fecha.Equal(newer.Fecha))

	require.NoError(t, db.DeleteOrder(ctx, newer.ID))
	items, err := db.ListOrderItems(ctx, newer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = db.GetOrder(ctx, newer.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package service

import (
	"context"
	"testing"
	"time"

	"marehpilates/internal/database"
	"marehpilates/internal/domain"
	"marehpilates/internal/events"
	"marehpilates/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func item(productID, cantidad int64, precio string) models.OrderItemInput {
	return models.OrderItemInput{
		ProductoID:     models.Some(productID),
		Cantidad:       models.Some(cantidad),
		PrecioUnitario: models.Some(dec(precio)),
	}
}

func newCustomer(nombre, telefono string) models.Field[models.CustomerInput] {
	return models.Some(models.CustomerInput{Nombre: models.Some(nombre), Telefono: models.Some(telefono)})
}

func stockOf(t *testing.T, db *database.DB, id int64) int64 {
	t.Helper()
	p, err := db.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Cantidad
}

func TestCreateOrderTotalsAndStock(t *testing.T) {
	db := setupDB(t)
	bus := new(mockEventBus)
	bus.On("PublishJSON", events.EventOrderCreated, mock.Anything).Return(nil)
	svc := NewOrderService(db, bus, fixedClock(2025, time.March, 3), nil)
	a := seedProduct(t, db, "Leggings", 10)
	b := seedProduct(t, db, "Top", 4)

	o, err := svc.Create(context.Background(), models.OrderCreateInput{
		Codigo:    models.Some("ORD-1"),
		Cliente:   newCustomer("  Ana López ", " 5551234 "),
		Items:     models.Some([]models.OrderItemInput{item(a.ID, 2, "250"), item(b.ID, 1, "500")}),
		Descuento: models.Some(dec("100")),
	})
	require.NoError(t, err)

	assert.True(t, dec("900").Equal(o.Total), "total %s", o.Total)
	assert.True(t, dec("100").Equal(o.Descuento))
	assert.True(t, time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC).Equal(o.Fecha))
	require.NotNil(t, o.Cliente)
	assert.Equal(t, "Ana López", o.Cliente.Nombre)
	assert.Equal(t, "5551234", o.Cliente.Telefono)
	assert.Len(t, o.Items, 2)
	assert.Equal(t, int64(8), stockOf(t, db, a.ID))
	assert.Equal(t, int64(3), stockOf(t, db, b.ID))
	bus.AssertCalled(t, "PublishJSON", events.EventOrderCreated, events.OrderEventPayload{
		OrderID: o.ID, Codigo: "ORD-1", Total: o.Total, Items: 2,
	})
}

func TestCreateOrderExplicitTotalAndDefaults(t *testing.T) {
	db := setupDB(t)
	svc := NewOrderService(db, nil, nil, nil)
	p := seedProduct(t, db, "Leggings", 1)

	o, err := svc.Create(context.Background(), models.OrderCreateInput{
		Codigo:  models.Some("ORD-2"),
		Fecha:   models.Some(models.Timestamp{Time: time.Date(2025, time.February, 1, 10, 0, 0, 0, time.UTC)}),
		Cliente: newCustomer("Ana", "5551234"),
		Items:   models.Some([]models.OrderItemInput{{ProductoID: models.Some(p.ID), PrecioUnitario: models.Some(dec("300"))}}),
		Total:   models.Some(dec("250")),
	})
	require.NoError(t, err)
	assert.True(t, dec("250").Equal(o.Total))
	assert.Equal(t, int64(1), o.Items[0].Cantidad)
	assert.Equal(t, time.February, o.Fecha.Month())

	// Stock is allowed to go negative.
	_, err = svc.Create(context.Background(), models.OrderCreateInput{
		Codigo:  models.Some("ORD-3"),
		Cliente: newCustomer("Ana", "5551234"),
		Items:   models.Some([]models.OrderItemInput{item(p.ID, 3, "300")}),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-3), stockOf(t, db, p.ID))
}

func TestCreateOrderReusesCustomerByPhone(t *testing.T) {
	db := setupDB(t)
	svc := NewOrderService(db, nil, nil, nil)
	p := seedProduct(t, db, "Leggings", 10)
	ctx := context.Background()

	first, err := svc.Create(ctx, models.OrderCreateInput{
		Codigo:  models.Some("A"),
		Cliente: newCustomer("Ana", "5551234"),
		Items:   models.Some([]models.OrderItemInput{item(p.ID, 1, "10")}),
	})
	require.NoError(t, err)

	second, err := svc.Create(ctx, models.OrderCreateInput{
		Codigo:  models.Some("B"),
		Cliente: newCustomer("Ana María", "5551234"),
		Items:   models.Some([]models.OrderItemInput{item(p.ID, 1, "10")}),
	})
	require.NoError(t, err)
	assert.Equal(t, first.Cliente.ID, second.Cliente.ID)
	assert.Equal(t, "Ana", second.Cliente.Nombre)

	byID, err := svc.Create(ctx, models.OrderCreateInput{
		Codigo:  models.Some("C"),
		Cliente: models.Some(models.CustomerInput{ID: models.Some(first.Cliente.ID)}),
		Items:   models.Some([]models.OrderItemInput{item(p.ID, 1, "10")}),
	})
	require.NoError(t, err)
	assert.Equal(t, first.Cliente.ID, byID.Cliente.ID)

	customers, err := db.ListCustomers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, customers, 1)
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupDB(t)
	svc := NewOrderService(db, nil, nil, nil)
	p := seedProduct(t, db, "Leggings", 10)
	ctx := context.Background()
	items := models.Some([]models.OrderItemInput{item(p.ID, 1, "10")})

	tests := []struct {
		name string
		in   models.OrderCreateInput
		want string
	}{
		{"missing cliente", models.OrderCreateInput{Codigo: models.Some("X"), Items: items}, "cliente es requerido"},
		{"unknown cliente id", models.OrderCreateInput{
			Codigo:  models.Some("X"),
			Cliente: models.Some(models.CustomerInput{ID: models.Some(int64(404))}),
			Items:   items,
		}, "cliente con ese id no existe"},
		{"cliente without phone", models.OrderCreateInput{
			Codigo:  models.Some("X"),
			Cliente: models.Some(models.CustomerInput{Nombre: models.Some("Ana")}),
			Items:   items,
		}, "cliente requiere nombre y telefono"},
		{"missing codigo", models.OrderCreateInput{Cliente: newCustomer("Ana", "1"), Items: items}, "codigo de orden es requerido"},
		{"no items", models.OrderCreateInput{
			Codigo:  models.Some("X"),
			Cliente: newCustomer("Ana", "1"),
			Items:   models.Some([]models.OrderItemInput{}),
		}, "debe incluir al menos un item en 'items'"},
		{"item without price", models.OrderCreateInput{
			Codigo:  models.Some("X"),
			Cliente: newCustomer("Ana", "1"),
			Items:   models.Some([]models.OrderItemInput{{ProductoID: models.Some(p.ID)}}),
		}, "precio_unitario es requerido en cada item"},
		{"item without product", models.OrderCreateInput{
			Codigo:  models.Some("X"),
			Cliente: newCustomer("Ana", "1"),
			Items:   models.Some([]models.OrderItemInput{{PrecioUnitario: models.Some(dec("5"))}}),
		}, "producto_id es requerido en cada item"},
		{"unknown product", models.OrderCreateInput{
			Codigo:  models.Some("X"),
			Cliente: newCustomer("Ana", "1"),
			Items:   models.Some([]models.OrderItemInput{item(p.ID, 2, "10"), item(99, 1, "5")}),
		}, "producto 99 no existe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			assert.EqualError(t, err, tt.want)
		})
	}

	// Failed creates roll back stock, customers and orders.
	assert.Equal(t, int64(10), stockOf(t, db, p.ID))
	orders, err := svc.List(ctx, models.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
	customers, err := db.ListCustomers(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestCreateOrderDuplicateCodigo(t *testing.T) {
	db := setupDB(t)
	svc := NewOrderService(db, nil, nil, nil)
	p := seedProduct(t, db, "Leggings", 10)
	in := models.OrderCreateInput{
		Codigo:  models.Some("DUP"),
		Cliente: newCustomer("Ana", "1"),
		Items:   models.Some([]models.OrderItemInput{item(p.ID, 1, "10")}),
	}

	_, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
	assert.Equal(t, int64(9), stockOf(t, db, p.ID))
}

func TestUpdateOrderReplacesItemsAndRestoresStock(t *testing.T) {
	db := setupDB(t)
	bus := new(mockEventBus)
	bus.On("PublishJSON", mock.Anything, mock.Anything).Return(nil)
	svc := NewOrderService(db, bus, nil, nil)
	a := seedProduct(t, db, "Leggings", 10)
	b := seedProduct(t, db, "Top", 10)
	ctx := context.Background()

	o, err := svc.Create(ctx, models.OrderCreateInput{
		Codigo:  models.Some("ORD"),
		Cliente: newCustomer("Ana", "1"),
		Items:   models.Some([]models.OrderItemInput{item(a.ID, 3, "100")}),
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), stockOf(t, db, a.ID))

	updated, err := svc.Update(ctx, o.ID, models.OrderUpdateInput{
		Items:     models.Some([]models.OrderItemInput{item(b.ID, 2, "150")}),
		Descuento: models.Some(dec("50")),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), stockOf(t, db, a.ID))
	assert.Equal(t, int64(8), stockOf(t, db, b.ID))
	require.Len(t, updated.Items, 1)
	assert.Equal(t, b.ID, updated.Items[0].ProductoID)
	assert.True(t, dec("250").Equal(updated.Total), "total %s", updated.Total)
	bus.AssertCalled(t, "PublishJSON", events.EventOrderUpdated, mock.Anything)
}

func TestUpdateOrderTotalRules(t *testing.T) {
	db := setupDB(t)
	svc := NewOrderService(db, nil, nil, nil)
	p := seedProduct(t, db, "Leggings", 10)
	ctx := context.Background()

	o, err := svc.Create(ctx, models.OrderCreateInput{
		Codigo:  models.Some("ORD"),
		Cliente: newCustomer("Ana", "1"),
		Items:   models.Some([]models.OrderItemInput{item(p.ID, 2, "100")}),
	})
	require.NoError(t, err)

	o, err = svc.Update(ctx, o.ID, models.OrderUpdateInput{Descuento: models.Some(dec("20"))})
	require.NoError(t, err)
	assert.True(t, dec("180").Equal(o.Total))

	o, err = svc.Update(ctx, o.ID, models.OrderUpdateInput{Total: models.Some(dec("150")), Descuento: models.Some(dec("0"))})
	require.NoError(t, err)
	assert.True(t, dec("150").Equal(o.Total))

	o, err = svc.Update(ctx, o.ID, models.OrderUpdateInput{Codigo: models.Some("ORD-B")})
	require.NoError(t, err)
	assert.Equal(t, "ORD-B", o.Codigo)
	assert.True(t, dec("150").Equal(o.Total))

	_, err = svc.Update(ctx, o.ID, models.OrderUpdateInput{ClienteID: models.Some(int64(404))})
	assert.EqualError(t, err, "cliente_id no válido")

	_, err = svc.Update(ctx, 404, models.OrderUpdateInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteOrderRestoresStock(t *testing.T) {
	db := setupDB(t)
	svc := NewOrderService(db, nil, nil, nil)
	p := seedProduct(t, db, "Leggings", 10)
	ctx := context.Background()

	o, err := svc.Create(ctx, models.OrderCreateInput{
		Codigo:  models.Some("ORD"),
		Cliente: newCustomer("Ana", "1"),
		Items:   models.Some([]models.OrderItemInput{item(p.ID, 4, "100")}),
	})
	require.NoError(t, err)
	require.Equal(t, int64(6), stockOf(t, db, p.ID))

	require.NoError(t, svc.Delete(ctx, o.ID))
	assert.Equal(t, int64(10), stockOf(t, db, p.ID))

	_, err = svc.Get(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, o.ID), domain.ErrNotFound)
}

func TestListOrdersFilter(t *testing.T) {
	db := setupDB(t)
	svc := NewOrderService(db, nil, nil, nil)
	p := seedProduct(t, db, "Leggings", 10)
	ctx := context.Background()

	for i, day := range []int{1, 10, 20} {
		_, err := svc.Create(ctx, models.OrderCreateInput{
			Codigo:  models.Some(string(rune('A' + i))),
			Fecha:   models.Some(models.Timestamp{Time: time.Date(2025, time.April, day, 9, 0, 0, 0, time.UTC)}),
			Cliente: newCustomer("Ana", "1"),
			Items:   models.Some([]models.OrderItemInput{item(p.ID, 1, "10")}),
		})
		require.NoError(t, err)
	}

	from := time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC)
	orders, err := svc.List(ctx, models.OrderFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "C", orders[0].Codigo)
	assert.Equal(t, "B", orders[1].Codigo)
}

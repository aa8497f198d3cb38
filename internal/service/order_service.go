package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marehpilates/internal/database"
	"marehpilates/internal/domain"
	"marehpilates/internal/events"
	"marehpilates/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OrderService owns the order aggregate and its effect on product stock.
// Every change to an order's items moves stock in the same transaction.
type OrderService struct {
	db       *database.DB
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewOrderService(db *database.DB, eventBus domain.EventPublisher, clock domain.Clock, logger *zerolog.Logger) *OrderService {
	if clock == nil {
		clock = systemClock
	}
	return &OrderService{db: db, eventBus: eventBus, clock: clock, logger: orNop(logger)}
}

func (s *OrderService) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	return s.db.ListOrders(ctx, filter)
}

func (s *OrderService) Get(ctx context.Context, id int64) (*models.Order, error) {
	return s.db.GetOrder(ctx, id)
}

func (s *OrderService) Create(ctx context.Context, in models.OrderCreateInput) (*models.Order, error) {
	var created *models.Order
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		customerID, err := s.resolveCustomer(ctx, q, in.Cliente)
		if err != nil {
			return err
		}

		if !in.Codigo.Has() || in.Codigo.Value == "" {
			return domain.Invalid("codigo", "codigo de orden es requerido")
		}
		o := &models.Order{
			Codigo:    in.Codigo.Value,
			Fecha:     s.clock().UTC(),
			ClienteID: customerID,
		}
		if in.Fecha.Has() {
			o.Fecha = in.Fecha.Value.UTC()
		}
		if in.Descuento.Has() {
			o.Descuento = in.Descuento.Value
		}
		if err := q.CreateOrder(ctx, o); err != nil {
			return err
		}

		if !in.Items.Has() || len(in.Items.Value) == 0 {
			return domain.Invalid("items", "debe incluir al menos un item en 'items'")
		}
		subtotal, err := addItems(ctx, q, o.ID, in.Items.Value)
		if err != nil {
			return err
		}

		o.Total = subtotal.Sub(o.Descuento)
		if in.Total.Has() {
			o.Total = in.Total.Value
		}
		if err := q.UpdateOrder(ctx, o); err != nil {
			return err
		}
		created, err = q.GetOrder(ctx, o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("order_id", created.ID).Str("codigo", created.Codigo).Str("total", created.Total.String()).Msg("order created")
	s.publish(events.EventOrderCreated, created)
	return created, nil
}

// resolveCustomer returns the id of the customer named in the payload: by id,
// or by phone, creating the customer when the phone is unknown.
func (s *OrderService) resolveCustomer(ctx context.Context, q *database.Queries, f models.Field[models.CustomerInput]) (int64, error) {
	if !f.Has() {
		return 0, domain.Invalid("cliente", "cliente es requerido")
	}
	in := f.Value
	if in.ID.Set {
		if !in.ID.Has() {
			return 0, &domain.ReferenceError{Field: "cliente", Message: "cliente con ese id no existe"}
		}
		if _, err := q.GetCustomer(ctx, in.ID.Value); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return 0, &domain.ReferenceError{Field: "cliente", Message: "cliente con ese id no existe"}
			}
			return 0, err
		}
		return in.ID.Value, nil
	}

	if !in.Nombre.Has() || in.Nombre.Value == "" || !in.Telefono.Has() || in.Telefono.Value == "" {
		return 0, domain.Invalid("cliente", "cliente requiere nombre y telefono")
	}
	existing, err := q.GetCustomerByPhone(ctx, in.Telefono.Value)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, err
	}

	c := &models.Customer{
		Nombre:   strings.TrimSpace(in.Nombre.Value),
		Telefono: strings.TrimSpace(in.Telefono.Value),
		Email:    trimmedPtr(in.Email),
		NIT:      trimmedPtr(in.NIT),
	}
	if err := q.CreateCustomer(ctx, c); err != nil {
		return 0, err
	}
	s.logger.Info().Int64("customer_id", c.ID).Msg("customer created from order")
	return c.ID, nil
}

// Update applies the present keys. A present items list replaces every item:
// old quantities go back to stock before the new ones are taken out.
func (s *OrderService) Update(ctx context.Context, id int64, in models.OrderUpdateInput) (*models.Order, error) {
	var updated *models.Order
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		o, err := q.GetOrder(ctx, id)
		if err != nil {
			return err
		}

		if in.Codigo.Set {
			if !in.Codigo.Has() || in.Codigo.Value == "" {
				return domain.Invalid("codigo", "codigo de orden es requerido")
			}
			o.Codigo = in.Codigo.Value
		}
		if in.Fecha.Set {
			if !in.Fecha.Has() {
				return domain.Invalid("fecha", "fecha debe estar en formato ISO 8601")
			}
			o.Fecha = in.Fecha.Value.UTC()
		}
		if in.ClienteID.Set {
			if !in.ClienteID.Has() {
				return domain.InvalidReference("cliente_id")
			}
			if _, err := q.GetCustomer(ctx, in.ClienteID.Value); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return domain.InvalidReference("cliente_id")
				}
				return err
			}
			o.ClienteID = in.ClienteID.Value
		}
		if in.Descuento.Set {
			o.Descuento = decimal.Zero
			if in.Descuento.Has() {
				o.Descuento = in.Descuento.Value
			}
		}

		switch {
		case in.Items.Set:
			if err := restoreItems(ctx, q, o); err != nil {
				return err
			}
			subtotal, err := addItems(ctx, q, o.ID, in.Items.Value)
			if err != nil {
				return err
			}
			o.Total = subtotal.Sub(o.Descuento)
			if in.Total.Has() {
				o.Total = in.Total.Value
			}
		case in.Total.Has():
			o.Total = in.Total.Value
		case in.Total.Set || in.Descuento.Set:
			o.Total = models.Subtotal(o.Items).Sub(o.Descuento)
		}

		if err := q.UpdateOrder(ctx, o); err != nil {
			return err
		}
		updated, err = q.GetOrder(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.EventOrderUpdated, updated)
	return updated, nil
}

// Delete puts every item's quantity back in stock, then removes the order.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	var deleted *models.Order
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		o, err := q.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if err := restoreItems(ctx, q, o); err != nil {
			return err
		}
		deleted = o
		return q.DeleteOrder(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("order_id", id).Int("items", len(deleted.Items)).Msg("order deleted, stock restored")
	s.publish(events.EventOrderDeleted, deleted)
	return nil
}

func (s *OrderService) publish(eventType string, o *models.Order) {
	publish(s.logger, s.eventBus, eventType, events.OrderEventPayload{
		OrderID: o.ID,
		Codigo:  o.Codigo,
		Total:   o.Total,
		Items:   len(o.Items),
	})
}

// addItems validates and inserts items for the order, taking their quantities
// out of stock, and returns the subtotal. Stock may go negative.
func addItems(ctx context.Context, q *database.Queries, orderID int64, items []models.OrderItemInput) (decimal.Decimal, error) {
	subtotal := decimal.Zero
	for _, in := range items {
		it := models.OrderItem{OrdenID: orderID, Cantidad: 1}
		if in.Cantidad.Has() {
			it.Cantidad = in.Cantidad.Value
		}
		if !in.PrecioUnitario.Has() {
			return decimal.Zero, domain.Invalid("precio_unitario", "precio_unitario es requerido en cada item")
		}
		it.PrecioUnitario = in.PrecioUnitario.Value
		if !in.ProductoID.Has() || in.ProductoID.Value == 0 {
			return decimal.Zero, domain.Invalid("producto_id", "producto_id es requerido en cada item")
		}
		it.ProductoID = in.ProductoID.Value

		exists, err := q.ProductExists(ctx, it.ProductoID)
		if err != nil {
			return decimal.Zero, err
		}
		if !exists {
			return decimal.Zero, &domain.ReferenceError{
				Field:   "producto_id",
				Message: fmt.Sprintf("producto %d no existe", it.ProductoID),
			}
		}

		if err := q.AdjustProductStock(ctx, it.ProductoID, -it.Cantidad); err != nil {
			return decimal.Zero, err
		}
		if err := q.CreateOrderItem(ctx, &it); err != nil {
			return decimal.Zero, err
		}
		subtotal = subtotal.Add(it.LineTotal())
	}
	return subtotal, nil
}

func restoreItems(ctx context.Context, q *database.Queries, o *models.Order) error {
	for _, it := range o.Items {
		if err := q.AdjustProductStock(ctx, it.ProductoID, it.Cantidad); err != nil {
			return err
		}
	}
	return q.DeleteOrderItems(ctx, o.ID)
}

func trimmedPtr(f models.Field[string]) *string {
	if !f.Has() {
		return nil
	}
	v := strings.TrimSpace(f.Value)
	return &v
}

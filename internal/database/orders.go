package database

import (
	"context"
	"fmt"

	"marehpilates/internal/domain"
	"marehpilates/internal/models"

	"github.com/shopspring/decimal"
)

const orderSelect = `
	SELECT o.id, o.codigo, o.fecha, o.descuento, o.total, o.cliente_id,
	       c.id, c.nombre, c.telefono, c.email, c.nit
	FROM orders o
	JOIN customers c ON c.id = o.cliente_id`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	var c models.Customer
	err := row.Scan(&o.ID, &o.Codigo, &o.Fecha, &o.Descuento, &o.Total, &o.ClienteID,
		&c.ID, &c.Nombre, &c.Telefono, &c.Email, &c.NIT)
	if err != nil {
		return nil, err
	}
	o.Cliente = &c
	return &o, nil
}

// ListOrders returns orders newest first with customer and items loaded.
func (q *Queries) ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	query := orderSelect + ` WHERE 1 = 1`
	var args []any
	if filter.From != nil {
		query += ` AND o.fecha >= ?`
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		query += ` AND o.fecha <= ?`
		args = append(args, filter.To.UTC())
	}
	query += ` ORDER BY o.fecha DESC, o.id DESC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	// Close before loading items: the pool has a single connection.
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for _, o := range orders {
		if o.Items, err = q.ListOrderItems(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (q *Queries) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	o, err := scanOrder(q.db.QueryRowContext(ctx, orderSelect+` WHERE o.id = ?`, id))
	if err != nil {
		return nil, notFound(err, "order")
	}
	if o.Items, err = q.ListOrderItems(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// ListOrderItems returns the items of an order with a product snapshot each.
func (q *Queries) ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT i.id, i.orden_id, i.producto_id, i.cantidad, i.precio_unitario,
		       p.id, p.descripcion, p.sku, p.tienda_id, s.nombre, b.nombre, c.nombre, p.talla_id, z.nombre, p.costo
		FROM order_items i
		LEFT JOIN products p ON p.id = i.producto_id
		LEFT JOIN stores s ON s.id = p.tienda_id
		LEFT JOIN brands b ON b.id = p.marca_id
		LEFT JOIN categories c ON c.id = p.categoria_id
		LEFT JOIN sizes z ON z.id = p.talla_id
		WHERE i.orden_id = ?
		ORDER BY i.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var (
			it          models.OrderItem
			productID   *int64
			descripcion *string
			tiendaID    *int64
			costo       decimal.NullDecimal
			summary     models.ProductSummary
		)
		err := rows.Scan(&it.ID, &it.OrdenID, &it.ProductoID, &it.Cantidad, &it.PrecioUnitario,
			&productID, &descripcion, &summary.SKU, &tiendaID, &summary.Tienda, &summary.Marca,
			&summary.Categoria, &summary.TallaID, &summary.Talla, &costo)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if productID != nil {
			summary.ID = *productID
			if descripcion != nil {
				summary.Descripcion = *descripcion
			}
			if tiendaID != nil {
				summary.TiendaID = *tiendaID
			}
			if costo.Valid {
				summary.Costo = &costo.Decimal
			}
			it.Producto = &summary
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (q *Queries) CreateOrder(ctx context.Context, o *models.Order) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO orders (codigo, fecha, descuento, total, cliente_id) VALUES (?, ?, ?, ?, ?)`,
		o.Codigo, o.Fecha.UTC(), o.Descuento, o.Total, o.ClienteID)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Field: "codigo"}
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	o.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (q *Queries) UpdateOrder(ctx context.Context, o *models.Order) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE orders SET codigo = ?, fecha = ?, descuento = ?, total = ?, cliente_id = ? WHERE id = ?`,
		o.Codigo, o.Fecha.UTC(), o.Descuento, o.Total, o.ClienteID, o.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Field: "codigo"}
		}
		return fmt.Errorf("failed to update order: %w", err)
	}
	return expectOneRow(res)
}

func (q *Queries) CreateOrderItem(ctx context.Context, it *models.OrderItem) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO order_items (orden_id, producto_id, cantidad, precio_unitario) VALUES (?, ?, ?, ?)`,
		it.OrdenID, it.ProductoID, it.Cantidad, it.PrecioUnitario)
	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	it.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (q *Queries) DeleteOrderItems(ctx context.Context, orderID int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM order_items WHERE orden_id = ?`, orderID); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	return nil
}

// DeleteOrder removes the order; its items go with it through ON DELETE CASCADE.
func (q *Queries) DeleteOrder(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "orders", id)
}

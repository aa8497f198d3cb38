package database

import (
	"context"
	"fmt"

	"marehpilates/internal/models"
)

const productSelect = `
	SELECT p.id, p.sku, p.tienda_id, s.nombre, p.marca_id, b.nombre, p.descripcion,
	       p.categoria_id, c.nombre, p.talla_id, z.nombre, p.costo, p.precio, p.cantidad, p.imagen
	FROM products p
	LEFT JOIN stores s ON s.id = p.tienda_id
	LEFT JOIN brands b ON b.id = p.marca_id
	LEFT JOIN categories c ON c.id = p.categoria_id
	LEFT JOIN sizes z ON z.id = p.talla_id`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.SKU, &p.TiendaID, &p.Tienda, &p.MarcaID, &p.Marca, &p.Descripcion,
		&p.CategoriaID, &p.Categoria, &p.TallaID, &p.Talla, &p.Costo, &p.Precio, &p.Cantidad, &p.Imagen)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (q *Queries) ListProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := q.db.QueryContext(ctx, productSelect+` ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (q *Queries) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	p, err := scanProduct(q.db.QueryRowContext(ctx, productSelect+` WHERE p.id = ?`, id))
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func (q *Queries) CreateProduct(ctx context.Context, p *models.Product) error {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO products (sku, tienda_id, marca_id, descripcion, categoria_id, talla_id, costo, precio, cantidad, imagen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SKU, p.TiendaID, p.MarcaID, p.Descripcion, p.CategoriaID, p.TallaID, p.Costo, p.Precio, p.Cantidad, p.Imagen)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (q *Queries) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE products SET sku = ?, tienda_id = ?, marca_id = ?, descripcion = ?, categoria_id = ?,
		       talla_id = ?, costo = ?, precio = ?, cantidad = ?, imagen = ?
		WHERE id = ?`,
		p.SKU, p.TiendaID, p.MarcaID, p.Descripcion, p.CategoriaID, p.TallaID, p.Costo, p.Precio, p.Cantidad, p.Imagen, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return expectOneRow(res)
}

// AdjustProductStock adds delta to the on-hand quantity. Stock may go negative.
func (q *Queries) AdjustProductStock(ctx context.Context, id int64, delta int64) error {
	res, err := q.db.ExecContext(ctx, `UPDATE products SET cantidad = cantidad + ? WHERE id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("failed to adjust stock for product %d: %w", id, err)
	}
	return expectOneRow(res)
}

func (q *Queries) DeleteProduct(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "products", id)
}

func (q *Queries) ProductExists(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx, "products", id)
}

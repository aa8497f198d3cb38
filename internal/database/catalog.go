package database

import (
	"context"
	"fmt"
	"time"

	"marehpilates/internal/domain"
	"marehpilates/internal/models"
)

// CatalogTable names one of the lookup tables sharing the CatalogEntry shape.
type CatalogTable string

const (
	Stores     CatalogTable = "stores"
	Categories CatalogTable = "categories"
	Brands     CatalogTable = "brands"
	Sizes      CatalogTable = "sizes"
)

const catalogColumns = `id, nombre, descripcion, activo, creado_en`

func scanCatalogEntry(row interface{ Scan(...any) error }) (*models.CatalogEntry, error) {
	var e models.CatalogEntry
	if err := row.Scan(&e.ID, &e.Nombre, &e.Descripcion, &e.Activo, &e.CreadoEn); err != nil {
		return nil, err
	}
	return &e, nil
}

func (q *Queries) ListCatalog(ctx context.Context, table CatalogTable) ([]*models.CatalogEntry, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+catalogColumns+` FROM `+string(table)+` ORDER BY nombre ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	var entries []*models.CatalogEntry
	for rows.Next() {
		e, err := scanCatalogEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (q *Queries) GetCatalogEntry(ctx context.Context, table CatalogTable, id int64) (*models.CatalogEntry, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+catalogColumns+` FROM `+string(table)+` WHERE id = ?`, id)
	e, err := scanCatalogEntry(row)
	if err != nil {
		return nil, notFound(err, string(table))
	}
	return e, nil
}

func (q *Queries) GetCatalogEntryByName(ctx context.Context, table CatalogTable, nombre string) (*models.CatalogEntry, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+catalogColumns+` FROM `+string(table)+` WHERE nombre = ?`, nombre)
	e, err := scanCatalogEntry(row)
	if err != nil {
		return nil, notFound(err, string(table))
	}
	return e, nil
}

// CreateCatalogEntry inserts e, reporting a name collision as a DuplicateError.
func (q *Queries) CreateCatalogEntry(ctx context.Context, table CatalogTable, e *models.CatalogEntry) error {
	if e.CreadoEn.IsZero() {
		e.CreadoEn = time.Now().UTC()
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO `+string(table)+` (nombre, descripcion, activo, creado_en) VALUES (?, ?, ?, ?)`,
		e.Nombre, e.Descripcion, e.Activo, e.CreadoEn)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Field: "nombre"}
		}
		return fmt.Errorf("failed to create %s entry: %w", table, err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (q *Queries) UpdateCatalogEntry(ctx context.Context, table CatalogTable, e *models.CatalogEntry) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE `+string(table)+` SET nombre = ?, descripcion = ?, activo = ? WHERE id = ?`,
		e.Nombre, e.Descripcion, e.Activo, e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Field: "nombre"}
		}
		return fmt.Errorf("failed to update %s entry: %w", table, err)
	}
	return expectOneRow(res)
}

func (q *Queries) DeleteCatalogEntry(ctx context.Context, table CatalogTable, id int64) error {
	return q.deleteByID(ctx, string(table), id)
}

// FindOrCreateCatalogEntry returns the entry named nombre, inserting it first
// when absent. The unique constraint resolves concurrent creators to one row.
func (q *Queries) FindOrCreateCatalogEntry(ctx context.Context, table CatalogTable, nombre string) (*models.CatalogEntry, error) {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO `+string(table)+` (nombre, activo, creado_en) VALUES (?, 1, ?) ON CONFLICT(nombre) DO NOTHING`,
		nombre, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s entry: %w", table, err)
	}
	return q.GetCatalogEntryByName(ctx, table, nombre)
}

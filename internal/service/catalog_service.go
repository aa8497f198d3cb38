package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marehpilates/internal/database"
	"marehpilates/internal/domain"
	"marehpilates/internal/models"

	"github.com/rs/zerolog"
)

var catalogNouns = map[database.CatalogTable]string{
	database.Stores:     "una tienda",
	database.Categories: "una categoría",
	database.Brands:     "una marca",
	database.Sizes:      "una talla",
}

// CatalogService manages products and the lookup tables they reference.
type CatalogService struct {
	db     *database.DB
	logger *zerolog.Logger
}

func NewCatalogService(db *database.DB, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{db: db, logger: orNop(logger)}
}

func (s *CatalogService) ListEntries(ctx context.Context, table database.CatalogTable) ([]*models.CatalogEntry, error) {
	return s.db.ListCatalog(ctx, table)
}

func (s *CatalogService) GetEntry(ctx context.Context, table database.CatalogTable, id int64) (*models.CatalogEntry, error) {
	return s.db.GetCatalogEntry(ctx, table, id)
}

func (s *CatalogService) CreateEntry(ctx context.Context, table database.CatalogTable, in models.CatalogEntryInput) (*models.CatalogEntry, error) {
	if !in.Nombre.Has() || in.Nombre.Value == "" {
		return nil, domain.Invalid("nombre", "nombre es requerido")
	}
	e := &models.CatalogEntry{
		Nombre:      in.Nombre.Value,
		Descripcion: in.Descripcion.Ptr(),
		Activo:      true,
	}
	if in.Activo.Has() {
		e.Activo = in.Activo.Value
	}
	if err := s.db.CreateCatalogEntry(ctx, table, e); err != nil {
		return nil, s.duplicate(table, err)
	}
	return e, nil
}

// UpdateEntry applies the fields present in in. Renaming onto an existing name fails.
func (s *CatalogService) UpdateEntry(ctx context.Context, table database.CatalogTable, id int64, in models.CatalogEntryInput) (*models.CatalogEntry, error) {
	var updated *models.CatalogEntry
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		e, err := q.GetCatalogEntry(ctx, table, id)
		if err != nil {
			return err
		}
		if in.Nombre.Set {
			if !in.Nombre.Has() || in.Nombre.Value == "" {
				return domain.Invalid("nombre", "nombre es requerido")
			}
			e.Nombre = in.Nombre.Value
		}
		if in.Descripcion.Set {
			e.Descripcion = in.Descripcion.Ptr()
		}
		if in.Activo.Has() {
			e.Activo = in.Activo.Value
		}
		if err := q.UpdateCatalogEntry(ctx, table, e); err != nil {
			return s.duplicate(table, err)
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteEntry(ctx context.Context, table database.CatalogTable, id int64) error {
	return s.db.DeleteCatalogEntry(ctx, table, id)
}

func (s *CatalogService) duplicate(table database.CatalogTable, err error) error {
	var dup *domain.DuplicateError
	if errors.As(err, &dup) {
		return &domain.DuplicateError{Field: dup.Field, Message: fmt.Sprintf("ya existe %s con ese nombre", catalogNouns[table])}
	}
	return err
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return s.db.ListProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.db.GetProduct(ctx, id)
}

// CreateProduct resolves the store (required) and optional brand, category and
// size by id or by name, creating missing names, then inserts the product.
func (s *CatalogService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	var created *models.Product
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		p := &models.Product{}

		switch {
		case in.TiendaID.Has():
			if err := checkProductRef(ctx, q, database.Stores, "tienda_id", in.TiendaID.Value); err != nil {
				return err
			}
			p.TiendaID = in.TiendaID.Value
		case in.Tienda.Has() && in.Tienda.Value != "":
			store, err := q.FindOrCreateCatalogEntry(ctx, database.Stores, in.Tienda.Value)
			if err != nil {
				return err
			}
			p.TiendaID = store.ID
		default:
			return domain.Invalid("tienda", "tienda es requerida")
		}

		var err error
		if p.MarcaID, err = resolveOptionalRef(ctx, q, database.Brands, "marca_id", in.MarcaID, in.Marca); err != nil {
			return err
		}
		if p.CategoriaID, err = resolveOptionalRef(ctx, q, database.Categories, "categoria_id", in.CategoriaID, in.Categoria); err != nil {
			return err
		}
		if p.TallaID, err = resolveOptionalRef(ctx, q, database.Sizes, "talla_id", in.TallaID, in.Talla); err != nil {
			return err
		}

		if !in.Descripcion.Has() {
			return missingProductField("descripcion")
		}
		if !in.Costo.Has() {
			return missingProductField("costo")
		}
		if !in.Precio.Has() {
			return missingProductField("precio")
		}
		p.Descripcion = in.Descripcion.Value
		p.Costo = in.Costo.Value
		p.Precio = in.Precio.Value
		p.SKU = in.SKU.Ptr()
		p.Imagen = in.Imagen.Ptr()
		if in.Cantidad.Has() {
			p.Cantidad = in.Cantidad.Value
		}

		if err := q.CreateProduct(ctx, p); err != nil {
			return err
		}
		created, err = q.GetProduct(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("product_id", created.ID).Msg("product created")
	return created, nil
}

// UpdateProduct applies the keys present in in. An explicit null id or an
// empty name clears an optional reference.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, in models.ProductInput) (*models.Product, error) {
	var updated *models.Product
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		p, err := q.GetProduct(ctx, id)
		if err != nil {
			return err
		}

		if in.SKU.Set {
			p.SKU = in.SKU.Ptr()
		}
		if in.Descripcion.Has() {
			p.Descripcion = in.Descripcion.Value
		}

		switch {
		case in.TiendaID.Set:
			if in.TiendaID.Null {
				return &domain.ReferenceError{Field: "tienda_id", Message: "tienda_id inválido"}
			}
			if err := checkProductRef(ctx, q, database.Stores, "tienda_id", in.TiendaID.Value); err != nil {
				return err
			}
			p.TiendaID = in.TiendaID.Value
		case in.Tienda.Has() && in.Tienda.Value != "":
			store, err := q.FindOrCreateCatalogEntry(ctx, database.Stores, in.Tienda.Value)
			if err != nil {
				return err
			}
			p.TiendaID = store.ID
		}

		if p.MarcaID, err = updateOptionalRef(ctx, q, database.Brands, "marca_id", p.MarcaID, in.MarcaID, in.Marca); err != nil {
			return err
		}
		if p.CategoriaID, err = updateOptionalRef(ctx, q, database.Categories, "categoria_id", p.CategoriaID, in.CategoriaID, in.Categoria); err != nil {
			return err
		}
		if p.TallaID, err = updateOptionalRef(ctx, q, database.Sizes, "talla_id", p.TallaID, in.TallaID, in.Talla); err != nil {
			return err
		}

		if in.Costo.Has() {
			p.Costo = in.Costo.Value
		}
		if in.Precio.Has() {
			p.Precio = in.Precio.Value
		}
		if in.Cantidad.Has() {
			p.Cantidad = in.Cantidad.Value
		}
		if in.Imagen.Set {
			p.Imagen = in.Imagen.Ptr()
		}

		if err := q.UpdateProduct(ctx, p); err != nil {
			return err
		}
		updated, err = q.GetProduct(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.db.DeleteProduct(ctx, id)
}

func missingProductField(field string) error {
	return domain.Invalid(field, "campo requerido faltante: "+field)
}

func checkProductRef(ctx context.Context, q *database.Queries, table database.CatalogTable, field string, id int64) error {
	if _, err := q.GetCatalogEntry(ctx, table, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.ReferenceError{Field: field, Message: field + " inválido"}
		}
		return err
	}
	return nil
}

// resolveOptionalRef picks the id when given, else finds or creates the name.
// Neither yields nil.
func resolveOptionalRef(ctx context.Context, q *database.Queries, table database.CatalogTable, field string,
	id models.Field[int64], name models.Field[string],
) (*int64, error) {
	if id.Has() {
		if err := checkProductRef(ctx, q, table, field, id.Value); err != nil {
			return nil, err
		}
		return &id.Value, nil
	}
	if name.Has() && strings.TrimSpace(name.Value) != "" {
		e, err := q.FindOrCreateCatalogEntry(ctx, table, name.Value)
		if err != nil {
			return nil, err
		}
		return &e.ID, nil
	}
	return nil, nil
}

func updateOptionalRef(ctx context.Context, q *database.Queries, table database.CatalogTable, field string,
	current *int64, id models.Field[int64], name models.Field[string],
) (*int64, error) {
	switch {
	case id.Set:
		if id.Null {
			return nil, nil
		}
		return resolveOptionalRef(ctx, q, table, field, id, models.Field[string]{})
	case name.Set:
		return resolveOptionalRef(ctx, q, table, field, models.Field[int64]{}, name)
	}
	return current, nil
}

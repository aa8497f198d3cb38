package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogEntry is a named lookup row: store, category, brand or size.
type CatalogEntry struct {
	ID          int64     `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion *string   `json:"descripcion"`
	Activo      bool      `json:"activo"`
	CreadoEn    time.Time `json:"-"`
}

type CatalogEntryInput struct {
	Nombre      Field[string] `json:"nombre"`
	Descripcion Field[string] `json:"descripcion"`
	Activo      Field[bool]   `json:"activo"`
}

type Product struct {
	ID          int64           `json:"id"`
	SKU         *string         `json:"sku"`
	TiendaID    int64           `json:"tienda_id"`
	Tienda      *string         `json:"tienda"`
	MarcaID     *int64          `json:"marca_id"`
	Marca       *string         `json:"marca"`
	Descripcion string          `json:"descripcion"`
	CategoriaID *int64          `json:"categoria_id"`
	Categoria   *string         `json:"categoria"`
	TallaID     *int64          `json:"talla_id"`
	Talla       *string         `json:"talla"`
	Costo       decimal.Decimal `json:"costo"`
	Precio      decimal.Decimal `json:"precio"`
	Cantidad    int64           `json:"cantidad"`
	Imagen      *string         `json:"imagen"`
}

// ProductInput is the create/update payload. Each catalog reference can be given
// by id or by name; names that do not exist yet are created.
type ProductInput struct {
	SKU         Field[string]          `json:"sku"`
	Descripcion Field[string]          `json:"descripcion"`
	TiendaID    Field[int64]           `json:"tienda_id"`
	Tienda      Field[string]          `json:"tienda"`
	MarcaID     Field[int64]           `json:"marca_id"`
	Marca       Field[string]          `json:"marca"`
	CategoriaID Field[int64]           `json:"categoria_id"`
	Categoria   Field[string]          `json:"categoria"`
	TallaID     Field[int64]           `json:"talla_id"`
	Talla       Field[string]          `json:"talla"`
	Costo       Field[decimal.Decimal] `json:"costo"`
	Precio      Field[decimal.Decimal] `json:"precio"`
	Cantidad    Field[int64]           `json:"cantidad"`
	Imagen      Field[string]          `json:"imagen"`
}

// ProductSummary is the product snapshot embedded in order items.
type ProductSummary struct {
	ID          int64            `json:"id"`
	Descripcion string           `json:"descripcion"`
	SKU         *string          `json:"sku"`
	TiendaID    int64            `json:"tienda_id"`
	Tienda      *string          `json:"tienda"`
	Marca       *string          `json:"marca"`
	Categoria   *string          `json:"categoria"`
	TallaID     *int64           `json:"talla_id"`
	Talla       *string          `json:"talla"`
	Costo       *decimal.Decimal `json:"costo"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a retail buyer (clientes), separate from gym clients.
type Customer struct {
	ID       int64   `json:"id"`
	Nombre   string  `json:"nombre"`
	Telefono string  `json:"telefono"`
	Email    *string `json:"email"`
	NIT      *string `json:"nit"`
}

type CustomerInput struct {
	ID       Field[int64]  `json:"id"`
	Nombre   Field[string] `json:"nombre"`
	Telefono Field[string] `json:"telefono"`
	Email    Field[string] `json:"email"`
	NIT      Field[string] `json:"nit"`
}

type Order struct {
	ID        int64           `json:"id"`
	Codigo    string          `json:"codigo"`
	Fecha     time.Time       `json:"fecha"`
	Descuento decimal.Decimal `json:"descuento"`
	Total     decimal.Decimal `json:"total"`
	ClienteID int64           `json:"-"`
	Cliente   *Customer       `json:"cliente"`
	Items     []OrderItem     `json:"items"`
}

type OrderItem struct {
	ID             int64           `json:"id"`
	OrdenID        int64           `json:"-"`
	ProductoID     int64           `json:"producto_id"`
	Cantidad       int64           `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Producto       *ProductSummary `json:"producto"`
}

// LineTotal is cantidad × precio_unitario.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PrecioUnitario.Mul(decimal.NewFromInt(i.Cantidad))
}

// Subtotal sums the line totals of items.
func Subtotal(items []OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

type OrderItemInput struct {
	ProductoID     Field[int64]           `json:"producto_id"`
	Cantidad       Field[int64]           `json:"cantidad"`
	PrecioUnitario Field[decimal.Decimal] `json:"precio_unitario"`
}

type OrderCreateInput struct {
	Codigo    Field[string]           `json:"codigo"`
	Fecha     Field[Timestamp]        `json:"fecha"`
	Cliente   Field[CustomerInput]    `json:"cliente"`
	Items     Field[[]OrderItemInput] `json:"items"`
	Descuento Field[decimal.Decimal]  `json:"descuento"`
	Total     Field[decimal.Decimal]  `json:"total"`
}

type OrderUpdateInput struct {
	Codigo    Field[string]           `json:"codigo"`
	Fecha     Field[Timestamp]        `json:"fecha"`
	ClienteID Field[int64]            `json:"cliente_id"`
	Items     Field[[]OrderItemInput] `json:"items"`
	Descuento Field[decimal.Decimal]  `json:"descuento"`
	Total     Field[decimal.Decimal]  `json:"total"`
}

// OrderFilter bounds orders by fecha, both ends inclusive.
type OrderFilter struct {
	From *time.Time
	To   *time.Time
}

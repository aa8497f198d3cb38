package export

import (
	"bytes"
	"testing"
	"time"

	"marehpilates/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteOrders(t *testing.T) {
	sku := "LEG-01"
	orders := []*models.Order{
		{
			ID:        1,
			Codigo:    "ORD-1",
			Fecha:     time.Date(2025, time.January, 6, 10, 30, 0, 0, time.UTC),
			Descuento: decimal.NewFromInt(100),
			Total:     decimal.NewFromInt(800),
			Cliente:   &models.Customer{Nombre: "Ana", Telefono: "5551234"},
			Items: []models.OrderItem{
				{ProductoID: 1, Cantidad: 2, PrecioUnitario: decimal.NewFromInt(300), Producto: &models.ProductSummary{Descripcion: "Leggings", SKU: &sku}},
				{ProductoID: 2, Cantidad: 1, PrecioUnitario: decimal.NewFromInt(300), Producto: &models.ProductSummary{Descripcion: "Top"}},
			},
		},
		{ID: 2, Codigo: "ORD-2", Fecha: time.Date(2025, time.January, 7, 9, 0, 0, 0, time.UTC)},
	}
	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, WriteOrders(&buf, orders, &from, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{itemsSheet, ordersSheet}, f.GetSheetList())

	title, err := f.GetCellValue(itemsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Periodo: 2025-01-01 - hoy", title)

	rows, err := f.GetRows(itemsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, itemHeaders, rows[1])
	assert.Equal(t, []string{"ORD-1", "2025-01-06 10:30", "Ana", "5551234", "Leggings", "LEG-01", "2"}, rows[2][:7])
	assert.Equal(t, "Top", rows[3][4])

	rows, err = f.GetRows(ordersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"ORD-1", "2025-01-06 10:30", "Ana", "2"}, rows[2][:4])
	assert.Equal(t, "ORD-2", rows[3][0])

	total, err := f.GetCellValue(ordersSheet, "G3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "800", total)
}

func TestFileName(t *testing.T) {
	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "ordenes_2025-01-01_a_2025-01-31.xlsx", FileName(&from, &to))
	assert.Equal(t, "ordenes_hasta_2025-01-31.xlsx", FileName(nil, &to))
	assert.Equal(t, "ordenes.xlsx", FileName(nil, nil))
}

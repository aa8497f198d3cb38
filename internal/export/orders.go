// Package export renders orders as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"marehpilates/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	itemsSheet  = "Ventas"
	ordersSheet = "Ordenes"
	dateLayout  = "2006-01-02 15:04"
)

var itemHeaders = []string{"Código", "Fecha", "Cliente", "Teléfono", "Producto", "SKU", "Cantidad", "Precio unitario", "Total línea"}

var orderHeaders = []string{"Código", "Fecha", "Cliente", "Items", "Subtotal", "Descuento", "Total"}

// WriteOrders writes a workbook with one row per order item on the first sheet
// and one row per order with its totals on the second.
func WriteOrders(w io.Writer, orders []*models.Order, from, to *time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return fmt.Errorf("error renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(ordersSheet); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}

	title := periodTitle(from, to)
	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("error creating style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("error creating style: %w", err)
	}

	for _, sheet := range []struct {
		name    string
		headers []string
	}{{itemsSheet, itemHeaders}, {ordersSheet, orderHeaders}} {
		_ = f.SetCellValue(sheet.name, "A1", title)
		if err := f.SetSheetRow(sheet.name, "A2", &sheet.headers); err != nil {
			return fmt.Errorf("error writing headers: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(len(sheet.headers), 2)
		_ = f.SetCellStyle(sheet.name, "A2", last, headerStyle)
		_ = f.SetColWidth(sheet.name, "A", "A", 16)
		_ = f.SetColWidth(sheet.name, "B", "I", 18)
	}

	itemRow, orderRow := 3, 3
	for _, o := range orders {
		nombre, telefono := customerFields(o.Cliente)
		fecha := o.Fecha.Format(dateLayout)
		for _, it := range o.Items {
			producto, sku := productFields(it.Producto)
			cell, _ := excelize.CoordinatesToCellName(1, itemRow)
			row := []any{
				o.Codigo, fecha, nombre, telefono, producto, sku, it.Cantidad,
				it.PrecioUnitario.InexactFloat64(), it.LineTotal().InexactFloat64(),
			}
			if err := f.SetSheetRow(itemsSheet, cell, &row); err != nil {
				return fmt.Errorf("error writing item row: %w", err)
			}
			itemRow++
		}

		cell, _ := excelize.CoordinatesToCellName(1, orderRow)
		row := []any{
			o.Codigo, fecha, nombre, len(o.Items),
			models.Subtotal(o.Items).InexactFloat64(), o.Descuento.InexactFloat64(), o.Total.InexactFloat64(),
		}
		if err := f.SetSheetRow(ordersSheet, cell, &row); err != nil {
			return fmt.Errorf("error writing order row: %w", err)
		}
		orderRow++
	}

	if itemRow > 3 {
		_ = f.SetCellStyle(itemsSheet, "H3", fmt.Sprintf("I%d", itemRow-1), moneyStyle)
	}
	if orderRow > 3 {
		_ = f.SetCellStyle(ordersSheet, "E3", fmt.Sprintf("G%d", orderRow-1), moneyStyle)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

// FileName names the workbook after its date range.
func FileName(from, to *time.Time) string {
	switch {
	case from != nil && to != nil:
		return fmt.Sprintf("ordenes_%s_a_%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02"))
	case from != nil:
		return fmt.Sprintf("ordenes_desde_%s.xlsx", from.Format("2006-01-02"))
	case to != nil:
		return fmt.Sprintf("ordenes_hasta_%s.xlsx", to.Format("2006-01-02"))
	}
	return "ordenes.xlsx"
}

func periodTitle(from, to *time.Time) string {
	start, end := "inicio", "hoy"
	if from != nil {
		start = from.Format("2006-01-02")
	}
	if to != nil {
		end = to.Format("2006-01-02")
	}
	return fmt.Sprintf("Periodo: %s - %s", start, end)
}

func customerFields(c *models.Customer) (string, string) {
	if c == nil {
		return "", ""
	}
	return c.Nombre, c.Telefono
}

func productFields(p *models.ProductSummary) (string, string) {
	if p == nil {
		return "", ""
	}
	sku := ""
	if p.SKU != nil {
		sku = *p.SKU
	}
	return p.Descripcion, sku
}

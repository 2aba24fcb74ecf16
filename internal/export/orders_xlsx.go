package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/doshakada/ordering-api/internal/models"
	"github.com/tealeg/xlsx"
)

// ContentType is the MIME type of the workbook written by WriteOrdersXLSX
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var orderHeaders = []string{
	"Order", "Placed At", "Customer", "Phone", "Items",
	"Total", "Payment Method", "Payment Status", "Status",
}

// WriteOrdersXLSX writes the orders to w as a single-sheet workbook, one row
// per order
func WriteOrdersXLSX(w io.Writer, orders []models.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range orderHeaders {
		header.AddCell().SetString(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(o.ShortID())
		row.AddCell().SetString(o.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(o.Customer.Name)
		row.AddCell().SetString(o.Customer.Phone)
		row.AddCell().SetString(itemsSummary(o.Items))
		row.AddCell().SetFloatWithFormat(o.Total, "0.00")
		row.AddCell().SetString(string(o.PaymentMethod))
		row.AddCell().SetString(string(o.PaymentStatus))
		row.AddCell().SetString(string(o.Status))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// itemsSummary renders lines the way the kitchen display lists them
func itemsSummary(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%d x %s", it.Qty, it.Name))
	}
	return strings.Join(parts, ", ")
}

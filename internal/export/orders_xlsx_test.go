package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/doshakada/ordering-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func TestWriteOrdersXLSX(t *testing.T) {
	orders := []models.Order{
		{
			ID: "3f2a9c1e-7d4b-4e8a-9c61-2b7f0d5e8a13",
			Items: []models.OrderItem{
				{ID: "1", Name: "Masala Dosa", Price: 60, Qty: 2},
				{ID: "3", Name: "Tea", Price: 15, Qty: 1},
			},
			Total:         135,
			PaymentMethod: models.PaymentMethodUPI,
			PaymentStatus: models.PaymentStatusPaid,
			Customer:      models.Customer{Name: "Anu", Phone: "9847000000"},
			Status:        models.OrderStatusReady,
			CreatedAt:     time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOrdersXLSX(&buf, orders))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Orders", sheet.Name)
	require.Len(t, sheet.Rows, 2)

	header := sheet.Rows[0].Cells
	require.Len(t, header, len(orderHeaders))
	assert.Equal(t, "Order", header[0].String())
	assert.Equal(t, "Status", header[8].String())

	row := sheet.Rows[1].Cells
	assert.Equal(t, "3f2a9c1e", row[0].String())
	assert.Equal(t, "2026-03-01 09:30:00", row[1].String())
	assert.Equal(t, "Anu", row[2].String())
	assert.Equal(t, "2 x Masala Dosa, 1 x Tea", row[4].String())
	total, err := row[5].Float()
	require.NoError(t, err)
	assert.Equal(t, 135.0, total)
	assert.Equal(t, "UPI", row[6].String())
	assert.Equal(t, "paid", row[7].String())
	assert.Equal(t, "ready", row[8].String())
}

func TestWriteOrdersXLSX_NoOrders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrdersXLSX(&buf, nil))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, file.Sheets[0].Rows, 1)
}

package reports

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yeremiapane/pos-app/models"
)

func sampleReport(orderCount int) *models.SalesReportExport {
	summary := models.EmptySalesSummary()
	summary.TotalOrder = int64(orderCount)
	summary.TotalOmzet = decimal.NewFromInt(77700).Mul(decimal.NewFromInt(int64(orderCount)))
	summary.AllMenuSales = int64(2 * orderCount)
	summary.SalesByCategory.Add("Food", "Nasi Goreng", int64(2*orderCount))

	start := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	orders := make([]models.SalesReportOrder, 0, orderCount)
	for i := 0; i < orderCount; i++ {
		orders = append(orders, models.SalesReportOrder{
			ID:           uint(i + 1),
			OrderNumber:  fmt.Sprintf("ORD-20251013-%04d", i+1),
			OrderDate:    start.Add(time.Duration(i) * time.Minute),
			OrderType:    models.OrderTypeTakeAway,
			CustomerName: "Budi Santoso",
			Category:     "Food",
			GrandTotal:   decimal.NewFromInt(77700),
		})
	}
	return &models.SalesReportExport{
		Summary:     summary,
		Orders:      orders,
		GeneratedAt: start,
		StartDate:   &start,
		EndDate:     &start,
	}
}

func TestRenderExcel(t *testing.T) {
	r := NewDocumentRenderer(time.UTC)

	data, err := r.RenderExcel(sampleReport(2))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Orders"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Sales Report Summary", title)

	totalOrder, err := f.GetCellValue("Summary", "B3")
	require.NoError(t, err)
	assert.Equal(t, "2", totalOrder)

	category, err := f.GetCellValue("Summary", "A8")
	require.NoError(t, err)
	assert.Equal(t, "Food", category)

	header, err := f.GetCellValue("Orders", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Order Number", header)

	first, err := f.GetCellValue("Orders", "A2")
	require.NoError(t, err)
	assert.Equal(t, "ORD-20251013-0001", first)

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestRenderExcelEmptyReport(t *testing.T) {
	r := NewDocumentRenderer(time.UTC)
	report := &models.SalesReportExport{Summary: models.EmptySalesSummary(), GeneratedAt: time.Now()}

	data, err := r.RenderExcel(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "only the header row")
}

func TestRenderPDF(t *testing.T) {
	r := NewDocumentRenderer(time.UTC)

	small, err := r.RenderPDF(sampleReport(1))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(small, []byte("%PDF-")))

	// Enough rows to spill onto further pages.
	large, err := r.RenderPDF(sampleReport(120))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(large, []byte("%PDF-")))
	assert.Greater(t, len(large), len(small))
}

func TestFileName(t *testing.T) {
	at := time.Date(2025, 10, 13, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "sales-report-2025-10-13.xlsx", FileName(at, "xlsx"))
	assert.Equal(t, "sales-report-2025-10-13.pdf", FileName(at, "pdf"))
}

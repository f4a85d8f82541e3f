package reports

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yeremiapane/pos-app/models"
)

const (
	summarySheet = "Summary"
	ordersSheet  = "Orders"
)

var orderColumns = []struct {
	Header string
	Width  float64
}{
	{"Order Number", 20},
	{"Order Date", 25},
	{"Order Type", 15},
	{"Customer Name", 25},
	{"Category", 30},
	{"Grand Total", 20},
}

// RenderExcel builds a workbook with a Summary sheet and an Orders sheet.
func (r *DocumentRenderer) RenderExcel(report *models.SalesReportExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := r.writeSummarySheet(f, report); err != nil {
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	if err := r.writeOrdersSheet(f, report); err != nil {
		return nil, fmt.Errorf("orders sheet: %w", err)
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *DocumentRenderer) writeSummarySheet(f *excelize.File, report *models.SalesReportExport) error {
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return err
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	moneyFmt := `"Rp"#,##0`
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return err
	}

	summary := report.Summary
	rows := [][]interface{}{
		{"Sales Report Summary"},
		{"Period", r.periodLabel(report)},
		{"Total Order", summary.TotalOrder},
		{"Total Omzet", summary.TotalOmzet.InexactFloat64()},
		{"All Menu Sales", summary.AllMenuSales},
		{},
		{"Sales by Category"},
	}
	for i, row := range rows {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A1", titleStyle); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "B4", "B4", moneyStyle); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A7", "A7", boldStyle); err != nil {
		return err
	}

	rowNum := len(rows) + 1
	for _, category := range sortedCategories(summary.SalesByCategory) {
		if err := setRow(f, summarySheet, rowNum, []interface{}{category.Name}); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetCellStyle(summarySheet, cell, cell, boldStyle); err != nil {
			return err
		}
		rowNum++
		if err := setRow(f, summarySheet, rowNum, []interface{}{"Product", "Total Sold"}); err != nil {
			return err
		}
		rowNum++
		for _, product := range category.Products {
			if err := setRow(f, summarySheet, rowNum, []interface{}{"  " + product.Name, product.Units}); err != nil {
				return err
			}
			rowNum++
		}
	}
	return f.SetColWidth(summarySheet, "A", "B", 30)
}

func (r *DocumentRenderer) writeOrdersSheet(f *excelize.File, report *models.SalesReportExport) error {
	if _, err := f.NewSheet(ordersSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	dateFmt := "dd/mm/yyyy hh:mm"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return err
	}
	moneyFmt := `"Rp"#,##0`
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return err
	}

	header := make([]interface{}, len(orderColumns))
	for i, col := range orderColumns {
		header[i] = col.Header
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(ordersSheet, name, name, col.Width); err != nil {
			return err
		}
	}
	if err := setRow(f, ordersSheet, 1, header); err != nil {
		return err
	}
	if err := f.SetCellStyle(ordersSheet, "A1", "F1", headerStyle); err != nil {
		return err
	}

	for i, order := range report.Orders {
		rowNum := i + 2
		row := []interface{}{
			order.OrderNumber,
			r.wallClock(order.OrderDate),
			order.OrderType,
			order.CustomerName,
			order.Category,
			order.GrandTotal.InexactFloat64(),
		}
		if err := setRow(f, ordersSheet, rowNum, row); err != nil {
			return err
		}
	}
	if n := len(report.Orders); n > 0 {
		last := n + 1
		if err := f.SetCellStyle(ordersSheet, "B2", fmt.Sprintf("B%d", last), dateStyle); err != nil {
			return err
		}
		if err := f.SetCellStyle(ordersSheet, "F2", fmt.Sprintf("F%d", last), moneyStyle); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// wallClock re-expresses t in loc as a zone-less value; excelize stores dates without zones.
func (r *DocumentRenderer) wallClock(t time.Time) time.Time {
	l := t.In(r.loc)
	return time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), l.Minute(), l.Second(), 0, time.UTC)
}

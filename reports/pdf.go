package reports

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/pos-app/models"
	"github.com/yeremiapane/pos-app/utils"
)

const (
	pdfMargin     = 15.0
	pdfLineHeight = 6.0
	pdfCellPad    = 1.5
)

var pdfColumns = []struct {
	Header string
	Width  float64
	Align  string
}{
	{"Order #", 45, "L"},
	{"Date", 30, "L"},
	{"Type", 25, "L"},
	{"Customer", 45, "L"},
	{"Total", 35, "R"},
}

// RenderPDF lays out the summary, the per-category sales and a table of all orders on A4.
func (r *DocumentRenderer) RenderPDF(report *models.SalesReportExport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle("Sales Report", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Sales Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr("Period: "+r.periodLabel(report)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Generated: "+report.GeneratedAt.In(r.loc).Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	summary := report.Summary
	sectionTitle(pdf, "Summary")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, pdfLineHeight, fmt.Sprintf("Total Order: %d", summary.TotalOrder), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, pdfLineHeight, "Total Omzet: "+utils.FormatRupiah(summary.TotalOmzet), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, pdfLineHeight, fmt.Sprintf("All Menu Sales: %d", summary.AllMenuSales), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	sectionTitle(pdf, "Sales by Category")
	categories := sortedCategories(summary.SalesByCategory)
	if len(categories) == 0 {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.CellFormat(0, pdfLineHeight, "No sales in this period.", "", 1, "L", false, 0, "")
	}
	for _, category := range categories {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, pdfLineHeight, tr(category.Name), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		for _, product := range category.Products {
			line := fmt.Sprintf("  - %s: %d sold", product.Name, product.Units)
			pdf.CellFormat(0, pdfLineHeight, tr(line), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}
	pdf.Ln(4)

	sectionTitle(pdf, "All Orders")
	r.ordersTable(pdf, tr, report.Orders)

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

// ordersTable draws the orders with wrapped cells, repeating the header on every new page.
func (r *DocumentRenderer) ordersTable(pdf *fpdf.Fpdf, tr func(string) string, orders []models.SalesReportOrder) {
	_, pageHeight := pdf.GetPageSize()
	bottom := pageHeight - pdfMargin

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.Width, pdfLineHeight+2, col.Header, "1", 0, col.Align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	for _, order := range orders {
		customer := order.CustomerName
		if customer == "" {
			customer = "-"
		}
		cells := []string{
			order.OrderNumber,
			order.OrderDate.In(r.loc).Format("02/01/06 15:04"),
			order.OrderType,
			tr(customer),
			utils.FormatRupiah(order.GrandTotal),
		}

		rowHeight := 0.0
		for i, text := range cells {
			lines := pdf.SplitText(text, pdfColumns[i].Width-2*pdfCellPad)
			if h := float64(len(lines))*pdfLineHeight/1.2 + 2*pdfCellPad; h > rowHeight {
				rowHeight = h
			}
		}

		if pdf.GetY()+rowHeight > bottom {
			pdf.AddPage()
			header()
		}

		x, y := pdf.GetXY()
		for i, text := range cells {
			col := pdfColumns[i]
			pdf.Rect(x, y, col.Width, rowHeight, "D")
			pdf.SetXY(x+pdfCellPad, y+pdfCellPad)
			pdf.MultiCell(col.Width-2*pdfCellPad, pdfLineHeight/1.2, text, "", col.Align, false)
			x += col.Width
		}
		pdf.SetXY(pdfMargin, y+rowHeight)
	}
}

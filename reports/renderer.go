package reports

import (
	"fmt"
	"sort"
	"time"

	"github.com/yeremiapane/pos-app/models"
)

const (
	ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF   = "application/pdf"
)

// Renderer turns a full sales report into a downloadable document.
type Renderer interface {
	RenderExcel(report *models.SalesReportExport) ([]byte, error)
	RenderPDF(report *models.SalesReportExport) ([]byte, error)
}

// DocumentRenderer renders reports with dates shown in loc.
type DocumentRenderer struct {
	loc *time.Location
}

func NewDocumentRenderer(loc *time.Location) *DocumentRenderer {
	if loc == nil {
		loc = time.Local
	}
	return &DocumentRenderer{loc: loc}
}

// FileName is sales-report-YYYY-MM-DD.ext for the day the report was generated.
func FileName(generatedAt time.Time, ext string) string {
	return fmt.Sprintf("sales-report-%s.%s", generatedAt.Format("2006-01-02"), ext)
}

type productSales struct {
	Name  string
	Units int64
}

type categorySales struct {
	Name     string
	Products []productSales
}

// sortedCategories flattens sales-by-category into name order so output is stable.
func sortedCategories(sales models.SalesByCategory) []categorySales {
	out := make([]categorySales, 0, len(sales))
	for category, products := range sales {
		cs := categorySales{Name: category}
		for name, units := range products {
			cs.Products = append(cs.Products, productSales{Name: name, Units: units})
		}
		sort.Slice(cs.Products, func(i, j int) bool { return cs.Products[i].Name < cs.Products[j].Name })
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *DocumentRenderer) periodLabel(report *models.SalesReportExport) string {
	const layout = "02/01/2006"
	switch {
	case report.StartDate != nil && report.EndDate != nil:
		return report.StartDate.Format(layout) + " - " + report.EndDate.Format(layout)
	case report.StartDate != nil:
		return "from " + report.StartDate.Format(layout)
	case report.EndDate != nil:
		return "until " + report.EndDate.Format(layout)
	default:
		return "all time"
	}
}

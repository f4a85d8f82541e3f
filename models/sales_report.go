package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesByCategory maps category name to product name to units sold.
type SalesByCategory map[string]map[string]int64

func (s SalesByCategory) Add(category, product string, units int64) {
	products, ok := s[category]
	if !ok {
		products = make(map[string]int64)
		s[category] = products
	}
	products[product] += units
}

type SalesSummary struct {
	TotalOrder      int64           `json:"totalOrder"`
	TotalOmzet      decimal.Decimal `json:"totalOmzet"`
	AllMenuSales    int64           `json:"allMenuSales"`
	SalesByCategory SalesByCategory `json:"salesByCategory"`
}

// EmptySalesSummary is the summary of a filter that matches no orders.
func EmptySalesSummary() SalesSummary {
	return SalesSummary{
		TotalOmzet:      decimal.Zero,
		SalesByCategory: SalesByCategory{},
	}
}

type SalesReportOrder struct {
	ID           uint            `json:"id"`
	OrderNumber  string          `json:"orderNumber"`
	OrderDate    time.Time       `json:"orderDate"`
	OrderType    string          `json:"orderType"`
	CustomerName string          `json:"customerName"`
	Category     string          `json:"category"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
}

type SalesReportPage struct {
	Data        []SalesReportOrder `json:"data"`
	CurrentPage int                `json:"currentPage"`
	TotalPages  int                `json:"totalPages"`
	TotalItems  int64              `json:"totalItems"`
}

type SalesReport struct {
	Summary SalesSummary    `json:"summary"`
	Orders  SalesReportPage `json:"orders"`
}

// SalesReportExport is the unpaginated report handed to document renderers.
type SalesReportExport struct {
	Summary     SalesSummary       `json:"summary"`
	Orders      []SalesReportOrder `json:"orders"`
	GeneratedAt time.Time          `json:"generatedAt"`
	StartDate   *time.Time         `json:"startDate,omitempty"`
	EndDate     *time.Time         `json:"endDate,omitempty"`
}

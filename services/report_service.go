package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/models"
	"github.com/yeremiapane/pos-app/repositories"
	"github.com/yeremiapane/pos-app/utils"
	"gorm.io/gorm"
)

// ReportFilters are the caller-facing report filters. Dates are calendar days, both inclusive.
type ReportFilters struct {
	StartDate  *time.Time
	EndDate    *time.Time
	OrderType  string
	CategoryID *uint
}

type ReportService struct {
	db     *gorm.DB
	loc    *time.Location
	txOpts *sql.TxOptions
	now    func() time.Time
}

func NewReportService(db *gorm.DB, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	s := &ReportService{db: db, loc: loc, now: time.Now}
	// SQLite transactions are already serialized; the others need an explicit snapshot.
	if db.Dialector.Name() != "sqlite" {
		s.txOpts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return s
}

// BuildFilter turns caller filters into a UTC, half-open query filter in the business time zone.
func (s *ReportService) BuildFilter(cashierID *uint, f ReportFilters) (repositories.ReportFilter, error) {
	filter := repositories.ReportFilter{CashierID: cashierID, CategoryID: f.CategoryID}

	if f.OrderType != "" {
		if f.OrderType != models.OrderTypeDineIn && f.OrderType != models.OrderTypeTakeAway {
			return filter, apperrors.Validation("orderType must be dine-in or take-away")
		}
		filter.OrderType = f.OrderType
	}

	var start, end time.Time
	if f.StartDate != nil {
		start = s.startOfDay(*f.StartDate)
		from := start.UTC()
		filter.From = &from
	}
	if f.EndDate != nil {
		end = s.startOfDay(*f.EndDate).AddDate(0, 0, 1)
		to := end.UTC()
		filter.To = &to
	}
	if f.StartDate != nil && f.EndDate != nil && !start.Before(end) {
		return filter, apperrors.Validation("startDate must not be after endDate")
	}
	return filter, nil
}

func (s *ReportService) startOfDay(t time.Time) time.Time {
	// The calendar date is taken as written, whatever zone it was parsed in.
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// GenerateReport returns the summary of all matching orders plus one page of them.
func (s *ReportService) GenerateReport(ctx context.Context, cashierID *uint, f ReportFilters, page repositories.Pagination) (*models.SalesReport, error) {
	filter, err := s.BuildFilter(cashierID, f)
	if err != nil {
		return nil, err
	}
	page = page.Normalize()

	report := &models.SalesReport{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)

		summary, err := s.summarize(ctx, orders, filter)
		if err != nil {
			return err
		}
		rows, total, err := orders.FindOrdersForReport(ctx, filter, &page)
		if err != nil {
			return err
		}

		report.Summary = summary
		report.Orders = models.SalesReportPage{
			Data:        toReportOrders(rows),
			CurrentPage: page.Page,
			TotalPages:  utils.TotalPages(total, page.Limit),
			TotalItems:  total,
		}
		return nil
	}, s.txOpts)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// FullReport is GenerateReport without pagination, for document export.
func (s *ReportService) FullReport(ctx context.Context, cashierID *uint, f ReportFilters) (*models.SalesReportExport, error) {
	filter, err := s.BuildFilter(cashierID, f)
	if err != nil {
		return nil, err
	}

	export := &models.SalesReportExport{
		GeneratedAt: s.now().In(s.loc),
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)

		summary, err := s.summarize(ctx, orders, filter)
		if err != nil {
			return err
		}
		rows, _, err := orders.FindOrdersForReport(ctx, filter, nil)
		if err != nil {
			return err
		}

		export.Summary = summary
		export.Orders = toReportOrders(rows)
		return nil
	}, s.txOpts)
	if err != nil {
		return nil, err
	}
	return export, nil
}

func (s *ReportService) summarize(ctx context.Context, orders *repositories.OrderRepository, filter repositories.ReportFilter) (models.SalesSummary, error) {
	summary := models.EmptySalesSummary()

	totals, err := orders.ReportTotals(ctx, filter)
	if err != nil {
		return summary, err
	}
	if totals.TotalOrder == 0 {
		return summary, nil
	}
	summary.TotalOrder = totals.TotalOrder
	summary.TotalOmzet = totals.TotalOmzet
	summary.AllMenuSales = totals.AllMenuSales

	rows, err := orders.SalesByCategory(ctx, filter)
	if err != nil {
		return summary, err
	}
	for _, row := range rows {
		summary.SalesByCategory.Add(row.CategoryName, row.ProductName, row.TotalSold)
	}
	return summary, nil
}

func toReportOrders(orders []models.Order) []models.SalesReportOrder {
	out := make([]models.SalesReportOrder, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		out = append(out, models.SalesReportOrder{
			ID:           o.ID,
			OrderNumber:  o.OrderNumber,
			OrderDate:    o.CreatedAt,
			OrderType:    o.OrderType,
			CustomerName: o.CustomerName,
			Category:     strings.Join(o.CategoryNames(), ", "),
			GrandTotal:   o.GrandTotal,
		})
	}
	return out
}

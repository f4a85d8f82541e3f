package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderStore is the persistence contract used by order creation and reporting.
type OrderStore interface {
	CreateOrderTransactional(ctx context.Context, order *models.Order, items []models.OrderItem) error
	FindOrdersForReport(ctx context.Context, filter ReportFilter, page *Pagination) ([]models.Order, int64, error)
	FindLatestOrderOnDay(ctx context.Context, start, end time.Time) (*models.Order, error)
	IncrementDailySequence(ctx context.Context, day string, seed func() (int, error)) (int, error)
}

var _ OrderStore = (*OrderRepository)(nil)

// ReportTotals are the order-level aggregates of a report.
type ReportTotals struct {
	TotalOrder   int64
	TotalOmzet   decimal.Decimal
	AllMenuSales int64
}

type CategorySalesRow struct {
	CategoryName string
	ProductName  string
	TotalSold    int64
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrderTransactional inserts the order and then its items atomically.
// A duplicate order number surfaces as a conflict.
func (r *OrderRepository) CreateOrderTransactional(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Wrap(apperrors.KindConflict, "duplicate order number", err)
			}
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
}

// FindLatestOrderOnDay returns the most recent order created in [start, end), or nil.
func (r *OrderRepository) FindLatestOrderOnDay(ctx context.Context, start, end time.Time) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").Order("id DESC").
		Take(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// IncrementDailySequence bumps the counter for day and returns the new value.
// When the day has no counter yet, seed supplies its starting value.
// Must run inside the order transaction so the row lock is held until commit.
func (r *OrderRepository) IncrementDailySequence(ctx context.Context, day string, seed func() (int, error)) (int, error) {
	db := r.db.WithContext(ctx)

	var seq models.OrderSequence
	err := db.Where("day = ?", day).Take(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		start, err := seed()
		if err != nil {
			return 0, err
		}
		row := models.OrderSequence{Day: day, LastValue: start}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}

	res := db.Model(&models.OrderSequence{}).
		Where("day = ?", day).
		UpdateColumn("last_value", gorm.Expr("last_value + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected != 1 {
		return 0, apperrors.DataIntegrity("order sequence row missing for "+day, nil)
	}

	if err := db.Where("day = ?", day).Take(&seq).Error; err != nil {
		return 0, err
	}
	return seq.LastValue, nil
}

func (r *OrderRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.id ASC")
		}).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Preload("Items.Product.Category").
		Preload("Cashier")
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.withDetails(r.db.WithContext(ctx)).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("order not found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindOrdersForReport lists matching orders newest first with items, products and categories.
// A nil page returns every match.
func (r *OrderRepository) FindOrdersForReport(ctx context.Context, filter ReportFilter, page *Pagination) ([]models.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Scopes(filter.Scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]models.Order, 0)
	if total == 0 {
		return orders, 0, nil
	}

	q := r.withDetails(r.db.WithContext(ctx).Model(&models.Order{})).
		Scopes(filter.Scope).
		Order("orders.created_at DESC").Order("orders.id DESC")
	if page != nil {
		q = q.Offset(page.Offset()).Limit(page.Limit)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) ReportTotals(ctx context.Context, filter ReportFilter) (ReportTotals, error) {
	totals := ReportTotals{TotalOmzet: decimal.Zero}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Order{}).Scopes(filter.Scope).Count(&totals.TotalOrder).Error; err != nil {
		return totals, err
	}
	if totals.TotalOrder == 0 {
		return totals, nil
	}

	// SQLite keeps decimal columns as REAL, so its SUM carries float error.
	var omzet decimal.NullDecimal
	if err := db.Model(&models.Order{}).
		Select("SUM(orders.grand_total)").
		Scopes(filter.Scope).
		Row().Scan(&omzet); err != nil {
		return totals, err
	}
	if omzet.Valid {
		totals.TotalOmzet = omzet.Decimal.Round(2)
	}

	var units *int64
	if err := db.Table("order_items").
		Select("SUM(order_items.quantity)").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Scopes(filter.Scope).
		Row().Scan(&units); err != nil {
		return totals, err
	}
	if units != nil {
		totals.AllMenuSales = *units
	}
	return totals, nil
}

// SalesByCategory sums item quantities of matching orders per category and product.
func (r *OrderRepository) SalesByCategory(ctx context.Context, filter ReportFilter) ([]CategorySalesRow, error) {
	var rows []CategorySalesRow
	err := r.db.WithContext(ctx).Table("order_items").
		Select("categories.name AS category_name, products.name AS product_name, SUM(order_items.quantity) AS total_sold").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Scopes(filter.Scope).
		Group("categories.id, categories.name, products.id, products.name").
		Order("categories.name ASC").Order("products.name ASC").
		Scan(&rows).Error
	return rows, err
}

// List pages through orders, optionally restricted to one cashier.
func (r *OrderRepository) List(ctx context.Context, cashierID *uint, page Pagination) ([]models.Order, int64, error) {
	return r.FindOrdersForReport(ctx, ReportFilter{CashierID: cashierID}, &page)
}

package repositories

import (
	"time"

	"gorm.io/gorm"
)

// ReportFilter selects orders for listings and reports. Bounds are UTC, From inclusive, To exclusive.
type ReportFilter struct {
	CashierID  *uint
	From       *time.Time
	To         *time.Time
	OrderType  string
	CategoryID *uint
}

// Scope applies the filter to a query whose FROM or JOIN includes orders.
// A category filter keeps an order when any of its items belongs to the category.
func (f ReportFilter) Scope(db *gorm.DB) *gorm.DB {
	if f.CashierID != nil {
		db = db.Where("orders.cashier_id = ?", *f.CashierID)
	}
	if f.From != nil {
		db = db.Where("orders.created_at >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("orders.created_at < ?", *f.To)
	}
	if f.OrderType != "" {
		db = db.Where("orders.order_type = ?", f.OrderType)
	}
	if f.CategoryID != nil {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table("order_items").
			Select("order_items.order_id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("products.category_id = ?", *f.CategoryID)
		db = db.Where("orders.id IN (?)", sub)
	}
	return db
}

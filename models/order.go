package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderTypeDineIn   = "dine-in"
	OrderTypeTakeAway = "take-away"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentMethodCash     = "cash"
	PaymentMethodCredit   = "credit"
	PaymentMethodDebit    = "debit"
	PaymentMethodTransfer = "transfer"
)

type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderNumber   string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"orderNumber"`
	CustomerName  string          `gorm:"type:varchar(100);not null" json:"customerName"`
	OrderType     string          `gorm:"type:varchar(20);not null;index" json:"orderType"`
	TableNumber   *string         `gorm:"type:varchar(20)" json:"tableNumber"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"taxAmount"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"grandTotal"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amountPaid"`
	PaymentMethod string          `gorm:"type:varchar(20);not null;default:'cash'" json:"paymentMethod"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CashierID     uint            `gorm:"not null;index" json:"cashierId"`
	Cashier       *User           `gorm:"foreignKey:CashierID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"cashier,omitempty"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time       `gorm:"not null;index" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updatedAt"`
}

// CategoryNames lists the distinct category names of the order's items in item order.
func (o *Order) CategoryNames() []string {
	seen := make(map[string]struct{}, len(o.Items))
	names := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if item.Product == nil || item.Product.Category == nil {
			continue
		}
		name := item.Product.Category.Name
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/models"
	"github.com/yeremiapane/pos-app/repositories"
	"github.com/yeremiapane/pos-app/utils"
	"gorm.io/gorm"
)

// MinAmountPaid is the smallest payment a cart may carry.
var MinAmountPaid = decimal.NewFromInt(1000)

type CartItem struct {
	ProductID uint   `json:"productId" binding:"required,min=1"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Notes     string `json:"notes" binding:"max=255"`
}

type Cart struct {
	CustomerName  string          `json:"customerName" binding:"required,min=3,max=100"`
	OrderType     string          `json:"orderType" binding:"required,oneof=dine-in take-away"`
	TableNumber   *string         `json:"tableNumber" binding:"omitempty,max=20"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	PaymentMethod string          `json:"paymentMethod" binding:"omitempty,oneof=cash credit debit transfer"`
	Items         []CartItem      `json:"items" binding:"required,min=1,dive"`
}

// Validate checks the rules that struct tags cannot express.
func (c *Cart) Validate() error {
	name := strings.TrimSpace(c.CustomerName)
	if n := utf8.RuneCountInString(name); n < 3 || n > 100 {
		return apperrors.Validation("customerName must be between 3 and 100 characters")
	}

	hasTable := c.TableNumber != nil && strings.TrimSpace(*c.TableNumber) != ""
	switch c.OrderType {
	case models.OrderTypeDineIn:
		if !hasTable {
			return apperrors.Validation("tableNumber is required for dine-in orders")
		}
	case models.OrderTypeTakeAway:
		if hasTable {
			return apperrors.Validation("tableNumber must be empty for take-away orders")
		}
	default:
		return apperrors.Validation("orderType must be dine-in or take-away")
	}

	switch c.PaymentMethod {
	case "", models.PaymentMethodCash, models.PaymentMethodCredit, models.PaymentMethodDebit, models.PaymentMethodTransfer:
	default:
		return apperrors.Validation("paymentMethod must be one of cash, credit, debit, transfer")
	}

	if c.AmountPaid.LessThan(MinAmountPaid) {
		return apperrors.Validation("amountPaid must be at least 1000")
	}

	if len(c.Items) == 0 {
		return apperrors.Validation("items must not be empty")
	}
	for _, item := range c.Items {
		if item.ProductID < 1 {
			return apperrors.Validation("productId must be a positive integer")
		}
		if item.Quantity < 1 {
			return apperrors.Validation("quantity must be at least 1")
		}
	}
	return nil
}

// Totals are the money figures of an order.
type Totals struct {
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeTotals applies the tax rate to subtotal, rounding tax to two decimals.
func ComputeTotals(subtotal, taxRate decimal.Decimal) Totals {
	tax := subtotal.Mul(taxRate).Round(2)
	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  tax,
		GrandTotal: subtotal.Add(tax),
	}
}

// OrderWithChange is a freshly created order plus the change owed to the customer.
type OrderWithChange struct {
	models.Order
	Change decimal.Decimal `json:"change"`
}

// OrderPublisher is notified after an order is committed.
type OrderPublisher interface {
	PublishOrderCreated(order *models.Order)
}

type OrderServiceOption func(*OrderService)

// WithClock overrides the time source used for order numbers.
func WithClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) { s.now = now }
}

func WithPublisher(p OrderPublisher) OrderServiceOption {
	return func(s *OrderService) { s.publisher = p }
}

type OrderService struct {
	db         *gorm.DB
	sequence   *SequenceGenerator
	taxRate    decimal.Decimal
	maxRetries int
	now        func() time.Time
	publisher  OrderPublisher
}

func NewOrderService(db *gorm.DB, taxRate decimal.Decimal, loc *time.Location, maxRetries int, opts ...OrderServiceOption) *OrderService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	s := &OrderService{
		db:         db,
		sequence:   NewSequenceGenerator(loc),
		taxRate:    taxRate,
		maxRetries: maxRetries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder validates the cart, prices it from the catalog, numbers it and persists it
// in one transaction. Nothing is written when any step fails.
func (s *OrderService) CreateOrder(ctx context.Context, cart Cart, cashierID uint) (*OrderWithChange, error) {
	if err := cart.Validate(); err != nil {
		return nil, err
	}

	var (
		orderID uint
		change  decimal.Decimal
		err     error
	)
	for attempt := 1; ; attempt++ {
		orderID, change, err = s.createOnce(ctx, cart, cashierID)
		if err == nil {
			break
		}
		if apperrors.Is(err, apperrors.KindConflict) && attempt < s.maxRetries {
			utils.InfoLogger.WithFields(logrus.Fields{
				"attempt":    attempt,
				"cashier_id": cashierID,
			}).Warn("order number collision, retrying")
			continue
		}
		return nil, err
	}

	order, err := repositories.NewOrderRepository(s.db).FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"cashier_id":   cashierID,
		"grand_total":  order.GrandTotal.String(),
	}).Info("order created")

	if s.publisher != nil {
		s.publisher.PublishOrderCreated(order)
	}
	return &OrderWithChange{Order: *order, Change: change}, nil
}

func (s *OrderService) createOnce(ctx context.Context, cart Cart, cashierID uint) (uint, decimal.Decimal, error) {
	var (
		order  models.Order
		change decimal.Decimal
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var (
			catalog repositories.CatalogStore = repositories.NewCatalogRepository(tx)
			orders  repositories.OrderStore   = repositories.NewOrderRepository(tx)
		)

		ids := distinctProductIDs(cart.Items)
		products, err := catalog.FindProductsByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(products) != len(ids) {
			return apperrors.NotFound("one or more items not found")
		}
		prices := make(map[uint]decimal.Decimal, len(products))
		for _, p := range products {
			prices[p.ID] = p.Price
		}

		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			item := models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     prices[line.ProductID],
				Notes:     strings.TrimSpace(line.Notes),
			}
			subtotal = subtotal.Add(item.LineTotal())
			items = append(items, item)
		}

		totals := ComputeTotals(subtotal, s.taxRate)
		if cart.AmountPaid.LessThan(totals.GrandTotal) {
			return apperrors.InsufficientPayment("insufficient payment")
		}
		change = cart.AmountPaid.Sub(totals.GrandTotal)

		now := s.now()
		number, err := s.sequence.NextOrderNumber(ctx, orders, now)
		if err != nil {
			return err
		}

		paymentMethod := cart.PaymentMethod
		if paymentMethod == "" {
			paymentMethod = models.PaymentMethodCash
		}
		var table *string
		if cart.OrderType == models.OrderTypeDineIn {
			tn := strings.TrimSpace(*cart.TableNumber)
			table = &tn
		}

		order = models.Order{
			OrderNumber:   number,
			CustomerName:  strings.TrimSpace(cart.CustomerName),
			OrderType:     cart.OrderType,
			TableNumber:   table,
			Subtotal:      totals.Subtotal,
			TaxAmount:     totals.TaxAmount,
			GrandTotal:    totals.GrandTotal,
			AmountPaid:    cart.AmountPaid,
			PaymentMethod: paymentMethod,
			Status:        models.OrderStatusPaid,
			CashierID:     cashierID,
			CreatedAt:     now.UTC(),
			UpdatedAt:     now.UTC(),
		}
		return orders.CreateOrderTransactional(ctx, &order, items)
	})
	if err != nil {
		return 0, decimal.Zero, err
	}
	return order.ID, change, nil
}

// GetOrder returns an order visible to actor. Cashiers only see their own orders.
func (s *OrderService) GetOrder(ctx context.Context, id uint, actor Actor) (*models.Order, error) {
	order, err := repositories.NewOrderRepository(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.CashierID != actor.UserID {
		return nil, apperrors.Forbidden("you can only view your own orders")
	}
	return order, nil
}

// ListOrders pages through orders visible to actor, newest first.
func (s *OrderService) ListOrders(ctx context.Context, actor Actor, page repositories.Pagination) ([]models.Order, int64, error) {
	var cashierID *uint
	if !actor.IsAdmin() {
		id := actor.UserID
		cashierID = &id
	}
	return repositories.NewOrderRepository(s.db).List(ctx, cashierID, page.Normalize())
}

func distinctProductIDs(items []CartItem) []uint {
	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

package testutil

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/pos-app/config"
	"github.com/yeremiapane/pos-app/database"
	"github.com/yeremiapane/pos-app/models"
	"github.com/yeremiapane/pos-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultPassword = "secret123"

var userCounter atomic.Int64

// NewTestDB opens a migrated in-memory SQLite database private to the test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.SilenceLoggers()

	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig(logger.Silent))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// TestConfig returns a valid configuration for tests.
func TestConfig() *config.Config {
	return &config.Config{
		GoEnv:                 "test",
		Port:                  "0",
		GinMode:               "test",
		DBDriver:              config.DriverSQLite,
		DatabaseURL:           ":memory:",
		AccessTokenSecret:     "test-access-secret",
		RefreshTokenSecret:    "test-refresh-secret",
		AccessTokenTTL:        15 * time.Minute,
		RefreshTokenTTL:       7 * 24 * time.Hour,
		TaxRate:               decimal.RequireFromString("0.11"),
		Location:              time.UTC,
		OrderNumberMaxRetries: 3,
		CORSAllowedOrigins:    []string{"http://localhost:3000"},
		LoginRatePerMinute:    1000,
		ImageStore:            config.ImageStoreLocal,
		UploadDir:             "",
		PublicBaseURL:         "http://localhost:8080",
		LogLevel:              "error",
		LogFormat:             "text",
	}
}

func CreateUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()

	n := userCounter.Add(1)
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Username: fmt.Sprintf("%s%d", role, n),
		Email:    fmt.Sprintf("%s%d@example.com", role, n),
		Password: string(hashed),
		Role:     role,
		Status:   models.UserStatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	settings := models.DefaultUserSettings(user.ID)
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("failed to create user settings: %v", err)
	}
	return user
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()

	category := models.Category{Name: name}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return category
}

func CreateProduct(t *testing.T, db *gorm.DB, categoryID uint, name, price string) models.Product {
	t.Helper()

	product := models.Product{
		CategoryID: categoryID,
		Name:       name,
		Price:      decimal.RequireFromString(price),
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return product
}

// ItemSpec describes one line of an order inserted directly by CreateOrder.
type ItemSpec struct {
	Product  models.Product
	Quantity int
}

// CreateOrder inserts a paid order bypassing the order service, for report fixtures.
func CreateOrder(t *testing.T, db *gorm.DB, number string, cashierID uint, orderType string, createdAt time.Time, items ...ItemSpec) models.Order {
	t.Helper()

	subtotal := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, line := range items {
		item := models.OrderItem{ProductID: line.Product.ID, Quantity: line.Quantity, Price: line.Product.Price}
		subtotal = subtotal.Add(item.LineTotal())
		orderItems = append(orderItems, item)
	}
	tax := subtotal.Mul(decimal.RequireFromString("0.11")).Round(2)

	var table *string
	if orderType == models.OrderTypeDineIn {
		tn := "T1"
		table = &tn
	}
	order := models.Order{
		OrderNumber:   number,
		CustomerName:  "Customer " + number,
		OrderType:     orderType,
		TableNumber:   table,
		Subtotal:      subtotal,
		TaxAmount:     tax,
		GrandTotal:    subtotal.Add(tax),
		AmountPaid:    subtotal.Add(tax),
		PaymentMethod: models.PaymentMethodCash,
		Status:        models.OrderStatusPaid,
		CashierID:     cashierID,
		Items:         orderItems,
		CreatedAt:     createdAt.UTC(),
		UpdatedAt:     createdAt.UTC(),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to create order: %v", err)
	}
	return order
}

func CountRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}

// MultipartImage builds a multipart body with an image part named "image" and extra text fields.
func MultipartImage(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	if filename != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
		header.Set("Content-Type", utils.ImageContentType(filename))
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("failed to write file content: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

// FileHeader turns content into a *multipart.FileHeader the way gin would hand it to a controller.
func FileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body, contentType := MultipartImage(t, filename, content, nil)
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("failed to parse content type: %v", err)
	}
	reader := multipart.NewReader(body, params["boundary"])
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to read multipart form: %v", err)
	}
	files := form.File["image"]
	if len(files) == 0 {
		t.Fatal("multipart form has no image")
	}
	return files[0]
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/models"
	"github.com/yeremiapane/pos-app/repositories"
	"github.com/yeremiapane/pos-app/testutil"
	"gorm.io/gorm"
)

var businessDay = time.Date(2025, 10, 13, 9, 30, 0, 0, time.UTC)

func nextNumber(t *testing.T, db *gorm.DB, gen *SequenceGenerator, at time.Time) (string, error) {
	t.Helper()
	var number string
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		number, err = gen.NextOrderNumber(context.Background(), repositories.NewOrderRepository(tx), at)
		return err
	})
	return number, err
}

func TestParseOrderSequence(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"ORD-20251013-0001", 1, false},
		{"ORD-20251013-0042", 42, false},
		{"ORD-20251013-12345", 12345, false},
		{"ORD-20251013-00x1", 0, true},
		{"ORD-20251013", 0, true},
		{"INV-20251013-0001", 0, true},
		{"ORD-20251013-0000", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOrderSequence(tt.in)
			if tt.wantErr {
				assert.Equal(t, apperrors.KindDataIntegrity, apperrors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "ORD-20251013-0001", FormatOrderNumber("20251013", 1))
	assert.Equal(t, "ORD-20251013-0123", FormatOrderNumber("20251013", 123))
}

func TestNextOrderNumberStartsAtOne(t *testing.T) {
	db := testutil.NewTestDB(t)
	gen := NewSequenceGenerator(time.UTC)

	first, err := nextNumber(t, db, gen, businessDay)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20251013-0001", first)

	second, err := nextNumber(t, db, gen, businessDay.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "ORD-20251013-0002", second)

	nextDay, err := nextNumber(t, db, gen, businessDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, "ORD-20251014-0001", nextDay)
}

func TestNextOrderNumberContinuesFromExistingOrders(t *testing.T) {
	db := testutil.NewTestDB(t)
	cashier := testutil.CreateUser(t, db, models.RoleKasir)
	category := testutil.CreateCategory(t, db, "Food")
	product := testutil.CreateProduct(t, db, category.ID, "Nasi Goreng", "35000")

	testutil.CreateOrder(t, db, "ORD-20251013-0006", cashier.ID, models.OrderTypeTakeAway,
		businessDay.Add(-time.Hour), testutil.ItemSpec{Product: product, Quantity: 1})
	testutil.CreateOrder(t, db, "ORD-20251013-0007", cashier.ID, models.OrderTypeTakeAway,
		businessDay.Add(-30*time.Minute), testutil.ItemSpec{Product: product, Quantity: 1})
	// Yesterday's numbers never influence today.
	testutil.CreateOrder(t, db, "ORD-20251012-0099", cashier.ID, models.OrderTypeTakeAway,
		businessDay.AddDate(0, 0, -1), testutil.ItemSpec{Product: product, Quantity: 1})

	number, err := nextNumber(t, db, NewSequenceGenerator(time.UTC), businessDay)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20251013-0008", number)
}

func TestNextOrderNumberRejectsCorruptLatestOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	cashier := testutil.CreateUser(t, db, models.RoleKasir)
	category := testutil.CreateCategory(t, db, "Food")
	product := testutil.CreateProduct(t, db, category.ID, "Nasi Goreng", "35000")

	testutil.CreateOrder(t, db, "ORD-20251013-ABCD", cashier.ID, models.OrderTypeTakeAway,
		businessDay.Add(-time.Hour), testutil.ItemSpec{Product: product, Quantity: 1})

	_, err := nextNumber(t, db, NewSequenceGenerator(time.UTC), businessDay)
	assert.Equal(t, apperrors.KindDataIntegrity, apperrors.KindOf(err))
	assert.Equal(t, int64(0), testutil.CountRows(t, db, &models.OrderSequence{}))
}

func TestNextOrderNumberUsesBusinessTimeZone(t *testing.T) {
	db := testutil.NewTestDB(t)
	jakarta := time.FixedZone("WIB", 7*60*60)
	gen := NewSequenceGenerator(jakarta)

	// 18:30 UTC on the 13th is already the 14th in Jakarta.
	number, err := nextNumber(t, db, gen, time.Date(2025, 10, 13, 18, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "ORD-20251014-0001", number)

	start, end := gen.DayBounds(time.Date(2025, 10, 13, 18, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 10, 13, 17, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 10, 14, 17, 0, 0, 0, time.UTC), end)
}

// memoryOrderStore keeps per-day counters in memory and serves a fixed latest order.
type memoryOrderStore struct {
	repositories.OrderStore
	latest   *models.Order
	counters map[string]int
	seeds    int
}

func (m *memoryOrderStore) FindLatestOrderOnDay(ctx context.Context, start, end time.Time) (*models.Order, error) {
	return m.latest, nil
}

func (m *memoryOrderStore) IncrementDailySequence(ctx context.Context, day string, seed func() (int, error)) (int, error) {
	if _, ok := m.counters[day]; !ok {
		m.seeds++
		start, err := seed()
		if err != nil {
			return 0, err
		}
		m.counters[day] = start
	}
	m.counters[day]++
	return m.counters[day], nil
}

func TestNextOrderNumberWithAnyOrderStore(t *testing.T) {
	store := &memoryOrderStore{
		latest:   &models.Order{OrderNumber: "ORD-20251013-0041"},
		counters: map[string]int{},
	}
	gen := NewSequenceGenerator(time.UTC)

	first, err := gen.NextOrderNumber(context.Background(), store, businessDay)
	require.NoError(t, err)
	second, err := gen.NextOrderNumber(context.Background(), store, businessDay)
	require.NoError(t, err)

	assert.Equal(t, "ORD-20251013-0042", first)
	assert.Equal(t, "ORD-20251013-0043", second)
	assert.Equal(t, 1, store.seeds)
}

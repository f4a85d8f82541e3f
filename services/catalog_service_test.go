package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/models"
	"github.com/yeremiapane/pos-app/repositories"
	"github.com/yeremiapane/pos-app/testutil"
)

func TestCategoryLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCategoryService(db)
	ctx := context.Background()

	food, err := svc.Create(ctx, CategoryInput{Name: " Food "})
	require.NoError(t, err)
	assert.Equal(t, "Food", food.Name)

	_, err = svc.Create(ctx, CategoryInput{Name: "Food"})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	drinks, err := svc.Create(ctx, CategoryInput{Name: "Drinks"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, drinks.ID, CategoryInput{Name: "Food"})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	renamed, err := svc.Update(ctx, drinks.ID, CategoryInput{Name: "Beverages"})
	require.NoError(t, err)
	assert.Equal(t, "Beverages", renamed.Name)

	_, err = svc.Update(ctx, 9999, CategoryInput{Name: "Snacks"})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.Delete(ctx, renamed.ID))
	_, err = svc.Get(ctx, renamed.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestCategoryDeleteRefusedWhileProductsExist(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCategoryService(db)
	products := NewProductService(db, NewMockImageService())
	ctx := context.Background()

	food := testutil.CreateCategory(t, db, "Food")
	nasi := testutil.CreateProduct(t, db, food.ID, "Nasi Goreng", "25000")

	err := svc.Delete(ctx, food.ID)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	// soft-deleted products still pin the category
	require.NoError(t, products.Delete(ctx, nasi.ID))
	err = svc.Delete(ctx, food.ID)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestProductCreateWithImage(t *testing.T) {
	db := testutil.NewTestDB(t)
	images := NewMockImageService()
	svc := NewProductService(db, images)
	ctx := context.Background()
	food := testutil.CreateCategory(t, db, "Food")

	product, err := svc.Create(ctx, ProductInput{
		Name:       "Nasi Goreng",
		Price:      decimal.RequireFromString("25000.456"),
		CategoryID: food.ID,
	}, testutil.FileHeader(t, "nasi.jpg", []byte("jpeg")))
	require.NoError(t, err)

	assert.Equal(t, "25000.46", product.Price.StringFixed(2))
	require.NotNil(t, product.Category)
	assert.Equal(t, "Food", product.Category.Name)
	require.NotNil(t, product.ImageKey)
	assert.True(t, images.ImageExists(*product.ImageKey))
	require.NotNil(t, product.ImageURL)
	assert.Equal(t, "https://images.test/"+*product.ImageKey, *product.ImageURL)
}

func TestProductCreateValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	images := NewMockImageService()
	svc := NewProductService(db, images)
	ctx := context.Background()
	food := testutil.CreateCategory(t, db, "Food")

	_, err := svc.Create(ctx, ProductInput{Name: "Free", Price: decimal.Zero, CategoryID: food.ID}, nil)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.Create(ctx, ProductInput{Name: "Ghost", Price: decimal.NewFromInt(1000), CategoryID: 777}, nil)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	_, err = svc.Create(ctx, ProductInput{Name: "Doc", Price: decimal.NewFromInt(1000), CategoryID: food.ID},
		testutil.FileHeader(t, "menu.pdf", []byte("%PDF")))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	assert.Zero(t, images.Count())
	assert.Zero(t, testutil.CountRows(t, db, &models.Product{}))
}

func TestProductUpdateReplacesImage(t *testing.T) {
	db := testutil.NewTestDB(t)
	images := NewMockImageService()
	svc := NewProductService(db, images)
	ctx := context.Background()
	food := testutil.CreateCategory(t, db, "Food")
	drinks := testutil.CreateCategory(t, db, "Drinks")

	product, err := svc.Create(ctx, ProductInput{Name: "Teh", Price: decimal.NewFromInt(5000), CategoryID: food.ID},
		testutil.FileHeader(t, "old.png", []byte("old")))
	require.NoError(t, err)
	oldKey := *product.ImageKey

	name := "Es Teh"
	price := decimal.NewFromInt(7000)
	updated, err := svc.Update(ctx, product.ID, ProductUpdate{Name: &name, Price: &price, CategoryID: &drinks.ID},
		testutil.FileHeader(t, "new.png", []byte("new")))
	require.NoError(t, err)

	assert.Equal(t, "Es Teh", updated.Name)
	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, "Drinks", updated.Category.Name)
	assert.False(t, images.ImageExists(oldKey))
	assert.True(t, images.ImageExists(*updated.ImageKey))

	zero := decimal.Zero
	_, err = svc.Update(ctx, product.ID, ProductUpdate{Price: &zero}, nil)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestProductDeleteIsSoft(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewProductService(db, NewMockImageService())
	ctx := context.Background()
	food := testutil.CreateCategory(t, db, "Food")
	nasi := testutil.CreateProduct(t, db, food.ID, "Nasi Goreng", "25000")
	testutil.CreateProduct(t, db, food.ID, "Mie Goreng", "22000")

	require.NoError(t, svc.Delete(ctx, nasi.ID))

	_, err := svc.Get(ctx, nasi.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Product{}).Where("id = ?", nasi.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	list, total, err := svc.List(ctx, &food.ID, repositories.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Mie Goreng", list[0].Name)

	err = svc.Delete(ctx, nasi.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

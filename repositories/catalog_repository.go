package repositories

import (
	"context"
	"errors"

	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/models"
	"gorm.io/gorm"
)

// CatalogStore is the read side of the catalog used by order creation.
type CatalogStore interface {
	FindProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	FindCategoryByID(ctx context.Context, id uint) (*models.Category, error)
}

var _ CatalogStore = (*CatalogRepository)(nil)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// FindProductsByIDs returns the live products among ids. Missing or deleted ids are simply absent.
func (r *CatalogRepository) FindProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *CatalogRepository) FindCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("category not found")
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// CategoryNameTaken reports whether another category already uses name (case-insensitive).
func (r *CatalogRepository) CategoryNameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Category{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return translateWriteError(r.db.WithContext(ctx).Create(category).Error, "category name already exists")
}

func (r *CatalogRepository) SaveCategory(ctx context.Context, category *models.Category) error {
	return translateWriteError(r.db.WithContext(ctx).Save(category).Error, "category name already exists")
}

// CountProductsInCategory counts products referencing the category, deleted ones included.
func (r *CatalogRepository) CountProductsInCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, id).Error
}

func (r *CatalogRepository) ListProducts(ctx context.Context, categoryID *uint, page Pagination) ([]models.Product, int64, error) {
	var (
		products []models.Product
		total    int64
	)
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Category").
		Order("name ASC").Order("id ASC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&products).Error
	return products, total, err
}

func (r *CatalogRepository) FindProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("product not found")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category").Create(product).Error
}

func (r *CatalogRepository) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category").Save(product).Error
}

func (r *CatalogRepository) DeleteProduct(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, id).Error
}

func translateWriteError(err error, conflictMessage string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Wrap(apperrors.KindConflict, conflictMessage, err)
	}
	return err
}

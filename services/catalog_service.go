package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/models"
	"github.com/yeremiapane/pos-app/repositories"
	"github.com/yeremiapane/pos-app/utils"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name string `json:"name" binding:"required,min=3,max=50"`
}

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return repositories.NewCatalogRepository(s.db).ListCategories(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	return repositories.NewCatalogRepository(s.db).FindCategoryByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	category := models.Category{Name: strings.TrimSpace(in.Name)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewCatalogRepository(tx)
		taken, err := repo.CategoryNameTaken(ctx, category.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("category name already exists")
		}
		return repo.CreateCategory(ctx, &category)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	var category *models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewCatalogRepository(tx)
		var err error
		if category, err = repo.FindCategoryByID(ctx, id); err != nil {
			return err
		}
		name := strings.TrimSpace(in.Name)
		taken, err := repo.CategoryNameTaken(ctx, name, id)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("category name already exists")
		}
		category.Name = name
		return repo.SaveCategory(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category. Categories still referenced by products, deleted ones
// included, are kept so historical orders can still be grouped by category.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewCatalogRepository(tx)
		if _, err := repo.FindCategoryByID(ctx, id); err != nil {
			return err
		}
		count, err := repo.CountProductsInCategory(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Conflict("category still has products")
		}
		return repo.DeleteCategory(ctx, id)
	})
}

type ProductInput struct {
	Name        string          `form:"name" json:"name" binding:"required,min=1,max=100"`
	Description string          `form:"description" json:"description" binding:"max=2000"`
	Price       decimal.Decimal `form:"price" json:"price"`
	CategoryID  uint            `form:"categoryId" json:"categoryId" binding:"required,min=1"`
}

type ProductUpdate struct {
	Name        *string          `form:"name" json:"name" binding:"omitempty,min=1,max=100"`
	Description *string          `form:"description" json:"description" binding:"omitempty,max=2000"`
	Price       *decimal.Decimal `form:"price" json:"price"`
	CategoryID  *uint            `form:"categoryId" json:"categoryId" binding:"omitempty,min=1"`
}

type ProductService struct {
	db     *gorm.DB
	images ImageService
}

func NewProductService(db *gorm.DB, images ImageService) *ProductService {
	return &ProductService{db: db, images: images}
}

func (s *ProductService) List(ctx context.Context, categoryID *uint, page repositories.Pagination) ([]models.Product, int64, error) {
	products, total, err := repositories.NewCatalogRepository(s.db).ListProducts(ctx, categoryID, page.Normalize())
	if err != nil {
		return nil, 0, err
	}
	for i := range products {
		products[i].ImageURL = resolveImageURL(ctx, s.images, products[i].ImageKey)
	}
	return products, total, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := repositories.NewCatalogRepository(s.db).FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.ImageURL = resolveImageURL(ctx, s.images, product.ImageKey)
	return product, nil
}

// Create stores the product and its optional image. The image is removed again if the insert fails.
func (s *ProductService) Create(ctx context.Context, in ProductInput, image *multipart.FileHeader) (*models.Product, error) {
	if !in.Price.IsPositive() {
		return nil, apperrors.Validation("price must be greater than 0")
	}
	repo := repositories.NewCatalogRepository(s.db)
	if _, err := repo.FindCategoryByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	product := models.Product{
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price.Round(2),
	}
	if image != nil {
		key, err := s.images.UploadImage(ctx, image, ProductImagePrefix)
		if err != nil {
			return nil, err
		}
		product.ImageKey = &key
	}

	if err := repo.CreateProduct(ctx, &product); err != nil {
		s.discardImage(ctx, product.ImageKey)
		return nil, err
	}
	return s.Get(ctx, product.ID)
}

func (s *ProductService) Update(ctx context.Context, id uint, in ProductUpdate, image *multipart.FileHeader) (*models.Product, error) {
	repo := repositories.NewCatalogRepository(s.db)
	product, err := repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, apperrors.Validation("price must be greater than 0")
		}
		product.Price = in.Price.Round(2)
	}
	if in.CategoryID != nil && *in.CategoryID != product.CategoryID {
		if _, err := repo.FindCategoryByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *in.CategoryID
		product.Category = nil
	}

	oldKey := product.ImageKey
	if image != nil {
		key, err := s.images.UploadImage(ctx, image, ProductImagePrefix)
		if err != nil {
			return nil, err
		}
		product.ImageKey = &key
	}

	if err := repo.SaveProduct(ctx, product); err != nil {
		if image != nil {
			s.discardImage(ctx, product.ImageKey)
		}
		return nil, err
	}
	if image != nil {
		s.discardImage(ctx, oldKey)
	}
	return s.Get(ctx, product.ID)
}

// Delete soft-deletes the product so past orders still resolve it, and drops its image.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	repo := repositories.NewCatalogRepository(s.db)
	product, err := repo.FindProductByID(ctx, id)
	if err != nil {
		return err
	}
	if err := repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.discardImage(ctx, product.ImageKey)
	return nil
}

func (s *ProductService) discardImage(ctx context.Context, key *string) {
	if key == nil || *key == "" {
		return
	}
	if err := s.images.DeleteImage(ctx, *key); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{"key": *key}).WithError(err).Error("failed to delete image")
	}
}

package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeremiapane/pos-app/config"
	"github.com/yeremiapane/pos-app/utils"
)

const (
	ProductImagePrefix = "product_images"
	ProfileImagePrefix = "profile_images"
)

// ImageService stores product and profile images and resolves their public URLs.
type ImageService interface {
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader, prefix string) (string, error)
	GetImageURL(ctx context.Context, key string) (string, error)
	DeleteImage(ctx context.Context, key string) error
}

// NewImageService picks the backend named by IMAGE_STORE.
func NewImageService(ctx context.Context, cfg *config.Config) (ImageService, error) {
	switch cfg.ImageStore {
	case config.ImageStoreS3:
		s3Service, err := NewS3Service(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3ImageService(s3Service), nil
	default:
		return NewLocalImageService(cfg.UploadDir, cfg.PublicBaseURL+"/uploads"), nil
	}
}

type S3ImageService struct {
	s3 S3Interface
}

func NewS3ImageService(s3Service S3Interface) *S3ImageService {
	return &S3ImageService{s3: s3Service}
}

func (s *S3ImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader, prefix string) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}
	key, err := s.s3.UploadFile(ctx, fileHeader, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

func (s *S3ImageService) GetImageURL(ctx context.Context, key string) (string, error) {
	return s.s3.GetPresignedURL(ctx, key)
}

func (s *S3ImageService) DeleteImage(ctx context.Context, key string) error {
	return s.s3.DeleteFile(ctx, key)
}

// LocalImageService keeps images on disk under dir, served by the router at baseURL.
type LocalImageService struct {
	dir     string
	baseURL string
}

func NewLocalImageService(dir, baseURL string) *LocalImageService {
	return &LocalImageService{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader, prefix string) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	key := objectKey(prefix, fileHeader.Filename)
	fullPath := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := dst.ReadFrom(src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return key, nil
}

func (s *LocalImageService) GetImageURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return s.baseURL + "/" + key, nil
}

func (s *LocalImageService) DeleteImage(_ context.Context, key string) error {
	if key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolveImageURL fills a URL pointer from a stored key, logging rather than failing on errors.
func resolveImageURL(ctx context.Context, images ImageService, key *string) *string {
	if images == nil || key == nil || *key == "" {
		return nil
	}
	url, err := images.GetImageURL(ctx, *key)
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("key", *key).Error("failed to resolve image URL")
		return nil
	}
	return &url
}

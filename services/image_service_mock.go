package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/yeremiapane/pos-app/utils"
)

// MockImageService keeps images in memory. Used by tests.
type MockImageService struct {
	mu     sync.RWMutex
	images map[string][]byte
}

func NewMockImageService() *MockImageService {
	return &MockImageService{images: make(map[string][]byte)}
}

func (m *MockImageService) UploadImage(_ context.Context, fileHeader *multipart.FileHeader, prefix string) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("%s/mock_%s", prefix, fileHeader.Filename)
	m.mu.Lock()
	m.images[key] = content
	m.mu.Unlock()
	return key, nil
}

func (m *MockImageService) GetImageURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return "https://images.test/" + key, nil
}

func (m *MockImageService) DeleteImage(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.images, key)
	m.mu.Unlock()
	return nil
}

func (m *MockImageService) ImageExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.images[key]
	return ok
}

func (m *MockImageService) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.images)
}

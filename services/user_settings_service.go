package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SettingsUpdate is a partial update of a user's profile and preferences. Nil fields are kept.
type SettingsUpdate struct {
	Username       *string `form:"username" json:"username" binding:"omitempty,min=3,max=50"`
	Email          *string `form:"email" json:"email" binding:"omitempty,email"`
	Password       *string `form:"password" json:"password" binding:"omitempty,min=7"`
	Status         *string `form:"status" json:"status" binding:"omitempty,oneof=active inactive"`
	Language       *string `form:"language" json:"language" binding:"omitempty,oneof=English Indonesia"`
	PreferenceMode *string `form:"preferenceMode" json:"preferenceMode" binding:"omitempty,oneof=light dark"`
	FontSize       *int    `form:"fontSize" json:"fontSize" binding:"omitempty,min=10,max=24"`
	ZoomDisplay    *int    `form:"zoomDisplay" json:"zoomDisplay" binding:"omitempty,min=50,max=150"`
}

// ApplySettings returns current with the preference fields of upd applied.
func ApplySettings(current models.UserSettings, upd SettingsUpdate) models.UserSettings {
	next := current
	if upd.Language != nil {
		next.Language = *upd.Language
	}
	if upd.PreferenceMode != nil {
		next.PreferenceMode = *upd.PreferenceMode
	}
	if upd.FontSize != nil {
		next.FontSize = *upd.FontSize
	}
	if upd.ZoomDisplay != nil {
		next.ZoomDisplay = *upd.ZoomDisplay
	}
	return next
}

// ApplyProfile returns current with the account fields of upd applied.
// hashedPassword replaces the stored hash when not empty.
func ApplyProfile(current models.User, upd SettingsUpdate, hashedPassword string) models.User {
	next := current
	if upd.Username != nil {
		next.Username = strings.TrimSpace(*upd.Username)
	}
	if upd.Email != nil {
		next.Email = strings.ToLower(strings.TrimSpace(*upd.Email))
	}
	if upd.Status != nil {
		next.Status = *upd.Status
	}
	if hashedPassword != "" {
		next.Password = hashedPassword
	}
	return next
}

type UserSettingsService struct {
	db     *gorm.DB
	images ImageService
	cost   int
}

func NewUserSettingsService(db *gorm.DB, images ImageService) *UserSettingsService {
	return &UserSettingsService{db: db, images: images, cost: bcrypt.DefaultCost}
}

func (s *UserSettingsService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Settings").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	user.ImageURL = resolveImageURL(ctx, s.images, user.ImageKey)
	return &user, nil
}

// Update applies upd and an optional new profile image in one transaction.
func (s *UserSettingsService) Update(ctx context.Context, userID uint, upd SettingsUpdate, image *multipart.FileHeader) (*models.User, error) {
	var hashed string
	if upd.Password != nil && *upd.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), s.cost)
		if err != nil {
			return nil, err
		}
		hashed = string(h)
	}

	var newKey, oldKey *string
	if image != nil {
		key, err := s.images.UploadImage(ctx, image, ProfileImagePrefix)
		if err != nil {
			return nil, err
		}
		newKey = &key
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.First(&user, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user not found")
		}
		if err != nil {
			return err
		}

		next := ApplyProfile(user, upd, hashed)
		var username, email string
		if next.Username != user.Username {
			username = next.Username
		}
		if next.Email != user.Email {
			email = next.Email
		}
		taken, err := identityTaken(tx, username, email, userID)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("username or email already exists")
		}

		if newKey != nil {
			oldKey = user.ImageKey
			next.ImageKey = newKey
		}
		if err := tx.Omit("Settings").Save(&next).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("username or email already exists")
			}
			return err
		}

		var settings models.UserSettings
		err = tx.Where("user_id = ?", userID).Take(&settings).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = models.DefaultUserSettings(userID)
		} else if err != nil {
			return err
		}
		settings = ApplySettings(settings, upd)
		return tx.Save(&settings).Error
	})
	if err != nil {
		if newKey != nil {
			_ = s.images.DeleteImage(ctx, *newKey)
		}
		return nil, err
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.images.DeleteImage(ctx, *oldKey)
	}
	return s.Get(ctx, userID)
}

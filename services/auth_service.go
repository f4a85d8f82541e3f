package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/models"
	"github.com/yeremiapane/pos-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=admin kasir"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *models.User `json:"user"`
}

type AuthService struct {
	db        *gorm.DB
	tokens    *utils.TokenManager
	blacklist *utils.TokenBlacklist
	cost      int
}

func NewAuthService(db *gorm.DB, tokens *utils.TokenManager, blacklist *utils.TokenBlacklist) *AuthService {
	return &AuthService{db: db, tokens: tokens, blacklist: blacklist, cost: bcrypt.DefaultCost}
}

// Register creates a cashier account with default settings. Admins cannot self-register.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Role == models.RoleAdmin {
		return nil, apperrors.Forbidden("cannot register as admin")
	}
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleKasir,
		Status:   models.UserStatusActive,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := identityTaken(tx, username, email, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("username or email already exists")
		}
		if err := tx.Omit("Settings").Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("username or email already exists")
			}
			return err
		}
		settings := models.DefaultUserSettings(user.ID)
		if err := tx.Create(&settings).Error; err != nil {
			return err
		}
		user.Settings = &settings
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return &user, nil
}

// Login checks credentials and issues an access and a refresh token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(in.Username)).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Unauthorized("invalid username or password")
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, apperrors.Unauthorized("invalid username or password")
	}
	if !user.IsActive() {
		return nil, apperrors.Forbidden("account is inactive")
	}

	access, err := s.tokens.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user logged in")
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: &user}, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Settings").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperrors.Unauthorized("refresh token missing")
	}
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil || s.blacklist.IsRevoked(claims.ID) {
		return "", apperrors.Forbidden("refresh token invalid")
	}

	user, err := s.CurrentUser(ctx, claims.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return "", apperrors.Forbidden("refresh token invalid")
		}
		return "", err
	}
	if !user.IsActive() {
		return "", apperrors.Forbidden("account is inactive")
	}
	return s.tokens.GenerateAccessToken(user.ID, user.Username, user.Role)
}

// Logout revokes the refresh token so it cannot mint new access tokens.
func (s *AuthService) Logout(refreshToken string) {
	if refreshToken == "" {
		return
	}
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return
	}
	until := time.Now().Add(s.tokens.RefreshTTL())
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	s.blacklist.Revoke(claims.ID, until)
}

func identityTaken(tx *gorm.DB, username, email string, excludeID uint) (bool, error) {
	if username == "" && email == "" {
		return false, nil
	}
	q := tx.Model(&models.User{})
	switch {
	case username != "" && email != "":
		q = q.Where("(username = ? OR email = ?)", username, email)
	case username != "":
		q = q.Where("username = ?", username)
	default:
		q = q.Where("email = ?", email)
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/models"
	"github.com/yeremiapane/pos-app/testutil"
	"github.com/yeremiapane/pos-app/utils"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*AuthService, *utils.TokenManager) {
	t.Helper()
	db := testutil.NewTestDB(t)
	tokens := utils.NewTokenManager("access", "refresh", 15*time.Minute, time.Hour)
	svc := NewAuthService(db, tokens, utils.NewTokenBlacklist())
	svc.cost = bcrypt.MinCost
	return svc, tokens
}

func TestRegisterCreatesCashierWithSettings(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "kasir01",
		Email:    "Kasir01@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleKasir, user.Role)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.Equal(t, "kasir01@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)
	require.NotNil(t, user.Settings)
	assert.Equal(t, models.LanguageIndonesia, user.Settings.Language)
	assert.Equal(t, 16, user.Settings.FontSize)
}

func TestRegisterRejectsAdminAndDuplicates(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "boss", Email: "boss@example.com", Password: "secret1", Role: models.RoleAdmin})
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = svc.Register(ctx, RegisterInput{Username: "kasir01", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "kasir01", Email: "b@example.com", Password: "secret1"})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	_, err = svc.Register(ctx, RegisterInput{Username: "kasir02", Email: "a@example.com", Password: "secret1"})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestLoginIssuesTokens(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Username: "kasir01", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, LoginInput{Username: "kasir01", Password: "secret1"})
	require.NoError(t, err)

	claims, err := tokens.ParseAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, models.RoleKasir, claims.Role)

	_, err = tokens.ParseRefreshToken(result.RefreshToken)
	assert.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Username: "kasir01", Password: "wrong"})
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	_, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: "secret1"})
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, RegisterInput{Username: "kasir01", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, svc.db.Model(user).Update("status", models.UserStatusInactive).Error)

	_, err = svc.Login(ctx, LoginInput{Username: "kasir01", Password: "secret1"})
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestRefreshAndLogout(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Username: "kasir01", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	login, err := svc.Login(ctx, LoginInput{Username: "kasir01", Password: "secret1"})
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	_, err = tokens.ParseAccessToken(access)
	assert.NoError(t, err)

	_, err = svc.Refresh(ctx, login.AccessToken)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err), "access tokens cannot refresh")

	_, err = svc.Refresh(ctx, "")
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	svc.Logout(login.RefreshToken)
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

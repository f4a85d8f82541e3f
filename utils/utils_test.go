package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/pos-app/apperrors"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "Rp 0"},
		{"700", "Rp 700"},
		{"77700", "Rp 77.700"},
		{"15000.5", "Rp 15.000,50"},
		{"1234567.89", "Rp 1.234.567,89"},
		{"-22300", "Rp -22.300"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRupiah(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestTokenManagerRoundTrip(t *testing.T) {
	m := NewTokenManager("access", "refresh", time.Minute, time.Hour)

	access, err := m.GenerateAccessToken(7, "kasir1", "kasir")
	require.NoError(t, err)

	claims, err := m.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "kasir1", claims.Username)
	assert.Equal(t, "kasir", claims.Role)
	assert.NotEmpty(t, claims.ID)

	_, err = m.ParseRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken, "access token must not pass as a refresh token")
}

func TestTokenManagerExpiry(t *testing.T) {
	m := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	token, err := m.GenerateAccessToken(1, "admin", "admin")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenBlacklist(t *testing.T) {
	b := NewTokenBlacklist()
	b.Revoke("abc", time.Now().Add(time.Hour))
	b.Revoke("old", time.Now().Add(-time.Hour))

	assert.True(t, b.IsRevoked("abc"))
	assert.False(t, b.IsRevoked("old"))
	assert.False(t, b.IsRevoked("other"))
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SilenceLoggers()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", apperrors.NotFound("one or more items not found"), http.StatusNotFound, "one or more items not found"},
		{"insufficient", apperrors.InsufficientPayment("insufficient payment"), http.StatusBadRequest, "insufficient payment"},
		{"integrity", apperrors.DataIntegrity("bad order number", nil), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RespondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
			assert.Contains(t, w.Body.String(), `"status":false`)
		})
	}
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/pos-app/middlewares"
	"github.com/yeremiapane/pos-app/services"
	"github.com/yeremiapane/pos-app/utils"
)

type AuthController struct {
	auth          *services.AuthService
	users         *services.UserSettingsService
	tokens        *utils.TokenManager
	secureCookies bool
}

func NewAuthController(auth *services.AuthService, users *services.UserSettingsService, tokens *utils.TokenManager, secureCookies bool) *AuthController {
	return &AuthController{auth: auth, users: users, tokens: tokens, secureCookies: secureCookies}
}

func (ac *AuthController) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	user, err := ac.auth.Register(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "User registered", user)
}

// Login returns both tokens and also sets them as http-only cookies.
func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	result, err := ac.auth.Login(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	ac.setTokenCookie(c, middlewares.AccessTokenCookie, result.AccessToken, int(ac.tokens.AccessTTL().Seconds()))
	ac.setTokenCookie(c, middlewares.RefreshTokenCookie, result.RefreshToken, int(ac.tokens.RefreshTTL().Seconds()))
	utils.RespondJSON(c, http.StatusOK, "Login successful", result)
}

func (ac *AuthController) Me(c *gin.Context) {
	actor, err := CurrentActor(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	user, err := ac.users.Get(c.Request.Context(), actor.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile retrieved", user)
}

// Refresh takes the refresh token from the body or the refreshToken cookie.
func (ac *AuthController) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(middlewares.RefreshTokenCookie)
	}

	access, err := ac.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ac.setTokenCookie(c, middlewares.AccessTokenCookie, access, int(ac.tokens.AccessTTL().Seconds()))
	utils.RespondJSON(c, http.StatusOK, "Token refreshed", gin.H{"accessToken": access})
}

func (ac *AuthController) Logout(c *gin.Context) {
	if refresh, err := c.Cookie(middlewares.RefreshTokenCookie); err == nil {
		ac.auth.Logout(refresh)
	}
	ac.setTokenCookie(c, middlewares.AccessTokenCookie, "", -1)
	ac.setTokenCookie(c, middlewares.RefreshTokenCookie, "", -1)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (ac *AuthController) setTokenCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", ac.secureCookies, true)
}

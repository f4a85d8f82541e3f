package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/pos-app/services"
	"github.com/yeremiapane/pos-app/utils"
)

type UserSettingsController struct {
	users *services.UserSettingsService
}

func NewUserSettingsController(users *services.UserSettingsService) *UserSettingsController {
	return &UserSettingsController{users: users}
}

func (uc *UserSettingsController) GetSettings(c *gin.Context) {
	actor, err := CurrentActor(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	user, err := uc.users.Get(c.Request.Context(), actor.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User settings", user)
}

// UpdateSettings accepts JSON or a multipart form carrying an optional profile image.
func (uc *UserSettingsController) UpdateSettings(c *gin.Context) {
	actor, err := CurrentActor(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req services.SettingsUpdate
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}
	image, err := optionalImage(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	user, err := uc.users.Update(c.Request.Context(), actor.UserID, req, image)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User settings updated", user)
}

package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/utils"
	"gorm.io/gorm"
)

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

func (hc *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Health reports whether the database answers a ping.
func (hc *HealthController) Health(c *gin.Context) {
	sqlDB, err := hc.db.DB()
	if err != nil {
		utils.RespondError(c, apperrors.Internal("failed to get database instance", err))
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		utils.RespondError(c, apperrors.Internal("database connection failed", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "POS API is running", gin.H{"database": "connected"})
}

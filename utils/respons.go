package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/pos-app/apperrors"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type PageMeta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondPage(c *gin.Context, message string, data interface{}, meta PageMeta) {
	c.JSON(http.StatusOK, JSONResponse{
		Status:  true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// RespondError maps err to its HTTP status. Internal details are logged, never sent.
func RespondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status := kind.StatusCode()

	if !kind.Exposed() {
		ErrorLogger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString("request_id"),
			"kind":       kind.String(),
		}).WithError(err).Error("request failed")
	}

	c.AbortWithStatusJSON(status, JSONResponse{
		Status:  false,
		Message: apperrors.PublicMessage(err),
		Code:    kind.String(),
	})
}

// RespondBindingError reports a request body or query that failed gin binding.
func RespondBindingError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		RespondError(c, err)
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, JSONResponse{
		Status:  false,
		Message: "validation failed",
		Code:    apperrors.KindValidation.String(),
		Data:    gin.H{"details": err.Error()},
	})
}

// TotalPages is ceil(total/limit), zero when there are no items.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

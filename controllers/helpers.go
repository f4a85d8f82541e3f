package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/middlewares"
	"github.com/yeremiapane/pos-app/repositories"
	"github.com/yeremiapane/pos-app/services"
)

// CurrentActor reads the authenticated user that AuthMiddleware put on the context.
func CurrentActor(c *gin.Context) (services.Actor, error) {
	userID := c.GetUint(middlewares.ContextUserID)
	if userID == 0 {
		return services.Actor{}, apperrors.Unauthorized("user id not found in context")
	}
	return services.Actor{
		UserID:   userID,
		Username: c.GetString(middlewares.ContextUsername),
		Role:     c.GetString(middlewares.ContextRole),
	}, nil
}

func idParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid " + name)
	}
	return uint(id), nil
}

func optionalUintQuery(c *gin.Context, name string) (*uint, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, apperrors.Validation(name + " must be a positive integer")
	}
	id := uint(v)
	return &id, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, apperrors.Validation(name + " must be a positive integer")
	}
	return v, nil
}

// paginationQuery reads page and limit; missing values fall back to the defaults.
func paginationQuery(c *gin.Context) (repositories.Pagination, error) {
	page, err := intQuery(c, "page")
	if err != nil {
		return repositories.Pagination{}, err
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		return repositories.Pagination{}, err
	}
	return repositories.Pagination{Page: page, Limit: limit}.Normalize(), nil
}

// optionalImage returns the uploaded image field, or nil when the request carries none.
func optionalImage(c *gin.Context) (*multipart.FileHeader, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, nil
	}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Validation("invalid image upload")
	}
	return fh, nil
}

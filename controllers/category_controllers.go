package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/pos-app/services"
	"github.com/yeremiapane/pos-app/utils"
)

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

func (cc *CategoryController) GetAllCategories(c *gin.Context) {
	categories, err := cc.categories.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

func (cc *CategoryController) GetCategoryByID(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	category, err := cc.categories.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category detail", category)
}

func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req services.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}
	category, err := cc.categories.Create(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req services.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}
	category, err := cc.categories.Update(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := cc.categories.Delete(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", nil)
}

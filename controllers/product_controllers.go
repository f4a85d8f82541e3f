package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/pos-app/services"
	"github.com/yeremiapane/pos-app/utils"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// GetAllProducts pages through products, optionally filtered by categoryId.
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	page, err := paginationQuery(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	categoryID, err := optionalUintQuery(c, "categoryId")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	products, total, err := pc.products.List(c.Request.Context(), categoryID, page)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondPage(c, "List of products", products, utils.PageMeta{
		CurrentPage: page.Page,
		TotalPages:  utils.TotalPages(total, page.Limit),
		TotalItems:  total,
	})
}

func (pc *ProductController) GetProductByID(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	product, err := pc.products.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}

// CreateProduct accepts JSON or a multipart form with an optional image field.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req services.ProductInput
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}
	image, err := optionalImage(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	product, err := pc.products.Create(c.Request.Context(), req, image)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req services.ProductUpdate
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}
	image, err := optionalImage(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	product, err := pc.products.Update(c.Request.Context(), id, req, image)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := pc.products.Delete(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", nil)
}

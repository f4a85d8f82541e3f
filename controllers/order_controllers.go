package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/pos-app/middlewares"
	"github.com/yeremiapane/pos-app/services"
	"github.com/yeremiapane/pos-app/utils"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// CreateOrder checks out a cart for the authenticated cashier.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	actor, err := CurrentActor(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var cart services.Cart
	if err := c.ShouldBindJSON(&cart); err != nil {
		middlewares.RecordOrderOperation("create", false)
		utils.RespondBindingError(c, err)
		return
	}

	order, err := oc.orders.CreateOrder(c.Request.Context(), cart, actor.UserID)
	middlewares.RecordOrderOperation("create", err == nil)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetAllOrders lists orders newest first. Cashiers only see their own.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	actor, err := CurrentActor(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	page, err := paginationQuery(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	orders, total, err := oc.orders.ListOrders(c.Request.Context(), actor, page)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondPage(c, "List of orders", orders, utils.PageMeta{
		CurrentPage: page.Page,
		TotalPages:  utils.TotalPages(total, page.Limit),
		TotalItems:  total,
	})
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	actor, err := CurrentActor(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	order, err := oc.orders.GetOrder(c.Request.Context(), id, actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

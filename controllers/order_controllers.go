package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kasirhub/pos-app/events"
	"github.com/kasirhub/pos-app/services"
	"github.com/kasirhub/pos-app/utils"
)

type OrderController struct {
	DB      *gorm.DB
	service *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db, service: services.NewOrderService(db)}
}

// GetAllOrders -> ?location_id=&status=
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	scope := scopeFromContext(c)

	var locationID *uint
	if raw := c.Query("location_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondServiceError(c, services.InvalidInputf("invalid location_id"))
			return
		}
		v := uint(parsed)
		locationID = &v
	}

	orders, err := oc.service.ListOrders(scope, locationID, c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrder -> buat order dengan seluruh line item dalam satu transaksi
func (oc *OrderController) CreateOrder(c *gin.Context) {
	scope := scopeFromContext(c)

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.service.CreateOrder(scope, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastOrderCreated(order)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> detail 1 order beserta item, modifier, dan pembayaran
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("order_id"))

	order, err := oc.service.GetOrder(scope, uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> pindahkan status order
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	scope := scopeFromContext(c)
	id, _ := strconv.Atoi(c.Param("order_id"))

	var body struct {
		Status     string `json:"status" binding:"required"`
		VoidReason string `json:"void_reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.service.UpdateStatus(scope, uint(id), body.Status, body.VoidReason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastOrderStatus(order)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

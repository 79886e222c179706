package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kasirhub/pos-app/events"
	"github.com/kasirhub/pos-app/models"
	"github.com/kasirhub/pos-app/services"
	"github.com/kasirhub/pos-app/utils"
)

type PaymentController struct {
	DB      *gorm.DB
	service *services.OrderService
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db, service: services.NewOrderService(db)}
}

// ApplyPayment -> catat pembayaran untuk order
func (pc *PaymentController) ApplyPayment(c *gin.Context) {
	scope := scopeFromContext(c)
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var req services.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payment, err := pc.service.ApplyPayment(scope, uint(orderID), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastPaymentApplied(payment)
	utils.RespondJSON(c, http.StatusCreated, "Payment applied", payment)
}

// GetOrderPayments
func (pc *PaymentController) GetOrderPayments(c *gin.Context) {
	scope := scopeFromContext(c)
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var payments []models.Payment
	if err := pc.DB.Where("tenant_id = ? AND order_id = ?", scope.TenantID, orderID).
		Order("created_at asc").Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order payments", payments)
}

// RefundOrder -> refund order yang sudah paid; amount opsional (default full)
func (pc *PaymentController) RefundOrder(c *gin.Context) {
	scope := scopeFromContext(c)
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var body struct {
		Amount *float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := pc.service.Refund(scope, uint(orderID), body.Amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastOrderRefunded(order)
	utils.RespondJSON(c, http.StatusOK, "Order refunded", order)
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guineapos/checkout-service/internal/auth"
	"github.com/guineapos/checkout-service/internal/order"
	"github.com/guineapos/checkout-service/internal/order/dto"
	"github.com/guineapos/checkout-service/pkg/logger"
	"go.uber.org/zap"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/orders", h.List)
	rg.GET("/orders/:id", h.Get)
	rg.POST("/orders/:id/void", h.Void)
}

func (h *OrderHandler) Get(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	o, err := h.uc.GetOrder(c.Request.Context(), merchantID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if o == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) List(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	filters := &dto.OrderFilters{
		MerchantID:    merchantID,
		PointOfSaleID: c.Query("point_of_sale_id"),
		CustomerID:    c.Query("customer_id"),
		Status:        c.Query("status"),
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.To = &t
		}
	}
	filters.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filters.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	orders, count, err := h.uc.ListOrders(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": count})
}

func (h *OrderHandler) Void(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	var operatorID *string
	if op := auth.GetOperatorID(c.Request.Context()); op != "" {
		operatorID = &op
	}

	o, err := h.uc.VoidOrder(c.Request.Context(), merchantID, c.Param("id"), operatorID)
	if err != nil {
		h.logger.Error("failed to void order", zap.String("order_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

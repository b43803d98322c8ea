package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guineapos/checkout-service/internal/auth"
	"github.com/guineapos/checkout-service/internal/checkout"
	"github.com/guineapos/checkout-service/internal/checkout/dto"
	"github.com/guineapos/checkout-service/internal/model"
	"github.com/guineapos/checkout-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	uc     checkout.UseCase
	logger logger.ZapLogger
}

func NewCheckoutHandler(uc checkout.UseCase, log logger.ZapLogger) *CheckoutHandler {
	return &CheckoutHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/checkout/:session/cart", h.GetCart)
	rg.GET("/checkout/:session/totals", h.Totals)
	rg.POST("/checkout/:session/lines", h.AddLine)
	rg.PATCH("/checkout/:session/lines/:product_id/quantity", h.UpdateQuantity)
	rg.PUT("/checkout/:session/lines/:product_id/price", h.SetUnitPrice)
	rg.PUT("/checkout/:session/lines/:product_id/discount", h.SetLineDiscount)
	rg.DELETE("/checkout/:session/lines/:product_id", h.RemoveLine)
	rg.PUT("/checkout/:session/discount", h.SetGlobalDiscount)
	rg.POST("/checkout/:session/clear", h.Clear)
	rg.POST("/checkout/:session/submit", h.Submit)
}

// respondError maps cart and checkout sentinels to HTTP statuses. Unknown
// errors are treated as internal.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrLineNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrStockInsufficient),
		errors.Is(err, model.ErrCheckoutInProgress):
		status = http.StatusConflict
	case errors.Is(err, model.ErrSubmissionFailed):
		status = http.StatusBadGateway
	case errors.Is(err, model.ErrEmptyCart),
		errors.Is(err, model.ErrMissingCustomer),
		errors.Is(err, model.ErrQuantityBelowMinimum),
		errors.Is(err, model.ErrInvalidSaleType),
		errors.Is(err, model.ErrNegativeUnitPrice),
		errors.Is(err, model.ErrInvalidDiscount),
		errors.Is(err, model.ErrClearNotConfirmed):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *CheckoutHandler) merchant(c *gin.Context) (string, bool) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return "", false
	}
	return merchantID, true
}

func (h *CheckoutHandler) GetCart(c *gin.Context) {
	merchantID, ok := h.merchant(c)
	if !ok {
		return
	}

	cart, err := h.uc.GetCart(c.Request.Context(), merchantID, auth.GetPointOfSaleID(c.Request.Context()), c.Param("session"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CheckoutHandler) Totals(c *gin.Context) {
	merchantID, ok := h.merchant(c)
	if !ok {
		return
	}

	totals, err := h.uc.Totals(c.Request.Context(), merchantID, c.Param("session"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

type addLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	SaleType  string `json:"sale_type"`
}

func (h *CheckoutHandler) AddLine(c *gin.Context) {
	merchantID, ok := h.merchant(c)
	if !ok {
		return
	}

	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	cart, err := h.uc.AddLine(c.Request.Context(), &dto.AddLineInput{
		MerchantID:    merchantID,
		PointOfSaleID: auth.GetPointOfSaleID(c.Request.Context()),
		SessionID:     c.Param("session"),
		ProductID:     req.ProductID,
		SaleType:      req.SaleType,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

type quantityRequest struct {
	SaleType string `json:"sale_type"`
	Delta    int    `json:"delta" binding:"required"`
}

func (h *CheckoutHandler) UpdateQuantity(c *gin.Context) {
	merchantID, ok := h.merchant(c)
	if !ok {
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	cart, err := h.uc.UpdateQuantity(c.Request.Context(), &dto.UpdateQuantityInput{
		MerchantID: merchantID,
		SessionID:  c.Param("session"),
		ProductID:  c.Param("product_id"),
		SaleType:   req.SaleType,
		Delta:      req.Delta,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

type priceRequest struct {
	SaleType  string          `json:"sale_type"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (h *CheckoutHandler) SetUnitPrice(c *gin.Context) {
	merchantID, ok := h.merchant(c)
	if !ok {
		return
	}

	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	cart, err := h.uc.SetUnitPrice(c.Request.Context(), &dto.SetUnitPriceInput{
		MerchantID: merchantID,
		SessionID:  c.Param("session"),
		ProductID:  c.Param("product_id"),
		SaleType:   req.SaleType,
		UnitPrice:  req.UnitPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

type lineDiscountRequest struct {
	SaleType string          `json:"sale_type"`
	Percent  decimal.Decimal `json:"percent"`
}

func (h *CheckoutHandler) SetLineDiscount(c *gin.Context) {
	merchantID, ok := h.merchant(c)
	if !ok {
		return
	}

	var req lineDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	cart, err := h.uc.SetLineDiscount(c.Request.Context(), &dto.SetLineDiscountInput{
		MerchantID: merchantID,
		SessionID:  c.Param("session"),
		ProductID:  c.Param("product_id"),
		SaleType:   req.SaleType,
		Percent:    req.Percent,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CheckoutHandler) RemoveLine(c *gin.Context) {
	merchantID, ok := h.merchant(c)
	if !ok {
		return
	}

	saleType := model.SaleType(c.DefaultQuery("sale_type", string(model.SaleTypeRetail)))
	if !saleType.Valid() {
		respondError(c, model.ErrInvalidSaleType)
		return
	}

	cart, err := h.uc.RemoveLine(c.Request.Context(), merchantID, c.Param("session"), c.Param("product_id"), saleType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

type globalDiscountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *CheckoutHandler) SetGlobalDiscount(c *gin.Context) {
	merchantID, ok := h.merchant(c)
	if !ok {
		return
	}

	var req globalDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	cart, err := h.uc.SetGlobalDiscount(c.Request.Context(), merchantID, c.Param("session"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CheckoutHandler) Clear(c *gin.Context) {
	merchantID, ok := h.merchant(c)
	if !ok {
		return
	}

	// The UI's confirmation dialog surfaces as ?confirm=true.
	confirmed := c.Query("confirm") == "true"
	cart, err := h.uc.ClearCart(c.Request.Context(), merchantID, c.Param("session"), func() bool { return confirmed })
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

type submitRequest struct {
	CustomerID    string          `json:"customer_id"`
	PaymentMethod string          `json:"payment_method"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
}

func (h *CheckoutHandler) Submit(c *gin.Context) {
	merchantID, ok := h.merchant(c)
	if !ok {
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	input := &dto.CheckoutInput{
		MerchantID:    merchantID,
		PointOfSaleID: auth.GetPointOfSaleID(c.Request.Context()),
		SessionID:     c.Param("session"),
		CustomerID:    req.CustomerID,
		PaymentMethod: req.PaymentMethod,
		AmountPaid:    req.AmountPaid,
	}
	if operatorID := auth.GetOperatorID(c.Request.Context()); operatorID != "" {
		input.OperatorID = &operatorID
	}

	receipt, err := h.uc.Checkout(c.Request.Context(), input)
	if err != nil {
		h.logger.Warn("checkout rejected",
			zap.String("session_id", input.SessionID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

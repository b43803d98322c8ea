package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guineapos/checkout-service/internal/auth"
	"github.com/guineapos/checkout-service/internal/settings"
	"github.com/guineapos/checkout-service/internal/settings/dto"
	"github.com/guineapos/checkout-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	uc     settings.UseCase
	logger logger.ZapLogger
}

func NewSettingsHandler(uc settings.UseCase, log logger.ZapLogger) *SettingsHandler {
	return &SettingsHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings", h.Get)
	rg.PUT("/settings", h.Update)
}

func (h *SettingsHandler) Get(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	s, err := h.uc.GetSettings(c.Request.Context(), merchantID)
	if err != nil {
		h.logger.Error("failed to load settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}

type settingsRequest struct {
	DefaultSaleType  string          `json:"default_sale_type" binding:"required"`
	TaxEnabled       bool            `json:"tax_enabled"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	Currency         string          `json:"currency"`
	WalkInCustomerID string          `json:"walk_in_customer_id"`
}

func (h *SettingsHandler) Update(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	input := &dto.UpdateSettingsInput{
		MerchantID:      merchantID,
		DefaultSaleType: req.DefaultSaleType,
		TaxEnabled:      req.TaxEnabled,
		TaxRate:         req.TaxRate,
		Currency:        req.Currency,
	}
	if req.WalkInCustomerID != "" {
		input.WalkInCustomerID = &req.WalkInCustomerID
	}

	s, err := h.uc.UpdateSettings(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}

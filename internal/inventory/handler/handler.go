package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guineapos/checkout-service/internal/auth"
	"github.com/guineapos/checkout-service/internal/inventory"
	"github.com/guineapos/checkout-service/internal/inventory/dto"
	"github.com/guineapos/checkout-service/internal/model"
	"github.com/guineapos/checkout-service/pkg/logger"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/inventory/levels", h.ListLevels)
	rg.GET("/inventory/movements", h.ListMovements)
	rg.POST("/inventory/adjustments", h.Adjust)
	rg.PUT("/inventory/reorder-level", h.SetReorderLevel)
}

type adjustRequest struct {
	ProductID      string `json:"product_id" binding:"required"`
	PointOfSaleID  string `json:"point_of_sale_id"`
	QuantityChange int    `json:"quantity_change" binding:"required"`
	MovementType   string `json:"movement_type" binding:"required"`
	ReferenceType  string `json:"reference_type"`
	ReferenceID    string `json:"reference_id"`
	Notes          string `json:"notes"`
}

func (h *InventoryHandler) Adjust(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	input := &dto.AdjustStockInput{
		MerchantID:     merchantID,
		ProductID:      req.ProductID,
		QuantityChange: req.QuantityChange,
		MovementType:   req.MovementType,
		Notes:          req.Notes,
	}
	if req.PointOfSaleID != "" {
		input.PointOfSaleID = &req.PointOfSaleID
	}
	if req.ReferenceType != "" {
		input.ReferenceType = &req.ReferenceType
	}
	if req.ReferenceID != "" {
		input.ReferenceID = &req.ReferenceID
	}
	if operatorID := auth.GetOperatorID(c.Request.Context()); operatorID != "" {
		input.CreatedBy = &operatorID
	}

	level, err := h.uc.AdjustStock(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, model.ErrStockInsufficient) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("stock adjustment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, level)
}

type reorderLevelRequest struct {
	ProductID     string `json:"product_id" binding:"required"`
	PointOfSaleID string `json:"point_of_sale_id"`
	ReorderLevel  int    `json:"reorder_level"`
}

func (h *InventoryHandler) SetReorderLevel(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	var req reorderLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	input := &dto.SetReorderLevelInput{
		MerchantID:   merchantID,
		ProductID:    req.ProductID,
		ReorderLevel: req.ReorderLevel,
	}
	if req.PointOfSaleID != "" {
		input.PointOfSaleID = &req.PointOfSaleID
	}

	if err := h.uc.SetReorderLevel(c.Request.Context(), input); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reorder level updated"})
}

func (h *InventoryHandler) ListLevels(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	filters := &dto.StockLevelFilters{
		MerchantID:   merchantID,
		ProductID:    c.Query("product_id"),
		LowStockOnly: c.Query("low_stock") == "true",
	}
	if v, ok := c.GetQuery("point_of_sale_id"); ok {
		filters.PointOfSaleID = &v
	}
	filters.Page, filters.PageSize = pagination(c)

	levels, count, err := h.uc.ListLevels(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"levels": levels, "total": count})
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	filters := &dto.MovementFilters{
		MerchantID:   merchantID,
		ProductID:    c.Query("product_id"),
		MovementType: c.Query("movement_type"),
	}
	if v, ok := c.GetQuery("point_of_sale_id"); ok {
		filters.PointOfSaleID = &v
	}
	filters.Page, filters.PageSize = pagination(c)

	movements, count, err := h.uc.ListMovements(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": movements, "total": count})
}

func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	return page, pageSize
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guineapos/checkout-service/internal/auth"
	"github.com/guineapos/checkout-service/internal/product"
	"github.com/guineapos/checkout-service/internal/product/dto"
	"github.com/guineapos/checkout-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.List)
	rg.POST("/products", h.Create)
	rg.GET("/products/:id", h.Get)
	rg.PUT("/products/:id", h.Update)
	rg.DELETE("/products/:id", h.Delete)
}

type productRequest struct {
	CategoryID            string          `json:"category_id"`
	SKU                   string          `json:"sku" binding:"required"`
	Barcode               string          `json:"barcode"`
	Name                  string          `json:"name" binding:"required"`
	Description           string          `json:"description"`
	SellingPrice          decimal.Decimal `json:"selling_price" binding:"required"`
	WholesaleSellingPrice decimal.Decimal `json:"wholesale_selling_price"`
	PurchasePrice         decimal.Decimal `json:"purchase_price"`
	IsActive              *bool           `json:"is_active"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	input := &dto.CreateProductInput{
		MerchantID:            merchantID,
		CategoryID:            req.CategoryID,
		SKU:                   req.SKU,
		Barcode:               req.Barcode,
		Name:                  req.Name,
		Description:           req.Description,
		SellingPrice:          req.SellingPrice,
		WholesaleSellingPrice: req.WholesaleSellingPrice,
		PurchasePrice:         req.PurchasePrice,
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Get(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	var posID *string
	if v := auth.GetPointOfSaleID(c.Request.Context()); v != "" {
		posID = &v
	}

	p, err := h.uc.GetProduct(c.Request.Context(), merchantID, c.Param("id"), posID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) List(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	filters := &dto.ProductFilters{
		MerchantID:  merchantID,
		CategoryID:  c.Query("category_id"),
		SearchQuery: c.Query("search"),
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
		Page:        intQuery(c, "page", 1),
		PageSize:    intQuery(c, "page_size", 50),
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		filters.IsActive = &active
	}
	if v := auth.GetPointOfSaleID(c.Request.Context()); v != "" {
		filters.PointOfSaleID = &v
	}

	products, count, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "total": count})
}

func (h *ProductHandler) Update(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	input := &dto.UpdateProductInput{
		ID:                    c.Param("id"),
		MerchantID:            merchantID,
		CategoryID:            req.CategoryID,
		SKU:                   req.SKU,
		Barcode:               req.Barcode,
		Name:                  req.Name,
		Description:           req.Description,
		SellingPrice:          req.SellingPrice,
		WholesaleSellingPrice: req.WholesaleSellingPrice,
		PurchasePrice:         req.PurchasePrice,
		IsActive:              isActive,
	}

	p, err := h.uc.UpdateProduct(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	if err := h.uc.DeleteProduct(c.Request.Context(), merchantID, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}

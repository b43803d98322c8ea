package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guineapos/checkout-service/internal/auth"
	"github.com/guineapos/checkout-service/internal/pos"
	"github.com/guineapos/checkout-service/internal/pos/dto"
	"github.com/guineapos/checkout-service/pkg/logger"
	"go.uber.org/zap"
)

type PosHandler struct {
	uc     pos.UseCase
	logger logger.ZapLogger
}

func NewPosHandler(uc pos.UseCase, log logger.ZapLogger) *PosHandler {
	return &PosHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *PosHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/points-of-sale", h.List)
	rg.POST("/points-of-sale", h.Create)
	rg.GET("/points-of-sale/:id", h.Get)
	rg.PUT("/points-of-sale/:id", h.Update)
	rg.DELETE("/points-of-sale/:id", h.Delete)
}

type posRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	IsActive *bool  `json:"is_active"`
}

func (h *PosHandler) Create(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	var req posRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	input := &dto.CreatePointOfSaleInput{
		MerchantID: merchantID,
		Name:       req.Name,
	}
	if req.Location != "" {
		input.Location = &req.Location
	}

	p, err := h.uc.CreatePointOfSale(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("failed to create point of sale", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PosHandler) Get(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())

	p, err := h.uc.GetPointOfSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if p == nil || p.MerchantID != merchantID {
		c.JSON(http.StatusNotFound, gin.H{"error": "point of sale not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PosHandler) List(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	filters := &dto.PointOfSaleFilters{MerchantID: merchantID}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		filters.IsActive = &active
	}
	filters.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filters.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	points, count, err := h.uc.ListPointsOfSale(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"points_of_sale": points, "total": count})
}

func (h *PosHandler) Update(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	var req posRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	input := &dto.UpdatePointOfSaleInput{
		ID:         c.Param("id"),
		MerchantID: merchantID,
		Name:       req.Name,
		IsActive:   isActive,
	}
	if req.Location != "" {
		input.Location = &req.Location
	}

	p, err := h.uc.UpdatePointOfSale(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PosHandler) Delete(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	if err := h.uc.DeletePointOfSale(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "point of sale deactivated"})
}

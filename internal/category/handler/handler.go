package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guineapos/checkout-service/internal/auth"
	"github.com/guineapos/checkout-service/internal/category"
	"github.com/guineapos/checkout-service/internal/category/dto"
	"github.com/guineapos/checkout-service/pkg/logger"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.List)
	rg.POST("/categories", h.Create)
	rg.GET("/categories/:id", h.Get)
	rg.PUT("/categories/:id", h.Update)
	rg.DELETE("/categories/:id", h.Delete)
}

type categoryRequest struct {
	ParentID    string `json:"parent_id"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	input := &dto.CreateCategoryInput{
		MerchantID:  merchantID,
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}
	if req.ParentID != "" {
		input.ParentID = &req.ParentID
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("failed to create category", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())

	cat, err := h.uc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// Strict multi-tenancy: a foreign category is indistinguishable from a
	// missing one.
	if cat == nil || cat.MerchantID != merchantID {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}

	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) List(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	filters := &dto.CategoryFilters{
		MerchantID: merchantID,
	}
	if v, ok := c.GetQuery("parent_id"); ok {
		filters.ParentID = &v
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		filters.IsActive = &active
	}
	if v := c.Query("page"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			filters.Page = i
		}
	}
	if v := c.Query("page_size"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			filters.PageSize = i
		}
	}

	cats, count, err := h.uc.ListCategories(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": cats, "total": count})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	input := &dto.UpdateCategoryInput{
		ID:          c.Param("id"),
		MerchantID:  merchantID,
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    isActive,
	}
	if req.ParentID != "" {
		input.ParentID = &req.ParentID
	}

	cat, err := h.uc.UpdateCategory(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	if err := h.uc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}

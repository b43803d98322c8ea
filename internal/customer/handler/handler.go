package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guineapos/checkout-service/internal/auth"
	"github.com/guineapos/checkout-service/internal/customer"
	"github.com/guineapos/checkout-service/internal/customer/dto"
	"github.com/guineapos/checkout-service/pkg/logger"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	uc     customer.UseCase
	logger logger.ZapLogger
}

func NewCustomerHandler(uc customer.UseCase, log logger.ZapLogger) *CustomerHandler {
	return &CustomerHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/customers", h.List)
	rg.POST("/customers", h.Create)
	rg.GET("/customers/:id", h.Get)
	rg.PUT("/customers/:id", h.Update)
	rg.DELETE("/customers/:id", h.Delete)
}

type customerRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	IsActive *bool  `json:"is_active"`
}

func (h *CustomerHandler) Create(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	input := &dto.CreateCustomerInput{
		MerchantID: merchantID,
		Name:       req.Name,
	}
	if req.Phone != "" {
		input.Phone = &req.Phone
	}

	cust, err := h.uc.CreateCustomer(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("failed to create customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cust)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())

	cust, err := h.uc.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if cust == nil || cust.MerchantID != merchantID {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) List(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	filters := &dto.CustomerFilters{
		MerchantID: merchantID,
		Search:     c.Query("search"),
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		filters.IsActive = &active
	}
	filters.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filters.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	customers, count, err := h.uc.ListCustomers(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "total": count})
}

func (h *CustomerHandler) Update(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	input := &dto.UpdateCustomerInput{
		ID:         c.Param("id"),
		MerchantID: merchantID,
		Name:       req.Name,
		IsActive:   isActive,
	}
	if req.Phone != "" {
		input.Phone = &req.Phone
	}

	cust, err := h.uc.UpdateCustomer(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	merchantID := auth.GetMerchantID(c.Request.Context())
	if merchantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing merchant context"})
		return
	}

	if err := h.uc.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "customer deactivated"})
}

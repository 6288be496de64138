package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"printease-system/internal/database/models"
	"printease-system/internal/pricing"
)

const (
	CATALOG_CACHE_PREFIX   = "catalog:"
	SERVICE_LIST_CACHE_KEY = "catalog:services:active"
	CACHE_TTL_SHORT        = 5 * time.Minute
	CACHE_TTL_MEDIUM       = 30 * time.Minute
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

type CatalogHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewCatalogHandler(db *gorm.DB, redisClient *redis.Client) *CatalogHandler {
	return &CatalogHandler{
		db:    db,
		redis: redisClient,
	}
}

func (h *CatalogHandler) InvalidateCatalogCaches(ctx context.Context, serviceIDs ...int64) {
	_ = h.redis.Del(ctx, SERVICE_LIST_CACHE_KEY)
	for _, id := range serviceIDs {
		cacheKey := fmt.Sprintf("%s%d", CATALOG_CACHE_PREFIX, id)
		_ = h.redis.Del(ctx, cacheKey)
	}
}

// --- Requests ---

type CreateServiceRequest struct {
	Name             string                   `json:"name" binding:"required"`
	Description      string                   `json:"description"`
	BasePricePerPage string                   `json:"base_price_per_page" binding:"required"`
	CustomQuotation  bool                     `json:"custom_quotation"`
	Status           string                   `json:"status"`
	PrintTypes       models.OptionList        `json:"print_types"`
	PaperSizes       models.OptionList        `json:"paper_sizes"`
	PaperTypes       models.OptionList        `json:"paper_types"`
	GSMOptions       models.OptionList        `json:"gsm_options"`
	PrintSides       models.OptionList        `json:"print_sides"`
	BindingOptions   models.BindingOptionList `json:"binding_options"`
}

type UpdateServiceRequest struct {
	Name             *string                   `json:"name,omitempty"`
	Description      *string                   `json:"description,omitempty"`
	BasePricePerPage *string                   `json:"base_price_per_page,omitempty"`
	CustomQuotation  *bool                     `json:"custom_quotation,omitempty"`
	Status           *string                   `json:"status,omitempty"`
	PrintTypes       *models.OptionList        `json:"print_types,omitempty"`
	PaperSizes       *models.OptionList        `json:"paper_sizes,omitempty"`
	PaperTypes       *models.OptionList        `json:"paper_types,omitempty"`
	GSMOptions       *models.OptionList        `json:"gsm_options,omitempty"`
	PrintSides       *models.OptionList        `json:"print_sides,omitempty"`
	BindingOptions   *models.BindingOptionList `json:"binding_options,omitempty"`
}

const defaultServicePageSize = 20

type ListServicesQuery struct {
	Page            int   `form:"page,default=1"`
	PageSize        int   `form:"page_size,default=20"`
	ActiveOnly      bool  `form:"active_only,default=false"`
	CustomQuotation *bool `form:"custom_quotation,omitempty"`
}

// usesListCache restricts the list cache to the exact storefront query shape.
// The cache holds one payload, so any parameter that changes the result set,
// page size included, must bypass it.
func (q ListServicesQuery) usesListCache() bool {
	return q.ActiveOnly && q.CustomQuotation == nil && q.Page == 1 && q.PageSize == defaultServicePageSize
}

// cachedServiceList carries the total alongside the page so cache hits and
// misses answer with identical pagination meta.
type cachedServiceList struct {
	Services []models.Service `json:"services"`
	Total    int64            `json:"total"`
}

// PageCount is a pointer so a zero page count binds; a per-copy-only job
// prices fine at zero pages.
type QuoteRequest struct {
	Configuration models.Configuration `json:"configuration" binding:"required"`
	PageCount     *int                 `json:"page_count" binding:"required,min=0"`
}

// --- Validation ---

// parseAmount accepts empty as zero; anything else must be a non-negative
// decimal.
func parseAmount(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal amount", field)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", field)
	}
	return d, nil
}

// validateOptionList enforces the single-pricing-mode rule: an option must
// never carry both a positive per-page and a positive per-copy price.
func validateOptionList(category string, options models.OptionList) error {
	seen := make(map[string]bool)
	for _, opt := range options {
		if opt.Value == "" {
			return fmt.Errorf("%s option is missing a value", category)
		}
		if seen[opt.Value] {
			return fmt.Errorf("%s option %q is duplicated", category, opt.Value)
		}
		seen[opt.Value] = true

		perPage, err := parseAmount(category+" price_per_page", opt.PricePerPage)
		if err != nil {
			return err
		}
		perCopy, err := parseAmount(category+" price_per_copy", opt.PricePerCopy)
		if err != nil {
			return err
		}
		if perPage.IsPositive() && perCopy.IsPositive() {
			return fmt.Errorf("%s option %q sets both per-page and per-copy prices", category, opt.Value)
		}
	}
	return nil
}

func validateBindingOptions(options models.BindingOptionList) error {
	plain := make(models.OptionList, 0, len(options))
	for _, opt := range options {
		plain = append(plain, opt.PricingOption)
	}
	if err := validateOptionList("binding", plain); err != nil {
		return err
	}
	for _, opt := range options {
		if opt.MinPages < 0 {
			return fmt.Errorf("binding option %q has a negative min_pages", opt.Value)
		}
		if _, err := parseAmount("binding fixed_price", opt.FixedPrice); err != nil {
			return err
		}
		for _, r := range opt.PriceRanges {
			if _, err := parseAmount("binding range price", r.Price); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateServicePayload(service *models.Service) error {
	base, err := parseAmount("base_price_per_page", service.BasePricePerPage)
	if err != nil {
		return err
	}
	service.BasePricePerPage = base.StringFixed(2)

	if service.Status != models.ServiceStatusActive && service.Status != models.ServiceStatusInactive {
		return fmt.Errorf("status must be %q or %q", models.ServiceStatusActive, models.ServiceStatusInactive)
	}

	lists := []struct {
		category string
		options  models.OptionList
	}{
		{"print_type", service.PrintTypes},
		{"paper_size", service.PaperSizes},
		{"paper_type", service.PaperTypes},
		{"gsm", service.GSMOptions},
		{"print_side", service.PrintSides},
	}
	for _, l := range lists {
		if err := validateOptionList(l.category, l.options); err != nil {
			return err
		}
	}
	return validateBindingOptions(service.BindingOptions)
}

// --- Public endpoints ---

func (h *CatalogHandler) ListServices(c *gin.Context) {
	var query ListServicesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx := c.Request.Context()

	// The storefront listing (active-only, unfiltered) is the hot path.
	cacheable := query.usesListCache()
	if cacheable {
		if cached, err := h.redis.Get(ctx, SERVICE_LIST_CACHE_KEY).Result(); err == nil {
			var entry cachedServiceList
			if json.Unmarshal([]byte(cached), &entry) == nil {
				c.JSON(http.StatusOK, successWithMetaResponse("Services retrieved successfully", entry.Services, gin.H{
					"total":     entry.Total,
					"page":      1,
					"page_size": defaultServicePageSize,
				}))
				return
			}
		}
	}

	dbQuery := h.db.Model(&models.Service{})
	if query.ActiveOnly {
		dbQuery = dbQuery.Where("status = ?", models.ServiceStatusActive)
	}
	if query.CustomQuotation != nil {
		dbQuery = dbQuery.Where("custom_quotation = ?", *query.CustomQuotation)
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = defaultServicePageSize
	}
	pageNumber := query.Page
	if pageNumber <= 0 {
		pageNumber = 1
	}
	offset := (pageNumber - 1) * pageSize

	var services []models.Service
	if err := dbQuery.Order("id asc").Offset(offset).Limit(pageSize).Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	if cacheable {
		if payload, err := json.Marshal(cachedServiceList{Services: services, Total: total}); err == nil {
			_ = h.redis.Set(ctx, SERVICE_LIST_CACHE_KEY, payload, CACHE_TTL_MEDIUM).Err()
		}
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Services retrieved successfully", services, gin.H{
		"total":     total,
		"page":      pageNumber,
		"page_size": pageSize,
	}))
}

func (h *CatalogHandler) GetService(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid service ID"))
		return
	}

	ctx := c.Request.Context()
	cacheKey := fmt.Sprintf("%s%d", CATALOG_CACHE_PREFIX, serviceID)
	if cached, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var service models.Service
		if json.Unmarshal([]byte(cached), &service) == nil {
			c.JSON(http.StatusOK, successResponse("Service retrieved successfully", service))
			return
		}
	}

	var service models.Service
	if err := h.db.Where("id = ?", serviceID).First(&service).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Service not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	if payload, err := json.Marshal(service); err == nil {
		_ = h.redis.Set(ctx, cacheKey, payload, CACHE_TTL_MEDIUM).Err()
	}

	c.JSON(http.StatusOK, successResponse("Service retrieved successfully", service))
}

// GetBindingOptions returns the binding tiers unlocked at the given page
// count. An empty list is a legitimate answer the storefront must surface,
// not substitute.
func (h *CatalogHandler) GetBindingOptions(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid service ID"))
		return
	}
	pageCount, err := strconv.Atoi(c.DefaultQuery("page_count", "0"))
	if err != nil || pageCount < 0 {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid page_count"))
		return
	}

	var service models.Service
	if err := h.db.Where("id = ?", serviceID).First(&service).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Service not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	available := pricing.AvailableBindingOptions(pricing.ServiceFromModel(service), pageCount)
	result := make([]models.BindingOption, 0, len(available))
	for _, opt := range available {
		result = append(result, pricing.BindingToModel(opt))
	}

	message := "Binding options retrieved successfully"
	if len(result) == 0 {
		message = "No binding options are available at this page count"
	}
	c.JSON(http.StatusOK, successResponse(message, result))
}

// Quote prices a configuration against a service without creating anything.
// The storefront calculator calls this on every change.
func (h *CatalogHandler) Quote(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid service ID"))
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request payload"))
		return
	}
	if req.Configuration.Copies < 1 {
		c.JSON(http.StatusBadRequest, errorResponse("copies must be at least 1"))
		return
	}

	var service models.Service
	if err := h.db.Where("id = ? AND status = ?", serviceID, models.ServiceStatusActive).First(&service).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Service not found or inactive"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}
	if service.CustomQuotation {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("This service is quoted manually; submit a quotation request instead"))
		return
	}

	engineService := pricing.ServiceFromModel(service)
	config := pricing.ConfigurationFromModel(req.Configuration)
	pageCount := *req.PageCount

	if invalid := pricing.InvalidFields(engineService, config, pageCount); len(invalid) > 0 {
		c.JSON(http.StatusUnprocessableEntity, errorResponse(fmt.Sprintf("Invalid configuration fields: %v", invalid)))
		return
	}

	breakdown := pricing.CalculateItemPricing(engineService, config, pageCount)
	c.JSON(http.StatusOK, successResponse("Quote calculated successfully", breakdown.Snapshot()))
}

// --- Admin endpoints ---

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request payload"))
		return
	}

	status := req.Status
	if status == "" {
		status = models.ServiceStatusActive
	}

	service := models.Service{
		Name:             req.Name,
		Description:      req.Description,
		BasePricePerPage: req.BasePricePerPage,
		CustomQuotation:  req.CustomQuotation,
		Status:           status,
		PrintTypes:       req.PrintTypes,
		PaperSizes:       req.PaperSizes,
		PaperTypes:       req.PaperTypes,
		GSMOptions:       req.GSMOptions,
		PrintSides:       req.PrintSides,
		BindingOptions:   req.BindingOptions,
	}

	if err := validateServicePayload(&service); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err.Error()))
		return
	}

	if err := h.db.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create service: "+err.Error()))
		return
	}

	h.InvalidateCatalogCaches(c.Request.Context(), service.ID)
	c.JSON(http.StatusCreated, successResponse("Service created successfully", service))
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid service ID"))
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request payload"))
		return
	}

	var service models.Service
	if err := h.db.Where("id = ?", serviceID).First(&service).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Service not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.BasePricePerPage != nil {
		service.BasePricePerPage = *req.BasePricePerPage
	}
	if req.CustomQuotation != nil {
		service.CustomQuotation = *req.CustomQuotation
	}
	if req.Status != nil {
		service.Status = *req.Status
	}
	if req.PrintTypes != nil {
		service.PrintTypes = *req.PrintTypes
	}
	if req.PaperSizes != nil {
		service.PaperSizes = *req.PaperSizes
	}
	if req.PaperTypes != nil {
		service.PaperTypes = *req.PaperTypes
	}
	if req.GSMOptions != nil {
		service.GSMOptions = *req.GSMOptions
	}
	if req.PrintSides != nil {
		service.PrintSides = *req.PrintSides
	}
	if req.BindingOptions != nil {
		service.BindingOptions = *req.BindingOptions
	}

	if err := validateServicePayload(&service); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err.Error()))
		return
	}

	if err := h.db.Save(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to update service: "+err.Error()))
		return
	}

	h.InvalidateCatalogCaches(c.Request.Context(), service.ID)
	c.JSON(http.StatusOK, successResponse("Service updated successfully", service))
}

// DeleteService deactivates rather than removes: historical orders keep
// referencing the service id.
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid service ID"))
		return
	}

	var service models.Service
	if err := h.db.Where("id = ?", serviceID).First(&service).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Service not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	service.Status = models.ServiceStatusInactive
	if err := h.db.Save(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to deactivate service: "+err.Error()))
		return
	}

	h.InvalidateCatalogCaches(c.Request.Context(), service.ID)
	c.JSON(http.StatusOK, successResponse("Service deactivated successfully", service))
}

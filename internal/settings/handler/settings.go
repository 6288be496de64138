package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"printease-system/internal/database/models"
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

type SettingsHandler struct {
	db *gorm.DB
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

type CreateFeeTierRequest struct {
	Kind      string `json:"kind" binding:"required"`
	MinAmount string `json:"min_amount" binding:"required"`
	Fee       string `json:"fee" binding:"required"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

type UpdateFeeTierRequest struct {
	MinAmount *string `json:"min_amount,omitempty"`
	Fee       *string `json:"fee,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func validFeeAmount(value string) bool {
	d, err := decimal.NewFromString(value)
	return err == nil && !d.IsNegative()
}

func (h *SettingsHandler) ListFeeTiers(c *gin.Context) {
	query := h.db.Model(&models.FeeTier{})
	if kind := c.Query("kind"); kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var tiers []models.FeeTier
	if err := query.Order("kind asc, min_amount asc").Find(&tiers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Fee tiers retrieved successfully", tiers))
}

func (h *SettingsHandler) CreateFeeTier(c *gin.Context) {
	var req CreateFeeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request payload"))
		return
	}
	if req.Kind != models.FeeKindDelivery && req.Kind != models.FeeKindPacking {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("kind must be delivery or packing"))
		return
	}
	if !validFeeAmount(req.MinAmount) || !validFeeAmount(req.Fee) {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("min_amount and fee must be non-negative decimal amounts"))
		return
	}

	tier := models.FeeTier{
		Kind:      req.Kind,
		MinAmount: req.MinAmount,
		Fee:       req.Fee,
		IsActive:  true,
	}
	if req.IsActive != nil {
		tier.IsActive = *req.IsActive
	}

	if err := h.db.Create(&tier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create fee tier: "+err.Error()))
		return
	}
	c.JSON(http.StatusCreated, successResponse("Fee tier created successfully", tier))
}

func (h *SettingsHandler) UpdateFeeTier(c *gin.Context) {
	tierID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid fee tier ID"))
		return
	}

	var req UpdateFeeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request payload"))
		return
	}

	var tier models.FeeTier
	if err := h.db.Where("id = ?", tierID).First(&tier).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Fee tier not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	if req.MinAmount != nil {
		if !validFeeAmount(*req.MinAmount) {
			c.JSON(http.StatusUnprocessableEntity, errorResponse("min_amount must be a non-negative decimal amount"))
			return
		}
		tier.MinAmount = *req.MinAmount
	}
	if req.Fee != nil {
		if !validFeeAmount(*req.Fee) {
			c.JSON(http.StatusUnprocessableEntity, errorResponse("fee must be a non-negative decimal amount"))
			return
		}
		tier.Fee = *req.Fee
	}
	if req.IsActive != nil {
		tier.IsActive = *req.IsActive
	}

	if err := h.db.Save(&tier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to update fee tier: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, successResponse("Fee tier updated successfully", tier))
}

func (h *SettingsHandler) DeleteFeeTier(c *gin.Context) {
	tierID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid fee tier ID"))
		return
	}

	result := h.db.Where("id = ?", tierID).Delete(&models.FeeTier{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to delete fee tier: "+result.Error.Error()))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, errorResponse("Fee tier not found"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Fee tier deleted successfully", nil))
}

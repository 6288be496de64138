package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
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

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

type LeadsHandler struct {
	db *gorm.DB
}

func NewLeadsHandler(db *gorm.DB) *LeadsHandler {
	return &LeadsHandler{db: db}
}

type CreateLeadRequest struct {
	ServiceID int64  `json:"service_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Message   string `json:"message"`
}

type ListLeadsQuery struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
	Status   string `form:"status"`
}

type UpdateLeadStatusRequest struct {
	Status     string  `json:"status" binding:"required"`
	AdminNotes *string `json:"admin_notes,omitempty"`
}

// CreateLead captures a quotation request for a manually quoted service.
func (h *LeadsHandler) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request payload"))
		return
	}

	var service models.Service
	if err := h.db.Where("id = ? AND status = ?", req.ServiceID, models.ServiceStatusActive).First(&service).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnprocessableEntity, errorResponse("Service not found or inactive"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}
	if !service.CustomQuotation {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("This service is priced automatically; place an order instead"))
		return
	}

	lead := models.QuotationLead{
		ServiceID:   service.ID,
		ServiceName: service.Name,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Message:     req.Message,
		Status:      models.LeadStatusNew,
	}
	if err := h.db.Create(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to submit quotation request: "+err.Error()))
		return
	}
	c.JSON(http.StatusCreated, successResponse("Quotation request submitted successfully", lead))
}

func (h *LeadsHandler) ListLeads(c *gin.Context) {
	var query ListLeadsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	dbQuery := h.db.Model(&models.QuotationLead{})
	if query.Status != "" {
		dbQuery = dbQuery.Where("status = ?", query.Status)
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	pageNumber := query.Page
	if pageNumber <= 0 {
		pageNumber = 1
	}

	var leads []models.QuotationLead
	if err := dbQuery.Order("created_at desc").
		Offset((pageNumber - 1) * pageSize).
		Limit(pageSize).
		Find(&leads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Leads retrieved successfully", leads, gin.H{
		"total":     total,
		"page":      pageNumber,
		"page_size": pageSize,
	}))
}

func (h *LeadsHandler) UpdateLeadStatus(c *gin.Context) {
	leadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid lead ID"))
		return
	}

	var req UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request payload"))
		return
	}

	var lead models.QuotationLead
	if err := h.db.Where("id = ?", leadID).First(&lead).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Lead not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	if !models.CanTransitionLeadStatus(lead.Status, req.Status) {
		c.JSON(http.StatusUnprocessableEntity, errorResponse(
			fmt.Sprintf("Cannot transition lead from %s to %s", lead.Status, req.Status)))
		return
	}

	lead.Status = req.Status
	if req.AdminNotes != nil {
		lead.AdminNotes = req.AdminNotes
	}
	if err := h.db.Save(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to update lead: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, successResponse("Lead updated successfully", lead))
}

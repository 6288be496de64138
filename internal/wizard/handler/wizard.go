package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"printease-system/internal/database/models"
	"printease-system/internal/files"
	"printease-system/internal/pricing"
	"printease-system/internal/settings"
	"printease-system/internal/wizard"
)

const detectionTimeout = 2 * time.Minute

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

type WizardHandler struct {
	db      *gorm.DB
	store   *wizard.Store
	counter files.PageCounter
}

func NewWizardHandler(db *gorm.DB, store *wizard.Store, counter files.PageCounter) *WizardHandler {
	return &WizardHandler{
		db:      db,
		store:   store,
		counter: counter,
	}
}

// --- Requests and views ---

type AddItemRequest struct {
	ServiceID int64  `json:"service_id" binding:"required"`
	FileName  string `json:"file_name" binding:"required"`
	FileURL   string `json:"file_url" binding:"required"`
	MimeType  string `json:"mime_type"`
}

type BackRequest struct {
	To string `json:"to" binding:"required"`
}

type itemView struct {
	ID          string `json:"id"`
	ServiceID   int64  `json:"service_id"`
	ServiceName string `json:"service_name"`

	FileName   string `json:"file_name"`
	FileStatus string `json:"file_status"`
	FileError  string `json:"file_error,omitempty"`
	PageCount  int    `json:"page_count"`

	Configuration     models.Configuration   `json:"configuration"`
	Pricing           models.PricingSnapshot `json:"pricing"`
	AvailableBindings []models.BindingOption `json:"available_bindings"`
}

type sessionView struct {
	ID       string     `json:"id"`
	Step     string     `json:"step"`
	Items    []itemView `json:"items"`
	Subtotal string     `json:"subtotal"`
}

func viewItem(item wizard.Item) itemView {
	bindings := make([]models.BindingOption, 0, len(item.AvailableBindings))
	for _, b := range item.AvailableBindings {
		bindings = append(bindings, pricing.BindingToModel(b))
	}
	return itemView{
		ID:                item.ID,
		ServiceID:         item.ServiceID,
		ServiceName:       item.ServiceName,
		FileName:          item.FileName,
		FileStatus:        item.FileStatus,
		FileError:         item.FileError,
		PageCount:         item.PageCount,
		Configuration:     pricing.ConfigurationToModel(item.Configuration),
		Pricing:           item.Pricing.Snapshot(),
		AvailableBindings: bindings,
	}
}

func viewSession(session *wizard.Session) sessionView {
	items := session.Items()
	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, viewItem(item))
	}
	return sessionView{
		ID:       session.ID,
		Step:     session.CurrentStep(),
		Items:    views,
		Subtotal: session.Subtotal().StringFixed(2),
	}
}

// --- Endpoints ---

func (h *WizardHandler) CreateSession(c *gin.Context) {
	session := h.store.Create()
	c.JSON(http.StatusCreated, successResponse("Wizard session created", viewSession(session)))
}

func (h *WizardHandler) GetSession(c *gin.Context) {
	session, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse("Session not found or expired"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Session retrieved successfully", viewSession(session)))
}

func (h *WizardHandler) DeleteSession(c *gin.Context) {
	h.store.Delete(c.Param("id"))
	c.JSON(http.StatusOK, successResponse("Session discarded", nil))
}

// AddItem registers an uploaded file and kicks off page-count detection in
// the background. The response carries the item in processing state; the
// client polls the session until detection settles.
func (h *WizardHandler) AddItem(c *gin.Context) {
	session, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse("Session not found or expired"))
		return
	}

	var req AddItemRequest
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
	if service.CustomQuotation {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("This service is quoted manually; submit a quotation request instead"))
		return
	}

	itemID := session.AddItem(service, req.FileName, req.FileURL, nil)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), detectionTimeout)
		defer cancel()

		pageCount, err := h.counter.CountPages(ctx, req.FileURL, req.MimeType)
		if !session.CompleteDetection(itemID, pageCount, err) {
			// Item was removed while detection was in flight.
			log.Printf("wizard: dropped detection result for removed item %s", itemID)
		}
	}()

	c.JSON(http.StatusAccepted, successResponse("File added; page count detection in progress", viewSession(session)))
}

func (h *WizardHandler) ConfigureItem(c *gin.Context) {
	session, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse("Session not found or expired"))
		return
	}

	var config models.Configuration
	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request payload"))
		return
	}

	item, err := session.Configure(c.Param("itemID"), pricing.ConfigurationFromModel(config))
	if err != nil {
		if err == wizard.ErrItemNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Item not found in session"))
			return
		}
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, successResponse("Item configured successfully", viewItem(item)))
}

func (h *WizardHandler) RemoveItem(c *gin.Context) {
	session, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse("Session not found or expired"))
		return
	}
	if !session.RemoveItem(c.Param("itemID")) {
		c.JSON(http.StatusNotFound, errorResponse("Item not found in session"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Item removed successfully", viewSession(session)))
}

func (h *WizardHandler) Advance(c *gin.Context) {
	session, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse("Session not found or expired"))
		return
	}
	if err := session.Advance(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, successResponse("Moved to next step", viewSession(session)))
}

func (h *WizardHandler) Back(c *gin.Context) {
	session, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse("Session not found or expired"))
		return
	}

	var req BackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request payload"))
		return
	}
	if err := session.Back(req.To); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, successResponse("Returned to earlier step", viewSession(session)))
}

// Summary prices the whole session including delivery and packing fees, the
// figures the review step shows before submission.
func (h *WizardHandler) Summary(c *gin.Context) {
	session, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse("Session not found or expired"))
		return
	}

	subtotal := session.Subtotal()
	deliveryFee, packingFee, err := settings.OrderFees(h.db, subtotal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to resolve fees"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Summary calculated successfully", gin.H{
		"session":      viewSession(session),
		"subtotal":     subtotal.StringFixed(2),
		"delivery_fee": deliveryFee.StringFixed(2),
		"packing_fee":  packingFee.StringFixed(2),
		"total":        subtotal.Add(deliveryFee).Add(packingFee).StringFixed(2),
	}))
}

package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"printease-system/internal/database/models"
	"printease-system/internal/payments"
	"printease-system/internal/pricing"
	"printease-system/internal/settings"
)

// priceTolerance bounds the accepted drift between the client's displayed
// subtotal and the server's recomputation. Anything larger is rejected.
var priceTolerance = decimal.NewFromFloat(0.01)

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

type OrdersHandler struct {
	db      *gorm.DB
	redis   *redis.Client
	gateway payments.Gateway
}

func NewOrdersHandler(db *gorm.DB, redisClient *redis.Client, gateway payments.Gateway) *OrdersHandler {
	return &OrdersHandler{
		db:      db,
		redis:   redisClient,
		gateway: gateway,
	}
}

// --- Requests ---

type OrderItemRequest struct {
	ServiceID     int64                `json:"service_id" binding:"required"`
	FileName      string               `json:"file_name" binding:"required"`
	FileURL       string               `json:"file_url" binding:"required"`
	PageCount     int                  `json:"page_count" binding:"required,min=1"`
	Configuration models.Configuration `json:"configuration" binding:"required"`
	// QuotedSubtotal is the amount the customer saw at review time.
	QuotedSubtotal string `json:"quoted_subtotal" binding:"required"`
}

type CreateOrderRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerPhone string `json:"customer_phone" binding:"required"`

	DeliveryAddress string `json:"delivery_address" binding:"required"`
	DeliveryCity    string `json:"delivery_city" binding:"required"`
	DeliveryState   string `json:"delivery_state" binding:"required"`
	DeliveryPincode string `json:"delivery_pincode" binding:"required"`

	Notes *string `json:"notes,omitempty"`

	Items []OrderItemRequest `json:"items" binding:"required,min=1"`
}

type ListOrdersQuery struct {
	Page          int    `form:"page,default=1"`
	PageSize      int    `form:"page_size,default=20"`
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
}

type UpdateOrderStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes,omitempty"`
}

type VerifyPaymentRequest struct {
	PaymentOrderID string `json:"payment_order_id" binding:"required"`
	PaymentID      string `json:"payment_id" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
}

// --- Submission ---

// CreateOrder re-prices every item against the current catalog and rejects
// the submission when the recomputed subtotal drifts from what the customer
// saw. The client's numbers are display values, never the source of truth.
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request payload"))
		return
	}

	ctx := c.Request.Context()
	orderSubtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Items))

	for i, itemReq := range req.Items {
		if itemReq.Configuration.Copies < 1 {
			c.JSON(http.StatusUnprocessableEntity, errorResponse(fmt.Sprintf("Item %d: copies must be at least 1", i+1)))
			return
		}

		var service models.Service
		if err := h.db.Where("id = ? AND status = ?", itemReq.ServiceID, models.ServiceStatusActive).First(&service).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusUnprocessableEntity, errorResponse(fmt.Sprintf("Item %d: service not found or inactive", i+1)))
				return
			}
			c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
			return
		}
		if service.CustomQuotation {
			c.JSON(http.StatusUnprocessableEntity, errorResponse(fmt.Sprintf("Item %d: service is quoted manually", i+1)))
			return
		}

		engineService := pricing.ServiceFromModel(service)
		config := pricing.ConfigurationFromModel(itemReq.Configuration)
		if invalid := pricing.InvalidFields(engineService, config, itemReq.PageCount); len(invalid) > 0 {
			c.JSON(http.StatusUnprocessableEntity, errorResponse(
				fmt.Sprintf("Item %d: invalid configuration fields: %s", i+1, strings.Join(invalid, ", "))))
			return
		}

		breakdown := pricing.CalculateItemPricing(engineService, config, itemReq.PageCount)

		quoted, err := decimal.NewFromString(itemReq.QuotedSubtotal)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, errorResponse(fmt.Sprintf("Item %d: quoted_subtotal is not a decimal amount", i+1)))
			return
		}
		if breakdown.Subtotal.Sub(quoted).Abs().GreaterThan(priceTolerance) {
			c.JSON(http.StatusConflict, errorResponse(
				fmt.Sprintf("Item %d: price has changed (quoted %s, current %s); please review your cart",
					i+1, quoted.StringFixed(2), breakdown.Subtotal.StringFixed(2))))
			return
		}

		orderSubtotal = orderSubtotal.Add(breakdown.Subtotal)
		items = append(items, models.OrderItem{
			ServiceID:       service.ID,
			ServiceName:     service.Name,
			FileName:        itemReq.FileName,
			FileURL:         itemReq.FileURL,
			PageCount:       itemReq.PageCount,
			ServiceSnapshot: models.ServiceSnapshot{Service: service},
			Configuration:   itemReq.Configuration,
			Pricing:         breakdown.Snapshot(),
			Subtotal:        breakdown.Subtotal.StringFixed(2),
		})
	}

	deliveryFee, packingFee, err := settings.OrderFees(h.db, orderSubtotal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to resolve fees"))
		return
	}
	totalAmount := orderSubtotal.Add(deliveryFee).Add(packingFee)

	order := models.Order{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryCity:    req.DeliveryCity,
		DeliveryState:   req.DeliveryState,
		DeliveryPincode: req.DeliveryPincode,
		Subtotal:        orderSubtotal.StringFixed(2),
		DeliveryFee:     deliveryFee.StringFixed(2),
		PackingFee:      packingFee.StringFixed(2),
		TotalAmount:     totalAmount.StringFixed(2),
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		Notes:           req.Notes,
		Items:           items,
	}

	if userID, ok := c.Get("user_id"); ok {
		if id, ok := userID.(int64); ok {
			order.UserID = &id
		}
	}

	// The counter is atomic, so a uniqueness collision should not happen; one
	// retry covers a counter reset behind an already-used number.
	for attempt := 0; attempt < 2; attempt++ {
		orderNumber, err := NextOrderNumber(ctx, h.redis, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse("Failed to allocate order number"))
			return
		}
		order.OrderNumber = orderNumber

		err = h.db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&order).Error
		})
		if err == nil {
			c.JSON(http.StatusCreated, successResponse("Order placed successfully", order))
			return
		}
		if !strings.Contains(err.Error(), "duplicate") || attempt == 1 {
			c.JSON(http.StatusInternalServerError, errorResponse("Failed to create order: "+err.Error()))
			return
		}
		order.ID = 0
		for i := range order.Items {
			order.Items[i].ID = 0
			order.Items[i].OrderID = 0
		}
	}
}

// --- Retrieval ---

func (h *OrdersHandler) ListOrders(c *gin.Context) {
	var query ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	dbQuery := h.db.Model(&models.Order{})
	if query.Status != "" {
		dbQuery = dbQuery.Where("status = ?", query.Status)
	}
	if query.PaymentStatus != "" {
		dbQuery = dbQuery.Where("payment_status = ?", query.PaymentStatus)
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

	var orders []models.Order
	if err := dbQuery.Preload("Items").
		Order("created_at desc").
		Offset((pageNumber - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Orders retrieved successfully", orders, gin.H{
		"total":     total,
		"page":      pageNumber,
		"page_size": pageSize,
	}))
}

func (h *OrdersHandler) ListMyOrders(c *gin.Context) {
	userID, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Authentication required"))
		return
	}

	var orders []models.Order
	if err := h.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Orders retrieved successfully", orders))
}

// GetOrder resolves either a numeric order id or an order number.
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	ref := c.Param("id")

	dbQuery := h.db.Preload("Items")
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		dbQuery = dbQuery.Where("id = ?", id)
	} else {
		dbQuery = dbQuery.Where("order_number = ?", ref)
	}

	var order models.Order
	if err := dbQuery.First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Order not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Order retrieved successfully", order))
}

// --- Lifecycle ---

func (h *OrdersHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request payload"))
		return
	}

	var order models.Order
	if err := h.db.Where("id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Order not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	if !models.CanTransitionOrderStatus(order.Status, req.Status) {
		c.JSON(http.StatusUnprocessableEntity, errorResponse(
			fmt.Sprintf("Cannot transition order from %s to %s", order.Status, req.Status)))
		return
	}

	order.Status = req.Status
	if req.Notes != nil {
		order.Notes = req.Notes
	}
	if err := h.db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to update order: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, successResponse("Order status updated successfully", order))
}

// CancelOrder is the customer-facing cancellation. Paid orders and orders in
// production go through support instead.
func (h *OrdersHandler) CancelOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}
	userID, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Authentication required"))
		return
	}

	var order models.Order
	if err := h.db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Order not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	if !models.CanCancelOrder(order.Status, order.PaymentStatus) {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("This order can no longer be cancelled"))
		return
	}

	order.Status = models.OrderStatusCancelled
	if err := h.db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to cancel order: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, successResponse("Order cancelled successfully", order))
}

// --- Payments ---

// CreatePayment registers the order with the payment gateway and stores the
// gateway's order id for later verification.
func (h *OrdersHandler) CreatePayment(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	var order models.Order
	if err := h.db.Where("id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Order not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("Order is already paid"))
		return
	}
	if order.Status == models.OrderStatusCancelled {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("Cannot pay for a cancelled order"))
		return
	}

	amount, err := decimal.NewFromString(order.TotalAmount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Order total is invalid"))
		return
	}

	paymentOrderID, err := h.gateway.CreatePaymentOrder(c.Request.Context(), order.OrderNumber, amount)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Payment gateway error: "+err.Error()))
		return
	}

	order.PaymentOrderID = &paymentOrderID
	if err := h.db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to store payment order: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, successResponse("Payment order created successfully", gin.H{
		"order_number":     order.OrderNumber,
		"payment_order_id": paymentOrderID,
		"amount":           order.TotalAmount,
		"currency":         "INR",
	}))
}

// VerifyPayment handles the gateway callback: on a valid signature the order
// moves to paid and is confirmed.
func (h *OrdersHandler) VerifyPayment(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request payload"))
		return
	}

	var order models.Order
	if err := h.db.Where("id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, errorResponse("Order not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	if order.PaymentOrderID == nil || *order.PaymentOrderID != req.PaymentOrderID {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("Payment order does not match this order"))
		return
	}
	if !h.gateway.VerifySignature(req.PaymentOrderID, req.PaymentID, req.Signature) {
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid payment signature"))
		return
	}
	if !models.CanTransitionPaymentStatus(order.PaymentStatus, models.PaymentStatusPaid) {
		c.JSON(http.StatusUnprocessableEntity, errorResponse(
			fmt.Sprintf("Cannot mark a %s payment as paid", order.PaymentStatus)))
		return
	}

	order.PaymentStatus = models.PaymentStatusPaid
	order.PaymentID = &req.PaymentID
	if models.CanTransitionOrderStatus(order.Status, models.OrderStatusConfirmed) {
		order.Status = models.OrderStatusConfirmed
	}

	if err := h.db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to record payment: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, successResponse("Payment verified successfully", order))
}

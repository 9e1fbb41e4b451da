package handlers

import (
	"log"
	"net/http"
	"time"

	"bistro-backend/config"
	"bistro-backend/models"
	"bistro-backend/payments"
	"bistro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckoutHandler struct {
	DB       *gorm.DB
	Payments payments.Provider

	// Now overrides the time source in tests.
	Now func() time.Time
}

func (h *CheckoutHandler) currentTime() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().In(config.Location())
}

// CreateCheckoutSession turns the client-side cart into a pending order and
// a hosted checkout session. The cart lines are never persisted on their
// own - only as the order snapshot created here.
func (h *CheckoutHandler) CreateCheckoutSession(c *gin.Context) {
	if h.Payments == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "checkout is not configured"})
		return
	}

	var req struct {
		PickupTime string `json:"pickup_time" binding:"required"`
		Items      []struct {
			MenuItemID uuid.UUID `json:"menu_item_id" binding:"required"`
			Quantity   int       `json:"quantity" binding:"required,min=1"`
		} `json:"items" binding:"required,min=1,dive"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	pickupTime, err := time.Parse(time.RFC3339, req.PickupTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pickup_time, expected RFC 3339"})
		return
	}
	if !pickupTime.After(h.currentTime()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pickup_time is in the past"})
		return
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	quantities := make(map[uuid.UUID]int, len(req.Items))
	for _, line := range req.Items {
		if _, seen := quantities[line.MenuItemID]; seen {
			c.JSON(http.StatusBadRequest, gin.H{"error": "duplicate menu item in cart"})
			return
		}
		ids = append(ids, line.MenuItemID)
		quantities[line.MenuItemID] = line.Quantity
	}

	var menuItems []models.MenuItem
	if err := h.DB.Where("id IN ?", ids).Where("active = ?", true).Find(&menuItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu items"})
		return
	}
	if len(menuItems) != len(req.Items) {
		c.JSON(http.StatusConflict, gin.H{"error": "some items are not available"})
		return
	}

	order := models.Order{
		ID:         uuid.New(),
		Status:     models.OrderStatusPending,
		PickupTime: pickupTime,
	}
	lines := make([]payments.LineItem, 0, len(menuItems))

	for _, item := range menuItems {
		quantity := quantities[item.ID]
		order.Total += item.Price * float64(quantity)
		order.Items = append(order.Items, models.OrderItem{
			MenuItemID: item.ID,
			ItemName:   item.Name,
			UnitPrice:  item.Price,
			Quantity:   quantity,
		})
		lines = append(lines, payments.LineItem{
			ID:        item.ID.String(),
			Title:     item.Name,
			UnitPrice: item.Price,
			Quantity:  quantity,
		})
	}

	if err := h.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	url, err := h.Payments.CreateCheckout(c.Request.Context(), order.ID.String(), lines)
	if err != nil {
		log.Printf("checkout session failed for order %s: %v", order.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      url,
		"order_id": order.ID,
	})
}

// Webhook handles payment notifications. The provider retries on non-2xx,
// so everything except a resolvable approved payment answers 200 and is
// otherwise ignored.
func (h *CheckoutHandler) Webhook(c *gin.Context) {
	topic := c.Query("type")
	if topic == "" {
		topic = c.Query("topic")
	}
	paymentID := c.Query("data.id")
	if paymentID == "" {
		paymentID = c.Query("id")
	}

	if topic != "payment" || paymentID == "" {
		c.Status(http.StatusOK)
		return
	}

	if h.Payments == nil {
		c.Status(http.StatusOK)
		return
	}

	orderRef, approved, err := h.Payments.PaymentStatus(c.Request.Context(), paymentID)
	if err != nil {
		log.Printf("webhook: failed to resolve payment %s: %v", paymentID, err)
		c.Status(http.StatusOK)
		return
	}
	if !approved {
		c.Status(http.StatusOK)
		return
	}

	orderID, err := uuid.Parse(orderRef)
	if err != nil {
		log.Printf("webhook: payment %s has invalid order reference %q", paymentID, orderRef)
		c.Status(http.StatusOK)
		return
	}

	var order models.Order
	if err := h.DB.Where("id = ?", orderID).First(&order).Error; err != nil {
		log.Printf("webhook: order %s not found", orderID)
		c.Status(http.StatusOK)
		return
	}

	if models.IsValidTransition(order.Status, models.OrderStatusPaid) {
		order.Status = models.OrderStatusPaid
		order.PaymentID = paymentID
		if err := h.DB.Save(&order).Error; err != nil {
			log.Printf("webhook: failed to mark order %s paid: %v", orderID, err)
		}
	}

	c.Status(http.StatusOK)
}

func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	query := h.DB.Preload("Items").Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *CheckoutHandler) UpdateOrderStatus(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var order models.Order
	if err := h.DB.Where("id = ?", id).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !models.IsValidTransition(order.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status transition"})
		return
	}

	order.Status = req.Status
	if err := h.DB.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

package routes

import (
	"time"

	"bistro-backend/cache"
	"bistro-backend/handlers"
	"bistro-backend/middleware"
	"bistro-backend/payments"
	"bistro-backend/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, store storage.Client, pay payments.Provider, sched *cache.ScheduleCache) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db}
	bookingHandler := &handlers.BookingHandler{DB: db, Cache: sched}
	menuHandler := &handlers.MenuHandler{DB: db, Storage: store}
	hoursHandler := &handlers.OpeningHoursHandler{DB: db, Cache: sched}
	checkoutHandler := &handlers.CheckoutHandler{DB: db, Payments: pay}
	uploadHandler := &handlers.UploadHandler{Storage: store}

	// Brute-force protection on the login endpoint
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Public routes
	api := r.Group("/api")
	{
		// Auth routes
		api.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		// Booking calendar
		api.GET("/booking/days", bookingHandler.GetDays)
		api.GET("/booking/slots", bookingHandler.GetSlots)

		// Public menu routes
		api.GET("/menu", menuHandler.GetMenuItems)
		api.GET("/categories", menuHandler.GetCategories)
		api.GET("/opening-hours", hoursHandler.GetOpeningHours)
		api.GET("/closed-dates", hoursHandler.ListClosedDates)

		// Checkout
		api.POST("/checkout", checkoutHandler.CreateCheckoutSession)
		api.POST("/checkout/webhook", checkoutHandler.Webhook)
	}

	// Admin routes (require the session cookie)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware())
	{
		admin.GET("/session", authHandler.Session)

		// Menu management
		admin.POST("/menu", menuHandler.CreateMenuItem)
		admin.PUT("/menu/:id", menuHandler.UpdateMenuItem)
		admin.DELETE("/menu/:id", menuHandler.DeleteMenuItem)

		// Category management
		admin.POST("/categories", menuHandler.CreateCategory)
		admin.DELETE("/categories/:id", menuHandler.DeleteCategory)

		// Schedule management
		admin.PUT("/opening-hours", hoursHandler.UpdateOpeningHours)
		admin.POST("/closed-dates", hoursHandler.AddClosedDate)
		admin.DELETE("/closed-dates/:id", hoursHandler.RemoveClosedDate)

		// Presigned image uploads
		admin.POST("/uploads", uploadHandler.CreateUploadURL)

		// Order management
		admin.GET("/orders", checkoutHandler.ListOrders)
		admin.PUT("/orders/:id/status", checkoutHandler.UpdateOrderStatus)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

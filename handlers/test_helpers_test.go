package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"bistro-backend/middleware"
	"bistro-backend/models"
	"bistro-backend/payments"
	"bistro-backend/storage"
	"bistro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")

	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	// Limit to 1 open connection to prevent SQLite concurrent access issues
	// with in-memory databases.
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	// Create tables using raw SQLite-compatible SQL instead of AutoMigrate,
	// because the GORM model tags use PostgreSQL-specific defaults like gen_random_uuid().
	if err := createSQLiteTables(testDB); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	code := m.Run()
	os.Exit(code)
}

// freshDB returns a clean database for each test by deleting all rows.
func freshDB() *gorm.DB {
	// Delete in correct order to respect foreign keys
	testDB.Exec("DELETE FROM order_items")
	testDB.Exec("DELETE FROM orders")
	testDB.Exec("DELETE FROM menu_items")
	testDB.Exec("DELETE FROM categories")
	testDB.Exec("DELETE FROM closed_dates")
	testDB.Exec("DELETE FROM opening_hours")
	testDB.Exec("DELETE FROM users")
	return testDB
}

// createSQLiteTables creates all tables with SQLite-compatible DDL.
func createSQLiteTables(db *gorm.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS "users" (
			"id" TEXT PRIMARY KEY,
			"email" TEXT NOT NULL UNIQUE,
			"password" TEXT NOT NULL,
			"name" TEXT,
			"role" TEXT DEFAULT 'admin',
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_deleted_at ON "users"("deleted_at")`,

		`CREATE TABLE IF NOT EXISTS "categories" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL UNIQUE,
			"description" TEXT,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_deleted_at ON "categories"("deleted_at")`,

		`CREATE TABLE IF NOT EXISTS "menu_items" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL,
			"price" REAL NOT NULL,
			"category_id" TEXT NOT NULL,
			"image_key" TEXT,
			"image_url" TEXT,
			"active" INTEGER DEFAULT 1,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME,
			CONSTRAINT fk_menu_items_category FOREIGN KEY ("category_id") REFERENCES "categories"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_menu_items_deleted_at ON "menu_items"("deleted_at")`,
		`CREATE INDEX IF NOT EXISTS idx_menu_items_category_id ON "menu_items"("category_id")`,

		`CREATE TABLE IF NOT EXISTS "opening_hours" (
			"id" TEXT PRIMARY KEY,
			"day_of_week" INTEGER NOT NULL UNIQUE,
			"open_time" TEXT NOT NULL DEFAULT '09:00',
			"close_time" TEXT NOT NULL DEFAULT '21:00',
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS "closed_dates" (
			"id" TEXT PRIMARY KEY,
			"date" DATE NOT NULL UNIQUE,
			"reason" TEXT,
			"created_at" DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS "orders" (
			"id" TEXT PRIMARY KEY,
			"order_number" TEXT NOT NULL UNIQUE,
			"status" TEXT DEFAULT 'pending',
			"pickup_time" DATETIME NOT NULL,
			"total" REAL NOT NULL,
			"payment_id" TEXT,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_deleted_at ON "orders"("deleted_at")`,

		`CREATE TABLE IF NOT EXISTS "order_items" (
			"id" TEXT PRIMARY KEY,
			"order_id" TEXT NOT NULL,
			"menu_item_id" TEXT NOT NULL,
			"item_name" TEXT,
			"unit_price" REAL NOT NULL,
			"quantity" INTEGER NOT NULL,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_order_items_order FOREIGN KEY ("order_id") REFERENCES "orders"("id"),
			CONSTRAINT fk_order_items_menu_item FOREIGN KEY ("menu_item_id") REFERENCES "menu_items"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON "order_items"("order_id")`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_menu_item_id ON "order_items"("menu_item_id")`,
	}

	for _, sql := range tables {
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedAdmin creates the dashboard admin and returns it with a session token.
func seedAdmin(db *gorm.DB, email string) (models.User, string) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
		Name:     "Test Admin",
		Role:     "admin",
	}
	db.Create(&user)

	token, _ := utils.GenerateAdminToken()
	return user, token
}

// seedCategory creates a test category.
func seedCategory(db *gorm.DB, name string) models.Category {
	cat := models.Category{
		ID:   uuid.New(),
		Name: name,
	}
	db.Create(&cat)
	return cat
}

// seedMenuItem creates an active menu item in the given category.
func seedMenuItem(db *gorm.DB, name string, categoryID uuid.UUID, price float64) models.MenuItem {
	item := models.MenuItem{
		ID:         uuid.New(),
		Name:       name,
		Price:      price,
		CategoryID: categoryID,
		ImageKey:   "menu/" + uuid.New().String()[:8] + ".jpg",
		Active:     true,
	}
	db.Create(&item)
	return item
}

// seedWeek creates 7 opening-hours rows (Sun-Sat) with the given window.
func seedWeek(db *gorm.DB, open, close string) []models.OpeningHours {
	hours := make([]models.OpeningHours, 7)
	for day := 0; day < 7; day++ {
		h := models.OpeningHours{
			ID:        uuid.New(),
			DayOfWeek: day,
			OpenTime:  open,
			CloseTime: close,
		}
		db.Create(&h)
		hours[day] = h
	}
	return hours
}

// seedClosedDate marks one calendar date as closed.
func seedClosedDate(db *gorm.DB, date time.Time, reason string) models.ClosedDate {
	cd := models.ClosedDate{
		ID:     uuid.New(),
		Date:   date,
		Reason: reason,
	}
	db.Create(&cd)
	return cd
}

// ==================== Router Setup Helpers ====================

// setupAuthRouter sets up routes for auth handler tests.
func setupAuthRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	authHandler := &AuthHandler{DB: db}

	api := r.Group("/api")
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware())
	admin.GET("/session", authHandler.Session)

	return r
}

// setupBookingRouter sets up booking routes with a fixed clock.
func setupBookingRouter(db *gorm.DB, now time.Time) *gin.Engine {
	r := gin.New()
	bookingHandler := &BookingHandler{DB: db, Now: func() time.Time { return now }}

	api := r.Group("/api")
	api.GET("/booking/days", bookingHandler.GetDays)
	api.GET("/booking/slots", bookingHandler.GetSlots)

	return r
}

// setupMenuRouter sets up menu routes with the given storage mock.
func setupMenuRouter(db *gorm.DB, store storage.Client) *gin.Engine {
	r := gin.New()
	menuHandler := &MenuHandler{DB: db, Storage: store}

	api := r.Group("/api")
	api.GET("/menu", menuHandler.GetMenuItems)
	api.GET("/categories", menuHandler.GetCategories)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware())
	admin.POST("/menu", menuHandler.CreateMenuItem)
	admin.PUT("/menu/:id", menuHandler.UpdateMenuItem)
	admin.DELETE("/menu/:id", menuHandler.DeleteMenuItem)
	admin.POST("/categories", menuHandler.CreateCategory)
	admin.DELETE("/categories/:id", menuHandler.DeleteCategory)

	return r
}

// setupOpeningHoursRouter sets up schedule and closed-date routes.
func setupOpeningHoursRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	hoursHandler := &OpeningHoursHandler{DB: db}

	api := r.Group("/api")
	api.GET("/opening-hours", hoursHandler.GetOpeningHours)
	api.GET("/closed-dates", hoursHandler.ListClosedDates)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware())
	admin.PUT("/opening-hours", hoursHandler.UpdateOpeningHours)
	admin.POST("/closed-dates", hoursHandler.AddClosedDate)
	admin.DELETE("/closed-dates/:id", hoursHandler.RemoveClosedDate)

	return r
}

// setupCheckoutRouter sets up checkout routes with a fake payment provider.
func setupCheckoutRouter(db *gorm.DB, provider payments.Provider, now time.Time) *gin.Engine {
	r := gin.New()
	checkoutHandler := &CheckoutHandler{DB: db, Payments: provider, Now: func() time.Time { return now }}

	api := r.Group("/api")
	api.POST("/checkout", checkoutHandler.CreateCheckoutSession)
	api.POST("/checkout/webhook", checkoutHandler.Webhook)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware())
	admin.GET("/orders", checkoutHandler.ListOrders)
	admin.PUT("/orders/:id/status", checkoutHandler.UpdateOrderStatus)

	return r
}

// setupUploadRouter sets up the presigned-upload route.
func setupUploadRouter(store storage.Client) *gin.Engine {
	r := gin.New()
	uploadHandler := &UploadHandler{Storage: store}

	api := r.Group("/api")
	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware())
	admin.POST("/uploads", uploadHandler.CreateUploadURL)

	return r
}

// ==================== Request Helpers ====================

// jsonRequest creates an HTTP request with JSON body.
func jsonRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// adminRequest creates an HTTP request carrying the session cookie.
func adminRequest(method, url string, body interface{}, token string) *http.Request {
	req := jsonRequest(method, url, body)
	req.AddCookie(&http.Cookie{Name: middleware.AdminCookieName, Value: token})
	return req
}

// multipartRequest creates a multipart form request with the given fields and
// file uploads. files maps form field names to filenames; dummy image data is
// written for each. token is the session cookie value (pass "" to skip).
func multipartRequest(method, url string, fields map[string]string, files map[string]string, token string) *http.Request {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, val := range fields {
		_ = writer.WriteField(key, val)
	}

	for fieldName, filename := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fieldName, filename))
		h.Set("Content-Type", "image/jpeg")

		part, err := writer.CreatePart(h)
		if err != nil {
			panic("failed to create multipart file part: " + err.Error())
		}
		part.Write([]byte("fake image data"))
	}

	writer.Close()

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.AdminCookieName, Value: token})
	}
	return req
}

// ==================== Response Helpers ====================

// parseResponse reads the response body into a map.
func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// parseResponseArray reads the response body into a slice of maps.
func parseResponseArray(w *httptest.ResponseRecorder) []interface{} {
	var result []interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

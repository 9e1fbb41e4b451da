package handlers

import (
	"net/http"
	"time"

	"bistro-backend/booking"
	"bistro-backend/cache"
	"bistro-backend/config"
	"bistro-backend/models"
	"bistro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OpeningHoursHandler struct {
	DB    *gorm.DB
	Cache *cache.ScheduleCache
}

func (h *OpeningHoursHandler) GetOpeningHours(c *gin.Context) {
	var hours []models.OpeningHours
	if err := h.DB.Order("day_of_week").Find(&hours).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch opening hours"})
		return
	}
	c.JSON(http.StatusOK, hours)
}

// UpdateOpeningHours replaces the open/close window for the submitted
// weekdays. Rows are upserted so a weekday never loses its entry.
func (h *OpeningHoursHandler) UpdateOpeningHours(c *gin.Context) {
	var req []struct {
		DayOfWeek *int   `json:"day_of_week" binding:"required"`
		OpenTime  string `json:"open_time" binding:"required"`
		CloseTime string `json:"close_time" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one weekday entry is required"})
		return
	}

	// Validate every entry before touching the database.
	ref := time.Now()
	for _, entry := range req {
		if *entry.DayOfWeek < 0 || *entry.DayOfWeek > 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "day_of_week must be between 0 and 6"})
			return
		}
		open, err := booking.ParseWallClock(entry.OpenTime, ref)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "open_time must be HH:MM in 24-hour notation"})
			return
		}
		closing, err := booking.ParseWallClock(entry.CloseTime, ref)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "close_time must be HH:MM in 24-hour notation"})
			return
		}
		if !open.Before(closing) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "open_time must be before close_time"})
			return
		}
	}

	for _, entry := range req {
		var row models.OpeningHours
		err := h.DB.Where("day_of_week = ?", *entry.DayOfWeek).First(&row).Error
		if err == gorm.ErrRecordNotFound {
			row = models.OpeningHours{
				DayOfWeek: *entry.DayOfWeek,
				OpenTime:  entry.OpenTime,
				CloseTime: entry.CloseTime,
			}
			if err := h.DB.Create(&row).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update opening hours"})
				return
			}
			continue
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update opening hours"})
			return
		}

		row.OpenTime = entry.OpenTime
		row.CloseTime = entry.CloseTime
		if err := h.DB.Save(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update opening hours"})
			return
		}
	}

	// The booking endpoints read the schedule through the cache.
	h.Cache.Invalidate(c.Request.Context())

	var hours []models.OpeningHours
	if err := h.DB.Order("day_of_week").Find(&hours).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch opening hours"})
		return
	}
	c.JSON(http.StatusOK, hours)
}

// ListClosedDates returns upcoming closed dates (past ones are irrelevant
// to the booking calendar).
func (h *OpeningHoursHandler) ListClosedDates(c *gin.Context) {
	now := time.Now().In(config.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var closedDates []models.ClosedDate
	if err := h.DB.Where("date >= ?", today).Order("date").Find(&closedDates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch closed dates"})
		return
	}
	c.JSON(http.StatusOK, closedDates)
}

func (h *OpeningHoursHandler) AddClosedDate(c *gin.Context) {
	var req struct {
		Date   string `json:"date" binding:"required"`
		Reason string `json:"reason"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, config.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	var existing []models.ClosedDate
	if err := h.DB.Find(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch closed dates"})
		return
	}
	if booking.ClosedOn(date, existing) {
		c.JSON(http.StatusConflict, gin.H{"error": "date is already marked as closed"})
		return
	}

	closedDate := models.ClosedDate{
		ID:     uuid.New(),
		Date:   date,
		Reason: req.Reason,
	}
	if err := h.DB.Create(&closedDate).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add closed date"})
		return
	}

	c.JSON(http.StatusCreated, closedDate)
}

func (h *OpeningHoursHandler) RemoveClosedDate(c *gin.Context) {
	id := c.Param("id")

	result := h.DB.Where("id = ?", id).Delete(&models.ClosedDate{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove closed date"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Closed date not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Closed date removed"})
}

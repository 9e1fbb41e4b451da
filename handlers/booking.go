package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"bistro-backend/booking"
	"bistro-backend/cache"
	"bistro-backend/config"
	"bistro-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BookingHandler struct {
	DB    *gorm.DB
	Cache *cache.ScheduleCache

	// Now overrides the time source in tests. Nil means the restaurant's
	// local wall clock.
	Now func() time.Time
}

func (h *BookingHandler) currentTime() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().In(config.Location())
}

func (h *BookingHandler) loadSchedule(c *gin.Context) ([]models.OpeningHours, error) {
	return h.Cache.Get(c.Request.Context(), func() ([]models.OpeningHours, error) {
		var schedule []models.OpeningHours
		if err := h.DB.Order("day_of_week").Find(&schedule).Error; err != nil {
			return nil, err
		}
		return schedule, nil
	})
}

// GetSlots returns the bookable timestamps for one date. Closed dates are
// rejected here, before slot generation: the generator itself never sees
// them.
func (h *BookingHandler) GetSlots(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required (YYYY-MM-DD)"})
		return
	}

	date, err := time.ParseInLocation("2006-01-02", dateStr, config.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	now := h.currentTime()
	if date.Before(now) && !booking.SameDay(date, now) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is in the past"})
		return
	}

	var closedDates []models.ClosedDate
	if err := h.DB.Find(&closedDates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch closed dates"})
		return
	}
	if booking.ClosedOn(date, closedDates) {
		c.JSON(http.StatusConflict, gin.H{"error": "the restaurant is closed on this date"})
		return
	}

	schedule, err := h.loadSchedule(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch opening hours"})
		return
	}

	slots, err := booking.Slots(date, schedule, now, config.BookingInterval())
	switch {
	case errors.Is(err, booking.ErrNoAvailability):
		c.JSON(http.StatusConflict, gin.H{"error": "no more bookings available for this date"})
		return
	case errors.Is(err, booking.ErrScheduleMissing):
		log.Printf("opening hours misconfigured: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "opening hours are not configured"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute booking slots"})
		return
	}

	formatted := make([]string, 0, len(slots))
	for _, s := range slots {
		formatted = append(formatted, s.Format(time.RFC3339))
	}

	c.JSON(http.StatusOK, gin.H{
		"date":             dateStr,
		"interval_minutes": int(config.BookingInterval().Minutes()),
		"slots":            formatted,
	})
}

// GetDays lists upcoming dates with a bookable flag, so the calendar can
// grey out closed dates and a today whose window has already passed.
func (h *BookingHandler) GetDays(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 90 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 90"})
			return
		}
		days = parsed
	}

	var closedDates []models.ClosedDate
	if err := h.DB.Find(&closedDates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch closed dates"})
		return
	}

	schedule, err := h.loadSchedule(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch opening hours"})
		return
	}

	now := h.currentTime()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	interval := config.BookingInterval()

	type dayEntry struct {
		Date     string `json:"date"`
		Weekday  int    `json:"weekday"`
		Bookable bool   `json:"bookable"`
	}

	entries := make([]dayEntry, 0, days)
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, i)

		bookable := !booking.ClosedOn(date, closedDates)
		if bookable {
			_, err := booking.Slots(date, schedule, now, interval)
			switch {
			case err == nil:
			case errors.Is(err, booking.ErrNoAvailability):
				bookable = false
			case errors.Is(err, booking.ErrScheduleMissing):
				log.Printf("opening hours misconfigured: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "opening hours are not configured"})
				return
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute availability"})
				return
			}
		}

		entries = append(entries, dayEntry{
			Date:     date.Format("2006-01-02"),
			Weekday:  int(date.Weekday()),
			Bookable: bookable,
		})
	}

	c.JSON(http.StatusOK, entries)
}

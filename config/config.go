package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func LoadEnv() error {
	// Try to load .env file if it exists (for local development).
	// On production, environment variables are set directly.
	err := godotenv.Load()
	if err != nil {
		// .env file not found is not an error - it might be on production
		// Environment variables are already available in os.Getenv()
		return nil
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	// Critical variables - application cannot function without these
	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	// Non-critical variables - log warnings but don't fail
	if os.Getenv("FIREBASE_STORAGE_BUCKET") == "" {
		log.Println("WARNING: FIREBASE_STORAGE_BUCKET not set - image uploads will fail")
	}
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		log.Println("WARNING: GOOGLE_APPLICATION_CREDENTIALS not set - storage features may not work")
	}
	if os.Getenv("MP_ACCESS_TOKEN") == "" {
		log.Println("WARNING: MP_ACCESS_TOKEN not set - checkout will be unavailable")
	}
	if os.Getenv("REDIS_ADDR") == "" {
		log.Println("WARNING: REDIS_ADDR not set - schedule caching is disabled")
	}
	if os.Getenv("FRONTEND_URL") == "" {
		log.Println("WARNING: FRONTEND_URL not set - CORS may not work correctly")
	}
	if os.Getenv("ADMIN_URL") == "" {
		log.Println("WARNING: ADMIN_URL not set")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// BookingInterval returns the spacing between bookable time slots.
// Configured via BOOKING_INTERVAL_MINUTES, defaults to 30 minutes.
func BookingInterval() time.Duration {
	raw := GetEnv("BOOKING_INTERVAL_MINUTES", "30")
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		log.Printf("WARNING: invalid BOOKING_INTERVAL_MINUTES %q, using 30", raw)
		return 30 * time.Minute
	}
	return time.Duration(minutes) * time.Minute
}

// Location returns the restaurant's local timezone. Booking dates and
// opening hours are interpreted in this zone, not the server's.
func Location() *time.Location {
	tz := GetEnv("RESTAURANT_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("WARNING: invalid RESTAURANT_TIMEZONE %q, using UTC", tz)
		return time.UTC
	}
	return loc
}

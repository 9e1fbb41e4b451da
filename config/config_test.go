package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadEnv(t *testing.T) {
	// LoadEnv returns nil when no .env file exists
	err := LoadEnv()
	if err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidateEnvAllSet(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("DATABASE_URL", "test-db-url")
	defer os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("DATABASE_URL")

	err := ValidateEnv()
	if err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidateEnvMissingJWTSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")
	os.Setenv("DATABASE_URL", "test-db-url")
	defer os.Unsetenv("DATABASE_URL")

	err := ValidateEnv()
	if err == nil {
		t.Error("expected error for missing JWT_SECRET")
	}
}

func TestValidateEnvMissingDatabaseURL(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Unsetenv("DATABASE_URL")
	defer os.Unsetenv("JWT_SECRET")

	err := ValidateEnv()
	if err == nil {
		t.Error("expected error for missing DATABASE_URL")
	}
}

func TestValidateEnvMissingBoth(t *testing.T) {
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("DATABASE_URL")

	err := ValidateEnv()
	if err == nil {
		t.Error("expected error for missing both")
	}
}

func TestGetEnvExisting(t *testing.T) {
	os.Setenv("TEST_GET_ENV_KEY", "test-value")
	defer os.Unsetenv("TEST_GET_ENV_KEY")

	result := GetEnv("TEST_GET_ENV_KEY", "default")
	if result != "test-value" {
		t.Errorf("expected 'test-value', got '%s'", result)
	}
}

func TestGetEnvMissing(t *testing.T) {
	os.Unsetenv("TEST_GET_ENV_MISSING")
	result := GetEnv("TEST_GET_ENV_MISSING", "fallback")
	if result != "fallback" {
		t.Errorf("expected 'fallback', got '%s'", result)
	}
}

func TestBookingIntervalDefault(t *testing.T) {
	os.Unsetenv("BOOKING_INTERVAL_MINUTES")
	if got := BookingInterval(); got.Minutes() != 30 {
		t.Errorf("expected 30 minutes, got %v", got)
	}
}

func TestBookingIntervalConfigured(t *testing.T) {
	os.Setenv("BOOKING_INTERVAL_MINUTES", "15")
	defer os.Unsetenv("BOOKING_INTERVAL_MINUTES")

	if got := BookingInterval(); got.Minutes() != 15 {
		t.Errorf("expected 15 minutes, got %v", got)
	}
}

func TestBookingIntervalInvalidFallsBack(t *testing.T) {
	os.Setenv("BOOKING_INTERVAL_MINUTES", "zero")
	defer os.Unsetenv("BOOKING_INTERVAL_MINUTES")

	if got := BookingInterval(); got.Minutes() != 30 {
		t.Errorf("expected fallback to 30 minutes, got %v", got)
	}
}

func TestLocationDefault(t *testing.T) {
	os.Unsetenv("RESTAURANT_TIMEZONE")
	if got := Location(); got.String() != "UTC" {
		t.Errorf("expected UTC, got %v", got)
	}
}

func TestLocationConfigured(t *testing.T) {
	os.Setenv("RESTAURANT_TIMEZONE", "Europe/Berlin")
	defer os.Unsetenv("RESTAURANT_TIMEZONE")

	if got := Location(); got.String() != "Europe/Berlin" {
		t.Errorf("expected Europe/Berlin, got %v", got)
	}
}

func TestLocationInvalidFallsBack(t *testing.T) {
	os.Setenv("RESTAURANT_TIMEZONE", "Mars/Olympus")
	defer os.Unsetenv("RESTAURANT_TIMEZONE")

	if got := Location(); got != time.UTC {
		t.Errorf("expected UTC fallback, got %v", got)
	}
}

package config

import (
	"fmt"
	"os"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const DATE_PARSE_FORMAT = "2006-01-02"

// Reservation numbers are prefixed with the store code.
const RESERVATION_NUMBER_PREFIX = "HYG"

// Pickup dates offered to customers ahead of today.
const PICKUP_DATES_COUNT = 10

// Products with stock at or below this show up in the dashboard alerts.
const LOW_STOCK_THRESHOLD = 5

const PRODUCT_CACHE_KEY = "products:catalog"
const PRODUCT_CACHE_TTL = time.Minute

const SETTING_KEY_STORE = "store"

var storeLocation *time.Location

// Location is the store's local timezone. Pickup dates and reservation
// numbers are derived in store-local time, not server time.
func Location() *time.Location {
	if storeLocation != nil {
		return storeLocation
	}
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		loc = time.FixedZone("JST", 9*60*60)
	}
	storeLocation = loc
	return loc
}

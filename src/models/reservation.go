package models

import (
	"time"

	"hyggely/src/types"

	"github.com/google/uuid"
)

// Reservation is created exactly once by the reservation transaction. The
// items snapshot and totalAmount are frozen at commit time; only status (by
// the admin) and the email* fields (by the notification worker) change
// afterwards. reservationNumber is intentionally not unique-indexed —
// collisions are accepted as statistically negligible.
type Reservation struct {
	ID                uuid.UUID       `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	ReservationNumber string          `gorm:"index" json:"reservationNumber"`
	CustomerID        string          `gorm:"index" json:"customerId"`
	CustomerName      string          `json:"customerName"`
	CustomerEmail     string          `json:"customerEmail"`
	CustomerPhone     string          `json:"customerPhone"`
	Items             types.CartItems `gorm:"type:jsonb" json:"items"`
	TotalAmount       int             `json:"totalAmount"`
	PickupDate        time.Time       `gorm:"index" json:"pickupDate"`
	PickupTimeSlot    string          `json:"pickupTimeSlot"`
	Status            string          `gorm:"default:'pending'" json:"status"`
	Notes             string          `json:"notes,omitempty"`
	EmailStatus       *string         `json:"emailStatus,omitempty"`
	EmailSentAt       *time.Time      `json:"emailSentAt,omitempty"`
	EmailError        *string         `json:"emailError,omitempty"`

	types.Timestamps
}

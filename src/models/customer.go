package models

import "hyggely/src/types"

// Customer is keyed by an identifier derived from the normalized email, so
// repeat customers resolve to a single record. ReservationCount and TotalSpent
// are updated in the same transaction that creates each reservation.
type Customer struct {
	ID               string `gorm:"primarykey" json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	ReservationCount int    `gorm:"default:0" json:"reservationCount"`
	TotalSpent       int    `gorm:"default:0" json:"totalSpent"`

	types.Timestamps
}

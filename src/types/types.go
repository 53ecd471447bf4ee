package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"createdAt,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updatedAt,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

// CartItem is the frozen per-line snapshot stored on a reservation. Prices and
// names are copied at commit time so later product edits never alter history.
type CartItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"imageUrl"`
}

type CartItems []CartItem

func (a CartItems) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *CartItems) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type ReservationStatus string

const (
	RESERVATION_PENDING   ReservationStatus = "pending"
	RESERVATION_CONFIRMED ReservationStatus = "confirmed"
	RESERVATION_COMPLETED ReservationStatus = "completed"
	RESERVATION_CANCELLED ReservationStatus = "cancelled"
)

type EmailStatus string

const (
	EMAIL_SENT   EmailStatus = "sent"
	EMAIL_FAILED EmailStatus = "failed"
)

type AdminRole string

const (
	ADMIN_OWNER AdminRole = "owner"
	ADMIN_STAFF AdminRole = "staff"
)

type EmailTemplates struct {
	ReservationConfirmation string `json:"reservationConfirmation"`
	ReservationCancellation string `json:"reservationCancellation"`
	ReminderEmail           string `json:"reminderEmail"`
}

// StoreSettings is the singleton settings document persisted under the
// "store" settings key.
type StoreSettings struct {
	Name                string         `json:"name"`
	Address             string         `json:"address"`
	Phone               string         `json:"phone"`
	Email               string         `json:"email"`
	DefaultTimeSlots    []string       `json:"defaultTimeSlots"`
	RegularBusinessDays []int          `json:"regularBusinessDays"`
	EmailTemplates      EmailTemplates `json:"emailTemplates"`
}

type ReservationItemInput struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

type CustomerInfoInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes,omitempty"`
}

type CreateReservationRequestBody struct {
	Items          []ReservationItemInput `json:"items"`
	PickupDate     string                 `json:"pickupDate"`
	PickupTimeSlot string                 `json:"pickupTimeSlot"`
	CustomerInfo   CustomerInfoInput      `json:"customerInfo"`
}

type CreateReservationResponse struct {
	Success           bool   `json:"success"`
	ReservationNumber string `json:"reservationNumber,omitempty"`
	Error             string `json:"error,omitempty"`
}

type CreateProductRequestBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	Price       int    `json:"price" binding:"required,min=1"`
	Stock       int    `json:"stock" binding:"omitempty,min=0"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Category    string `json:"category,omitempty"`
	IsAvailable *bool  `json:"isAvailable,omitempty"`
	SortOrder   int    `json:"sortOrder,omitempty"`
}

type UpdateProductRequestBody struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int    `json:"price,omitempty" binding:"omitempty,min=1"`
	Stock       *int    `json:"stock,omitempty" binding:"omitempty,min=0"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Category    *string `json:"category,omitempty"`
	IsAvailable *bool   `json:"isAvailable,omitempty"`
	SortOrder   *int    `json:"sortOrder,omitempty"`
}

type UpdateReservationStatusRequestBody struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}

type UpsertBusinessDayRequestBody struct {
	Date      string   `json:"date" binding:"required,pickupdate"`
	IsOpen    bool     `json:"isOpen"`
	TimeSlots []string `json:"timeSlots,omitempty"`
	Note      string   `json:"note,omitempty"`
}

type SimpleIDParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

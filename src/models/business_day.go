package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"hyggely/src/types"
)

type TimeSlots []string

func (a TimeSlots) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *TimeSlots) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

// BusinessDay is a per-date override of the regular weekly schedule. Dates use
// the YYYY-MM-DD form in store-local time.
type BusinessDay struct {
	Date      string    `gorm:"primarykey" json:"date"`
	IsOpen    bool      `json:"isOpen"`
	TimeSlots TimeSlots `gorm:"type:jsonb" json:"timeSlots,omitempty"`
	Note      string    `json:"note,omitempty"`

	types.Timestamps
}

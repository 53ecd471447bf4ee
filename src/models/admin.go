package models

import "hyggely/src/types"

type Admin struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Email string `gorm:"uniqueIndex" json:"email"`
	Name  string `json:"name"`
	Role  string `gorm:"default:'staff'" json:"role"`

	types.Timestamps
}

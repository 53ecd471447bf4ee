package models

import (
	"hyggely/src/types"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string    `json:"name"`
	Slug        string    `gorm:"index" json:"slug,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       int       `json:"price"`
	Stock       int       `gorm:"default:0;check:stock >= 0" json:"stock"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Category    string    `json:"category,omitempty"`
	IsAvailable bool      `gorm:"default:true" json:"isAvailable"`
	SortOrder   int       `gorm:"default:0" json:"sortOrder"`

	types.Timestamps
}

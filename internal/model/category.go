package model

import "time"

// Category groups menus within a store's catalog.
type Category struct {
	ID           int64     `gorm:"primaryKey" json:"category_id"`
	StoreID      int64     `gorm:"index;not null" json:"store_id"`
	Name         string    `gorm:"size:128;not null" json:"name"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Store Store `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

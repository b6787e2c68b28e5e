package model

import "time"

// Menu is a single catalog item. ImageURL points at the hero variant of the
// menu photo asset, or is empty when no photo has been uploaded.
type Menu struct {
	ID           int64     `gorm:"primaryKey" json:"menu_id"`
	StoreID      int64     `gorm:"index;not null" json:"store_id"`
	CategoryID   *int64    `gorm:"index" json:"category_id"`
	Name         string    `gorm:"size:256;not null" json:"name"`
	Description  string    `json:"description"`
	Price        int64     `gorm:"not null;default:0" json:"price"`
	ImageURL     string    `gorm:"size:1024" json:"image_url"`
	IsAvailable  bool      `gorm:"not null;default:true" json:"is_available"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Store    Store     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Category *Category `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
}

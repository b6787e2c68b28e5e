package model

import "time"

// Store represents a restaurant tenant. The logo and cover URLs always point
// at the hero variant of the corresponding image asset.
type Store struct {
	ID            int64     `gorm:"primaryKey" json:"store_id"`
	Name          string    `gorm:"size:256;not null" json:"name"`
	Description   string    `json:"description"`
	Address       string    `gorm:"size:512" json:"address"`
	Phone         string    `gorm:"size:32" json:"phone"`
	BusinessHours string    `gorm:"size:256" json:"business_hours"`
	Notice        string    `json:"notice"`
	LogoURL       string    `gorm:"size:1024" json:"logo_url"`
	CoverURL      string    `gorm:"size:1024" json:"cover_url"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Categories []Category `gorm:"foreignKey:StoreID" json:"-"`
	Menus      []Menu     `gorm:"foreignKey:StoreID" json:"-"`
}

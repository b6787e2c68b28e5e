package model

import "time"

// QueueStatus is the lifecycle state of a ticket, encoded as a small integer
// at every boundary (API and database alike).
type QueueStatus int

const (
	StatusWaiting   QueueStatus = 0
	StatusReady     QueueStatus = 1
	StatusCompleted QueueStatus = 2
)

// Queue is one walk-in ticket. The display number is unique among live
// tickets of a store (any status); it is freed for reuse only when the row is
// deleted, either by an operator or by the expiry sweep.
type Queue struct {
	ID          int64       `gorm:"primaryKey" json:"queue_id"`
	StoreID     int64       `gorm:"not null;uniqueIndex:idx_store_queue_number" json:"store_id"`
	QueueNumber int         `gorm:"not null;uniqueIndex:idx_store_queue_number" json:"queue_number"`
	Status      QueueStatus `gorm:"not null;default:0" json:"status"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	CalledAt    *time.Time  `json:"called_at"`
	CompletedAt *time.Time  `json:"completed_at"`

	// Associations
	Store Store `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Board is the per-store projection of the live ticket set, each partition
// ordered by creation time descending.
type Board struct {
	Waiting   []Queue `json:"waiting"`
	Ready     []Queue `json:"ready"`
	Completed []Queue `json:"completed"`
}

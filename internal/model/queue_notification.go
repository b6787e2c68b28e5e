package model

import "time"

// Send outcomes recorded on a recipient after a ready-notification attempt.
const (
	SendStatusSuccess = "success"
	SendStatusFailure = "failure"
)

// QueueNotification is one push recipient for a (store, queue number) pair.
// Several rows may exist for the same pair when a customer registered more
// than one device. Token is an opaque serialized push subscription.
type QueueNotification struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	StoreID     int64      `gorm:"index:idx_notification_target;not null" json:"store_id"`
	QueueNumber int        `gorm:"index:idx_notification_target;not null" json:"queue_number"`
	Token       string     `gorm:"not null" json:"-"`
	SendStatus  *string    `gorm:"size:16" json:"send_status"`
	NotifiedAt  *time.Time `json:"notified_at"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
}

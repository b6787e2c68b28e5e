package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tableqr-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	// Queue tickets
	AllocateTicket(ctx context.Context, storeID int64) (*model.Queue, error)
	MarkReady(ctx context.Context, queueID int64, now time.Time) (*model.Queue, error)
	MarkComplete(ctx context.Context, queueID int64, now time.Time) (*model.Queue, error)
	DeleteTicket(ctx context.Context, queueID int64) error
	ListBoard(ctx context.Context, storeID int64) (*model.Board, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)

	// Notification recipients
	RegisterRecipient(ctx context.Context, rec *model.QueueNotification) error
	ListRecipients(ctx context.Context, storeID int64, queueNumber int) ([]model.QueueNotification, error)
	RecordSendOutcome(ctx context.Context, ids []int64, status string, at time.Time) error

	// Catalog
	CreateStore(ctx context.Context, s *model.Store) error
	GetStore(ctx context.Context, storeID int64) (*model.Store, error)
	ListStores(ctx context.Context) ([]model.Store, error)
	UpdateStore(ctx context.Context, storeID int64, fields map[string]any) (*model.Store, error)
	DeleteStore(ctx context.Context, storeID int64) error

	ListCategories(ctx context.Context, storeID int64) ([]model.Category, error)
	CreateCategory(ctx context.Context, c *model.Category) error
	UpdateCategory(ctx context.Context, categoryID int64, fields map[string]any) (*model.Category, error)
	DeleteCategory(ctx context.Context, categoryID int64) error

	ListMenus(ctx context.Context, storeID int64) ([]model.Menu, error)
	ListAvailableMenus(ctx context.Context, storeID int64) ([]model.Menu, error)
	CreateMenu(ctx context.Context, m *model.Menu) error
	UpdateMenu(ctx context.Context, menuID int64, fields map[string]any) (*model.Menu, error)
	DeleteMenu(ctx context.Context, menuID int64) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tableqr-backend/internal/model"
)

// CreateStore inserts a new store row.
func (s *gormStore) CreateStore(ctx context.Context, st *model.Store) error {
	if err := s.db.WithContext(ctx).Create(st).Error; err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// GetStore fetches one store by id.
func (s *gormStore) GetStore(ctx context.Context, storeID int64) (*model.Store, error) {
	var st model.Store
	if err := s.db.WithContext(ctx).First(&st, storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch store %d: %w", storeID, err)
	}
	return &st, nil
}

// ListStores returns every store, newest first.
func (s *gormStore) ListStores(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}

// UpdateStore applies a partial update and returns the refreshed row.
func (s *gormStore) UpdateStore(ctx context.Context, storeID int64, fields map[string]any) (*model.Store, error) {
	res := s.db.WithContext(ctx).Model(&model.Store{}).Where("id = ?", storeID).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update store %d: %w", storeID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetStore(ctx, storeID)
}

// DeleteStore removes a store. Dependent catalog and queue rows cascade.
func (s *gormStore) DeleteStore(ctx context.Context, storeID int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Store{}, storeID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete store %d: %w", storeID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCategories returns a store's categories in display order.
func (s *gormStore) ListCategories(ctx context.Context, storeID int64) ([]model.Category, error) {
	var categories []model.Category
	if err := s.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("display_order ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories for store %d: %w", storeID, err)
	}
	return categories, nil
}

// CreateCategory inserts a new category row.
func (s *gormStore) CreateCategory(ctx context.Context, c *model.Category) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// UpdateCategory applies a partial update and returns the refreshed row.
func (s *gormStore) UpdateCategory(ctx context.Context, categoryID int64, fields map[string]any) (*model.Category, error) {
	res := s.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", categoryID).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update category %d: %w", categoryID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var c model.Category
	if err := s.db.WithContext(ctx).First(&c, categoryID).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch category %d: %w", categoryID, err)
	}
	return &c, nil
}

// DeleteCategory removes a category; menus under it keep a null category.
func (s *gormStore) DeleteCategory(ctx context.Context, categoryID int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Category{}, categoryID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete category %d: %w", categoryID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMenus returns every menu of a store in display order.
func (s *gormStore) ListMenus(ctx context.Context, storeID int64) ([]model.Menu, error) {
	var menus []model.Menu
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Where("store_id = ?", storeID).
		Order("display_order ASC").
		Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("failed to list menus for store %d: %w", storeID, err)
	}
	return menus, nil
}

// ListAvailableMenus returns only menus currently offered, for the public view.
func (s *gormStore) ListAvailableMenus(ctx context.Context, storeID int64) ([]model.Menu, error) {
	var menus []model.Menu
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Where("store_id = ? AND is_available = ?", storeID, true).
		Order("display_order ASC").
		Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("failed to list available menus for store %d: %w", storeID, err)
	}
	return menus, nil
}

// CreateMenu inserts a new menu row.
func (s *gormStore) CreateMenu(ctx context.Context, m *model.Menu) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create menu: %w", err)
	}
	return nil
}

// UpdateMenu applies a partial update and returns the refreshed row.
func (s *gormStore) UpdateMenu(ctx context.Context, menuID int64, fields map[string]any) (*model.Menu, error) {
	res := s.db.WithContext(ctx).Model(&model.Menu{}).Where("id = ?", menuID).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update menu %d: %w", menuID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var m model.Menu
	if err := s.db.WithContext(ctx).First(&m, menuID).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch menu %d: %w", menuID, err)
	}
	return &m, nil
}

// DeleteMenu removes a menu row.
func (s *gormStore) DeleteMenu(ctx context.Context, menuID int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Menu{}, menuID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete menu %d: %w", menuID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableqr-backend/internal/model"
	"tableqr-backend/internal/store"
)

func seedPublicMenu(t *testing.T, s store.Store) int64 {
	t.Helper()
	ctx := context.Background()
	storeID := seedTestStore(t, s, "Public Bistro")

	mains := model.Category{StoreID: storeID, Name: "Mains", DisplayOrder: 1}
	drinks := model.Category{StoreID: storeID, Name: "Drinks", DisplayOrder: 2}
	empty := model.Category{StoreID: storeID, Name: "Desserts", DisplayOrder: 3}
	require.NoError(t, s.CreateCategory(ctx, &mains))
	require.NoError(t, s.CreateCategory(ctx, &drinks))
	require.NoError(t, s.CreateCategory(ctx, &empty))

	require.NoError(t, s.CreateMenu(ctx, &model.Menu{StoreID: storeID, CategoryID: &mains.ID, Name: "Bibimbap", Price: 12000, IsAvailable: true, DisplayOrder: 1}))
	require.NoError(t, s.CreateMenu(ctx, &model.Menu{StoreID: storeID, CategoryID: &mains.ID, Name: "Bulgogi", Price: 16000, IsAvailable: false, DisplayOrder: 2}))
	require.NoError(t, s.CreateMenu(ctx, &model.Menu{StoreID: storeID, CategoryID: &drinks.ID, Name: "Sikhye", Price: 4000, IsAvailable: true, DisplayOrder: 1}))
	require.NoError(t, s.CreateMenu(ctx, &model.Menu{StoreID: storeID, Name: "Daily Special", Price: 9000, IsAvailable: true}))
	return storeID
}

func TestPublicMenu(t *testing.T) {
	r, s, _ := newTestEnv(t, nil)
	storeID := seedPublicMenu(t, s)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/stores/%d/menu", storeID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Store    model.Store `json:"store"`
		Sections []struct {
			Category *model.Category `json:"category"`
			Menus    []model.Menu    `json:"menus"`
		} `json:"sections"`
	}
	decodeBody(t, w, &resp)

	assert.Equal(t, "Public Bistro", resp.Store.Name)
	require.Len(t, resp.Sections, 3, "empty categories are dropped")

	require.NotNil(t, resp.Sections[0].Category)
	assert.Equal(t, "Mains", resp.Sections[0].Category.Name)
	require.Len(t, resp.Sections[0].Menus, 1, "sold-out items are hidden")
	assert.Equal(t, "Bibimbap", resp.Sections[0].Menus[0].Name)

	require.NotNil(t, resp.Sections[1].Category)
	assert.Equal(t, "Drinks", resp.Sections[1].Category.Name)

	assert.Nil(t, resp.Sections[2].Category, "uncategorized items come last")
	require.Len(t, resp.Sections[2].Menus, 1)
	assert.Equal(t, "Daily Special", resp.Sections[2].Menus[0].Name)
}

func TestPublicMenu_UnknownStore(t *testing.T) {
	r, _, _ := newTestEnv(t, nil)
	w := doJSON(t, r, http.MethodGet, "/api/stores/424242/menu", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", errorCode(t, w))
}

func TestStoreQRCode(t *testing.T) {
	r, s, _ := newTestEnv(t, nil)
	storeID := seedTestStore(t, s, "QR Cafe")

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/stores/%d/qrcode", storeID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	body := w.Body.Bytes()
	require.Greater(t, len(body), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, body[:8])
}

func TestStoreQRCode_UnknownStore(t *testing.T) {
	r, _, _ := newTestEnv(t, nil)
	w := doJSON(t, r, http.MethodGet, "/api/stores/424242/qrcode", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

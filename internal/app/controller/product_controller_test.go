package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productID(p model.Product) uint { return p.ID }

func TestProductController_Create(t *testing.T) {
	env := setupControllerTest(t)
	editor := env.register(t, "owner@store.local")
	rings := env.seedCategory(t, "Rings", nil, 0)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name: "Valid",
			body: map[string]interface{}{
				"title": "Signet", "description": "Plain band", "price_usd": 80, "category_id": rings.ID,
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "Missing USD price",
			body: map[string]interface{}{
				"title": "Signet", "description": "Plain band", "price_eur": 80, "category_id": rings.ID,
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_INVALID_INPUT",
		},
		{
			name: "Negative price",
			body: map[string]interface{}{
				"title": "Signet", "description": "Plain band", "price_usd": -1, "category_id": rings.ID,
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_INVALID_INPUT",
		},
		{
			name: "Unknown category",
			body: map[string]interface{}{
				"title": "Signet", "description": "Plain band", "price_usd": 80, "category_id": 9999,
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "CATEGORY_NOT_FOUND",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := env.do(t, http.MethodPost, "/api/v1/products", editor.AccessToken, tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body.Error)
				return
			}

			var product model.Product
			decodeData(t, body, &product)
			assert.Equal(t, "Signet", product.Title)
			require.NotNil(t, product.PriceUSD)
			assert.Equal(t, 80.0, *product.PriceUSD)
		})
	}
}

func TestProductController_Search(t *testing.T) {
	env := setupControllerTest(t)
	rings := env.seedCategory(t, "Rings", nil, 0)
	chains := env.seedCategory(t, "Chains", nil, 1)
	env.seedProduct(t, "Gold Ring", rings.ID, 120, 0)
	env.seedProduct(t, "Silver Ring", rings.ID, 40, 1)
	env.seedProduct(t, "Gold Chain", chains.ID, 300, 2)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
		wantTitles []string
	}{
		{"Too short", "?q=%20a%20", http.StatusBadRequest, "SEARCH_QUERY_TOO_SHORT", nil},
		{"Missing", "", http.StatusBadRequest, "SEARCH_QUERY_TOO_SHORT", nil},
		{"Title match", "?q=Ring", http.StatusOK, "", []string{"Gold Ring", "Silver Ring"}},
		{"Category filter", fmt.Sprintf("?q=Gold&categoryId=%d", chains.ID), http.StatusOK, "", []string{"Gold Chain"}},
		{"Price range", "?q=Ring&minPrice=100&maxPrice=200", http.StatusOK, "", []string{"Gold Ring"}},
		{"Inverted range", "?q=Ring&minPrice=200&maxPrice=100", http.StatusBadRequest, "VALIDATION_INVALID_INPUT", nil},
		{"Bad price", "?q=Ring&minPrice=cheap", http.StatusBadRequest, "VALIDATION_INVALID_INPUT", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := env.do(t, http.MethodGet, "/api/v1/products/search"+tt.query, "", nil)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body.Error)
				return
			}

			var products []model.Product
			decodeData(t, body, &products)
			titles := make([]string, len(products))
			for i, p := range products {
				titles[i] = p.Title
			}
			assert.ElementsMatch(t, tt.wantTitles, titles)
		})
	}
}

func TestProductController_Reorder(t *testing.T) {
	env := setupControllerTest(t)
	editor := env.register(t, "owner@store.local")
	rings := env.seedCategory(t, "Rings", nil, 0)
	a := env.seedProduct(t, "A", rings.ID, 1, 0)
	b := env.seedProduct(t, "B", rings.ID, 2, 1)
	c := env.seedProduct(t, "C", rings.ID, 3, 2)

	w, body := env.do(t, http.MethodPost, "/api/v1/products/reorder", editor.AccessToken, map[string]interface{}{
		"productIds": []uint{c.ID, a.ID},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "REORDER_INCOMPLETE_SET", body.Error)

	// unknown ids are ignored
	w, body = env.do(t, http.MethodPost, "/api/v1/products/reorder", editor.AccessToken, map[string]interface{}{
		"productIds": []uint{c.ID, 9999, a.ID, b.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var products []model.Product
	decodeData(t, body, &products)
	assert.Equal(t, []uint{c.ID, a.ID, b.ID}, ids(products, productID))

	w, body = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/products/%d/move-down", c.ID), editor.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, body, &products)
	assert.Equal(t, []uint{a.ID, c.ID, b.ID}, ids(products, productID))
	for i, p := range products {
		assert.Equal(t, i, p.ItemOrderIndex)
	}
}

func TestProductController_DeleteIsOwnerOnly(t *testing.T) {
	env := setupControllerTest(t)
	owner := env.register(t, "owner@store.local")
	editor := env.register(t, "editor@store.local")
	rings := env.seedCategory(t, "Rings", nil, 0)
	p := env.seedProduct(t, "Gold Ring", rings.ID, 120, 0)
	path := fmt.Sprintf("/api/v1/products/%d", p.ID)

	w, body := env.do(t, http.MethodDelete, path, editor.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "AUTHZ_OWNER_ONLY", body.Error)

	w, _ = env.do(t, http.MethodDelete, path, owner.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, body = env.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", body.Error)
}

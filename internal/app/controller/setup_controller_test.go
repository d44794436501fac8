package controller

import (
	"net/http"
	"testing"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStatus(t *testing.T, env *testEnv) bool {
	t.Helper()
	w, body := env.do(t, http.MethodGet, "/api/v1/setup/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status service.SetupStatus
	decodeData(t, body, &status)
	return status.Configured
}

func TestSetupController_FirstRun(t *testing.T) {
	env := setupControllerTest(t)
	assert.False(t, setupStatus(t, env))

	w, body := env.do(t, http.MethodPost, "/api/v1/setup", "", service.SetupRequest{
		StoreName:       "Golden Hour",
		PrimaryColor:    "#c9a961",
		Currencies:      []string{"USD", "ILS"},
		DefaultCurrency: "ILS",
		Categories:      []string{"Rings", "Earrings"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var settings model.StoreSettings
	decodeData(t, body, &settings)
	require.NotNil(t, settings.SiteTitle)
	assert.Equal(t, "Golden Hour", *settings.SiteTitle)
	assert.True(t, setupStatus(t, env))

	var count int64
	require.NoError(t, env.db.Model(&model.Category{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	w, _ = env.do(t, http.MethodGet, "/theme.css", "", nil)
	assert.Contains(t, w.Body.String(), "--color-primary: #c9a961;")

	w, body = env.do(t, http.MethodGet, "/api/v1/en/storefront", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var branding service.Branding
	decodeData(t, body, &branding)
	assert.Equal(t, service.Currency("ILS"), branding.DefaultCurrency)
}

func TestSetupController_RerunNeedsOwner(t *testing.T) {
	env := setupControllerTest(t)
	owner := env.register(t, "owner@store.local")
	editor := env.register(t, "editor@store.local")

	req := service.SetupRequest{StoreName: "Golden Hour"}
	w, _ := env.do(t, http.MethodPost, "/api/v1/setup", "", req)
	require.Equal(t, http.StatusOK, w.Code)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"Guest", "", http.StatusForbidden},
		{"Editor", editor.AccessToken, http.StatusForbidden},
		{"Owner", owner.AccessToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := env.do(t, http.MethodPost, "/api/v1/setup", tt.token, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Equal(t, "SETUP_ALREADY_COMPLETED", body.Error)
			}
		})
	}
}

func TestSetupController_Validation(t *testing.T) {
	env := setupControllerTest(t)

	tests := []struct {
		name     string
		req      interface{}
		wantCode string
	}{
		{"Missing store name", map[string]interface{}{"primaryColor": "#c9a961"}, "VALIDATION_INVALID_INPUT"},
		{"Blank store name", service.SetupRequest{StoreName: "   "}, "VALIDATION_REQUIRED"},
		{"Bad colour", service.SetupRequest{StoreName: "Shop", PrimaryColor: "gold"}, "VALIDATION_INVALID_INPUT"},
		{
			"Default currency outside the list",
			service.SetupRequest{StoreName: "Shop", Currencies: []string{"USD"}, DefaultCurrency: "EUR"},
			"CURRENCY_NOT_SUPPORTED",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := env.do(t, http.MethodPost, "/api/v1/setup", "", tt.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, body.Error)
		})
	}
	assert.False(t, setupStatus(t, env))
}

func TestSetupController_SettingsSavedDirectlyCloseSetup(t *testing.T) {
	env := setupControllerTest(t)
	owner := env.register(t, "owner@store.local")

	w, _ := env.do(t, http.MethodPut, "/api/v1/settings", owner.AccessToken, map[string]interface{}{
		"site_title_en": "Donde",
		"phone":         "+972",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, setupStatus(t, env), "the wizard itself has not run")

	w, body := env.do(t, http.MethodPost, "/api/v1/setup", "", service.SetupRequest{StoreName: "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "SETUP_ALREADY_COMPLETED", body.Error)

	// clearing setup_config does not reopen the endpoint
	w, _ = env.do(t, http.MethodPut, "/api/v1/settings", owner.AccessToken, map[string]interface{}{"setup_config": nil})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodPost, "/api/v1/setup", "", service.SetupRequest{StoreName: "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var settings model.StoreSettings
	require.NoError(t, env.db.First(&settings, model.SettingsID).Error)
	assert.Nil(t, settings.SiteTitle)
	require.NotNil(t, settings.SiteTitleEn)
	assert.Equal(t, "Donde", *settings.SiteTitleEn)
}

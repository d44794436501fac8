package controller

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/repository"
	"github.com/donde/storefront-backend/internal/app/service"
	"github.com/donde/storefront-backend/internal/db"
	"github.com/donde/storefront-backend/internal/theme"
	ws "github.com/donde/storefront-backend/internal/websocket"
	"github.com/donde/storefront-backend/pkg/patch"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEvent(t *testing.T, conn *websocket.Conn) (string, theme.Palette) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev struct {
		Type string        `json:"type"`
		Data theme.Palette `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &ev))
	return ev.Type, ev.Data
}

func TestBrandingSocketController(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub()
	go hub.Run(ctx)

	applier := theme.NewApplier(
		theme.NewResolver(theme.DefaultPalette, theme.DefaultHoverDarkenPercent),
		theme.NewBroadcastSink(hub),
	)
	settingsService := service.NewSettingsService(repository.NewSettingsRepository(testDB), nil, 0, applier)
	ctrl := NewBrandingSocketController(hub, settingsService, []string{"http://shop.local"})

	router := gin.New()
	router.GET("/ws/branding", ctrl.Connect)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/branding"

	t.Run("Foreign origin is refused", func(t *testing.T) {
		header := map[string][]string{"Origin": {"http://evil.local"}}
		_, resp, err := websocket.DefaultDialer.Dial(url, header)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, 403, resp.StatusCode)
	})

	conn, _, err := websocket.DefaultDialer.Dial(url, map[string][]string{"Origin": {"http://shop.local"}})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	eventType, palette := readEvent(t, conn)
	assert.Equal(t, theme.EventBrandingUpdated, eventType)
	assert.Equal(t, theme.DefaultPalette, palette)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	_, err = settingsService.UpsertSettings(ctx, &model.SettingsPatch{PrimaryColor: patch.Some("#123456")})
	require.NoError(t, err)

	eventType, palette = readEvent(t, conn)
	assert.Equal(t, theme.EventBrandingUpdated, eventType)
	assert.Equal(t, "#123456", palette.Primary)
}

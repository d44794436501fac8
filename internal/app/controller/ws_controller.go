package controller

import (
	"net/http"

	"github.com/donde/storefront-backend/internal/app/service"
	"github.com/donde/storefront-backend/internal/middleware"
	"github.com/donde/storefront-backend/internal/theme"
	ws "github.com/donde/storefront-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// BrandingSocketController pushes branding_updated events to storefront and
// admin tabs so colour changes show up without a reload.
type BrandingSocketController struct {
	hub             *ws.Hub
	settingsService service.SettingsService
	upgrader        websocket.Upgrader
}

// NewBrandingSocketController accepts upgrades from allowedOrigins only. A
// "*" entry or an empty list accepts any origin.
func NewBrandingSocketController(hub *ws.Hub, settingsService service.SettingsService, allowedOrigins []string) *BrandingSocketController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &BrandingSocketController{
		hub:             hub,
		settingsService: settingsService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origins["*"] || origin == "" || origins[origin]
			},
		},
	}
}

// Connect upgrades the request and sends the current palette right away.
// GET /api/v1/ws/branding
func (ctrl *BrandingSocketController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(uuid.NewString(), ctrl.hub, &ws.Conn{Conn: conn})
	if err := ctrl.hub.Prime(client, theme.EventBrandingUpdated, ctrl.settingsService.CurrentPalette()); err != nil {
		log.Warn("Failed to queue initial palette", map[string]interface{}{
			"error": err.Error(),
		})
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"client_id": client.ID,
	})
}

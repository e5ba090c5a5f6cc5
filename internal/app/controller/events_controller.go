package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/internal/middleware"
	ws "github.com/hengyuan-pack/giftbox-site/internal/websocket"
)

// EventsController streams content changes to open admin tabs.
type EventsController struct {
	hub *ws.Hub
}

func NewEventsController(hub *ws.Hub) *EventsController {
	return &EventsController{hub: hub}
}

// Stream GET /api/admin/events (websocket)
func (ctrl *EventsController) Stream(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := ws.Upgrade(c.Writer, c.Request)
	if err != nil {
		// Upgrade already wrote the HTTP error
		log.Warn("Websocket upgrade failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	client := ws.NewClient(ctrl.hub, conn, middleware.GetAdminUser(c))
	ctrl.hub.Register(client)

	log.Info("Admin event stream opened", map[string]interface{}{
		"admin":   client.Username,
		"clients": ctrl.hub.ClientCount(),
	})

	go client.WritePump()
	go client.ReadPump()
}

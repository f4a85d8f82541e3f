package controllers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/pos-app/kds"
	"github.com/yeremiapane/pos-app/middlewares"
)

type OrderFeedController struct {
	hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewOrderFeedController accepts websocket handshakes from allowedOrigins, or any origin when empty.
func NewOrderFeedController(hub *kds.Hub, allowedOrigins []string) *OrderFeedController {
	return &OrderFeedController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// OrderFeed upgrades the connection and streams order_created events until the client leaves.
func (fc *OrderFeedController) OrderFeed(c *gin.Context) {
	role := c.GetString(middlewares.ContextRole)
	if role == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := fc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	middlewares.FeedClientConnected()
	defer middlewares.FeedClientDisconnected()
	fc.hub.Serve(ws, role, c.GetUint(middlewares.ContextUserID))
}

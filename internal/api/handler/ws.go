package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"omnichat/backend/internal/chathub"
	"omnichat/backend/internal/config"
	"omnichat/backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the HTTP connection and hands it to the hub.
// The connection token comes from the Authorization header or, for
// browser WebSocket clients that cannot set headers, the token query
// parameter.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	tokenString := ""
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		tokenString = strings.TrimPrefix(auth, "Bearer ")
	} else {
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Connection token missing"})
		return
	}

	connID, err := h.validateAndGetConnID(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &chathub.WebSocketClient{
		ID:   connID,
		Conn: conn,
		Hub:  h.Hub,
		Send: make(chan models.ServerEvent, config.ClientSendBuffer),
		Log:  h.Log,
	}

	h.Hub.RegisterCh <- client
	client.Run()
}

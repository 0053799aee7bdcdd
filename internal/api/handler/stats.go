package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports liveness plus headline connection counts.
func (h *Handler) Health(c *gin.Context) {
	snap := h.Hub.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":               "healthy",
		"total_connections":    snap.Clients,
		"stranger_chat_active": snap.StrangerUsers,
		"timestamp":            time.Now().Format(time.RFC3339),
	})
}

// Stats summarizes both chat modes.
func (h *Handler) Stats(c *gin.Context) {
	snap := h.Hub.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"regular_chat": gin.H{
			"total_users":  snap.Clients,
			"active_rooms": snap.Rooms,
			"messages":     snap.Messages,
		},
		"stranger_chat": gin.H{
			"total_stranger_users": snap.StrangerUsers,
			"waiting_users":        snap.Waiting,
			"active_chats":         snap.Pairings,
			"video_calls":          snap.Calls,
		},
	})
}

// Debug exposes the raw queue and room structure.
func (h *Handler) Debug(c *gin.Context) {
	snap := h.Hub.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"rooms":           snap.RoomSizes,
		"waiting_users":   snap.Waiting,
		"interest_queues": snap.InterestQueues,
		"video_calls":     snap.Calls,
		"messages":        snap.Messages,
		"clients":         snap.Clients,
	})
}

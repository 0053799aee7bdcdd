package chathub

import (
	"time"

	"github.com/google/uuid"

	"omnichat/backend/internal/models"
)

// handlePrivateMessage routes a point-to-point message. Room membership
// is irrelevant here: the recipient only has to be a known identity.
func (h *Hub) handlePrivateMessage(id string, raw []byte) {
	p, err := decode[models.PrivateMessagePayload](raw)
	if err != nil {
		h.sendError(id, CodeValidation, models.EvPrivateMessage, "Malformed private_message payload")
		return
	}
	if p.To == "" || p.Message == "" {
		h.sendError(id, CodeValidation, models.EvPrivateMessage, "Missing recipient or message")
		return
	}

	recipient, ok := h.Registry.Lookup(p.To)
	if !ok {
		h.sendError(id, CodeNotFound, models.EvPrivateMessage, "Recipient not found or offline")
		return
	}

	sender := h.Registry.UsernameOf(id)
	msg := &models.Message{
		ID:        uuid.New().String(),
		Kind:      models.KindPrivate,
		Content:   p.Message,
		Username:  sender,
		From:      sender,
		FromID:    id,
		To:        recipient.Username,
		ToID:      recipient.ID,
		Timestamp: time.Now(),
		Status:    models.StatusSent,
	}
	if err := h.Messages.Put(msg); err != nil {
		h.sendError(id, CodeValidation, models.EvPrivateMessage, "Message needs text")
		return
	}

	h.send(recipient.ID, models.EvPrivateMessage, msg)

	// Echo copy for the sender's own conversation view.
	echo := *msg
	echo.FromSelf = true
	h.send(id, models.EvPrivateMessage, &echo)
}

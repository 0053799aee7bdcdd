package chathub

import "omnichat/backend/internal/models"

// handleTyping relays typing start/stop exactly as received. Nothing is
// stored; a dead target just misses the event.
func (h *Hub) handleTyping(id string, raw []byte, typing bool) {
	p, err := decode[models.TypingPayload](raw)
	if err != nil {
		return
	}

	out := models.UserTypingPayload{
		Username:  h.usernameFor(id),
		UserID:    id,
		Typing:    typing,
		IsPrivate: p.IsPrivate,
	}

	if p.IsPrivate && p.TargetUserID != "" {
		h.send(p.TargetUserID, models.EvUserTyping, out)
		return
	}

	// The sender's own joined room is authoritative; the payload's room
	// name is not trusted for routing.
	roomKey, ok := h.joinedRoom[id]
	if !ok {
		return
	}
	out.Room = roomKey
	h.broadcast(roomKey, models.EvUserTyping, out, id)
}

package chathub

import (
	"time"

	"github.com/google/uuid"

	"omnichat/backend/internal/config"
	"omnichat/backend/internal/models"
)

func (h *Hub) handleJoinRoom(id string, raw []byte) {
	p, err := decode[models.JoinRoomPayload](raw)
	if err != nil {
		h.sendError(id, CodeValidation, models.EvJoinRoom, "Malformed join_room payload")
		return
	}

	// A connection joins once; duplicates are ignored.
	if _, joined := h.joinedRoom[id]; joined {
		h.Log.Debug("duplicate join ignored", "client", id)
		return
	}

	roomKey := p.RoomKey()
	if roomKey == "" {
		h.sendError(id, CodeValidation, models.EvJoinRoom, "Room not specified")
		return
	}

	if err := h.Registry.SetUsername(id, p.Username); err != nil {
		h.sendError(id, CodeValidation, models.EvJoinRoom, "Username must not be blank")
		return
	}

	if _, err := h.Rooms.Join(roomKey, id); err != nil {
		h.sendError(id, codeFor(err), models.EvJoinRoom, "Room cannot be joined")
		return
	}
	h.joinedRoom[id] = roomKey
	h.Log.Info("user joined room", "client", id, "username", p.Username, "room", roomKey)

	h.send(id, models.EvJoinSuccess, models.JoinSuccessPayload{
		Room:     roomKey,
		Username: p.Username,
		Message:  "Successfully joined " + roomKey,
		Status:   "joined",
	})

	h.send(id, models.EvMessage, h.systemMessage(roomKey, "Welcome to "+roomKey+"!"))
	h.broadcast(roomKey, models.EvMessage, h.systemMessage(roomKey, p.Username+" joined the chat"), id)
	h.updateRoomUsers(roomKey)
}

func (h *Hub) handleSendMessage(id string, raw []byte) {
	p, err := decode[models.SendMessagePayload](raw)
	if err != nil {
		h.sendError(id, CodeValidation, models.EvSendMessage, "Malformed send_message payload")
		return
	}

	roomKey, ok := h.joinedRoom[id]
	if !ok {
		h.sendError(id, CodeStateConflict, models.EvSendMessage, "You must join a room first")
		return
	}

	kind := models.KindRoom
	if p.File != nil {
		kind = models.KindFile
	}
	msg := &models.Message{
		ID:        uuid.New().String(),
		Kind:      kind,
		Content:   p.Message,
		Username:  h.Registry.UsernameOf(id),
		UserID:    id,
		Room:      roomKey,
		Timestamp: time.Now(),
		File:      p.File,
		Status:    models.StatusSent,
	}
	if err := h.Messages.Put(msg); err != nil {
		h.sendError(id, CodeValidation, models.EvSendMessage, "Message needs text or a file")
		return
	}

	h.broadcast(roomKey, models.EvMessage, msg)
}

func (h *Hub) handleSendReply(id string, raw []byte) {
	p, err := decode[models.SendReplyPayload](raw)
	if err != nil {
		h.sendError(id, CodeValidation, models.EvSendReply, "Malformed send_reply payload")
		return
	}

	roomKey, joined := h.joinedRoom[id]
	if !joined || p.ReplyToID == "" || p.Message == "" {
		h.sendError(id, CodeValidation, models.EvSendReply, "Missing reply data")
		return
	}

	msg := &models.Message{
		ID:        uuid.New().String(),
		Kind:      models.KindRoom,
		Content:   p.Message,
		Username:  h.Registry.UsernameOf(id),
		UserID:    id,
		Room:      roomKey,
		Timestamp: time.Now(),
		Status:    models.StatusSent,
		ReplyTo: &models.ReplyRef{
			MessageID: p.ReplyToID,
			Username:  p.ReplyToUsername,
			Content:   snapshot(p.ReplyToContent),
		},
	}
	if err := h.Messages.Put(msg); err != nil {
		h.sendError(id, CodeValidation, models.EvSendReply, "Message needs text or a file")
		return
	}

	h.broadcast(roomKey, models.EvMessage, msg)
}

func (h *Hub) handleEditMessage(id string, raw []byte) {
	p, err := decode[models.EditMessagePayload](raw)
	if err != nil || p.MessageID == "" {
		h.sendError(id, CodeValidation, models.EvEditMessage, "Malformed edit_message payload")
		return
	}

	msg, err := h.Messages.Edit(p.MessageID, id, p.NewContent)
	if err != nil {
		h.sendError(id, codeFor(err), models.EvEditMessage, err.Error())
		return
	}

	h.broadcastTo(h.audienceOf(msg), models.EvMessageEdited, models.MessageEditedPayload{
		MessageID:  msg.ID,
		NewContent: msg.Content,
		EditedAt:   msg.EditedAt.Format(time.RFC3339),
	})
}

func (h *Hub) handleDeleteMessage(id string, raw []byte) {
	p, err := decode[models.DeleteMessagePayload](raw)
	if err != nil || p.MessageID == "" {
		h.sendError(id, CodeValidation, models.EvDeleteMessage, "Malformed delete_message payload")
		return
	}

	msg, err := h.Messages.Delete(p.MessageID, id)
	if err != nil {
		h.sendError(id, codeFor(err), models.EvDeleteMessage, err.Error())
		return
	}

	h.broadcastTo(h.audienceOf(msg), models.EvMessageDeleted, models.MessageDeletedPayload{
		MessageID: msg.ID,
	})
}

func (h *Hub) handleAddReaction(id string, raw []byte) {
	p, err := decode[models.ReactionPayload](raw)
	if err != nil || p.MessageID == "" || p.Emoji == "" {
		h.sendError(id, CodeValidation, models.EvAddReaction, "Malformed add_reaction payload")
		return
	}

	msg, ok := h.Messages.Get(p.MessageID)
	if !ok {
		h.sendError(id, CodeNotFound, models.EvAddReaction, "Message not found")
		return
	}

	reactions, err := h.Messages.AddReaction(p.MessageID, h.usernameFor(id), p.Emoji)
	if err != nil {
		h.sendError(id, codeFor(err), models.EvAddReaction, err.Error())
		return
	}

	h.broadcastTo(h.audienceOf(msg), models.EvReactionUpdated, models.ReactionUpdatedPayload{
		MessageID: p.MessageID,
		Reactions: reactions,
	})
}

func (h *Hub) handleRemoveReaction(id string, raw []byte) {
	p, err := decode[models.ReactionPayload](raw)
	if err != nil || p.MessageID == "" || p.Emoji == "" {
		h.sendError(id, CodeValidation, models.EvRemoveReaction, "Malformed remove_reaction payload")
		return
	}

	msg, ok := h.Messages.Get(p.MessageID)
	if !ok {
		h.sendError(id, CodeNotFound, models.EvRemoveReaction, "Message not found")
		return
	}

	reactions, err := h.Messages.RemoveReaction(p.MessageID, h.usernameFor(id), p.Emoji)
	if err != nil {
		h.sendError(id, codeFor(err), models.EvRemoveReaction, err.Error())
		return
	}

	h.broadcastTo(h.audienceOf(msg), models.EvReactionUpdated, models.ReactionUpdatedPayload{
		MessageID: p.MessageID,
		Reactions: reactions,
	})
}

// audienceOf resolves the set of connections a message event should
// reach: the room members for room-scoped messages, the two endpoints
// for private ones.
func (h *Hub) audienceOf(msg *models.Message) []string {
	if msg.Kind == models.KindPrivate {
		return []string{msg.FromID, msg.ToID}
	}
	return h.Rooms.Members(msg.Room)
}

// updateRoomUsers pushes the current roster to everyone in the room.
func (h *Hub) updateRoomUsers(roomKey string) {
	members := h.Rooms.Members(roomKey)
	users := make([]models.RoomUser, 0, len(members))
	for _, mid := range members {
		ident, ok := h.Registry.Lookup(mid)
		if !ok {
			continue
		}
		users = append(users, models.RoomUser{
			Username: ident.Username,
			ID:       ident.ID,
			IsOnline: ident.Online,
		})
	}
	h.broadcast(roomKey, models.EvRoomUsers, models.RoomUsersPayload{
		Room:  roomKey,
		Users: users,
		Count: len(users),
	})
}

func (h *Hub) systemMessage(roomKey, content string) *models.Message {
	msg := &models.Message{
		ID:        "system_" + uuid.New().String(),
		Kind:      models.KindSystem,
		Content:   content,
		Username:  "System",
		Room:      roomKey,
		Timestamp: time.Now(),
	}
	// Stored so edit attempts on system messages can answer NotEditable
	// instead of NotFound.
	_ = h.Messages.Put(msg)
	return msg
}

// snapshot truncates the replied-to content for the reply preview.
func snapshot(content string) string {
	runes := []rune(content)
	if len(runes) <= config.ReplySnapshotRunes {
		return content
	}
	return string(runes[:config.ReplySnapshotRunes]) + "..."
}

// leaveNamedRoom removes the connection from its named room and tells
// the remaining members.
func (h *Hub) leaveNamedRoom(id string) {
	roomKey, ok := h.joinedRoom[id]
	if !ok {
		return
	}
	username := h.Registry.UsernameOf(id)
	remaining, _ := h.Rooms.Leave(roomKey, id)
	delete(h.joinedRoom, id)
	if len(remaining) > 0 {
		h.broadcastTo(remaining, models.EvMessage, h.systemMessage(roomKey, username+" left the chat"))
		h.updateRoomUsers(roomKey)
	}
}

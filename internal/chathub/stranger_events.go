package chathub

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"omnichat/backend/internal/models"
	"omnichat/backend/internal/store"
)

var strangerAdjectives = []string{
	"Anonymous", "Mystery", "Secret", "Hidden", "Unknown", "Phantom",
	"Shadow", "Silent", "Quiet", "Invisible", "Stranger", "Random",
}

var strangerNouns = []string{
	"User", "Person", "Individual", "Someone", "Visitor", "Guest",
	"Wanderer", "Explorer", "Seeker", "Friend", "Companion", "Soul",
}

func generateStrangerUsername() string {
	return fmt.Sprintf("%s%s%d",
		strangerAdjectives[rand.Intn(len(strangerAdjectives))],
		strangerNouns[rand.Intn(len(strangerNouns))],
		100+rand.Intn(900))
}

// strangerRoomID builds a stable key for the pair room of two
// identities.
func strangerRoomID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("stranger_%s_%s", a, b)
}

func (h *Hub) handleEnterStrangerMode(id string) {
	username := generateStrangerUsername()
	h.strangerName[id] = username
	h.Registry.SetMode(id, store.ModeStranger)
	h.Log.Info("entered stranger mode", "client", id, "alias", username)

	h.send(id, models.EvStrangerModeEntered, models.StrangerModeEnteredPayload{
		Username: username,
		UserID:   id,
		Message:  `Welcome to Stranger Chat! Click "Find Stranger" to start.`,
	})
}

func (h *Hub) handleFindStranger(id string, raw []byte) {
	p, err := decode[models.FindStrangerPayload](raw)
	if err != nil {
		h.sendError(id, CodeValidation, models.EvFindStranger, "Malformed find_stranger payload")
		return
	}
	h.findStranger(id, p.Interests)
}

func (h *Hub) findStranger(id string, interests []string) {
	if _, ok := h.strangerName[id]; !ok {
		h.sendError(id, CodeStateConflict, models.EvFindStranger, "Not in stranger mode")
		return
	}

	// A paired identity must skip first; a repeated find is ignored.
	if _, paired := h.Matcher.PairingFor(id); paired {
		h.Log.Debug("find_stranger while paired ignored", "client", id)
		return
	}

	candidate, shared, found := h.Matcher.FindFor(id, interests)
	if !found {
		h.Matcher.Enqueue(id, interests)
		h.send(id, models.EvSearchingStranger, models.SearchingStrangerPayload{
			Message:   "Looking for a stranger...",
			Interests: interests,
		})
		return
	}

	h.createStrangerSession(id, candidate.ID, shared)
}

// createStrangerSession pairs two identities: ephemeral room, pairing
// record, and a stranger_found notice to each side with the other's
// info.
func (h *Hub) createStrangerSession(a, b string, shared []string) {
	roomID := strangerRoomID(a, b)
	h.Rooms.CreateEphemeral(roomID, a, b)
	h.Matcher.CreatePairing(roomID, a, b, shared)
	h.Log.Info("stranger match", "room", roomID, "a", a, "b", b, "shared", shared)

	h.send(a, models.EvStrangerFound, models.StrangerFoundPayload{
		Message:         "Stranger found! You can now start chatting.",
		RoomID:          roomID,
		PartnerID:       b,
		Username:        h.strangerName[b],
		SharedInterests: shared,
		CanVideoChat:    true,
	})
	h.send(b, models.EvStrangerFound, models.StrangerFoundPayload{
		Message:         "Stranger found! You can now start chatting.",
		RoomID:          roomID,
		PartnerID:       a,
		Username:        h.strangerName[a],
		SharedInterests: shared,
		CanVideoChat:    true,
	})
}

func (h *Hub) handleSkipStranger(id string, raw []byte) {
	p, err := decode[models.FindStrangerPayload](raw)
	if err != nil {
		h.sendError(id, CodeValidation, models.EvSkipStranger, "Malformed skip_stranger payload")
		return
	}
	if _, ok := h.strangerName[id]; !ok {
		h.sendError(id, CodeStateConflict, models.EvSkipStranger, "Not in stranger mode")
		return
	}

	// Tear down whichever state the identity is in, then search again.
	h.Matcher.Dequeue(id)
	h.teardownStrangerPairing(id, true)
	h.findStranger(id, p.Interests)
}

func (h *Hub) handleSendStrangerMessage(id string, raw []byte) {
	p, err := decode[models.StrangerMessagePayload](raw)
	if err != nil {
		h.sendError(id, CodeValidation, models.EvSendStrangerMessage, "Malformed send_stranger_message payload")
		return
	}

	pairing, ok := h.Matcher.PairingFor(id)
	if !ok {
		h.sendError(id, CodeStateConflict, models.EvSendStrangerMessage, "Not in a stranger chat session")
		return
	}

	msg := &models.Message{
		ID:        uuid.New().String(),
		Kind:      models.KindStranger,
		Content:   p.Message,
		Username:  h.strangerName[id],
		UserID:    id,
		Room:      pairing.RoomID,
		Timestamp: time.Now(),
		Status:    models.StatusSent,
	}
	if err := h.Messages.Put(msg); err != nil {
		h.sendError(id, CodeValidation, models.EvSendStrangerMessage, "Message needs text")
		return
	}

	h.broadcast(pairing.RoomID, models.EvStrangerMessage, msg)
}

// teardownStrangerPairing destroys the identity's live pairing, if
// any: ends the pair's call, notifies the former partner once, and
// drops the ephemeral room. Idempotent; callable from skip and from
// the disconnect cascade.
func (h *Hub) teardownStrangerPairing(id string, notifyPartner bool) {
	pairing, ok := h.Matcher.PairingFor(id)
	if !ok {
		return
	}
	partner := pairing.Other(id)

	if sess, ok := h.Calls.Get(pairing.RoomID); ok {
		h.Calls.End(sess.RoomID)
		h.send(partner, models.EvVideoCallEnded, models.SimpleMessagePayload{Message: "Video call ended"})
	}

	if notifyPartner {
		h.send(partner, models.EvStrangerDisconnect, models.StrangerDisconnectedPayload{
			Message: "Stranger has disconnected",
		})
	}

	h.Matcher.RemovePairing(pairing.RoomID)
	h.Rooms.Drop(pairing.RoomID)
	h.Log.Info("stranger pairing torn down", "room", pairing.RoomID, "by", id)
}

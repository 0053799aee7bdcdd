package chathub

import (
	"github.com/google/uuid"

	"omnichat/backend/internal/models"
	"omnichat/backend/internal/store"
)

// handleStartVideoCall initiates a call with the current stranger
// partner.
func (h *Hub) handleStartVideoCall(id string) {
	if _, ok := h.strangerName[id]; !ok {
		h.sendError(id, CodeStateConflict, models.EvStartVideoCall, "Please enter stranger mode first")
		return
	}

	pairing, ok := h.Matcher.PairingFor(id)
	if !ok {
		if h.Matcher.Waiting(id) {
			h.sendError(id, CodeNoPartner, models.EvStartVideoCall, "Still searching for stranger. Please wait.")
		} else {
			h.sendError(id, CodeNoPartner, models.EvStartVideoCall, "No stranger connected. Please find a stranger first.")
		}
		return
	}

	partner := pairing.Other(id)
	h.startCall(pairing.RoomID, id, partner, models.EvStartVideoCall)
}

// handleStartPrivateVideoCall pairs the caller with a named-chat target
// into an ad hoc ephemeral room and rings them.
func (h *Hub) handleStartPrivateVideoCall(id string, raw []byte) {
	p, err := decode[models.StartPrivateCallPayload](raw)
	if err != nil || p.TargetUserID == "" {
		h.sendError(id, CodeValidation, models.EvStartPrivateVideoCall, "Malformed start_private_video_call payload")
		return
	}
	if p.TargetUserID == id {
		h.sendError(id, CodeNoPartner, models.EvStartPrivateVideoCall, "Cannot call yourself")
		return
	}
	if _, ok := h.Registry.Lookup(p.TargetUserID); !ok {
		h.sendError(id, CodeNotFound, models.EvStartPrivateVideoCall, "Target user not found")
		return
	}

	// One session per party at a time. Without this, every call attempt
	// would mint a fresh room and pile up ringing sessions.
	if _, ok := h.Calls.ForMember(id); ok {
		h.sendError(id, CodeStateConflict, models.EvStartPrivateVideoCall, "You are already in a call")
		return
	}
	if _, ok := h.Calls.ForMember(p.TargetUserID); ok {
		h.sendError(id, CodeStateConflict, models.EvStartPrivateVideoCall, "Target user is already in a call")
		return
	}

	roomID := "call_" + uuid.New().String()
	h.Rooms.CreateEphemeral(roomID, id, p.TargetUserID)
	h.startCall(roomID, id, p.TargetUserID, models.EvStartPrivateVideoCall)
}

func (h *Hub) startCall(roomID, callerID, partnerID, op string) {
	sess, ok := h.Calls.Start(roomID, callerID, partnerID)
	if !ok {
		h.sendError(callerID, CodeStateConflict, op, "A call is already in progress for this room")
		return
	}
	h.Log.Info("call ringing", "room", roomID, "caller", callerID, "partner", partnerID)

	h.send(partnerID, models.EvIncomingVideoCall, models.IncomingVideoCallPayload{
		CallerID:       callerID,
		CallerUsername: h.usernameFor(callerID),
		RoomID:         roomID,
	})
	h.send(callerID, models.EvVideoCallInitiated, models.VideoCallInitiatedPayload{
		RoomID:    roomID,
		PartnerID: partnerID,
		Initiator: sess.InitiatorID,
	})
}

func (h *Hub) handleAcceptVideoCall(id string, raw []byte) {
	p, err := decode[models.CallRoomPayload](raw)
	if err != nil || p.RoomID == "" {
		h.sendError(id, CodeValidation, models.EvAcceptVideoCall, "Malformed accept_video_call payload")
		return
	}

	sess, ok := h.Calls.Get(p.RoomID)
	if !ok {
		h.sendError(id, CodeNotFound, models.EvAcceptVideoCall, "No call for this room")
		return
	}
	if sess.State != CallRinging {
		h.sendError(id, CodeStateConflict, models.EvAcceptVideoCall, "Call is not ringing")
		return
	}
	if sess.PartnerID != id {
		h.sendError(id, CodeNotAuthorized, models.EvAcceptVideoCall, "Only the called party can accept")
		return
	}

	sess.State = CallAccepted
	h.Log.Info("call accepted", "room", sess.RoomID)

	accepted := models.VideoCallAcceptedPayload{
		RoomID:    sess.RoomID,
		Initiator: sess.InitiatorID,
		Partner:   sess.PartnerID,
	}
	h.send(sess.InitiatorID, models.EvVideoCallAccepted, accepted)
	h.send(sess.PartnerID, models.EvVideoCallAccepted, accepted)
}

func (h *Hub) handleRejectVideoCall(id string, raw []byte) {
	p, err := decode[models.CallRoomPayload](raw)
	if err != nil || p.RoomID == "" {
		h.sendError(id, CodeValidation, models.EvRejectVideoCall, "Malformed reject_video_call payload")
		return
	}

	sess, ok := h.Calls.Get(p.RoomID)
	if !ok {
		h.sendError(id, CodeNotFound, models.EvRejectVideoCall, "No call for this room")
		return
	}
	if sess.State != CallRinging {
		h.sendError(id, CodeStateConflict, models.EvRejectVideoCall, "Call is not ringing")
		return
	}
	if sess.PartnerID != id {
		h.sendError(id, CodeNotAuthorized, models.EvRejectVideoCall, "Only the called party can reject")
		return
	}

	h.Calls.End(sess.RoomID)
	h.dropAdHocCallRoom(sess.RoomID)
	h.Log.Info("call rejected", "room", sess.RoomID)

	h.send(sess.InitiatorID, models.EvVideoCallRejected, models.SimpleMessagePayload{
		Message: "Video call was rejected",
	})
}

func (h *Hub) handleEndVideoCall(id string, raw []byte) {
	p, err := decode[models.CallRoomPayload](raw)
	if err != nil || p.RoomID == "" {
		h.sendError(id, CodeValidation, models.EvEndVideoCall, "Malformed end_video_call payload")
		return
	}

	sess, ok := h.Calls.Get(p.RoomID)
	if !ok {
		h.sendError(id, CodeNotFound, models.EvEndVideoCall, "No call for this room")
		return
	}
	if !sess.Has(id) {
		h.sendError(id, CodeNotAuthorized, models.EvEndVideoCall, "Not a member of this call")
		return
	}

	other := sess.Other(id)
	h.Calls.End(sess.RoomID)
	h.dropAdHocCallRoom(sess.RoomID)
	h.Log.Info("call ended", "room", sess.RoomID, "by", id)

	h.send(other, models.EvVideoCallEnded, models.SimpleMessagePayload{Message: "Video call ended"})
}

// handleWebRTCSignal relays an opaque offer/answer/candidate blob to
// the sender's one partner. Only two parties ever exist in a call, so
// the relay is a single targeted send, never a broadcast.
func (h *Hub) handleWebRTCSignal(id, event string, raw []byte) {
	partner, ok := h.signalPartner(id)
	if !ok {
		h.sendError(id, CodeNoPartner, event, "No active pairing to relay to")
		return
	}

	out := models.WebRTCRelayPayload{From: id}
	switch event {
	case models.EvWebRTCOffer:
		p, err := decode[models.WebRTCOfferPayload](raw)
		if err != nil || len(p.Offer) == 0 {
			h.sendError(id, CodeValidation, event, "Missing offer")
			return
		}
		out.Offer = p.Offer
	case models.EvWebRTCAnswer:
		p, err := decode[models.WebRTCAnswerPayload](raw)
		if err != nil || len(p.Answer) == 0 {
			h.sendError(id, CodeValidation, event, "Missing answer")
			return
		}
		out.Answer = p.Answer
	case models.EvWebRTCICECandidate:
		p, err := decode[models.WebRTCCandidatePayload](raw)
		if err != nil || len(p.Candidate) == 0 {
			h.sendError(id, CodeValidation, event, "Missing candidate")
			return
		}
		out.Candidate = p.Candidate
	}

	h.send(partner, event, out)
}

// signalPartner resolves who a signaling payload goes to: the stranger
// partner when paired, otherwise the other member of whatever call
// session the sender belongs to (the private-call case).
func (h *Hub) signalPartner(id string) (string, bool) {
	if pairing, ok := h.Matcher.PairingFor(id); ok {
		return pairing.Other(id), true
	}
	if sess, ok := h.Calls.ForMember(id); ok {
		return sess.Other(id), true
	}
	return "", false
}

// dropAdHocCallRoom removes a call's ephemeral room unless it belongs
// to a stranger pairing that outlives the call.
func (h *Hub) dropAdHocCallRoom(roomID string) {
	if _, paired := h.Matcher.PairingForRoom(roomID); paired {
		return
	}
	if rm, ok := h.Rooms.Get(roomID); ok && rm.Kind == store.RoomEphemeralPair {
		h.Rooms.Drop(roomID)
	}
}

package chathub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omnichat/backend/internal/models"
)

func TestCallTableOneSessionPerRoom(t *testing.T) {
	ct := NewCallTable()

	sess, ok := ct.Start("room-1", "a", "b")
	require.True(t, ok)
	assert.Equal(t, CallRinging, sess.State)

	_, ok = ct.Start("room-1", "c", "d")
	assert.False(t, ok)

	byMember, ok := ct.ForMember("b")
	require.True(t, ok)
	assert.Same(t, sess, byMember)

	ct.End("room-1")
	ct.End("room-1")
	assert.Zero(t, ct.Count())
}

func TestStartVideoCallRequiresPartner(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	enterStranger(t, h, alice)

	emit(t, h, "a", models.EvStartVideoCall, nil)
	ev := expectEvent(t, alice, models.EvError)
	assert.Equal(t, CodeNoPartner, ev.Data.(models.ErrorPayload).Code)

	// While still searching the message points at the search, but the
	// code is the same.
	emit(t, h, "a", models.EvFindStranger, models.FindStrangerPayload{})
	expectEvent(t, alice, models.EvSearchingStranger)
	emit(t, h, "a", models.EvStartVideoCall, nil)
	ev = expectEvent(t, alice, models.EvError)
	assert.Equal(t, CodeNoPartner, ev.Data.(models.ErrorPayload).Code)
}

func TestStrangerVideoCallFlow(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	bob := connect(t, h, "b")
	room := pairStrangers(t, h, alice, bob)

	emit(t, h, "a", models.EvStartVideoCall, nil)

	ring := expectEvent(t, bob, models.EvIncomingVideoCall).Data.(models.IncomingVideoCallPayload)
	assert.Equal(t, "a", ring.CallerID)
	assert.Equal(t, h.strangerName["a"], ring.CallerUsername)
	assert.Equal(t, room, ring.RoomID)

	initiated := expectEvent(t, alice, models.EvVideoCallInitiated).Data.(models.VideoCallInitiatedPayload)
	assert.Equal(t, "b", initiated.PartnerID)

	// Only the called party can accept.
	emit(t, h, "a", models.EvAcceptVideoCall, models.CallRoomPayload{RoomID: room})
	ev := expectEvent(t, alice, models.EvError)
	assert.Equal(t, CodeNotAuthorized, ev.Data.(models.ErrorPayload).Code)

	emit(t, h, "b", models.EvAcceptVideoCall, models.CallRoomPayload{RoomID: room})
	expectEvent(t, alice, models.EvVideoCallAccepted)
	accepted := expectEvent(t, bob, models.EvVideoCallAccepted).Data.(models.VideoCallAcceptedPayload)
	assert.Equal(t, "a", accepted.Initiator)

	// Accepting twice conflicts: the call is no longer ringing.
	emit(t, h, "b", models.EvAcceptVideoCall, models.CallRoomPayload{RoomID: room})
	ev = expectEvent(t, bob, models.EvError)
	assert.Equal(t, CodeStateConflict, ev.Data.(models.ErrorPayload).Code)

	emit(t, h, "a", models.EvEndVideoCall, models.CallRoomPayload{RoomID: room})
	expectEvent(t, bob, models.EvVideoCallEnded)
	assert.Zero(t, h.Calls.Count())

	// The stranger pairing survives its call.
	assert.Equal(t, 1, h.Matcher.ActivePairings())
	_, ok := h.Rooms.Get(room)
	assert.True(t, ok)
}

func TestPrivateVideoCallRejectFlow(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	bob := connect(t, h, "b")
	joinRoom(t, h, alice, "general", "alice")
	joinRoom(t, h, bob, "general", "bob")
	drain(alice)

	emit(t, h, "a", models.EvStartPrivateVideoCall, models.StartPrivateCallPayload{TargetUserID: "b"})
	ring := expectEvent(t, bob, models.EvIncomingVideoCall).Data.(models.IncomingVideoCallPayload)
	assert.Equal(t, "alice", ring.CallerUsername)
	expectEvent(t, alice, models.EvVideoCallInitiated)

	emit(t, h, "b", models.EvRejectVideoCall, models.CallRoomPayload{RoomID: ring.RoomID})
	expectEvent(t, alice, models.EvVideoCallRejected)

	assert.Zero(t, h.Calls.Count())
	_, ok := h.Rooms.Get(ring.RoomID)
	assert.False(t, ok, "the ad hoc call room is dropped with the call")
}

// One call session per party at a time: repeating the call must not
// stack up ringing sessions or leak call rooms.
func TestPrivateVideoCallSingleSessionPerParty(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	bob := connect(t, h, "b")
	carol := connect(t, h, "c")
	joinRoom(t, h, alice, "general", "alice")
	joinRoom(t, h, bob, "general", "bob")
	joinRoom(t, h, carol, "general", "carol")
	drain(alice)
	drain(bob)

	emit(t, h, "a", models.EvStartPrivateVideoCall, models.StartPrivateCallPayload{TargetUserID: "b"})
	ring := expectEvent(t, bob, models.EvIncomingVideoCall).Data.(models.IncomingVideoCallPayload)
	expectEvent(t, alice, models.EvVideoCallInitiated)

	emit(t, h, "a", models.EvStartPrivateVideoCall, models.StartPrivateCallPayload{TargetUserID: "b"})
	ev := expectEvent(t, alice, models.EvError)
	assert.Equal(t, CodeStateConflict, ev.Data.(models.ErrorPayload).Code)
	assert.Empty(t, drain(bob), "the callee is not rung twice")
	assert.Equal(t, 1, h.Calls.Count())
	assert.Len(t, h.Rooms.RoomsFor("a"), 2, "the named room plus one call room, no leaked rooms")

	// A busy callee cannot be rung by a third party either.
	emit(t, h, "c", models.EvStartPrivateVideoCall, models.StartPrivateCallPayload{TargetUserID: "b"})
	ev = expectEvent(t, carol, models.EvError)
	assert.Equal(t, CodeStateConflict, ev.Data.(models.ErrorPayload).Code)
	assert.Empty(t, drain(bob))
	assert.Equal(t, 1, h.Calls.Count())

	// Relays during the call have exactly one possible target.
	sess, ok := h.Calls.ForMember("a")
	require.True(t, ok)
	assert.Equal(t, ring.RoomID, sess.RoomID)

	// Once the call ends, calling again works.
	emit(t, h, "b", models.EvRejectVideoCall, models.CallRoomPayload{RoomID: ring.RoomID})
	expectEvent(t, alice, models.EvVideoCallRejected)
	emit(t, h, "a", models.EvStartPrivateVideoCall, models.StartPrivateCallPayload{TargetUserID: "b"})
	expectEvent(t, bob, models.EvIncomingVideoCall)
}

func TestPrivateVideoCallValidation(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")

	emit(t, h, "a", models.EvStartPrivateVideoCall, models.StartPrivateCallPayload{TargetUserID: "a"})
	ev := expectEvent(t, alice, models.EvError)
	assert.Equal(t, CodeNoPartner, ev.Data.(models.ErrorPayload).Code)

	emit(t, h, "a", models.EvStartPrivateVideoCall, models.StartPrivateCallPayload{TargetUserID: "ghost"})
	ev = expectEvent(t, alice, models.EvError)
	assert.Equal(t, CodeNotFound, ev.Data.(models.ErrorPayload).Code)
}

// Scenario: signaling frames go to the one partner and nobody else.
func TestWebRTCRelayReachesOnlyPartner(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	bob := connect(t, h, "b")
	carol := connect(t, h, "c")
	pairStrangers(t, h, alice, bob)
	enterStranger(t, h, carol)

	offer := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	emit(t, h, "a", models.EvWebRTCOffer, models.WebRTCOfferPayload{Offer: offer})

	ev := expectEvent(t, bob, models.EvWebRTCOffer)
	relay := ev.Data.(models.WebRTCRelayPayload)
	assert.Equal(t, "a", relay.From)
	assert.JSONEq(t, string(offer), string(relay.Offer), "payload is relayed untouched")
	assert.Empty(t, drain(alice))
	assert.Empty(t, drain(carol))

	answer := json.RawMessage(`{"type":"answer","sdp":"v=0"}`)
	emit(t, h, "b", models.EvWebRTCAnswer, models.WebRTCAnswerPayload{Answer: answer})
	ev = expectEvent(t, alice, models.EvWebRTCAnswer)
	assert.Equal(t, "b", ev.Data.(models.WebRTCRelayPayload).From)

	emit(t, h, "a", models.EvWebRTCICECandidate, models.WebRTCCandidatePayload{Candidate: json.RawMessage(`{"candidate":"cand"}`)})
	expectEvent(t, bob, models.EvWebRTCICECandidate)
}

func TestWebRTCRelayWithoutPairing(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")

	emit(t, h, "a", models.EvWebRTCOffer, models.WebRTCOfferPayload{Offer: json.RawMessage(`{}`)})
	ev := expectEvent(t, alice, models.EvError)
	assert.Equal(t, CodeNoPartner, ev.Data.(models.ErrorPayload).Code)
}

func TestWebRTCRelayMissingBlob(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	bob := connect(t, h, "b")
	pairStrangers(t, h, alice, bob)

	emit(t, h, "a", models.EvWebRTCOffer, map[string]any{})
	ev := expectEvent(t, alice, models.EvError)
	assert.Equal(t, CodeValidation, ev.Data.(models.ErrorPayload).Code)
	assert.Empty(t, drain(bob))
}

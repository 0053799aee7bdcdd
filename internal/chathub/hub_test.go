package chathub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omnichat/backend/internal/models"
)

func TestJoinRoomFlow(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	bob := connect(t, h, "b")

	emit(t, h, "a", models.EvJoinRoom, models.JoinRoomPayload{Room: "general", Username: "alice"})

	success := expectEvent(t, alice, models.EvJoinSuccess)
	p := success.Data.(models.JoinSuccessPayload)
	assert.Equal(t, "general", p.Room)
	assert.Equal(t, "joined", p.Status)

	welcome := expectEvent(t, alice, models.EvMessage)
	assert.Equal(t, models.KindSystem, welcome.Data.(*models.Message).Kind)

	roster := expectEvent(t, alice, models.EvRoomUsers)
	assert.Equal(t, 1, roster.Data.(models.RoomUsersPayload).Count)

	// Second member: existing members get the join notice and the new
	// roster, the joiner does not get their own join notice.
	emit(t, h, "b", models.EvJoinRoom, models.JoinRoomPayload{Room: "general", Username: "bob"})
	joined := expectEvent(t, alice, models.EvMessage)
	assert.Equal(t, "bob joined the chat", joined.Data.(*models.Message).Content)

	expectEvent(t, bob, models.EvJoinSuccess)
	welcome = expectEvent(t, bob, models.EvMessage)
	assert.Equal(t, "Welcome to general!", welcome.Data.(*models.Message).Content)
}

func TestJoinRoomDuplicateIgnored(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	joinRoom(t, h, alice, "general", "alice")

	emit(t, h, "a", models.EvJoinRoom, models.JoinRoomPayload{Room: "other", Username: "alice"})
	assert.Empty(t, drain(alice))
	assert.Equal(t, []string{"a"}, h.Rooms.Members("general"))
}

func TestJoinRoomValidation(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")

	emit(t, h, "a", models.EvJoinRoom, models.JoinRoomPayload{Username: "alice"})
	ev := expectEvent(t, alice, models.EvError)
	assert.Equal(t, CodeValidation, ev.Data.(models.ErrorPayload).Code)

	emit(t, h, "a", models.EvJoinRoom, models.JoinRoomPayload{Room: "general", Username: "  "})
	ev = expectEvent(t, alice, models.EvError)
	assert.Equal(t, CodeValidation, ev.Data.(models.ErrorPayload).Code)
}

// Scenario: a member's messages reach every room member, sender
// included, and are never seen outside the room.
func TestSendMessageBroadcast(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	bob := connect(t, h, "b")
	carol := connect(t, h, "c")
	joinRoom(t, h, alice, "general", "alice")
	joinRoom(t, h, bob, "general", "bob")
	joinRoom(t, h, carol, "lounge", "carol")
	drain(alice)

	emit(t, h, "a", models.EvSendMessage, models.SendMessagePayload{Message: "hi all"})

	for _, c := range []*MockClient{alice, bob} {
		ev := expectEvent(t, c, models.EvMessage)
		msg := ev.Data.(*models.Message)
		assert.Equal(t, "hi all", msg.Content)
		assert.Equal(t, "alice", msg.Username)
		assert.Equal(t, models.KindRoom, msg.Kind)
	}
	assert.Empty(t, drain(carol), "other rooms never see the message")
}

func TestSendMessageRequiresJoin(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")

	emit(t, h, "a", models.EvSendMessage, models.SendMessagePayload{Message: "hi"})
	ev := expectEvent(t, alice, models.EvError)
	assert.Equal(t, CodeStateConflict, ev.Data.(models.ErrorPayload).Code)
}

func TestSendReplyCarriesSnapshot(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	joinRoom(t, h, alice, "general", "alice")

	long := ""
	for i := 0; i < 60; i++ {
		long += "x"
	}
	emit(t, h, "a", models.EvSendReply, models.SendReplyPayload{
		ReplyToID:       "orig-1",
		ReplyToUsername: "bob",
		ReplyToContent:  long,
		Message:         "agreed",
	})

	ev := expectEvent(t, alice, models.EvMessage)
	msg := ev.Data.(*models.Message)
	require.NotNil(t, msg.ReplyTo)
	assert.Equal(t, "orig-1", msg.ReplyTo.MessageID)
	assert.Len(t, []rune(msg.ReplyTo.Content), 53, "50 runes plus ellipsis")
}

func TestEditMessageAuthorOnly(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	bob := connect(t, h, "b")
	joinRoom(t, h, alice, "general", "alice")
	joinRoom(t, h, bob, "general", "bob")
	drain(alice)

	emit(t, h, "a", models.EvSendMessage, models.SendMessagePayload{Message: "draft"})
	msg := expectEvent(t, alice, models.EvMessage).Data.(*models.Message)
	drain(bob)

	// Bob cannot edit Alice's message; the error goes only to Bob.
	emit(t, h, "b", models.EvEditMessage, models.EditMessagePayload{MessageID: msg.ID, NewContent: "hacked"})
	ev := expectEvent(t, bob, models.EvError)
	assert.Equal(t, CodeNotAuthorized, ev.Data.(models.ErrorPayload).Code)
	assert.Empty(t, drain(alice))

	emit(t, h, "a", models.EvEditMessage, models.EditMessagePayload{MessageID: msg.ID, NewContent: "final"})
	for _, c := range []*MockClient{alice, bob} {
		ev := expectEvent(t, c, models.EvMessageEdited)
		p := ev.Data.(models.MessageEditedPayload)
		assert.Equal(t, "final", p.NewContent)
		assert.NotEmpty(t, p.EditedAt)
	}
}

func TestSystemMessagesNotEditable(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	emit(t, h, "a", models.EvJoinRoom, models.JoinRoomPayload{Room: "general", Username: "alice"})
	expectEvent(t, alice, models.EvJoinSuccess)
	welcome := expectEvent(t, alice, models.EvMessage).Data.(*models.Message)
	require.Equal(t, models.KindSystem, welcome.Kind)
	drain(alice)

	// Not even the member the welcome was addressed to can edit it.
	emit(t, h, "a", models.EvEditMessage, models.EditMessagePayload{MessageID: welcome.ID, NewContent: "hacked"})
	ev := expectEvent(t, alice, models.EvError)
	assert.Equal(t, CodeStateConflict, ev.Data.(models.ErrorPayload).Code)
}

func TestDeleteMessageRemovesIt(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	joinRoom(t, h, alice, "general", "alice")

	emit(t, h, "a", models.EvSendMessage, models.SendMessagePayload{Message: "oops"})
	msg := expectEvent(t, alice, models.EvMessage).Data.(*models.Message)

	emit(t, h, "a", models.EvDeleteMessage, models.DeleteMessagePayload{MessageID: msg.ID})
	ev := expectEvent(t, alice, models.EvMessageDeleted)
	assert.Equal(t, msg.ID, ev.Data.(models.MessageDeletedPayload).MessageID)

	emit(t, h, "a", models.EvEditMessage, models.EditMessagePayload{MessageID: msg.ID, NewContent: "x"})
	ev = expectEvent(t, alice, models.EvError)
	assert.Equal(t, CodeNotFound, ev.Data.(models.ErrorPayload).Code)
}

func TestReactionEvents(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	bob := connect(t, h, "b")
	joinRoom(t, h, alice, "general", "alice")
	joinRoom(t, h, bob, "general", "bob")
	drain(alice)

	emit(t, h, "a", models.EvSendMessage, models.SendMessagePayload{Message: "react to this"})
	msg := expectEvent(t, alice, models.EvMessage).Data.(*models.Message)
	drain(bob)

	emit(t, h, "b", models.EvAddReaction, models.ReactionPayload{MessageID: msg.ID, Emoji: "👍"})
	for _, c := range []*MockClient{alice, bob} {
		ev := expectEvent(t, c, models.EvReactionUpdated)
		p := ev.Data.(models.ReactionUpdatedPayload)
		require.Len(t, p.Reactions, 1)
		assert.Equal(t, []string{"bob"}, p.Reactions[0].Users)
	}

	emit(t, h, "b", models.EvRemoveReaction, models.ReactionPayload{MessageID: msg.ID, Emoji: "👍"})
	ev := expectEvent(t, bob, models.EvReactionUpdated)
	assert.Empty(t, ev.Data.(models.ReactionUpdatedPayload).Reactions)

	emit(t, h, "b", models.EvAddReaction, models.ReactionPayload{MessageID: "missing", Emoji: "👍"})
	errEv := expectEvent(t, bob, models.EvError)
	assert.Equal(t, CodeNotFound, errEv.Data.(models.ErrorPayload).Code)
}

func TestPrivateMessageRouting(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	bob := connect(t, h, "b")
	carol := connect(t, h, "c")
	joinRoom(t, h, alice, "general", "alice")
	joinRoom(t, h, bob, "general", "bob")
	joinRoom(t, h, carol, "general", "carol")
	drain(alice)
	drain(bob)

	emit(t, h, "a", models.EvPrivateMessage, models.PrivateMessagePayload{Message: "psst", To: "b"})

	got := expectEvent(t, bob, models.EvPrivateMessage).Data.(*models.Message)
	assert.Equal(t, models.KindPrivate, got.Kind)
	assert.Equal(t, "psst", got.Content)
	assert.False(t, got.FromSelf)

	echo := expectEvent(t, alice, models.EvPrivateMessage).Data.(*models.Message)
	assert.True(t, echo.FromSelf)
	assert.Equal(t, got.ID, echo.ID)

	assert.Empty(t, drain(carol), "third parties never see private messages")
}

func TestPrivateMessageUnknownRecipient(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	joinRoom(t, h, alice, "general", "alice")

	emit(t, h, "a", models.EvPrivateMessage, models.PrivateMessagePayload{Message: "psst", To: "ghost"})
	ev := expectEvent(t, alice, models.EvError)
	assert.Equal(t, CodeNotFound, ev.Data.(models.ErrorPayload).Code)
}

func TestTypingSkipsSender(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	bob := connect(t, h, "b")
	joinRoom(t, h, alice, "general", "alice")
	joinRoom(t, h, bob, "general", "bob")
	drain(alice)

	emit(t, h, "a", models.EvTypingStart, models.TypingPayload{Room: "general"})

	ev := expectEvent(t, bob, models.EvUserTyping)
	p := ev.Data.(models.UserTypingPayload)
	assert.True(t, p.Typing)
	assert.Equal(t, "alice", p.Username)
	assert.Empty(t, drain(alice), "sender never receives their own typing event")

	emit(t, h, "a", models.EvTypingStop, models.TypingPayload{Room: "general"})
	ev = expectEvent(t, bob, models.EvUserTyping)
	assert.False(t, ev.Data.(models.UserTypingPayload).Typing)
}

func TestTypingRequiresJoinedRoom(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	mallory := connect(t, h, "m")
	joinRoom(t, h, alice, "general", "alice")

	// Naming a room in the payload is not enough; the sender must be a
	// member.
	emit(t, h, "m", models.EvTypingStart, models.TypingPayload{Room: "general"})
	assert.Empty(t, drain(alice))
	assert.Empty(t, drain(mallory))
}

func TestPingPong(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")

	emit(t, h, "a", models.EvPing, nil)
	expectEvent(t, alice, models.EvPong)
}

// Scenario: disconnecting tears down every piece of state the
// connection held, in one pass, and notifies the people affected.
func TestDisconnectCascade(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	bob := connect(t, h, "b")
	joinRoom(t, h, alice, "general", "alice")
	joinRoom(t, h, bob, "general", "bob")
	drain(alice)

	h.handleUnregister(alice)

	left := expectEvent(t, bob, models.EvMessage).Data.(*models.Message)
	assert.Equal(t, "alice left the chat", left.Content)
	roster := expectEvent(t, bob, models.EvRoomUsers).Data.(models.RoomUsersPayload)
	assert.Equal(t, 1, roster.Count)

	assert.Equal(t, []string{"b"}, h.Rooms.Members("general"))
	_, ok := h.Registry.Lookup("a")
	assert.False(t, ok)
	assert.True(t, alice.closed)

	// The cascade is idempotent.
	h.handleUnregister(alice)
	assert.Empty(t, drain(bob))
}

func TestDisconnectWhileSearchingLeavesNoQueueEntry(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	enterStranger(t, h, alice)
	emit(t, h, "a", models.EvFindStranger, models.FindStrangerPayload{})
	expectEvent(t, alice, models.EvSearchingStranger)

	h.handleUnregister(alice)
	assert.Zero(t, h.Matcher.WaitingCount())

	// A later searcher must not be matched with the vanished identity.
	bob := connect(t, h, "b")
	enterStranger(t, h, bob)
	emit(t, h, "b", models.EvFindStranger, models.FindStrangerPayload{})
	expectEvent(t, bob, models.EvSearchingStranger)
}

func TestSnapshotCounts(t *testing.T) {
	h := newTestHub()
	alice := connect(t, h, "a")
	bob := connect(t, h, "b")
	joinRoom(t, h, alice, "general", "alice")
	joinRoom(t, h, bob, "general", "bob")
	emit(t, h, "a", models.EvSendMessage, models.SendMessagePayload{Message: "hi"})

	snap := h.snapshot()
	assert.Equal(t, 2, snap.Clients)
	assert.Equal(t, 1, snap.Rooms)
	assert.Equal(t, map[string]int{"general": 2}, snap.RoomSizes)
	assert.Zero(t, snap.Waiting)
}

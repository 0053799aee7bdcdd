package chathub

import (
	"encoding/json"
	"log/slog"

	"omnichat/backend/internal/models"
	"omnichat/backend/internal/store"
)

// Inbound is one decoded frame from one connection, queued for the hub
// goroutine.
type Inbound struct {
	ClientID string
	Event    models.ClientEvent
}

// Hub owns every piece of shared state: the connection registry, the
// room directory, the message store, the matchmaker pool and the call
// table. All of it is mutated only from the Run goroutine, so each
// inbound event is handled to completion before the next one starts.
type Hub struct {
	Log *slog.Logger

	Clients  map[string]Client
	Registry *store.Registry
	Rooms    *store.Directory
	Messages *store.MessageStore
	Matcher  *Matcher
	Calls    *CallTable

	RegisterCh   chan Client
	UnregisterCh chan Client
	InboundCh    chan Inbound

	snapshotCh chan chan Snapshot

	// joinedRoom tracks each connection's current named room, and
	// strangerName the anonymous username assigned in stranger mode.
	joinedRoom   map[string]string
	strangerName map[string]string
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		Log:          log,
		Clients:      make(map[string]Client),
		Registry:     store.NewRegistry(),
		Rooms:        store.NewDirectory(),
		Messages:     store.NewMessageStore(),
		Matcher:      NewMatcher(),
		Calls:        NewCallTable(),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		InboundCh:    make(chan Inbound),
		snapshotCh:   make(chan chan Snapshot),
		joinedRoom:   make(map[string]string),
		strangerName: make(map[string]string),
	}
}

// Run is the hub's single event loop.
func (h *Hub) Run() {
	h.Log.Info("hub started")
	for {
		select {
		case c := <-h.RegisterCh:
			h.handleRegister(c)
		case c := <-h.UnregisterCh:
			h.handleUnregister(c)
		case in := <-h.InboundCh:
			h.dispatch(in.ClientID, in.Event)
		case reply := <-h.snapshotCh:
			reply <- h.snapshot()
		}
	}
}

// Snapshot is a point-in-time view of hub state for the observability
// endpoints.
type Snapshot struct {
	Clients        int
	Rooms          int
	RoomSizes      map[string]int
	Messages       int
	Waiting        int
	Pairings       int
	Calls          int
	InterestQueues map[string]int
	StrangerUsers  int
}

// Snapshot asks the hub goroutine for its current state, so readers
// never race the event loop.
func (h *Hub) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	h.snapshotCh <- reply
	return <-reply
}

func (h *Hub) snapshot() Snapshot {
	return Snapshot{
		Clients:        len(h.Clients),
		Rooms:          h.Rooms.Count(),
		RoomSizes:      h.Rooms.Sizes(),
		Messages:       h.Messages.Count(),
		Waiting:        h.Matcher.WaitingCount(),
		Pairings:       h.Matcher.ActivePairings(),
		Calls:          h.Calls.Count(),
		InterestQueues: h.Matcher.InterestQueueSizes(),
		StrangerUsers:  len(h.strangerName),
	}
}

func (h *Hub) handleRegister(c Client) {
	id := c.GetID()
	h.Clients[id] = c
	h.Registry.Register(id)
	h.Log.Info("client connected", "client", id)

	h.send(id, models.EvConnectionOptions, models.ConnectionOptionsPayload{
		Modes:   []string{"chat_rooms", "stranger_chat"},
		Message: "Choose your chat mode",
	})
}

// handleUnregister runs the full disconnect cascade. It is idempotent:
// a connection already torn down is skipped.
func (h *Hub) handleUnregister(c Client) {
	id := c.GetID()
	if _, ok := h.Clients[id]; !ok {
		return
	}
	h.Log.Info("client disconnected", "client", id)
	h.teardownConnection(id)
	delete(h.Clients, id)
	c.Close()
}

// teardownConnection is the single ordered cleanup routine: room leave
// with presence broadcast, matchmaker cancel or pairing teardown, call
// teardown, then registry removal.
func (h *Hub) teardownConnection(id string) {
	// 1. Named room.
	h.leaveNamedRoom(id)

	// 2. Matchmaker: cancel an outstanding search, or tear down the
	// live pairing (which also ends its call and drops the pair room).
	h.Matcher.Dequeue(id)
	h.teardownStrangerPairing(id, true)

	// 3. Any remaining call scoped to an ad hoc pairing.
	if sess, ok := h.Calls.ForMember(id); ok {
		other := sess.Other(id)
		h.Calls.End(sess.RoomID)
		h.dropAdHocCallRoom(sess.RoomID)
		h.send(other, models.EvVideoCallEnded, models.SimpleMessagePayload{Message: "Video call ended"})
	}

	// 4. Identity.
	h.Registry.MarkOffline(id)
	h.Registry.Remove(id)
	delete(h.strangerName, id)
}

func (h *Hub) dispatch(id string, ev models.ClientEvent) {
	switch ev.Event {
	case models.EvJoinRoom:
		h.handleJoinRoom(id, ev.Data)
	case models.EvSendMessage:
		h.handleSendMessage(id, ev.Data)
	case models.EvEditMessage:
		h.handleEditMessage(id, ev.Data)
	case models.EvDeleteMessage:
		h.handleDeleteMessage(id, ev.Data)
	case models.EvPrivateMessage:
		h.handlePrivateMessage(id, ev.Data)
	case models.EvSendReply:
		h.handleSendReply(id, ev.Data)
	case models.EvAddReaction:
		h.handleAddReaction(id, ev.Data)
	case models.EvRemoveReaction:
		h.handleRemoveReaction(id, ev.Data)
	case models.EvTypingStart:
		h.handleTyping(id, ev.Data, true)
	case models.EvTypingStop:
		h.handleTyping(id, ev.Data, false)
	case models.EvEnterStrangerMode:
		h.handleEnterStrangerMode(id)
	case models.EvFindStranger:
		h.handleFindStranger(id, ev.Data)
	case models.EvSkipStranger:
		h.handleSkipStranger(id, ev.Data)
	case models.EvSendStrangerMessage:
		h.handleSendStrangerMessage(id, ev.Data)
	case models.EvStartVideoCall:
		h.handleStartVideoCall(id)
	case models.EvStartPrivateVideoCall:
		h.handleStartPrivateVideoCall(id, ev.Data)
	case models.EvAcceptVideoCall:
		h.handleAcceptVideoCall(id, ev.Data)
	case models.EvRejectVideoCall:
		h.handleRejectVideoCall(id, ev.Data)
	case models.EvEndVideoCall:
		h.handleEndVideoCall(id, ev.Data)
	case models.EvWebRTCOffer, models.EvWebRTCAnswer, models.EvWebRTCICECandidate:
		h.handleWebRTCSignal(id, ev.Event, ev.Data)
	case models.EvPing:
		h.send(id, models.EvPong, models.SimpleMessagePayload{Message: "Server received ping"})
	default:
		h.Log.Debug("unknown event", "client", id, "event", ev.Event)
	}
}

// send delivers one event to one connection. The channel send never
// blocks the hub: a dead or saturated client just misses the event.
func (h *Hub) send(id, event string, data any) {
	c, ok := h.Clients[id]
	if !ok {
		return
	}
	select {
	case c.GetSendChannel() <- models.ServerEvent{Event: event, Data: data}:
	default:
		h.Log.Warn("dropping event for slow client", "client", id, "event", event)
	}
}

// broadcast delivers an event to every member of a room, minus skip.
func (h *Hub) broadcast(roomKey, event string, data any, skip ...string) {
	h.broadcastTo(h.Rooms.Members(roomKey), event, data, skip...)
}

func (h *Hub) broadcastTo(ids []string, event string, data any, skip ...string) {
	for _, id := range ids {
		skipped := false
		for _, s := range skip {
			if id == s {
				skipped = true
				break
			}
		}
		if !skipped {
			h.send(id, event, data)
		}
	}
}

func (h *Hub) sendError(id, code, op, message string) {
	h.send(id, models.EvError, models.ErrorPayload{Code: code, Op: op, Message: message})
}

// usernameFor resolves the display name for a connection: the assigned
// anonymous name in stranger mode, otherwise the joined username.
func (h *Hub) usernameFor(id string) string {
	if name, ok := h.strangerName[id]; ok {
		return name
	}
	return h.Registry.UsernameOf(id)
}

// decode unmarshals an event payload. A missing payload decodes to the
// zero value; required fields are checked by the handlers.
func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	err := json.Unmarshal(raw, &v)
	return v, err
}

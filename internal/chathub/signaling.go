package chathub

import "time"

// Call states.
const (
	CallRinging  = "ringing"
	CallAccepted = "accepted"
)

// CallSession is one video-call attempt between exactly two parties,
// scoped to a room. The server never interprets the signaling payloads
// the session exists to relay.
type CallSession struct {
	RoomID      string
	InitiatorID string
	PartnerID   string
	State       string
	StartedAt   time.Time
}

// Other returns the session member that is not the given one.
func (s *CallSession) Other(id string) string {
	if s.InitiatorID == id {
		return s.PartnerID
	}
	return s.InitiatorID
}

func (s *CallSession) Has(id string) bool {
	return s.InitiatorID == id || s.PartnerID == id
}

// CallTable tracks the active call session per room. One session per
// pairing at a time; hub-goroutine only.
type CallTable struct {
	byRoom map[string]*CallSession
}

func NewCallTable() *CallTable {
	return &CallTable{byRoom: make(map[string]*CallSession)}
}

// Start creates a ringing session. Fails if the room already has one.
func (t *CallTable) Start(roomID, initiatorID, partnerID string) (*CallSession, bool) {
	if _, ok := t.byRoom[roomID]; ok {
		return nil, false
	}
	sess := &CallSession{
		RoomID:      roomID,
		InitiatorID: initiatorID,
		PartnerID:   partnerID,
		State:       CallRinging,
		StartedAt:   time.Now(),
	}
	t.byRoom[roomID] = sess
	return sess, true
}

func (t *CallTable) Get(roomID string) (*CallSession, bool) {
	sess, ok := t.byRoom[roomID]
	return sess, ok
}

// ForMember finds the session the identity is part of, if any.
func (t *CallTable) ForMember(id string) (*CallSession, bool) {
	for _, sess := range t.byRoom {
		if sess.Has(id) {
			return sess, true
		}
	}
	return nil, false
}

// End removes the session. Safe to call for an unknown room.
func (t *CallTable) End(roomID string) {
	delete(t.byRoom, roomID)
}

func (t *CallTable) Count() int { return len(t.byRoom) }

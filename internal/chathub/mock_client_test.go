package chathub

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"omnichat/backend/internal/models"
)

// MockClient records everything the hub sends it in a buffered channel
// so tests can assert on the exact event stream per connection.
type MockClient struct {
	id   string
	Recv chan models.ServerEvent

	closed bool
}

func NewMockClient(id string) *MockClient {
	return &MockClient{id: id, Recv: make(chan models.ServerEvent, 64)}
}

func (m *MockClient) GetID() string { return m.id }

func (m *MockClient) GetSendChannel() chan<- models.ServerEvent { return m.Recv }

func (m *MockClient) Run() {}

func (m *MockClient) Close() { m.closed = true }

// newTestHub builds a hub whose handlers the tests drive directly, so
// no goroutine or sleep is involved.
func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// connect registers a mock client and discards the connection_options
// greeting.
func connect(t *testing.T, h *Hub, id string) *MockClient {
	t.Helper()
	c := NewMockClient(id)
	h.handleRegister(c)
	ev := recvEvent(t, c)
	require.Equal(t, models.EvConnectionOptions, ev.Event)
	return c
}

// emit feeds one event through the hub dispatcher as if it arrived on
// the wire.
func emit(t *testing.T, h *Hub, id, event string, payload any) {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		raw = b
	}
	h.dispatch(id, models.ClientEvent{Event: event, Data: raw})
}

func recvEvent(t *testing.T, c *MockClient) models.ServerEvent {
	t.Helper()
	select {
	case ev := <-c.Recv:
		return ev
	default:
		t.Fatalf("client %s: expected an event, got none", c.id)
		return models.ServerEvent{}
	}
}

// expectEvent pops the next event and asserts its name.
func expectEvent(t *testing.T, c *MockClient, event string) models.ServerEvent {
	t.Helper()
	ev := recvEvent(t, c)
	require.Equal(t, event, ev.Event, "client %s", c.id)
	return ev
}

// drain empties the client's event buffer, returning what was in it.
func drain(c *MockClient) []models.ServerEvent {
	var out []models.ServerEvent
	for {
		select {
		case ev := <-c.Recv:
			out = append(out, ev)
		default:
			return out
		}
	}
}

// joinRoom runs the full join flow for a mock client and drains the
// join_success, welcome, and roster events.
func joinRoom(t *testing.T, h *Hub, c *MockClient, room, username string) {
	t.Helper()
	emit(t, h, c.id, models.EvJoinRoom, models.JoinRoomPayload{Room: room, Username: username})
	expectEvent(t, c, models.EvJoinSuccess)
	drain(c)
}

// enterStranger puts a mock client into stranger mode and returns its
// assigned alias.
func enterStranger(t *testing.T, h *Hub, c *MockClient) string {
	t.Helper()
	emit(t, h, c.id, models.EvEnterStrangerMode, nil)
	ev := expectEvent(t, c, models.EvStrangerModeEntered)
	p, ok := ev.Data.(models.StrangerModeEnteredPayload)
	require.True(t, ok)
	return p.Username
}

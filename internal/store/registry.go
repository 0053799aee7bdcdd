package store

import (
	"strings"
	"time"
)

// Identity modes.
const (
	ModeRegular  = "regular"
	ModeStranger = "stranger"
)

// Identity is the session handle for one live connection. It is owned
// by the Registry; every other structure refers to it by ID only.
type Identity struct {
	ID          string
	Username    string
	Online      bool
	Mode        string
	ConnectedAt time.Time
}

// Registry tracks every connected identity. It is only ever touched
// from the hub goroutine, so it carries no lock of its own.
type Registry struct {
	identities map[string]*Identity
}

func NewRegistry() *Registry {
	return &Registry{identities: make(map[string]*Identity)}
}

// Register creates the identity for a fresh connection. The identity
// stays offline until a username is set at join time.
func (r *Registry) Register(id string) *Identity {
	ident := &Identity{
		ID:          id,
		Mode:        ModeRegular,
		ConnectedAt: time.Now(),
	}
	r.identities[id] = ident
	return ident
}

// SetUsername records the self-asserted username and marks the identity
// online. Whitespace-only names are rejected.
func (r *Registry) SetUsername(id, username string) error {
	ident, ok := r.identities[id]
	if !ok {
		return ErrIdentityNotFound
	}
	if strings.TrimSpace(username) == "" {
		return ErrInvalidUsername
	}
	ident.Username = username
	ident.Online = true
	return nil
}

func (r *Registry) SetMode(id, mode string) {
	if ident, ok := r.identities[id]; ok {
		ident.Mode = mode
	}
}

// MarkOffline flags the identity as gone. Safe to call twice.
func (r *Registry) MarkOffline(id string) {
	if ident, ok := r.identities[id]; ok {
		ident.Online = false
	}
}

// Remove destroys the identity. Safe to call twice.
func (r *Registry) Remove(id string) {
	delete(r.identities, id)
}

func (r *Registry) Lookup(id string) (*Identity, bool) {
	ident, ok := r.identities[id]
	return ident, ok
}

// UsernameOf returns the identity's username, or "Anonymous" when it
// never joined with one.
func (r *Registry) UsernameOf(id string) string {
	if ident, ok := r.identities[id]; ok && ident.Username != "" {
		return ident.Username
	}
	return "Anonymous"
}

func (r *Registry) Count() int { return len(r.identities) }

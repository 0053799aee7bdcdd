package store

// Room kinds.
const (
	RoomNamed         = "named"
	RoomEphemeralPair = "ephemeral-pair"
)

// Room is a named or ephemeral set of identities that receive
// broadcasts together. Member order is join order.
type Room struct {
	Key     string
	Kind    string
	members []string
	present map[string]struct{}
}

func (rm *Room) Members() []string {
	out := make([]string, len(rm.members))
	copy(out, rm.members)
	return out
}

func (rm *Room) Has(id string) bool {
	_, ok := rm.present[id]
	return ok
}

func (rm *Room) Len() int { return len(rm.members) }

func (rm *Room) add(id string) {
	if _, ok := rm.present[id]; ok {
		return
	}
	rm.present[id] = struct{}{}
	rm.members = append(rm.members, id)
}

func (rm *Room) remove(id string) {
	if _, ok := rm.present[id]; !ok {
		return
	}
	delete(rm.present, id)
	for i, m := range rm.members {
		if m == id {
			rm.members = append(rm.members[:i], rm.members[i+1:]...)
			break
		}
	}
}

// Directory maps room keys to member sets. Hub-goroutine only, like
// the Registry.
type Directory struct {
	rooms    map[string]*Room
	byMember map[string]map[string]struct{}
}

func NewDirectory() *Directory {
	return &Directory{
		rooms:    make(map[string]*Room),
		byMember: make(map[string]map[string]struct{}),
	}
}

func newRoom(key, kind string) *Room {
	return &Room{Key: key, Kind: kind, present: make(map[string]struct{})}
}

// Join adds the identity to a room. Named rooms are created lazily on
// first join; ephemeral rooms must already exist.
func (d *Directory) Join(key, id string) (*Room, error) {
	rm, ok := d.rooms[key]
	if !ok {
		rm = newRoom(key, RoomNamed)
		d.rooms[key] = rm
	}
	rm.add(id)
	d.index(id, key)
	return rm, nil
}

// JoinEphemeral adds the identity only if the ephemeral room exists.
func (d *Directory) JoinEphemeral(key, id string) (*Room, error) {
	rm, ok := d.rooms[key]
	if !ok {
		return nil, ErrRoomNotFound
	}
	rm.add(id)
	d.index(id, key)
	return rm, nil
}

// CreateEphemeral builds the two-member pair room for a match or an ad
// hoc call pairing.
func (d *Directory) CreateEphemeral(key, a, b string) *Room {
	rm := newRoom(key, RoomEphemeralPair)
	rm.add(a)
	rm.add(b)
	d.rooms[key] = rm
	d.index(a, key)
	d.index(b, key)
	return rm
}

// Leave removes the identity from the room. For an ephemeral pair the
// whole room is torn down and the former partner ids are returned; for
// a named room the remaining members are returned and the room is
// dropped once empty.
func (d *Directory) Leave(key, id string) (remaining []string, tornDown bool) {
	rm, ok := d.rooms[key]
	if !ok {
		return nil, false
	}
	rm.remove(id)
	d.unindex(id, key)

	if rm.Kind == RoomEphemeralPair {
		remaining = rm.Members()
		for _, other := range remaining {
			d.unindex(other, key)
		}
		delete(d.rooms, key)
		return remaining, true
	}

	if rm.Len() == 0 {
		delete(d.rooms, key)
		return nil, false
	}
	return rm.Members(), false
}

// Drop removes a room and all membership indexes without notifying
// anyone. Used when pairing teardown already handled notifications.
func (d *Directory) Drop(key string) {
	rm, ok := d.rooms[key]
	if !ok {
		return
	}
	for _, m := range rm.Members() {
		d.unindex(m, key)
	}
	delete(d.rooms, key)
}

func (d *Directory) Get(key string) (*Room, bool) {
	rm, ok := d.rooms[key]
	return rm, ok
}

func (d *Directory) Members(key string) []string {
	if rm, ok := d.rooms[key]; ok {
		return rm.Members()
	}
	return nil
}

// RoomsFor lists the keys of every room the identity belongs to.
func (d *Directory) RoomsFor(id string) []string {
	keys := make([]string, 0, len(d.byMember[id]))
	for k := range d.byMember[id] {
		keys = append(keys, k)
	}
	return keys
}

func (d *Directory) Count() int { return len(d.rooms) }

// Sizes reports member counts per room, for the debug endpoints.
func (d *Directory) Sizes() map[string]int {
	out := make(map[string]int, len(d.rooms))
	for k, rm := range d.rooms {
		out[k] = rm.Len()
	}
	return out
}

func (d *Directory) index(id, key string) {
	if d.byMember[id] == nil {
		d.byMember[id] = make(map[string]struct{})
	}
	d.byMember[id][key] = struct{}{}
}

func (d *Directory) unindex(id, key string) {
	if set, ok := d.byMember[id]; ok {
		delete(set, key)
		if len(set) == 0 {
			delete(d.byMember, id)
		}
	}
}

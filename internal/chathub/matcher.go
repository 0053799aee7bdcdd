package chathub

import "time"

// WaitingEntry is one identity sitting in the stranger waiting pool.
type WaitingEntry struct {
	ID         string
	Interests  []string
	EnqueuedAt time.Time

	interestSet map[string]struct{}
	seq         uint64
}

// Pairing is the relationship of exactly two identities currently
// matched for stranger chat.
type Pairing struct {
	RoomID          string
	MemberA         string
	MemberB         string
	SharedInterests []string
}

// Other returns the partner of the given member.
func (p *Pairing) Other(id string) string {
	if p.MemberA == id {
		return p.MemberB
	}
	return p.MemberA
}

func (p *Pairing) Has(id string) bool {
	return p.MemberA == id || p.MemberB == id
}

// Matcher owns the waiting pool, an interest-tag index over it, and
// the table of live pairings. Like every other hub store it is only
// touched from the hub goroutine, which makes enqueue, match and
// cancel atomic relative to each other: a cancelled entry can never
// be matched, because both operations run on the same goroutine.
type Matcher struct {
	waiting    map[string]*WaitingEntry
	byInterest map[string]map[string]struct{}

	pairings map[string]*Pairing // keyed by member id, two keys per pairing
	byRoom   map[string]*Pairing

	seq uint64
}

func NewMatcher() *Matcher {
	return &Matcher{
		waiting:    make(map[string]*WaitingEntry),
		byInterest: make(map[string]map[string]struct{}),
		pairings:   make(map[string]*Pairing),
		byRoom:     make(map[string]*Pairing),
	}
}

func (m *Matcher) Waiting(id string) bool {
	_, ok := m.waiting[id]
	return ok
}

// Enqueue puts the identity into the waiting pool, replacing any stale
// entry it may still have.
func (m *Matcher) Enqueue(id string, interests []string) *WaitingEntry {
	m.Dequeue(id)
	m.seq++
	entry := &WaitingEntry{
		ID:          id,
		Interests:   interests,
		EnqueuedAt:  time.Now(),
		interestSet: make(map[string]struct{}, len(interests)),
		seq:         m.seq,
	}
	for _, tag := range interests {
		entry.interestSet[tag] = struct{}{}
		if m.byInterest[tag] == nil {
			m.byInterest[tag] = make(map[string]struct{})
		}
		m.byInterest[tag][id] = struct{}{}
	}
	m.waiting[id] = entry
	return entry
}

// Dequeue removes the identity from the pool and the interest index.
// Safe to call for an identity that is not waiting.
func (m *Matcher) Dequeue(id string) {
	entry, ok := m.waiting[id]
	if !ok {
		return
	}
	for tag := range entry.interestSet {
		delete(m.byInterest[tag], id)
		if len(m.byInterest[tag]) == 0 {
			delete(m.byInterest, tag)
		}
	}
	delete(m.waiting, id)
}

// FindFor scans the pool for the best partner for the given identity:
// the candidate with the most shared interests wins, FIFO breaking
// ties. With no interest overlap, the fallback is the longest-waiting
// candidate that declared no interests at all; two entries with
// disjoint interest sets are never matched, each keeps waiting for its
// own kind. The winning entry is removed from the pool before it is
// returned, so it can never be matched twice.
func (m *Matcher) FindFor(id string, interests []string) (*WaitingEntry, []string, bool) {
	var best *WaitingEntry
	bestShared := 0

	// Interest-indexed pass: only candidates sharing at least one tag.
	seen := make(map[string]struct{})
	for _, tag := range interests {
		for candidateID := range m.byInterest[tag] {
			if candidateID == id {
				continue
			}
			if _, dup := seen[candidateID]; dup {
				continue
			}
			seen[candidateID] = struct{}{}

			candidate := m.waiting[candidateID]
			shared := sharedCount(candidate.interestSet, interests)
			if shared > bestShared || (shared == bestShared && best != nil && candidate.seq < best.seq) {
				best = candidate
				bestShared = shared
			}
		}
	}

	// Fallback: pure FIFO over the interest-less part of the pool.
	if best == nil {
		for _, candidate := range m.waiting {
			if candidate.ID == id || len(candidate.interestSet) > 0 {
				continue
			}
			if best == nil || candidate.seq < best.seq {
				best = candidate
			}
		}
	}

	if best == nil {
		return nil, nil, false
	}
	shared := sharedInterests(interests, best.interestSet)
	m.Dequeue(best.ID)
	return best, shared, true
}

// CreatePairing records a live pairing for both members.
func (m *Matcher) CreatePairing(roomID, a, b string, shared []string) *Pairing {
	p := &Pairing{RoomID: roomID, MemberA: a, MemberB: b, SharedInterests: shared}
	m.pairings[a] = p
	m.pairings[b] = p
	m.byRoom[roomID] = p
	return p
}

func (m *Matcher) PairingFor(id string) (*Pairing, bool) {
	p, ok := m.pairings[id]
	return p, ok
}

func (m *Matcher) PairingForRoom(roomID string) (*Pairing, bool) {
	p, ok := m.byRoom[roomID]
	return p, ok
}

// RemovePairing destroys the pairing for both members. Idempotent.
func (m *Matcher) RemovePairing(roomID string) {
	p, ok := m.byRoom[roomID]
	if !ok {
		return
	}
	delete(m.pairings, p.MemberA)
	delete(m.pairings, p.MemberB)
	delete(m.byRoom, roomID)
}

func (m *Matcher) WaitingCount() int { return len(m.waiting) }

func (m *Matcher) ActivePairings() int { return len(m.byRoom) }

// InterestQueueSizes reports candidates per interest tag, for the
// debug endpoint.
func (m *Matcher) InterestQueueSizes() map[string]int {
	out := make(map[string]int, len(m.byInterest))
	for tag, set := range m.byInterest {
		out[tag] = len(set)
	}
	return out
}

func sharedCount(set map[string]struct{}, interests []string) int {
	n := 0
	for _, tag := range interests {
		if _, ok := set[tag]; ok {
			n++
		}
	}
	return n
}

// sharedInterests keeps the searcher's interest order.
func sharedInterests(interests []string, other map[string]struct{}) []string {
	shared := []string{}
	for _, tag := range interests {
		if _, ok := other[tag]; ok {
			shared = append(shared, tag)
		}
	}
	return shared
}

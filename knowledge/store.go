package knowledge

import "sync"

// Store is a tenant-scoped atom collection indexed three ways: by id
// (unique), by name (unique, last-write-wins) and by type (one-to-many).
// Every operation holds the store's single exclusive lock, so the Store is
// safe for arbitrary concurrent callers but serializes all traffic for its
// tenant, including long-running Query predicates.
type Store struct {
	tenantID string

	mu     sync.Mutex
	byID   map[uint64]*Atom
	byName map[string]*Atom
	byType map[AtomType][]*Atom
}

// NewStore constructs an empty store for the given tenant. Most callers
// obtain stores through a Registry instead of constructing them directly.
func NewStore(tenantID string) *Store {
	return &Store{
		tenantID: tenantID,
		byID:     make(map[uint64]*Atom),
		byName:   make(map[string]*Atom),
		byType:   make(map[AtomType][]*Atom),
	}
}

// TenantID returns the tenant this store belongs to.
func (s *Store) TenantID() string { return s.tenantID }

// AddNode returns the existing atom if one with this exact name is already
// indexed and is a node; dedup is keyed on name only, so a type mismatch
// between the existing atom and the requested type is ignored. Otherwise a
// new node with a fresh id is created and indexed. AddNode never fails.
func (s *Store) AddNode(typ AtomType, name string) *Atom {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byName[name]; ok && existing.IsNode() {
		return existing
	}

	node := newNode(typ, name)
	s.indexLocked(node)
	return node
}

// AddLink always constructs a new link atom; there is no dedup by name. If
// another atom already occupies the name, the by-name entry is silently
// overwritten while the superseded atom remains reachable by id and type.
// This mirrors the historical behavior and is kept deliberately; callers
// that need name stability should choose unique link names. AddLink never
// fails.
func (s *Store) AddLink(typ AtomType, name string, outgoing []*Atom) *Atom {
	s.mu.Lock()
	defer s.mu.Unlock()

	link := newLink(typ, name, outgoing)
	s.indexLocked(link)
	return link
}

// indexLocked inserts the atom into all three indices. Caller holds mu.
func (s *Store) indexLocked(a *Atom) {
	s.byID[a.id] = a
	s.byName[a.name] = a
	s.byType[a.typ] = append(s.byType[a.typ], a)
}

// GetAtom returns the atom with the given id, or false on a miss.
func (s *Store) GetAtom(id uint64) (*Atom, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	return a, ok
}

// GetAtomByName returns the atom currently holding the given name, or false
// on a miss.
func (s *Store) GetAtomByName(name string) (*Atom, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byName[name]
	return a, ok
}

// GetAtomsByType returns all currently indexed atoms of the given type,
// order unspecified, snapshot-consistent at the instant of the call.
func (s *Store) GetAtomsByType(typ AtomType) []*Atom {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.byType[typ]
	result := make([]*Atom, len(bucket))
	copy(result, bucket)
	return result
}

// RemoveAtom removes the atom with the given id from all three indices,
// reporting false if the id is unknown. Runs in O(k) over the atom's type
// bucket.
func (s *Store) RemoveAtom(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return false
	}

	delete(s.byName, a.name)

	bucket := s.byType[a.typ]
	for i, candidate := range bucket {
		if candidate.id == id {
			s.byType[a.typ] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(s.byType[a.typ]) == 0 {
		delete(s.byType, a.typ)
	}

	delete(s.byID, id)
	return true
}

// Clear empties all indices. Atoms still referenced by other stores' links
// are unaffected.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[uint64]*Atom)
	s.byName = make(map[string]*Atom)
	s.byType = make(map[AtomType][]*Atom)
}

// Size returns the number of atoms currently indexed by id.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Query evaluates the predicate against every currently indexed atom and
// returns the matches in unspecified order. The predicate runs under the
// store's lock: it must not call back into the store or the call deadlocks.
func (s *Store) Query(predicate func(*Atom) bool) []*Atom {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*Atom
	for _, a := range s.byID {
		if predicate(a) {
			result = append(result, a)
		}
	}
	return result
}

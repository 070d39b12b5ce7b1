package session

import (
	"sync"

	"github.com/google/uuid"
)

// Store is a process-wide in-memory map of sessions. Sessions are added
// once and never updated or removed.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session
	newID    func() string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]Session),
		newID:    uuid.NewString,
	}
}

// Put stores s under a fresh identifier and returns it. Any ID already set
// on s is replaced.
func (st *Store) Put(s Session) string {
	st.mu.Lock()
	defer st.mu.Unlock()

	id := st.newID()
	for {
		if _, taken := st.sessions[id]; !taken {
			break
		}
		id = st.newID()
	}
	s.ID = id
	st.sessions[id] = s
	return id
}

// Get returns the session stored under id.
func (st *Store) Get(id string) (Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Len returns the number of stored sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

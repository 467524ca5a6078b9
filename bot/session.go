package bot

import "sync"

// State is a step in the linear creation/query wizard.
type State int

const (
	StateIdle State = iota
	StateChoosingCreateKind
	StateAddingAddress
	StateChoosingLocation
	StateEnteringRoomName
	StateEnteringGroupID
	StateChoosingQueryLocation
)

// Session is the in-flight wizard input for one user. Zero value means
// idle with nothing collected.
type Session struct {
	State    State
	Address  string
	RoomName string
}

// SessionStore keeps per-user wizard sessions. The interface exists so a
// horizontally scaled deployment can swap the in-memory map for an
// external store; process-local state is only safe single-instance.
type SessionStore interface {
	Get(userID int64) Session
	Set(userID int64, s Session)
	Reset(userID int64)
}

type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[int64]Session)}
}

func (m *MemorySessionStore) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}

func (m *MemorySessionStore) Set(userID int64, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = s
}

func (m *MemorySessionStore) Reset(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

package session

import "sync"

// Mode is the per-user interaction state selected via the inline menu.
type Mode string

const (
	ModeGeneral Mode = "general"
	ModeVoice   Mode = "voice"
)

// Store tracks each user's current mode. Entries are created lazily and
// live for the process lifetime.
type Store struct {
	mu    sync.RWMutex
	modes map[int64]Mode
}

func NewStore() *Store {
	return &Store{
		modes: make(map[int64]Mode),
	}
}

// Get returns the user's mode, defaulting to general chat.
func (s *Store) Get(userID int64) Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mode, ok := s.modes[userID]
	if !ok {
		return ModeGeneral
	}
	return mode
}

func (s *Store) SetMode(userID int64, mode Mode) {
	s.mu.Lock()
	s.modes[userID] = mode
	s.mu.Unlock()
}

package history

import (
	"sync"

	"voxrelay/internal/models"
)

// Store keeps per-user conversation turns in memory for the process
// lifetime. Stored history is unbounded; callers truncate via Window.
type Store struct {
	mu    sync.RWMutex
	turns map[int64][]models.Turn
}

func NewStore() *Store {
	return &Store{
		turns: make(map[int64][]models.Turn),
	}
}

// Append adds a turn to the user's history in call order.
func (s *Store) Append(userID int64, turn models.Turn) {
	s.mu.Lock()
	s.turns[userID] = append(s.turns[userID], turn)
	s.mu.Unlock()
}

// Window returns the last n turns in insertion order, or fewer if the
// history is shorter. The result is a copy; reads never mutate.
func (s *Store) Window(userID int64, n int) []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.turns[userID]
	if n < 0 {
		n = 0
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]models.Turn, len(history))
	copy(out, history)
	return out
}

// Clear empties the user's history. The key persists so subsequent
// appends behave as if the history were fresh.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	s.turns[userID] = make([]models.Turn, 0)
	s.mu.Unlock()
}

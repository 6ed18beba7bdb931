package storage

import (
	"sync"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn represents one message in a conversation transcript
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type MemoryStore struct {
	mu           sync.RWMutex
	turns        []Turn
	maxExchanges int
}

// ------------------------------------------------------------------------------------------------------
// NewMemoryStore creates a new in-memory transcript
func NewMemoryStore(maxExchanges int) *MemoryStore {
	return &MemoryStore{
		turns:        make([]Turn, 0),
		maxExchanges: maxExchanges,
	}
}

// ------------------------------------------------------------------------------------------------------
func (s *MemoryStore) AddTurn(turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, turn)
	s.trimToMaxExchanges()
}

// ------------------------------------------------------------------------------------------------------
func (s *MemoryStore) GetTurns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Turn, len(s.turns))
	copy(result, s.turns)
	return result
}

// ------------------------------------------------------------------------------------------------------
// An exchange is a pair of user + assistant turns
func (s *MemoryStore) trimToMaxExchanges() {
	if s.maxExchanges <= 0 {
		return
	}

	exchangeCount := countExchanges(s.turns)

	if exchangeCount > s.maxExchanges {
		startIndex := findStartIndex(s.turns, exchangeCount, s.maxExchanges)
		s.turns = s.turns[startIndex:]
	}
}

// ------------------------------------------------------------------------------------------------------
// countExchanges counts the number of complete exchanges (user + assistant pairs) in turns
func countExchanges(turns []Turn) int {
	exchangeCount := 0

	for i := 0; i < len(turns)-1; i++ {
		if turns[i].Role == RoleUser && turns[i+1].Role == RoleAssistant {
			exchangeCount++
		}
	}

	return exchangeCount
}

// ------------------------------------------------------------------------------------------------------
// findStartIndex returns the index of the first user turn of the exchanges to keep
func findStartIndex(turns []Turn, exchangeCount, exchangesToKeep int) int {
	seen := 0
	drop := exchangeCount - exchangesToKeep

	for i := 0; i < len(turns)-1; i++ {
		if turns[i].Role == RoleUser && turns[i+1].Role == RoleAssistant {
			if seen == drop {
				return i
			}
			seen++
		}
	}

	return 0
}

// ------------------------------------------------------------------------------------------------------
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = make([]Turn, 0)
}

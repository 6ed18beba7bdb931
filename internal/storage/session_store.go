package storage

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Greeting opens every new transcript.
const Greeting = "👋 Hi! I'm your crochet assistant! I can help you with:\n\n" +
	"🧶 Generate custom crochet patterns\n" +
	"📚 Explain stitches and techniques\n" +
	"🎥 Find YouTube tutorials\n" +
	"💡 Answer crochet questions\n\n" +
	"What would you like to create today?"

const (
	DefaultMaxSessions    = 10000
	DefaultSessionIdleTTL = 24 * time.Hour
)

// SessionStore keeps one transcript per session id. Sessions idle for longer
// than the TTL expire, and the least recently used one is dropped at capacity.
type SessionStore struct {
	mu           sync.Mutex
	sessions     *expirable.LRU[string, *MemoryStore]
	maxExchanges int
}

// ------------------------------------------------------------------------------------------------------
// NewSessionStore creates a session store. Non-positive maxSessions or idleTTL use the defaults.
func NewSessionStore(maxExchanges, maxSessions int, idleTTL time.Duration) *SessionStore {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if idleTTL <= 0 {
		idleTTL = DefaultSessionIdleTTL
	}

	return &SessionStore{
		sessions:     expirable.NewLRU[string, *MemoryStore](maxSessions, nil, idleTTL),
		maxExchanges: maxExchanges,
	}
}

// ------------------------------------------------------------------------------------------------------
// Transcript returns the transcript for id, creating it with the greeting turn on first use
func (s *SessionStore) Transcript(id string) TranscriptStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript, ok := s.sessions.Get(id)
	if !ok {
		transcript = NewMemoryStore(s.maxExchanges)
		transcript.AddTurn(Turn{Role: RoleAssistant, Content: Greeting})
	}
	// Add renews the idle deadline
	s.sessions.Add(id, transcript)
	return transcript
}

// ------------------------------------------------------------------------------------------------------
// Lookup returns the transcript for id without creating one
func (s *SessionStore) Lookup(id string) (TranscriptStore, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript, ok := s.sessions.Get(id)
	if !ok {
		return nil, false
	}
	return transcript, true
}

// ------------------------------------------------------------------------------------------------------
// Reset clears the transcript for id back to the greeting turn
func (s *SessionStore) Reset(id string) (TranscriptStore, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript, ok := s.sessions.Get(id)
	if !ok {
		return nil, false
	}

	transcript.Clear()
	transcript.AddTurn(Turn{Role: RoleAssistant, Content: Greeting})
	s.sessions.Add(id, transcript)
	return transcript, true
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	return s.sessions.Len()
}

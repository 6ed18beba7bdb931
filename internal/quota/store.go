// Package quota enforces the shared daily request budget.
//
// A turn first reserves a slot with CheckAndConsume, then either Commits it
// after a successful provider call or Releases it after a failure. The
// persisted count only moves on Commit, and resets when the local calendar
// date changes.
package quota

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	apperror "hooksy-assistant/internal/error"
	"hooksy-assistant/internal/storage"

	"go.uber.org/zap"
)

const (
	DefaultDailyLimit = 200

	KeyRequestsToday = "requestsToday"
	KeyLastResetDate = "lastResetDate"

	dateLayout = "2006-01-02"
)

// State is the persisted quota record
type State struct {
	Count     int    `json:"requests_today"`
	ResetDate string `json:"last_reset_date"`
}

// Decision is the outcome of CheckAndConsume
type Decision struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
}

// Usage is a read-only snapshot for operators
type Usage struct {
	Count        int     `json:"requests_today"`
	Pending      int     `json:"pending"`
	Limit        int     `json:"limit"`
	Remaining    int     `json:"remaining"`
	ResetDate    string  `json:"last_reset_date"`
	UsagePercent float64 `json:"usage_percent"`
	Degraded     bool    `json:"degraded"`
}

// Store guards the quota record. All methods are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	kv       storage.KeyValueStore
	limit    int
	now      func() time.Time
	loc      *time.Location
	logger   *zap.Logger
	volatile State
	pending  int
	degraded bool
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLocation sets the time zone that defines "today"
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewStore creates a quota store over kv. A non-positive limit falls back to DefaultDailyLimit.
func NewStore(kv storage.KeyValueStore, limit int, logger *zap.Logger, opts ...Option) *Store {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if kv == nil {
		kv = storage.NewMemoryKV()
	}

	s := &Store{
		kv:     kv,
		limit:  limit,
		now:    time.Now,
		loc:    time.Local,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limit returns the daily limit
func (s *Store) Limit() int {
	return s.limit
}

// CheckAndConsume reserves one request slot for today if the budget allows it.
// An allowed decision must be followed by exactly one Commit or Release.
func (s *Store) CheckAndConsume(ctx context.Context) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.current(ctx)

	if state.Count+s.pending >= s.limit {
		return Decision{Allowed: false, Remaining: 0}
	}

	s.pending++
	return Decision{Allowed: true, Remaining: s.limit - state.Count - s.pending}
}

// Commit counts a reserved slot against today's budget and persists the new count.
// The write outlives cancellation of ctx so a disconnected caller cannot undo a served turn.
func (s *Store) Commit(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)

	if s.pending > 0 {
		s.pending--
	}

	state := s.current(ctx)
	state.Count++
	s.save(ctx, state)
}

// Release gives a reserved slot back without counting it
func (s *Store) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending > 0 {
		s.pending--
	}
}

// Status returns today's usage
func (s *Store) Status(ctx context.Context) Usage {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.current(ctx)

	remaining := s.limit - state.Count - s.pending
	if remaining < 0 {
		remaining = 0
	}

	return Usage{
		Count:        state.Count,
		Pending:      s.pending,
		Limit:        s.limit,
		Remaining:    remaining,
		ResetDate:    state.ResetDate,
		UsagePercent: float64(state.Count) / float64(s.limit) * 100,
		Degraded:     s.degraded,
	}
}

// current loads the record and applies the daily reset. Callers hold s.mu.
func (s *Store) current(ctx context.Context) State {
	state := s.load(ctx)

	today := s.now().In(s.loc).Format(dateLayout)
	if state.ResetDate != today {
		if state.ResetDate != "" {
			s.logger.Info("Resetting daily quota",
				zap.String("previous_date", state.ResetDate),
				zap.Int("previous_count", state.Count),
				zap.String("date", today),
			)
		}
		state = State{Count: 0, ResetDate: today}
		s.save(ctx, state)
	}

	return state
}

func (s *Store) load(ctx context.Context) State {
	values, err := s.kv.Get(ctx, KeyRequestsToday, KeyLastResetDate)
	if err != nil {
		s.markDegraded(err)
		return s.volatile
	}

	state := State{ResetDate: values[KeyLastResetDate]}
	if raw, ok := values[KeyRequestsToday]; ok {
		count, convErr := strconv.Atoi(raw)
		if convErr != nil || count < 0 {
			s.logger.Warn("Ignoring malformed quota count",
				zap.String("value", raw),
				zap.Error(convErr),
			)
			count = 0
		}
		state.Count = count
	}

	// Increments made while the backend was unreachable only live in memory
	if s.degraded && (s.volatile.ResetDate > state.ResetDate ||
		(s.volatile.ResetDate == state.ResetDate && s.volatile.Count > state.Count)) {
		s.logger.Info("Restoring quota count kept in memory",
			zap.Int("persisted_count", state.Count),
			zap.Int("count", s.volatile.Count),
			zap.String("date", s.volatile.ResetDate),
		)
		state = s.volatile
		s.save(ctx, state)
		return state
	}
	s.markHealthy()

	s.volatile = state
	return state
}

func (s *Store) save(ctx context.Context, state State) {
	s.volatile = state

	err := s.kv.Set(context.WithoutCancel(ctx), map[string]string{
		KeyRequestsToday: strconv.Itoa(state.Count),
		KeyLastResetDate: state.ResetDate,
	})
	if err != nil {
		s.markDegraded(err)
		return
	}
	s.markHealthy()
}

func (s *Store) markDegraded(err error) {
	if !s.degraded {
		s.logger.Warn("Using in-memory quota state",
			zap.Error(fmt.Errorf("%w: %w", apperror.ErrPersistenceUnavailable, err)),
		)
	}
	s.degraded = true
}

func (s *Store) markHealthy() {
	if s.degraded {
		s.logger.Info("Quota persistence recovered")
	}
	s.degraded = false
}

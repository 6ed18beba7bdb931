package service

import (
	"context"
	"sync"
	"time"

	apperror "hooksy-assistant/internal/error"
	"hooksy-assistant/internal/format"
	"hooksy-assistant/internal/intent"
	"hooksy-assistant/internal/llm"
	"hooksy-assistant/internal/metrics"
	"hooksy-assistant/internal/provider"
	"hooksy-assistant/internal/quota"
	"hooksy-assistant/internal/storage"

	"go.uber.org/zap"
)

// State is a step of the per-turn state machine
type State string

const (
	StateIdle         State = "idle"
	StateQuotaChecked State = "quota_checked"
	StateRouted       State = "routed"
	StateResponded    State = "responded"
	StateDenied       State = "denied"
	StateFailed       State = "failed"
)

// TurnRequest is one user message
type TurnRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// TurnResponse is the assistant reply for one turn. Provider failures are
// reported here with Outcome StateFailed, never as an error.
type TurnResponse struct {
	SessionID string          `json:"session_id"`
	Response  string          `json:"response"`
	Route     intent.Decision `json:"route,omitempty"`
	Outcome   State           `json:"outcome"`
	Remaining int             `json:"remaining"`
}

// Options tunes the router
type Options struct {
	MaxMessageChars int
	TextTimeout     time.Duration
	VideoTimeout    time.Duration
	Classifier      *intent.Classifier
}

// chatService routes turns between the quota store and the provider adapters
type chatService struct {
	sessions *storage.SessionStore
	quota    QuotaGate
	text     provider.TextAdapter
	video    provider.VideoAdapter // Can be nil
	metrics  *metrics.Metrics      // Can be nil
	logger   *zap.Logger
	opts     Options

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

// sessionLock is dropped from the locks map once no turn holds or waits on it
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewChatService creates a new chat service with injected dependencies
func NewChatService(
	sessions *storage.SessionStore,
	quotaGate QuotaGate,
	text provider.TextAdapter,
	video provider.VideoAdapter,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts Options,
) ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Classifier == nil {
		opts.Classifier = intent.NewClassifier(intent.DefaultRules)
	}

	return &chatService{
		sessions: sessions,
		quota:    quotaGate,
		text:     text,
		video:    video,
		metrics:  m,
		logger:   logger,
		opts:     opts,
		locks:    make(map[string]*sessionLock),
	}
}

// turn tracks the state of one ProcessTurn call
type turn struct {
	sessionID string
	state     State
	logger    *zap.Logger
}

func (t *turn) advance(next State) {
	t.logger.Debug("Turn state changed",
		zap.String("session_id", t.sessionID),
		zap.String("from", string(t.state)),
		zap.String("to", string(next)),
	)
	t.state = next
}

// ------------------------------------------------------------------------------------------------------
// ProcessTurn runs one turn: quota check, classification, provider calls, formatting, commit.
// Only validation errors are returned as errors.
func (s *chatService) ProcessTurn(ctx context.Context, req *TurnRequest) (*TurnResponse, error) {
	if err := req.Validate(s.opts.MaxMessageChars); err != nil {
		return nil, err
	}

	unlock := s.lockSession(req.SessionID)
	defer unlock()

	transcript := s.sessions.Transcript(req.SessionID)
	t := &turn{sessionID: req.SessionID, state: StateIdle, logger: s.logger}

	decision := s.quota.CheckAndConsume(ctx)
	if !decision.Allowed {
		t.advance(StateDenied)
		transcript.AddTurn(storage.Turn{Role: storage.RoleAssistant, Content: DailyLimitMessage})

		s.logger.Info("Daily limit reached",
			zap.String("session_id", req.SessionID),
			zap.Error(apperror.ErrQuotaExceeded),
		)
		s.metrics.ObserveTurn("none", string(StateDenied))
		s.refreshQuotaMetrics(ctx)

		return &TurnResponse{
			SessionID: req.SessionID,
			Response:  DailyLimitMessage,
			Outcome:   StateDenied,
			Remaining: 0,
		}, nil
	}
	t.advance(StateQuotaChecked)

	route := s.opts.Classifier.Classify(req.Message)
	t.advance(StateRouted)

	var (
		reply string
		err   error
	)
	switch route {
	case intent.VideoOnly:
		reply = s.answerWithVideos(ctx, req.Message)
	case intent.TextWithVideo:
		reply, err = s.answerWithText(ctx, req.Message, true)
	default:
		reply, err = s.answerWithText(ctx, req.Message, false)
	}

	if err != nil {
		t.advance(StateFailed)
		s.quota.Release()
		reply = failureMessage(err)

		s.logger.Error("Text provider call failed",
			zap.String("session_id", req.SessionID),
			zap.String("route", string(route)),
			zap.String("category", string(apperror.CategoryOf(err))),
			zap.Error(err),
		)
	} else {
		t.advance(StateResponded)
		s.quota.Commit(ctx)
	}

	transcript.AddTurn(storage.Turn{Role: storage.RoleUser, Content: req.Message})
	transcript.AddTurn(storage.Turn{Role: storage.RoleAssistant, Content: reply})

	s.metrics.ObserveTurn(string(route), string(t.state))
	usage := s.refreshQuotaMetrics(ctx)

	return &TurnResponse{
		SessionID: req.SessionID,
		Response:  reply,
		Route:     route,
		Outcome:   t.state,
		Remaining: usage.Remaining,
	}, nil
}

// ------------------------------------------------------------------------------------------------------
func (s *chatService) Transcript(sessionID string) ([]storage.Turn, error) {
	transcript, ok := s.sessions.Lookup(sessionID)
	if !ok {
		return nil, apperror.NewNotFoundError("session not found", apperror.ErrSessionNotFound)
	}
	return transcript.GetTurns(), nil
}

// ------------------------------------------------------------------------------------------------------
// ResetTranscript starts the session over from the greeting turn
func (s *chatService) ResetTranscript(sessionID string) ([]storage.Turn, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	transcript, ok := s.sessions.Reset(sessionID)
	if !ok {
		return nil, apperror.NewNotFoundError("session not found", apperror.ErrSessionNotFound)
	}

	s.logger.Info("Transcript reset", zap.String("session_id", sessionID))
	return transcript.GetTurns(), nil
}

// ------------------------------------------------------------------------------------------------------
func (s *chatService) QuotaStatus(ctx context.Context) quota.Usage {
	return s.refreshQuotaMetrics(ctx)
}

// ------------------------------------------------------------------------------------------------------
// answerWithText calls the text adapter and, when withVideos is set, appends tutorial videos
func (s *chatService) answerWithText(ctx context.Context, message string, withVideos bool) (string, error) {
	callCtx, cancel := withTimeout(ctx, s.opts.TextTimeout)
	defer cancel()

	result, err := s.text.Call(callCtx, message)
	if err != nil {
		s.metrics.ObserveProviderCall(s.text.Name(), string(apperror.CategoryOf(err)))
		return "", err
	}
	s.metrics.ObserveProviderCall(s.text.Name(), metrics.ProviderOK)
	s.countTokens(message, result.Text)

	if !withVideos {
		return format.Format(result.Text, nil), nil
	}

	videos := s.searchVideos(ctx, message)
	if len(videos) > 0 {
		return format.Format(result.Text, videos), nil
	}

	reply := format.FormatText(result.Text)
	if !s.videoEnabled() {
		reply += "\n\n" + VideoTip
	}
	return reply, nil
}

// ------------------------------------------------------------------------------------------------------
func (s *chatService) answerWithVideos(ctx context.Context, message string) string {
	videos := s.searchVideos(ctx, message)
	if len(videos) == 0 {
		return noVideosMessage(message)
	}
	return format.Format("", videos)
}

// ------------------------------------------------------------------------------------------------------
// searchVideos never fails: errors are logged and treated as zero results
func (s *chatService) searchVideos(ctx context.Context, message string) []provider.Video {
	if !s.videoEnabled() {
		return nil
	}

	callCtx, cancel := withTimeout(ctx, s.opts.VideoTimeout)
	defer cancel()

	result, err := s.video.Call(callCtx, message)
	if err != nil {
		s.metrics.ObserveProviderCall(s.video.Name(), string(apperror.CategoryOf(err)))
		s.logger.Warn("Video search failed, continuing without videos",
			zap.String("category", string(apperror.CategoryOf(err))),
			zap.Error(err),
		)
		return nil
	}

	s.metrics.ObserveProviderCall(s.video.Name(), metrics.ProviderOK)
	return result.Videos
}

// ------------------------------------------------------------------------------------------------------
func (s *chatService) videoEnabled() bool {
	return s.video != nil && s.video.Enabled()
}

// ------------------------------------------------------------------------------------------------------
func (s *chatService) countTokens(prompt, completion string) {
	if s.metrics == nil {
		return
	}
	if n, err := llm.CountTokens(llm.SystemInstruction + "\n" + prompt); err == nil {
		s.metrics.AddTokens("prompt", n)
	}
	if n, err := llm.CountTokens(completion); err == nil {
		s.metrics.AddTokens("completion", n)
	}
}

// ------------------------------------------------------------------------------------------------------
func (s *chatService) refreshQuotaMetrics(ctx context.Context) quota.Usage {
	usage := s.quota.Status(ctx)
	s.metrics.SetQuota(usage.Count, usage.Remaining)
	return usage
}

// ------------------------------------------------------------------------------------------------------
// lockSession serializes turns of one session and returns the unlock function
func (s *chatService) lockSession(sessionID string) func() {
	s.locksMu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sessionLock{}
		s.locks[sessionID] = lock
	}
	lock.refs++
	s.locksMu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		s.locksMu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.locksMu.Unlock()
	}
}

// ------------------------------------------------------------------------------------------------------
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
)

// Session holds the latest generation state for one client. A new Generate
// cancels the one in flight, and results from a superseded run are never
// written: every write re-checks, under the lock, that the run is still the
// active one.
type Session struct {
	id      string
	orch    *Orchestrator
	sharing *SharingService
	logger  zerolog.Logger

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	current Snapshot
	closed  bool

	saveMu sync.Mutex
}

func newSession(id string, orch *Orchestrator, sharing *SharingService, logger zerolog.Logger) *Session {
	return &Session{
		id:      id,
		orch:    orch,
		sharing: sharing,
		logger:  logger.With().Str("session_id", id).Logger(),
		current: Snapshot{State: StateIdle},
	}
}

func (s *Session) ID() string { return s.id }

// busy reports whether a generation is in flight.
func (s *Session) busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Loading
}

// Snapshot returns the latest committed state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Generate supersedes any in-flight generation and runs a new one for theme.
// It returns the run's terminal snapshot; a superseded run returns
// StateCancelled while Snapshot keeps reporting the newer run.
func (s *Session) Generate(ctx context.Context, theme domain.VibeTheme) Snapshot {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Snapshot{State: StateCancelled, Theme: theme}
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	mine := s.seq
	runCtx, cancel := context.WithCancel(domain.WithSessionID(ctx, s.id))
	s.cancel = cancel
	s.current = Snapshot{Generation: mine, State: StateIdle, Loading: true, Theme: theme}
	s.mu.Unlock()
	defer cancel()

	emit := func(snap Snapshot) bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.seq != mine || runCtx.Err() != nil {
			return false
		}
		snap.Generation = mine
		s.current = snap
		return true
	}

	final := s.orch.Generate(runCtx, theme, emit)
	final.Generation = mine

	if final.State == StateCancelled {
		s.mu.Lock()
		if s.seq == mine && !s.current.State.Terminal() {
			s.current.State = StateCancelled
			s.current.Loading = false
		}
		s.mu.Unlock()
	}
	return final
}

// Cancel aborts the in-flight generation, if any.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Close cancels any in-flight generation and rejects further ones.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cancelLocked()
}

func (s *Session) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if !s.current.State.Terminal() && s.current.State != StateIdle {
		s.current.State = StateCancelled
		s.current.Loading = false
	}
}

// AutoSave persists the completed generation once. Repeated calls for the
// same generation return the id from the first save.
func (s *Session) AutoSave(ctx context.Context) (string, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	snap := s.Snapshot()
	if snap.State != StateComplete || snap.Vibe == nil || snap.Journal == nil {
		return "", fmt.Errorf("service: %w: no completed generation to save", domain.ErrInvalidArgument)
	}
	if snap.ArtifactID != "" {
		return snap.ArtifactID, nil
	}

	trackURL := ""
	if snap.Track != nil {
		trackURL = snap.Track.URL
	}
	id, err := s.sharing.AutoSave(domain.WithSessionID(ctx, s.id), *snap.Journal, *snap.Vibe, trackURL)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.current.Generation == snap.Generation {
		s.current.ArtifactID = id
	}
	s.mu.Unlock()
	return id, nil
}

// Sessions is a registry of client sessions keyed by session id. Sessions
// idle longer than the idle TTL are evicted by Sweep, and when the registry is
// full the least recently used idle session makes room for a new one.
type Sessions struct {
	orch    *Orchestrator
	sharing *SharingService
	logger  zerolog.Logger

	idleTTL     time.Duration
	maxSessions int
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	sess     *Session
	lastUsed time.Time
}

// SessionsOption configures a Sessions registry.
type SessionsOption func(*Sessions)

// WithIdleTTL sets how long an unused session is kept. Zero disables eviction by age.
func WithIdleTTL(d time.Duration) SessionsOption {
	return func(r *Sessions) { r.idleTTL = d }
}

// WithMaxSessions caps the number of live sessions. Zero means no cap.
func WithMaxSessions(n int) SessionsOption {
	return func(r *Sessions) { r.maxSessions = n }
}

const defaultSessionIdleTTL = 30 * time.Minute

func NewSessions(orch *Orchestrator, sharing *SharingService, logger zerolog.Logger, opts ...SessionsOption) *Sessions {
	r := &Sessions{
		orch:     orch,
		sharing:  sharing,
		logger:   logger,
		idleTTL:  defaultSessionIdleTTL,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the session for id, creating it on first use.
func (r *Sessions) Get(id string) *Session {
	r.mu.Lock()
	now := r.now()
	if e, ok := r.sessions[id]; ok {
		e.lastUsed = now
		r.mu.Unlock()
		return e.sess
	}

	var evicted []*Session
	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		evicted = r.evictLocked(now)
		if len(r.sessions) >= r.maxSessions {
			if victim := r.leastRecentlyUsedLocked(); victim != "" {
				evicted = append(evicted, r.sessions[victim].sess)
				delete(r.sessions, victim)
			} else {
				r.logger.Warn().Int("sessions", len(r.sessions)).Msg("service: session cap reached with every session busy")
			}
		}
	}
	s := newSession(id, r.orch, r.sharing, r.logger)
	r.sessions[id] = &sessionEntry{sess: s, lastUsed: now}
	r.mu.Unlock()

	closeAll(evicted)
	return s
}

// Lookup returns the session for id without creating it.
func (r *Sessions) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastUsed = r.now()
	return e.sess, true
}

// Len reports the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close tears down and forgets the session for id.
func (r *Sessions) Close(id string) bool {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		e.sess.Close()
	}
	return ok
}

// CloseAll tears down every session.
func (r *Sessions) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*sessionEntry)
	r.mu.Unlock()
	for _, e := range all {
		e.sess.Close()
	}
}

// Sweep closes and forgets sessions idle for longer than the idle TTL. A
// session with a generation in flight is never evicted. It returns the
// number of sessions removed.
func (r *Sessions) Sweep() int {
	r.mu.Lock()
	evicted := r.evictLocked(r.now())
	r.mu.Unlock()

	closeAll(evicted)
	if len(evicted) > 0 {
		r.logger.Debug().Int("evicted", len(evicted)).Msg("service: idle sessions evicted")
	}
	return len(evicted)
}

// RunJanitor calls Sweep every interval until ctx is done.
func (r *Sessions) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Sessions) evictLocked(now time.Time) []*Session {
	if r.idleTTL <= 0 {
		return nil
	}
	var evicted []*Session
	for id, e := range r.sessions {
		if now.Sub(e.lastUsed) < r.idleTTL || e.sess.busy() {
			continue
		}
		evicted = append(evicted, e.sess)
		delete(r.sessions, id)
	}
	return evicted
}

func (r *Sessions) leastRecentlyUsedLocked() string {
	var (
		victim string
		oldest time.Time
	)
	for id, e := range r.sessions {
		if e.sess.busy() {
			continue
		}
		if victim == "" || e.lastUsed.Before(oldest) {
			victim, oldest = id, e.lastUsed
		}
	}
	return victim
}

func closeAll(sessions []*Session) {
	for _, s := range sessions {
		s.Close()
	}
}

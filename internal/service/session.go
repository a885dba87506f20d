package service

import (
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/litsynth/internal/domain"
	"github.com/Harshitk-cp/litsynth/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one synthesis run exposed over the API.
type Session struct {
	ID        string       `json:"id"`
	CreatedBy string       `json:"created_by,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	Config    EngineConfig `json:"config"`

	mu         sync.Mutex
	engine     *SynthesisEngine
	lastActive time.Time
}

// SessionView is a read-only copy of a session's state.
type SessionView struct {
	ID                 string           `json:"id"`
	CreatedBy          string           `json:"created_by,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	DocumentsProcessed int              `json:"documents_processed"`
	Finalized          bool             `json:"finalized"`
	Themes             []domain.Theme   `json:"themes"`
	Synthesis          domain.Synthesis `json:"synthesis"`
}

// SessionService owns in-flight synthesis engines keyed by session id.
// Rounds of one session run strictly one after another; distinct sessions
// proceed in parallel.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	defaults EngineConfig
	embedder domain.EmbeddingClient
	judge    domain.JudgeClient
	journal  domain.SynthesisJournal
	logger   *zap.Logger
	metrics  *metrics.Synthesis
	now      func() time.Time
}

func NewSessionService(defaults EngineConfig, embedder domain.EmbeddingClient, judge domain.JudgeClient, journal domain.SynthesisJournal, logger *zap.Logger, m *metrics.Synthesis) *SessionService {
	return &SessionService{
		sessions: make(map[string]*Session),
		defaults: defaults,
		embedder: embedder,
		judge:    judge,
		journal:  journal,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// Create starts a new session. A nil cfg uses the service defaults.
func (s *SessionService) Create(ctx context.Context, createdBy string, cfg *EngineConfig) (*SessionView, error) {
	engineCfg := s.defaults
	if cfg != nil {
		engineCfg = *cfg
	}

	engine, err := NewSynthesisEngine(engineCfg, s.embedder, s.judge, s.logger, s.metrics)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := &Session{
		ID:         uuid.New().String(),
		CreatedBy:  createdBy,
		CreatedAt:  now.UTC(),
		Config:     engineCfg,
		engine:     engine,
		lastActive: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	if s.journal != nil {
		if err := s.journal.CreateRun(ctx, sess.ID, createdBy); err != nil {
			s.logger.Warn("failed to journal synthesis run", zap.String("session_id", sess.ID), zap.Error(err))
		}
	}

	s.logger.Info("synthesis session created", zap.String("session_id", sess.ID), zap.String("created_by", createdBy))
	return sess.view(), nil
}

func (s *SessionService) get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Process runs one round on the session's engine.
func (s *SessionService) Process(ctx context.Context, id string, findings []domain.ExtractedFinding, doc domain.DocumentInfo) (*domain.SynthesisUpdate, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastActive = s.now()

	update, err := sess.engine.ProcessDocument(ctx, findings, doc)
	if err != nil {
		return nil, err
	}

	if s.journal != nil {
		if err := s.journal.AppendUpdate(ctx, id, update); err != nil {
			s.logger.Warn("failed to journal synthesis update",
				zap.String("session_id", id),
				zap.Int("sequence", update.Sequence),
				zap.Error(err))
		}
	}
	return update, nil
}

func (s *SessionService) Snapshot(ctx context.Context, id string) (*SessionView, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastActive = s.now()
	return sess.view(), nil
}

// Finalize freezes the session. Repeated calls return the same synthesis and
// journal it only once.
func (s *SessionService) Finalize(ctx context.Context, id string) (*domain.Synthesis, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastActive = s.now()

	first := !sess.engine.Finalized()
	result := sess.engine.Finalize()

	if first && s.journal != nil {
		if err := s.journal.SaveFinal(ctx, id, result); err != nil {
			s.logger.Warn("failed to journal final synthesis", zap.String("session_id", id), zap.Error(err))
		}
	}
	return result, nil
}

// Delete drops the session from memory. Journaled history is kept.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.logger.Info("synthesis session deleted", zap.String("session_id", id))
	return nil
}

// EvictIdle drops sessions untouched since cutoff. A session busy with a
// round counts as active and is kept.
func (s *SessionService) EvictIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		idle := sess.lastActive.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Defaults returns the engine tuning used when a session brings none.
func (s *SessionService) Defaults() EngineConfig {
	return s.defaults
}

// Count returns the number of in-memory sessions.
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// view must be called with sess.mu held, or before the session is shared.
func (sess *Session) view() *SessionView {
	return &SessionView{
		ID:                 sess.ID,
		CreatedBy:          sess.CreatedBy,
		CreatedAt:          sess.CreatedAt,
		DocumentsProcessed: sess.engine.DocumentsProcessed(),
		Finalized:          sess.engine.Finalized(),
		Themes:             sess.engine.Themes(),
		Synthesis:          sess.engine.Snapshot(),
	}
}

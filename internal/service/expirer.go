package service

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultExpirerInterval = 10 * time.Minute
	DefaultSessionTTL      = 24 * time.Hour
)

// ExpirerService periodically evicts in-memory sessions nobody has touched
// within the TTL. Journaled history is unaffected.
type ExpirerService struct {
	sessions *SessionService
	ttl      time.Duration
	logger   *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewExpirerService(sessions *SessionService, ttl time.Duration, logger *zap.Logger) *ExpirerService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &ExpirerService{
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
		interval: defaultExpirerInterval,
		stopCh:   make(chan struct{}),
	}
}

func (s *ExpirerService) SetInterval(d time.Duration) {
	s.interval = d
}

// Start runs the expirer on a periodic schedule in a background goroutine.
func (s *ExpirerService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("session expirer started", zap.Duration("interval", s.interval), zap.Duration("ttl", s.ttl))

		for {
			select {
			case <-ticker.C:
				s.run()
			case <-s.stopCh:
				s.logger.Info("session expirer stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the expirer.
func (s *ExpirerService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *ExpirerService) run() {
	if n := s.sessions.EvictIdle(s.sessions.now().Add(-s.ttl)); n > 0 {
		s.logger.Info("evicted idle synthesis sessions", zap.Int("count", n), zap.Int("remaining", s.sessions.Count()))
	}
}

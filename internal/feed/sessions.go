package feed

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/reddit-reader-bot/internal/reddit"
	"github.com/orgball2608/reddit-reader-bot/internal/repositories/saved"
	"github.com/orgball2608/reddit-reader-bot/pkg/config"
	"github.com/orgball2608/reddit-reader-bot/pkg/logger"
	"go.uber.org/fx"
)

type SessionsOpts struct {
	fx.In

	Config *config.Config
	Reddit reddit.Client
	Saved  saved.Repository
	Logger logger.Logger
	Clock  clockwork.Clock `optional:"true"`
}

type session struct {
	ctrl     *Controller
	lastUsed time.Time
}

// Sessions keeps one started Controller per chat. Sessions idle for longer
// than the configured TTL are dropped on the next Get.
type Sessions struct {
	opts    Opts
	client  reddit.Client
	store   saved.Repository
	logger  logger.Logger
	clock   clockwork.Clock
	idleTTL time.Duration

	mu       sync.Mutex
	sessions map[int64]*session
}

func NewSessions(opts SessionsOpts) *Sessions {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Sessions{
		opts: Opts{
			BaseURL:   opts.Config.Reddit.BaseURL,
			Subreddit: opts.Config.Reddit.Subreddit,
			PageSize:  opts.Config.Reddit.PageSize,
		},
		client:   opts.Reddit,
		store:    opts.Saved,
		logger:   opts.Logger,
		clock:    clock,
		idleTTL:  opts.Config.Sessions.IdleTTL,
		sessions: make(map[int64]*session),
	}
}

// Get returns the controller for chatID, creating and starting it on first use.
func (s *Sessions) Get(chatID int64) (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.evictIdleLocked(now)

	if sess, ok := s.sessions[chatID]; ok {
		sess.lastUsed = now
		return sess.ctrl, nil
	}

	c := NewController(s.opts, s.client, s.store, s.logger)
	if err := c.Start(); err != nil {
		return nil, fmt.Errorf("start session for chat %d: %w", chatID, err)
	}
	s.sessions[chatID] = &session{ctrl: c, lastUsed: now}
	return c, nil
}

func (s *Sessions) evictIdleLocked(now time.Time) int {
	if s.idleTTL <= 0 {
		return 0
	}

	evicted := 0
	for chatID, sess := range s.sessions {
		if now.Sub(sess.lastUsed) > s.idleTTL {
			delete(s.sessions, chatID)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.WithComponent("Sessions").Debug("Evicted idle sessions", "count", evicted, "remaining", len(s.sessions))
	}
	return evicted
}

// Reset drops the session of chatID.
func (s *Sessions) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

// Len returns the number of open sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

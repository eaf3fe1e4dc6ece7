package feed

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	mock_reddit "github.com/orgball2608/reddit-reader-bot/internal/reddit/mocks"
	"github.com/orgball2608/reddit-reader-bot/internal/repositories/saved"
	"github.com/orgball2608/reddit-reader-bot/pkg/config"
	"github.com/orgball2608/reddit-reader-bot/pkg/logger"
	"go.uber.org/mock/gomock"
)

func newTestSessions(t *testing.T, baseURL string) *Sessions {
	t.Helper()
	return newClockedSessions(t, baseURL, 0, clockwork.NewFakeClock())
}

func newClockedSessions(t *testing.T, baseURL string, idleTTL time.Duration, clock clockwork.Clock) *Sessions {
	t.Helper()
	cfg := &config.Config{}
	cfg.Reddit.BaseURL = baseURL
	cfg.Reddit.Subreddit = "swift"
	cfg.Reddit.PageSize = 15
	cfg.Sessions.IdleTTL = idleTTL

	return NewSessions(SessionsOpts{
		Config: cfg,
		Reddit: mock_reddit.NewMockClient(gomock.NewController(t)),
		Saved:  saved.NewFileRepositoryAt(filepath.Join(t.TempDir(), "saved.json"), logger.NewNop()),
		Logger: logger.NewNop(),
		Clock:  clock,
	})
}

func TestSessionsPerChat(t *testing.T) {
	s := newTestSessions(t, "https://www.reddit.com/r/ios/top.json")

	a, err := s.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	again, _ := s.Get(1)
	b, _ := s.Get(2)

	if a != again {
		t.Error("same chat got a different controller")
	}
	if a == b {
		t.Error("different chats share a controller")
	}
	if a.Subreddit() != "r/swift" {
		t.Errorf("Subreddit() = %q", a.Subreddit())
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}

	s.Reset(1)
	fresh, _ := s.Get(1)
	if fresh == a {
		t.Error("Reset kept the old controller")
	}
}

func TestSessionsInvalidBaseURL(t *testing.T) {
	s := newTestSessions(t, "::")
	if _, err := s.Get(1); err == nil {
		t.Fatal("expected error for invalid base url")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after failed start", s.Len())
	}
}

func TestSessionsEvictIdle(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newClockedSessions(t, "https://www.reddit.com/r/ios/top.json", time.Hour, clock)

	stale, _ := s.Get(1)
	clock.Advance(40 * time.Minute)
	active, _ := s.Get(2)

	// Chat 2 was used 30 minutes ago, chat 1 70 minutes ago.
	clock.Advance(30 * time.Minute)
	if again, _ := s.Get(2); again != active {
		t.Error("active session was replaced")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after eviction", s.Len())
	}

	if fresh, _ := s.Get(1); fresh == stale {
		t.Error("idle session survived eviction")
	}
}

func TestSessionsWithoutTTLNeverEvict(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newClockedSessions(t, "https://www.reddit.com/r/ios/top.json", 0, clock)

	first, _ := s.Get(1)
	clock.Advance(365 * 24 * time.Hour)
	if again, _ := s.Get(1); again != first {
		t.Error("session evicted with a zero TTL")
	}
}

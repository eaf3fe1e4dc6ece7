package commandimpl

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/reddit-reader-bot/internal/domain"
	"github.com/orgball2608/reddit-reader-bot/internal/feed"
	"github.com/orgball2608/reddit-reader-bot/internal/reddit"
	mock_reddit "github.com/orgball2608/reddit-reader-bot/internal/reddit/mocks"
	"github.com/orgball2608/reddit-reader-bot/internal/repositories/saved"
	mock_shared "github.com/orgball2608/reddit-reader-bot/internal/repositories/shared/mocks"
	"github.com/orgball2608/reddit-reader-bot/internal/share"
	mock_telegram "github.com/orgball2608/reddit-reader-bot/internal/telegram/mocks"
	"github.com/orgball2608/reddit-reader-bot/pkg/config"
	"github.com/orgball2608/reddit-reader-bot/pkg/logger"
	"go.uber.org/mock/gomock"
)

const (
	ownerID = int64(42)
	chatID  = int64(1)
)

type allowAll struct{}

func (allowAll) Allow(int64) (bool, time.Duration) { return true, 0 }

type denyAll struct{ wait time.Duration }

func (d denyAll) Allow(int64) (bool, time.Duration) { return false, d.wait }

type fixture struct {
	telegram *mock_telegram.MockClient
	reddit   *mock_reddit.MockClient
	shared   *mock_shared.MockRepository
	cmd      *CommandImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Telegram.User = ownerID
	cfg.Reddit.BaseURL = "https://www.reddit.com/r/ios/top.json"
	cfg.Reddit.Subreddit = "ios"
	cfg.Reddit.PageSize = 2

	f := &fixture{
		telegram: mock_telegram.NewMockClient(ctrl),
		reddit:   mock_reddit.NewMockClient(ctrl),
		shared:   mock_shared.NewMockRepository(ctrl),
	}

	log := logger.NewNop()
	sessions := feed.NewSessions(feed.SessionsOpts{
		Config: cfg,
		Reddit: f.reddit,
		Saved:  saved.NewFileRepositoryAt(filepath.Join(t.TempDir(), "saved.json"), log),
		Logger: log,
	})

	f.cmd = New(Opts{
		Telegram: f.telegram,
		Sessions: sessions,
		Share:    share.New(share.Opts{Telegram: f.telegram, SharedRepo: f.shared, Logger: log}),
		Limiter:  allowAll{},
		Logger:   log,
		Config:   cfg,
	})
	return f
}

func cmdUpdate(from int64, text string) tgbotapi.Update {
	length := strings.IndexByte(text, ' ')
	if length < 0 {
		length = len(text)
	}
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: from},
			Chat:      &tgbotapi.Chat{ID: chatID},
			Text:      text,
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
		},
	}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-1",
			From:    &tgbotapi.User{ID: ownerID},
			Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: chatID}},
			Data:    data,
		},
	}
}

func page(after string, ids ...string) *reddit.Page {
	posts := make([]domain.Post, len(ids))
	for i, id := range ids {
		posts[i] = domain.Post{ID: id, Title: "Post " + id, Permalink: "https://www.reddit.com/r/ios/" + id}
	}
	return &reddit.Page{Posts: posts, After: after}
}

// openFeed runs /feed with a two post page and accepts the messages it sends.
func (f *fixture) openFeed(t *testing.T) {
	t.Helper()
	f.reddit.EXPECT().FetchPage(gomock.Any(), gomock.Any()).Return(page("t3_b", "t3_a", "t3_b"), nil)
	f.telegram.EXPECT().SendMessage(chatID, "📰 Loading r/ios...").Return(1, nil)
	f.telegram.EXPECT().SendPost(chatID, gomock.Any()).Return(nil).Times(2)
	f.telegram.EXPECT().SendMessage(chatID, "Use /more for the next page.").Return(2, nil)

	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/feed"))
}

func TestFeedSendsPage(t *testing.T) {
	f := newFixture(t)
	f.openFeed(t)
}

func TestMoreAfterLastPage(t *testing.T) {
	f := newFixture(t)
	f.openFeed(t)

	f.reddit.EXPECT().FetchPage(gomock.Any(), gomock.Any()).Return(page("", "t3_c"), nil)
	f.telegram.EXPECT().SendPost(chatID, gomock.Any()).Return(nil)
	f.telegram.EXPECT().SendMessage(chatID, "That's all of r/ios.").Return(3, nil)
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/more"))

	f.telegram.EXPECT().SendMessage(chatID, "No more posts in r/ios.").Return(4, nil)
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/more"))
}

func TestMoreSendsOnlyTheFetchedPage(t *testing.T) {
	f := newFixture(t)
	f.openFeed(t)

	var sent []string
	f.reddit.EXPECT().FetchPage(gomock.Any(), gomock.Any()).Return(page("t3_d", "t3_c", "t3_d"), nil)
	f.telegram.EXPECT().SendPost(chatID, gomock.Any()).DoAndReturn(func(_ int64, p domain.Post) error {
		sent = append(sent, p.ID)
		return nil
	}).Times(2)
	f.telegram.EXPECT().SendMessage(chatID, "Use /more for the next page.").Return(3, nil)
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/more"))

	if strings.Join(sent, ",") != "t3_c,t3_d" {
		t.Errorf("sent %v, want [t3_c t3_d]", sent)
	}
}

func TestMoreStaysQuietWhenViewChangesMidFetch(t *testing.T) {
	f := newFixture(t)
	ctrl, err := f.cmd.Sessions.Get(chatID)
	if err != nil {
		t.Fatal(err)
	}

	f.reddit.EXPECT().FetchPage(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, *reddit.URLBuilder) (*reddit.Page, error) {
			ctrl.ShowSaved()
			return page("t3_b", "t3_a", "t3_b"), nil
		},
	)
	// No telegram expectations: the dropped page must not produce a reply.
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/more"))

	if ctrl.Mode() != feed.ModeSaved || len(ctrl.Posts()) != 0 {
		t.Errorf("mode = %v, posts = %v", ctrl.Mode(), ctrl.Posts())
	}
}

func TestMoreReportsFetchFailure(t *testing.T) {
	f := newFixture(t)

	f.reddit.EXPECT().FetchPage(gomock.Any(), gomock.Any()).Return(nil, context.DeadlineExceeded)
	f.telegram.EXPECT().SendMessage(chatID, "⚠️ Could not load posts (network_error). Try /more again.").Return(1, nil)

	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/more"))
}

func TestUnknownUserIgnored(t *testing.T) {
	f := newFixture(t)
	// No expectations: any call on the mocks fails the test.
	f.cmd.handleUpdate(context.Background(), cmdUpdate(7, "/feed"))
}

func TestRateLimited(t *testing.T) {
	f := newFixture(t)
	f.cmd.Limiter = denyAll{wait: 1500 * time.Millisecond}

	f.telegram.EXPECT().SendMessage(chatID, "⏳ Too many requests. Try again in 2s.").Return(1, nil)
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/feed"))
}

func TestSaveAndSavedList(t *testing.T) {
	f := newFixture(t)
	f.openFeed(t)

	f.telegram.EXPECT().SendMessage(chatID, "🔖 Saved: Post t3_a").Return(3, nil)
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/save t3_a"))

	f.telegram.EXPECT().SendMessage(chatID, "🔖 1 saved post(s):").Return(4, nil)
	f.telegram.EXPECT().SendPost(chatID, gomock.Any()).DoAndReturn(func(_ int64, p domain.Post) error {
		if p.ID != "t3_a" || !p.Saved {
			t.Errorf("sent %+v, want saved t3_a", p)
		}
		return nil
	})
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/saved"))

	f.telegram.EXPECT().SendMessage(chatID, `No saved posts match "zzz".`).Return(5, nil)
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/search zzz"))
}

func TestSaveUnknownPost(t *testing.T) {
	f := newFixture(t)

	f.telegram.EXPECT().SendMessage(chatID, "Post t3_x is not in the current list.").Return(1, nil)
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/save t3_x"))

	f.telegram.EXPECT().SendMessage(chatID, "Please provide a post id: /save <id>").Return(2, nil)
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/save"))
}

func TestSearchOutsideSaved(t *testing.T) {
	f := newFixture(t)

	f.telegram.EXPECT().SendMessage(chatID, "Search works on saved posts. Use /saved first.").Return(1, nil)
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/search swift"))
}

func TestShareOnce(t *testing.T) {
	f := newFixture(t)
	f.openFeed(t)

	gomock.InOrder(
		f.shared.EXPECT().Exists(gomock.Any(), "t3_a").Return(false, nil),
		f.telegram.EXPECT().SendPostToDefaultChannel(gomock.Any()).Return(nil),
		f.shared.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p domain.SharedPost) error {
			if p.PostID != "t3_a" || p.Subreddit != "r/ios" || p.Permalink != "https://www.reddit.com/r/ios/t3_a" {
				t.Errorf("recorded %+v", p)
			}
			return nil
		}),
		f.telegram.EXPECT().SendMessage(chatID, "📤 Shared to the channel.").Return(3, nil),
	)
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/share t3_a"))

	f.shared.EXPECT().Exists(gomock.Any(), "t3_a").Return(true, nil)
	f.telegram.EXPECT().SendMessage(chatID, "Already shared.").Return(4, nil)
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/share t3_a"))
}

func TestSaveButton(t *testing.T) {
	f := newFixture(t)
	f.openFeed(t)

	f.telegram.EXPECT().AnswerCallback("cb-1", "🔖 Saved").Return(nil)
	f.telegram.EXPECT().UpdatePostButtons(chatID, 7, gomock.Any()).DoAndReturn(func(_ int64, _ int, p domain.Post) error {
		if p.ID != "t3_b" || !p.Saved {
			t.Errorf("buttons for %+v, want saved t3_b", p)
		}
		return nil
	})
	f.cmd.handleUpdate(context.Background(), callback("save:t3_b"))

	f.telegram.EXPECT().AnswerCallback("cb-1", "Removed from saved").Return(nil)
	f.telegram.EXPECT().UpdatePostButtons(chatID, 7, gomock.Any()).Return(nil)
	f.cmd.handleUpdate(context.Background(), callback("save:t3_b"))
}

func TestShareButtonAlreadyShared(t *testing.T) {
	f := newFixture(t)
	f.openFeed(t)

	f.shared.EXPECT().Exists(gomock.Any(), "t3_b").Return(true, nil)
	f.telegram.EXPECT().AnswerCallback("cb-1", "Already shared.").Return(nil)
	f.cmd.handleUpdate(context.Background(), callback("share:t3_b"))
}

func TestUnknownCommand(t *testing.T) {
	f := newFixture(t)

	f.telegram.EXPECT().SendMessage(chatID, "Unknown command. Type /help to see the list of available commands.").Return(1, nil)
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/story"))
}

func TestStartResetsSession(t *testing.T) {
	f := newFixture(t)
	f.openFeed(t)

	f.telegram.EXPECT().SendMessage(chatID, helpMessage).Return(3, nil)
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/start"))

	// The new session has no listed posts.
	f.telegram.EXPECT().SendMessage(chatID, "Post t3_a is not in the current list.").Return(4, nil)
	f.cmd.handleUpdate(context.Background(), cmdUpdate(ownerID, "/save t3_a"))
}

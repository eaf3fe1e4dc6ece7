package share

import (
	"context"
	"fmt"

	"github.com/orgball2608/reddit-reader-bot/internal/domain"
	"github.com/orgball2608/reddit-reader-bot/internal/repositories/shared"
	"github.com/orgball2608/reddit-reader-bot/internal/telegram"
	"github.com/orgball2608/reddit-reader-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Telegram   telegram.Client
	SharedRepo shared.Repository
	Logger     logger.Logger
}

// Service posts links to the default channel at most once per post.
type Service struct {
	telegram telegram.Client
	repo     shared.Repository
	logger   logger.Logger
}

func New(opts Opts) *Service {
	return &Service{
		telegram: opts.Telegram,
		repo:     opts.SharedRepo,
		logger:   opts.Logger.WithComponent("Share"),
	}
}

// Share sends post to the channel and records it. A post shared before
// returns shared.ErrAlreadyExists without sending anything.
func (s *Service) Share(ctx context.Context, post domain.Post, subreddit string) error {
	exists, err := s.repo.Exists(ctx, post.ID)
	if err != nil {
		return fmt.Errorf("check shared post %s: %w", post.ID, err)
	}
	if exists {
		return shared.ErrAlreadyExists
	}

	if err := s.telegram.SendPostToDefaultChannel(post); err != nil {
		return err
	}

	err = s.repo.Create(ctx, domain.SharedPost{
		PostID:    post.ID,
		Subreddit: subreddit,
		Permalink: post.Permalink,
	})
	if err != nil {
		// The post is already in the channel; a lost record only risks a repeat later.
		s.logger.Error("Failed to record shared post", "postID", post.ID, "error", err)
	}

	s.logger.Info("Post shared", "postID", post.ID, "subreddit", subreddit)
	return nil
}

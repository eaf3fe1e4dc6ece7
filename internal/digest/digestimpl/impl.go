package digestimpl

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/reddit-reader-bot/internal/digest"
	"github.com/orgball2608/reddit-reader-bot/internal/reddit"
	"github.com/orgball2608/reddit-reader-bot/internal/repositories/shared"
	"github.com/orgball2608/reddit-reader-bot/internal/share"
	"github.com/orgball2608/reddit-reader-bot/pkg/config"
	"github.com/orgball2608/reddit-reader-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Reddit     reddit.Client
	Share      *share.Service
	SharedRepo shared.Repository
	Logger     logger.Logger
	Config     *config.Config
}

type DigestImpl struct {
	Reddit     reddit.Client
	Share      *share.Service
	SharedRepo shared.Repository
	Logger     logger.Logger
	Config     *config.Config
}

func New(opts Opts) *DigestImpl {
	return &DigestImpl{
		Reddit:     opts.Reddit,
		Share:      opts.Share,
		SharedRepo: opts.SharedRepo,
		Logger:     opts.Logger.WithComponent("Digest"),
		Config:     opts.Config,
	}
}

var _ digest.Client = (*DigestImpl)(nil)

// Schedule registers the digest cron job (when enabled) and a nightly cleanup of
// old shared-post records.
func (d *DigestImpl) Schedule(ctx context.Context) error {
	loc, err := time.LoadLocation(d.Config.Digest.Timezone)
	if err != nil {
		loc = time.Local
		d.Logger.Warn("Failed to load digest timezone, using local timezone", "timezone", d.Config.Digest.Timezone, "error", err)
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return fmt.Errorf("failed to create digest scheduler: %w", err)
	}

	if d.Config.Digest.Enabled {
		_, err = scheduler.NewJob(
			gocron.CronJob(d.Config.Digest.Cron, false),
			gocron.NewTask(d.runDigest, ctx),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = scheduler.Shutdown()
			return fmt.Errorf("failed to schedule digest %q: %w", d.Config.Digest.Cron, err)
		}
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(d.runCleanup, ctx),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to schedule shared posts cleanup: %w", err)
	}

	scheduler.Start()
	d.Logger.Info("Digest scheduler started", "enabled", d.Config.Digest.Enabled, "cron", d.Config.Digest.Cron, "timezone", loc.String())

	go func() {
		<-ctx.Done()
		d.Logger.Info("Stopping digest scheduler")
		if err := scheduler.Shutdown(); err != nil {
			d.Logger.Error("Failed to shut down digest scheduler", "error", err)
		}
	}()

	return nil
}

func (d *DigestImpl) runDigest(ctx context.Context) {
	if ctx.Err() != nil {
		d.Logger.Info("Context cancelled, skipping digest")
		return
	}

	digestCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	sent, err := d.SendDigest(digestCtx)
	if err != nil {
		d.Logger.Error("Digest failed", "sent", sent, "error", err)
		return
	}
	d.Logger.Info("Digest completed", "sent", sent)
}

func (d *DigestImpl) runCleanup(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	cleanupCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	rowsDeleted, err := d.SharedRepo.CleanupOldRecords(cleanupCtx, d.Config.Digest.Retention)
	if err != nil {
		d.Logger.Error("Failed to clean up shared posts", "error", err)
		return
	}
	d.Logger.Info("Shared posts cleanup completed", "rows_deleted", rowsDeleted)
}

// SendDigest fetches the first page of the configured subreddit in its own
// session, independent of any chat, and shares what was not shared before.
func (d *DigestImpl) SendDigest(ctx context.Context) (int, error) {
	builder, err := reddit.NewURLBuilder(d.Config.Reddit.BaseURL)
	if err != nil {
		return 0, err
	}
	if d.Config.Reddit.Subreddit != "" {
		if err := builder.AddParam(reddit.ParamSubreddit, d.Config.Reddit.Subreddit); err != nil {
			return 0, err
		}
	}
	if err := builder.AddParam(reddit.ParamLimit, strconv.Itoa(d.Config.Digest.Size)); err != nil {
		return 0, err
	}

	label, ok := builder.SubredditLabel()
	if !ok {
		label = "unknown"
	}

	page, err := d.Reddit.FetchPage(ctx, builder)
	if err != nil {
		return 0, fmt.Errorf("fetch digest page: %w", err)
	}

	sent := 0
	var errs []error
	for _, post := range page.Posts {
		err := d.Share.Share(ctx, post, label)
		switch {
		case errors.Is(err, shared.ErrAlreadyExists):
			d.Logger.Debug("Skipping post already shared", "postID", post.ID)
		case err != nil:
			errs = append(errs, err)
		default:
			sent++
		}
	}

	return sent, errors.Join(errs...)
}

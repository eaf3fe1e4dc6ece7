package redditimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/reddit-reader-bot/internal/domain"
	"github.com/orgball2608/reddit-reader-bot/internal/reddit"
	"github.com/orgball2608/reddit-reader-bot/pkg/config"
	"github.com/orgball2608/reddit-reader-bot/pkg/errors"
	"github.com/orgball2608/reddit-reader-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
	Saved  reddit.SavedChecker
	Clock  clockwork.Clock
}

type RedditImpl struct {
	httpClient *http.Client
	userAgent  string
	saved      reddit.SavedChecker
	clock      clockwork.Clock
	logger     logger.Logger
}

func New(opts Opts) *RedditImpl {
	return &RedditImpl{
		httpClient: &http.Client{Timeout: opts.Config.Reddit.Timeout},
		userAgent:  opts.Config.Reddit.UserAgent,
		saved:      opts.Saved,
		clock:      opts.Clock,
		logger:     opts.Logger.WithComponent("RedditClient"),
	}
}

var _ reddit.Client = (*RedditImpl)(nil)

// FetchPage performs a single GET and maps the listing into posts.
func (r *RedditImpl) FetchPage(ctx context.Context, builder *reddit.URLBuilder) (*reddit.Page, error) {
	u, err := builder.Build()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/json")

	r.logger.Debug("Fetching listing page", "url", u.String())

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeNetwork, "reddit unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(fmt.Errorf("%w: status %d", errors.ErrInvalidResponse, resp.StatusCode), "reddit returned an error")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeNetwork, "reading reddit response failed")
	}

	var listing reddit.Listing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, errors.Wrap(fmt.Errorf("%w: %v", errors.ErrDecode, err), "malformed listing")
	}
	if listing.Data.Children == nil {
		return nil, errors.Wrap(fmt.Errorf("%w: listing has no children", errors.ErrDecode), "malformed listing")
	}

	now := r.clock.Now()
	posts := make([]domain.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		post, err := child.Data.ToPost(now, r.saved.IsSaved(child.Data.ID))
		if err != nil {
			return nil, errors.Wrap(err, "malformed listing")
		}
		posts = append(posts, post)
	}

	r.logger.Debug("Fetched listing page", "count", len(posts), "after", listing.After())

	return &reddit.Page{
		Posts: posts,
		After: listing.After(),
	}, nil
}

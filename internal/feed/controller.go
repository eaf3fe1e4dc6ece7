package feed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/orgball2608/reddit-reader-bot/internal/domain"
	"github.com/orgball2608/reddit-reader-bot/internal/reddit"
	"github.com/orgball2608/reddit-reader-bot/internal/repositories/saved"
	"github.com/orgball2608/reddit-reader-bot/pkg/errors"
	"github.com/orgball2608/reddit-reader-bot/pkg/logger"
	"github.com/samber/lo"
)

// Mode selects what the controller lists.
type Mode int

const (
	ModeFeed Mode = iota
	ModeSaved
)

func (m Mode) String() string {
	if m == ModeSaved {
		return "saved"
	}
	return "feed"
}

// Status is the outcome of a FetchNextPage call.
type Status int

const (
	// StatusFetched means a page was fetched and merged.
	StatusFetched Status = iota
	// StatusInFlight means another fetch was pending; nothing was done.
	StatusInFlight
	// StatusSavedMode means the controller lists saved posts; no fetch happens.
	StatusSavedMode
	// StatusExhausted means the previous page carried no cursor.
	StatusExhausted
	// StatusRecovered means the fetch failed; the error was logged and state is unchanged.
	StatusRecovered
	// StatusDiscarded means ShowSaved or ShowFeed ran during the fetch and the page was dropped.
	StatusDiscarded
)

func (s Status) String() string {
	switch s {
	case StatusFetched:
		return "fetched"
	case StatusInFlight:
		return "in_flight"
	case StatusSavedMode:
		return "saved_mode"
	case StatusExhausted:
		return "exhausted"
	case StatusRecovered:
		return "recovered"
	case StatusDiscarded:
		return "discarded"
	}
	return "unknown"
}

// Result reports what FetchNextPage did.
type Result struct {
	Status Status
	// Added is the number of posts appended by this call.
	Added int
	// Posts holds a copy of the appended posts.
	Posts []domain.Post
	// Err is set when Status is StatusRecovered.
	Err error
}

type Opts struct {
	BaseURL   string
	Subreddit string
	PageSize  int
}

// Controller holds the browsing state of one session: the accumulated feed,
// the pagination cursor and the saved view with its title filter.
type Controller struct {
	opts   Opts
	client reddit.Client
	store  saved.Repository
	logger logger.Logger

	mu        sync.Mutex
	builder   *reddit.URLBuilder
	subreddit string
	after     string
	exhausted bool
	loading   bool
	mode      Mode
	posts     []domain.Post
	saved     []domain.Post
	query     string
}

func NewController(opts Opts, client reddit.Client, store saved.Repository, logger logger.Logger) *Controller {
	return &Controller{
		opts:      opts,
		client:    client,
		store:     store,
		logger:    logger.WithComponent("FeedController"),
		subreddit: "unknown",
	}
}

// Start prepares a fresh feed session. It must be called before the first
// FetchNextPage and is called again by ShowFeed.
func (c *Controller) Start() error {
	builder, err := reddit.NewURLBuilder(c.opts.BaseURL)
	if err != nil {
		return err
	}
	if c.opts.Subreddit != "" {
		if err := builder.AddParam(reddit.ParamSubreddit, c.opts.Subreddit); err != nil {
			return err
		}
	}

	label, ok := builder.SubredditLabel()
	if !ok {
		label = "unknown"
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.builder = builder
	c.subreddit = label
	c.after = ""
	c.exhausted = false
	return nil
}

// FetchNextPage fetches the page after the current cursor and appends it.
// Errors never escape: they are logged and reported as StatusRecovered.
func (c *Controller) FetchNextPage(ctx context.Context) Result {
	c.mu.Lock()
	switch {
	case c.loading:
		c.mu.Unlock()
		return Result{Status: StatusInFlight}
	case c.mode == ModeSaved:
		c.mu.Unlock()
		return Result{Status: StatusSavedMode}
	case c.exhausted:
		c.mu.Unlock()
		return Result{Status: StatusExhausted}
	case c.builder == nil:
		c.mu.Unlock()
		return c.recovered(errors.WrapWithCode(errors.ErrInvalidURL, errors.CodeInvalidURL, "controller not started"))
	}

	c.loading = true
	builder, after := c.builder, c.after
	c.mu.Unlock()

	page, err := c.fetch(ctx, builder, after)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if err != nil {
		return c.recovered(err)
	}
	// A ShowSaved or ShowFeed during the fetch replaced the session; drop the page.
	if c.builder != builder || c.mode != ModeFeed {
		c.logger.Debug("Discarding page fetched for a replaced session")
		return Result{Status: StatusDiscarded}
	}

	c.posts = append(c.posts, page.Posts...)
	c.after = page.After
	c.exhausted = page.After == ""

	c.logger.Debug("Fetched page", "subreddit", c.subreddit, "added", len(page.Posts), "total", len(c.posts), "after", c.after)
	return Result{Status: StatusFetched, Added: len(page.Posts), Posts: clonePosts(page.Posts)}
}

func (c *Controller) fetch(ctx context.Context, builder *reddit.URLBuilder, after string) (*reddit.Page, error) {
	if err := builder.AddParam(reddit.ParamLimit, strconv.Itoa(c.opts.PageSize)); err != nil {
		return nil, err
	}
	if after != "" {
		if err := builder.AddParam(reddit.ParamAfter, after); err != nil {
			return nil, err
		}
	}
	return c.client.FetchPage(ctx, builder)
}

func (c *Controller) recovered(err error) Result {
	c.logger.Error("Error loading next page", "subreddit", c.subreddit, "code", errors.GetCode(err), "error", err)
	return Result{Status: StatusRecovered, Err: err}
}

// ShowSaved switches to the saved view. The feed and its cursor are discarded.
func (c *Controller) ShowSaved() saved.LoadResult {
	res := c.store.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.mode = ModeSaved
	c.after = ""
	c.exhausted = false
	c.query = ""
	c.saved = res.Posts
	c.posts = clonePosts(res.Posts)

	if res.Recovered() {
		c.logger.Warn("Saved posts recovered as empty", "recovery", res.Recovery.String())
	}
	return res
}

// ShowFeed switches back to the feed and restarts pagination from page one.
func (c *Controller) ShowFeed() error {
	c.mu.Lock()
	c.mode = ModeFeed
	c.posts = nil
	c.saved = nil
	c.query = ""
	c.builder = nil
	c.mu.Unlock()

	return c.Start()
}

// Filter narrows the saved view to titles containing query, ignoring case.
// An empty query shows the whole saved set again. Returns false outside the saved view.
func (c *Controller) Filter(query string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeSaved {
		return false
	}

	c.query = query
	c.posts = filterByTitle(c.saved, query)
	return true
}

// ToggleSaved flips the bookmark of a listed post and persists it.
func (c *Controller) ToggleSaved(id string) (domain.Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	post, idx, ok := lo.FindIndexOf(c.posts, byID(id))
	if !ok {
		return domain.Post{}, fmt.Errorf("post %s: %w", id, errors.ErrNotFound)
	}
	post.Saved = !post.Saved

	isSaved, err := c.store.Toggle(post)
	if err != nil {
		return domain.Post{}, fmt.Errorf("toggle saved post %s: %w", id, err)
	}
	post.Saved = isSaved
	c.posts[idx] = post

	if _, i, ok := lo.FindIndexOf(c.saved, byID(id)); ok {
		c.saved[i] = post
	}

	return post, nil
}

// Posts returns a copy of the displayed list.
func (c *Controller) Posts() []domain.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clonePosts(c.posts)
}

// Post looks up a displayed post by id.
func (c *Controller) Post(id string) (domain.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return lo.Find(c.posts, byID(id))
}

// Subreddit returns the "r/<name>" label resolved by Start.
func (c *Controller) Subreddit() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subreddit
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Query returns the active saved-view filter.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// HasMore reports whether another feed page can be requested.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode == ModeFeed && !c.exhausted
}

func byID(id string) func(domain.Post) bool {
	return func(p domain.Post) bool { return p.ID == id }
}

func filterByTitle(posts []domain.Post, query string) []domain.Post {
	if query == "" {
		return clonePosts(posts)
	}
	needle := strings.ToLower(query)
	return lo.Filter(posts, func(p domain.Post, _ int) bool {
		return strings.Contains(strings.ToLower(p.Title), needle)
	})
}

func clonePosts(posts []domain.Post) []domain.Post {
	out := make([]domain.Post, len(posts))
	copy(out, posts)
	return out
}

package reddit

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/orgball2608/reddit-reader-bot/pkg/errors"
)

// Recognized listing parameters. Subreddit rewrites the path, the others
// are query string items.
const (
	ParamSubreddit = "subreddit"
	ParamLimit     = "limit"
	ParamAfter     = "after"
)

var allowedParams = map[string]struct{}{
	ParamSubreddit: {},
	ParamLimit:     {},
	ParamAfter:     {},
}

// IsValidParam reports whether name is one of the recognized parameters.
func IsValidParam(name string) bool {
	_, ok := allowedParams[name]
	return ok
}

// URLBuilder composes listing URLs of the form .../r/<subreddit>/top.json?limit=N&after=X.
type URLBuilder struct {
	u *url.URL
}

// NewURLBuilder parses base, which must be an absolute URL.
func NewURLBuilder(base string) (*URLBuilder, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", errors.ErrInvalidURL, base)
	}
	return &URLBuilder{u: u}, nil
}

// AddParam applies a recognized parameter. On error the builder is left untouched.
func (b *URLBuilder) AddParam(name, value string) error {
	if !IsValidParam(name) {
		return fmt.Errorf("%w: unknown parameter %q", errors.ErrInvalidURL, name)
	}
	if name == ParamSubreddit {
		return b.setSubreddit(value)
	}

	q := b.u.Query()
	q.Set(name, value)
	b.u.RawQuery = q.Encode()
	return nil
}

func (b *URLBuilder) setSubreddit(subreddit string) error {
	if subreddit == "" {
		return fmt.Errorf("%w: empty subreddit", errors.ErrInvalidURL)
	}

	segments := pathSegments(b.u.Path)
	if i := subredditIndex(segments); i >= 0 {
		segments[i] = subreddit
	}
	b.u.Path = "/" + strings.Join(segments, "/")
	b.u.RawPath = ""
	return nil
}

// SubredditLabel returns "r/<name>" for the segment following "r".
func (b *URLBuilder) SubredditLabel() (string, bool) {
	segments := pathSegments(b.u.Path)
	i := subredditIndex(segments)
	if i < 0 {
		return "", false
	}
	return "r/" + segments[i], true
}

// Build returns a copy of the composed URL.
func (b *URLBuilder) Build() (*url.URL, error) {
	built, err := url.Parse(b.u.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidURL, err)
	}
	return built, nil
}

func pathSegments(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

// subredditIndex returns the index of the segment right after the first "r",
// or -1 when there is none.
func subredditIndex(segments []string) int {
	for i, s := range segments {
		if s == "r" {
			if i+1 < len(segments) {
				return i + 1
			}
			return -1
		}
	}
	return -1
}

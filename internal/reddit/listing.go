package reddit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/orgball2608/reddit-reader-bot/internal/domain"
	"github.com/orgball2608/reddit-reader-bot/pkg/errors"
)

// PermalinkHost is prepended to the relative permalink of every record.
const PermalinkHost = "https://www.reddit.com"

// Listing is the JSON envelope returned by the listing endpoints.
type Listing struct {
	Data struct {
		After    *string `json:"after"`
		Children []Child `json:"children"`
	} `json:"data"`
}

type Child struct {
	Data Record `json:"data"`
}

// Record is a single raw post as sent by reddit.
type Record struct {
	ID             string   `json:"id"`
	AuthorFullname string   `json:"author_fullname"`
	Title          string   `json:"title"`
	Ups            int      `json:"ups"`
	Downs          int      `json:"downs"`
	Domain         string   `json:"domain"`
	Preview        *Preview `json:"preview"`
	NumComments    int      `json:"num_comments"`
	CreatedUTC     float64  `json:"created_utc"`
	Permalink      string   `json:"permalink"`
}

type Preview struct {
	Images []struct {
		Source struct {
			URL string `json:"url"`
		} `json:"source"`
	} `json:"images"`
}

// After returns the next page cursor, empty when the listing is exhausted.
func (l *Listing) After() string {
	if l.Data.After == nil {
		return ""
	}
	return *l.Data.After
}

// ImageURL returns the first preview image with HTML-escaped ampersands restored.
func (r *Record) ImageURL() string {
	if r.Preview == nil || len(r.Preview.Images) == 0 {
		return ""
	}
	return strings.ReplaceAll(r.Preview.Images[0].Source.URL, "&amp;", "&")
}

// Rating is ups + downs. Reddit reports downs as 0 or negative, so the sum is kept as is.
func (r *Record) Rating() int {
	return r.Ups + r.Downs
}

// TimePassed formats the age of the record relative to now.
func (r *Record) TimePassed(now time.Time) string {
	created := time.Unix(int64(r.CreatedUTC), 0)
	return FormatAge(now.Sub(created))
}

// FormatAge buckets d into whole minutes below an hour, hours below a day and days otherwise.
// Negative durations, from a creation time ahead of our clock, count as zero.
func FormatAge(d time.Duration) string {
	d = max(d, 0)
	switch {
	case d < time.Hour:
		return strconv.Itoa(int(d/time.Minute)) + "m"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d/time.Hour)) + "h"
	default:
		return strconv.Itoa(int(d/(24*time.Hour))) + "d"
	}
}

// ToPost maps the record into a domain post.
func (r *Record) ToPost(now time.Time, saved bool) (domain.Post, error) {
	if r.ID == "" {
		return domain.Post{}, fmt.Errorf("%w: record %q has no id", errors.ErrInvalidPost, r.Title)
	}

	return domain.Post{
		ID:          r.ID,
		Author:      r.AuthorFullname,
		TimePassed:  r.TimePassed(now),
		Domain:      r.Domain,
		Title:       r.Title,
		ImageURL:    r.ImageURL(),
		Rating:      r.Rating(),
		NumComments: r.NumComments,
		Permalink:   PermalinkHost + r.Permalink,
		Saved:       saved,
	}, nil
}

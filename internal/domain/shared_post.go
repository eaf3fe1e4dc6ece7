package domain

import "time"

// SharedPost records a post that was already sent to the channel.
type SharedPost struct {
	ID        int
	PostID    string
	Subreddit string
	Permalink string
	CreatedAt time.Time
}

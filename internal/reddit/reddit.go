package reddit

import (
	"context"

	"github.com/orgball2608/reddit-reader-bot/internal/domain"
)

// Page is one decoded listing page.
type Page struct {
	Posts []domain.Post
	After string
}

// SavedChecker tells the fetcher which posts are bookmarked.
type SavedChecker interface {
	IsSaved(id string) bool
}

//go:generate go run go.uber.org/mock/mockgen -source=reddit.go -destination=mocks/mock.go

type Client interface {
	// FetchPage performs one GET against the URL composed by builder.
	FetchPage(ctx context.Context, builder *URLBuilder) (*Page, error)
}

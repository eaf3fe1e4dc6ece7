package shared

import (
	"context"
	"errors"
	"time"

	"github.com/orgball2608/reddit-reader-bot/internal/domain"
)

var (
	ErrAlreadyExists = errors.New("shared post already exists")
	ErrCannotCreate  = errors.New("error create shared post")
)

//go:generate go run go.uber.org/mock/mockgen -source=shared.go -destination=mocks/mock.go
type Repository interface {
	// Create records a post as shared. Returns ErrAlreadyExists for a post shared before.
	Create(ctx context.Context, post domain.SharedPost) error

	// Exists checks if a post with the given reddit ID was already shared
	Exists(ctx context.Context, postID string) (bool, error)

	// CleanupOldRecords deletes records older than the given duration
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}

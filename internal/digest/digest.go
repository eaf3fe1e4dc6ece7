package digest

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=digest.go -destination=mocks/mock.go

type Client interface {
	// Schedule starts the digest and cleanup jobs. They stop when ctx is done.
	Schedule(ctx context.Context) error
	// SendDigest shares the current top posts not shared before and returns how many were sent.
	SendDigest(ctx context.Context) (int, error)
}

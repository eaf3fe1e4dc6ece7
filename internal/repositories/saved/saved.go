package saved

import (
	"github.com/orgball2608/reddit-reader-bot/internal/domain"
)

// Recovery tells how Load obtained its result.
type Recovery int

const (
	// RecoveryNone means the file was read and decoded.
	RecoveryNone Recovery = iota
	// RecoveryMissing means there was no file yet.
	RecoveryMissing
	// RecoveryCorrupt means the file could not be read or decoded and was treated as empty.
	RecoveryCorrupt
)

func (r Recovery) String() string {
	switch r {
	case RecoveryMissing:
		return "missing"
	case RecoveryCorrupt:
		return "corrupt"
	default:
		return "none"
	}
}

// LoadResult is the full saved set together with the recovery path taken.
type LoadResult struct {
	Posts    []domain.Post
	Recovery Recovery
}

// Recovered reports whether the result was substituted for unreadable state.
func (r LoadResult) Recovered() bool {
	return r.Recovery != RecoveryNone
}

type Repository interface {
	// Load reads the whole saved set. A missing or undecodable file yields an empty, recovered result.
	Load() LoadResult

	// LoadAll is Load().Posts.
	LoadAll() []domain.Post

	// Toggle removes the post if it is saved and appends it otherwise.
	// It reports whether the post is saved afterwards.
	Toggle(post domain.Post) (bool, error)

	// IsSaved checks membership by post id
	IsSaved(id string) bool
}

package saved

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/orgball2608/reddit-reader-bot/internal/domain"
	"github.com/orgball2608/reddit-reader-bot/pkg/config"
	"github.com/orgball2608/reddit-reader-bot/pkg/logger"
	"github.com/samber/lo"
)

// FileRepository keeps the saved set as a JSON array in a single file.
// Every call re-reads the file and every toggle rewrites it.
type FileRepository struct {
	path   string
	mu     sync.Mutex
	logger logger.Logger
}

func NewFileRepository(cfg *config.Config, logger logger.Logger) *FileRepository {
	return NewFileRepositoryAt(cfg.Saved.Path, logger)
}

// NewFileRepositoryAt creates a repository backed by the file at path.
// The file and its directory are created on the first toggle.
func NewFileRepositoryAt(path string, logger logger.Logger) *FileRepository {
	return &FileRepository{
		path:   path,
		logger: logger.WithComponent("SavedPostsRepo"),
	}
}

var _ Repository = (*FileRepository)(nil)

func (r *FileRepository) Load() LoadResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *FileRepository) LoadAll() []domain.Post {
	return r.Load().Posts
}

func (r *FileRepository) IsSaved(id string) bool {
	return lo.ContainsBy(r.LoadAll(), func(p domain.Post) bool {
		return p.ID == id
	})
}

func (r *FileRepository) Toggle(post domain.Post) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts := r.load().Posts
	remaining := lo.Reject(posts, func(p domain.Post, _ int) bool {
		return p.ID == post.ID
	})

	saved := len(remaining) == len(posts)
	if saved {
		post.Saved = true
		remaining = append(remaining, post)
	}

	if err := r.write(remaining); err != nil {
		return !saved, err
	}

	r.logger.Debug("Toggled saved post", "postID", post.ID, "saved", saved, "total", len(remaining))
	return saved, nil
}

func (r *FileRepository) load() LoadResult {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult{Posts: []domain.Post{}, Recovery: RecoveryMissing}
		}
		r.logger.Warn("Failed to read saved posts, treating as empty", "path", r.path, "error", err)
		return LoadResult{Posts: []domain.Post{}, Recovery: RecoveryCorrupt}
	}

	var posts []domain.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		r.logger.Warn("Failed to decode saved posts, treating as empty", "path", r.path, "error", err)
		return LoadResult{Posts: []domain.Post{}, Recovery: RecoveryCorrupt}
	}
	if posts == nil {
		posts = []domain.Post{}
	}

	return LoadResult{Posts: posts, Recovery: RecoveryNone}
}

func (r *FileRepository) write(posts []domain.Post) error {
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal saved posts: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create saved posts dir: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write saved posts: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace saved posts: %w", err)
	}
	return nil
}

package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upSharedPosts, downSharedPosts)
}

func upSharedPosts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS shared_posts (
			id         SERIAL PRIMARY KEY,
			post_id    VARCHAR NOT NULL UNIQUE,
			subreddit  VARCHAR NOT NULL,
			permalink  VARCHAR NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS shared_posts_created_at_idx ON shared_posts (created_at);
	`)
	return err
}

func downSharedPosts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS shared_posts;`)
	return err
}

package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
		// MaxConns caps the pool; only the shared-post history uses it.
		MaxConns int `env:"POSTGRES_MAX_CONNS" env-default:"4"`
	}
	Telegram struct {
		User     int64  `env:"TELEGRAM_USER"`
		BotToken string `env:"TELEGRAM_BOT_TOKEN"`
		Channel  string `env:"TELEGRAM_CHANNEL"`
	}
	Reddit struct {
		BaseURL   string        `env:"REDDIT_BASE_URL" env-default:"https://www.reddit.com/r/ios/top.json"`
		Subreddit string        `env:"REDDIT_SUBREDDIT" env-default:"ios"`
		PageSize  int           `env:"REDDIT_PAGE_SIZE" env-default:"15"`
		UserAgent string        `env:"REDDIT_USER_AGENT" env-default:"reddit-reader-bot/1.0"`
		Timeout   time.Duration `env:"REDDIT_TIMEOUT" env-default:"30s"`
	}
	Saved struct {
		Path string `env:"SAVED_POSTS_PATH" env-default:"./data/saved_posts.json"`
	}
	Sessions struct {
		// Chats idle for longer lose their feed session. Zero keeps sessions forever.
		IdleTTL time.Duration `env:"SESSION_IDLE_TTL" env-default:"24h"`
	}
	Digest struct {
		Enabled bool   `env:"DIGEST_ENABLED" env-default:"true"`
		Cron    string `env:"DIGEST_CRON" env-default:"0 9 * * *"`
		Size    int    `env:"DIGEST_SIZE" env-default:"5"`
		// Timezone the cron expression is evaluated in.
		Timezone string `env:"DIGEST_TIMEZONE" env-default:"UTC"`
		// Retention of shared-post records; older ones are pruned nightly.
		Retention time.Duration `env:"DIGEST_RETENTION" env-default:"720h"`
	}
	RateLimit struct {
		Requests int           `env:"RATE_LIMIT_REQUESTS" env-default:"1"`
		Per      time.Duration `env:"RATE_LIMIT_PER" env-default:"2s"`
		Burst    int           `env:"RATE_LIMIT_BURST" env-default:"5"`
	}
}

// GetDSN returns the postgres connection string used by database/sql and goose.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

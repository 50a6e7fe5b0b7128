// wiring shared by the HTTP service and the Telegram bot
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"reuseai/api/internal/config"
	"reuseai/api/internal/reuse"
	"reuseai/api/internal/store"
	"reuseai/api/internal/vision"
	"reuseai/api/internal/vision/gemini"
	"reuseai/api/internal/vision/openai"
)

// NewEngines registers every provider that has a credential.
func NewEngines(cfg *config.Config) *vision.Engines {
	engs := &vision.Engines{Default: cfg.LLMProvider}
	if cfg.OpenAIAPIKey != "" {
		engs.OpenAI = openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	}
	if cfg.GeminiAPIKey != "" {
		engs.Gemini = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	return engs
}

// NewCache opens the configured idea cache. The returned func releases its connections.
func NewCache(ctx context.Context, cfg *config.Config) (store.IdeasCache, func(), error) {
	switch cfg.IdeasCache {
	case config.CachePostgres:
		if err := store.Migrate(ctx, cfg.DatabaseURL); err != nil {
			return nil, nil, err
		}
		db, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		logrus.Info("ideas cache: postgres")
		return store.NewPostgresCache(db, cfg.CacheTTL), func() { _ = db.Close() }, nil

	case config.CacheRedis:
		client, err := store.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		logrus.WithField("addr", cfg.RedisAddr).Info("ideas cache: redis")
		return store.NewRedisCache(client, cfg.CacheTTL), func() { _ = client.Close() }, nil

	default:
		return store.Noop{}, func() {}, nil
	}
}

// NewService builds the analysis service and returns a cleanup func for its cache.
func NewService(ctx context.Context, cfg *config.Config) (*reuse.Service, func(), error) {
	cache, closeCache, err := NewCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	engines := NewEngines(cfg)
	logrus.WithFields(logrus.Fields{
		"default":        cfg.LLMProvider,
		"available":      engines.Available(),
		"pre_call_delay": cfg.PreCallDelay.String(),
		"max_tokens":     cfg.MaxOutputTokens,
	}).Info("engines ready")

	svc := reuse.NewService(
		engines,
		cache,
		reuse.NewThrottle(cfg.PreCallDelay, cfg.RateLimitRPS, cfg.RateLimitBurst),
		reuse.Options{
			MaxOutputTokens: cfg.MaxOutputTokens,
			RequestTimeout:  cfg.RequestTimeout,
			MaxImageSide:    cfg.MaxImageSide,
		},
	)
	return svc, closeCache, nil
}

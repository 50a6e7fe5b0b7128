package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	CacheNone     = "none"
	CachePostgres = "postgres"
	CacheRedis    = "redis"
)

type Config struct {
	Host    string
	Port    string
	GinMode string

	// LLMProvider is the engine used when a request does not name one.
	LLMProvider   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiAPIKey  string
	GeminiModel   string

	MaxOutputTokens int
	PreCallDelay    time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	RequestTimeout  time.Duration
	MaxUploadMB     int64
	MaxImageSide    int

	FrontendFile    string
	CORSAllowOrigin string

	IdeasCache    string
	CacheTTL      time.Duration
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TelegramBotToken string
	WebhookURL       string

	LogLevel  string
	LogFormat string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "5000")
	v.SetDefault("GIN_MODE", "release")

	v.SetDefault("LLM_PROVIDER", ProviderOpenAI)
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")

	v.SetDefault("MAX_OUTPUT_TOKENS", 200)
	v.SetDefault("PRE_CALL_DELAY", "3s")
	v.SetDefault("RATE_LIMIT_RPS", 0.0)
	v.SetDefault("RATE_LIMIT_BURST", 1)
	v.SetDefault("REQUEST_TIMEOUT", "70s")
	v.SetDefault("MAX_UPLOAD_MB", 20)
	v.SetDefault("MAX_IMAGE_SIDE", 0)

	v.SetDefault("CORS_ALLOW_ORIGIN", "*")

	v.SetDefault("IDEAS_CACHE", CacheNone)
	v.SetDefault("CACHE_TTL", "24h")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load reads an optional .env file and then the process environment.
// It fails when the credential of the default provider is missing.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	preCallDelay, err := durationSetting(v, "PRE_CALL_DELAY")
	if err != nil {
		return nil, err
	}
	requestTimeout, err := durationSetting(v, "REQUEST_TIMEOUT")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := durationSetting(v, "CACHE_TTL")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Host:    strings.TrimSpace(v.GetString("HOST")),
		Port:    strings.TrimSpace(v.GetString("PORT")),
		GinMode: strings.TrimSpace(v.GetString("GIN_MODE")),

		LLMProvider:   strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
		OpenAIAPIKey:  strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		OpenAIModel:   strings.TrimSpace(v.GetString("OPENAI_MODEL")),
		OpenAIBaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("OPENAI_BASE_URL")), "/"),
		GeminiAPIKey:  strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		GeminiModel:   strings.TrimSpace(v.GetString("GEMINI_MODEL")),

		MaxOutputTokens: v.GetInt("MAX_OUTPUT_TOKENS"),
		PreCallDelay:    preCallDelay,
		RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
		RequestTimeout:  requestTimeout,
		MaxUploadMB:     v.GetInt64("MAX_UPLOAD_MB"),
		MaxImageSide:    v.GetInt("MAX_IMAGE_SIDE"),

		FrontendFile:    strings.TrimSpace(v.GetString("FRONTEND_FILE")),
		CORSAllowOrigin: strings.TrimSpace(v.GetString("CORS_ALLOW_ORIGIN")),

		IdeasCache:    strings.ToLower(strings.TrimSpace(v.GetString("IDEAS_CACHE"))),
		CacheTTL:      cacheTTL,
		DatabaseURL:   strings.TrimSpace(v.GetString("DATABASE_URL")),
		RedisAddr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		TelegramBotToken: strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
		WebhookURL:       strings.TrimSpace(v.GetString("WEBHOOK_URL")),

		LogLevel:  strings.TrimSpace(v.GetString("LOG_LEVEL")),
		LogFormat: strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT"))),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise only fail on the first request.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI, "gpt":
		c.LLMProvider = ProviderOpenAI
		if c.OpenAIAPIKey == "" {
			return errors.New("missing required env OPENAI_API_KEY")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("missing required env GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q; use openai or gemini", c.LLMProvider)
	}

	if c.MaxOutputTokens <= 0 {
		return fmt.Errorf("MAX_OUTPUT_TOKENS must be positive, got %d", c.MaxOutputTokens)
	}
	if c.PreCallDelay < 0 {
		return fmt.Errorf("PRE_CALL_DELAY must not be negative, got %s", c.PreCallDelay)
	}
	if c.PreCallDelay > 0 && c.PreCallDelay < time.Millisecond {
		return fmt.Errorf("PRE_CALL_DELAY %s is below 1ms; use a unit such as 3s", c.PreCallDelay)
	}
	if c.RequestTimeout < 0 || (c.RequestTimeout > 0 && c.RequestTimeout < time.Second) {
		return fmt.Errorf("REQUEST_TIMEOUT %s is below 1s; use a unit such as 70s", c.RequestTimeout)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %v", c.RateLimitRPS)
	}
	if c.RateLimitBurst < 1 {
		c.RateLimitBurst = 1
	}

	switch c.IdeasCache {
	case "", CacheNone:
		c.IdeasCache = CacheNone
	case CachePostgres:
		if c.DatabaseURL == "" {
			return errors.New("IDEAS_CACHE=postgres requires DATABASE_URL")
		}
	case CacheRedis:
		if c.RedisAddr == "" {
			return errors.New("IDEAS_CACHE=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown IDEAS_CACHE %q; use none, postgres or redis", c.IdeasCache)
	}
	return nil
}

// durationSetting reads a Go duration ("3s", "250ms"); a bare number means seconds.
func durationSetting(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

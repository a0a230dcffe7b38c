package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const devSecret = "dev-secret-change-me"

// Word list sources.
const (
	WordsFile     = "file"
	WordsPostgres = "postgres"
	WordsRedis    = "redis"
)

// Config describes all runtime settings for the authority.
//
// Loaded once in main, validated, then passed down explicitly.
type Config struct {
	Env string // dev|stage|prod

	Log struct {
		Format  string // text|json
		Level   string // debug|info|warn|error
		Targets bool   // debug-log each session's target
	}

	Game struct {
		Addr             string
		IdleTimeout      time.Duration
		HandshakeTimeout time.Duration
		MaxSessions      int
	}

	TLS struct {
		CertFile     string
		KeyFile      string
		ClientCAFile string
	}

	Words struct {
		Source      string // file|postgres|redis
		TargetsFile string
		GuessesFile string
	}

	Postgres struct {
		URL           string
		RunMigrations bool
		MigrationsDir string
	}

	Redis struct {
		Addr       string
		DB         int
		TargetsKey string
		GuessesKey string
	}

	Ops struct {
		Addr              string // empty => ops HTTP disabled
		ReadHeaderTimeout time.Duration
		ShutdownTimeout   time.Duration
		Secret            string
		TokenTTL          time.Duration
	}
}

func LoadFromEnv() (Config, error) {
	var c Config

	c.Env = envString("APP_ENV", "dev")
	c.Log.Format = envString("LOG_FORMAT", "text")
	c.Log.Level = envString("LOG_LEVEL", "info")
	c.Log.Targets = envBool("LOG_TARGETS", false)

	c.Game.Addr = envString("GAME_ADDR", ":9443")
	c.Game.IdleTimeout = envDuration("SESSION_IDLE_TIMEOUT", 5*time.Minute)
	c.Game.HandshakeTimeout = envDuration("HANDSHAKE_TIMEOUT", 10*time.Second)
	c.Game.MaxSessions = envInt("MAX_SESSIONS", 256)

	c.TLS.CertFile = envString("TLS_CERT_FILE", "server.crt")
	c.TLS.KeyFile = envString("TLS_KEY_FILE", "server.key")
	c.TLS.ClientCAFile = envString("TLS_CLIENT_CA_FILE", "client.crt")

	c.Words.Source = envString("WORDS_SOURCE", WordsFile)
	c.Words.TargetsFile = envString("WORDS_TARGETS_FILE", "")
	c.Words.GuessesFile = envString("WORDS_GUESSES_FILE", "")

	c.Postgres.URL = envString("DATABASE_URL", "")
	c.Postgres.RunMigrations = envBool("RUN_MIGRATIONS", false)
	c.Postgres.MigrationsDir = envString("MIGRATIONS_DIR", "./db/migrations")

	c.Redis.Addr = envString("REDIS_ADDR", "localhost:6379")
	c.Redis.DB = envInt("REDIS_DB", 0)
	c.Redis.TargetsKey = envString("REDIS_TARGETS_KEY", "wordle:targets")
	c.Redis.GuessesKey = envString("REDIS_GUESSES_KEY", "wordle:guesses")

	c.Ops.Addr = envString("OPS_HTTP_ADDR", "")
	c.Ops.ReadHeaderTimeout = envDuration("OPS_READ_HEADER_TIMEOUT", 5*time.Second)
	c.Ops.ShutdownTimeout = envDuration("OPS_SHUTDOWN_TIMEOUT", 10*time.Second)
	c.Ops.Secret = envString("OPS_JWT_SECRET", devSecret)
	c.Ops.TokenTTL = envDuration("OPS_TOKEN_TTL", 24*time.Hour)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Game.Addr == "" {
		return errors.New("GAME_ADDR is empty")
	}
	if c.Game.MaxSessions <= 0 {
		return fmt.Errorf("MAX_SESSIONS must be positive, got %d", c.Game.MaxSessions)
	}
	if c.TLS.CertFile == "" || c.TLS.KeyFile == "" || c.TLS.ClientCAFile == "" {
		return errors.New("TLS_CERT_FILE, TLS_KEY_FILE and TLS_CLIENT_CA_FILE are required")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unsupported LOG_FORMAT=%q (want text|json)", c.Log.Format)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("unsupported LOG_LEVEL=%q: %w", c.Log.Level, err)
	}

	switch c.Words.Source {
	case WordsFile:
	case WordsPostgres:
		if c.Postgres.URL == "" {
			return errors.New("DATABASE_URL is empty")
		}
	case WordsRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR is empty")
		}
		if c.Redis.TargetsKey == "" {
			return errors.New("REDIS_TARGETS_KEY is empty")
		}
	default:
		return fmt.Errorf("unsupported WORDS_SOURCE=%q (want file|postgres|redis)", c.Words.Source)
	}

	if c.Ops.Addr != "" {
		if c.Ops.Secret == "" {
			return errors.New("OPS_JWT_SECRET is empty")
		}
		if c.Env != "dev" && c.Ops.Secret == devSecret {
			return fmt.Errorf("refuse to run with default OPS_JWT_SECRET in %s", c.Env)
		}
	}
	return nil
}

// LogLevel is the parsed LOG_LEVEL; Validate has already checked it.
func (c Config) LogLevel() slog.Level {
	var lvl slog.Level
	_ = lvl.UnmarshalText([]byte(c.Log.Level))
	return lvl
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"

	// Upper bound on MAX_UPLOAD_MB. Poll bodies carry up to eight files.
	MaxUploadMBLimit = 100
)

type Config struct {
	Port         int    `env:"PORT" envDefault:"3001"`
	DatabaseURL  string `env:"DATABASE_URL" envDefault:"file:polloroid.db"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	UploadDir   string `env:"UPLOAD_DIR" envDefault:"uploads"`
	MaxUploadMB int64  `env:"MAX_UPLOAD_MB" envDefault:"10"`

	// Requests per minute per client IP on /api/register and /api/login. 0 disables.
	AuthRatePerMinute int `env:"AUTH_RATE_PER_MINUTE" envDefault:"20"`

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

// MaxUploadBytes is the per-file upload limit.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// ParseFlags reads the environment, then lets CLI flags override it
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	fs := flag.NewFlagSet("polloroid", flag.ContinueOnError)

	// Flag defaults are the environment values, so anything set on the CLI wins
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "JWT signing secret (prefer env)")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "Bearer token lifetime")
	fs.StringVar(&cfg.UploadDir, "uploads", cfg.UploadDir, "Directory for uploaded images")
	fs.Int64Var(&cfg.MaxUploadMB, "max-upload-mb", cfg.MaxUploadMB, "Per-file upload limit in MB")
	fs.IntVar(&cfg.AuthRatePerMinute, "auth-rate", cfg.AuthRatePerMinute, "Login/register requests per minute per IP (0 disables)")
	fs.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.DatabaseType != DatabaseSQLite && c.DatabaseType != DatabasePostgres {
		return fmt.Errorf("unsupported database type %q", c.DatabaseType)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token TTL must be positive")
	}
	if c.MaxUploadMB <= 0 || c.MaxUploadMB > MaxUploadMBLimit {
		return fmt.Errorf("max upload size must be 1-%d MB, got %d", MaxUploadMBLimit, c.MaxUploadMB)
	}
	if c.AuthRatePerMinute < 0 {
		return errors.New("auth rate must not be negative")
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/prefs"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/quiz.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:""`

	PrefsBackend   prefs.Backend `env:"PREFS_BACKEND" envDefault:"sqlite"`
	RedisURL       string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisKeyPrefix string        `env:"REDIS_KEY_PREFIX" envDefault:"mathquiz:"`

	MatchSeconds    int           `env:"MATCH_SECONDS" envDefault:"60"`
	QuestionSeconds int           `env:"QUESTION_SECONDS" envDefault:"10"`
	MaxSessions     int           `env:"MAX_SESSIONS" envDefault:"1000"`
	SessionIdleTTL  time.Duration `env:"SESSION_IDLE_TTL" envDefault:"10m"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if _, err := prefs.ParseBackend(string(c.PrefsBackend)); err != nil {
		errs = append(errs, err)
	}
	if c.MatchSeconds <= 0 {
		errs = append(errs, fmt.Errorf("MATCH_SECONDS must be positive, got %d", c.MatchSeconds))
	}
	if c.QuestionSeconds <= 0 {
		errs = append(errs, fmt.Errorf("QUESTION_SECONDS must be positive, got %d", c.QuestionSeconds))
	}
	if c.SessionIdleTTL < 0 {
		errs = append(errs, fmt.Errorf("SESSION_IDLE_TTL must not be negative, got %s", c.SessionIdleTTL))
	}
	return errors.Join(errs...)
}

// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config holds every EUNOIA_* setting.
type Config struct {
	Storage    string `env:"EUNOIA_STORAGE,default=sqlite"`
	DBPath     string `env:"EUNOIA_DB_PATH"`
	DBWAL      bool   `env:"EUNOIA_DB_WAL,default=true"`
	DBSyncMode string `env:"EUNOIA_DB_SYNC,default=NORMAL"`

	SuccessRate float64 `env:"EUNOIA_SUCCESS_RATE,default=0.95"`
	Latency     bool    `env:"EUNOIA_LATENCY,default=true"`
	RandomSeed  int64   `env:"EUNOIA_RANDOM_SEED"`

	JWTSecret  string        `env:"EUNOIA_JWT_SECRET"`
	TokenTTL   time.Duration `env:"EUNOIA_TOKEN_TTL,default=24h"`
	BcryptCost int           `env:"EUNOIA_BCRYPT_COST,default=10"`

	AIEndpoint      string        `env:"EUNOIA_AI_ENDPOINT"`
	AIKey           string        `env:"EUNOIA_AI_KEY"`
	AIModel         string        `env:"EUNOIA_AI_MODEL,default=gpt-4o-mini"`
	AIRatePerMinute float64       `env:"EUNOIA_AI_RATE,default=20"`
	AITimeout       time.Duration `env:"EUNOIA_AI_TIMEOUT,default=30s"`

	HTTPAddr string `env:"EUNOIA_HTTP_ADDR,default=:8080"`

	LogLevel  string `env:"EUNOIA_LOG_LEVEL,default=info"`
	LogFormat string `env:"EUNOIA_LOG_FORMAT,default=text"`

	Seed     bool   `env:"EUNOIA_SEED,default=true"`
	SeedFile string `env:"EUNOIA_SEED_FILE"`
}

// Load reads envFiles (missing files are skipped) and decodes the environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	cfg.DBSyncMode = strings.ToUpper(strings.TrimSpace(cfg.DBSyncMode))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("EUNOIA_STORAGE must be %q or %q, got %q", StorageSQLite, StorageMemory, c.Storage)
	}
	if c.SuccessRate < 0 || c.SuccessRate > 1 {
		return fmt.Errorf("EUNOIA_SUCCESS_RATE must be within [0, 1], got %v", c.SuccessRate)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("EUNOIA_TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.AIRatePerMinute < 0 {
		return fmt.Errorf("EUNOIA_AI_RATE cannot be negative")
	}
	return nil
}

// AIEnabled reports whether an external text generator is configured.
func (c Config) AIEnabled() bool {
	return c.AIEndpoint != ""
}

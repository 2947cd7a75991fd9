// Package app assembles storage, the latency model, services and the
// invocation registry from a Config.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/unowned-ai/eunoia/pkg/ai"
	"github.com/unowned-ai/eunoia/pkg/config"
	"github.com/unowned-ai/eunoia/pkg/invoke"
	"github.com/unowned-ai/eunoia/pkg/journal"
	"github.com/unowned-ai/eunoia/pkg/seed"
	"github.com/unowned-ai/eunoia/pkg/simulate"
	"github.com/unowned-ai/eunoia/pkg/storage/memory"
	"github.com/unowned-ai/eunoia/pkg/storage/sqlstore"
	"github.com/unowned-ai/eunoia/pkg/utils"
)

type App struct {
	Config    config.Config
	Log       logrus.FieldLogger
	Store     journal.Store
	Simulator *simulate.Model
	Services  *journal.Services
	Registry  *invoke.Registry

	close func() error
}

// New opens the configured store, seeds it when enabled and wires every service.
func New(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*App, error) {
	a := &App{Config: cfg, Log: log, close: func() error { return nil }}

	switch cfg.Storage {
	case config.StorageMemory:
		a.Store = memory.New()
	default:
		path, err := utils.ResolveAndEnsureDBPath(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		st, err := sqlstore.Open(path, cfg.DBWAL, cfg.DBSyncMode)
		if err != nil {
			return nil, err
		}
		a.Store = st
		a.close = st.Close
		log.WithField("path", path).Debug("opened journal database")
	}

	a.Simulator = simulate.New(simulatorOptions(cfg)...)
	a.Services = journal.NewServices(a.Store, a.Simulator, serviceOptions(cfg, log)...)
	a.Registry = invoke.NewRegistry()
	invoke.Bind(a.Registry, a.Services)

	if cfg.Seed {
		if err := a.seed(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *App) Close() error {
	return a.close()
}

func (a *App) seed(ctx context.Context) error {
	ds, err := seed.FromFile(a.Config.SeedFile)
	if err != nil {
		return err
	}
	if _, err := seed.Load(ctx, a.Store, ds, a.Services.Auth.HashPassword, time.Now().UTC()); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}
	return nil
}

func simulatorOptions(cfg config.Config) []simulate.Option {
	opts := []simulate.Option{simulate.WithSuccessRate(cfg.SuccessRate)}
	if !cfg.Latency {
		opts = append(opts, simulate.NoDelay())
	}
	if cfg.RandomSeed != 0 {
		opts = append(opts, simulate.WithRand(rand.New(rand.NewSource(cfg.RandomSeed))))
	}
	return opts
}

func serviceOptions(cfg config.Config, log logrus.FieldLogger) []journal.Option {
	opts := []journal.Option{
		journal.WithLogger(log),
		journal.WithTokenTTL(cfg.TokenTTL),
	}
	if cfg.BcryptCost > 0 {
		opts = append(opts, journal.WithBcryptCost(cfg.BcryptCost))
	}
	if cfg.JWTSecret != "" {
		opts = append(opts, journal.WithTokenSecret([]byte(cfg.JWTSecret)))
	}
	if cfg.RandomSeed != 0 {
		opts = append(opts, journal.WithRand(rand.New(rand.NewSource(cfg.RandomSeed+1))))
	}
	if cfg.AIEnabled() {
		client := ai.NewClient(cfg.AIEndpoint, cfg.AIKey, cfg.AIModel,
			ai.WithRatePerMinute(cfg.AIRatePerMinute),
			ai.WithHTTPClient(&http.Client{Timeout: cfg.AITimeout}))
		opts = append(opts, journal.WithGenerator(client))
	}
	return opts
}

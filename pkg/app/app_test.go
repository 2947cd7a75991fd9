package app

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/eunoia/pkg/config"
	"github.com/unowned-ai/eunoia/pkg/journal"
)

func testConfig(storage string) config.Config {
	return config.Config{
		Storage:     storage,
		DBPath:      ":memory:",
		DBSyncMode:  "NORMAL",
		SuccessRate: 1,
		Latency:     false,
		RandomSeed:  7,
		TokenTTL:    time.Hour,
		BcryptCost:  4,
		Seed:        true,
	}
}

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNewWiresSeededServices(t *testing.T) {
	for _, storage := range []string{config.StorageMemory, config.StorageSQLite} {
		t.Run(storage, func(t *testing.T) {
			logrus.SetOutput(io.Discard)
			a, err := New(context.Background(), testConfig(storage), quiet())
			require.NoError(t, err)
			defer a.Close()

			out, err := a.Registry.Call(context.Background(), "entries", "getEntries")
			require.NoError(t, err)
			assert.Equal(t, 10, out.(journal.EntryPage).Total)

			sess, err := a.Services.Auth.Login(context.Background(), "user@example.com", "password123")
			require.NoError(t, err)
			assert.NotEmpty(t, sess.Token)
		})
	}
}

func TestNewWithoutSeedIsEmpty(t *testing.T) {
	cfg := testConfig(config.StorageMemory)
	cfg.Seed = false
	a, err := New(context.Background(), cfg, quiet())
	require.NoError(t, err)
	defer a.Close()

	tags, err := a.Services.Tags.GetTags(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.Equal(t, 1.0, a.Simulator.SuccessRate())
}

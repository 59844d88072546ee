package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/collabsync/internal/logging"
	"github.com/dmitrijs2005/collabsync/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshot = `[
  {"name": "Leanne Graham", "email": "Sincere@april.biz", "address": {"city": "Gwenborough"}, "company": {"name": "Romaguera-Crona"}},
  {"name": "Ervin Howell", "email": "Shanna@melissa.tv"},
  {"name": "Leanne Again", "email": "Sincere@april.biz"}
]`

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o600))

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Storage = config.StorageMemory
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.DirectoryFile = path
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func TestApp_SeedMemory(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig(t), logging.Nop())
	require.NoError(t, err)
	defer app.Close()

	res, err := app.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Ignored)

	res, err = app.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Imported)
	assert.Equal(t, 3, res.Ignored)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig(t), logging.Nop())
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestApp_RunReportsListenError(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.EndpointAddrHTTP = "bad-address"

	app, err := NewApp(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	defer app.Close()

	assert.Error(t, app.Run(context.Background()))
}

func TestNewApp_MissingDirectoryFile(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.DirectoryFile = filepath.Join(t.TempDir(), "missing.json")

	_, err := NewApp(context.Background(), cfg, logging.Nop())
	assert.ErrorContains(t, err, "directory file")
}

func TestNewApp_BadDSN(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Storage = config.StoragePostgres
	cfg.DatabaseDSN = "postgres://localhost:notaport/db"

	_, err := NewApp(context.Background(), cfg, logging.Nop())
	assert.ErrorContains(t, err, "db init error")
}

func TestNewDirectory_PrefersFile(t *testing.T) {
	cfg := memoryConfig(t)
	dir, err := newDirectory(cfg)
	require.NoError(t, err)

	users, err := dir.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 3)

	cfg.DirectoryFile = ""
	dir, err = newDirectory(cfg)
	require.NoError(t, err)
	assert.NotNil(t, dir)
}

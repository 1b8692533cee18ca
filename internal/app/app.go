// Package app wires configuration, storage, locks, and services into a
// runnable ledgerd instance.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parkside-eng/ledgerd/internal/common"
	"github.com/parkside-eng/ledgerd/internal/interfaces"
	"github.com/parkside-eng/ledgerd/internal/lock"
	"github.com/parkside-eng/ledgerd/internal/services/ledger"
	"github.com/parkside-eng/ledgerd/internal/storage/ledgerdb"
)

// App holds all initialized components. It is the shared core used by
// cmd/ledgerd.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Storage     interfaces.LedgerStore
	Locks       interfaces.LockManager
	Ledger      interfaces.LedgerService
	StartupTime time.Time

	sweepCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, the lock manager, and the
// ledger service. configPath may be empty, in which case the default
// resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Config resolution: explicit path, LEDGERD_CONFIG, binary dir, then
	// the development fallback.
	if configPath == "" {
		configPath = os.Getenv("LEDGERD_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "ledgerd.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/ledgerd.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	store, err := ledgerdb.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	locks, err := newLockManager(logger, config)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize lock manager: %w", err)
	}

	ledgerService := ledger.NewService(store, locks, logger)

	a := &App{
		Config:      config,
		Logger:      logger,
		Storage:     store,
		Locks:       locks,
		Ledger:      ledgerService,
		StartupTime: startupStart,
	}

	logger.Info().
		Str("environment", config.Environment).
		Str("lock_backend", a.LockBackend()).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// newLockManager selects the lease backend: Redis when an address is
// configured, otherwise the in-process manager.
func newLockManager(logger *common.Logger, config *common.Config) (interfaces.LockManager, error) {
	if config.Lock.RedisAddr == "" {
		return lock.NewMemoryManager(), nil
	}
	return lock.NewRedisManager(logger, config.Lock.RedisAddr, config.Lock.RedisPassword, config.Lock.RedisDB)
}

// LockBackend names the active lease backend for logs and the banner.
func (a *App) LockBackend() string {
	if a.Config.Lock.RedisAddr == "" {
		return "memory"
	}
	return "redis (" + a.Config.Lock.RedisAddr + ")"
}

// Close releases all resources held by the App.
// Shutdown order: cancel sweep, close locks, close storage.
func (a *App) Close() {
	if a.sweepCancel != nil {
		a.sweepCancel()
		a.sweepCancel = nil
	}
	if a.Locks != nil {
		a.Locks.Close()
		a.Locks = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// Package wire provides dependency injection for the recipebump
// application. It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/example/recipebump/internal/adapters/auditcmd"
	"github.com/example/recipebump/internal/adapters/fetch"
	"github.com/example/recipebump/internal/adapters/filesystem"
	"github.com/example/recipebump/internal/adapters/gitcmd"
	"github.com/example/recipebump/internal/adapters/githost"
	"github.com/example/recipebump/internal/app"
	"github.com/example/recipebump/internal/config"
	"github.com/example/recipebump/internal/ports/primary"
	"github.com/example/recipebump/internal/ports/secondary"
)

var (
	cfg         *config.Config
	bumpService primary.BumpService
	logger      *log.Logger
	verbose     bool
	once        sync.Once
)

// SetVerbose switches the logger to debug-level pipeline tracing. Must be
// called before the first service accessor.
func SetVerbose(v bool) { verbose = v }

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// BumpService returns the singleton BumpService instance.
func BumpService() primary.BumpService {
	once.Do(initServices)
	return bumpService
}

// Logger returns the shared structured logger.
func Logger() *log.Logger {
	once.Do(initServices)
	return logger
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	logger = log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg = loadConfig()

	token := cfg.HostToken
	if token == "" {
		token = os.Getenv("RECIPEBUMP_TOKEN")
	}

	stores := func(path string) secondary.RecipeStore {
		return filesystem.NewStore(path)
	}

	bumpService = app.NewBumpService(
		cfg,
		stores,
		fetch.NewClient(),
		gitcmd.NewClient(),
		githost.NewClient(context.Background(), token),
		auditcmd.NewRunner(cfg.AuditCommand),
		logger,
	)
}

// loadConfig reads the working-directory config, falling back to the home
// directory, then to built-in defaults. Commands that need a real upstream
// repository fail later with a usable message; doctor and dry runs should
// not require configuration up front.
func loadConfig() *config.Config {
	if dir, err := os.Getwd(); err == nil {
		if c, err := config.LoadConfig(dir); err == nil {
			return c
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		if c, err := config.LoadConfig(home); err == nil {
			return c
		}
	}

	logger.Debug("no config file found, using defaults")
	dir, _ := os.Getwd()
	c := &config.Config{RepoPath: dir, BaseBranch: config.DefaultBaseBranch}
	return c
}

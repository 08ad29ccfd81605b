// Package cli implements the platecut command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/platecut/internal/config"
	"github.com/matzehuels/platecut/pkg/buildinfo"
	"github.com/matzehuels/platecut/pkg/cache"
	"github.com/matzehuels/platecut/pkg/pipeline"
	"github.com/matzehuels/platecut/pkg/store"
	"github.com/matzehuels/platecut/pkg/store/mongo"
	"github.com/matzehuels/platecut/pkg/store/redis"
	"github.com/matzehuels/platecut/pkg/store/sqlite"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "platecut"

	// connectAttempts bounds retries when a network store is not reachable yet.
	connectAttempts = 3
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config

	// openStore is replaced in tests.
	openStore func(ctx context.Context) (store.Repository, error)
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: newLogger(w, level),
		cfg:    &config.Config{},
	}
	c.openStore = c.openConfiguredStore
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "platecut lays out socket cutouts on wall plates",
		Long: `platecut is a configurator for rectangular wall plates with socket cutouts.
It scales plates to a canvas, places groups of sockets with clearance rules,
and exports drawings, price quotes and project files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/platecut/config.toml)")

	root.AddCommand(c.plateCommand())
	root.AddCommand(c.socketCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.quoteCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Store Factory
// =============================================================================

// withStore opens the configured repository, runs fn and closes it.
func (c *CLI) withStore(ctx context.Context, fn func(store.Repository) error) error {
	repo, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()
	return fn(repo)
}

// openConfiguredStore opens the backend named in [store]. Network backends
// are retried a few times before giving up.
func (c *CLI) openConfiguredStore(ctx context.Context) (store.Repository, error) {
	sc := c.cfg.GetStore()
	logger := loggerFromContext(ctx)
	logger.Debug("opening store", "backend", sc.Backend)

	var repo store.Repository
	switch sc.Backend {
	case config.BackendMemory:
		repo = store.NewMemory()
	case config.BackendFile:
		dir := sc.Path
		if dir == "" {
			dir = store.DefaultDir()
		}
		fs, err := store.NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		repo = fs
	case config.BackendSQLite:
		db, err := sqlite.Open(sc.Path)
		if err != nil {
			return nil, err
		}
		repo = db
	case config.BackendRedis:
		err := store.Retry(ctx, connectAttempts, 500*time.Millisecond, func() error {
			rs, err := redis.New(ctx, redis.Config{
				Addr:     sc.RedisAddr,
				Password: sc.RedisPassword,
				DB:       sc.RedisDB,
				Prefix:   sc.RedisPrefix,
			})
			if err != nil {
				logger.Debug("redis not reachable", "addr", sc.RedisAddr, "err", err)
				return store.Retryable(err)
			}
			repo = rs
			return nil
		})
		if err != nil {
			return nil, err
		}
	case config.BackendMongo:
		err := store.Retry(ctx, connectAttempts, 500*time.Millisecond, func() error {
			ms, err := mongo.New(ctx, mongo.Config{URI: sc.MongoURI, Database: sc.MongoDatabase})
			if err != nil {
				logger.Debug("mongo not reachable", "err", err)
				return store.Retryable(err)
			}
			repo = ms
			return nil
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}
	return store.Instrument(repo, sc.Backend), nil
}

// =============================================================================
// Cache Factory
// =============================================================================

func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(c.cacheDir())
	if err != nil {
		c.Logger.Warn("render cache disabled", "err", err)
		return cache.NewNullCache()
	}
	return cache.Instrumented(fc, "render")
}

// newRunner builds a render pipeline over the render cache.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	r := pipeline.NewRunner(c.newCache(noCache), c.Logger)
	r.TTL = c.cfg.CacheTTL()
	return r
}

func (c *CLI) cacheDir() string {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir
	}
	return cache.DefaultDir()
}

// stdout and stderr are where command output goes; tests replace them.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Package cli implements the gdcross command-line interface.
//
// Commands read drawings from .json or .geojson files and share one set of
// detection flags (--node-crossings, --singletons, --algorithm, --tolerance,
// --tighter-bound). Values from the config file apply unless a flag is set.
//
// # Commands
//
//   - crossings: list the crossings of a drawing (table, json, geojson)
//   - count, density, resolution: print one metric
//   - angles: print the angles at every crossing
//   - planarize: replace crossings with crossing nodes
//   - render: draw the drawing with crossings highlighted (SVG, DOT, PDF, PNG)
//   - browse: interactive crossing browser
//   - batch: analyse many drawings concurrently
//   - reports: list, show and delete saved reports
//   - serve: run the HTTP API
//   - cache: manage the local result cache
//
// # Logging
//
// Logs go to stderr through charmbracelet/log; --verbose (-v) switches to
// debug level. Results go to stdout or the file given with -o.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gdcross/pkg/buildinfo"
	"github.com/matzehuels/gdcross/pkg/cache"
	"github.com/matzehuels/gdcross/pkg/config"
	"github.com/matzehuels/gdcross/pkg/pipeline"
	"github.com/matzehuels/gdcross/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gdcross"

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
	cfgOnce    sync.Once
	cfg        config.Config
	cfgErr     error
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Debug logging reports callers.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.Logger.SetReportCaller(level <= log.DebugLevel)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gdcross finds the edge crossings of graph drawings",
		Long: `gdcross detects crossings in straight-line drawings of graphs with a
Bentley-Ottmann sweep, derives crossing metrics and planarizes drawings.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/gdcross/config.toml)")

	root.AddCommand(c.crossingsCommand())
	root.AddCommand(c.countCommand())
	root.AddCommand(c.densityCommand())
	root.AddCommand(c.anglesCommand())
	root.AddCommand(c.resolutionCommand())
	root.AddCommand(c.planarizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.reportsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration file once.
func (c *CLI) config() (config.Config, error) {
	c.cfgOnce.Do(func() {
		c.cfg, c.cfgErr = config.Load(c.configPath)
		if c.cfgErr == nil {
			c.Logger.Debug("loaded config", "path", c.configPath)
		}
	})
	return c.cfg, c.cfgErr
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner on the configured cache backend.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	ch, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, keyer(cfg.Cache), c.Logger), nil
}

// keyer scopes cache keys when the config sets a prefix.
func keyer(cfg config.CacheConfig) cache.Keyer {
	if cfg.Prefix == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, cfg.Prefix)
}

func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.New(ctx, cfg.Backend, dir, cfg.RedisAddr)
}

// newStore opens the configured report store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return store.New(ctx, cfg.Store.Backend, cfg.Store.Dir, cfg.Store.MongoURI, cfg.Store.Database)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gdcross/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

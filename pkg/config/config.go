// Package config loads the gdcross TOML configuration file.
//
// The file lives at ~/.config/gdcross/config.toml unless another path is
// given. Every key is optional; a missing file yields [Default].
//
//	[detect]
//	tolerance = 1e-9
//	include_node_crossings = true
//	algorithm = "sweep"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//	request_timeout = "30s"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gdcross/pkg/core/crossings"
	gderrors "github.com/matzehuels/gdcross/pkg/errors"
	"github.com/matzehuels/gdcross/pkg/pipeline"
)

// Config is the parsed configuration file.
type Config struct {
	Detect crossings.Options `toml:"detect"`
	Render RenderConfig      `toml:"render"`
	Cache  CacheConfig       `toml:"cache"`
	Store  StoreConfig       `toml:"store"`
	Server ServerConfig      `toml:"server"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	Scale  float64 `toml:"scale"`
	Labels bool    `toml:"labels"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend   string `toml:"backend"` // "file", "redis" or "none"
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	Prefix    string `toml:"prefix"` // prepended to every key
}

// StoreConfig selects the report store.
type StoreConfig struct {
	Backend  string `toml:"backend"` // "memory", "file" or "mongo"
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Addr           string `toml:"addr"`
	RequestTimeout string `toml:"request_timeout"`
	MaxBodyBytes   int64  `toml:"max_body_bytes"`
}

// Timeout parses RequestTimeout; an empty value means 30 seconds.
func (s ServerConfig) Timeout() (time.Duration, error) {
	if s.RequestTimeout == "" {
		return 30 * time.Second, nil
	}
	return time.ParseDuration(s.RequestTimeout)
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Detect: crossings.DefaultOptions(),
		Render: RenderConfig{Scale: pipeline.DefaultScale},
		Cache:  CacheConfig{Backend: "file"},
		Store:  StoreConfig{Backend: "file"},
		Server: ServerConfig{Addr: ":8080", MaxBodyBytes: 10 << 20},
	}
}

// DefaultPath returns ~/.config/gdcross/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "gdcross", "config.toml"), nil
}

// Load reads the configuration at path, or at [DefaultPath] when path is
// empty. Keys missing from the file keep their defaults. A missing default
// file is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, gderrors.Wrap(gderrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, gderrors.Wrap(gderrors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, gderrors.New(gderrors.ErrCodeInvalidOptions, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated values and the detection options.
func (c Config) Validate() error {
	if err := gderrors.ValidateTolerance(c.Detect.Tolerance); err != nil {
		return err
	}
	if err := gderrors.ValidateAlgorithm(string(c.Detect.Algorithm)); err != nil {
		return err
	}
	if c.Detect.IncludeSingletons && !c.Detect.IncludeNodeCrossings {
		return gderrors.Wrap(gderrors.ErrCodeInvalidOptions, crossings.ErrSingletonsWithoutNodes, "config [detect]")
	}
	if !slices.Contains([]string{"", "file", "redis", "none"}, c.Cache.Backend) {
		return gderrors.New(gderrors.ErrCodeInvalidOptions, "unknown cache backend %q", c.Cache.Backend)
	}
	if !slices.Contains([]string{"", "memory", "file", "mongo"}, c.Store.Backend) {
		return gderrors.New(gderrors.ErrCodeInvalidOptions, "unknown store backend %q", c.Store.Backend)
	}
	if _, err := c.Server.Timeout(); err != nil {
		return gderrors.Wrap(gderrors.ErrCodeInvalidOptions, err, "server request_timeout")
	}
	return nil
}

// PipelineOptions converts the [detect] and [render] sections into
// pipeline options.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Tolerance:            c.Detect.Tolerance,
		IncludeNodeCrossings: c.Detect.IncludeNodeCrossings,
		IncludeSingletons:    c.Detect.IncludeSingletons,
		Algorithm:            string(c.Detect.Algorithm),
		TighterBound:         c.Detect.TighterBound,
		Degrees:              c.Detect.Degrees,
		Scale:                c.Render.Scale,
		Labels:               c.Render.Labels,
	}
}

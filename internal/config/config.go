// Package config loads platecut settings from TOML files.
//
// Files are merged in order, later files winning:
//
//  1. $XDG_CONFIG_HOME/platecut/config.toml
//  2. ./platecut.toml
//  3. the file named by --config
//
// Every value is optional. Getters apply defaults, so a zero Config is usable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/matzehuels/platecut/pkg/layout"
	"github.com/matzehuels/platecut/pkg/placement"
	"github.com/matzehuels/platecut/pkg/project"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists every accepted store backend.
var Backends = []string{BackendFile, BackendMemory, BackendSQLite, BackendRedis, BackendMongo}

const (
	DefaultViewportWidth  = 1200
	DefaultViewportHeight = 600
	DefaultServerAddr     = ":8080"
	DefaultCacheTTL       = 7 * 24 * time.Hour
)

type Config struct {
	Canvas    CanvasConfig    `koanf:"canvas"`
	Placement PlacementConfig `koanf:"placement"`
	Store     StoreConfig     `koanf:"store"`
	Server    ServerConfig    `koanf:"server"`
	Pricing   PricingConfig   `koanf:"pricing"`
	Cache     CacheConfig     `koanf:"cache"`
}

// CanvasConfig controls layout and the default render viewport.
type CanvasConfig struct {
	PaddingPx  *float64 `koanf:"padding_px"`   // default 40
	PlateGapPx *float64 `koanf:"plate_gap_px"` // default 20
	Width      float64  `koanf:"width"`        // render viewport, default 1200
	Height     float64  `koanf:"height"`       // default 600
}

// PlacementConfig overrides clearances. Unset keeps the default, zero means
// no clearance and negative disables the check.
type PlacementConfig struct {
	EdgeClearanceCm       *float64 `koanf:"edge_clearance_cm"`        // default 3
	InterGroupClearanceCm *float64 `koanf:"inter_group_clearance_cm"` // default 4
}

type StoreConfig struct {
	Backend       string `koanf:"backend"` // file, memory, sqlite, redis, mongo
	Path          string `koanf:"path"`    // directory (file) or database file (sqlite)
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPrefix   string `koanf:"redis_prefix"`
	MongoURI      string `koanf:"mongo_uri"`
	MongoDatabase string `koanf:"mongo_database"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

type PricingConfig struct {
	PerSocket float64 `koanf:"per_socket"` // euros per socket unit, default 20
}

type CacheConfig struct {
	Dir     string `koanf:"dir"`
	TTLDays int    `koanf:"ttl_days"`
}

// Load reads the default locations and then explicit, if not empty. An
// explicit file that does not exist is an error; default locations are
// skipped when missing.
func Load(explicit string) (*Config, error) {
	paths := DefaultPaths()
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		paths = append(paths, explicit)
	}
	return LoadFiles(paths...)
}

// LoadFiles merges the existing files among paths, in order.
func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	cfg.Store.Path = expandPath(cfg.Store.Path)
	cfg.Cache.Dir = expandPath(cfg.Cache.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPaths returns the implicit config locations, lowest priority first.
func DefaultPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "platecut", "config.toml"),
		"platecut.toml",
	}
}

// Validate rejects values no getter can repair.
func (c *Config) Validate() error {
	if b := c.Store.Backend; b != "" {
		ok := false
		for _, known := range Backends {
			if b == known {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("unknown store backend %q (use %s)", b, strings.Join(Backends, ", "))
		}
	}
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		return fmt.Errorf("canvas size must not be negative")
	}
	if c.Pricing.PerSocket < 0 {
		return fmt.Errorf("pricing.per_socket must not be negative")
	}
	return nil
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// LayoutOptions returns the layout options implied by [canvas].
func (c *Config) LayoutOptions() []layout.Option {
	var opts []layout.Option
	if c.Canvas.PaddingPx != nil {
		opts = append(opts, layout.WithPadding(*c.Canvas.PaddingPx))
	}
	if c.Canvas.PlateGapPx != nil {
		opts = append(opts, layout.WithPlateGap(*c.Canvas.PlateGapPx))
	}
	return opts
}

// Viewport returns the render viewport with defaults applied.
func (c *Config) Viewport() layout.Viewport {
	vp := layout.Viewport{Width: c.Canvas.Width, Height: c.Canvas.Height}
	if vp.Width <= 0 {
		vp.Width = DefaultViewportWidth
	}
	if vp.Height <= 0 {
		vp.Height = DefaultViewportHeight
	}
	return vp
}

// PlacementOptions returns the validator options from [placement].
func (c *Config) PlacementOptions() placement.Options {
	edge, gap := placement.EdgeClearanceCm, placement.InterGroupClearanceCm
	if c.Placement.EdgeClearanceCm != nil {
		edge = *c.Placement.EdgeClearanceCm
	}
	if c.Placement.InterGroupClearanceCm != nil {
		gap = *c.Placement.InterGroupClearanceCm
	}
	return placement.Exact(edge, gap)
}

// GetStore returns the store settings with defaults applied.
func (c *Config) GetStore() StoreConfig {
	s := c.Store
	if s.Backend == "" {
		s.Backend = BackendFile
	}
	if s.RedisAddr == "" {
		s.RedisAddr = "localhost:6379"
	}
	if s.MongoURI == "" {
		s.MongoURI = "mongodb://localhost:27017"
	}
	return s
}

// ServerAddr returns the listen address, default ":8080".
func (c *Config) ServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultServerAddr
	}
	return c.Server.Addr
}

// PricePerSocket returns the unit price in euros.
func (c *Config) PricePerSocket() float64 {
	if c.Pricing.PerSocket <= 0 {
		return project.PricePerSocket
	}
	return c.Pricing.PerSocket
}

// CacheTTL returns how long rendered artifacts stay cached.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTLDays <= 0 {
		return DefaultCacheTTL
	}
	return time.Duration(c.Cache.TTLDays) * 24 * time.Hour
}

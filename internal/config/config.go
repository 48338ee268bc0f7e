// Package config loads the optional twinpane configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bamsammich/twinpane/internal/conflict"
	"github.com/bamsammich/twinpane/internal/filter"
	"github.com/bamsammich/twinpane/internal/job"
	"github.com/bamsammich/twinpane/internal/platform"
	"github.com/bamsammich/twinpane/internal/search"
)

// Config represents the optional twinpane configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Search   SearchConfig   `toml:"search"`
	Theme    ThemeConfig    `toml:"theme"`

	// Unknown lists keys present in the file that no field consumed.
	Unknown []string `toml:"-"`
}

// DefaultsConfig holds persistent defaults for file operations.
type DefaultsConfig struct {
	ChunkSize     *string `toml:"chunk_size"`
	BWLimit       *string `toml:"bwlimit"`
	OnConflict    *string `toml:"on_conflict"`
	GracePeriod   *string `toml:"grace_period"`
	PreserveTimes *bool   `toml:"preserve_times"`
	PreserveMode  *bool   `toml:"preserve_mode"`
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	ContentMaxSize *string  `toml:"content_max_size"`
	PrecountCap    *int     `toml:"precount_cap"`
	TextExtensions []string `toml:"text_extensions"`
	Exclude        []string `toml:"exclude"`
}

// ThemeConfig holds optional color overrides for the summary line.
type ThemeConfig struct {
	Green  *string `toml:"green"`
	Yellow *string `toml:"yellow"`
	Red    *string `toml:"red"`
	Muted  *string `toml:"muted"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "twinpane", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// LoadFile reads the config file at path.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	for _, k := range md.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, k.String())
	}
	return cfg, nil
}

// Settings are the effective values after applying built-in defaults.
type Settings struct {
	Exclude        []string
	TextExtensions []string
	ChunkSize      int
	BWLimit        int64
	ContentMaxSize int64
	PrecountCap    int
	GracePeriod    time.Duration
	OnConflict     conflict.Policy
	PreserveTimes  bool
	PreserveMode   bool
}

// DefaultSettings returns the built-in values.
func DefaultSettings() Settings {
	return Settings{
		ChunkSize:      platform.ChunkSize,
		OnConflict:     conflict.AskEach,
		GracePeriod:    job.DefaultGracePeriod,
		PreserveTimes:  true,
		PreserveMode:   true,
		ContentMaxSize: search.DefaultContentMaxSize,
		PrecountCap:    search.DefaultPrecountCap,
		TextExtensions: search.DefaultTextExtensions,
	}
}

// Settings validates the file's values and merges them over the defaults.
func (c Config) Settings() (Settings, error) {
	s := DefaultSettings()
	d := c.Defaults

	if d.ChunkSize != nil {
		n, err := filter.ParseSize(*d.ChunkSize)
		if err != nil {
			return s, fmt.Errorf("defaults.chunk_size: %w", err)
		}
		if n < 4<<10 || n > 64<<20 {
			return s, fmt.Errorf("defaults.chunk_size: %s is outside 4K..64M", *d.ChunkSize)
		}
		s.ChunkSize = int(n)
	}
	if d.BWLimit != nil {
		n, err := filter.ParseSize(*d.BWLimit)
		if err != nil {
			return s, fmt.Errorf("defaults.bwlimit: %w", err)
		}
		s.BWLimit = n
	}
	if d.OnConflict != nil {
		p, err := conflict.ParsePolicy(*d.OnConflict)
		if err != nil {
			return s, fmt.Errorf("defaults.on_conflict: %w", err)
		}
		s.OnConflict = p
	}
	if d.GracePeriod != nil {
		g, err := time.ParseDuration(*d.GracePeriod)
		if err != nil || g <= 0 {
			return s, fmt.Errorf("defaults.grace_period: invalid duration %q", *d.GracePeriod)
		}
		s.GracePeriod = g
	}
	if d.PreserveTimes != nil {
		s.PreserveTimes = *d.PreserveTimes
	}
	if d.PreserveMode != nil {
		s.PreserveMode = *d.PreserveMode
	}

	sc := c.Search
	if sc.ContentMaxSize != nil {
		n, err := filter.ParseSize(*sc.ContentMaxSize)
		if err != nil {
			return s, fmt.Errorf("search.content_max_size: %w", err)
		}
		s.ContentMaxSize = n
	}
	if sc.PrecountCap != nil {
		if *sc.PrecountCap <= 0 {
			return s, fmt.Errorf("search.precount_cap: must be positive, got %d", *sc.PrecountCap)
		}
		s.PrecountCap = *sc.PrecountCap
	}
	if len(sc.TextExtensions) > 0 {
		s.TextExtensions = sc.TextExtensions
	}
	s.Exclude = sc.Exclude
	return s, nil
}

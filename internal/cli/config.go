package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/shaderdoc/internal/server"
	"github.com/matzehuels/shaderdoc/pkg/cache"
)

// configFile is the name of the config file inside the config directory.
const configFile = "config.toml"

// Config is the optional TOML configuration. Flags override its values.
//
//	[output]
//	dir = "docs/shaders"
//
//	[cache]
//	enabled = true
//	redis_addr = "localhost:6379"
//	ttl = "72h"
//
//	[server]
//	addr = ":8090"
type Config struct {
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// OutputConfig controls where reports go when -o is omitted.
type OutputConfig struct {
	// Dir receives <material>.txt reports.
	Dir string `toml:"dir"`
}

// CacheConfig selects and tunes the report cache.
type CacheConfig struct {
	Enabled     *bool         `toml:"enabled"`
	Dir         string        `toml:"dir"`
	RedisAddr   string        `toml:"redis_addr"`
	RedisPrefix string        `toml:"redis_prefix"`
	TTL         time.Duration `toml:"ttl"`
}

func (c CacheConfig) enabled() bool { return c.Enabled == nil || *c.Enabled }

// ServerConfig configures "shaderdoc serve".
type ServerConfig struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Cache:  CacheConfig{RedisPrefix: cache.DefaultRedisPrefix},
		Server: ServerConfig{Addr: server.DefaultAddr, MaxBodyBytes: server.DefaultMaxBodyBytes},
	}
}

// LoadConfig reads the config file at path on top of DefaultConfig. With an
// empty path the default location is tried and a missing file is not an
// error; an explicitly named file must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFile)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("load config %s: %w", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return DefaultConfig(), fmt.Errorf("load config %s: unknown key %q", path, keys[0].String())
	}
	return cfg, nil
}

// Package config loads the optional streamspec.yaml used by long-running
// surfaces (serve, mcp). The file is decoded permissively: unknown keys are
// ignored so older binaries tolerate newer configs.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the full file layout.
type Config struct {
	Listen string      `mapstructure:"listen"`
	Redis  RedisConfig `mapstructure:"redis"`
	Strict bool        `mapstructure:"strict"`

	// Primitives lists predicates declared by the companion domain file,
	// so validation of references against them never warns.
	Primitives []string `mapstructure:"primitives"`
}

// RedisConfig selects the shared fact store. An empty address means the
// in-memory store.
type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Key      string        `mapstructure:"key"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{Listen: ":8080"}
}

// Load reads and decodes a config file. A missing path yields defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return parse(cfg, data, path)
}

func parse(cfg Config, data []byte, path string) (Config, error) {
	// YAML decodes into a generic map first; mapstructure then handles the
	// typed binding, including string durations for the TTL.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &cfg,
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// PrimitiveSet returns the primitives as a lookup set.
func (c Config) PrimitiveSet() map[string]bool {
	if len(c.Primitives) == 0 {
		return nil
	}
	set := make(map[string]bool, len(c.Primitives))
	for _, name := range c.Primitives {
		set[strings.ToLower(name)] = true
	}
	return set
}

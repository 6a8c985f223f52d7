// Package config loads the lattice project configuration from a YAML
// file (lattice.yaml by convention). Every field has a working default,
// so a missing or partial file never blocks startup; cobra flags override
// the loaded values at the command layer.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/lattice/pkg/domain"
)

// DefaultPath is where commands look for the project configuration when
// --config is not given.
const DefaultPath = "lattice.yaml"

// Store backends selectable via store.backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the top-level lattice configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	History   HistoryConfig   `yaml:"history"`
	Security  SecurityConfig  `yaml:"security"`
	Templates TemplatesConfig `yaml:"templates"`
	Log       LogConfig       `yaml:"log"`

	// Exporters is the path to the exporter registry file consumed by
	// `lattice export --exec` (see pkg/adapters/process).
	Exporters string `yaml:"exporters"`
}

// ServerConfig controls `lattice serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// Metrics exposes Prometheus collectors on /metrics when true.
	Metrics bool `yaml:"metrics"`
}

// StoreConfig selects and configures the layout persistence backend.
type StoreConfig struct {
	Backend string      `yaml:"backend"` // memory | file | redis
	Dir     string      `yaml:"dir"`     // file backend root
	Redis   RedisConfig `yaml:"redis"`

	// AutosaveKey is the store key the editor autosaves under.
	AutosaveKey string `yaml:"autosave_key"`
}

// RedisConfig configures the redis backend and the optional distributed
// lock that serializes edits across replicas.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"` // 0 persists entries forever

	// Lock enables cross-replica locking; LockTTL bounds how long a
	// crashed holder can block others.
	Lock    bool          `yaml:"lock"`
	LockTTL time.Duration `yaml:"lock_ttl"`
}

// HistoryConfig bounds the undo window.
type HistoryConfig struct {
	Capacity int `yaml:"capacity"`
}

// SecurityConfig controls the at-rest store middleware.
type SecurityConfig struct {
	// KeyFile holds the active AES-256 key (32 raw bytes). Empty disables
	// encryption.
	KeyFile string `yaml:"key_file"`

	// FallbackKeyFiles are previous keys still accepted on load, enabling
	// key rotation without re-encrypting every stored layout.
	FallbackKeyFiles []string `yaml:"fallback_key_files"`

	// Redact lists regular expressions; property keys matching any of them
	// are masked before the document is persisted.
	Redact []string `yaml:"redact"`
}

// TemplatesConfig points at the template library directory.
type TemplatesConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML configuration file and fills in defaults. A missing
// file yields the defaults without error, so projects without a
// lattice.yaml just work; any other read or parse failure is returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendMemory
	}
	if c.Store.Dir == "" {
		c.Store.Dir = ".lattice/layouts"
	}
	if c.Store.AutosaveKey == "" {
		c.Store.AutosaveKey = domain.DefaultAutosaveKey
	}
	if c.Store.Redis.Prefix == "" {
		c.Store.Redis.Prefix = "lattice"
	}
	if c.Store.Redis.LockTTL <= 0 {
		c.Store.Redis.LockTTL = 30 * time.Second
	}
	if c.History.Capacity <= 0 {
		c.History.Capacity = 50
	}
	if c.Templates.Dir == "" {
		c.Templates.Dir = "templates"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate rejects values the command layer cannot act on.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown store backend %q (expected %s, %s or %s)",
			c.Store.Backend, BackendMemory, BackendFile, BackendRedis)
	}
	if c.Store.Backend == BackendRedis && c.Store.Redis.Addr == "" {
		return fmt.Errorf("store backend %q requires store.redis.addr", BackendRedis)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (expected text or json)", c.Log.Format)
	}
	return nil
}

// EncryptionKeys reads the active key and any fallback keys from disk.
// It returns nil keys when encryption is not configured.
func (c *Config) EncryptionKeys() (active []byte, fallbacks [][]byte, err error) {
	if c.Security.KeyFile == "" {
		return nil, nil, nil
	}
	active, err = readKey(c.Security.KeyFile)
	if err != nil {
		return nil, nil, err
	}
	for _, path := range c.Security.FallbackKeyFiles {
		key, err := readKey(path)
		if err != nil {
			return nil, nil, err
		}
		fallbacks = append(fallbacks, key)
	}
	return active, fallbacks, nil
}

func readKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %s: %w", path, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key file %s: need 32 bytes for AES-256, got %d", path, len(key))
	}
	return key, nil
}

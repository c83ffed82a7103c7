package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/promptdj/pkg/database"
	"github.com/JaimeStill/promptdj/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvPromptDJEnv             = "PROMPTDJ_ENV"
	EnvPromptDJShutdownTimeout = "PROMPTDJ_SHUTDOWN_TIMEOUT"
	EnvPromptDJVersion         = "PROMPTDJ_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "PROMPTDJ_DB_HOST",
	Port:            "PROMPTDJ_DB_PORT",
	Name:            "PROMPTDJ_DB_NAME",
	User:            "PROMPTDJ_DB_USER",
	Password:        "PROMPTDJ_DB_PASSWORD",
	SSLMode:         "PROMPTDJ_DB_SSL_MODE",
	MaxOpenConns:    "PROMPTDJ_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "PROMPTDJ_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "PROMPTDJ_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "PROMPTDJ_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Backend:          "PROMPTDJ_STORAGE_BACKEND",
	Directory:        "PROMPTDJ_STORAGE_DIRECTORY",
	ContainerName:    "PROMPTDJ_STORAGE_CONTAINER_NAME",
	ConnectionString: "PROMPTDJ_STORAGE_CONNECTION_STRING",
	AccountURL:       "PROMPTDJ_STORAGE_ACCOUNT_URL",
	Table:            "PROMPTDJ_STORAGE_TABLE",
}

// Config is the root configuration for the PromptDJ service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	API             APIConfig       `toml:"api"`
	Log             LogConfig       `toml:"log"`
	Control         ControlConfig   `toml:"control"`
	MIDI            MIDIConfig      `toml:"midi"`
	Presets         PresetsConfig   `toml:"presets"`
	Storage         storage.Config  `toml:"storage"`
	Database        database.Config `toml:"database"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the PROMPTDJ_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvPromptDJEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// UsesDatabase reports whether the configured storage backend needs Postgres.
func (c *Config) UsesDatabase() bool {
	return c.Storage.Backend == storage.BackendPostgres
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Log.Merge(&overlay.Log)
	c.Control.Merge(&overlay.Control)
	c.MIDI.Merge(&overlay.MIDI)
	c.Presets.Merge(&overlay.Presets)
	c.Storage.Merge(&overlay.Storage)
	c.Database.Merge(&overlay.Database)
}

// Finalize applies defaults, environment overrides, and validation to every
// section. The database section is only finalized when storage needs it.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Log.Finalize(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Control.Finalize(); err != nil {
		return fmt.Errorf("control: %w", err)
	}
	if err := c.MIDI.Finalize(); err != nil {
		return fmt.Errorf("midi: %w", err)
	}
	if err := c.Presets.Finalize(); err != nil {
		return fmt.Errorf("presets: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if c.UsesDatabase() {
		if err := c.Database.Finalize(databaseEnv); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvPromptDJShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvPromptDJVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvPromptDJEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

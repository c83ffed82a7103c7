package storage

import (
	"fmt"
	"os"
	"slices"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendAzure    = "azure"
	BackendPostgres = "postgres"
)

var backends = []string{BackendMemory, BackendFile, BackendAzure, BackendPostgres}

// Config selects and parameterizes the key-value backend.
type Config struct {
	Backend          string `toml:"backend"`
	Directory        string `toml:"directory"`
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
	Table            string `toml:"table"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Backend          string
	Directory        string
	ContainerName    string
	ConnectionString string
	AccountURL       string
	Table            string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Directory != "" {
		c.Directory = overlay.Directory
	}
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
	if overlay.Table != "" {
		c.Table = overlay.Table
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFile
	}
	if c.Directory == "" {
		c.Directory = ".promptdj"
	}
	if c.ContainerName == "" {
		c.ContainerName = "promptdj"
	}
	if c.Table == "" {
		c.Table = "settings"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, field *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	set(env.Backend, &c.Backend)
	set(env.Directory, &c.Directory)
	set(env.ContainerName, &c.ContainerName)
	set(env.ConnectionString, &c.ConnectionString)
	set(env.AccountURL, &c.AccountURL)
	set(env.Table, &c.Table)
}

func (c *Config) validate() error {
	if !slices.Contains(backends, c.Backend) {
		return fmt.Errorf("unknown backend %q (valid: %v)", c.Backend, backends)
	}
	if c.Backend == BackendAzure && c.ConnectionString == "" && c.AccountURL == "" {
		return fmt.Errorf("azure backend requires connection_string or account_url")
	}
	return nil
}

package openapi

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config describes the generated document: its info block and any server URLs
// advertised beside the API base path, such as the address an audio host on
// another machine reaches the engine through.
type Config struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Servers     []string `toml:"servers"`
}

// ConfigEnv names the environment variables that override Config. Servers is
// read as a comma-separated list.
type ConfigEnv struct {
	Title       string
	Description string
	Servers     string
}

// Finalize applies defaults, then environment overrides, then validates.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge takes every field the overlay sets. A non-empty server list replaces
// the current one.
func (c *Config) Merge(overlay *Config) {
	c.Title = first(overlay.Title, c.Title)
	c.Description = first(overlay.Description, c.Description)
	if len(overlay.Servers) > 0 {
		c.Servers = overlay.Servers
	}
}

func (c *Config) loadDefaults() {
	c.Title = first(c.Title, "PromptDJ API")
	c.Description = first(c.Description, "Live weighting of the prompts that steer a generative music session.")
}

func (c *Config) loadEnv(env *ConfigEnv) {
	lookup := func(name string) (string, bool) {
		if name == "" {
			return "", false
		}
		v := strings.TrimSpace(os.Getenv(name))
		return v, v != ""
	}

	if v, ok := lookup(env.Title); ok {
		c.Title = v
	}
	if v, ok := lookup(env.Description); ok {
		c.Description = v
	}
	if v, ok := lookup(env.Servers); ok {
		c.Servers = nil
		for s := range strings.SplitSeq(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Servers = append(c.Servers, s)
			}
		}
	}
}

func (c *Config) validate() error {
	for _, s := range c.Servers {
		u, err := url.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid server %q: %w", s, err)
		}
		if !u.IsAbs() && !strings.HasPrefix(s, "/") {
			return fmt.Errorf("invalid server %q: must be an absolute URL or a rooted path", s)
		}
	}
	return nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

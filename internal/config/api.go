package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/promptdj/pkg/middleware"
	"github.com/JaimeStill/promptdj/pkg/openapi"
)

const EnvAPIBasePath = "PROMPTDJ_API_BASE_PATH"

var corsEnv = &middleware.CORSEnv{
	Enabled:          "PROMPTDJ_CORS_ENABLED",
	Origins:          "PROMPTDJ_CORS_ORIGINS",
	AllowedMethods:   "PROMPTDJ_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "PROMPTDJ_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "PROMPTDJ_CORS_EXPOSED_HEADERS",
	AllowCredentials: "PROMPTDJ_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "PROMPTDJ_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "PROMPTDJ_OPENAPI_TITLE",
	Description: "PROMPTDJ_OPENAPI_DESCRIPTION",
	Servers:     "PROMPTDJ_OPENAPI_SERVERS",
}

// APIConfig holds API routing, CORS, and OpenAPI document settings.
type APIConfig struct {
	BasePath string                `toml:"base_path"`
	CORS     middleware.CORSConfig `toml:"cors"`
	OpenAPI  openapi.Config        `toml:"openapi"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("invalid base_path %q: must be a single-level path", c.BasePath)
	}
	return nil
}

// Package api assembles the HTTP modules over the domain systems: the JSON
// and event-stream API, and the MCP tool endpoint.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/promptdj/internal/config"
	"github.com/JaimeStill/promptdj/pkg/middleware"
	"github.com/JaimeStill/promptdj/pkg/module"
	"github.com/JaimeStill/promptdj/pkg/openapi"
)

// MCPPrefix is where the MCP tool endpoint is mounted.
const MCPPrefix = "/mcp"

// NewModule creates the API module with all domain handlers, the OpenAPI
// document at /openapi.json, and middleware.
func NewModule(cfg *config.Config, domain *Domain, logger *slog.Logger) (*module.Module, error) {
	groups := routeGroups(domain, logger)

	spec, err := openapi.MarshalJSON(BuildSpec(cfg, groups))
	if err != nil {
		return nil, fmt.Errorf("openapi: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, groups)
	mux.HandleFunc("GET "+SpecPath, openapi.ServeSpec(spec))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(logger))

	return m, nil
}

// NewMCPModule mounts the domain's MCP tools over streamable HTTP.
func NewMCPModule(cfg *config.Config, domain *Domain, logger *slog.Logger) *module.Module {
	m := module.New(MCPPrefix, domain.Tools.Handler())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(logger.With("module", "mcp")))
	return m
}

package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/promptdj/internal/api"
	"github.com/JaimeStill/promptdj/internal/config"
	"github.com/JaimeStill/promptdj/internal/infrastructure"
	"github.com/JaimeStill/promptdj/pkg/module"
)

type Modules struct {
	API *module.Module
	MCP *module.Module
}

func NewModules(cfg *config.Config, infra *infrastructure.Infrastructure, domain *api.Domain) (*Modules, error) {
	logger := infra.Logger.With("module", "http")

	apiModule, err := api.NewModule(cfg, domain, logger)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
		MCP: api.NewMCPModule(cfg, domain, logger),
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.MCP)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		lc := infra.Lifecycle
		switch {
		case !lc.Ready():
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
		case lc.StartupErr() != nil:
			writeStatus(w, http.StatusServiceUnavailable, "startup failed")
		default:
			writeStatus(w, http.StatusOK, "ready")
		}
	})

	return router
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/promptdj/internal/composition"
	"github.com/JaimeStill/promptdj/internal/host"
	"github.com/JaimeStill/promptdj/internal/midi"
	"github.com/JaimeStill/promptdj/pkg/routes"
)

func routeGroups(domain *Domain, logger *slog.Logger) []routes.Group {
	return []routes.Group{
		domain.Prompts.Handler().Routes(),
		composition.NewHandler(domain.View, logger).Routes(),
		midi.NewHandler(domain.Router, logger).Routes(),
		host.NewHandler(domain.Hub, logger).Routes(),
	}
}

func registerRoutes(mux *http.ServeMux, groups []routes.Group) {
	routes.Register(mux, groups...)
}

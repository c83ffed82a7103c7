package api

import (
	"github.com/JaimeStill/promptdj/internal/composition"
	"github.com/JaimeStill/promptdj/internal/host"
	"github.com/JaimeStill/promptdj/internal/midi"
	"github.com/JaimeStill/promptdj/internal/prompts"
	"github.com/JaimeStill/promptdj/internal/surface"
	"github.com/JaimeStill/promptdj/internal/tools"
	"github.com/JaimeStill/promptdj/pkg/lifecycle"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Hub     *host.Hub
	Prompts prompts.System
	Router  *midi.Router
	View    *composition.View
	Tools   *tools.Tools
}

// NewDomain creates all domain systems from the API runtime, starting from
// the default prompt collection.
func NewDomain(runtime *Runtime) *Domain {
	hub := host.NewHub(0, runtime.Logger)

	promptsSystem := prompts.New(
		prompts.Defaults(),
		runtime.Storage,
		runtime.Presets.Key,
		runtime.Logger,
	)

	router := midi.NewRouter(runtime.Opener, runtime.Logger)

	view := composition.New(
		composition.Options{
			RenderInterval: runtime.Control.RenderIntervalDuration(),
			Halo: surface.Halo{
				Min:           runtime.Control.HaloMin,
				Max:           runtime.Control.HaloMax,
				LevelModifier: runtime.Control.LevelModifier,
			},
			BPM:            runtime.Control.BPM,
			MIDI:           runtime.MIDI.IsEnabled(),
			RescanInterval: runtime.MIDI.RescanIntervalDuration(),
		},
		promptsSystem,
		router,
		hub,
		runtime.Logger,
	)

	return &Domain{
		Hub:     hub,
		Prompts: promptsSystem,
		Router:  router,
		View:    view,
		Tools:   tools.New(runtime.Version, promptsSystem, view, runtime.Logger),
	}
}

// Start registers the domain's lifecycle hooks.
func (d *Domain) Start(lc *lifecycle.Coordinator) error {
	d.Hub.Start(lc)
	return d.View.Start(lc)
}

package api

import (
	"github.com/JaimeStill/promptdj/internal/config"
	"github.com/JaimeStill/promptdj/internal/infrastructure"
	"github.com/JaimeStill/promptdj/internal/midi"
)

// Runtime extends Infrastructure with the settings the domain systems need.
type Runtime struct {
	*infrastructure.Infrastructure
	Control config.ControlConfig
	MIDI    config.MIDIConfig
	Presets config.PresetsConfig
	Version string
	Opener  midi.Opener
}

// NewRuntime creates an API runtime with a module-scoped logger and the
// hardware MIDI opener.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Control: cfg.Control,
		MIDI:    cfg.MIDI,
		Presets: cfg.Presets,
		Version: cfg.Version,
		Opener:  midi.DriverOpener(cfg.MIDI.Excluded, logger),
	}
}

package config

import "time"

const (
	EnvMIDIEnabled        = "PROMPTDJ_MIDI_ENABLED"
	EnvMIDIRescanInterval = "PROMPTDJ_MIDI_RESCAN_INTERVAL"
	EnvMIDIExcluded       = "PROMPTDJ_MIDI_EXCLUDED"
)

// MIDIConfig controls MIDI input access. Excluded holds case-insensitive
// substrings of input port names that are never offered as devices.
type MIDIConfig struct {
	Enabled        *bool    `toml:"enabled"`
	RescanInterval string   `toml:"rescan_interval"`
	Excluded       []string `toml:"excluded"`
}

// IsEnabled reports whether MIDI access should be requested at startup.
func (c *MIDIConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

func (c *MIDIConfig) RescanIntervalDuration() time.Duration {
	return duration(c.RescanInterval)
}

func (c *MIDIConfig) Finalize() error {
	if c.RescanInterval == "" {
		c.RescanInterval = "1s"
	}
	if c.Excluded == nil {
		c.Excluded = []string{"Midi Through"}
	}

	envBool(EnvMIDIEnabled, &c.Enabled)
	envString(EnvMIDIRescanInterval, &c.RescanInterval)
	envList(EnvMIDIExcluded, &c.Excluded)

	return validDuration("rescan_interval", c.RescanInterval)
}

func (c *MIDIConfig) Merge(overlay *MIDIConfig) {
	if overlay.Enabled != nil {
		c.Enabled = overlay.Enabled
	}
	mergeString(&c.RescanInterval, overlay.RescanInterval)
	if overlay.Excluded != nil {
		c.Excluded = overlay.Excluded
	}
}

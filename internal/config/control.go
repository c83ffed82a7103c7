package config

import (
	"fmt"
	"time"
)

const (
	EnvControlRenderInterval = "PROMPTDJ_CONTROL_RENDER_INTERVAL"
	EnvControlHaloMin        = "PROMPTDJ_CONTROL_HALO_MIN"
	EnvControlHaloMax        = "PROMPTDJ_CONTROL_HALO_MAX"
	EnvControlLevelModifier  = "PROMPTDJ_CONTROL_LEVEL_MODIFIER"
	EnvControlBPM            = "PROMPTDJ_CONTROL_BPM"
)

// ControlConfig tunes the surfaces and the composition summary.
type ControlConfig struct {
	RenderInterval string  `toml:"render_interval"`
	HaloMin        float64 `toml:"halo_min"`
	HaloMax        float64 `toml:"halo_max"`
	LevelModifier  float64 `toml:"level_modifier"`
	BPM            int     `toml:"bpm"`
}

func (c *ControlConfig) RenderIntervalDuration() time.Duration {
	return duration(c.RenderInterval)
}

// Finalize applies defaults, environment variable overrides, and validation.
// The halo defaults only apply when none of its fields are set.
func (c *ControlConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *ControlConfig) Merge(overlay *ControlConfig) {
	mergeString(&c.RenderInterval, overlay.RenderInterval)
	if overlay.HaloMin != 0 {
		c.HaloMin = overlay.HaloMin
	}
	if overlay.HaloMax != 0 {
		c.HaloMax = overlay.HaloMax
	}
	if overlay.LevelModifier != 0 {
		c.LevelModifier = overlay.LevelModifier
	}
	if overlay.BPM != 0 {
		c.BPM = overlay.BPM
	}
}

func (c *ControlConfig) loadDefaults() {
	if c.RenderInterval == "" {
		c.RenderInterval = "30ms"
	}
	if c.HaloMin == 0 && c.HaloMax == 0 && c.LevelModifier == 0 {
		c.HaloMin, c.HaloMax, c.LevelModifier = 1, 2, 1
	}
	if c.BPM == 0 {
		c.BPM = 120
	}
}

func (c *ControlConfig) loadEnv() {
	envString(EnvControlRenderInterval, &c.RenderInterval)
	envFloat(EnvControlHaloMin, &c.HaloMin)
	envFloat(EnvControlHaloMax, &c.HaloMax)
	envFloat(EnvControlLevelModifier, &c.LevelModifier)
	envInt(EnvControlBPM, &c.BPM)
}

func (c *ControlConfig) validate() error {
	if err := validDuration("render_interval", c.RenderInterval); err != nil {
		return err
	}
	if c.RenderIntervalDuration() == 0 {
		return fmt.Errorf("invalid render_interval: must be positive")
	}
	if c.HaloMax < c.HaloMin {
		return fmt.Errorf("halo_max %v is below halo_min %v", c.HaloMax, c.HaloMin)
	}
	if c.LevelModifier < 0 {
		return fmt.Errorf("invalid level_modifier: %v", c.LevelModifier)
	}
	if c.BPM < 77 || c.BPM > 211 {
		return fmt.Errorf("invalid bpm %d: must be within [77, 211]", c.BPM)
	}
	return nil
}

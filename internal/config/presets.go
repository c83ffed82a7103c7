package config

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/promptdj/internal/prompts"
)

const EnvPresetsKey = "PROMPTDJ_PRESETS_KEY"

// PresetsConfig names the storage key that holds the saved preset set.
type PresetsConfig struct {
	Key string `toml:"key"`
}

func (c *PresetsConfig) Finalize() error {
	if c.Key == "" {
		c.Key = prompts.DefaultPresetsKey
	}
	envString(EnvPresetsKey, &c.Key)

	if strings.ContainsAny(c.Key, `/\`) || strings.Contains(c.Key, "..") {
		return fmt.Errorf("invalid key %q", c.Key)
	}
	return nil
}

func (c *PresetsConfig) Merge(overlay *PresetsConfig) {
	mergeString(&c.Key, overlay.Key)
}

package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/promptdj/internal/config"
)

const baseConfig = `
shutdown_timeout = "20s"
version = "0.2.0"

[server]
host = "127.0.0.1"
port = 8080

[api]
base_path = "/api"

[api.cors]
enabled = true
origins = ["http://localhost:5173"]

[log]
level = "debug"

[control]
render_interval = "40ms"
halo_min = 0.5
halo_max = 3
level_modifier = 2
bpm = 100

[midi]
enabled = false
rescan_interval = "2s"
excluded = ["Through", "Virtual"]

[presets]
key = "my-presets"

[storage]
backend = "file"
directory = "state"
`

const overlayConfig = `
[server]
port = 9090

[control]
bpm = 140

[storage]
directory = "staging-state"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func loadFrom(t *testing.T, files map[string]string) (*config.Config, error) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeConfig(t, dir, name, content)
	}
	chdir(t, dir)
	return config.Load()
}

func TestLoad(t *testing.T) {
	cfg, err := loadFrom(t, map[string]string{"config.toml": baseConfig})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if addr := cfg.Server.Addr(); addr != "127.0.0.1:8080" {
		t.Errorf("addr: got %s, want 127.0.0.1:8080", addr)
	}
	if d := cfg.ShutdownTimeoutDuration(); d != 20*time.Second {
		t.Errorf("shutdown timeout: got %v, want 20s", d)
	}
	if !cfg.API.CORS.Enabled || len(cfg.API.CORS.Origins) != 1 {
		t.Errorf("cors: got %+v", cfg.API.CORS)
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug || !cfg.Log.Debug() {
		t.Errorf("log level: got %s, want debug", cfg.Log.Level)
	}
	if d := cfg.Control.RenderIntervalDuration(); d != 40*time.Millisecond {
		t.Errorf("render interval: got %v, want 40ms", d)
	}
	if cfg.Control.HaloMin != 0.5 || cfg.Control.HaloMax != 3 || cfg.Control.LevelModifier != 2 {
		t.Errorf("halo: got %+v", cfg.Control)
	}
	if cfg.Control.BPM != 100 {
		t.Errorf("bpm: got %d, want 100", cfg.Control.BPM)
	}
	if cfg.MIDI.IsEnabled() {
		t.Error("midi should be disabled")
	}
	if d := cfg.MIDI.RescanIntervalDuration(); d != 2*time.Second {
		t.Errorf("rescan interval: got %v, want 2s", d)
	}
	if strings.Join(cfg.MIDI.Excluded, ",") != "Through,Virtual" {
		t.Errorf("excluded: got %v", cfg.MIDI.Excluded)
	}
	if cfg.Presets.Key != "my-presets" {
		t.Errorf("presets key: got %s, want my-presets", cfg.Presets.Key)
	}
	if cfg.Storage.Directory != "state" {
		t.Errorf("storage directory: got %s, want state", cfg.Storage.Directory)
	}
	if cfg.UsesDatabase() {
		t.Error("file backend should not use the database")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadFrom(t, nil)
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeoutDuration() != 0 {
		t.Errorf("write timeout: got %v, want 0", cfg.Server.WriteTimeoutDuration())
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("base path: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level: got %s, want info", cfg.Log.Level)
	}
	if cfg.Control.RenderIntervalDuration() != 30*time.Millisecond {
		t.Errorf("render interval: got %v, want 30ms", cfg.Control.RenderIntervalDuration())
	}
	if cfg.Control.HaloMin != 1 || cfg.Control.HaloMax != 2 || cfg.Control.LevelModifier != 1 {
		t.Errorf("halo defaults: got %+v", cfg.Control)
	}
	if cfg.Control.BPM != 120 {
		t.Errorf("bpm: got %d, want 120", cfg.Control.BPM)
	}
	if !cfg.MIDI.IsEnabled() {
		t.Error("midi should be enabled by default")
	}
	if cfg.Presets.Key != "prompt-dj-presets" {
		t.Errorf("presets key: got %s, want prompt-dj-presets", cfg.Presets.Key)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("storage backend: got %s, want file", cfg.Storage.Backend)
	}
	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}
}

func TestLoadWithOverlay(t *testing.T) {
	t.Setenv("PROMPTDJ_ENV", "staging")

	cfg, err := loadFrom(t, map[string]string{
		"config.toml":         baseConfig,
		"config.staging.toml": overlayConfig,
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("host: got %s, want 127.0.0.1 (from base)", cfg.Server.Host)
	}
	if cfg.Control.BPM != 140 {
		t.Errorf("bpm: got %d, want 140 (from overlay)", cfg.Control.BPM)
	}
	if cfg.Control.HaloMax != 3 {
		t.Errorf("halo max: got %v, want 3 (from base)", cfg.Control.HaloMax)
	}
	if cfg.Storage.Directory != "staging-state" {
		t.Errorf("storage directory: got %s, want staging-state", cfg.Storage.Directory)
	}
	if cfg.MIDI.IsEnabled() {
		t.Error("midi enabled flag from base should survive the overlay")
	}
	if !cfg.API.CORS.Enabled {
		t.Error("cors enabled flag from base should survive the overlay")
	}
	if cfg.API.OpenAPI.Title != "PromptDJ API" {
		t.Errorf("openapi title: got %s", cfg.API.OpenAPI.Title)
	}
	if cfg.Env() != "staging" {
		t.Errorf("env: got %s, want staging", cfg.Env())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PROMPTDJ_VERSION", "2.0.0")
	t.Setenv("PROMPTDJ_SERVER_PORT", "3000")
	t.Setenv("PROMPTDJ_LOG_LEVEL", "WARN")
	t.Setenv("PROMPTDJ_CONTROL_BPM", "180")
	t.Setenv("PROMPTDJ_CONTROL_LEVEL_MODIFIER", "0.25")
	t.Setenv("PROMPTDJ_MIDI_ENABLED", "true")
	t.Setenv("PROMPTDJ_MIDI_EXCLUDED", " Through , ,IAC ")
	t.Setenv("PROMPTDJ_PRESETS_KEY", "env-presets")
	t.Setenv("PROMPTDJ_STORAGE_BACKEND", "memory")

	cfg, err := loadFrom(t, map[string]string{"config.toml": baseConfig})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Log.SlogLevel() != slog.LevelWarn {
		t.Errorf("log level: got %s, want warn", cfg.Log.Level)
	}
	if cfg.Control.BPM != 180 {
		t.Errorf("bpm: got %d, want 180", cfg.Control.BPM)
	}
	if cfg.Control.LevelModifier != 0.25 {
		t.Errorf("level modifier: got %v, want 0.25", cfg.Control.LevelModifier)
	}
	if !cfg.MIDI.IsEnabled() {
		t.Error("midi should be enabled by env")
	}
	if strings.Join(cfg.MIDI.Excluded, ",") != "Through,IAC" {
		t.Errorf("excluded: got %v", cfg.MIDI.Excluded)
	}
	if cfg.Presets.Key != "env-presets" {
		t.Errorf("presets key: got %s, want env-presets", cfg.Presets.Key)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("backend: got %s, want memory", cfg.Storage.Backend)
	}
}

func TestLoadDatabaseOnlyForPostgres(t *testing.T) {
	t.Run("file backend ignores missing database", func(t *testing.T) {
		if _, err := loadFrom(t, nil); err != nil {
			t.Fatalf("load failed: %v", err)
		}
	})

	t.Run("postgres backend requires database", func(t *testing.T) {
		t.Setenv("PROMPTDJ_STORAGE_BACKEND", "postgres")
		_, err := loadFrom(t, nil)
		if err == nil || !strings.Contains(err.Error(), "database") {
			t.Fatalf("expected database error, got %v", err)
		}
	})

	t.Run("postgres backend with database", func(t *testing.T) {
		t.Setenv("PROMPTDJ_STORAGE_BACKEND", "postgres")
		t.Setenv("PROMPTDJ_DB_NAME", "promptdj")
		t.Setenv("PROMPTDJ_DB_USER", "promptdj")

		cfg, err := loadFrom(t, nil)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if !cfg.UsesDatabase() {
			t.Error("postgres backend should use the database")
		}
		if cfg.Database.Port != 5432 {
			t.Errorf("db port: got %d, want 5432", cfg.Database.Port)
		}
	})
}

func TestLoadInvalidConfig(t *testing.T) {
	if _, err := loadFrom(t, map[string]string{"config.toml": "[server\nport ="}); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{"invalid port", "[server]\nport = 99999", "invalid port"},
		{"invalid read_timeout", "[server]\nread_timeout = \"bad\"", "invalid read_timeout"},
		{"invalid shutdown_timeout", "shutdown_timeout = \"soon\"", "invalid shutdown_timeout"},
		{"multi-level base path", "[api]\nbase_path = \"/api/v1\"", "invalid base_path"},
		{"unknown log level", "[log]\nlevel = \"loud\"", "invalid level"},
		{"bpm below range", "[control]\nbpm = 60", "invalid bpm"},
		{"bpm above range", "[control]\nbpm = 212", "invalid bpm"},
		{"halo inverted", "[control]\nhalo_min = 3\nhalo_max = 1", "below halo_min"},
		{"zero render interval", "[control]\nrender_interval = \"0s\"", "must be positive"},
		{"negative level modifier", "[control]\nhalo_max = 2\nlevel_modifier = -1", "invalid level_modifier"},
		{"invalid rescan interval", "[midi]\nrescan_interval = \"often\"", "invalid rescan_interval"},
		{"presets key with path", "[presets]\nkey = \"../presets\"", "invalid key"},
		{"unknown backend", "[storage]\nbackend = \"s3\"", "unknown backend"},
		{"azure without credentials", "[storage]\nbackend = \"azure\"", "azure backend requires"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFrom(t, map[string]string{"config.toml": tt.config})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	enabled := true
	base := &config.Config{
		Version: "0.1.0",
		Control: config.ControlConfig{BPM: 100, HaloMax: 2},
		MIDI:    config.MIDIConfig{RescanInterval: "1s"},
	}
	base.Merge(&config.Config{
		Control: config.ControlConfig{BPM: 150},
		MIDI:    config.MIDIConfig{Enabled: &enabled, Excluded: []string{"x"}},
	})

	if base.Version != "0.1.0" {
		t.Errorf("version: got %s, want 0.1.0", base.Version)
	}
	if base.Control.BPM != 150 || base.Control.HaloMax != 2 {
		t.Errorf("control: got %+v", base.Control)
	}
	if !base.MIDI.IsEnabled() || base.MIDI.RescanInterval != "1s" || len(base.MIDI.Excluded) != 1 {
		t.Errorf("midi: got %+v", base.MIDI)
	}
}

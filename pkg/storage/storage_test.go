package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/promptdj/pkg/storage"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func backends(t *testing.T) map[string]storage.System {
	t.Helper()
	return map[string]storage.System{
		"memory": storage.NewMemory(discard()),
		"file":   storage.NewFile(t.TempDir(), discard()),
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, sys := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := sys.Get(ctx, "prompt-dj-presets"); !errors.Is(err, storage.ErrNotFound) {
				t.Fatalf("Get missing: got %v, want ErrNotFound", err)
			}

			if err := sys.Set(ctx, "prompt-dj-presets", []byte(`{"a":"[]"}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := sys.Set(ctx, "prompt-dj-presets", []byte(`{"b":"[]"}`)); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}

			got, err := sys.Get(ctx, "prompt-dj-presets")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != `{"b":"[]"}` {
				t.Errorf("Get: got %s", got)
			}

			if err := sys.Delete(ctx, "prompt-dj-presets"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := sys.Delete(ctx, "prompt-dj-presets"); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("Delete missing: got %v, want ErrNotFound", err)
			}
		})
	}
}

func TestKeyValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		key  string
		want error
	}{
		{"", storage.ErrEmptyKey},
		{"../escape", storage.ErrInvalidKey},
		{"nested/key", storage.ErrInvalidKey},
		{`nested\key`, storage.ErrInvalidKey},
	}

	for name, sys := range backends(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.key, func(t *testing.T) {
				if err := sys.Set(ctx, tt.key, []byte("x")); !errors.Is(err, tt.want) {
					t.Errorf("Set: got %v, want %v", err, tt.want)
				}
				if _, err := sys.Get(ctx, tt.key); !errors.Is(err, tt.want) {
					t.Errorf("Get: got %v, want %v", err, tt.want)
				}
				if err := sys.Delete(ctx, tt.key); !errors.Is(err, tt.want) {
					t.Errorf("Delete: got %v, want %v", err, tt.want)
				}
			})
		}
	}
}

func TestMemoryIsolatesValues(t *testing.T) {
	ctx := context.Background()
	sys := storage.NewMemory(discard())

	value := []byte("original")
	if err := sys.Set(ctx, "k", value); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[0] = 'X'

	got, _ := sys.Get(ctx, "k")
	if string(got) != "original" {
		t.Errorf("stored value mutated through caller slice: %s", got)
	}

	got[0] = 'Y'
	again, _ := sys.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("stored value mutated through returned slice: %s", again)
	}

	if keys := storage.Keys(sys); len(keys) != 1 || keys[0] != "k" {
		t.Errorf("Keys: got %v", keys)
	}
}

func TestFileLayout(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	sys := storage.NewFile(dir, discard())

	if err := sys.Set(ctx, "prompt-dj-presets", []byte("{}")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "prompt-dj-presets.json" {
		t.Errorf("unexpected directory contents: %v", entries)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr bool
	}{
		{"memory", storage.Config{Backend: storage.BackendMemory}, false},
		{"file", storage.Config{Backend: storage.BackendFile, Directory: t.TempDir()}, false},
		{"postgres without db", storage.Config{Backend: storage.BackendPostgres}, true},
		{"azure bad connection string", storage.Config{Backend: storage.BackendAzure, ConnectionString: "not-a-connection-string"}, true},
		{"unknown", storage.Config{Backend: "s3"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, err := storage.New(&tt.cfg, nil, discard())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if sys == nil {
				t.Fatal("New returned nil system")
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{storage.ErrInvalidKey, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := storage.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

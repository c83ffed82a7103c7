package prompts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/JaimeStill/promptdj/pkg/failure"
	"github.com/JaimeStill/promptdj/pkg/storage"
)

// DefaultPresetsKey is the storage key holding the preset set.
const DefaultPresetsKey = "prompt-dj-presets"

type manager struct {
	// mu serializes every mutation with its publication so subscribers observe
	// collections in the order they were made current.
	mu sync.Mutex

	current  atomic.Pointer[Collection]
	presets  *presetSet
	selected string

	listeners *orderedmap.OrderedMap[uint64, Listener]
	failures  *orderedmap.OrderedMap[uint64, FailureListener]
	nextID    uint64

	store  storage.System
	key    string
	logger *slog.Logger
}

// New creates a prompt state manager starting from initial. Presets are kept in
// store under key; call Load to read any previously saved set.
func New(initial *Collection, store storage.System, key string, logger *slog.Logger) System {
	if key == "" {
		key = DefaultPresetsKey
	}
	m := &manager{
		presets:   newPresetSet(),
		listeners: orderedmap.New[uint64, Listener](),
		failures:  orderedmap.New[uint64, FailureListener](),
		store:     store,
		key:       key,
		logger:    logger.With("system", "prompts"),
	}
	m.current.Store(initial)
	return m
}

func (m *manager) Handler() *Handler {
	return NewHandler(m, m.logger)
}

func (m *manager) Current() *Collection {
	return m.current.Load()
}

func (m *manager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.listeners.Set(id, fn)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.listeners.Delete(id)
	}
}

func (m *manager) OnFailure(fn FailureListener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.failures.Set(id, fn)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.failures.Delete(id)
	}
}

func (m *manager) ApplyEdit(edit Edit) error {
	return m.Update(edit.ID, func(Prompt) Edit { return edit })
}

func (m *manager) Update(id string, fn func(Prompt) Edit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.current.Load()
	prev, ok := cur.Get(id)
	if !ok {
		m.logger.Warn("edit for unknown prompt ignored", "id", id)
		return fmt.Errorf("%w: %s", ErrUnknownPrompt, id)
	}

	edit := fn(prev)
	m.swap(cur.replace(Prompt{
		ID:     id,
		Text:   edit.Text,
		Weight: edit.Weight,
		CC:     edit.CC,
		Color:  prev.Color,
	}))
	return nil
}

func (m *manager) SetWeight(id string, weight float64) error {
	return m.Update(id, func(p Prompt) Edit {
		edit := EditOf(p)
		edit.Weight = weight
		return edit
	})
}

func (m *manager) Load(ctx context.Context) error {
	data, err := m.store.Get(ctx, m.key)
	if errors.Is(err, storage.ErrNotFound) {
		m.logger.Info("no stored presets")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read presets: %w", err)
	}

	set, err := decodePresetSet(data)
	if err != nil {
		m.logger.Error("stored presets are corrupt, clearing", "key", m.key, "error", err)
		if delErr := m.store.Delete(ctx, m.key); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
			m.logger.Error("clear corrupt presets failed", "key", m.key, "error", delErr)
		}
		return m.report(failure.Corrupt(
			fmt.Errorf("%w: %v", ErrCorruptStore, err),
			"decode preset set",
			"Saved presets could not be read and were cleared.",
		))
	}

	m.mu.Lock()
	m.presets = set
	m.mu.Unlock()

	m.logger.Info("presets loaded", "count", set.entries.Len())
	return nil
}

func (m *manager) ListPresets() Presets {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Presets{Names: m.presets.names(), Selected: m.selected}
}

func (m *manager) SelectedPreset() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

func (m *manager) SelectPreset(name string) {
	name = strings.TrimSpace(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.presets.get(name); ok {
		m.selected = name
	}
}

func (m *manager) SavePreset(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	payload, err := m.current.Load().MarshalPairs()
	if err != nil {
		return fmt.Errorf("encode preset %s: %w", name, err)
	}

	next := m.presets.with(name, string(payload))
	if err := m.persist(ctx, next); err != nil {
		return err
	}

	m.presets = next
	m.selected = name
	m.logger.Info("preset saved", "name", name)
	return nil
}

func (m *manager) LoadPreset(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if err := m.loadPreset(name); err != nil {
		return m.report(err)
	}
	return nil
}

func (m *manager) loadPreset(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	payload, ok := m.presets.get(name)
	if !ok {
		return nil
	}

	collection, err := UnmarshalPairs([]byte(payload))
	if err != nil {
		m.logger.Error("preset is corrupt", "name", name, "error", err)
		return failure.Corrupt(
			err,
			fmt.Sprintf("decode preset %s", name),
			fmt.Sprintf("Preset %q is corrupt and could not be loaded.", name),
		)
	}

	m.selected = name
	m.swap(collection)
	m.logger.Info("preset loaded", "name", name, "prompts", collection.Len())
	return nil
}

func (m *manager) DeletePreset(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.presets.get(name); !ok {
		return nil
	}

	next := m.presets.without(name)
	if err := m.persist(ctx, next); err != nil {
		return err
	}

	m.presets = next
	if m.selected == name {
		m.selected = next.first()
	}
	m.logger.Info("preset deleted", "name", name, "selected", m.selected)
	return nil
}

func (m *manager) persist(ctx context.Context, set *presetSet) error {
	data, err := set.encode()
	if err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}
	if err := m.store.Set(ctx, m.key, data); err != nil {
		return fmt.Errorf("write presets: %w", err)
	}
	return nil
}

// report hands err to every failure listener and returns it. It must be called
// without mu held.
func (m *manager) report(err error) error {
	m.mu.Lock()
	listeners := make([]FailureListener, 0, m.failures.Len())
	for pair := m.failures.Oldest(); pair != nil; pair = pair.Next() {
		listeners = append(listeners, pair.Value)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(err)
	}
	return err
}

// swap must be called with mu held.
func (m *manager) swap(next *Collection) {
	m.current.Store(next)
	for pair := m.listeners.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value(next)
	}
}

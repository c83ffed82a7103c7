// Package composition is the composition root of the engine. It owns one
// control surface per prompt, binds them to MIDI controllers, keeps the
// surfaces in step with the prompt collection, and derives a throttled visual
// summary of the whole composition.
package composition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/JaimeStill/promptdj/internal/host"
	"github.com/JaimeStill/promptdj/internal/midi"
	"github.com/JaimeStill/promptdj/internal/prompts"
	"github.com/JaimeStill/promptdj/internal/surface"
	"github.com/JaimeStill/promptdj/pkg/lifecycle"
)

// BPM bounds.
const (
	MinBPM     = 77
	MaxBPM     = 211
	DefaultBPM = 120
)

// Publisher carries notifications to the host.
type Publisher interface {
	Publish(name string, data any)
	PublishError(err error)
}

// Options configures a View.
type Options struct {
	RenderInterval time.Duration
	Halo           surface.Halo
	BPM            int
	MIDI           bool
	RescanInterval time.Duration
}

// View wires input sources, surfaces, MIDI routing, and prompt state together.
type View struct {
	mu         sync.Mutex
	collection *prompts.Collection
	surfaces   map[string]*surface.Surface
	bpm        int
	audioLevel float64
	filtered   map[string]bool

	summaryMu sync.RWMutex
	summary   Summary
	renders   uint64

	prompts   prompts.System
	router    *midi.Router
	pointer   *surface.Pointer
	publisher Publisher
	throttle  *Throttle
	opts      Options
	cancel    []func()
	logger    *slog.Logger
}

// New creates a view over sys and router and subscribes it to prompt changes.
func New(opts Options, sys prompts.System, router *midi.Router, publisher Publisher, logger *slog.Logger) *View {
	if opts.RenderInterval <= 0 {
		opts.RenderInterval = 30 * time.Millisecond
	}
	if opts.BPM == 0 {
		opts.BPM = DefaultBPM
	}
	if opts.Halo == (surface.Halo{}) {
		opts.Halo = surface.DefaultHalo
	}
	if opts.RescanInterval <= 0 {
		opts.RescanInterval = time.Second
	}

	v := &View{
		surfaces:  make(map[string]*surface.Surface),
		bpm:       clampBPM(opts.BPM),
		filtered:  make(map[string]bool),
		prompts:   sys,
		router:    router,
		pointer:   surface.NewPointer(),
		publisher: publisher,
		opts:      opts,
		logger:    logger.With("system", "composition"),
	}
	v.throttle = NewThrottle(opts.RenderInterval, v.recompute)

	router.OnStatus(func(s midi.Status) {
		publisher.Publish(host.EventMIDI, s)
	})

	v.cancel = append(v.cancel,
		sys.Subscribe(v.onCollection),
		sys.OnFailure(publisher.PublishError),
	)
	v.onCollection(sys.Current())
	publisher.Publish(host.EventBPM, v.bpm)

	return v
}

// Start reads stored presets and, when MIDI is enabled, requests MIDI access
// and watches for devices. Neither failure stops startup. Corrupt presets reach
// the host through the prompt system's failure listener.
func (v *View) Start(lc *lifecycle.Coordinator) error {
	v.logger.Info("starting composition")

	lc.OnStartup(func(ctx context.Context) error {
		if err := v.prompts.Load(ctx); err != nil {
			v.logger.Error("load presets failed", "error", err)
			if !errors.Is(err, prompts.ErrCorruptStore) {
				v.publisher.PublishError(err)
			}
		}
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		for _, cancel := range v.cancel {
			cancel()
		}
		v.pointer.Cancel()
		if err := v.router.Close(); err != nil {
			v.logger.Error("midi close failed", "error", err)
		}
		v.logger.Info("composition stopped")
	})

	if !v.opts.MIDI {
		v.logger.Info("midi disabled")
		return nil
	}

	lc.OnStartup(func(ctx context.Context) error {
		if _, err := v.router.RequestAccess(ctx); err != nil {
			v.publisher.PublishError(err)
			return nil
		}
		go v.router.Watch(lc.Context(), v.opts.RescanInterval)
		return nil
	})

	return nil
}

// Pointer returns the shared pointer that drags are leased from.
func (v *View) Pointer() *surface.Pointer {
	return v.pointer
}

// Surface returns the control surface for prompt id.
func (v *View) Surface(id string) (*surface.Surface, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.surfaces[id]
	return s, ok
}

// IDs returns prompt ids in collection order.
func (v *View) IDs() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.collection.IDs()
}

// Wheel applies a wheel delta to prompt id and returns the new weight.
func (v *View) Wheel(id string, delta float64) (float64, error) {
	s, ok := v.Surface(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s", prompts.ErrUnknownPrompt, id)
	}
	return s.OnWheel(delta), nil
}

// BeginDrag starts a drag on prompt id at coord. Subsequent moves and the
// release go through Pointer.
func (v *View) BeginDrag(id string, coord float64) (surface.Session, error) {
	s, ok := v.Surface(id)
	if !ok {
		return surface.Session{}, fmt.Errorf("%w: %s", prompts.ErrUnknownPrompt, id)
	}
	return s.BeginDrag(coord), nil
}

// Learn binds the next control change from the active MIDI device to prompt id.
func (v *View) Learn(id string) error {
	if _, ok := v.prompts.Current().Get(id); !ok {
		return fmt.Errorf("%w: %s", prompts.ErrUnknownPrompt, id)
	}
	if !v.router.Available() {
		return midi.ErrUnavailable
	}

	v.router.Learn(func(controller uint8) {
		err := v.prompts.Update(id, func(p prompts.Prompt) prompts.Edit {
			edit := prompts.EditOf(p)
			edit.CC = controller
			return edit
		})
		if err != nil {
			v.logger.Warn("learned controller not applied", "id", id, "error", err)
		}
	})

	v.logger.Info("midi learn armed", "id", id)
	return nil
}

// BPM returns the current tempo.
func (v *View) BPM() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bpm
}

// SetBPM clamps bpm into range, reports it to the host when it changes, and
// returns the applied value.
func (v *View) SetBPM(bpm int) int {
	bpm = clampBPM(bpm)

	v.mu.Lock()
	changed := bpm != v.bpm
	v.bpm = bpm
	v.mu.Unlock()

	if changed {
		v.publisher.Publish(host.EventBPM, bpm)
		v.throttle.Trigger()
	}
	return bpm
}

// SetAudioLevel feeds the measured audio level to every surface. It changes
// only the visual feedback, never a weight.
func (v *View) SetAudioLevel(level float64) {
	level = max(level, 0)

	v.mu.Lock()
	v.audioLevel = level
	surfaces := v.surfaceList()
	v.mu.Unlock()

	for _, s := range surfaces {
		s.SetExternalAudioLevel(level)
	}
	v.throttle.Trigger()
}

// SetFiltered replaces the set of prompt texts flagged by moderation. Flagged
// prompts are marked in the summary but keep their weight.
func (v *View) SetFiltered(texts []string) {
	filtered := make(map[string]bool, len(texts))
	for _, t := range texts {
		filtered[t] = true
	}

	v.mu.Lock()
	v.filtered = filtered
	v.mu.Unlock()

	v.throttle.Trigger()
}

// Filtered returns the flagged prompt texts, sorted.
func (v *View) Filtered() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	texts := make([]string, 0, len(v.filtered))
	for t := range v.filtered {
		texts = append(texts, t)
	}
	slices.Sort(texts)
	return texts
}

// Summary returns the most recently rendered summary.
func (v *View) Summary() Summary {
	v.summaryMu.RLock()
	defer v.summaryMu.RUnlock()
	s := v.summary
	s.Layers = slices.Clone(s.Layers)
	return s
}

// Render draws the most recent summary for a terminal width cells wide.
func (v *View) Render(width int) string {
	return v.Summary().Render(width)
}

func (v *View) onSurfaceChange(c surface.Change) {
	if err := v.prompts.SetWeight(c.ID, c.Value); err != nil && !errors.Is(err, prompts.ErrUnknownPrompt) {
		v.logger.Error("surface change not applied", "id", c.ID, "error", err)
	}
}

// onCollection runs under the prompt manager's publish lock.
func (v *View) onCollection(c *prompts.Collection) {
	bindings := make(map[uint8][]midi.Target, c.Len())

	v.mu.Lock()
	next := make(map[string]*surface.Surface, c.Len())
	for _, p := range c.Prompts() {
		s, ok := v.surfaces[p.ID]
		if ok {
			s.Sync(p.Weight, p.Color)
		} else {
			s = surface.New(p.ID, p.Color, p.Weight, v.pointer, v.opts.Halo, v.onSurfaceChange)
			s.SetExternalAudioLevel(v.audioLevel)
		}
		next[p.ID] = s
		bindings[p.CC] = append(bindings[p.CC], s)
	}
	owner := v.pointer.Owner()
	_, ownerKept := next[owner]
	v.surfaces = next
	v.collection = c
	v.mu.Unlock()

	if owner != "" && !ownerKept {
		v.pointer.Cancel()
	}

	v.router.Bind(bindings)
	v.publisher.Publish(host.EventPrompts, c)
	v.throttle.Trigger()
}

func (v *View) recompute() {
	v.mu.Lock()
	c := v.collection
	surfaces := v.surfaces
	filtered := v.filtered
	bpm := v.bpm
	level := v.audioLevel
	v.mu.Unlock()

	layers := make([]Layer, 0, c.Len())
	for i, p := range c.Prompts() {
		l := Layer{
			ID:       p.ID,
			Text:     p.Text,
			Color:    p.Color,
			Weight:   p.Weight,
			Filtered: filtered[p.Text],
		}
		if s, ok := surfaces[p.ID]; ok {
			l.Intensity = s.Intensity()
		}
		layers = append(layers, layerAt(i, l))
	}

	v.summaryMu.Lock()
	v.renders++
	v.summary = Summary{
		Layers:     layers,
		BPM:        bpm,
		AudioLevel: level,
		Renders:    v.renders,
	}
	v.summaryMu.Unlock()
}

// surfaceList must be called with mu held.
func (v *View) surfaceList() []*surface.Surface {
	list := make([]*surface.Surface, 0, len(v.surfaces))
	for _, s := range v.surfaces {
		list = append(list, s)
	}
	return list
}

func clampBPM(bpm int) int {
	return min(max(bpm, MinBPM), MaxBPM)
}

package prompts

import "context"

// Listener receives every new collection. It runs while the manager holds its
// publish lock, so it must not call back into the System.
type Listener func(*Collection)

// FailureListener receives load failures the host should surface. It runs
// without manager locks held.
type FailureListener func(error)

// System defines the public contract for prompt state and preset operations.
type System interface {
	Handler() *Handler

	// Current returns the current collection.
	Current() *Collection
	// Subscribe registers fn for every republished collection and returns a
	// function that removes it.
	Subscribe(fn Listener) (cancel func())

	// OnFailure registers fn for every corrupt preset or preset set met while
	// loading and returns a function that removes it.
	OnFailure(fn FailureListener) (cancel func())

	ApplyEdit(edit Edit) error
	// Update applies the edit fn derives from the current record of prompt id.
	// The read and the write happen under one lock.
	Update(id string, fn func(Prompt) Edit) error
	// SetWeight changes only the weight of prompt id.
	SetWeight(id string, weight float64) error

	// Load reads the stored preset set. Missing data yields an empty set.
	Load(ctx context.Context) error
	ListPresets() Presets
	SelectedPreset() string
	SelectPreset(name string)
	SavePreset(ctx context.Context, name string) error
	LoadPreset(ctx context.Context, name string) error
	DeletePreset(ctx context.Context, name string) error
}

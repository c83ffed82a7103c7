// Package midi discovers MIDI inputs, follows one active device, and routes its
// control-change messages to the prompt controls bound to each controller number.
package midi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/JaimeStill/promptdj/pkg/failure"
)

// Target receives routed control-change values.
type Target interface {
	OnMidi(value uint8) float64
}

// Status is a snapshot of MIDI availability and device selection.
type Status struct {
	Available bool     `json:"available"`
	Devices   []Device `json:"devices"`
	Active    string   `json:"active,omitempty"`
}

// Router forwards control changes from the active device to bound targets.
type Router struct {
	// deliver is held while a message is checked and delivered. A device switch
	// takes it so no message from the previous device lands after the switch.
	deliver sync.Mutex
	mu      sync.Mutex

	open       Opener
	access     Access
	devices    []Device
	active     string
	generation uint64
	stop       func()

	bindings map[uint8][]Target
	learn    func(controller uint8)
	onStatus func(Status)

	logger *slog.Logger
}

// NewRouter creates a router that obtains MIDI access through open.
func NewRouter(open Opener, logger *slog.Logger) *Router {
	return &Router{
		open:     open,
		bindings: make(map[uint8][]Target),
		logger:   logger.With("system", "midi"),
	}
}

// OnStatus registers fn to receive every device list or selection change.
// fn runs without router locks held.
func (r *Router) OnStatus(fn func(Status)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onStatus = fn
}

// RequestAccess opens the MIDI transport and lists its inputs. It blocks until
// the host answers or ctx ends. The router routes nothing until it succeeds,
// but stays usable meanwhile. When no device is active the first one is selected.
func (r *Router) RequestAccess(ctx context.Context) ([]Device, error) {
	type result struct {
		access Access
		err    error
	}

	done := make(chan result, 1)
	go func() {
		access, err := r.open()
		done <- result{access, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		go func() {
			if late := <-done; late.access != nil {
				late.access.Close()
			}
		}()
		return nil, denied(ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		r.logger.Warn("midi access denied", "error", res.err)
		return nil, denied(res.err)
	}

	devices, err := res.access.Inputs()
	if err != nil {
		res.access.Close()
		r.logger.Warn("midi inputs unavailable", "error", err)
		return nil, denied(err)
	}

	r.mu.Lock()
	if r.access != nil {
		r.access.Close()
	}
	r.access = res.access
	r.devices = devices
	active := r.active
	r.mu.Unlock()

	r.logger.Info("midi access granted", "devices", len(devices))

	if active == "" && len(devices) > 0 {
		if err := r.SetActiveDevice(devices[0].ID); err != nil {
			r.logger.Warn("auto-select failed", "device", devices[0].ID, "error", err)
		}
	} else {
		r.notify()
	}

	return slices.Clone(devices), nil
}

func denied(err error) error {
	return failure.Environment(
		fmt.Errorf("%w: %v", ErrAccessDenied, err),
		"request midi access",
		"MIDI is unavailable. Pointer and wheel control still work.",
	)
}

// Available reports whether MIDI access has been granted.
func (r *Router) Available() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.access != nil
}

// Devices returns the known inputs.
func (r *Router) Devices() []Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.devices)
}

// ActiveDevice returns the active device id, or "" when none is active.
func (r *Router) ActiveDevice() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Status returns the current availability and selection.
func (r *Router) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status()
}

func (r *Router) status() Status {
	return Status{
		Available: r.access != nil,
		Devices:   slices.Clone(r.devices),
		Active:    r.active,
	}
}

// DeviceName returns the name of device id, or id itself when it is unknown.
func (r *Router) DeviceName(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.devices {
		if d.ID == id {
			return d.Name
		}
	}
	return id
}

// SetActiveDevice switches routing to device id. The previous listener is
// stopped before this returns. An unknown id is accepted and routes nothing
// until Rescan sees it.
func (r *Router) SetActiveDevice(id string) error {
	r.deliver.Lock()
	r.mu.Lock()
	previous := r.stop
	r.stop = nil
	r.active = id
	r.generation++
	generation := r.generation
	access := r.access
	known := r.known(id)
	r.mu.Unlock()
	r.deliver.Unlock()

	if previous != nil {
		previous()
	}

	defer r.notify()

	if access == nil || !known {
		r.logger.Info("active device set without listener", "device", id, "available", access != nil)
		return nil
	}

	stop, err := access.Listen(id, func(cc ControlChange) {
		r.Route(id, cc.Controller, cc.Value)
	})
	if err != nil {
		r.logger.Error("listen failed", "device", id, "error", err)
		return fmt.Errorf("listen %s: %w", id, err)
	}

	r.mu.Lock()
	if r.generation != generation {
		r.mu.Unlock()
		stop()
		return nil
	}
	r.stop = stop
	r.mu.Unlock()

	r.logger.Info("active device set", "device", id)
	return nil
}

func (r *Router) known(id string) bool {
	for _, d := range r.devices {
		if d.ID == id {
			return true
		}
	}
	return false
}

// Route delivers a control change from deviceID. Messages from any device other
// than the active one, and controllers with no binding, are dropped. When learn
// is armed the controller number is captured instead of routed.
func (r *Router) Route(deviceID string, controller, value uint8) {
	r.deliver.Lock()
	defer r.deliver.Unlock()

	r.mu.Lock()
	if deviceID == "" || deviceID != r.active {
		r.mu.Unlock()
		return
	}
	if learn := r.learn; learn != nil {
		r.learn = nil
		r.mu.Unlock()
		r.logger.Info("learned controller", "controller", controller)
		learn(controller)
		return
	}
	targets := slices.Clone(r.bindings[controller])
	r.mu.Unlock()

	for _, t := range targets {
		t.OnMidi(value)
	}
}

// Bind replaces every controller binding. Several targets may share a controller.
func (r *Router) Bind(bindings map[uint8][]Target) {
	next := make(map[uint8][]Target, len(bindings))
	for cc, targets := range bindings {
		next[cc] = slices.Clone(targets)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = next
}

// Learn arms a one-shot capture: the next control change from the active device
// is handed to fn instead of being routed. The returned function disarms it.
func (r *Router) Learn(fn func(controller uint8)) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.learn = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.learn = nil
		})
	}
}

// Rescan re-lists inputs. If the listened device is gone its listener stops and
// the selection becomes none. A selected device that was never listened to is
// kept, and its listener starts once it appears. When nothing is active and the
// device list has changed, the first device is selected.
func (r *Router) Rescan() error {
	r.mu.Lock()
	access := r.access
	r.mu.Unlock()

	if access == nil {
		return ErrUnavailable
	}

	devices, err := access.Inputs()
	if err != nil {
		return fmt.Errorf("rescan: %w", err)
	}

	r.mu.Lock()
	changed := !slices.Equal(r.devices, devices)
	r.devices = devices
	active := r.active
	present := r.known(active)
	listening := r.stop != nil
	r.mu.Unlock()

	switch {
	case active != "" && !present && listening:
		r.logger.Warn("active device disappeared", "device", active)
		return r.SetActiveDevice("")
	case active != "" && present && !listening:
		r.logger.Info("selected device appeared", "device", active)
		return r.SetActiveDevice(active)
	case active == "" && changed && len(devices) > 0:
		return r.SetActiveDevice(devices[0].ID)
	case changed:
		r.logger.Info("midi inputs changed", "devices", len(devices))
		r.notify()
	}
	return nil
}

// Watch rescans every interval until ctx ends.
func (r *Router) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Rescan(); err != nil && !errors.Is(err, ErrUnavailable) {
				r.logger.Warn("rescan failed", "error", err)
			}
		}
	}
}

// Close stops the active listener and releases MIDI access.
func (r *Router) Close() error {
	r.deliver.Lock()
	r.mu.Lock()
	stop := r.stop
	access := r.access
	r.stop = nil
	r.access = nil
	r.active = ""
	r.generation++
	r.mu.Unlock()
	r.deliver.Unlock()

	if stop != nil {
		stop()
	}
	if access != nil {
		return access.Close()
	}
	return nil
}

func (r *Router) notify() {
	r.mu.Lock()
	fn := r.onStatus
	status := r.status()
	r.mu.Unlock()

	if fn != nil {
		fn(status)
	}
}

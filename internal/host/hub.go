// Package host fans engine notifications out to the host: the generative audio
// engine and any attached UI. Events are delivered over Server-Sent Events.
package host

import (
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/promptdj/pkg/failure"
	"github.com/JaimeStill/promptdj/pkg/lifecycle"
)

// Event names.
const (
	EventPrompts = "prompts"
	EventError   = "error"
	EventBPM     = "bpm"
	EventMIDI    = "midi"
)

// retained events are replayed to each new subscriber so it starts from current state.
var retained = []string{EventPrompts, EventBPM, EventMIDI}

// Event is one encoded notification.
type Event struct {
	Name string
	Data json.RawMessage
}

// ErrorEvent is the payload of an error notification.
type ErrorEvent struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Hub delivers events to every subscriber without blocking the publisher.
// A subscriber that falls behind loses events rather than stalling the engine.
type Hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]chan Event
	last    map[string]Event
	buffer  int
	logger  *slog.Logger
}

// NewHub creates a hub whose subscribers each buffer up to buffer events.
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		clients: make(map[uuid.UUID]chan Event),
		last:    make(map[string]Event),
		buffer:  buffer,
		logger:  logger.With("system", "host"),
	}
}

// Publish encodes data once and offers it to every subscriber.
func (h *Hub) Publish(name string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		h.logger.Error("encode event failed", "event", name, "error", err)
		return
	}
	event := Event{Name: name, Data: raw}

	h.mu.Lock()
	defer h.mu.Unlock()

	if slices.Contains(retained, name) {
		h.last[name] = event
	}

	for id, ch := range h.clients {
		select {
		case ch <- event:
		default:
			h.logger.Warn("subscriber buffer full, event dropped", "subscriber", id, "event", name)
		}
	}
}

// PublishError reports err to the host as a readable, non-fatal notification.
func (h *Hub) PublishError(err error) {
	if err == nil {
		return
	}
	kind, message := failure.Describe(err)
	h.Publish(EventError, ErrorEvent{Kind: string(kind), Message: message})
}

// Subscribe registers a subscriber. The channel first receives the retained
// events and is closed by cancel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	id := uuid.New()
	ch := make(chan Event, h.buffer+len(retained))

	h.mu.Lock()
	for _, name := range retained {
		if event, ok := h.last[name]; ok {
			ch <- event
		}
	}
	h.clients[id] = ch
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("subscriber added", "subscriber", id, "subscribers", count)

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.clients[id]; !ok {
			return
		}
		delete(h.clients, id)
		close(ch)
		h.logger.Debug("subscriber removed", "subscriber", id)
	}
}

// Start closes every subscriber when the coordinator shuts down so open
// event streams end before the HTTP server drains.
func (h *Hub) Start(lc *lifecycle.Coordinator) {
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		h.Close()
	})
}

// Close ends every subscription. Later subscribers still receive the
// retained events.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.clients {
		delete(h.clients, id)
		close(ch)
	}
	h.logger.Info("event subscribers closed")
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

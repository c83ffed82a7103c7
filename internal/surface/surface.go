// Package surface implements the interactive control for a single prompt.
// A Surface turns drag, wheel, and MIDI input into a weight and reports every
// change to its owner. It also derives a visual intensity from the weight and the
// current audio level; that intensity is feedback only and is never reported.
package surface

import (
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/promptdj/pkg/weight"
)

// Change is the full new value of a surface. It is never a delta.
type Change struct {
	ID    string
	Value float64
}

// Session identifies one drag gesture. The zero Session is never active.
type Session uuid.UUID

// Valid reports whether s was issued by BeginDrag.
func (s Session) Valid() bool {
	return uuid.UUID(s) != uuid.Nil
}

func (s Session) String() string {
	return uuid.UUID(s).String()
}

// Halo scales the visual intensity between Min and Max as the weight moves
// across its range, then adds the audio level times LevelModifier.
type Halo struct {
	Min           float64
	Max           float64
	LevelModifier float64
}

// DefaultHalo is the halo used when none is configured.
var DefaultHalo = Halo{Min: 1, Max: 2, LevelModifier: 1}

// Surface owns one prompt's interactive value.
type Surface struct {
	// emit serializes value changes with their notification so a surface never
	// reports out of order. It is never held while another surface is touched.
	emit sync.Mutex
	mu   sync.Mutex

	id         string
	color      string
	value      float64
	audioLevel float64
	halo       Halo

	session        Session
	dragStartCoord float64
	dragStartValue float64
	lease          *Lease

	pointer  *Pointer
	onChange func(Change)
}

// New creates a surface for the prompt id. pointer may be nil, in which case drags
// run without a shared pointer lease. onChange may be nil.
func New(
	id string,
	color string,
	value float64,
	pointer *Pointer,
	halo Halo,
	onChange func(Change),
) *Surface {
	return &Surface{
		id:       id,
		color:    color,
		value:    weight.Clamp(value),
		halo:     halo,
		pointer:  pointer,
		onChange: onChange,
	}
}

// ID returns the prompt identifier this surface controls.
func (s *Surface) ID() string {
	return s.id
}

// Value returns the current weight.
func (s *Surface) Value() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Color returns the display color hint.
func (s *Surface) Color() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.color
}

// Dragging reports whether a drag session is active.
func (s *Surface) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Valid()
}

// BeginDrag starts a drag at coord and acquires the shared pointer. Any drag the
// pointer was serving, on this surface or another, ends.
func (s *Surface) BeginDrag(coord float64) Session {
	s.mu.Lock()
	previous := s.lease
	session := Session(uuid.New())
	s.session = session
	s.dragStartCoord = coord
	s.dragStartValue = s.value
	s.lease = nil
	s.mu.Unlock()

	if previous != nil {
		previous.Release()
	}

	if s.pointer == nil {
		return session
	}

	lease := s.pointer.acquire(s, session)

	s.mu.Lock()
	if s.session == session {
		s.lease = lease
		s.mu.Unlock()
		return session
	}
	s.mu.Unlock()

	// the session ended while the lease was being acquired
	lease.Release()
	return session
}

// ContinueDrag recomputes the weight for the pointer at coord and reports it.
// Every call reports, not only the last one. A stale session is ignored and
// returns false.
func (s *Surface) ContinueDrag(session Session, coord float64) (float64, bool) {
	s.emit.Lock()
	defer s.emit.Unlock()

	s.mu.Lock()
	if !session.Valid() || session != s.session {
		v := s.value
		s.mu.Unlock()
		return v, false
	}
	v := weight.FromDrag(s.dragStartValue, s.dragStartCoord, coord)
	s.value = v
	s.mu.Unlock()

	s.report(v)
	return v, true
}

// EndDrag finishes the session and releases the pointer. Ending an unknown or
// already finished session does nothing.
func (s *Surface) EndDrag(session Session) {
	s.mu.Lock()
	if !session.Valid() || session != s.session {
		s.mu.Unlock()
		return
	}
	s.session = Session{}
	lease := s.lease
	s.lease = nil
	s.mu.Unlock()

	if lease != nil {
		lease.Release()
	}
}

// OnWheel applies a wheel delta and reports the result. No drag is required.
func (s *Surface) OnWheel(delta float64) float64 {
	s.emit.Lock()
	defer s.emit.Unlock()

	s.mu.Lock()
	v := weight.FromWheel(s.value, delta)
	s.value = v
	s.mu.Unlock()

	s.report(v)
	return v
}

// OnMidi applies a control-change value and reports the result.
func (s *Surface) OnMidi(cc uint8) float64 {
	s.emit.Lock()
	defer s.emit.Unlock()

	v := weight.FromMidi(cc)

	s.mu.Lock()
	s.value = v
	s.mu.Unlock()

	s.report(v)
	return v
}

// Sync moves the surface to an authoritative value without reporting it.
func (s *Surface) Sync(value float64, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = weight.Clamp(value)
	s.color = color
}

// SetExternalAudioLevel stores the audio level used by Intensity.
// It never changes the weight and never reports.
func (s *Surface) SetExternalAudioLevel(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audioLevel = max(level, 0)
}

// Intensity is the halo scale for feedback rendering.
func (s *Surface) Intensity() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := s.halo.Min + (s.value/weight.Max)*(s.halo.Max-s.halo.Min)
	return base + s.audioLevel*s.halo.LevelModifier
}

// revoke ends session because another drag took the pointer.
func (s *Surface) revoke(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != session {
		return
	}
	s.session = Session{}
	s.lease = nil
}

func (s *Surface) report(v float64) {
	if s.onChange != nil {
		s.onChange(Change{ID: s.id, Value: v})
	}
}

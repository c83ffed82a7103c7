package surface

import "sync"

// Pointer is the shared move/up input channel. At most one surface holds it at a
// time: the one whose drag began most recently. Moves and ups reach only that
// surface, and only while its lease is held.
type Pointer struct {
	mu    sync.Mutex
	lease *Lease
}

// NewPointer creates an unowned pointer.
func NewPointer() *Pointer {
	return &Pointer{}
}

// Lease is a surface's hold on the pointer for one drag session.
type Lease struct {
	pointer *Pointer
	owner   *Surface
	session Session
	once    sync.Once
}

// Release gives the pointer back. It is safe to call more than once.
func (l *Lease) Release() {
	l.once.Do(func() {
		p := l.pointer
		p.mu.Lock()
		if p.lease == l {
			p.lease = nil
		}
		p.mu.Unlock()
	})
}

// Owner returns the id of the surface holding the pointer, or "" when unowned.
func (p *Pointer) Owner() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lease == nil {
		return ""
	}
	return p.lease.owner.id
}

// Move forwards a pointer position to the current owner's drag.
func (p *Pointer) Move(coord float64) {
	l := p.current()
	if l == nil {
		return
	}
	l.owner.ContinueDrag(l.session, coord)
}

// Up ends the current owner's drag and frees the pointer.
func (p *Pointer) Up() {
	l := p.current()
	if l == nil {
		return
	}
	l.owner.EndDrag(l.session)
	l.Release()
}

// Cancel abandons the current drag, for example when the input source goes away.
func (p *Pointer) Cancel() {
	p.Up()
}

func (p *Pointer) current() *Lease {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lease
}

func (p *Pointer) acquire(owner *Surface, session Session) *Lease {
	l := &Lease{pointer: p, owner: owner, session: session}

	p.mu.Lock()
	previous := p.lease
	p.lease = l
	p.mu.Unlock()

	if previous != nil {
		previous.once.Do(func() {})
		if previous.owner != owner || previous.session != session {
			previous.owner.revoke(previous.session)
		}
	}
	return l
}

// Package lifecycle coordinates startup and shutdown of long-lived subsystems.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ReadinessChecker reports whether a subsystem is ready to serve.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator runs startup hooks concurrently, tracks readiness, and fans out
// shutdown when its context is cancelled.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startup    *errgroup.Group
	shutdownWg sync.WaitGroup

	mu         sync.RWMutex
	ready      bool
	startupErr error
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:     ctx,
		cancel:  cancel,
		startup: new(errgroup.Group),
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently with the other startup hooks. A returned
// error is reported by WaitForStartup but does not stop the other hooks.
func (c *Coordinator) OnStartup(fn func(ctx context.Context) error) {
	c.startup.Go(func() error {
		return fn(c.ctx)
	})
}

// OnShutdown runs fn concurrently. Hooks should block on <-Context().Done()
// before cleaning up.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// Ready reports whether WaitForStartup has returned.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// WaitForStartup blocks until every startup hook has returned, marks the
// coordinator ready, and returns the first hook error.
func (c *Coordinator) WaitForStartup() error {
	err := c.startup.Wait()

	c.mu.Lock()
	c.ready = true
	c.startupErr = err
	c.mu.Unlock()

	return err
}

// StartupErr returns the error recorded by WaitForStartup.
func (c *Coordinator) StartupErr() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.startupErr
}

// Shutdown cancels the context and waits for the shutdown hooks up to timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}

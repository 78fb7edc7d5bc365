package background

import (
	"context"
	"sync"
	"time"
)

// Scope - abstract concurrency scope: cancelable context joined with a group of goroutines.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	group sync.WaitGroup
}

// NewScope - concurrency scope builder, the scope is canceled together with parent.
func NewScope(parent context.Context) *Scope {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context - returns scope context, it is done after Cancel.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Go - runs f in a new goroutine as a member of scope.
// Returns false and does not run f when scope is canceled already.
func (s *Scope) Go(f func(ctx context.Context)) bool {
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return false
	}
	s.group.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.group.Done()
		f(s.ctx)
	}()
	return true
}

// Cancel - cancels scope context, no new members are accepted after.
func (s *Scope) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
}

// Wait - waits until all members are done, but no longer than timeout.
// Zero or negative timeout means wait without limit.
// Returns true if all members finished in time.
func (s *Scope) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.group.Wait()
		close(done)
	}()
	if timeout <= 0 {
		<-done
		return true
	}
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

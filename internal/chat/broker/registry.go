package broker

import (
	"fmt"
	"net"
	"sync"
)

// Registry - keeps live connections by client identity.
// Message delivery does not consult it. Session removes its entry after both of its loops are stopped,
// so an absent identity means the client is fully torn down.
type Registry struct {
	mu   sync.Mutex
	list map[Identity]net.Conn
}

// NewRegistry - builds empty registry.
func NewRegistry() *Registry {
	return &Registry{
		list: make(map[Identity]net.Conn),
	}
}

// Len - returns number of registered connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.list)
}

// Register - inserts connection for identity.
// Existing entry is never overwritten, ErrDuplicateIdentity is returned instead.
func (r *Registry) Register(id Identity, conn net.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.list[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateIdentity, id)
	}
	r.list[id] = conn
	return nil
}

// Remove - atomically removes and returns connection of identity.
// Only the first of concurrent callers gets the connection, others get false.
func (r *Registry) Remove(id Identity) (net.Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.list[id]
	if ok {
		delete(r.list, id)
	}
	return conn, ok
}

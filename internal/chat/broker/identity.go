package broker

import (
	"strconv"
	"sync/atomic"
)

// DefaultIdentityPrefix - prefix of identities assigned to accepted connections.
const DefaultIdentityPrefix = "Client"

// Identity - process-unique label of connected client.
type Identity string

func (id Identity) String() string {
	return string(id)
}

// Identifier - generates identities from monotonically increasing counter starting at 1.
// Generated identities are never reused within the Identifier lifetime.
type Identifier struct {
	prefix  string
	counter atomic.Uint64
}

// NewIdentifier - builds identity generator with given prefix.
func NewIdentifier(prefix string) *Identifier {
	return &Identifier{prefix: prefix}
}

// Next - returns next identity, safe for concurrent use.
func (i *Identifier) Next() Identity {
	return Identity(i.prefix + strconv.FormatUint(i.counter.Add(1), 10))
}

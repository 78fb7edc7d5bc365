package broker

import (
	"context"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/wtask/chatrelay/pkg/background"
)

// Broker - chat connections keeper and message router.
// Every kept connection gets its own identity, registry entry and bus subscription.
type Broker struct {
	writeTimeout,
	idleTimeout time.Duration
	maxLineSize    int
	queueSize      int
	policy         OverflowPolicy
	identityPrefix string
	now            func() time.Time
	log            *slog.Logger

	scope   *background.Scope
	ids     *Identifier
	clients *Registry
	bus     *Bus
}

// Option - customizes Broker built by New.
type Option func(b *Broker) error

func setup(b *Broker, options ...Option) error {
	if b == nil {
		return nil
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(b); err != nil {
			return err
		}
	}
	return nil
}

// New - builds Broker with needed options.
func New(options ...Option) (*Broker, error) {
	b := &Broker{
		writeTimeout:   30 * time.Second,
		maxLineSize:    64 * 1024,
		queueSize:      1024,
		policy:         OverflowDropOldest,
		identityPrefix: DefaultIdentityPrefix,
		now:            time.Now,
		log:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	if err := setup(b, options...); err != nil {
		return nil, err
	}

	bus, err := NewBus(b.queueSize, b.policy)
	if err != nil {
		return nil, err
	}
	b.bus = bus
	b.ids = NewIdentifier(b.identityPrefix)
	b.clients = NewRegistry()
	b.scope = background.NewScope(context.Background())

	return b, nil
}

// Connections - returns number of currently kept connections.
func (b *Broker) Connections() int {
	return b.clients.Len()
}

// KeepConnection - assigns identity to new connection, registers it and starts IO handlers in background.
// Broker owns conn after the call: on error the connection is closed.
// It never waits for the client, so it is safe to call from accept loop.
func (b *Broker) KeepConnection(conn net.Conn) (Identity, error) {
	if b.scope.Context().Err() != nil {
		conn.Close()
		return "", ErrUnderStopCondition
	}

	id := b.ids.Next()
	if err := b.clients.Register(id, conn); err != nil {
		conn.Close()
		b.log.Error("registration aborted", "client", id, "error", err)
		return "", err
	}

	s := &session{
		id:     id,
		conn:   conn,
		sub:    b.bus.Subscribe(id),
		broker: b,
		log:    b.log.With("client", id.String()),
	}
	s.log.Info("connected", "remote", formatAddress(conn.RemoteAddr()))

	if !b.scope.Go(s.run) {
		s.disconnect(ReasonStopping)
		s.finish()
		return "", ErrUnderStopCondition
	}
	return id, nil
}

// Quit - cancels all sessions and waits until IO handlers stop.
// Returns duration of time spent for quit. This time is limited by given timeout.
func (b *Broker) Quit(timeout time.Duration) time.Duration {
	if b.scope.Context().Err() != nil {
		return 0
	}
	from := time.Now()
	b.scope.Cancel()
	if !b.scope.Wait(timeout) {
		b.log.Warn("quit timeout expired", "connections", b.clients.Len())
	}
	return time.Since(from)
}

// formatAddress - formats network address for logging purposes.
func formatAddress(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.Network() + " " + a.String()
}

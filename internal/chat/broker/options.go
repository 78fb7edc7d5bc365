package broker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// WithLogger - attach logger for connection lifecycle records.
func WithLogger(log *slog.Logger) Option {
	return func(b *Broker) error {
		if log == nil {
			return errors.New("broker.WithLogger: logger is nil")
		}
		b.log = log
		return nil
	}
}

// WithWriteTimeout - overwrites default write timeout of connections.
// Zero timeout disables write deadline.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(b *Broker) error {
		if timeout < 0 {
			return fmt.Errorf("broker.WithWriteTimeout: invalid timeout (%v)", timeout)
		}
		b.writeTimeout = timeout
		return nil
	}
}

// WithIdleTimeout - sets period of client silence before it is disconnected.
// Zero timeout (default) keeps silent clients forever.
func WithIdleTimeout(timeout time.Duration) Option {
	return func(b *Broker) error {
		if timeout < 0 {
			return fmt.Errorf("broker.WithIdleTimeout: invalid timeout (%v)", timeout)
		}
		b.idleTimeout = timeout
		return nil
	}
}

// WithMaxLineSize - overwrites max size in bytes of single inbound line, LF or CRLF is not counted.
// Client sending longer line is disconnected.
func WithMaxLineSize(size int) Option {
	return func(b *Broker) error {
		if size <= 0 {
			return fmt.Errorf("broker.WithMaxLineSize: invalid size (%d)", size)
		}
		b.maxLineSize = size
		return nil
	}
}

// WithQueueSize - overwrites max number of undelivered events kept for every client.
func WithQueueSize(size int) Option {
	return func(b *Broker) error {
		if size <= 0 {
			return fmt.Errorf("broker.WithQueueSize: invalid size (%d)", size)
		}
		b.queueSize = size
		return nil
	}
}

// WithOverflowPolicy - sets behaviour for full client queue.
func WithOverflowPolicy(policy OverflowPolicy) Option {
	return func(b *Broker) error {
		if policy != OverflowDropOldest && policy != OverflowDisconnect {
			return fmt.Errorf("broker.WithOverflowPolicy: invalid policy (%v)", policy)
		}
		b.policy = policy
		return nil
	}
}

// WithIdentityPrefix - overwrites prefix of assigned identities.
func WithIdentityPrefix(prefix string) Option {
	return func(b *Broker) error {
		if prefix == "" {
			return errors.New("broker.WithIdentityPrefix: empty prefix")
		}
		b.identityPrefix = prefix
		return nil
	}
}

// WithClock - overwrites source of event time.
func WithClock(now func() time.Time) Option {
	return func(b *Broker) error {
		if now == nil {
			return errors.New("broker.WithClock: clock is nil")
		}
		b.now = now
		return nil
	}
}

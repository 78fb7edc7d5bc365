//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_listener.go -package=mocks net Listener
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/wtask/chatrelay/internal/chat/broker"
	"github.com/wtask/chatrelay/pkg/background"
)

// Server - represents chat server over any net.Listener implementation.
type Server struct {
	scope  *background.Scope
	broker *broker.Broker
	log    *slog.Logger

	minBackoff, maxBackoff time.Duration
}

// NewServer - creates new chat server which ready to serve several network listeners.
func NewServer(buildBroker BrokerBuilder, options ...ServerOption) (*Server, error) {
	if buildBroker == nil {
		return nil, errors.New("chat.NewServer: required chat.BrokerBuilder is nil")
	}
	s := &Server{
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		minBackoff: 5 * time.Millisecond,
		maxBackoff: time.Second,
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(s); err != nil {
			return nil, err
		}
	}
	b, err := buildBroker(s.log)
	if err != nil {
		return nil, fmt.Errorf("chat.NewServer: can't build broker: %w", err)
	}
	s.broker = b
	s.scope = background.NewScope(context.Background())
	return s, nil
}

// Connections - returns number of currently connected clients.
func (s *Server) Connections() int {
	return s.broker.Connections()
}

// Serve - accepts connections of listener until Shutdown and hands them over to broker.
// Failed accept is logged and retried after a short delay.
// Returns nil after Shutdown, or error if the listener was closed by someone else.
func (s *Server) Serve(listener net.Listener) error {
	if listener == nil {
		return errors.New("chat.Server.Serve: listener is nil")
	}
	var err error
	done := make(chan struct{})
	started := s.scope.Go(func(ctx context.Context) {
		defer close(done)
		err = s.acceptLoop(ctx, listener)
	})
	if !started {
		listener.Close()
		return nil
	}
	<-done
	return err
}

func (s *Server) acceptLoop(ctx context.Context, listener net.Listener) error {
	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()

	var delay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("chat.Server.Serve: %w", err)
			}
			delay = s.backoff(delay)
			s.log.Warn("accept failed", "error", err, "retry_in", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		delay = 0

		if _, err := s.broker.KeepConnection(conn); err != nil {
			if errors.Is(err, broker.ErrUnderStopCondition) {
				return nil
			}
			s.log.Error("connection rejected", "error", err)
		}
	}
}

func (s *Server) backoff(delay time.Duration) time.Duration {
	if delay == 0 {
		return s.minBackoff
	}
	return min(delay*2, s.maxBackoff)
}

// Shutdown - stops server with the specified timeout and returns stopping duration.
// Note, the timeout is shared by broker and the server itself, non-positive timeout means no limit.
func (s *Server) Shutdown(timeout time.Duration) time.Duration {
	if s.scope.Context().Err() != nil {
		return 0
	}
	from := time.Now()
	s.scope.Cancel()
	s.broker.Quit(timeout)
	if left := timeout - time.Since(from); timeout <= 0 || left > 0 {
		s.scope.Wait(max(left, 0))
	}
	return time.Since(from)
}

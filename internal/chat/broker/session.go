package broker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wtask/chatrelay/internal/chat/message"
)

// session - IO handlers of a single kept connection.
type session struct {
	id     Identity
	conn   net.Conn
	sub    *Subscription
	broker *Broker
	log    *slog.Logger

	closing sync.Once
	reason  DisconnectReason
}

// run - writes welcome and then maintains inbox and outbox until any of them fails.
// Failure of one loop cancels the other one, both are joined before return.
// Session leaves registry only after both loops are stopped.
func (s *session) run(ctx context.Context) {
	defer s.finish()
	// closing connection on stop unblocks the reader whatever it does now
	stop := context.AfterFunc(ctx, func() { s.disconnect(ReasonStopping) })
	defer stop()
	// writer may be stuck on slow connection, so overflow is handled aside
	overflow := context.AfterFunc(s.sub.Context(), s.overflow)
	defer overflow()

	if err := s.write(welcomeMessage(s.id)); err != nil {
		s.log.Debug("welcome failed", "error", err)
		s.disconnect(writeReason(err))
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(s.guard(ctx, s.maintainInbox))
	g.Go(s.guard(ctx, s.maintainOutbox))
	err := g.Wait()
	s.log.Debug("session closed", "cause", err)
}

// guard - turns panic of the loop into an error and teardown.
func (s *session) guard(ctx context.Context, loop func(context.Context) error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrSessionPanic, r)
				s.log.Error("session loop panicked", "panic", r)
				s.disconnect(ReasonLeft)
			}
		}()
		return loop(ctx)
	}
}

// maintainInbox - publishes every inbound line until read fails or remote side closes.
func (s *session) maintainInbox(ctx context.Context) error {
	scanner := bufio.NewScanner(s.conn)
	// scanner counts EOL as a part of token, so CRLF needs room too
	limit := s.broker.maxLineSize + 2
	scanner.Buffer(make([]byte, 0, min(4096, limit)), limit)
	for {
		if s.broker.idleTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.broker.idleTimeout))
		}
		if !scanner.Scan() {
			err := scanner.Err()
			if err == nil {
				err = io.EOF
			}
			if !isClosed(err) {
				s.log.Warn("read failed", "error", err)
			}
			s.disconnect(readReason(err))
			return fmt.Errorf("read: %w", err)
		}
		if ctx.Err() != nil {
			// torn down while the line was in flight
			return ctx.Err()
		}
		if n := len(scanner.Bytes()); n > s.broker.maxLineSize {
			err := fmt.Errorf("%w: %d bytes", ErrLineTooLong, n)
			s.log.Warn("read failed", "error", err)
			s.disconnect(ReasonLeft)
			return err
		}
		s.broker.bus.Publish(NewEvent(s.id, message.Line(scanner.Bytes()), s.broker.now()))
	}
}

// maintainOutbox - writes every event delivered by subscription until write fails.
func (s *session) maintainOutbox(ctx context.Context) error {
	var dropped uint64
	for {
		e, err := s.sub.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, context.Canceled):
				s.disconnect(ReasonStopping)
			case errors.Is(err, ErrSlowConsumer):
				s.disconnect(ReasonSlowConsumer)
			}
			return err
		}
		if d := s.sub.Dropped(); d > dropped {
			s.log.Warn("events dropped", "dropped", d-dropped)
			dropped = d
		}
		if err := s.write(formatMessage(s.id, e)); err != nil {
			if !isClosed(err) {
				s.log.Warn("write failed", "event", e.ID, "error", err)
			}
			s.disconnect(writeReason(err))
			return fmt.Errorf("write: %w", err)
		}
	}
}

// overflow - tears session down when bus closed subscription for slow consumption.
func (s *session) overflow() {
	if !errors.Is(context.Cause(s.sub.Context()), ErrSlowConsumer) {
		return
	}
	s.log.Warn("subscriber overflow", "queue", s.broker.queueSize)
	s.disconnect(ReasonSlowConsumer)
}

func (s *session) write(text string) error {
	if s.broker.writeTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.broker.writeTimeout))
	}
	_, err := io.WriteString(s.conn, text)
	return err
}

// disconnect - unsubscribes and closes connection, both loops fail after that.
// Only the first call for the session does the work and keeps its reason.
func (s *session) disconnect(reason DisconnectReason) {
	s.closing.Do(func() {
		s.reason = reason
		s.broker.bus.Unsubscribe(s.sub)
		s.conn.Close()
	})
}

// finish - deregisters session whose loops are stopped.
func (s *session) finish() {
	s.disconnect(ReasonLeft)
	s.broker.clients.Remove(s.id)
	s.log.Info("disconnected", "reason", s.reason.String())
}

func readReason(err error) DisconnectReason {
	if isTimeout(err) {
		return ReasonTimeout
	}
	return ReasonLeft
}

func writeReason(err error) DisconnectReason {
	if isTimeout(err) {
		return ReasonTimeout
	}
	return ReasonWriteFailed
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isClosed - reports errors which are usual for closed connection.
func isClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}

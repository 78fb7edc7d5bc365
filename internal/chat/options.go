package chat

import (
	"errors"
	"log/slog"
	"time"
)

// ServerOption - customizes Server built by NewServer.
type ServerOption func(s *Server) error

// WithLogger - attach logger for server and broker records.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) error {
		if log == nil {
			return errors.New("chat.WithLogger: logger is nil")
		}
		s.log = log
		return nil
	}
}

// WithAcceptBackoff - overwrites delay limits between failed accepts.
func WithAcceptBackoff(lower, upper time.Duration) ServerOption {
	return func(s *Server) error {
		if lower <= 0 || upper < lower {
			return errors.New("chat.WithAcceptBackoff: invalid delay range")
		}
		s.minBackoff, s.maxBackoff = lower, upper
		return nil
	}
}

package chat

import (
	"errors"
	"log/slog"

	"github.com/wtask/chatrelay/internal/chat/broker"
)

// BrokerBuilder - helps to build custom broker.Broker sharing the server logger.
type BrokerBuilder func(log *slog.Logger) (*broker.Broker, error)

// DefaultBroker - returns builder of broker.Broker with given options applied over defaults.
func DefaultBroker(options ...broker.Option) BrokerBuilder {
	return func(log *slog.Logger) (*broker.Broker, error) {
		if log == nil {
			return nil, errors.New("chat.DefaultBroker: logger is required")
		}
		return broker.New(append([]broker.Option{broker.WithLogger(log)}, options...)...)
	}
}

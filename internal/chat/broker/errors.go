package broker

import "errors"

var (
	// ErrUnderStopCondition - returns in case if Broker is under stop condition
	// and will not accept any new connections. The rejected connection is closed by Broker.
	ErrUnderStopCondition = errors.New("broker.Broker: under stop condition")

	// ErrDuplicateIdentity - returns when identity is registered already.
	// It means the identity source is broken, registration is aborted.
	ErrDuplicateIdentity = errors.New("broker.Registry: identity is registered already")

	// ErrUnsubscribed - returns from Subscription.Next after the subscription was closed.
	ErrUnsubscribed = errors.New("broker.Subscription: unsubscribed")

	// ErrSlowConsumer - returns from Subscription.Next when subscription overflowed
	// under OverflowDisconnect policy.
	ErrSlowConsumer = errors.New("broker.Subscription: slow consumer")

	// ErrLineTooLong - returns from inbound loop when client line exceeds max line size.
	ErrLineTooLong = errors.New("broker.session: line too long")

	// ErrSessionPanic - wraps panic recovered in connection IO handler.
	ErrSessionPanic = errors.New("broker.session: panic")
)

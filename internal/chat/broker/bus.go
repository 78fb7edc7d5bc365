package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/wtask/chatrelay/internal/chat/queue"
)

// OverflowPolicy - describes what happens when subscriber queue is full.
type OverflowPolicy int

const (
	// OverflowDropOldest - the oldest queued event is dropped to make room for the new one.
	OverflowDropOldest OverflowPolicy = iota
	// OverflowDisconnect - subscription is closed with ErrSlowConsumer.
	OverflowDisconnect
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowDropOldest:
		return "drop-oldest"
	case OverflowDisconnect:
		return "disconnect"
	default:
		return fmt.Sprintf("OverflowPolicy(%d)", int(p))
	}
}

// ParseOverflowPolicy - converts policy name into OverflowPolicy.
func ParseOverflowPolicy(name string) (OverflowPolicy, error) {
	switch name {
	case "drop-oldest":
		return OverflowDropOldest, nil
	case "disconnect":
		return OverflowDisconnect, nil
	default:
		return 0, fmt.Errorf("broker.ParseOverflowPolicy: unknown policy %q", name)
	}
}

// Bus - multi-producer, multi-consumer stream of events.
// Every subscription has its own bounded queue, so Publish never waits for consumers.
type Bus struct {
	queueSize int
	policy    OverflowPolicy

	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// NewBus - builds bus with given per-subscriber queue size and overflow policy.
func NewBus(queueSize int, policy OverflowPolicy) (*Bus, error) {
	if queueSize <= 0 {
		return nil, fmt.Errorf("broker.NewBus: invalid queue size (%d)", queueSize)
	}
	if policy != OverflowDropOldest && policy != OverflowDisconnect {
		return nil, fmt.Errorf("broker.NewBus: invalid overflow policy (%v)", policy)
	}
	return &Bus{
		queueSize: queueSize,
		policy:    policy,
		subs:      make(map[*Subscription]struct{}),
	}, nil
}

// Len - returns number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish - appends event to the queue of every active subscription.
// Events of a single producer keep their order for every subscriber.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		sub.push(e, b.policy)
	}
}

// Subscribe - opens subscription receiving every event published after the call returns.
func (b *Bus) Subscribe(owner Identity) *Subscription {
	q, _ := queue.NewRing[Event](b.queueSize)
	ctx, cancel := context.WithCancelCause(context.Background())
	sub := &Subscription{
		owner:  owner,
		queue:  q,
		ready:  make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe - stops delivery to subscription, other subscriptions are not affected.
// It is safe to call it several times.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
	sub.close(ErrUnsubscribed)
}

// Subscription - receiving side of the Bus for a single consumer.
type Subscription struct {
	owner  Identity
	ready  chan struct{}
	ctx    context.Context
	cancel context.CancelCauseFunc

	mu      sync.Mutex
	queue   *queue.Ring[Event]
	err     error
	dropped uint64
}

// Owner - returns identity the subscription was opened for.
func (s *Subscription) Owner() Identity {
	return s.owner
}

// Context - returns context which is canceled when subscription is closed,
// context.Cause reports the closing error.
func (s *Subscription) Context() context.Context {
	return s.ctx
}

// Dropped - returns number of events dropped due to queue overflow.
func (s *Subscription) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Err - returns the reason subscription was closed, nil while it is active.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Next - waits for the next event.
// Returns ErrUnsubscribed or ErrSlowConsumer once subscription is closed, or ctx error.
func (s *Subscription) Next(ctx context.Context) (Event, error) {
	for {
		s.mu.Lock()
		if s.err != nil {
			err := s.err
			s.mu.Unlock()
			return Event{}, err
		}
		e, ok := s.queue.Pop()
		s.mu.Unlock()
		if ok {
			return e, nil
		}

		select {
		case <-s.ready:
		case <-s.ctx.Done():
		case <-ctx.Done():
			return Event{}, ctx.Err()
		}
	}
}

func (s *Subscription) push(e Event, policy OverflowPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	if policy == OverflowDisconnect && s.queue.Full() {
		s.closeLocked(ErrSlowConsumer)
		return
	}
	if s.queue.Push(e) {
		s.dropped++
	}
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

func (s *Subscription) close(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked(err)
}

func (s *Subscription) closeLocked(err error) {
	if s.err != nil {
		return
	}
	s.err = err
	s.queue.Reset()
	s.cancel(err)
}

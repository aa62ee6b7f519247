// Package logstream bridges synchronous log emission from arbitrary
// goroutines into any number of streaming consumers.
//
// Producers enqueue without ever blocking: a full queue drops the event. A
// single relay goroutine, alive for the process lifetime, drains the queue and
// fans each event out to the current subscribers. Delivery is best-effort,
// at-most-once, in emission order per producer, with no replay and no
// persistence; a slow subscriber loses events instead of slowing anyone else.
package logstream

import (
	"sync"
	"time"
)

// Event is one log record flowing through the stream. Created at emission,
// fanned out to live subscribers, then discarded.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
}

// subscriberBuffer is the per-subscriber channel depth. Events beyond it are
// dropped for that subscriber only.
const subscriberBuffer = 64

// Subscriber receives events published after it registered.
type Subscriber struct {
	ch chan Event
}

// Events returns the subscriber's receive channel. It is closed when the
// subscriber is removed or the stream shuts down.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Stream is the process-wide fan-out. Construct one in main and hand it to
// whatever needs to publish or subscribe; there is no package-level singleton.
type Stream struct {
	queue chan Event
	stop  chan struct{}

	mu     sync.Mutex
	subs   map[*Subscriber]struct{}
	closed bool
}

// New creates a Stream and starts its relay goroutine. buffer bounds the
// producer-side queue.
func New(buffer int) *Stream {
	if buffer < 1 {
		buffer = 1
	}
	s := &Stream{
		queue: make(chan Event, buffer),
		stop:  make(chan struct{}),
		subs:  make(map[*Subscriber]struct{}),
	}
	go s.relay()
	return s
}

// Publish enqueues an event without blocking. Safe to call from any goroutine;
// when the queue is full the event is silently dropped so logging can never
// stall application logic.
func (s *Stream) Publish(level, message, source string) {
	s.Emit(Event{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Source:    source,
	})
}

// Emit enqueues a prebuilt event without blocking.
func (s *Stream) Emit(ev Event) {
	select {
	case s.queue <- ev:
	default:
	}
}

// Subscribe registers a consumer. It receives every event published after
// this call; nothing is replayed.
func (s *Stream) Subscribe() *Subscriber {
	sub := &Subscriber{ch: make(chan Event, subscriberBuffer)}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(sub.ch)
		return sub
	}
	s.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe removes a consumer and closes its channel. Idempotent.
func (s *Stream) Unsubscribe(sub *Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub]; !ok {
		return
	}
	delete(s.subs, sub)
	close(sub.ch)
}

// Close stops the relay and closes all subscriber channels. Events still
// queued are discarded.
func (s *Stream) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for sub := range s.subs {
		delete(s.subs, sub)
		close(sub.ch)
	}
	s.mu.Unlock()
	close(s.stop)
}

// relay drains the queue for the life of the process and republishes each
// event to the current subscribers.
func (s *Stream) relay() {
	for {
		select {
		case ev := <-s.queue:
			s.fanOut(ev)
		case <-s.stop:
			return
		}
	}
}

// fanOut delivers to every subscriber, dropping per-subscriber when its
// buffer is full. One slow or gone consumer never affects the others.
func (s *Stream) fanOut(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

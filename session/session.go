// Package session manages connected clients: per-connection outbound
// queues, the generic broadcast hub, and dispatch of decoded wire messages
// to the matching engine.
package session

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// outboundBuffer bounds how many frames queue behind a slow reader before
// writes start dropping; a slow peer must never stall matching for other
// symbols.
const outboundBuffer = 256

// Session represents one connected client: an id, and a non-blocking
// outbound queue that decouples the matching engine and simulation
// broadcast from however fast the peer's socket drains, the same role a
// per-connection send buffer plays in a reference C client-connection
// struct.
type Session struct {
	ID uuid.UUID

	out    chan interface{}
	closed chan struct{}
	once   sync.Once
	log    *zap.Logger
}

// NewSession creates a session with a fresh id and an empty outbound
// queue.
func NewSession(log *zap.Logger) *Session {
	return &Session{
		ID:     uuid.New(),
		out:    make(chan interface{}, outboundBuffer),
		closed: make(chan struct{}),
		log:    log,
	}
}

// Send enqueues a message for delivery. If the outbound queue is full the
// message is dropped rather than blocking the caller: fire-and-forget
// broadcast semantics for a slow or disconnected peer.
func (s *Session) Send(msg interface{}) {
	select {
	case <-s.closed:
		return
	default:
	}
	select {
	case s.out <- msg:
	case <-s.closed:
	default:
		s.log.Warn("dropping message to slow session", zap.String("session", s.ID.String()))
	}
}

// Outbound returns the channel a connection's write goroutine should drain.
func (s *Session) Outbound() <-chan interface{} {
	return s.out
}

// Close marks the session closed; Send becomes a no-op afterward and any
// pending writer select on Outbound should exit via the closed signal it
// also observes (see transport.Listener).
func (s *Session) Close() {
	s.once.Do(func() { close(s.closed) })
}

// Done reports the session's closed signal, for a write-pump select.
func (s *Session) Done() <-chan struct{} {
	return s.closed
}

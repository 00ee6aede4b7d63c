package session

import "sync"

// Registry is the live session table for the TCP client protocol: every
// currently connected session, fanned out to on each market-data
// broadcast. Session set mutation (Register/Unregister) is serialized
// against Broadcast by the same gate.
type Registry struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}
}

// NewRegistry creates an empty session table.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[*Session]struct{})}
}

// Register adds sess to the table.
func (r *Registry) Register(sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess] = struct{}{}
}

// Unregister removes sess from the table.
func (r *Registry) Unregister(sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sess)
}

// Broadcast hands the same msg value to every currently registered
// session; it is not serialized here, each connection's write pump encodes
// it when it drains the session's queue. A slow or
// disconnected session never blocks the others — Session.Send is already
// non-blocking.
func (r *Registry) Broadcast(msg interface{}) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for sess := range r.sessions {
		sess.Send(msg)
	}
}

// Len reports the number of currently registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

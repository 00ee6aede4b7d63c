// Package transport owns the network surface: the raw TCP listener
// speaking the newline-JSON wire protocol, and the auxiliary HTTP
// dashboard feed. The line protocol follows the idiomatic Go shape for a
// socket server — net.Listen plus one goroutine per connection — rather
// than a manual non-blocking-socket-plus-poll loop.
package transport

import (
	"bufio"
	"context"
	"net"
	"sync"
	"sync/atomic"

	"limitless-exchange/metrics"
	"limitless-exchange/protocol"
	"limitless-exchange/session"

	"go.uber.org/zap"
)

// maxLineBytes bounds a single inbound frame, mirroring the source's fixed
// RECV_BUFFER_SIZE so one client can't exhaust memory with an unterminated
// line.
const maxLineBytes = 64 * 1024

// Handler decodes and dispatches one inbound line for sess.
type Handler interface {
	Handle(sess *session.Session, line []byte)
}

// Listener accepts TCP connections, enforces a maximum session count, and
// runs one read goroutine and one write goroutine per connection, the Go
// per-connection-goroutine analogue of a fixed-capacity client-slot
// rejection policy.
type Listener struct {
	addr        string
	handler     Handler
	registry    *session.Registry
	maxSessions int64
	log         *zap.Logger

	active int64
}

// NewListener creates a listener bound to addr, dispatching decoded lines
// to handler and rejecting new connections once maxSessions are active.
// Every accepted connection's session is registered with registry for the
// duration of the connection, so the simulation driver's market-data
// broadcast can reach it.
func NewListener(addr string, handler Handler, registry *session.Registry, maxSessions int64, log *zap.Logger) *Listener {
	return &Listener{addr: addr, handler: handler, registry: registry, maxSessions: maxSessions, log: log}
}

// Serve blocks accepting connections until ctx is cancelled or accept
// fails fatally. Each accepted connection is serviced on its own pair of
// goroutines.
func (l *Listener) Serve(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", l.addr)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	l.log.Info("tcp listener started", zap.String("addr", l.addr))
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				wg.Wait()
				return nil
			default:
				return err
			}
		}

		if atomic.AddInt64(&l.active, 1) > l.maxSessions {
			atomic.AddInt64(&l.active, -1)
			l.log.Warn("rejecting connection: session limit reached", zap.Int64("max_sessions", l.maxSessions))
			_ = conn.Close()
			continue
		}

		metrics.ActiveSessions.Inc()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer atomic.AddInt64(&l.active, -1)
			defer metrics.ActiveSessions.Dec()
			l.serveConn(ctx, conn)
		}()
	}
}

// ActiveSessions reports the current connection count, for metrics.
func (l *Listener) ActiveSessions() int64 {
	return atomic.LoadInt64(&l.active)
}

func (l *Listener) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	sess := session.NewSession(l.log)
	defer sess.Close()

	if l.registry != nil {
		l.registry.Register(sess)
		defer l.registry.Unregister(sess)
	}

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go l.writePump(connCtx, conn, sess)
	l.readPump(conn, sess)
}

func (l *Listener) readPump(conn net.Conn, sess *session.Session) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		l.handler.Handle(sess, cp)
	}
}

func (l *Listener) writePump(ctx context.Context, conn net.Conn, sess *session.Session) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sess.Done():
			return
		case msg := <-sess.Outbound():
			if err := protocol.Encode(conn, msg); err != nil {
				return
			}
		}
	}
}

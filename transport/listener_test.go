package transport

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"limitless-exchange/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	lines chan string
}

func (h *recordingHandler) Handle(sess *session.Session, line []byte) {
	h.lines <- string(line)
	sess.Send(map[string]string{"type": "ERROR", "message": "Order not found"})
}

func TestListenerAcceptsAndDispatchesLines(t *testing.T) {
	handler := &recordingHandler{lines: make(chan string, 4)}
	l := NewListener("127.0.0.1:0", handler, nil, 10, zap.NewNop())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	l.addr = addr

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Serve(ctx) }()
	time.Sleep(20 * time.Millisecond)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(`{"type":"ORDER_CANCEL","ticker":"AAPL","order_id":1}` + "\n"))
	require.NoError(t, err)

	select {
	case line := <-handler.lines:
		assert.Contains(t, line, "ORDER_CANCEL")
	case <-time.After(time.Second):
		t.Fatal("handler never received the line")
	}

	reader := bufio.NewReader(conn)
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	resp, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, resp, "Order not found")
}

func TestListenerRejectsBeyondMaxSessions(t *testing.T) {
	handler := &recordingHandler{lines: make(chan string, 4)}
	l := NewListener("127.0.0.1:0", handler, nil, 1, zap.NewNop())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	l.addr = addr

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Serve(ctx) }()
	time.Sleep(20 * time.Millisecond)

	first, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer first.Close()
	time.Sleep(20 * time.Millisecond)

	second, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer second.Close()

	buf := make([]byte, 1)
	_ = second.SetReadDeadline(time.Now().Add(time.Second))
	_, err = second.Read(buf)
	assert.Error(t, err, "the second connection should be closed immediately by the server")
}

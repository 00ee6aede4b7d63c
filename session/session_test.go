package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSessionSendAndOutbound(t *testing.T) {
	sess := NewSession(zap.NewNop())
	sess.Send("hello")
	assert.Equal(t, "hello", <-sess.Outbound())
}

func TestSessionSendDoesNotBlockWhenFull(t *testing.T) {
	sess := NewSession(zap.NewNop())
	for i := 0; i < outboundBuffer+10; i++ {
		sess.Send(i) // must never block even once the queue is full
	}
	assert.Len(t, sess.out, outboundBuffer)
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	sess := NewSession(zap.NewNop())
	sess.Close()
	sess.Close()

	select {
	case <-sess.Done():
	default:
		t.Fatal("expected Done to be closed")
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	a := NewSession(zap.NewNop())
	b := NewSession(zap.NewNop())
	assert.NotEqual(t, a.ID, b.ID)
}

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRegistryBroadcastReachesEveryRegisteredSession(t *testing.T) {
	reg := NewRegistry()
	a := NewSession(zap.NewNop())
	b := NewSession(zap.NewNop())
	reg.Register(a)
	reg.Register(b)

	reg.Broadcast("tick")

	assert.Equal(t, "tick", <-a.Outbound())
	assert.Equal(t, "tick", <-b.Outbound())
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryUnregisterStopsDelivery(t *testing.T) {
	reg := NewRegistry()
	sess := NewSession(zap.NewNop())
	reg.Register(sess)
	reg.Unregister(sess)

	reg.Broadcast("tick")

	select {
	case <-sess.Outbound():
		t.Fatal("expected no delivery after unregister")
	default:
	}
	assert.Equal(t, 0, reg.Len())
}

func TestRegistryBroadcastSkipsSlowSessionRatherThanBlocking(t *testing.T) {
	reg := NewRegistry()
	slow := NewSession(zap.NewNop())
	fast := NewSession(zap.NewNop())
	reg.Register(slow)
	reg.Register(fast)

	for i := 0; i < outboundBuffer+5; i++ {
		reg.Broadcast(i) // slow's queue fills and starts dropping; must not block fast
	}

	assert.Equal(t, 0, <-fast.Outbound())
}

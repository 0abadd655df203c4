package relay

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

type fakePeer struct {
	id     string
	fail   bool
	closed bool

	mu    sync.Mutex
	sends [][]byte
}

func (p *fakePeer) ID() string { return p.id }

func (p *fakePeer) Send(_ context.Context, data []byte) error {
	if p.fail {
		return errors.New("broken pipe")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sends = append(p.sends, data)
	return nil
}

func (p *fakePeer) Close(context.Context) error {
	p.closed = true
	return nil
}

func (p *fakePeer) received() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sends
}

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestRegistryRegisterIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	p := &fakePeer{id: "a"}

	reg.Register(p)
	reg.Register(p)

	if got := reg.Count(); got != 1 {
		t.Fatalf("count after double register: %d", got)
	}
}

func TestRegistryUnregisterAbsentIsNoop(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakePeer{id: "a"})

	reg.Unregister(&fakePeer{id: "ghost"})

	if got := reg.Count(); got != 1 {
		t.Fatalf("count after unregistering absent peer: %d", got)
	}
}

func TestBroadcastZeroPeers(t *testing.T) {
	r := New(NewRegistry(), testLogger())

	if delivered := r.Broadcast(context.Background(), map[string]string{"type": "incoming"}); delivered != 0 {
		t.Fatalf("expected zero deliveries, got %d", delivered)
	}
}

func TestBroadcastDeliversSameBytesToAll(t *testing.T) {
	reg := NewRegistry()
	a := &fakePeer{id: "a"}
	b := &fakePeer{id: "b"}
	reg.Register(a)
	reg.Register(b)

	r := New(reg, testLogger())
	if delivered := r.Broadcast(context.Background(), map[string]string{"type": "incoming", "body": "hi"}); delivered != 2 {
		t.Fatalf("expected 2 deliveries, got %d", delivered)
	}

	aGot, bGot := a.received(), b.received()
	if len(aGot) != 1 || len(bGot) != 1 {
		t.Fatalf("expected one frame each, got %d and %d", len(aGot), len(bGot))
	}
	if string(aGot[0]) != string(bGot[0]) {
		t.Fatalf("peers received different serializations: %s vs %s", aGot[0], bGot[0])
	}
}

func TestBroadcastDropsFailingPeerAndContinues(t *testing.T) {
	reg := NewRegistry()
	good := &fakePeer{id: "good"}
	bad := &fakePeer{id: "bad", fail: true}
	other := &fakePeer{id: "other"}
	reg.Register(good)
	reg.Register(bad)
	reg.Register(other)

	r := New(reg, testLogger())
	if delivered := r.Broadcast(context.Background(), map[string]string{"type": "incoming"}); delivered != 2 {
		t.Fatalf("expected 2 deliveries, got %d", delivered)
	}

	if got := reg.Count(); got != 2 {
		t.Fatalf("failing peer not removed, count %d", got)
	}
	if len(good.received()) != 1 || len(other.received()) != 1 {
		t.Fatal("surviving peers did not receive the event")
	}
}

func TestRegistryCloseTearsDownAllPeers(t *testing.T) {
	reg := NewRegistry()
	a := &fakePeer{id: "a"}
	b := &fakePeer{id: "b"}
	reg.Register(a)
	reg.Register(b)

	reg.Close(context.Background())

	if got := reg.Count(); got != 0 {
		t.Fatalf("count after close: %d", got)
	}
	if !a.closed || !b.closed {
		t.Fatal("peers not closed")
	}
}

package cyw43439

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPollerStopWaitsForExit(t *testing.T) {
	p := poller{idle: time.Millisecond}
	var calls, inflight, overlaps atomic.Int32
	service := func() bool {
		if inflight.Add(1) > 1 {
			overlaps.Add(1)
		}
		calls.Add(1)
		time.Sleep(100 * time.Microsecond)
		inflight.Add(-1)
		return false
	}
	for i := 0; i < 20; i++ {
		if !p.start(service) {
			t.Fatalf("round %d: start refused", i)
		}
		time.Sleep(2 * time.Millisecond)
		if !p.stop() {
			t.Fatalf("round %d: stop found nothing running", i)
		}
		after := calls.Load()
		time.Sleep(3 * time.Millisecond)
		if got := calls.Load(); got != after {
			t.Fatalf("round %d: service ran %d times after stop", i, got-after)
		}
	}
	if n := overlaps.Load(); n != 0 {
		t.Errorf("%d overlapping service calls", n)
	}
}

func TestPollerStartStopTwice(t *testing.T) {
	p := poller{idle: time.Millisecond}
	if p.stop() {
		t.Error("stop before start reported a running loop")
	}
	busy := func() bool { return false }
	if !p.start(busy) {
		t.Fatal("first start refused")
	}
	if p.start(busy) {
		t.Error("second start launched another loop")
	}
	if !p.active() {
		t.Error("not active after start")
	}
	if !p.stop() {
		t.Fatal("stop refused")
	}
	if p.stop() || p.active() {
		t.Error("still running after stop")
	}
}

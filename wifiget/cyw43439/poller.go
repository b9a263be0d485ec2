package cyw43439

import (
	"sync/atomic"
	"time"
)

// poller services the link from one goroutine at a time. start and stop are
// called from the main goroutine; stop returns only after the goroutine has
// exited, and start waits for any previous run to finish first.
type poller struct {
	idle    time.Duration
	running atomic.Bool
	done    chan struct{}
}

// start launches service in a loop, sleeping idle whenever it reports no
// work. It returns false if a loop is already running.
func (p *poller) start(service func() (busy bool)) bool {
	if p.running.Load() {
		return false
	}
	p.wait()
	done := make(chan struct{})
	p.done = done
	p.running.Store(true)
	go func() {
		defer close(done)
		for p.running.Load() {
			if !service() {
				time.Sleep(p.idle)
			}
		}
	}()
	return true
}

// stop ends the loop and waits for it. It returns false if nothing was
// running.
func (p *poller) stop() bool {
	if !p.running.Swap(false) {
		return false
	}
	p.wait()
	return true
}

func (p *poller) active() bool { return p.running.Load() }

func (p *poller) wait() {
	if p.done != nil {
		<-p.done
		p.done = nil
	}
}

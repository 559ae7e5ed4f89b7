package anim

import (
	"sync"
	"time"
)

// Loop calls a frame function at a fixed rate on its own goroutine.
type Loop struct {
	interval time.Duration
	frame    func(delta float64)
	now      func() time.Time

	mu     sync.Mutex
	cancel chan struct{}
	done   chan struct{}
}

func NewLoop(fps int, frame func(delta float64)) *Loop {
	if fps <= 0 {
		fps = 60
	}
	return &Loop{
		interval: time.Second / time.Duration(fps),
		frame:    frame,
		now:      time.Now,
	}
}

// Start begins scheduling frames. It returns false if the loop is already running.
func (l *Loop) Start() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return false
	}
	l.cancel = make(chan struct{})
	l.done = make(chan struct{})
	go l.run(l.cancel, l.done)
	return true
}

// Stop cancels the next frame. It does not wait, so it is safe to call from a frame.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		close(l.cancel)
		l.cancel = nil
	}
}

func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

// Wait blocks until the goroutine of the last Start has exited.
func (l *Loop) Wait() {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (l *Loop) run(cancel, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	last := l.now()
	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
		}
		select {
		case <-cancel:
			return
		default:
		}
		now := l.now()
		delta := now.Sub(last).Seconds()
		last = now
		l.frame(delta)
	}
}

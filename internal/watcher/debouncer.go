package watcher

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of activity into a single signal emitted
// after the window passes without further bumps.
type debouncer struct {
	C chan struct{}

	window  time.Duration
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		C:      make(chan struct{}, 1),
		window: window,
	}
}

// bump restarts the quiet-period timer.
func (d *debouncer) bump() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *debouncer) fire() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	// Non-blocking send; a pending signal already covers this burst.
	select {
	case d.C <- struct{}{}:
	default:
	}
}

// stop prevents any further signals. Safe to call multiple times.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

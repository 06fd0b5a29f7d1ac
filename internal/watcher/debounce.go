package watcher

import (
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Batch is one debounced set of file changes, paths sorted
type Batch struct {
	Changed []string
	Removed []string
}

// Empty reports whether the batch carries no changes
func (b Batch) Empty() bool {
	return len(b.Changed) == 0 && len(b.Removed) == 0
}

// Debouncer coalesces bursts of events per path and emits them as one batch
// once no event arrived for the interval
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]fsnotify.Op
	interval time.Duration
	timer    *time.Timer
	flush    func(Batch)
}

// NewDebouncer creates a debouncer delivering batches to flush
func NewDebouncer(interval time.Duration, flush func(Batch)) *Debouncer {
	return &Debouncer{
		pending:  make(map[string]fsnotify.Op),
		interval: interval,
		flush:    flush,
	}
}

// Add records an event and re-arms the timer
func (d *Debouncer) Add(path string, op fsnotify.Op) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] |= op
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

// Stop cancels a pending flush
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = make(map[string]fsnotify.Op)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	batch := classify(d.pending)
	d.pending = make(map[string]fsnotify.Op)
	d.mu.Unlock()

	if !batch.Empty() {
		d.flush(batch)
	}
}

// classify splits accumulated ops. A path that was removed or renamed away
// and not recreated counts as removed.
func classify(pending map[string]fsnotify.Op) Batch {
	var b Batch
	for path, op := range pending {
		switch {
		case op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename):
			if op.Has(fsnotify.Create) {
				b.Changed = append(b.Changed, path)
			} else {
				b.Removed = append(b.Removed, path)
			}
		case op.Has(fsnotify.Write) || op.Has(fsnotify.Create):
			b.Changed = append(b.Changed, path)
		}
	}
	sort.Strings(b.Changed)
	sort.Strings(b.Removed)
	return b
}

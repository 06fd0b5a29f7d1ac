package watcher

import (
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	b := classify(map[string]fsnotify.Op{
		"b.cfm":     fsnotify.Write,
		"a.cfm":     fsnotify.Create | fsnotify.Write,
		"gone.cfm":  fsnotify.Remove,
		"moved.cfm": fsnotify.Rename,
		"swap.cfm":  fsnotify.Remove | fsnotify.Create,
		"attr.cfm":  fsnotify.Chmod,
	})

	assert.Equal(t, []string{"a.cfm", "b.cfm", "swap.cfm"}, b.Changed)
	assert.Equal(t, []string{"gone.cfm", "moved.cfm"}, b.Removed)
	assert.True(t, classify(map[string]fsnotify.Op{"x": fsnotify.Chmod}).Empty())
}

type collector struct {
	mu      sync.Mutex
	batches []Batch
}

func (c *collector) flush(b Batch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, b)
}

func (c *collector) get() []Batch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Batch(nil), c.batches...)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	c := &collector{}
	d := NewDebouncer(20*time.Millisecond, c.flush)

	d.Add("a.cfm", fsnotify.Write)
	d.Add("a.cfm", fsnotify.Write)
	d.Add("b.cfm", fsnotify.Create)
	d.Add("c.cfm", fsnotify.Remove)

	require.Eventually(t, func() bool { return len(c.get()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, Batch{Changed: []string{"a.cfm", "b.cfm"}, Removed: []string{"c.cfm"}}, c.get()[0])

	// nothing else arrives
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, c.get(), 1)
}

func TestDebouncer_Stop(t *testing.T) {
	c := &collector{}
	d := NewDebouncer(20*time.Millisecond, c.flush)

	d.Add("a.cfm", fsnotify.Write)
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, c.get())
}

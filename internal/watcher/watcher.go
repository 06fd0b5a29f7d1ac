package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/jarredhawkins/cfmatch/internal/index"
)

// ChangeHandler receives one debounced batch of changed and removed paths
type ChangeHandler func(changed, removed []string)

// Options configures a Watcher
type Options struct {
	// DebounceMs batches bursts of events; zero selects 100ms
	DebounceMs int
	// Filter selects the files whose changes are reported; nil selects
	// CFML templates
	Filter func(path string) bool
	Logger *zap.Logger
}

// Watcher reports file changes below a workspace root. Directories are
// watched recursively, skipping those index.SkipDir rejects.
type Watcher struct {
	fsw       *fsnotify.Watcher
	root      string
	handler   ChangeHandler
	filter    func(path string) bool
	debouncer *Debouncer
	logger    *zap.Logger
	done      chan struct{}
}

// New creates a watcher for root. Nothing is watched until Start.
func New(root string, handler ChangeHandler, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if opts.DebounceMs <= 0 {
		opts.DebounceMs = 100
	}
	if opts.Filter == nil {
		opts.Filter = index.IsTemplate
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	w := &Watcher{
		fsw:     fsw,
		root:    root,
		handler: handler,
		filter:  opts.Filter,
		logger:  opts.Logger,
		done:    make(chan struct{}),
	}
	w.debouncer = NewDebouncer(time.Duration(opts.DebounceMs)*time.Millisecond, w.dispatch)
	return w, nil
}

// Start watches the tree and begins delivering batches
func (w *Watcher) Start() error {
	dirs, err := w.watchTree(w.root, false)
	if err != nil {
		return err
	}
	go w.run()

	w.logger.Info("file watcher started", zap.String("root", w.root), zap.Int("dirs", dirs))
	return nil
}

// watchTree adds dir and its subdirectories. With queueFiles, files already
// present are reported as created: they may have been written before the
// directory was watched.
func (w *Watcher) watchTree(dir string, queueFiles bool) (int, error) {
	dirs := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			if queueFiles && w.filter(path) {
				w.debouncer.Add(path, fsnotify.Create)
			}
			return nil
		}
		if path != dir && index.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("failed to watch", zap.String("path", path), zap.Error(err))
			return nil
		}
		dirs++
		return nil
	})
	return dirs, err
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.route(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// route sends file events through the filter to the debouncer and starts
// watching directories that appear
func (w *Watcher) route(event fsnotify.Event) {
	if event.Has(fsnotify.Create) && w.isDir(event.Name) {
		if index.SkipDir(filepath.Base(event.Name)) {
			return
		}
		if _, err := w.watchTree(event.Name, true); err != nil {
			w.logger.Warn("failed to watch new directory", zap.String("path", event.Name), zap.Error(err))
		}
		return
	}
	if w.filter(event.Name) {
		w.debouncer.Add(event.Name, event.Op)
	}
}

func (w *Watcher) isDir(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.IsDir()
}

func (w *Watcher) dispatch(b Batch) {
	w.logger.Debug("file changes", zap.Int("changed", len(b.Changed)), zap.Int("removed", len(b.Removed)))
	w.handler(b.Changed, b.Removed)
}

// Close stops delivery and releases the fsnotify watcher. Pending changes
// are dropped.
func (w *Watcher) Close() error {
	close(w.done)
	w.debouncer.Stop()
	return w.fsw.Close()
}

package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// DefaultSkipDirs are directory names never watched.
var DefaultSkipDirs = []string{"node_modules", ".git", "dist", "build", ".next", ".codeslice"}

// Options configures a Watcher.
type Options struct {
	Extensions []string      // e.g. []string{".ts", ".tsx"}; empty watches every file
	Names      []string      // base names reported whatever their extension, e.g. "tsconfig.json"
	Debounce   time.Duration // zero uses DefaultDebounce
	SkipDirs   []string      // nil uses DefaultSkipDirs
	Logger     *log.Logger
}

// Watcher reports batches of changed source files under a project root.
// Rapid changes are coalesced; the callback runs on the watcher goroutine,
// one batch at a time.
type Watcher struct {
	fsw        *fsnotify.Watcher
	root       string
	extensions map[string]bool
	names      map[string]bool
	skip       map[string]bool
	debounce   time.Duration
	logger     *log.Logger

	callback func(files []string)
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
}

// New creates a watcher over root and every directory below it.
func New(root string, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	skipDirs := opts.SkipDirs
	if skipDirs == nil {
		skipDirs = DefaultSkipDirs
	}

	w := &Watcher{
		fsw:        fsw,
		root:       root,
		extensions: make(map[string]bool, len(opts.Extensions)),
		names:      make(map[string]bool, len(opts.Names)),
		skip:       make(map[string]bool, len(skipDirs)),
		debounce:   debounce,
		logger:     logger,
		pending:    make(map[string]bool),
		done:       make(chan struct{}),
	}
	for _, ext := range opts.Extensions {
		w.extensions[ext] = true
	}
	for _, n := range opts.Names {
		w.names[n] = true
	}
	for _, d := range skipDirs {
		w.skip[d] = true
	}

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Start begins delivering batches to callback until ctx is cancelled or
// Stop is called.
func (w *Watcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}
	w.callback = callback

	var loopCtx context.Context
	loopCtx, w.cancel = context.WithCancel(ctx)

	go w.loop(loopCtx)
	return nil
}

// Stop ends the watch loop and releases the fsnotify handle. Safe to call
// more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.done
		} else {
			close(w.done)
		}
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
					}
					continue
				}
			}

			if !w.relevant(event) {
				continue
			}

			w.mu.Lock()
			w.pending[event.Name] = true
			w.mu.Unlock()
			w.resetTimer(fire)

		case <-fire:
			w.flush()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Printf("Warning: file watcher error: %v", err)
		}
	}
}

// flush hands the pending batch, sorted, to the callback.
func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	files := make([]string, 0, len(w.pending))
	for f := range w.pending {
		files = append(files, f)
	}
	clear(w.pending)
	w.mu.Unlock()

	slices.Sort(files)
	if w.callback != nil {
		w.callback(files)
	}
}

func (w *Watcher) resetTimer(fire chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// relevant keeps writes, creates, removes and renames of watched extensions
// and names.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if len(w.extensions) == 0 || w.names[filepath.Base(event.Name)] {
		return true
	}
	return w.extensions[filepath.Ext(event.Name)]
}

// addTree watches dir and its subdirectories, skipping ignored names.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			w.logger.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.skip[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}

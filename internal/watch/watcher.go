package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type Event struct {
	Path string
	Time time.Time
}

type Options struct {
	File     string        // file to watch
	Debounce time.Duration // collapse bursts of writes within this window
}

// Watcher reports changes to a single file. The parent directory is watched
// so that editors which save by rename are still seen.
type Watcher struct {
	opts Options
	dir  string
	base string

	mu      sync.Mutex
	w       *fsnotify.Watcher
	cancel  context.CancelFunc
	started bool
	closed  bool
}

// New creates a new Watcher for the given options.
func New(opts Options) (*Watcher, error) {
	if opts.File == "" {
		return nil, errors.New("watch file is empty")
	}
	abs, err := filepath.Abs(opts.File)
	if err != nil {
		return nil, fmt.Errorf("resolve watch file: %w", err)
	}
	opts.File = abs
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	return &Watcher{
		opts: opts,
		dir:  filepath.Dir(abs),
		base: filepath.Base(abs),
	}, nil
}

// Start begins watching and returns a channel of change events.
// Cancel the provided context to stop the watcher.
func (w *Watcher) Start(ctx context.Context) (<-chan Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return nil, errors.New("watcher already started")
	}
	if w.closed {
		return nil, errors.New("watcher closed")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("add watch: %w", err)
	}

	w.w = fsw
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.started = true

	out := make(chan Event, 8)
	go w.run(ctx, out)
	return out, nil
}

func (w *Watcher) run(ctx context.Context, out chan<- Event) {
	defer func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		_ = w.w.Close()
		close(out)
		w.closed = true
	}()

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)

	emit := func() {
		// removed or replaced by a directory: nothing to reload
		info, err := os.Stat(w.opts.File)
		if err != nil || !info.Mode().IsRegular() {
			return
		}
		select {
		case out <- Event{Path: w.opts.File, Time: time.Now()}:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.base {
				continue
			}
			if !(ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Rename)) {
				continue
			}
			if w.opts.Debounce == 0 {
				emit()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C

		case _, ok := <-w.w.Errors:
			if !ok {
				return
			}

		case <-timerC:
			timerC = nil
			emit()
		}
	}
}

// Close stops the watcher if running.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
}

package watch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cjeanneret/BoothGo/internal/debug"
)

// Watcher reports photos created in a directory.
type Watcher struct {
	inner       *fsnotify.Watcher
	exts        map[string]struct{}
	settleDelay time.Duration

	// out
	photos chan string
	done   chan struct{}

	quit      chan struct{}
	closeOnce sync.Once
	pending   sync.WaitGroup
}

// photoBuffer is how many settled photos may wait for the consumer.
const photoBuffer = 16

// New starts watching dir. Only files whose extension is in extensions
// (case-insensitive, with leading dot) are reported, settle after creation.
func New(dir string, extensions []string, settle time.Duration) (*Watcher, error) {
	inner, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := inner.Add(dir); err != nil {
		inner.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	w := &Watcher{
		inner:       inner,
		exts:        exts,
		settleDelay: settle,
		photos:      make(chan string, photoBuffer),
		done:        make(chan struct{}),
		quit:        make(chan struct{}),
	}

	debug.Info("Watching %s for new photos (%s)", dir, strings.Join(extensions, ", "))
	go w.run()
	return w, nil
}

// Photos returns the channel of new photo paths.
// It is closed when the watcher stops.
func (w *Watcher) Photos() <-chan string {
	return w.photos
}

// Close stops the watcher and waits for it to exit.
// Photos still settling are dropped.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.quit)
		err = w.inner.Close()
	})
	<-w.done
	return err
}

func (w *Watcher) accepts(path string) bool {
	_, ok := w.exts[strings.ToLower(filepath.Ext(path))]
	return ok
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.photos)
	defer w.pending.Wait()

	for {
		select {
		case event, ok := <-w.inner.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.accepts(event.Name) {
				debug.Trace("Watch: ignoring %s", event.Name)
				continue
			}
			debug.Live("Watch: new photo %s", event.Name)
			w.pending.Add(1)
			go w.settle(event.Name)

		case err, ok := <-w.inner.Errors:
			if !ok {
				return
			}
			debug.Error(fmt.Errorf("watch: %w", err))
		}
	}
}

// settle waits for the writer to finish the file, then reports it.
func (w *Watcher) settle(path string) {
	defer w.pending.Done()

	t := time.NewTimer(w.settleDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-w.quit:
		return
	}

	select {
	case w.photos <- path:
	case <-w.quit:
	}
}

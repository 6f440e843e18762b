package storage

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports keys of a LocalStorage directory that were changed by
// another process, such as a second CLI invocation or the bridge.
type Watcher struct {
	dir      string
	debounce time.Duration
	fsw      *fsnotify.Watcher
	logger   *zap.Logger

	pendingMu sync.Mutex
	pending   map[string]struct{}
}

// NewWatcher starts watching dir. A zero debounce means 100ms.
func NewWatcher(dir string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		fsw:      fsw,
		logger:   logger,
		pending:  make(map[string]struct{}),
	}, nil
}

// Run blocks until ctx is done, calling onChange with the sorted keys that
// changed during each debounce window.
func (w *Watcher) Run(ctx context.Context, onChange func(keys []string)) error {
	defer w.fsw.Close() //nolint:errcheck

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("store watcher error", zap.Error(err))

		case <-ticker.C:
			if keys := w.flush(); len(keys) > 0 {
				onChange(keys)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	base := filepath.Base(event.Name)
	// temp files from Set start with a dot
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, ".json") {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	key := strings.TrimSuffix(base, ".json")
	w.pendingMu.Lock()
	w.pending[key] = struct{}{}
	w.pendingMu.Unlock()
	w.logger.Debug("store key changed", zap.String("key", key), zap.String("op", event.Op.String()))
}

func (w *Watcher) flush() []string {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	keys := make([]string, 0, len(w.pending))
	for key := range w.pending {
		keys = append(keys, key)
	}
	w.pending = make(map[string]struct{})
	sort.Strings(keys)
	return keys
}

package content

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch starts an fsnotify watcher on the content directory and reloads
// changed section files until ctx is cancelled. Editors commonly emit
// bursts of events per save, so reloads are debounced per section.
func Watch(ctx context.Context, store *Store, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(store.dir); err != nil {
		return err
	}

	logger.Info("content watcher: started", slog.String("dir", store.dir))

	pending := make(map[string]struct{})
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	schedule := func(name string) {
		pending[name] = struct{}{}
		if flushTimer == nil {
			flushTimer = time.NewTimer(200 * time.Millisecond)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("content watcher: stopped")
			return nil

		case <-flushCh:
			for name := range pending {
				delete(pending, name)
				if err := store.Reload(name); err != nil {
					logger.Warn("content watcher: reload failed, keeping previous copy",
						slog.String("section", name),
						slog.String("error", err.Error()))
					continue
				}
				logger.Debug("content watcher: reloaded", slog.String("section", name))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			base := filepath.Base(ev.Name)
			if !strings.HasSuffix(base, ".yaml") {
				continue
			}
			name := strings.TrimSuffix(base, ".yaml")
			if !knownSection(name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				schedule(name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("content watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

package gallery

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/storage"
)

// EventCallback is called after a watcher-driven index change.
// kind is "added" or "removed".
type EventCallback func(kind, name string)

// Watch starts an fsnotify watcher on the wallpaper directory and keeps the
// index synchronized until ctx is cancelled. It calls cb (if non-nil) after
// each successful index mutation.
//
// Rename events fire on the old path only; the new path arrives as a
// separate Create event, so a short debounced reconciliation pass catches
// anything the two individual events missed.
func Watch(ctx context.Context, db Index, files storage.Provider, dir string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("gallery watcher: started", slog.String("dir", dir))

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("gallery watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(db, files, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			name := filepath.Base(ev.Name)
			if !isImageName(name) {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := files.Read(name)
				if readErr != nil {
					// Partially written or already gone again; the
					// reconcile pass will settle it.
					scheduleReconcile()
					continue
				}
				if upErr := db.Upsert(models.WallpaperInfo{
					Name:      name,
					Checksum:  checksum(data),
					Size:      int64(len(data)),
					UpdatedAt: time.Now(),
				}); upErr != nil {
					logger.Warn("gallery watcher: upsert failed",
						slog.String("name", name), slog.String("error", upErr.Error()))
					continue
				}
				logger.Debug("gallery watcher: indexed", slog.String("name", name))
				if cb != nil {
					cb("added", name)
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				if delErr := db.Remove(name); delErr != nil {
					logger.Warn("gallery watcher: remove failed",
						slog.String("name", name), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("gallery watcher: removed", slog.String("name", name))
				if cb != nil {
					cb("removed", name)
				}
				if ev.Op&fsnotify.Rename != 0 {
					scheduleReconcile()
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("gallery watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcile runs a full Sync pass and reports every resulting change
// through cb by diffing checksums before and after.
func reconcile(db Index, files storage.Provider, logger *slog.Logger, cb EventCallback) {
	before, err := db.AllChecksums()
	if err != nil {
		logger.Warn("gallery reconcile: checksums failed", slog.String("error", err.Error()))
		return
	}
	if err := Sync(db, files, logger); err != nil {
		logger.Warn("gallery reconcile: sync failed", slog.String("error", err.Error()))
		return
	}
	if cb == nil {
		return
	}
	after, err := db.AllChecksums()
	if err != nil {
		return
	}
	for name := range after {
		if _, ok := before[name]; !ok {
			cb("added", name)
		}
	}
	for name := range before {
		if _, ok := after[name]; !ok {
			cb("removed", name)
		}
	}
}

func isImageName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range imageExts {
		if ext == e {
			return true
		}
	}
	return false
}

package workspace

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"forge/internal/logging"
)

// Watch monitors the workspace root for file changes and invokes onChange
// with the batch of changed paths once events settle for debounce.
// Watch blocks until ctx is cancelled. Watches the whole workspace tree
// (minus DenyDirs) so callers such as the embedding indexer can rebuild
// their own derived state as files change.
func (w *Workspace) Watch(ctx context.Context, debounce time.Duration, onChange func(changed []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := w.addWatchDirs(watcher); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		pending []string
	)
	flush := func() {
		batch := pending
		pending = nil
		if len(batch) > 0 {
			onChange(batch)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			pending = append(pending, event.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, flush)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.WorkspaceDebug("watch: fsnotify error: %v", err)
		}
	}
}

// addWatchDirs registers every non-denied directory under the workspace
// root; fsnotify watches are not recursive, so each directory needs its
// own Add call.
func (w *Workspace) addWatchDirs(watcher *fsnotify.Watcher) error {
	return filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if DenyDirs[info.Name()] {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

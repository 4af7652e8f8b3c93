package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
)

// DefaultReloadDebounce batches bursts of writes to the settings file.
const DefaultReloadDebounce = 250 * time.Millisecond

// Logger defines the logging interface used by the settings watcher.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
}

// SettingsWatcher reloads a settings file whenever it changes on disk.
// Invalid revisions are logged and skipped; the previous settings stay in use.
type SettingsWatcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   Logger
}

// NewSettingsWatcher starts watching the directory holding path. Watching the
// directory keeps the watch alive across editors that save by renaming.
func NewSettingsWatcher(path string, debounce time.Duration, log Logger) (*SettingsWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve settings path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &SettingsWatcher{
		path:     abs,
		debounce: debounce,
		watcher:  watcher,
		logger:   log,
	}, nil
}

// Run delivers every valid revision of the settings file to onChange until
// ctx is done or the watcher is closed.
func (w *SettingsWatcher) Run(ctx context.Context, onChange func(domain.LanguageSettings)) error {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if shouldReload(event, w.path) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "settings watch error", map[string]interface{}{
				"path":  w.path,
				"error": err.Error(),
			})
		case <-timer.C:
			settings, err := LoadSettingsFile(w.path)
			if err != nil {
				w.logger.Warn(ctx, "ignoring invalid settings revision", map[string]interface{}{
					"path":  w.path,
					"error": err.Error(),
				})
				continue
			}
			w.logger.Info(ctx, "reloaded language settings", map[string]interface{}{
				"path":             w.path,
				"default_language": settings.DefaultLanguage,
			})
			onChange(settings)
		}
	}
}

// Close stops watching.
func (w *SettingsWatcher) Close() error {
	return w.watcher.Close()
}

func shouldReload(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

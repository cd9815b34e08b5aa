package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// watcher calls back when one of a fixed set of files changes. Bursts of
// events are collapsed by the debounce and callbacks are spaced at least
// minInterval apart.
type watcher struct {
	debounce    time.Duration
	minInterval time.Duration
	logger      *zap.Logger
}

func (w *watcher) watch(ctx context.Context, paths []string, onChange func(ctx context.Context, name string)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	// editors often replace files, so the parent directories are watched
	targets := make(map[string]bool, len(paths))
	watchedDirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = true

		dir := filepath.Dir(abs)
		if watchedDirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watchedDirs[dir] = true
	}

	limiter := rate.NewLimiter(rate.Every(w.minInterval), 1)
	fire := make(chan string, 1)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !targets[abs] {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- name:
				default:
				}
			})

		case name := <-fire:
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			onChange(ctx, name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log().Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *watcher) log() *zap.Logger {
	if w.logger == nil {
		return zap.NewNop()
	}
	return w.logger
}

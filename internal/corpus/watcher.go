package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/logfields"
)

// Watcher monitors corpus directories and triggers a reindex after changes
// settle. Rapid bursts of events collapse into a single reindex.
type Watcher struct {
	corpus       *Corpus
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
}

// NewWatcher creates a watcher over the corpus's local directories.
func NewWatcher(c *Corpus) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	return &Watcher{
		corpus:       c,
		watcher:      fsw,
		debounceTime: 2 * time.Second,
	}, nil
}

// Start registers all corpus directories (recursively) and begins watching.
// It returns after spawning the watch goroutine; cancel ctx to stop.
func (w *Watcher) Start(ctx context.Context) error {
	for _, dir := range w.corpus.Directories() {
		if err := w.addRecursive(dir); err != nil {
			return err
		}
	}
	slog.Info("Starting corpus watcher", logfields.Count(len(w.watcher.WatchList())))
	go w.watchLoop(ctx)
	return nil
}

// Close stops the underlying file system watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) watchLoop(ctx context.Context) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Corpus change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			// New subdirectories need to be watched too.
			if event.Op&fsnotify.Create != 0 {
				_ = w.addRecursive(event.Name)
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounceTime, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Corpus watcher error", logfields.Error(err))
		case <-fire:
			if err := w.corpus.Reindex(ctx); err != nil {
				slog.Error("Reindex after change failed", logfields.Error(err))
			}
		}
	}
}

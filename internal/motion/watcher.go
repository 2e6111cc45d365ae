package motion

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const settleDelay = 75 * time.Millisecond

// FileWatcher is a Signal backed by a preference file. The file holds a
// single word such as "reduce" or "no-preference"; a missing file means
// full motion.
type FileWatcher struct {
	*Switch

	path    string
	watcher *fsnotify.Watcher
	logger  *zap.SugaredLogger

	closeOnce sync.Once
	done      chan struct{}
}

// WatchFile reads path once and keeps following it until Close.
func WatchFile(path string, logger *zap.SugaredLogger) (*FileWatcher, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("motion: resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("motion: create watcher: %w", err)
	}
	// watch the directory so editors that replace the file are still seen
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("motion: watch %s: %w", filepath.Dir(abs), err)
	}

	fw := &FileWatcher{
		Switch:  NewSwitch(readPreference(abs)),
		path:    abs,
		watcher: w,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go fw.run()
	return fw, nil
}

func (fw *FileWatcher) run() {
	defer close(fw.done)
	debounced := debounce.New(settleDelay)
	for {
		select {
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.path {
				continue
			}
			debounced(fw.reload)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warnw("motion preference watch error", "path", fw.path, "error", err)
		}
	}
}

func (fw *FileWatcher) reload() {
	reduced := readPreference(fw.path)
	if reduced != fw.Reduced() {
		fw.logger.Infow("reduced motion preference changed", "path", fw.path, "reduced", reduced)
	}
	fw.Set(reduced)
}

// Close stops watching. Existing subscriptions keep the last value.
func (fw *FileWatcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		err = fw.watcher.Close()
		<-fw.done
	})
	return err
}

func readPreference(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return Parse(string(data))
}

// Package filewatch exposes the contents of a file as a stream.Holder that
// announces every change on disk.
package filewatch

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	rferrors "github.com/vnykmshr/reactflow/pkg/common/errors"
	"github.com/vnykmshr/reactflow/pkg/common/logging"
	"github.com/vnykmshr/reactflow/pkg/common/validation"
	"github.com/vnykmshr/reactflow/pkg/streaming/emitter"
	"github.com/vnykmshr/reactflow/pkg/streaming/stream"
)

const (
	module      = "filewatch"
	changeEvent = "change"
)

// Config holds configuration for a watched file.
type Config struct {
	// Path is the file to watch.
	Path string

	// Ops selects the file system operations that trigger a reload.
	// Defaults to Write|Create, which also covers editors that replace the
	// file through a rename.
	Ops fsnotify.Op
}

// DefaultConfig returns the default configuration for path.
func DefaultConfig(path string) Config {
	return Config{
		Path: path,
		Ops:  fsnotify.Write | fsnotify.Create,
	}
}

// File holds the latest contents of a file. It implements
// stream.Holder[[]byte].
type File struct {
	path    string
	ops     fsnotify.Op
	watcher *fsnotify.Watcher
	changes *emitter.Emitter[[]byte]
	done    chan struct{}

	mu        sync.RWMutex
	value     []byte
	closeOnce sync.Once
}

// Watch reads path and starts watching it with the default configuration.
func Watch(path string) (*File, error) {
	return WatchWithConfig(DefaultConfig(path))
}

// WatchWithConfig reads config.Path and starts watching it.
func WatchWithConfig(config Config) (*File, error) {
	if err := validation.ValidateNotEmpty(module, "Path", config.Path); err != nil {
		return nil, err
	}
	if config.Ops == 0 {
		config.Ops = DefaultConfig(config.Path).Ops
	}

	path, err := filepath.Abs(config.Path)
	if err != nil {
		return nil, rferrors.NewOperationError(module, "watch", err).WithContext(config.Path)
	}
	value, err := os.ReadFile(path)
	if err != nil {
		return nil, rferrors.NewOperationError(module, "read", err).WithContext(path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, rferrors.NewOperationError(module, "watch", err).WithContext(path)
	}
	// the directory is watched so that replacing the file keeps the watch alive
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, rferrors.NewOperationError(module, "watch", err).WithContext(path)
	}

	f := &File{
		path:    path,
		ops:     config.Ops,
		watcher: watcher,
		changes: emitter.New[[]byte](),
		done:    make(chan struct{}),
		value:   value,
	}
	go f.run()
	return f, nil
}

// Path returns the absolute path of the watched file.
func (f *File) Path() string {
	return f.path
}

// Value returns a copy of the latest contents.
func (f *File) Value() []byte {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return bytes.Clone(f.value)
}

// OnChange registers listener for content changes.
func (f *File) OnChange(listener func([]byte)) (off func()) {
	return f.changes.On(changeEvent, listener)
}

// Stream returns the current contents followed by every change.
func (f *File) Stream() stream.Stream[[]byte] {
	return stream.FromHolder[[]byte](f)
}

// Close stops watching and removes every listener.
func (f *File) Close() error {
	var err error
	f.closeOnce.Do(func() {
		err = f.watcher.Close()
		<-f.done
		f.changes.Close()
	})
	return err
}

func (f *File) run() {
	defer close(f.done)
	logger := logging.Named(module).With(zap.String("path", f.path))

	for {
		select {
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != f.path || event.Op&f.ops == 0 {
				continue
			}
			f.reload(logger)
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("watch error", zap.Error(err))
		}
	}
}

func (f *File) reload(logger *zap.Logger) {
	value, err := os.ReadFile(f.path)
	if err != nil {
		logger.Error("reload failed", zap.Error(err))
		return
	}

	f.mu.Lock()
	if bytes.Equal(value, f.value) {
		f.mu.Unlock()
		return
	}
	f.value = value
	f.mu.Unlock()

	logger.Debug("file changed", zap.Int("bytes", len(value)))
	f.changes.Emit(changeEvent, bytes.Clone(value))
}

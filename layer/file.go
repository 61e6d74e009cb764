package layer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// File reports the layer id stored as a decimal integer in a file. The
// file is re-read whenever it changes; a missing or unparsable file keeps
// the last good value.
type File struct {
	path   string
	logger *slog.Logger
	v      atomic.Int64
}

func NewFile(path string, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.Default()
	}
	f := &File{path: filepath.Clean(path), logger: logger.With("layerFile", path)}
	if err := f.load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		f.logger.Warn("Initial layer read failed", "error", err)
	}
	return f
}

func (f *File) HighestActiveLayer() int { return int(f.v.Load()) }

// Path returns the watched file.
func (f *File) Path() string { return f.path }

func (f *File) load() error {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("parse layer %q: %w", s, err)
	}
	if old := f.v.Swap(int64(n)); old != int64(n) {
		f.logger.Debug("Active layer changed", "layer", n)
	}
	return nil
}

// Run watches the file's directory until ctx is done. Editors that replace
// the file instead of writing it in place are handled by reacting to
// create and rename events as well.
func (f *File) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(f.path), err)
	}
	// pick up writes that happened before the watch was in place
	if err := f.load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		f.logger.Warn("Layer read failed", "error", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != f.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := f.load(); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				f.logger.Warn("Layer read failed", "error", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.logger.Error("Layer watcher error", "error", err)
		}
	}
}

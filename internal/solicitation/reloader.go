package solicitation

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Reloader serves the current Engine and swaps it when the config file
// changes on disk. A reload that fails to parse keeps the previous engine.
type Reloader struct {
	path    string
	current atomic.Pointer[Engine]
	log     *slog.Logger
}

// NewReloader loads path once. A missing or invalid file is an error, since
// there is no safe default clarification behaviour.
func NewReloader(path string, log *slog.Logger) (*Reloader, error) {
	if log == nil {
		log = slog.Default()
	}
	r := &Reloader{path: path, log: log.With("component", "solicitation_reloader", "path", path)}
	if err := r.reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Engine returns the engine built from the last valid config.
func (r *Reloader) Engine() *Engine {
	return r.current.Load()
}

func (r *Reloader) reload() error {
	cfg, err := Load(r.path)
	if err != nil {
		return err
	}
	eng, err := NewEngine(cfg)
	if err != nil {
		return err
	}
	r.current.Store(eng)
	return nil
}

// Watch blocks until ctx is done, reloading on every write to the config
// file. The parent directory is watched so editors that replace the file
// are handled.
func (r *Reloader) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(r.path)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching config dir: %w", err)
	}

	r.log.Info("watching solicitation config")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := r.reload(); err != nil {
				r.log.Error("reload failed, keeping previous config", "error", err)
				continue
			}
			r.log.Info("solicitation config reloaded")
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.log.Error("config watcher error", "error", err)
		}
	}
}

package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watch recompiles the input files whenever one of them is written, until
// ctx is done. Parent directories are watched rather than the files so that
// editors that save by renaming keep triggering events.
func watch(ctx context.Context, cfg *config, stdout io.Writer, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	inputs := make(map[string]bool, len(cfg.files))
	dirs := make(map[string]bool)
	for _, f := range cfg.files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		inputs[abs] = true
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return err
			}
			dirs[dir] = true
		}
	}
	logger.Info("watching", "files", len(inputs))

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			path, relevant := changedInput(e, inputs)
			if !relevant {
				continue
			}
			logger.Debug("change detected", "file", path, "op", e.Op.String())
			one := *cfg
			one.files = []string{path}
			compileAll(&one, stdout, logger)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		}
	}
}

// changedInput reports whether e writes or recreates one of the inputs.
func changedInput(e fsnotify.Event, inputs map[string]bool) (string, bool) {
	if !e.Op.Has(fsnotify.Write) && !e.Op.Has(fsnotify.Create) {
		return "", false
	}
	abs, err := filepath.Abs(e.Name)
	if err != nil || !inputs[abs] {
		return "", false
	}
	return abs, true
}

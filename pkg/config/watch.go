package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch tails the config file behind c and invokes onChange with the freshly
// parsed config whenever it is rewritten. Edits that fail to parse are logged
// and skipped so a half-saved file never clobbers a running server.
//
// The watch is placed on the parent directory rather than the file itself:
// most editors replace files via rename, which drops an inode-level watch.
//
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, c *Configer, logger *slog.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target := filepath.Clean(c.GetTarget())
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != target {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := c.LoadConfig()
			if err != nil {
				logger.Warn("config changed but failed to reload", "path", target, "error", err)
				continue
			}

			logger.Info("config reloaded", "path", target)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", "error", err)
		}
	}
}

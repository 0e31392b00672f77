// SPDX-License-Identifier: MPL-2.0

package server

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces rapid successive events (editors write then
// rename temp files) into one reload.
const reloadDebounce = 500 * time.Millisecond

// watch reloads the book when documents under the book path change.
// Load failures keep the previous book serving and are only logged.
func (s *Server) watch(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("cannot watch book path", "err", err)
		return
	}
	defer watcher.Close()

	if err := addWatchTargets(watcher, s.cfg.BookPath); err != nil {
		log.Error("cannot watch book path", "path", s.cfg.BookPath, "err", err)
		return
	}
	log.Debug("watching book path", "path", s.cfg.BookPath)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !relevantEvent(evt) {
				continue
			}
			// New directories must be registered to keep watching deeply.
			if evt.Has(fsnotify.Create) {
				if info, statErr := os.Stat(evt.Name); statErr == nil && info.IsDir() {
					_ = addWatchTargets(watcher, evt.Name)
				}
			}
			if timer == nil {
				timer = time.AfterFunc(reloadDebounce, func() { fire <- struct{}{} })
			} else {
				timer.Reset(reloadDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watch error", "err", err)

		case <-fire:
			if err := s.reload(); err != nil {
				log.Error("book reload failed, keeping previous book", "err", err)
			} else {
				log.Info("book reloaded", "path", s.cfg.BookPath)
			}
		}
	}
}

// relevantEvent filters for changes that can alter the loaded book.
func relevantEvent(evt fsnotify.Event) bool {
	if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) &&
		!evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename) {
		return false
	}
	// Directory events matter for registration; file events only for
	// book documents.
	if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
		return true
	}
	return strings.EqualFold(filepath.Ext(evt.Name), ".md")
}

// addWatchTargets registers path and, when it is a directory, every
// non-hidden subdirectory.
func addWatchTargets(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		// Watch the parent so editor rename-over-write is observed.
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

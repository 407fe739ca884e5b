/*
 *    Copyright (c) 2025 Unrud <unrud@outlook.com>
 *
 *    This file is part of eitype.
 *
 *    eitype is free software: you can redistribute it and/or modify
 *    it under the terms of the GNU General Public License as published by
 *    the Free Software Foundation, either version 3 of the License, or
 *    (at your option) any later version.
 *
 *    eitype is distributed in the hope that it will be useful,
 *    but WITHOUT ANY WARRANTY; without even the implied warranty of
 *    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 *    GNU General Public License for more details.
 *
 *    You should have received a copy of the GNU General Public License
 *    along with eitype.  If not, see <http://www.gnu.org/licenses/>.
 */

package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

// Watcher reloads the configuration file when it changes.
type Watcher struct {
	path    string
	log     *slog.Logger
	watcher *fsnotify.Watcher

	mu       sync.Mutex
	config   *Config
	onChange []func(*Config)
	timer    *time.Timer

	done chan struct{}
}

// Watch starts watching path. cfg is the configuration that was loaded
// from it.
func Watch(path string, cfg *Config, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// The directory is watched so that editors replacing the file are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	w := &Watcher{
		path:    path,
		log:     logger,
		watcher: watcher,
		config:  cfg,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Config returns the current configuration.
func (w *Watcher) Config() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.config
}

// OnChange registers a callback invoked with each valid new configuration.
func (w *Watcher) OnChange(cb func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, cb)
}

func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.timer = time.AfterFunc(debounceDelay, w.reload)
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("Config watcher error", "err", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		w.log.Warn("Ignoring invalid config", "path", w.path, "err", err)
		return
	}
	w.mu.Lock()
	w.config = cfg
	callbacks := append([]func(*Config){}, w.onChange...)
	w.mu.Unlock()
	w.log.Info("Config reloaded", "path", w.path)
	for _, cb := range callbacks {
		cb(cfg)
	}
}

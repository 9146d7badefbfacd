// Package watcher observes the content directory for changes with
// debouncing, so a burst of editor writes produces one invalidation and one
// client reload instead of many.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conneroisu/docshell/internal/logging"
)

// ChangeEvent describes one debounced file change.
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
}

// EventType represents the kind of file change.
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the event type name used in logs.
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileFilter reports whether a path is interesting to the watcher.
type FileFilter func(path string) bool

// ChangeHandler receives each debounced batch of change events.
type ChangeHandler func(events []ChangeEvent)

// ContentFilter keeps only the HTML content fragments docshell serves.
func ContentFilter(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".html")
}

// FileWatcher watches directories for file changes with debouncing.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   logging.Logger
	delay    time.Duration
	incoming chan ChangeEvent

	mutex    sync.RWMutex
	filters  []FileFilter
	handlers []ChangeHandler
}

// NewFileWatcher creates a watcher that groups changes arriving within the
// debounce delay into a single handler invocation.
func NewFileWatcher(delay time.Duration, logger logging.Logger) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &FileWatcher{
		watcher:  fsw,
		logger:   logger.WithComponent("watcher"),
		delay:    delay,
		incoming: make(chan ChangeEvent, 100),
	}, nil
}

// AddFilter adds a file filter; events failing any filter are dropped.
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler registers a handler for debounced change batches.
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddRecursive watches root and every directory beneath it.
func (fw *FileWatcher) AddRecursive(root string) error {
	clean := filepath.Clean(root)
	return filepath.Walk(clean, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fw.watcher.Add(path)
		}
		return nil
	})
}

// Start launches the watch and debounce loops. They exit when ctx is done.
func (fw *FileWatcher) Start(ctx context.Context) {
	go fw.watchLoop(ctx)
	go fw.debounceLoop(ctx)
}

// Stop closes the underlying watcher.
func (fw *FileWatcher) Stop() error {
	return fw.watcher.Close()
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(ctx, event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn(ctx, err, "file watcher error")
		}
	}
}

func (fw *FileWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	fw.mutex.RLock()
	filters := fw.filters
	fw.mutex.RUnlock()

	for _, filter := range filters {
		if !filter(event.Name) {
			return
		}
	}

	var modTime time.Time
	if info, err := os.Stat(event.Name); err == nil {
		modTime = info.ModTime()
	}

	var eventType EventType
	switch {
	case event.Op.Has(fsnotify.Create):
		eventType = EventTypeCreated
	case event.Op.Has(fsnotify.Write):
		eventType = EventTypeModified
	case event.Op.Has(fsnotify.Remove):
		eventType = EventTypeDeleted
	case event.Op.Has(fsnotify.Rename):
		eventType = EventTypeRenamed
	default:
		eventType = EventTypeModified
	}

	select {
	case fw.incoming <- ChangeEvent{Type: eventType, Path: event.Name, ModTime: modTime}:
	default:
		fw.logger.Warn(ctx, nil, "dropping change event, queue full", "path", event.Name)
	}
}

// debounceLoop collects events until the delay elapses with no new arrivals,
// then flushes the batch to every handler.
func (fw *FileWatcher) debounceLoop(ctx context.Context) {
	var pending []ChangeEvent
	timer := time.NewTimer(fw.delay)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case event := <-fw.incoming:
			pending = append(pending, event)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(fw.delay)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := pending
			pending = nil
			fw.dispatch(batch)
		}
	}
}

func (fw *FileWatcher) dispatch(batch []ChangeEvent) {
	fw.mutex.RLock()
	handlers := fw.handlers
	fw.mutex.RUnlock()

	for _, handler := range handlers {
		handler(batch)
	}
}

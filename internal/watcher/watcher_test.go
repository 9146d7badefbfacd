package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docshell/internal/logging"
)

func writeTestFile(dir, name, body string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644)
}

func TestContentFilter(t *testing.T) {
	assert.True(t, ContentFilter("content/home.html"))
	assert.True(t, ContentFilter("content/INTRO/SETUP.HTML"))
	assert.False(t, ContentFilter("content/home.html.swp"))
	assert.False(t, ContentFilter("notes.md"))
	assert.False(t, ContentFilter("content"))
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "created", EventTypeCreated.String())
	assert.Equal(t, "modified", EventTypeModified.String())
	assert.Equal(t, "deleted", EventTypeDeleted.String())
	assert.Equal(t, "renamed", EventTypeRenamed.String())
}

func TestDebounceBatchesRapidChanges(t *testing.T) {
	fw, err := NewFileWatcher(30*time.Millisecond, logging.NewTestLogger())
	require.NoError(t, err)
	defer fw.Stop()

	var mu sync.Mutex
	var batches [][]ChangeEvent
	fw.AddHandler(func(events []ChangeEvent) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, events)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go fw.debounceLoop(ctx)

	// A burst of writes within the debounce window...
	for i := 0; i < 5; i++ {
		fw.incoming <- ChangeEvent{Type: EventTypeModified, Path: "content/home.html"}
	}

	// ...flushes as a single batch once the window closes.
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) == 1 && len(batches[0]) == 5
	}, time.Second, 10*time.Millisecond)
}

func TestDebounceSeparatedChanges(t *testing.T) {
	fw, err := NewFileWatcher(20*time.Millisecond, logging.NewTestLogger())
	require.NoError(t, err)
	defer fw.Stop()

	var mu sync.Mutex
	var batches int
	fw.AddHandler(func(events []ChangeEvent) {
		mu.Lock()
		defer mu.Unlock()
		batches++
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go fw.debounceLoop(ctx)

	fw.incoming <- ChangeEvent{Type: EventTypeModified, Path: "a.html"}
	time.Sleep(80 * time.Millisecond)
	fw.incoming <- ChangeEvent{Type: EventTypeModified, Path: "b.html"}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return batches == 2
	}, time.Second, 10*time.Millisecond)
}

func TestWatchRealFileChange(t *testing.T) {
	dir := t.TempDir()

	fw, err := NewFileWatcher(30*time.Millisecond, logging.NewTestLogger())
	require.NoError(t, err)
	defer fw.Stop()

	fw.AddFilter(ContentFilter)

	events := make(chan []ChangeEvent, 1)
	fw.AddHandler(func(batch []ChangeEvent) {
		select {
		case events <- batch:
		default:
		}
	})

	require.NoError(t, fw.AddRecursive(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	require.NoError(t, writeTestFile(dir, "home.html", "<h1>hi</h1>"))

	select {
	case batch := <-events:
		require.NotEmpty(t, batch)
		assert.Contains(t, batch[0].Path, "home.html")
	case <-time.After(3 * time.Second):
		t.Fatal("no change event observed")
	}
}

package configwatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/obrienkev/clara-go/internal/domain/ports"
)

func TestFSNotifyWatcher_Creation(t *testing.T) {
	watcher, err := NewFSNotifyWatcher()
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer watcher.Stop()
}

func TestFSNotifyWatcher_EmitsEventsForWatchedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clara.yaml")
	os.WriteFile(path, []byte("ollama:\n  model: phi3:mini\n"), 0644)

	watcher, _ := NewFSNotifyWatcher()
	defer watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	events, err := watcher.Watch(ctx, path)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		os.WriteFile(path, []byte("ollama:\n  model: llama3.2\n"), 0644)
	}()

	select {
	case event := <-events:
		if event.Operation != ports.FileModified && event.Operation != ports.FileCreated {
			t.Errorf("expected modify or create event, got %v", event.Operation)
		}
	case <-ctx.Done():
		t.Error("timeout waiting for event")
	}
}

func TestFSNotifyWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clara.yaml")
	os.WriteFile(path, []byte(""), 0644)

	watcher, _ := NewFSNotifyWatcher()
	defer watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	events, _ := watcher.Watch(ctx, path)

	// Touch an unrelated file in the same directory
	os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644)

	select {
	case <-events:
		t.Error("should not receive event for sibling file")
	case <-time.After(300 * time.Millisecond):
		// Expected - no event
	}
}

func TestFSNotifyWatcher_Stop(t *testing.T) {
	watcher, _ := NewFSNotifyWatcher()
	if err := watcher.Stop(); err != nil {
		t.Errorf("stop failed: %v", err)
	}
}

package reactor

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// Source observes a style override source and emits raw payloads on a
// channel. Implementations must emit the current payload immediately upon
// Watch being called so Follow can apply initial overrides.
type Source interface {
	// Watch begins observing the source and returns a channel that emits
	// raw payloads when the source changes. The channel is closed when the
	// context is canceled or an unrecoverable error occurs.
	Watch(ctx context.Context) (<-chan []byte, error)
}

// ChannelSource wraps an existing byte channel as a Source.
// Useful for testing and custom sources that already produce payloads.
type ChannelSource struct {
	ch <-chan []byte
}

// NewChannelSource creates a ChannelSource that returns the given channel
// directly, with no intermediate goroutine. Sends are observed in order.
func NewChannelSource(ch <-chan []byte) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// Watch returns the wrapped channel.
func (s *ChannelSource) Watch(_ context.Context) (<-chan []byte, error) {
	return s.ch, nil
}

// FileSource watches a style override file and emits its contents whenever
// the file is written, letting a StyleRegistry hot-reload document-wide
// custom property overrides.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for the given file path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Watch begins watching the file and returns a channel that emits the file
// contents on every write. The current contents are emitted immediately.
func (s *FileSource) Watch(ctx context.Context) (<-chan []byte, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := watcher.Add(s.path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch file %s: %w", s.path, err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer watcher.Close()

		// Emit initial contents
		if data, err := os.ReadFile(s.path); err == nil {
			select {
			case out <- data:
			case <-ctx.Done():
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				// Only emit on write or create events
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				data, err := os.ReadFile(s.path)
				if err != nil {
					continue
				}

				select {
				case out <- data:
				case <-ctx.Done():
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Continue watching despite errors
			}
		}
	}()

	return out, nil
}

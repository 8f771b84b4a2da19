package reactor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestStyleRegistry_ApplyOverrides(t *testing.T) {
	s := NewStyleRegistry()

	blue := "#00f"
	red := "#f00"
	s.ApplyOverrides(map[string]*string{
		"--accent": &blue,
		"--alert":  &red,
	})

	if v, ok := s.Value("--accent"); !ok || v != "#00f" {
		t.Errorf("expected %q, got %q (present=%v)", "#00f", v, ok)
	}

	// Overrides are retained across calls.
	green := "#0f0"
	s.ApplyOverrides(map[string]*string{"--accent": &green})
	if v, _ := s.Value("--accent"); v != "#0f0" {
		t.Errorf("expected replacement %q, got %q", "#0f0", v)
	}
	if _, ok := s.Value("--alert"); !ok {
		t.Error("expected unrelated override to be retained")
	}

	// Nil clears a key.
	s.ApplyOverrides(map[string]*string{"--alert": nil})
	if _, ok := s.Value("--alert"); ok {
		t.Error("expected nil to clear the override")
	}

	want := map[string]string{"--accent": "#0f0"}
	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestStyleRegistry_Names(t *testing.T) {
	s := NewStyleRegistry()
	a, b := "1", "2"
	s.ApplyOverrides(map[string]*string{"--b": &b, "--a": &a})
	if diff := cmp.Diff([]string{"--a", "--b"}, s.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestStyleRegistry_FollowChannelSource(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan []byte, 1)
	ch <- []byte("--accent: \"#00f\"\n")

	s := NewStyleRegistry()
	if err := s.Follow(ctx, NewChannelSource(ch)); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if v, _ := s.Value("--accent"); v != "#00f" {
		t.Errorf("expected initial override, got %q", v)
	}

	ch <- []byte("--accent: null\n")
	deadline := time.After(time.Second)
	for {
		if _, ok := s.Value("--accent"); !ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for override to clear")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStyleRegistry_FollowMalformedFirstPayload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan []byte, 1)
	ch <- []byte(":{not yaml")

	s := NewStyleRegistry()
	if err := s.Follow(ctx, NewChannelSource(ch)); err == nil {
		t.Error("expected error for malformed initial payload")
	}
}

func TestFileSource_EmitsInitialContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")

	content := []byte("--accent: \"#00f\"\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ch, err := NewFileSource(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	select {
	case data := <-ch:
		if string(data) != string(content) {
			t.Errorf("expected %q, got %q", content, data)
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for initial contents")
	}
}

func TestFileSource_NonexistentFile(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := NewFileSource("/nonexistent/theme.yaml").Watch(ctx); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

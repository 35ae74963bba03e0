package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLaterRootWins(t *testing.T) {
	low, high := t.TempDir(), t.TempDir()
	writeFile(t, low, "textures/wall.png", "low")
	writeFile(t, high, "textures/wall.png", "high")
	writeFile(t, low, "only-low.txt", "fallback")

	m := NewManager(low, high)

	data, err := m.Load("textures/wall.png")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "high" {
		t.Errorf("got %q, want high", data)
	}

	data, err = m.Load("only-low.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fallback" {
		t.Errorf("got %q, want fallback", data)
	}

	roots := m.Roots()
	if len(roots) != 2 || roots[0] != filepath.Clean(high) {
		t.Errorf("Roots: got %v, want %s first", roots, high)
	}
}

func TestResolveAbsolute(t *testing.T) {
	path := writeFile(t, t.TempDir(), "level.yaml", "x")
	m := NewManager()

	got, err := m.Resolve(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("got %s, want %s", got, path)
	}

	if _, err := m.Resolve(path + ".missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestResolveSkipsDirectories(t *testing.T) {
	low, high := t.TempDir(), t.TempDir()
	writeFile(t, low, "music/theme.wav", "wav")
	if err := os.MkdirAll(filepath.Join(high, "music", "theme.wav"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := NewManager(low, high).Resolve("music/theme.wav")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(low, "music", "theme.wav") {
		t.Errorf("got %s", got)
	}
}

func TestLoadMissing(t *testing.T) {
	m := NewManager(t.TempDir())
	tests := []string{"", "nope.png"}
	for _, path := range tests {
		if _, err := m.Load(path); !errors.Is(err, ErrNotFound) {
			t.Errorf("Load(%q): got %v, want ErrNotFound", path, err)
		}
	}
}

func TestLoadCaches(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sfx.wav", "abcd")
	m := NewManager(dir)

	if _, err := m.Load("sfx.wav"); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	data, err := m.Load("sfx.wav")
	if err != nil {
		t.Fatalf("cached load: %v", err)
	}
	if string(data) != "abcd" {
		t.Errorf("got %q", data)
	}

	hits, misses, bytes := m.Cache().Stats()
	if hits != 1 || misses != 1 || bytes != 4 {
		t.Errorf("stats: got %d/%d/%d, want 1/1/4", hits, misses, bytes)
	}

	m.Close()
	if _, err := m.Load("sfx.wav"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after Close: got %v, want ErrNotFound", err)
	}
}

func TestCacheReplaceTracksBytes(t *testing.T) {
	c := NewCache()
	c.Set("a", make([]byte, 10))
	c.Set("a", make([]byte, 3))
	c.Set("b", make([]byte, 5))

	if _, _, bytes := c.Stats(); bytes != 8 {
		t.Errorf("bytes: got %d, want 8", bytes)
	}
}

func TestConcurrentLoads(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "floor.png", "floor")
	m := NewManager(dir)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Load("floor.png"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	hits, misses, _ := m.Cache().Stats()
	if hits+misses != 16 {
		t.Errorf("lookups: got %d, want 16", hits+misses)
	}
}

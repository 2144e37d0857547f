package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func relPaths(videos []Video) []string {
	out := make([]string, len(videos))
	for i, v := range videos {
		out[i] = v.RelPath
	}
	sort.Strings(out)
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	writeFile(t, filepath.Join(root, "top.mp4"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, "shows", "season1", "ep1.mkv"))
	writeFile(t, filepath.Join(root, "shows", "season1", "ep2.MOV")) // case-insensitive ext
	writeFile(t, filepath.Join(root, ".hidden", "secret.mp4"))
	writeFile(t, filepath.Join(root, "shows", ".thumbs.db"))
	writeFile(t, filepath.Join(root, ".video-vault", "thumbs", "aa.jpg"))
	writeFile(t, filepath.Join(root, "cachearea", "cached.mp4"))

	s := New(root, "cachearea")
	videos, err := s.Discover()
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	want := []string{
		filepath.Join("shows", "season1", "ep1.mkv"),
		filepath.Join("shows", "season1", "ep2.MOV"),
		"top.mp4",
	}
	got := relPaths(videos)
	if len(got) != len(want) {
		t.Fatalf("Discover() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Discover() = %v, want %v", got, want)
		}
	}
}

func TestDiscoverFields(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "shows", "pilot.mp4"))

	videos, err := New(root).Discover()
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("got %d videos, want 1", len(videos))
	}

	v := videos[0]
	if v.Folder != "shows" {
		t.Errorf("Folder = %q, want %q", v.Folder, "shows")
	}
	if v.Name != "pilot" {
		t.Errorf("Name = %q, want %q", v.Name, "pilot")
	}
	if !filepath.IsAbs(v.AbsPath) {
		t.Errorf("AbsPath = %q, want absolute", v.AbsPath)
	}
	if v.ModTime.IsZero() {
		t.Error("ModTime is zero")
	}
	if v.Created == nil {
		t.Error("Created is nil on a freshly written file")
	}
}

func TestDiscoverRootLevelFolderIsEmpty(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "solo.webm"))

	videos, err := New(root).Discover()
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(videos) != 1 || videos[0].Folder != "" {
		t.Fatalf("root-level video folder = %q, want empty", videos[0].Folder)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	t.Parallel()

	if _, err := New(filepath.Join(t.TempDir(), "absent")).Discover(); err == nil {
		t.Fatal("Discover() on missing root succeeded, want error")
	}
}

func TestDiscoverDeepTree(t *testing.T) {
	t.Parallel()

	// The walk is stack-based; a deeply nested tree must not blow the
	// call stack.
	root := t.TempDir()
	dir := root
	for i := 0; i < 64; i++ {
		dir = filepath.Join(dir, "d")
	}
	writeFile(t, filepath.Join(dir, "deep.mp4"))

	videos, err := New(root).Discover()
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("got %d videos, want 1", len(videos))
	}
}

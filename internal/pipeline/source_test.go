package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTrack(t *testing.T, dir, name string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLocalSourceOrderByName(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeTrack(t, dir, "03 third.mp3", now.Add(-1*time.Hour))
	writeTrack(t, dir, "01 first.mp3", now)
	writeTrack(t, dir, "02 second.mp3", now.Add(-2*time.Hour))
	writeTrack(t, dir, "cover.png", now)

	files, err := LocalSource{Folder: dir, Ordering: "name"}.Collect(context.Background(), "")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := []string{"01 first.mp3", "02 second.mp3", "03 third.mp3"}
	if len(files) != len(want) {
		t.Fatalf("files = %v", files)
	}
	for i, name := range want {
		if filepath.Base(files[i]) != name {
			t.Fatalf("files[%d] = %s; want %s", i, files[i], name)
		}
	}
}

func TestLocalSourceOrderByModifiedTime(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-24 * time.Hour)
	writeTrack(t, dir, "b.mp3", base)
	writeTrack(t, dir, "a.mp3", base.Add(2*time.Hour))
	writeTrack(t, dir, "c.mp3", base.Add(1*time.Hour))

	files, err := LocalSource{Folder: dir, Ordering: "modifiedTime"}.Collect(context.Background(), "")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := []string{"b.mp3", "c.mp3", "a.mp3"}
	for i, name := range want {
		if filepath.Base(files[i]) != name {
			t.Fatalf("files[%d] = %s; want %s", i, files[i], name)
		}
	}
}

func TestLocalSourceRecursion(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "extra")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	writeTrack(t, dir, "top.mp3", now)
	writeTrack(t, sub, "nested.mp3", now)

	flat, err := LocalSource{Folder: dir}.Collect(context.Background(), "")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(flat) != 1 || filepath.Base(flat[0]) != "top.mp3" {
		t.Fatalf("non-recursive collect = %v", flat)
	}

	deep, err := LocalSource{Folder: dir, Recursive: true}.Collect(context.Background(), "")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(deep) != 2 {
		t.Fatalf("recursive collect = %v", deep)
	}
}

func TestCompileLoopGraphFromConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.Visuals.Effects = []string{"steam", "vignette"}

	graph := CompileLoopGraph(cfg)
	for _, fragment := range []string{"scale=1920x1080", "zoompan=", "split=2[base][steam]", "vignette=angle="} {
		if !strings.Contains(graph, fragment) {
			t.Errorf("missing %q in %q", fragment, graph)
		}
	}
}

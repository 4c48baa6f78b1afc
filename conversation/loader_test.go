package conversation

import (
	"os"
	"path/filepath"
	"testing"

	"quill/llm"
	"quill/workspace"
)

func newLoaderFixture(t *testing.T) (*Log, *Loader, string) {
	t.Helper()
	log := New("system prompt")
	store := workspace.NewStore()
	return log, NewLoader(log, store), t.TempDir()
}

func TestEnsureLoadedAppendsOnce(t *testing.T) {
	log, loader, dir := newLoaderFixture(t)
	path := filepath.Join(dir, "app.py")
	if err := os.WriteFile(path, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !loader.EnsureLoaded(path) {
		t.Fatal("expected EnsureLoaded to succeed")
	}
	if log.Len() != 2 {
		t.Fatalf("expected 2 messages, got %d", log.Len())
	}

	// Loading again is a no-op thanks to the marker.
	if !loader.EnsureLoaded(path) {
		t.Fatal("expected second EnsureLoaded to succeed")
	}
	if log.Len() != 2 {
		t.Errorf("duplicate load appended a message: %d", log.Len())
	}

	msg := log.Snapshot()[1]
	if msg.Role != llm.RoleSystem {
		t.Errorf("file context must be a system message, got %q", msg.Role)
	}
	if want := "Content of file '" + path + "':\n\nx = 1\n"; msg.Content != want {
		t.Errorf("unexpected file context:\n%q\nwant\n%q", msg.Content, want)
	}
}

func TestEnsureLoadedMissingFile(t *testing.T) {
	log, loader, dir := newLoaderFixture(t)

	if loader.EnsureLoaded(filepath.Join(dir, "absent.py")) {
		t.Error("expected EnsureLoaded to fail for a missing file")
	}
	if log.Len() != 1 {
		t.Errorf("failed load must not append, got %d messages", log.Len())
	}
}

func TestEnsureLoadedInvalidPath(t *testing.T) {
	log, loader, _ := newLoaderFixture(t)

	if loader.EnsureLoaded("~/outside.txt") {
		t.Error("expected EnsureLoaded to reject a home-directory path")
	}
	if log.Len() != 1 {
		t.Errorf("rejected load must not append, got %d messages", log.Len())
	}
}

func TestAddPathSingleFile(t *testing.T) {
	log, loader, dir := newLoaderFixture(t)
	path := filepath.Join(dir, "readme.md")
	if err := os.WriteFile(path, []byte("# hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	summary, err := loader.AddPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Added) != 1 {
		t.Fatalf("expected 1 added file, got %v", summary.Added)
	}
	if log.Len() != 2 {
		t.Errorf("expected file context message, got %d messages", log.Len())
	}
}

func TestAddPathDirectory(t *testing.T) {
	log, loader, dir := newLoaderFixture(t)
	for _, name := range []string{"a.go", "b.go"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("package p\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	summary, err := loader.AddPath(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Added) != 2 {
		t.Errorf("expected 2 added files, got %v", summary.Added)
	}
	if len(summary.Skipped) != 1 {
		t.Errorf("expected 1 skipped file, got %v", summary.Skipped)
	}
	if log.Len() != 3 {
		t.Errorf("expected 2 context messages, got %d total", log.Len())
	}
}

func TestAddPathMissing(t *testing.T) {
	_, loader, dir := newLoaderFixture(t)

	if _, err := loader.AddPath(filepath.Join(dir, "nope")); err == nil {
		t.Error("expected error for missing path")
	}
}

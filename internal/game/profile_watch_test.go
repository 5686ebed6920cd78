package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitReload(t *testing.T, w *ProfileWatcher) ProfileReload {
	t.Helper()
	select {
	case r, ok := <-w.Reloads:
		if !ok {
			t.Fatal("reload channel closed")
		}
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s")
	}
	return ProfileReload{}
}

func TestProfileWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	if err := os.WriteFile(path, []byte("profiles:\n  a:\n    preferred_range: 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := WatchProfiles(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("profiles:\n  a:\n    preferred_range: 15\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := waitReload(t, w)
	if r.Err != nil {
		t.Fatal(r.Err)
	}
	if got := r.Profiles["a"].PreferredRange; got != 15 {
		t.Fatalf("preferred range = %v, want 15", got)
	}
}

func TestProfileWatcher_ReportsBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	if err := os.WriteFile(path, []byte("profiles: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := WatchProfiles(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("profiles:\n  a:\n    min_range: 50\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := waitReload(t, w); r.Err == nil {
		t.Fatal("invalid profile reload reported no error")
	}
}

func TestProfileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	if err := os.WriteFile(path, []byte("profiles: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := WatchProfiles(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case r := <-w.Reloads:
		t.Fatalf("unexpected reload %+v", r)
	case <-time.After(3 * profileReloadDebounce):
	}
}

func TestProfileWatcher_CloseClosesReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	w, err := WatchProfiles(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-w.Reloads; ok {
		t.Fatal("Reloads still open after Close")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

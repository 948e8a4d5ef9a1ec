package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const waitTimeout = 2 * time.Second

// newTestWatcher starts a watcher over a small registry tree with fast
// debounce settings and returns the tree root plus a channel receiving
// each change batch.
func newTestWatcher(t *testing.T) (*Watcher, string, chan []string) {
	t.Helper()

	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "skills", "git-helper", "SKILL.md"), "---\nname: git-helper\n---\n")
	mustWrite(t, filepath.Join(root, "plugins", "deploy-check", "PLUGIN.md"), "---\nname: deploy-check\n---\n")
	mustWrite(t, filepath.Join(root, "plugins", "deploy-check", "hooks", "pre_commit.sh"), "#!/bin/sh\nexit 0\n")

	batches := make(chan []string, 16)
	w, err := New(root, func(paths []string) { batches <- paths })
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.debounce = 20 * time.Millisecond
	w.sweepEvery = 5 * time.Millisecond

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		if err := w.Stop(); err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	})
	return w, root, batches
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func waitBatch(t *testing.T, batches <-chan []string) []string {
	t.Helper()
	select {
	case batch := <-batches:
		return batch
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a change batch")
		return nil
	}
}

func assertNoBatch(t *testing.T, batches <-chan []string, quiet time.Duration) {
	t.Helper()
	select {
	case batch := <-batches:
		t.Fatalf("unexpected change batch %v", batch)
	case <-time.After(quiet):
	}
}

func contains(paths []string, want string) bool {
	for _, p := range paths {
		if p == want {
			return true
		}
	}
	return false
}

func TestWatcher_ReportsMarkdownWrite(t *testing.T) {
	_, root, batches := newTestWatcher(t)

	skill := filepath.Join(root, "skills", "git-helper", "SKILL.md")
	mustWrite(t, skill, "---\nname: git-helper\ndescription: updated\n---\n")

	batch := waitBatch(t, batches)
	if !contains(batch, skill) {
		t.Errorf("batch = %v, want it to contain %s", batch, skill)
	}
}

func TestWatcher_ReportsRemove(t *testing.T) {
	_, root, batches := newTestWatcher(t)

	doc := filepath.Join(root, "plugins", "deploy-check", "PLUGIN.md")
	if err := os.Remove(doc); err != nil {
		t.Fatal(err)
	}

	batch := waitBatch(t, batches)
	if !contains(batch, doc) {
		t.Errorf("batch = %v, want it to contain %s", batch, doc)
	}
}

func TestWatcher_BatchesRapidWrites(t *testing.T) {
	w, root, batches := newTestWatcher(t)
	// Widen the window so both writes settle in the same sweep.
	w.debounce = 100 * time.Millisecond

	skill := filepath.Join(root, "skills", "git-helper", "SKILL.md")
	plugin := filepath.Join(root, "plugins", "deploy-check", "PLUGIN.md")
	mustWrite(t, skill, "updated\n")
	mustWrite(t, plugin, "updated\n")

	batch := waitBatch(t, batches)
	if !contains(batch, skill) || !contains(batch, plugin) {
		t.Fatalf("batch = %v, want both %s and %s", batch, skill, plugin)
	}
	for i := 1; i < len(batch); i++ {
		if batch[i-1] > batch[i] {
			t.Errorf("batch %v is not sorted", batch)
		}
	}
}

func TestWatcher_ChmodOnHookScriptReported(t *testing.T) {
	_, root, batches := newTestWatcher(t)

	hook := filepath.Join(root, "plugins", "deploy-check", "hooks", "pre_commit.sh")
	if err := os.Chmod(hook, 0o755); err != nil {
		t.Fatal(err)
	}

	batch := waitBatch(t, batches)
	if !contains(batch, hook) {
		t.Errorf("batch = %v, want it to contain %s", batch, hook)
	}
}

func TestWatcher_IgnoresIrrelevantEvents(t *testing.T) {
	_, root, batches := newTestWatcher(t)

	skillDir := filepath.Join(root, "skills", "git-helper")
	mustWrite(t, filepath.Join(skillDir, "notes.txt"), "scratch\n")
	mustWrite(t, filepath.Join(skillDir, ".SKILL.md.swp"), "vim\n")
	if err := os.Chmod(filepath.Join(skillDir, "SKILL.md"), 0o600); err != nil {
		t.Fatal(err)
	}

	assertNoBatch(t, batches, 300*time.Millisecond)

	// The watcher is still alive: a real document change is reported.
	skill := filepath.Join(skillDir, "SKILL.md")
	mustWrite(t, skill, "updated\n")
	batch := waitBatch(t, batches)
	if !contains(batch, skill) {
		t.Errorf("batch = %v, want it to contain %s", batch, skill)
	}
}

func TestWatcher_WatchesNewEntryDirectories(t *testing.T) {
	_, root, batches := newTestWatcher(t)

	newDir := filepath.Join(root, "skills", "release-notes")
	if err := os.Mkdir(newDir, 0o755); err != nil {
		t.Fatal(err)
	}
	doc := filepath.Join(newDir, "SKILL.md")

	// The directory watch is registered asynchronously, so keep
	// touching the document until a write is observed.
	deadline := time.Now().Add(waitTimeout)
	for {
		mustWrite(t, doc, "---\nname: release-notes\n---\n")
		select {
		case batch := <-batches:
			if !contains(batch, doc) {
				t.Fatalf("batch = %v, want it to contain %s", batch, doc)
			}
			return
		case <-time.After(50 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			t.Fatal("new directory was never picked up")
		}
	}
}

func TestWatcher_ContextCancelStopsReporting(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "skills", "git-helper", "SKILL.md"), "---\nname: git-helper\n---\n")

	batches := make(chan []string, 16)
	w, err := New(root, func(paths []string) { batches <- paths })
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.debounce = 20 * time.Millisecond
	w.sweepEvery = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	mustWrite(t, filepath.Join(root, "skills", "git-helper", "SKILL.md"), "updated\n")
	assertNoBatch(t, batches, 200*time.Millisecond)

	// Stop after cancellation must not hang.
	done := make(chan error, 1)
	go func() { done <- w.Stop() }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	case <-time.After(waitTimeout):
		t.Fatal("Stop() hung after context cancellation")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, _, _ := newTestWatcher(t)
	if err := w.Stop(); err != nil {
		t.Fatalf("first Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}
}

func TestWatcher_StartTwiceFails(t *testing.T) {
	w, _, _ := newTestWatcher(t)
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("second Start() succeeded, want error")
	}
}

func TestNew_RequiresCallback(t *testing.T) {
	if _, err := New(t.TempDir(), nil); err == nil {
		t.Fatal("New() with nil callback succeeded, want error")
	}
}

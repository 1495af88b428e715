package voice

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSweepOrphansRemovesOnlyStaleWorkspaces(t *testing.T) {
	baseDir := t.TempDir()
	p := &Pipeline{baseDir: baseDir}

	stale := filepath.Join(baseDir, "voice-stale")
	fresh := filepath.Join(baseDir, "voice-fresh")
	unrelated := filepath.Join(baseDir, "keep-me")
	for _, dir := range []string{stale, fresh, unrelated} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(unrelated, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if err := p.sweepOrphans(time.Hour); err != nil {
		t.Fatalf("sweepOrphans: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale workspace survived the sweep")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh workspace removed: %v", err)
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Fatalf("unrelated dir removed: %v", err)
	}
}

func TestSweepOrphansMissingBaseDir(t *testing.T) {
	p := &Pipeline{baseDir: filepath.Join(t.TempDir(), "nope")}
	if err := p.sweepOrphans(time.Hour); err != nil {
		t.Fatalf("sweepOrphans on missing dir: %v", err)
	}
}

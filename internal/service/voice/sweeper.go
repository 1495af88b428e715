package voice

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultSweepInterval = time.Hour
	DefaultWorkspaceTTL  = time.Hour
)

// StartSweeper periodically removes orphaned voice workspaces. Turns
// clean up after themselves; this only covers dirs left behind by a
// crashed process or a killed turn.
func (p *Pipeline) StartSweeper(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if ttl <= 0 {
		ttl = DefaultWorkspaceTTL
	}
	go p.sweepLoop(ctx, interval, ttl)
}

func (p *Pipeline) sweepLoop(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.sweepOrphans(ttl); err != nil {
				log.Printf("sweep voice workspaces error: %v", err)
			}
		}
	}
}

func (p *Pipeline) sweepOrphans(ttl time.Duration) error {
	entries, err := os.ReadDir(p.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	cutoff := time.Now().Add(-ttl)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "voice-") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(p.baseDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Printf("remove orphaned voice workspace %s failed: %v", path, err)
		}
	}
	return nil
}

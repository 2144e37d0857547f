package thumbs

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"video-vault/internal/logging"
	"video-vault/internal/metrics"
)

const (
	// Smart mode samples this many evenly spaced positions.
	candidateCount = 5

	// Candidate timestamps are clamped into [minOffset, duration-trailerMargin]
	// to avoid black leaders and trailers.
	minOffset     = 1.0
	trailerMargin = 0.2
)

// Generator produces thumbnail JPEGs in a cache directory. With smart mode
// enabled and a known duration it samples several frames and keeps the one
// with the largest encoded size, a cheap stand-in for "most detailed"; the
// fallback is a single fixed-offset capture.
type Generator struct {
	dir     string
	smart   bool
	extract ExtractFunc
}

// NewGenerator creates a Generator writing into dir, creating it if needed.
func NewGenerator(dir string, smart bool) *Generator {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logging.Warn("Failed to create thumbnail directory %s: %v", dir, err)
	}
	return &Generator{
		dir:     dir,
		smart:   smart,
		extract: ExtractFrame,
	}
}

// SetExtractFunc replaces the frame extractor. Used by tests.
func (g *Generator) SetExtractFunc(fn ExtractFunc) {
	g.extract = fn
}

// Name returns the deterministic thumbnail file name for a video's
// relative path: 16 hex characters of its SHA-256. The truncation is not
// cryptographically load-bearing; a collision just means two videos share
// a thumbnail slot.
func Name(relPath string) string {
	sum := sha256.Sum256([]byte(relPath))
	return fmt.Sprintf("%x.jpg", sum[:8])
}

// Generate produces the thumbnail for the video at src (identified by
// relPath) and returns the installed file name within the generator's
// directory. duration may be nil when probing failed; that forces fixed
// mode.
func (g *Generator) Generate(ctx context.Context, src, relPath string, duration *float64) (string, error) {
	start := time.Now()
	defer func() {
		metrics.ThumbnailDuration.Observe(time.Since(start).Seconds())
	}()

	name := Name(relPath)
	finalPath := filepath.Join(g.dir, name)

	if g.smart && duration != nil && *duration > 0 {
		if err := g.generateSmart(ctx, src, *duration, finalPath); err != nil {
			return "", err
		}
		metrics.ThumbnailsGenerated.WithLabelValues("smart").Inc()
		return name, nil
	}

	if err := g.extract(ctx, src, minOffset, finalPath); err != nil {
		return "", err
	}
	metrics.ThumbnailsGenerated.WithLabelValues("fixed").Inc()
	return name, nil
}

// generateSmart extracts candidateCount frames concurrently, installs the
// largest by encoded byte size, and removes the rest. Individual candidate
// failures are tolerated as long as one frame succeeds.
func (g *Generator) generateSmart(ctx context.Context, src string, duration float64, finalPath string) error {
	offsets := candidateOffsets(duration)

	type candidate struct {
		path string
		err  error
	}
	candidates := make([]candidate, len(offsets))

	var wg sync.WaitGroup
	for i, offset := range offsets {
		wg.Add(1)
		go func(i int, offset float64) {
			defer wg.Done()
			path := fmt.Sprintf("%s.cand%d.tmp", finalPath, i)
			candidates[i] = candidate{
				path: path,
				err:  g.extract(ctx, src, offset, path),
			}
		}(i, offset)
	}
	wg.Wait()

	// Pick the largest successful candidate. Strictly-greater comparison
	// keeps the first-encountered candidate on size ties.
	best := -1
	var bestSize int64
	var lastErr error
	for i, c := range candidates {
		if c.err != nil {
			lastErr = c.err
			logging.Debug("Thumbnail candidate %d failed for %s: %v", i, src, c.err)
			continue
		}
		info, err := os.Stat(c.path)
		if err != nil {
			lastErr = err
			continue
		}
		if best == -1 || info.Size() > bestSize {
			best = i
			bestSize = info.Size()
		}
	}

	if best == -1 {
		if lastErr == nil {
			lastErr = ErrExtractFailed
		}
		return fmt.Errorf("all %d thumbnail candidates failed: %w", len(offsets), lastErr)
	}

	if err := os.Rename(candidates[best].path, finalPath); err != nil {
		return fmt.Errorf("failed to install thumbnail: %w", err)
	}

	// Cleanup of the losing candidates is best-effort; leftovers are
	// orphaned temp files, not corrupt state.
	for i, c := range candidates {
		if i == best || c.err != nil {
			continue
		}
		if err := os.Remove(c.path); err != nil {
			logging.Debug("Failed to remove candidate %s: %v", c.path, err)
		}
	}

	return nil
}

// candidateOffsets returns the sample timestamps for smart selection:
// fractional positions (i+0.5)/candidateCount of the duration, clamped
// into [minOffset, max(minOffset, duration-trailerMargin)].
func candidateOffsets(duration float64) []float64 {
	upper := duration - trailerMargin
	if upper < minOffset {
		upper = minOffset
	}

	offsets := make([]float64, candidateCount)
	for i := range offsets {
		ts := duration * (float64(i) + 0.5) / candidateCount
		if ts < minOffset {
			ts = minOffset
		}
		if ts > upper {
			ts = upper
		}
		offsets[i] = ts
	}
	return offsets
}

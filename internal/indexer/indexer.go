package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"video-vault/internal/database"
	"video-vault/internal/logging"
	"video-vault/internal/metrics"
	"video-vault/internal/probe"
	"video-vault/internal/scanner"
	"video-vault/internal/thumbs"
	"video-vault/internal/workers"
)

// Indexer reconciles the filesystem against the persistent index. A pass
// is a singleton computation: the first caller starts it and every
// concurrent caller shares its result.
type Indexer struct {
	db          *database.Database
	scanner     *scanner.Scanner
	gen         *thumbs.Generator
	probeFn     probe.DurationFunc
	thumbDir    string // absolute thumbnail directory
	thumbRelDir string // thumbnail directory relative to the cache area
	poolSize    int

	mu        sync.Mutex
	inflight  *pass
	completed *PassResult

	// Progress counters, observable mid-pass.
	filesProcessed atomic.Int64
	fileFailures   atomic.Int64
}

// pass is the shared future for one in-flight indexing run.
type pass struct {
	done   chan struct{}
	result PassResult
}

// PassResult summarizes a completed indexing pass.
type PassResult struct {
	Discovered int
	Indexed    int
	Failed     int
	Deleted    int
	Duration   time.Duration
	FinishedAt time.Time
	Err        error
}

// New creates an Indexer. thumbDir is the absolute thumbnail directory and
// thumbRelDir its path relative to the cache area (stored in records).
func New(db *database.Database, sc *scanner.Scanner, gen *thumbs.Generator, thumbDir, thumbRelDir string) *Indexer {
	return &Indexer{
		db:          db,
		scanner:     sc,
		gen:         gen,
		probeFn:     probe.Duration,
		thumbDir:    thumbDir,
		thumbRelDir: thumbRelDir,
		poolSize:    workers.PoolSize(),
	}
}

// SetProbeFunc replaces the duration prober. Used by tests.
func (idx *Indexer) SetProbeFunc(fn probe.DurationFunc) {
	idx.probeFn = fn
}

// SetPoolSize overrides the worker pool size. Used by tests.
func (idx *Indexer) SetPoolSize(n int) {
	if n > 0 {
		idx.poolSize = n
	}
}

// Ensure guarantees at least one completed indexing pass. The first caller
// starts one; concurrent callers await the same pass; once a pass has
// completed, Ensure returns its memoized result without re-indexing. ctx
// bounds only the wait, never the pass itself.
func (idx *Indexer) Ensure(ctx context.Context) error {
	idx.mu.Lock()
	if idx.completed != nil {
		err := idx.completed.Err
		idx.mu.Unlock()
		return err
	}
	p := idx.inflight
	if p == nil {
		p = idx.startPassLocked(false)
	}
	idx.mu.Unlock()

	return idx.await(ctx, p)
}

// Rebuild runs a full indexing pass and waits for it. force bypasses all
// staleness checks, treating every discovered file as needing re-indexing.
// If a pass is already in flight the caller joins it instead of starting a
// duplicate.
func (idx *Indexer) Rebuild(ctx context.Context, force bool) (PassResult, error) {
	idx.mu.Lock()
	p := idx.inflight
	if p == nil {
		p = idx.startPassLocked(force)
	}
	idx.mu.Unlock()

	if err := idx.await(ctx, p); err != nil {
		return PassResult{}, err
	}
	return p.result, p.result.Err
}

// TriggerRebuild starts an asynchronous pass unless one is already
// running. It reports whether a new pass was started.
func (idx *Indexer) TriggerRebuild(force bool) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.inflight != nil {
		return false
	}
	idx.startPassLocked(force)
	return true
}

// IsIndexing reports whether a pass is currently running.
func (idx *Indexer) IsIndexing() bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.inflight != nil
}

// LastResult returns the most recently completed pass, if any.
func (idx *Indexer) LastResult() (PassResult, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.completed == nil {
		return PassResult{}, false
	}
	return *idx.completed, true
}

// Progress returns the running counters for the current or last pass.
func (idx *Indexer) Progress() (processed, failed int64) {
	return idx.filesProcessed.Load(), idx.fileFailures.Load()
}

func (idx *Indexer) await(ctx context.Context, p *pass) error {
	select {
	case <-p.done:
		return p.result.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// startPassLocked launches a pass goroutine. Caller holds idx.mu.
func (idx *Indexer) startPassLocked(force bool) *pass {
	p := &pass{done: make(chan struct{})}
	idx.inflight = p

	go func() {
		p.result = idx.runPass(force)

		idx.mu.Lock()
		idx.completed = &p.result
		idx.inflight = nil
		idx.mu.Unlock()

		close(p.done)
	}()

	return p
}

// runPass executes one full indexing pass: discover, decide, dispatch,
// reconcile. Individual file failures are persisted and never abort the
// pass; only a failed discovery or snapshot does. The pass deliberately
// runs on a background context: once dispatched it is not abortable.
func (idx *Indexer) runPass(force bool) PassResult {
	start := time.Now()
	ctx := context.Background()

	metrics.IndexerIsRunning.Set(1)
	defer metrics.IndexerIsRunning.Set(0)
	metrics.IndexerRunsTotal.Inc()

	idx.filesProcessed.Store(0)
	idx.fileFailures.Store(0)

	logging.Info("Starting indexing pass (force=%v)", force)

	videos, err := idx.scanner.Discover()
	if err != nil {
		return PassResult{Err: fmt.Errorf("discovery failed: %w", err), FinishedAt: time.Now()}
	}

	// Snapshot the record set before dispatching work so reconciliation
	// can interleave with writes from this pass.
	snapshot, err := idx.db.ListAll(ctx)
	if err != nil {
		return PassResult{Err: fmt.Errorf("index snapshot failed: %w", err), FinishedAt: time.Now()}
	}
	existing := make(map[string]*database.VideoRecord, len(snapshot))
	for i := range snapshot {
		existing[snapshot[i].Path] = &snapshot[i]
	}

	var work []scanner.Video
	for _, v := range videos {
		if force || idx.needsIndexing(v, existing[v.RelPath]) {
			work = append(work, v)
		}
	}

	logging.Info("Discovered %d videos, %d need indexing", len(videos), len(work))

	result := PassResult{Discovered: len(videos)}
	result.Indexed, result.Failed = idx.dispatch(ctx, work)

	result.Deleted = idx.reconcile(ctx, snapshot, videos)

	result.Duration = time.Since(start)
	result.FinishedAt = time.Now()

	metrics.IndexerLastRunTimestamp.Set(float64(result.FinishedAt.Unix()))
	metrics.IndexerLastRunDuration.Set(result.Duration.Seconds())

	logging.Info("Indexing pass complete: %d indexed, %d failed, %d deleted in %v",
		result.Indexed, result.Failed, result.Deleted, result.Duration)

	return result
}

// needsIndexing decides whether a discovered file must be (re)processed:
// no record yet, the file changed since the stored watermark, or the
// record looks incomplete without being a recorded failure. A failed
// record is retried only when the file itself changes; a missing thumbnail
// alone never resurrects it, so corrupt files do not crowd out useful work
// on every pass.
func (idx *Indexer) needsIndexing(v scanner.Video, rec *database.VideoRecord) bool {
	if rec == nil {
		return true
	}
	if v.ModTime.UnixMilli() > rec.UpdatedAt {
		return true
	}
	if rec.ThumbError {
		return false
	}
	return !idx.thumbExists(rec) || rec.Duration == nil
}

func (idx *Indexer) thumbExists(rec *database.VideoRecord) bool {
	if rec.ThumbRelPath == nil {
		return false
	}
	name := filepath.Base(filepath.FromSlash(*rec.ThumbRelPath))
	_, err := os.Stat(filepath.Join(idx.thumbDir, name))
	return err == nil
}

// dispatch drains the work list through a bounded pool. Each task probes,
// generates a thumbnail, and persists either success or failure.
func (idx *Indexer) dispatch(ctx context.Context, work []scanner.Video) (indexed, failed int) {
	if len(work) == 0 {
		return 0, 0
	}

	n := idx.poolSize
	if n > len(work) {
		n = len(work)
	}

	queue := make(chan scanner.Video)
	var okCount, failCount atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := range queue {
				if idx.indexOne(ctx, v) {
					okCount.Add(1)
				} else {
					failCount.Add(1)
				}
			}
		}()
	}

	for _, v := range work {
		queue <- v
	}
	close(queue)
	wg.Wait()

	return int(okCount.Load()), int(failCount.Load())
}

// indexOne processes a single file and reports success. Probe or thumbnail
// failure is recorded via UpsertFailure and never propagates; the
// watermark is written either way so the next pass compares against the
// mtime observed now.
func (idx *Indexer) indexOne(ctx context.Context, v scanner.Video) bool {
	defer idx.filesProcessed.Add(1)

	updatedAt := v.ModTime.UnixMilli()

	duration, probeErr := idx.probeFn(ctx, v.AbsPath)

	var durationPtr *float64
	if probeErr == nil {
		durationPtr = &duration
	}

	thumbName, thumbErr := idx.gen.Generate(ctx, v.AbsPath, v.RelPath, durationPtr)

	if probeErr != nil || thumbErr != nil {
		idx.fileFailures.Add(1)
		metrics.IndexerFileFailures.Inc()
		logging.Warn("Indexing failed for %s (probe: %v, thumbnail: %v)", v.RelPath, probeErr, thumbErr)

		if err := idx.db.UpsertFailure(ctx, v.RelPath, v.Folder, v.Name, updatedAt); err != nil {
			logging.Error("Failed to persist failure for %s: %v", v.RelPath, err)
		}
		return false
	}

	var createdAt *int64
	if v.Created != nil {
		ms := v.Created.UnixMilli()
		createdAt = &ms
	}

	thumbRel := filepath.ToSlash(filepath.Join(idx.thumbRelDir, thumbName))
	rec := &database.VideoRecord{
		Path:         v.RelPath,
		Folder:       v.Folder,
		Name:         v.Name,
		Duration:     durationPtr,
		CreatedAt:    createdAt,
		ThumbRelPath: &thumbRel,
		UpdatedAt:    updatedAt,
	}

	if err := idx.db.UpsertSuccess(ctx, rec); err != nil {
		logging.Error("Failed to persist record for %s: %v", v.RelPath, err)
		return false
	}

	metrics.IndexerFilesProcessed.Inc()
	return true
}

// reconcile deletes every snapshot record whose file was not observed in
// this pass's discovery. It always runs to completion.
func (idx *Indexer) reconcile(ctx context.Context, snapshot []database.VideoRecord, videos []scanner.Video) int {
	seen := make(map[string]bool, len(videos))
	for _, v := range videos {
		seen[v.RelPath] = true
	}

	deleted := 0
	for _, rec := range snapshot {
		if seen[rec.Path] {
			continue
		}
		if err := idx.db.DeleteByPath(ctx, rec.Path); err != nil {
			logging.Error("Failed to delete stale record %s: %v", rec.Path, err)
			continue
		}
		deleted++
		metrics.IndexerRecordsDeleted.Inc()
	}

	if deleted > 0 {
		logging.Info("Removed %d records for missing files", deleted)
	}
	return deleted
}

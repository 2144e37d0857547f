package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Pool size bounds for indexing work. Indexing tasks spend most of their
// time waiting on ffprobe/ffmpeg subprocesses, so a handful of workers is
// enough to keep the machine busy without spawning a subprocess storm.
const (
	minWorkers = 2
	maxWorkers = 6
)

// PoolSize returns the number of indexing workers: the hardware concurrency
// clamped into [2, 6]. It respects container CPU limits via GOMAXPROCS.
//
// Can be overridden with the INDEX_WORKERS environment variable (the
// override is clamped too).
func PoolSize() int {
	if override := os.Getenv("INDEX_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			return clamp(count)
		}
	}

	return clamp(runtime.GOMAXPROCS(0))
}

func clamp(n int) int {
	if n < minWorkers {
		return minWorkers
	}
	if n > maxWorkers {
		return maxWorkers
	}
	return n
}

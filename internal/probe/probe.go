package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"video-vault/internal/metrics"
)

// ErrProbeFailed indicates the duration could not be extracted: the probe
// tool failed, produced no output, or reported a non-finite value.
var ErrProbeFailed = errors.New("duration probe failed")

// DurationFunc extracts the duration of a media file in seconds. The
// package-level Duration is the production implementation; tests inject
// fakes.
type DurationFunc func(ctx context.Context, path string) (float64, error)

// Duration probes path with ffprobe and returns its duration in seconds.
// The subprocess is treated as opaque and time-bounded only by ctx and the
// tool itself.
func Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		metrics.ProbeFailures.Inc()
		return 0, fmt.Errorf("%w: ffprobe: %v - %s", ErrProbeFailed, err, strings.TrimSpace(stderr.String()))
	}

	d, err := parseDuration(stdout.String())
	if err != nil {
		metrics.ProbeFailures.Inc()
		return 0, err
	}
	return d, nil
}

// parseDuration parses ffprobe's duration output. Non-finite and
// non-positive values are rejected rather than cached as valid metadata.
func parseDuration(out string) (float64, error) {
	s := strings.TrimSpace(out)
	if s == "" || s == "N/A" {
		return 0, fmt.Errorf("%w: no duration reported", ErrProbeFailed)
	}

	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparsable duration %q", ErrProbeFailed, s)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return 0, fmt.Errorf("%w: non-finite duration %v", ErrProbeFailed, d)
	}
	return d, nil
}

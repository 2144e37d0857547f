package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"video-vault/internal/logging"
	"video-vault/internal/metrics"
	"video-vault/internal/safepath"
	"video-vault/internal/streaming"
)

// errRangeUnsatisfiable covers both malformed Range headers and spans that
// start at or beyond the file size; both answer 416.
var errRangeUnsatisfiable = errors.New("range not satisfiable")

// StreamVideo serves video bytes with single-range support. Without a
// Range header the whole file goes out as 200; a valid bytes=start-end
// span goes out as 206 with exact Content-Range/Content-Length; anything
// else is 416 with the total size and no body.
func (h *Handlers) StreamVideo(w http.ResponseWriter, r *http.Request) {
	rel := r.URL.Query().Get("path")
	if rel == "" {
		http.Error(w, "Path is required", http.StatusBadRequest)
		return
	}

	abs, err := safepath.Resolve(h.videoDir, rel)
	if err != nil {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}

	f, err := os.Open(abs)
	if err != nil {
		logging.Error("StreamVideo: open %s: %v", rel, err)
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	size := info.Size()

	w.Header().Set("Content-Type", contentTypeFor(abs))
	w.Header().Set("Accept-Ranges", "bytes")

	rangeHeader := r.Header.Get("Range")
	if rangeHeader == "" {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		h.copyVideo(w, r, f, size, rel)
		return
	}

	start, end, err := parseRange(rangeHeader, size)
	if err != nil {
		w.Header().Del("Accept-Ranges")
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	length := end - start + 1
	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	w.Header().Set("Content-Length", strconv.FormatInt(length, 10))
	w.WriteHeader(http.StatusPartialContent)
	if r.Method == http.MethodHead {
		return
	}

	h.copyVideo(w, r, io.NewSectionReader(f, start, length), length, rel)
}

// copyVideo streams n bytes, swallowing client disconnects. A browser
// abandoning a scrub position is routine, not an error.
func (h *Handlers) copyVideo(w http.ResponseWriter, r *http.Request, src io.Reader, n int64, rel string) {
	written, err := streaming.Copy(r.Context(), w, src, n)
	if err != nil {
		if streaming.IsClientAbort(err) {
			metrics.StreamClientAborts.Inc()
			logging.Debug("StreamVideo: client disconnected from %s after %d bytes", rel, written)
			return
		}
		logging.Error("StreamVideo: copy %s failed after %d bytes: %v", rel, written, err)
	}
}

// parseRange parses a single-span "bytes=start-end" header against the
// file size. It accepts an omitted end (meaning end of file) and clamps an
// oversized end to the last byte. Multi-span, suffix, and malformed forms
// are unsatisfiable.
func parseRange(header string, size int64) (start, end int64, err error) {
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok || strings.Contains(spec, ",") {
		return 0, 0, errRangeUnsatisfiable
	}

	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok || startStr == "" {
		return 0, 0, errRangeUnsatisfiable
	}

	start, err = strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 || start >= size {
		return 0, 0, errRangeUnsatisfiable
	}

	if endStr == "" {
		return start, size - 1, nil
	}

	end, err = strconv.ParseInt(endStr, 10, 64)
	if err != nil || end < start {
		return 0, 0, errRangeUnsatisfiable
	}
	if end > size-1 {
		end = size - 1
	}
	return start, end, nil
}

func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

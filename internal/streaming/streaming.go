package streaming

import (
	"context"
	"errors"
	"io"
	"net/http"

	"video-vault/internal/metrics"
)

// ErrClientGone indicates the client disconnected before the stream
// completed. This is a normal outcome of video scrubbing, not a server
// error; callers swallow it.
var ErrClientGone = errors.New("client disconnected")

// chunkSize balances syscall overhead against cancellation latency: the
// request context is checked between chunks.
const chunkSize = 64 * 1024

// Copy streams exactly n bytes from r to w, flushing after each chunk and
// honoring client-initiated cancellation via ctx. It returns the number of
// bytes written and ErrClientGone when the client went away mid-stream.
func Copy(ctx context.Context, w http.ResponseWriter, r io.Reader, n int64) (int64, error) {
	flusher, _ := w.(http.Flusher)

	buf := make([]byte, chunkSize)
	var written int64

	for written < n {
		select {
		case <-ctx.Done():
			return written, clientError(ctx)
		default:
		}

		chunk := n - written
		if chunk > chunkSize {
			chunk = chunkSize
		}

		nr, readErr := io.ReadFull(r, buf[:chunk])
		if nr > 0 {
			nw, writeErr := w.Write(buf[:nr])
			written += int64(nw)
			metrics.StreamBytesSent.Add(float64(nw))

			if writeErr != nil {
				// A failed write almost always means the peer hung up;
				// the context tells us for sure.
				if ctx.Err() != nil {
					return written, clientError(ctx)
				}
				return written, writeErr
			}
			if flusher != nil {
				flusher.Flush()
			}
		}

		if readErr != nil {
			return written, readErr
		}
	}

	return written, nil
}

// IsClientAbort reports whether err is a client disconnect rather than a
// genuine failure.
func IsClientAbort(err error) bool {
	return errors.Is(err, ErrClientGone) || errors.Is(err, context.Canceled)
}

func clientError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ErrClientGone
	}
	return ctx.Err()
}

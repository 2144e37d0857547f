package handlers

import (
	"net/http"
	"time"

	"video-vault/internal/logging"
	"video-vault/internal/startup"
)

// HealthResponse reports service liveness plus a snapshot of indexer state.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Indexing  bool   `json:"indexing"`
	Videos    int    `json:"videos"`
	Processed int64  `json:"processed"`
	Failed    int64  `json:"failed"`

	// LastPass is absent until the first indexing pass completes.
	LastPass *PassSummary `json:"lastPass,omitempty"`
}

// PassSummary is the health view of the most recent indexing pass.
type PassSummary struct {
	Discovered int       `json:"discovered"`
	Indexed    int       `json:"indexed"`
	Failed     int       `json:"failed"`
	Deleted    int       `json:"deleted"`
	Duration   string    `json:"duration"`
	FinishedAt time.Time `json:"finishedAt"`
	Error      string    `json:"error,omitempty"`
}

// Health answers liveness probes. It never triggers indexing; the counts
// reflect whatever state the index is in right now.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.db.Count(r.Context())
	if err != nil {
		logging.Error("Health: count failed: %v", err)
		writeJSONError(w, "Database unavailable", http.StatusServiceUnavailable)
		return
	}

	processed, failed := h.indexer.Progress()

	resp := HealthResponse{
		Status:    "ok",
		Version:   startup.Version,
		Indexing:  h.indexer.IsIndexing(),
		Videos:    count,
		Processed: processed,
		Failed:    failed,
	}

	if last, ok := h.indexer.LastResult(); ok {
		summary := &PassSummary{
			Discovered: last.Discovered,
			Indexed:    last.Indexed,
			Failed:     last.Failed,
			Deleted:    last.Deleted,
			Duration:   last.Duration.String(),
			FinishedAt: last.FinishedAt,
		}
		if last.Err != nil {
			summary.Error = last.Err.Error()
		}
		resp.LastPass = summary
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, resp)
}

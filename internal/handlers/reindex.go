package handlers

import (
	"net/http"
	"strconv"
)

// Reindex triggers an asynchronous indexing pass. force=1 bypasses all
// staleness checks. If a pass is already running the request reports that
// instead of queueing another.
func (h *Handlers) Reindex(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	if h.indexer.TriggerRebuild(force) {
		writeJSONStatus(w, "started", http.StatusAccepted)
		return
	}
	writeJSONStatus(w, "already_running", http.StatusOK)
}

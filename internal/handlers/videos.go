package handlers

import (
	"errors"
	"net/http"

	"video-vault/internal/database"
	"video-vault/internal/logging"
	"video-vault/internal/safepath"
)

// ListVideos returns the indexed videos in one folder, sorted. The first
// request triggers the initial indexing pass and waits for it.
func (h *Handlers) ListVideos(w http.ResponseWriter, r *http.Request) {
	if err := h.indexer.Ensure(r.Context()); err != nil {
		logging.Error("ListVideos: indexing failed: %v", err)
		writeJSONError(w, "Indexing failed", http.StatusInternalServerError)
		return
	}

	folder := r.URL.Query().Get("folder")
	if folder != "" {
		if _, err := safepath.Resolve(h.videoDir, folder); err != nil {
			writeJSONError(w, "Invalid folder", http.StatusBadRequest)
			return
		}
	}

	sortBy := database.SortField(r.URL.Query().Get("sort"))
	if sortBy == "" {
		sortBy = database.SortByName
	}
	order := database.SortOrder(r.URL.Query().Get("order"))
	if order == "" {
		order = database.SortAsc
	}

	records, err := h.db.ListByFolder(r.Context(), folder, sortBy, order)
	if err != nil {
		logging.Error("ListVideos: query failed: %v", err)
		writeJSONError(w, "Failed to list videos", http.StatusInternalServerError)
		return
	}

	if records == nil {
		records = []database.VideoRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"folder": folder,
		"videos": records,
	})
}

// GetVideoInfo returns the index record for a single video.
func (h *Handlers) GetVideoInfo(w http.ResponseWriter, r *http.Request) {
	rel := r.URL.Query().Get("path")
	if rel == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	if _, err := safepath.Resolve(h.videoDir, rel); err != nil {
		writeJSONError(w, "Invalid path", http.StatusBadRequest)
		return
	}

	if err := h.indexer.Ensure(r.Context()); err != nil {
		logging.Error("GetVideoInfo: indexing failed: %v", err)
		writeJSONError(w, "Indexing failed", http.StatusInternalServerError)
		return
	}

	rec, err := h.db.GetByPath(r.Context(), rel)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeJSONError(w, "Video not found", http.StatusNotFound)
			return
		}
		logging.Error("GetVideoInfo: query failed: %v", err)
		writeJSONError(w, "Failed to load video info", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, rec)
}

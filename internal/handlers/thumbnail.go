package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"video-vault/internal/database"
	"video-vault/internal/logging"
	"video-vault/internal/safepath"
)

// GetThumbnail serves the generated thumbnail for an indexed video.
// Thumbnail names are content-addressed by video path, so successful
// responses are cacheable indefinitely. Videos with no thumbnail (failed
// or not yet indexed) answer 404.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	rel := r.URL.Query().Get("path")
	if rel == "" {
		http.Error(w, "Path is required", http.StatusBadRequest)
		return
	}

	if _, err := safepath.Resolve(h.videoDir, rel); err != nil {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	rec, err := h.db.GetByPath(r.Context(), rel)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, "Thumbnail not found", http.StatusNotFound)
			return
		}
		logging.Error("GetThumbnail: query failed for %s: %v", rel, err)
		http.Error(w, "Failed to load thumbnail", http.StatusInternalServerError)
		return
	}

	if rec.ThumbError || rec.ThumbRelPath == nil {
		http.Error(w, "Thumbnail not found", http.StatusNotFound)
		return
	}

	name := filepath.Base(filepath.FromSlash(*rec.ThumbRelPath))
	f, err := os.Open(filepath.Join(h.thumbDir, name))
	if err != nil {
		http.Error(w, "Thumbnail not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "Thumbnail not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, name, info.ModTime(), f)
}

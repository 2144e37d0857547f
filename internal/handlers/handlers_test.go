package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"video-vault/internal/database"
	"video-vault/internal/indexer"
	"video-vault/internal/scanner"
	"video-vault/internal/thumbs"
)

const cacheDirName = "cache"

type testEnv struct {
	h        *Handlers
	db       *database.Database
	root     string
	thumbDir string
}

// newTestEnv builds a full handler stack over a temporary library: real
// database, real indexer wired with fake probe and frame extraction.
func newTestEnv(t *testing.T, videoNames ...string) *testEnv {
	t.Helper()

	root := t.TempDir()
	for _, name := range videoNames {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("video-bytes"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	cacheDir := filepath.Join(root, cacheDirName)
	thumbDir := filepath.Join(cacheDir, "thumbs")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		t.Fatalf("mkdir cache: %v", err)
	}

	db, err := database.New(context.Background(), filepath.Join(cacheDir, "index.db"))
	if err != nil {
		t.Fatalf("database.New() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gen := thumbs.NewGenerator(thumbDir, true)
	gen.SetExtractFunc(func(_ context.Context, _ string, _ float64, dst string) error {
		return os.WriteFile(dst, []byte("jpeg-bytes"), 0o644)
	})

	idx := indexer.New(db, scanner.New(root, cacheDirName), gen, thumbDir, "thumbs")
	idx.SetProbeFunc(func(_ context.Context, _ string) (float64, error) {
		return 60, nil
	})
	idx.SetPoolSize(2)

	return &testEnv{
		h:        New(db, idx, root, thumbDir),
		db:       db,
		root:     root,
		thumbDir: thumbDir,
	}
}

func doRequest(t *testing.T, handler http.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestListVideosIndexesOnFirstRequest(t *testing.T) {
	env := newTestEnv(t, "b.mp4", "a.mp4", "sub/c.mkv")

	rec := doRequest(t, env.h.ListVideos, http.MethodGet, "/api/videos")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Folder string                 `json:"folder"`
		Videos []database.VideoRecord `json:"videos"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(resp.Videos) != 2 {
		t.Fatalf("got %d root videos, want 2", len(resp.Videos))
	}
	// Default sort is name ascending.
	if resp.Videos[0].Name != "a.mp4" || resp.Videos[1].Name != "b.mp4" {
		t.Errorf("order = [%s, %s], want [a.mp4, b.mp4]", resp.Videos[0].Name, resp.Videos[1].Name)
	}
	if resp.Videos[0].Duration == nil || *resp.Videos[0].Duration != 60 {
		t.Error("expected probed duration on listed record")
	}
}

func TestListVideosFolderScoping(t *testing.T) {
	env := newTestEnv(t, "a.mp4", "sub/c.mkv", "sub/d.mp4")

	rec := doRequest(t, env.h.ListVideos, http.MethodGet, "/api/videos?folder=sub&sort=name&order=desc")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Videos []database.VideoRecord `json:"videos"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Videos) != 2 {
		t.Fatalf("got %d videos in sub, want 2", len(resp.Videos))
	}
	if resp.Videos[0].Name != "d.mp4" {
		t.Errorf("first = %s, want d.mp4 (desc order)", resp.Videos[0].Name)
	}
}

func TestListVideosRejectsTraversalFolder(t *testing.T) {
	env := newTestEnv(t, "a.mp4")

	rec := doRequest(t, env.h.ListVideos, http.MethodGet, "/api/videos?folder=..%2Fother")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetVideoInfo(t *testing.T) {
	env := newTestEnv(t, "a.mp4")

	rec := doRequest(t, env.h.GetVideoInfo, http.MethodGet, "/api/video-info?path=a.mp4")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var got database.VideoRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Path != "a.mp4" || got.Duration == nil || got.ThumbRelPath == nil {
		t.Errorf("incomplete record: %+v", got)
	}
}

func TestGetVideoInfoErrors(t *testing.T) {
	env := newTestEnv(t, "a.mp4")

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"missing path", "/api/video-info", http.StatusBadRequest},
		{"traversal", "/api/video-info?path=..%2Fsecret.mp4", http.StatusBadRequest},
		{"unknown video", "/api/video-info?path=nope.mp4", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, env.h.GetVideoInfo, http.MethodGet, tt.target)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestGetThumbnail(t *testing.T) {
	env := newTestEnv(t, "a.mp4")

	// Index first so the record and thumbnail exist.
	if rec := doRequest(t, env.h.ListVideos, http.MethodGet, "/api/videos"); rec.Code != http.StatusOK {
		t.Fatalf("priming list failed: %d", rec.Code)
	}

	rec := doRequest(t, env.h.GetThumbnail, http.MethodGet, "/api/thumbnail?path=a.mp4")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q, want image/jpeg", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc == "" {
		t.Error("expected Cache-Control on thumbnail response")
	}
	if rec.Body.String() != "jpeg-bytes" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestGetThumbnailErrors(t *testing.T) {
	env := newTestEnv(t, "a.mp4")

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"missing path", "/api/thumbnail", http.StatusBadRequest},
		{"traversal", "/api/thumbnail?path=..%2F..%2Fetc%2Fpasswd", http.StatusBadRequest},
		{"unindexed video", "/api/thumbnail?path=a.mp4", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, env.h.GetThumbnail, http.MethodGet, tt.target)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestGetThumbnailFailedRecordIs404(t *testing.T) {
	env := newTestEnv(t, "a.mp4")

	if err := env.db.UpsertFailure(context.Background(), "a.mp4", "", "a.mp4", 1); err != nil {
		t.Fatalf("UpsertFailure: %v", err)
	}

	rec := doRequest(t, env.h.GetThumbnail, http.MethodGet, "/api/thumbnail?path=a.mp4")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for failed record", rec.Code)
	}
}

func TestReindex(t *testing.T) {
	env := newTestEnv(t, "a.mp4")

	rec := doRequest(t, env.h.Reindex, http.MethodPost, "/api/reindex?force=1")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["status"] != "started" {
		t.Errorf("status field = %q, want started", resp["status"])
	}

	// Join the async pass so it finishes before test cleanup.
	if rec := doRequest(t, env.h.ListVideos, http.MethodGet, "/api/videos"); rec.Code != http.StatusOK {
		t.Fatalf("join pass failed: %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "a.mp4")

	// Before any indexing: healthy, zero videos, no pass summary.
	rec := doRequest(t, env.h.Health, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "ok" || resp.Videos != 0 || resp.LastPass != nil {
		t.Errorf("unexpected pre-index health: %+v", resp)
	}

	// After a pass the summary and counts show up.
	if rec := doRequest(t, env.h.ListVideos, http.MethodGet, "/api/videos"); rec.Code != http.StatusOK {
		t.Fatalf("priming list failed: %d", rec.Code)
	}

	rec = doRequest(t, env.h.Health, http.MethodGet, "/health")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Videos != 1 || resp.LastPass == nil || resp.LastPass.Discovered != 1 {
		t.Errorf("unexpected post-index health: %+v", resp)
	}
}

package database

// SortField specifies which column ListByFolder orders by.
type SortField string

// SortOrder specifies the direction of sorting.
type SortOrder string

const (
	// SortByName sorts by display name.
	SortByName SortField = "name"
	// SortByDuration sorts by probed duration.
	SortByDuration SortField = "duration"
	// SortByCreated sorts by file creation time.
	SortByCreated SortField = "createdAt"

	// SortAsc sorts in ascending order.
	SortAsc SortOrder = "asc"
	// SortDesc sorts in descending order.
	SortDesc SortOrder = "desc"
)

// VideoRecord is one indexed video file, keyed by its path relative to the
// library root. Duration, CreatedAt and ThumbRelPath are nil when the last
// indexing attempt failed (ThumbError true) or the value could not be
// derived.
type VideoRecord struct {
	Path   string `json:"path"`
	Folder string `json:"folder"`
	Name   string `json:"name"`

	// Duration in seconds.
	Duration *float64 `json:"duration"`
	// CreatedAt is the file birth time (change-time fallback) in epoch
	// milliseconds.
	CreatedAt *int64 `json:"createdAt"`
	// ThumbRelPath points at the generated thumbnail inside the cache area.
	ThumbRelPath *string `json:"thumbPath"`

	// UpdatedAt is the source file's modification time in epoch
	// milliseconds as observed at the last indexing attempt. It is the
	// staleness watermark, not the live mtime.
	UpdatedAt int64 `json:"updatedAt"`

	// ThumbError marks a failed indexing attempt. A true flag is only
	// cleared by a successful re-index after the file changes.
	ThumbError bool `json:"thumbError"`
}

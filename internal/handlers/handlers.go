package handlers

import (
	"video-vault/internal/database"
	"video-vault/internal/indexer"
)

// Handlers bundles the dependencies shared by every HTTP handler: the
// persistent index, the indexing orchestrator, and the directory layout.
type Handlers struct {
	db       *database.Database
	indexer  *indexer.Indexer
	videoDir string
	thumbDir string
}

// New creates the handler set. videoDir is the library root and thumbDir
// the absolute directory holding generated thumbnails.
func New(db *database.Database, idx *indexer.Indexer, videoDir, thumbDir string) *Handlers {
	return &Handlers{
		db:       db,
		indexer:  idx,
		videoDir: videoDir,
		thumbDir: thumbDir,
	}
}

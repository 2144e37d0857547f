// Command rebuild runs a single indexing pass against VIDEO_DIR and
// exits. Useful for cron-driven refreshes or priming a library before the
// server first starts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"video-vault/internal/database"
	"video-vault/internal/indexer"
	"video-vault/internal/scanner"
	"video-vault/internal/startup"
	"video-vault/internal/thumbs"
)

func main() {
	force := flag.Bool("force", false, "re-index every file regardless of staleness")
	flag.Parse()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	db, err := database.New(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	defer db.Close()

	gen := thumbs.NewGenerator(config.ThumbDir, config.SmartThumbnails)
	sc := scanner.New(config.VideoDir, startup.CacheDirName)
	idx := indexer.New(db, sc, gen, config.ThumbDir, startup.ThumbRelDir)

	result, err := idx.Rebuild(context.Background(), *force)
	if err != nil {
		startup.LogFatal("Indexing pass failed: %v", err)
	}

	fmt.Printf("Indexed %d of %d discovered videos (%d failed, %d deleted) in %v\n",
		result.Indexed, result.Discovered, result.Failed, result.Deleted, result.Duration)

	if result.Failed > 0 {
		os.Exit(1)
	}
}

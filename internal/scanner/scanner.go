package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"video-vault/internal/logging"
)

// VideoExtensions is the allow-list of video container types the index
// covers.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
	".ts":   true,
}

// Video is one discovered candidate file, captured as of the scan moment.
type Video struct {
	AbsPath string
	RelPath string
	// Folder is the parent directory relative to the root, "" for the root
	// itself.
	Folder string
	// Name is the filename without extension.
	Name    string
	ModTime time.Time
	// Created is the file birth time, falling back to the inode change
	// time; nil when neither could be read.
	Created *time.Time
}

// Scanner discovers video files under a root directory.
type Scanner struct {
	root string
	// skipDirs are directory names excluded from the walk, in addition to
	// hidden entries. The cache area lives here.
	skipDirs map[string]bool
}

// New creates a Scanner for root. skipDirs names directories (direct
// children at any depth) that are never descended into, typically the
// cache area.
func New(root string, skipDirs ...string) *Scanner {
	skip := make(map[string]bool, len(skipDirs))
	for _, d := range skipDirs {
		skip[d] = true
	}
	return &Scanner{
		root:     root,
		skipDirs: skip,
	}
}

// Discover walks the root and returns every matching video file. The walk
// is a full re-scan each call; nothing is cached between invocations.
// Unreadable subdirectories are logged and skipped rather than failing the
// whole scan. Ordering of the result is unspecified.
func (s *Scanner) Discover() ([]Video, error) {
	root, err := filepath.Abs(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}

	var videos []Video

	// Explicit stack instead of recursion: deep trees must not be limited
	// by call depth.
	stack := []string{root}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			logging.Warn("Skipping unreadable directory %s: %v", dir, err)
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}

			path := filepath.Join(dir, name)

			if entry.IsDir() {
				if s.skipDirs[name] {
					continue
				}
				stack = append(stack, path)
				continue
			}

			if !VideoExtensions[strings.ToLower(filepath.Ext(name))] {
				continue
			}

			info, err := entry.Info()
			if err != nil {
				logging.Warn("Skipping unreadable file %s: %v", path, err)
				continue
			}

			relPath, err := filepath.Rel(root, path)
			if err != nil {
				logging.Warn("Skipping file outside root %s: %v", path, err)
				continue
			}

			videos = append(videos, Video{
				AbsPath: path,
				RelPath: relPath,
				Folder:  folderOf(relPath),
				Name:    strings.TrimSuffix(name, filepath.Ext(name)),
				ModTime: info.ModTime(),
				Created: createTime(info),
			})
		}
	}

	return videos, nil
}

func folderOf(relPath string) string {
	folder := filepath.Dir(relPath)
	if folder == "." {
		return ""
	}
	return folder
}

//go:build !linux && !darwin

package scanner

import (
	"os"
	"time"
)

// createTime falls back to the modification time on platforms without a
// portable change-time field.
func createTime(info os.FileInfo) *time.Time {
	t := info.ModTime()
	return &t
}

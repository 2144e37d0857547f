//go:build linux

package scanner

import (
	"os"
	"syscall"
	"time"
)

// createTime returns the closest thing Linux offers to a birth time: the
// inode change time. Returns nil when the underlying stat data is
// unavailable.
func createTime(info os.FileInfo) *time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil
	}
	t := time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	return &t
}

//go:build darwin

package scanner

import (
	"os"
	"syscall"
	"time"
)

// createTime returns the file birth time where the filesystem records one,
// falling back to the inode change time.
func createTime(info os.FileInfo) *time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil
	}
	spec := st.Birthtimespec
	if spec.Sec == 0 && spec.Nsec == 0 {
		spec = st.Ctimespec
	}
	t := time.Unix(spec.Sec, spec.Nsec)
	return &t
}

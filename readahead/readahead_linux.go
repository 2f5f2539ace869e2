//go:build linux

package readahead

import (
	"os"

	"golang.org/x/sys/unix"
)

type platformAdvisor struct{}

// Advise calls posix_fadvise(2) with POSIX_FADV_WILLNEED, the same call
// rclone's backend/local/fadvise_unix.go makes (there for
// POSIX_FADV_SEQUENTIAL/DONTNEED around streaming copies; here for
// WILLNEED ahead of a scheduled visit).
func (platformAdvisor) Advise(f *os.File, offset, length int64) error {
	return unix.Fadvise(int(f.Fd()), offset, length, unix.FADV_WILLNEED)
}

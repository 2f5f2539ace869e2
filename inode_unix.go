//go:build linux

package platter

import (
	"os"
	"syscall"
)

// inodeOf extracts the inode number from a FileInfo, the way
// rclone's backend/local/linkinfo_unix.go reads Dev/Ino off the
// platform-specific syscall.Stat_t tucked behind FileInfo.Sys().
func inodeOf(fi os.FileInfo) (uint64, bool) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return st.Ino, true
}

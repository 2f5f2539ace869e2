// Package mount snapshots the kernel mount table: the external
// collaborator spec.md §1(b) and §6 describe as returning mounted
// filesystems with their device spec and fstype.
package mount

// Mount describes one entry of the mount table.
type Mount struct {
	MountPoint string
	DeviceSpec string
	FSType     string
}

// Reader returns a point-in-time snapshot of the mount table.
type Reader interface {
	Table() ([]Mount, error)
}

// Default is the platform's mount-table reader.
var Default Reader = platformReader{}

// Table returns a mount-table snapshot using the default reader.
func Table() ([]Mount, error) {
	return Default.Table()
}

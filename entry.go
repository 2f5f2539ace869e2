package platter

import (
	"os"

	"github.com/the8472/platter-walk/extent"
)

// FileExtent is a contiguous range of physical blocks, in bytes, backing
// part of a file's content on a specific block device.
type FileExtent = extent.Extent

// Entry is the unit of enumeration yielded by a Scanner.
type Entry struct {
	Path     string
	FileType os.FileMode
	Inode    uint64

	// Extents is populated only while a directory Entry sits in the
	// Directory Work Queue, keyed by its first extent's physical offset.
	// For files it is left empty; content-order offsets are looked up
	// lazily during the content pass and are not retained on the Entry.
	Extents []FileExtent
}

// ExtentSum returns the sum of all extent lengths known for e.
func (e Entry) ExtentSum() uint64 {
	var sum uint64
	for _, x := range e.Extents {
		sum += x.Length
	}
	return sum
}

// IsDir reports whether the entry describes a directory.
func (e Entry) IsDir() bool {
	return e.FileType&os.ModeDir != 0
}

// firstOffset returns the physical offset of the entry's first known
// extent, or (0, false) if none is known.
func (e Entry) firstOffset() (uint64, bool) {
	if len(e.Extents) == 0 {
		return 0, false
	}
	return e.Extents[0].PhysicalOffset, true
}

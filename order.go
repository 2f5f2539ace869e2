package platter

// Order selects the emission order of a Scanner. It is immutable for
// the lifetime of a scan: call SetOrder before the first call to Next.
type Order int

const (
	// OrderDentries returns directory entries as they are encountered.
	// Only directories are visited in physical-offset order; files are
	// emitted immediately as their parent directory is read. This is
	// the cheapest mode when path and file type are all that's needed.
	OrderDentries Order = iota

	// OrderInode batches emitted entries (directories included; they are
	// still queued for descent as soon as they are read) and re-emits each batch
	// sorted by inode number ascending, on the assumption that inode
	// tables are laid out sequentially by id and that stat() calls
	// issued in that order will be faster on a rotating disk.
	OrderInode

	// OrderContent batches emitted entries the same way, queries the first
	// physical extent of every entry in the batch, and re-emits the
	// batch sorted by that offset ascending, to produce roughly
	// sequential reads across files. The inode batch is never emitted
	// in inode order for OrderContent: it is drained straight into the
	// content-offset buffer in a single pass (see DESIGN.md, open
	// question 1).
	OrderContent
)

func (o Order) String() string {
	switch o {
	case OrderDentries:
		return "Dentries"
	case OrderInode:
		return "Inode"
	case OrderContent:
		return "Content"
	default:
		return "Order(unknown)"
	}
}

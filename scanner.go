package platter

import (
	"os"

	"github.com/the8472/platter-walk/extent"
	"github.com/the8472/platter-walk/internal/batch"
	"github.com/the8472/platter-walk/mount"
	"github.com/the8472/platter-walk/prefetch"
)

const defaultBatchSize = 1024

// PreFilter decides whether a discovered entry should be emitted.
// Returning false suppresses the entry from output; if it is a
// directory it is still descended into regardless (spec.md §4.3).
type PreFilter func(path string, ft os.FileMode) bool

// Scanner is the physical-layout-aware directory walk iterator.
// The zero value is not usable; construct with New.
type Scanner struct {
	queue *dirQueue

	opendir        func(path string) (dirReader, error)
	currentDir     dirReader
	currentDirPath string

	pending      *batch.InodeHeap
	contentBatch *batch.ContentHeap

	phase     phase
	order     Order
	batchSize int
	prefilter PreFilter

	extentMapper extent.Mapper
	mountReader  mount.Reader
	prefetcher   *prefetch.Prefetcher

	metrics *Metrics

	exhausted bool
}

// New constructs a Scanner with no roots, Order = Dentries, prefetching
// disabled and the default batch size (1024).
func New() *Scanner {
	return &Scanner{
		queue:        newDirQueue(),
		opendir:      openDir,
		pending:      batch.NewInodeHeap(),
		contentBatch: batch.NewContentHeap(),
		phase:        phaseDirWalk,
		order:        OrderDentries,
		batchSize:    defaultBatchSize,
		extentMapper: extent.Default,
		mountReader:  mount.Default,
	}
}

// SetMetrics wires optional Prometheus instrumentation.
func (s *Scanner) SetMetrics(m *Metrics) {
	s.metrics = m
}

// SetExtentMapper overrides the extent-map collaborator, for tests or
// alternative filesystem support.
func (s *Scanner) SetExtentMapper(m extent.Mapper) {
	s.extentMapper = m
}

// SetMountReader overrides the mount-table collaborator, for tests.
func (s *Scanner) SetMountReader(r mount.Reader) {
	s.mountReader = r
}

// AddRoot stats path and enqueues it as a scan root. Roots always enter
// the unordered FIFO (spec.md §4.2: "The add_root path enters unordered
// (no position)").
func (s *Scanner) AddRoot(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return wrapPath("stat", path, err)
	}
	ino, _ := inodeOf(fi)
	s.queue.add(Entry{Path: path, FileType: fi.Mode(), Inode: ino}, nil)
	return nil
}

// SetOrder sets the emission order. Must be called before the first
// call to Next; Order is immutable once iteration has started.
func (s *Scanner) SetOrder(o Order) {
	s.order = o
}

// SetPrefilter installs an emission filter. A nil filter (the default)
// emits everything.
func (s *Scanner) SetPrefilter(f PreFilter) {
	s.prefilter = f
}

// SetBatchSize sets the DirWalk -> InodePass threshold. Default 1024.
func (s *Scanner) SetBatchSize(n int) {
	if n <= 0 {
		n = 1
	}
	s.batchSize = n
}

// PrefetchDirs enables or disables the Prefetcher. Enabling takes a
// mount-table snapshot immediately; disabling discards it. The snapshot
// is never refreshed during a scan (spec.md §5).
func (s *Scanner) PrefetchDirs(enable bool) error {
	if !enable {
		s.prefetcher = nil
		return nil
	}
	mounts, err := s.mountReader.Table()
	if err != nil {
		return wrapPath("mount-table", "", err)
	}
	p := prefetch.New(mounts)
	if s.metrics != nil {
		p.SetMetrics(s.metrics.prefetch)
	}
	s.prefetcher = p
	return nil
}

// Stats is a point-in-time snapshot of Scanner internals, for embedding
// callers to log or export (SPEC_FULL.md supplement 1).
type Stats struct {
	Phase            string
	UnorderedDepth   int
	PhySortedDepth   int
	PendingDepth     int
	ContentDepth     int
	PrefetchActive   bool
	PrefetchCap      int
	PrefetchOutbytes uint64
}

// Stats returns a snapshot of the Scanner's current internal state.
func (s *Scanner) Stats() Stats {
	st := Stats{
		Phase:          s.phase.String(),
		UnorderedDepth: len(s.queue.unordered),
		PhySortedDepth: len(s.queue.phySorted),
		PendingDepth:   s.pending.Len(),
		ContentDepth:   s.contentBatch.Len(),
	}
	if s.prefetcher != nil {
		st.PrefetchActive = s.prefetcher.Active()
		st.PrefetchCap = s.prefetcher.Cap()
		st.PrefetchOutbytes = s.prefetcher.Outstanding()
	}
	return st
}

package platter

import (
	"sort"

	"github.com/the8472/platter-walk/prefetch"
)

// dirQueue is the Directory Work Queue: pending directories partitioned
// into a physical-offset-ordered map (phySorted) and an unordered
// fallback FIFO (unordered). A single entry occupies each offset; a
// later insert at an already-occupied offset displaces the prior
// occupant into unordered — last writer wins the slot, per spec.md §4.2.
type dirQueue struct {
	phySorted map[uint64]Entry
	// keys is phySorted's key set kept sorted ascending; rebuilt lazily
	// whenever it falls out of sync with phySorted, and queried with a
	// binary search for get_next's "smallest key >= cursor" lookup.
	// There is no ordered-map type in the dependency surface this
	// module draws on (see DESIGN.md), so a sorted slice plus a map
	// stands in for the source's BTreeMap.
	keys   []uint64
	sorted bool

	unordered []Entry
	cursor    uint64
}

func newDirQueue() *dirQueue {
	return &dirQueue{
		phySorted: make(map[uint64]Entry),
		sorted:    true,
	}
}

func (q *dirQueue) isEmpty() bool {
	return len(q.phySorted) == 0 && len(q.unordered) == 0
}

// add inserts an entry at a known physical offset, or appends it to the
// unordered FIFO when pos is nil.
func (q *dirQueue) add(e Entry, pos *uint64) {
	if pos == nil {
		q.unordered = append(q.unordered, e)
		return
	}
	k := *pos
	if old, ok := q.phySorted[k]; ok {
		q.unordered = append(q.unordered, old)
		q.phySorted[k] = e
		return
	}
	q.phySorted[k] = e
	q.keys = append(q.keys, k)
	q.sorted = false
}

func (q *dirQueue) resync() {
	if q.sorted {
		return
	}
	sort.Slice(q.keys, func(i, j int) bool { return q.keys[i] < q.keys[j] })
	q.sorted = true
}

// getNext returns unordered.pop_front() if non-empty; otherwise the
// smallest phySorted key >= cursor, advancing cursor to it; otherwise
// false. The caller is responsible for resetting cursor to 0 and
// retrying when getNext returns false while phySorted is still
// non-empty (the wrap case, spec.md §4.2).
func (q *dirQueue) getNext() (Entry, bool) {
	if len(q.unordered) > 0 {
		e := q.unordered[0]
		q.unordered = q.unordered[1:]
		return e, true
	}

	q.resync()
	i := sort.Search(len(q.keys), func(i int) bool { return q.keys[i] >= q.cursor })
	if i >= len(q.keys) {
		return Entry{}, false
	}
	k := q.keys[i]
	e := q.phySorted[k]
	q.cursor = k
	delete(q.phySorted, k)
	q.keys = append(q.keys[:i], q.keys[i+1:]...)
	return e, true
}

func (q *dirQueue) resetCursor() {
	q.cursor = 0
}

// prefetchCandidates returns pending directory entries in the order
// spec.md §4.4's selection walk requires: the unordered FIFO, then
// phySorted from the cursor forward, then phySorted before it (the
// same wrap the cursor itself performs in getNext).
func (q *dirQueue) prefetchCandidates() []prefetch.Candidate {
	out := make([]prefetch.Candidate, 0, len(q.unordered)+len(q.phySorted))
	for _, e := range q.unordered {
		out = append(out, prefetch.Candidate{Path: e.Path, Extents: e.Extents})
	}

	q.resync()
	i := sort.Search(len(q.keys), func(i int) bool { return q.keys[i] >= q.cursor })
	for _, k := range q.keys[i:] {
		e := q.phySorted[k]
		out = append(out, prefetch.Candidate{Path: e.Path, Extents: e.Extents})
	}
	for _, k := range q.keys[:i] {
		e := q.phySorted[k]
		out = append(out, prefetch.Candidate{Path: e.Path, Extents: e.Extents})
	}
	return out
}

// Package batch holds the Scanner's two re-ordering buffers: an
// inode-ascending heap for the Inode Batch Buffer and a content-offset
// heap for the Content-Offset Buffer. Both are backed by
// github.com/aalpar/deheap, a container/heap-compatible d-ary heap,
// instead of the sort-then-pop approach of the source (which sorts the
// whole batch once it hits the threshold): a heap keeps emission O(log n)
// per item and needs no explicit "reverse sort so we can pop from the
// back" step.
package batch

import "github.com/aalpar/deheap"

// Item pairs a sort key with an arbitrary payload (the Scanner stores
// an Entry there). container/heap is not type-parameterized, so both
// heaps hold interface{} payloads the way the upstream
// container/heap-based callers of deheap do.
type Item struct {
	Key     uint64
	Payload interface{}
}

// items implements deheap.Interface as a min-heap ordered by Key
// ascending.
type items []Item

func (h items) Len() int            { return len(h) }
func (h items) Less(i, j int) bool  { return h[i].Key < h[j].Key }
func (h items) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *items) Push(x interface{}) { *h = append(*h, x.(Item)) }
func (h *items) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// InodeHeap is a min-heap of entries keyed by inode number, giving
// ascending-inode pop order for the Inode Batch Buffer.
type InodeHeap struct {
	h items
}

// NewInodeHeap returns an empty inode-ordered buffer.
func NewInodeHeap() *InodeHeap {
	h := &InodeHeap{}
	deheap.Init(&h.h)
	return h
}

// Len reports the number of buffered entries.
func (b *InodeHeap) Len() int { return b.h.Len() }

// Push buffers payload keyed by inode.
func (b *InodeHeap) Push(inode uint64, payload interface{}) {
	deheap.Push(&b.h, Item{Key: inode, Payload: payload})
}

// Pop removes and returns the buffered payload with the smallest inode
// number.
func (b *InodeHeap) Pop() (payload interface{}, inode uint64, ok bool) {
	if b.h.Len() == 0 {
		return nil, 0, false
	}
	it := deheap.Pop(&b.h).(Item)
	return it.Payload, it.Key, true
}

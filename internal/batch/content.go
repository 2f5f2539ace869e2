package batch

import "github.com/aalpar/deheap"

// ContentHeap is a min-heap of entries keyed by first-extent physical
// offset, giving ascending-offset pop order for the Content-Offset
// Buffer. Entries with an unknown offset are keyed 0 by the caller, per
// spec.md §8 property 5.
type ContentHeap struct {
	h items
}

// NewContentHeap returns an empty content-offset buffer.
func NewContentHeap() *ContentHeap {
	h := &ContentHeap{}
	deheap.Init(&h.h)
	return h
}

// Len reports the number of buffered entries.
func (b *ContentHeap) Len() int { return b.h.Len() }

// Push buffers payload keyed by physical content offset.
func (b *ContentHeap) Push(offset uint64, payload interface{}) {
	deheap.Push(&b.h, Item{Key: offset, Payload: payload})
}

// Pop removes and returns the buffered payload with the smallest
// offset.
func (b *ContentHeap) Pop() (payload interface{}, offset uint64, ok bool) {
	if b.h.Len() == 0 {
		return nil, 0, false
	}
	it := deheap.Pop(&b.h).(Item)
	return it.Payload, it.Key, true
}

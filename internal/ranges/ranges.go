// Package ranges provides a minimal byte-range type used to coalesce
// adjacent or overlapping physical extents before a read-ahead hint is
// issued for them. It is a trimmed adaptation of rclone's lib/ranges
// (Range.End/IsEmpty/Clip/Intersection/Merge), generalized from
// "dirty region of an open file" to "physical extent on a block
// device" — the shape of the API is the same, the domain isn't.
package ranges

import "sort"

// Range is a half-open byte range [Pos, Pos+Size).
type Range struct {
	Pos  int64
	Size int64
}

// End returns the position just after the range.
func (r Range) End() int64 {
	return r.Pos + r.Size
}

// IsEmpty reports whether the range contains no bytes.
func (r Range) IsEmpty() bool {
	return r.Size <= 0
}

// Clip truncates r so that it does not extend past size.
func (r *Range) Clip(size int64) {
	if r.Pos >= size {
		*r = Range{}
		return
	}
	if r.End() > size {
		r.Size = size - r.Pos
	}
}

// Intersection returns the overlap between r and b, which is empty
// (zero Range) if they don't overlap.
func (r Range) Intersection(b Range) Range {
	start := r.Pos
	if b.Pos > start {
		start = b.Pos
	}
	end := r.End()
	if b.End() < end {
		end = b.End()
	}
	if end <= start {
		return Range{}
	}
	return Range{Pos: start, Size: end - start}
}

// Merge merges b into r if they are adjacent or overlapping, returning
// the merged range and true; otherwise it returns r unmodified and
// false. Two ranges are mergeable when each starts at or before the
// other's end; for b sorted at or after r's start this is the "next
// physical_offset <= current end" coalescing rule used when grouping
// extents for a single read-ahead hint. An empty range merges with
// anything.
func (r Range) Merge(b Range) (Range, bool) {
	if r.IsEmpty() {
		return b, true
	}
	if b.IsEmpty() {
		return r, true
	}
	if b.Pos > r.End() || r.Pos > b.End() {
		return r, false
	}
	start := r.Pos
	if b.Pos < start {
		start = b.Pos
	}
	end := r.End()
	if b.End() > end {
		end = b.End()
	}
	return Range{Pos: start, Size: end - start}, true
}

// Coalesce sorts ranges by Pos ascending and merges adjacent or
// overlapping ones in place, returning the reduced set.
func Coalesce(rs []Range) []Range {
	if len(rs) < 2 {
		return rs
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].Pos < rs[j].Pos })
	out := rs[:1]
	for _, r := range rs[1:] {
		last := out[len(out)-1]
		if merged, ok := last.Merge(r); ok {
			out[len(out)-1] = merged
			continue
		}
		out = append(out, r)
	}
	return out
}

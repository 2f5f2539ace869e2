// Package platter implements a physical-layout-aware directory walk for
// spinning disks.
//
// Given one or more root paths, a Scanner enumerates every reachable
// directory entry, but reorders the walk to minimize disk head movement:
// directories are opened in order of the physical block offset of their
// first extent, entries are optionally batched and re-emitted in
// inode order (inode tables are laid out sequentially on classical Linux
// filesystems) or in order of their first extent's physical offset. A
// bounded-budget prefetcher opportunistically issues kernel read-ahead
// hints for entries the Scanner is about to visit.
//
// The package is Linux-only: extent queries, mount-table snapshots and
// read-ahead hints all depend on Linux-specific syscalls. On other
// platforms the Scanner still walks directories correctly, just without
// physical-layout ordering or prefetching.
package platter

package platter

import (
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Next advances the scan by one step.
//
// The first return value is valid only when ok is true. When ok is true
// and err is non-nil, a per-entry I/O error occurred (spec.md §7): the
// offending item has already been discarded and the caller should call
// Next again to continue the scan. ok is false only at permanent
// exhaustion; further calls after that also return ok=false without
// side effects (spec.md §8 property 8).
func (s *Scanner) Next() (Entry, error, bool) {
	if s.exhausted {
		return Entry{}, nil, false
	}

	for {
		if s.phase == phaseDirWalk && !s.dirWalkEmpty() {
			if entry, err, yielded := s.stepDirWalk(); yielded {
				return entry, err, true
			}
			continue
		}

		if s.phase == phaseInodePass || (s.dirWalkEmpty() && s.pending.Len() > 0) {
			if entry, yielded := s.stepInodePass(); yielded {
				return entry, nil, true
			}
			continue
		}

		if s.phase == phaseContentPass || (s.dirWalkEmpty() && s.pending.Len() == 0 && s.contentBatch.Len() > 0) {
			if entry, yielded := s.stepContentPass(); yielded {
				return entry, nil, true
			}
			continue
		}

		if s.dirWalkEmpty() && s.pending.Len() == 0 && s.contentBatch.Len() == 0 {
			s.exhausted = true
			return Entry{}, nil, false
		}
	}
}

func (s *Scanner) dirWalkEmpty() bool {
	return s.queue.isEmpty() && s.currentDir == nil
}

// stepDirWalk performs one unit of DirWalk work: open the next queued
// directory, or read one child of the currently open directory. The
// third return reports whether this step produced a value to yield
// (either an entry or an error); false means the caller should loop.
func (s *Scanner) stepDirWalk() (Entry, error, bool) {
	if s.currentDir == nil {
		e, ok := s.nextDirQueueEntry()
		if !ok {
			s.queue.resetCursor()
			return Entry{}, nil, false
		}
		f, err := s.opendir(e.Path)
		if err != nil {
			return Entry{}, wrapPath("opendir", e.Path, err), true
		}
		s.currentDir = f
		s.currentDirPath = e.Path
		if s.metrics != nil {
			s.metrics.dirsOpened.Inc()
		}
	}

	dents, err := s.currentDir.ReadDir(1)
	if err != nil && err != io.EOF {
		// A readdir step failure surfaces as the yielded error, but
		// unlike an open failure it is not terminal: the handle stays
		// open and the next Next() call resumes reading it (spec.md
		// §7 distinguishes the two; only open failures discard the
		// directory).
		return Entry{}, wrapPath("readdir", s.currentDirPath, err), true
	}
	if len(dents) == 0 {
		_ = s.currentDir.Close()
		s.currentDir = nil
		return Entry{}, nil, false
	}

	d := dents[0]
	childPath := filepath.Join(s.currentDirPath, d.Name())
	info, err := d.Info()
	if err != nil {
		return Entry{}, wrapPath("stat", childPath, err), true
	}

	ft := info.Mode()
	ino, _ := inodeOf(info)
	entry := Entry{Path: childPath, FileType: ft, Inode: ino}

	if ft.IsDir() {
		s.enqueueSubdir(entry)
	}

	if s.prefilter != nil && !s.prefilter(childPath, ft) {
		return Entry{}, nil, false
	}

	switch s.order {
	case OrderDentries:
		if s.metrics != nil {
			s.metrics.entriesYielded.Inc()
		}
		return entry, nil, true
	default: // OrderInode, OrderContent
		s.pending.Push(ino, entry)
	}

	if s.pending.Len() >= s.batchSize {
		s.phase = phaseInodePass
	}
	return Entry{}, nil, false
}

// enqueueSubdir queries the extent map for a newly discovered directory
// and inserts it into the Directory Work Queue, keyed by the physical
// offset of its first extent when known. Extent-map failures (or an
// empty extent list) are never surfaced: the directory falls back to
// the unordered FIFO, per spec.md §7.
func (s *Scanner) enqueueSubdir(entry Entry) {
	exts, err := s.extentMapper.Map(entry.Path)
	if err != nil {
		logrus.WithError(err).WithField("path", entry.Path).Debug("platter: extent map failed, falling back to unordered traversal")
		s.queue.add(entry, nil)
		return
	}
	if len(exts) == 0 {
		s.queue.add(entry, nil)
		return
	}
	entry.Extents = exts
	off := exts[0].PhysicalOffset
	s.queue.add(entry, &off)
}

// nextDirQueueEntry pulls the next directory off the queue, invoking
// the Prefetcher beforehand and feeding it consumption feedback
// afterward, per spec.md §4.4.
func (s *Scanner) nextDirQueueEntry() (Entry, bool) {
	if s.prefetcher != nil {
		s.prefetcher.Run(s.queue.prefetchCandidates())
	}
	e, ok := s.queue.getNext()
	if ok && s.prefetcher != nil {
		s.prefetcher.Consumed(e.Path)
	}
	return e, ok
}

// stepInodePass pops one entry from the inode-ordered buffer (Order =
// Inode), or, for Order = Content, drains the whole buffer into the
// content-offset buffer and switches to ContentPass without emitting
// anything itself (spec.md §9 open question 1: Content order performs
// a single content-ordered pass, it never emits the inode-ordered batch).
func (s *Scanner) stepInodePass() (Entry, bool) {
	switch s.order {
	case OrderInode:
		payload, _, ok := s.pending.Pop()
		if !ok {
			s.phase = phaseDirWalk
			return Entry{}, false
		}
		entry := payload.(Entry)
		if s.pending.Len() == 0 {
			s.phase = phaseDirWalk
		}
		if s.metrics != nil {
			s.metrics.entriesYielded.Inc()
		}
		return entry, true
	case OrderContent:
		for s.pending.Len() > 0 {
			payload, _, _ := s.pending.Pop()
			entry := payload.(Entry)
			offset := uint64(0)
			exts, err := s.extentMapper.Map(entry.Path)
			if err != nil {
				logrus.WithError(err).WithField("path", entry.Path).Debug("platter: extent map failed, content offset unknown")
			} else if len(exts) > 0 {
				offset = exts[0].PhysicalOffset
			}
			s.contentBatch.Push(offset, entry)
		}
		s.phase = phaseContentPass
		return Entry{}, false
	default:
		// Dentries never populates pending; nothing to do.
		s.phase = phaseDirWalk
		return Entry{}, false
	}
}

func (s *Scanner) stepContentPass() (Entry, bool) {
	payload, _, ok := s.contentBatch.Pop()
	if !ok {
		s.phase = phaseDirWalk
		return Entry{}, false
	}
	entry := payload.(Entry)
	if s.contentBatch.Len() == 0 {
		s.phase = phaseDirWalk
	}
	if s.metrics != nil {
		s.metrics.entriesYielded.Inc()
	}
	return entry, true
}

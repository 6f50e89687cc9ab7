package compact

import (
	"github.com/google/btree"

	"github.com/marmos91/defrag/pkg/disk"
)

// btreeDegree is the B-tree fan-out of each size class. Classes hold at most
// a few thousand offsets, so a small degree keeps nodes cache friendly.
const btreeDegree = 8

// sizeClassCount covers every free run length a disk can carry (classes
// 1..9, index 0 unused).
const sizeClassCount = disk.MaxRunLength + 1

// freeExtent is the footprint of one free run.
type freeExtent struct {
	start  int64
	length int
}

// freeExtents returns the non-empty free runs of the disk in offset order.
// Each run stays its own extent: free runs separated only by empty file runs
// are touching on the block level but are never merged.
func freeExtents(placements []disk.Placement) []freeExtent {
	var extents []freeExtent
	for _, p := range placements {
		if p.IsFile() || p.Length == 0 {
			continue
		}
		extents = append(extents, freeExtent{start: p.Start, length: int(p.Length)})
	}
	return extents
}

// sizeClasses is the size-segregated free list used by the file policy.
//
// classes[k] holds the start offsets of the free extents whose length is
// exactly k, ascending, plus a sentinel equal to the disk size so that Min
// never fails. The slice only ever shrinks from the top: allocating from
// class k reinserts the leftover into class k-size < k, so the largest class
// never gains entries.
type sizeClasses struct {
	classes  []*btree.BTreeG[int64]
	sentinel int64
}

func newSizeClasses(placements []disk.Placement, size int64) *sizeClasses {
	s := &sizeClasses{classes: make([]*btree.BTreeG[int64], sizeClassCount), sentinel: size}
	for k := range s.classes {
		s.classes[k] = btree.NewOrderedG[int64](btreeDegree)
		s.classes[k].ReplaceOrInsert(size)
	}
	for _, e := range freeExtents(placements) {
		s.classes[e.length].ReplaceOrInsert(e.start)
	}
	return s
}

// top returns the largest class still tracked.
func (s *sizeClasses) top() int {
	return len(s.classes) - 1
}

// find returns the leftmost free extent able to hold size blocks, provided
// it starts before pos.
func (s *sizeClasses) find(size int, pos int64) (class int, start int64, ok bool) {
	start = s.sentinel
	for k := max(size, 1); k < len(s.classes); k++ {
		if m, _ := s.classes[k].Min(); m < start {
			class, start = k, m
		}
	}
	return class, start, class > 0 && start < pos
}

// allocate takes size blocks from the front of the extent at start in class
// and files the leftover, if any, under its new length.
func (s *sizeClasses) allocate(class int, start int64, size int) {
	s.classes[class].Delete(start)
	if rest := class - size; rest > 0 {
		s.classes[rest].ReplaceOrInsert(start + int64(size))
	}
}

// prune drops top classes whose leftmost extent starts after pos. Scan
// positions only decrease and the top class never gains entries, so such a
// class can no longer yield a candidate. Returns the number dropped.
func (s *sizeClasses) prune(pos int64) int {
	pruned := 0
	for len(s.classes) > 1 {
		if m, _ := s.classes[s.top()].Min(); m <= pos {
			break
		}
		s.classes[s.top()] = nil
		s.classes = s.classes[:s.top()]
		pruned++
	}
	return pruned
}

// free returns the number of tracked free extents, sentinels excluded.
func (s *sizeClasses) free() int {
	n := 0
	for _, c := range s.classes[1:] {
		n += c.Len() - 1
	}
	return n
}

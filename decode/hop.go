package decode

import (
	"github.com/minio/highwayhash"
)

// HopTable interns the tag-hop entries C4 synthesizes: a combination of
// idx1 from one table entry and idx2 from another (or the same) entry,
// observed together on an input read. Entries are deduplicated
// by a highwayhash digest of the combined key, the same hashing the teacher
// uses to fingerprint composite keys when grouping fusion candidates.
type HopTable struct {
	index map[[highwayhash.Size]byte]*Entry
	order []*Entry
}

// NewHopTable returns an empty hop table.
func NewHopTable() *HopTable {
	return &HopTable{index: make(map[[highwayhash.Size]byte]*Entry)}
}

// Entries returns the interned hop entries in first-seen order.
func (h *HopTable) Entries() []*Entry { return h.order }

func hopKey(idx1, idx2 string) [highwayhash.Size]byte {
	var seed [highwayhash.Size]byte
	buf := make([]byte, 0, len(idx1)+len(Sep)+len(idx2))
	buf = append(buf, idx1...)
	buf = append(buf, Sep...)
	buf = append(buf, idx2...)
	return highwayhash.Sum(buf, seed[:])
}

func (h *HopTable) intern(idx1, idx2 string) *Entry {
	key := hopKey(idx1, idx2)
	if e, ok := h.index[key]; ok {
		return e
	}
	e := &Entry{
		Seq: idx1 + Sep + idx2, Idx1: idx1, Idx2: idx2,
		Name: "0", Library: "DUMMY_LIB", Sample: "DUMMY_SAMPLE",
	}
	h.index[key] = e
	h.order = append(h.order, e)
	return e
}

// DetectHop implements C4: for a candidate that the match engine routed to
// the unassigned sentinel, look for a tag hop — idx1 exactly matching one
// table entry and idx2 exactly matching a (possibly different) table entry
// — and intern the resulting synthetic entry. Returns nil when the table is
// single-indexed or no such pair exists.
func (t *Table) DetectHop(hops *HopTable, b1, b2 string) *Entry {
	if !t.DualIndexed() {
		return nil
	}
	bound := t.idx1Len + t.idx2Len + 1
	best1, best2 := bound, bound
	var e1, e2 *Entry
	for _, e := range t.entries[1:] {
		if nm := mismatches(e.Idx1, b1, best1); nm < best1 {
			best1 = nm
			e1 = e
		}
		if nm := mismatches(e.Idx2, b2, best2); nm < best2 {
			best2 = nm
			e2 = e
		}
	}
	if e1 == nil || e2 == nil || best1 != 0 || best2 != 0 {
		return nil
	}
	return hops.intern(e1.Idx1, e2.Idx2)
}

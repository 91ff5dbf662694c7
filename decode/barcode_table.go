package decode

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
)

// Sep separates idx1 from idx2 in a concatenated barcode sequence, both in
// the barcode table file and in a record's barcode tag.
const Sep = "-"

// Counters are the per-entry read counts C5 accumulates across a run.
// They are exported for the reporter (C8) to read but are only ever
// mutated through Entry.Update, so a caller cannot corrupt them by writing
// a stale copy back.
type Counters struct {
	Reads         uint64
	PFReads       uint64
	Perfect       uint64
	PFPerfect     uint64
	OneMismatch   uint64
	PFOneMismatch uint64
}

// Entry is one row of the expected-barcode table, plus the sentinel E0 and
// any tag-hop entries interned by C4. Seq is idx1 (optionally idx1+Sep+idx2)
// truncated/joined exactly as the table file or hop detector produced it.
type Entry struct {
	Seq         string
	Idx1        string
	Idx2        string
	Name        string
	Library     string
	Sample      string
	Description string

	counters Counters
}

// Update implements C5: one call per template, on the entry the match
// engine (or tag-hop detector) returned.
func (e *Entry) Update(candidate string, isPF bool) {
	n := mismatches(e.Seq, candidate, len(e.Seq)+1)
	e.counters.Reads++
	if isPF {
		e.counters.PFReads++
	}
	switch n {
	case 0:
		e.counters.Perfect++
		if isPF {
			e.counters.PFPerfect++
		}
	case 1:
		e.counters.OneMismatch++
		if isPF {
			e.counters.PFOneMismatch++
		}
	}
}

// Counters returns a snapshot of e's accumulated counters.
func (e *Entry) Counters() Counters { return e.counters }

// Table is the loaded, indexed barcode table: the sentinel E0 at Entries()[0]
// followed by every data row in file order.
type Table struct {
	entries []*Entry
	index   *barcodeIndex
	idx1Len int
	idx2Len int
	dualTag int
}

// Entries returns the sentinel followed by every table row, in file order.
func (t *Table) Entries() []*Entry { return t.entries }

// Unassigned returns the sentinel entry E0.
func (t *Table) Unassigned() *Entry { return t.entries[0] }

// Idx1Len and Idx2Len are the fixed index lengths established by the first
// data row. Idx2Len is 0 for a single-indexed table.
func (t *Table) Idx1Len() int { return t.idx1Len }
func (t *Table) Idx2Len() int { return t.idx2Len }

// DualIndexed reports whether the table carries a second index half.
func (t *Table) DualIndexed() bool { return t.idx2Len > 0 }

// Split divides a concatenated barcode the same way this table's rows were
// split when it was loaded: by the DualTag offset if non-zero, else on Sep.
func (t *Table) Split(seq string) (string, string) {
	return splitIndex(seq, t.dualTag)
}

func splitIndex(seq string, dualTag int) (string, string) {
	if dualTag > 0 {
		if dualTag >= len(seq) {
			return seq, ""
		}
		return seq[:dualTag], seq[dualTag:]
	}
	if i := strings.IndexByte(seq, '-'); i >= 0 {
		return seq[:i], seq[i+1:]
	}
	return seq, ""
}

// LoadTable parses the tab-separated expected-barcode table (one discarded
// header line, then seq/name/library/sample/description per row) and
// builds the exact-lookup index used by the match engine's fast path.
func LoadTable(r io.Reader, dualTag int) (*Table, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, errors.E(ErrBarcodeTableIO, "barcode table is empty")
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(ErrBarcodeTableIO, err, "reading barcode table header")
	}

	entries := make([]*Entry, 1, 64) // entries[0] is filled in once idx lengths are known
	idx1Len, idx2Len := -1, -1

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 5 {
			return nil, errors.E(ErrBarcodeTableIO, fmt.Sprintf("malformed barcode table row (want 5 tab-separated fields, got %d): %q", len(fields), line))
		}
		seq, name, library, sample, desc := fields[0], fields[1], fields[2], fields[3], fields[4]

		if dualTag != 0 && (dualTag < 2 || dualTag > len(seq)-1) {
			return nil, errors.E(ErrConfigInvalid, fmt.Sprintf("dual_tag %d out of range [2, %d] for barcode %q", dualTag, len(seq)-1, seq))
		}
		idx1, idx2 := splitIndex(seq, dualTag)
		if dualTag > 0 {
			seq = idx1 + Sep + idx2
		}

		if idx1Len < 0 {
			idx1Len, idx2Len = len(idx1), len(idx2)
		} else if len(idx1) != idx1Len && len(idx2) != idx2Len {
			return nil, errors.E(ErrBarcodeShapeMismatch, fmt.Sprintf("barcode %q has a different shape than the table's established idx1/idx2 lengths (%d/%d)", seq, idx1Len, idx2Len))
		}

		entries = append(entries, &Entry{
			Seq: seq, Idx1: idx1, Idx2: idx2,
			Name: name, Library: library, Sample: sample, Description: desc,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(ErrBarcodeTableIO, err, "reading barcode table")
	}
	if idx1Len < 0 {
		return nil, errors.E(ErrBarcodeTableIO, "barcode table has no data rows")
	}

	entries[0] = sentinelEntry(idx1Len, idx2Len)

	t := &Table{entries: entries, idx1Len: idx1Len, idx2Len: idx2Len, dualTag: dualTag}
	t.index = newBarcodeIndex(entries)
	return t, nil
}

func sentinelEntry(idx1Len, idx2Len int) *Entry {
	idx1 := strings.Repeat("N", idx1Len)
	idx2 := strings.Repeat("N", idx2Len)
	seq := idx1
	if idx2Len > 0 {
		seq = idx1 + Sep + idx2
	}
	return &Entry{Seq: seq, Idx1: idx1, Idx2: idx2, Name: "0"}
}

// barcodeIndex is the O(1) exact-match hash table H: seq -> E, keyed on a
// 64-bit farm hash of the barcode sequence (the same hash family the
// teacher uses for short DNA k-mers).
type barcodeIndex struct {
	buckets [][]*Entry
	mask    uint64
}

func newBarcodeIndex(entries []*Entry) *barcodeIndex {
	n := uint64(1)
	for n < uint64(len(entries))*2 {
		n <<= 1
	}
	idx := &barcodeIndex{buckets: make([][]*Entry, n), mask: n - 1}
	for _, e := range entries {
		idx.insert(e)
	}
	return idx
}

func (idx *barcodeIndex) insert(e *Entry) {
	b := farm.Hash64WithSeed([]byte(e.Seq), 0) & idx.mask
	idx.buckets[b] = append(idx.buckets[b], e)
}

func (idx *barcodeIndex) lookup(seq string) (*Entry, bool) {
	b := farm.Hash64WithSeed([]byte(seq), 0) & idx.mask
	for _, e := range idx.buckets[b] {
		if e.Seq == seq {
			return e, true
		}
	}
	return nil, false
}

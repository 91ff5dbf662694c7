package decode

// mismatches returns the Hamming distance between a (a table entry's seq)
// and b (a candidate barcode), treating 'N' in b as a free no-call. It
// stops counting as soon as the running total exceeds cap, so a caller
// driving a best/second-best scan can bound the work per entry.
func mismatches(a, b string, cap int) int {
	n := 0
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] && b[i] != 'N' {
			n++
			if n > cap {
				return n
			}
		}
	}
	return n
}

// countNoCalls counts the no-call bases ('N', 'n', '.') in s.
func countNoCalls(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'N', 'n', '.':
			n++
		}
	}
	return n
}

// Match implements C3: given a masked, length-truncated candidate barcode,
// return the table entry it best matches, or the unassigned sentinel if no
// entry is close enough.
//
// Step order matters: the no-call gate runs unconditionally before any
// comparison against table entries, the exact-hash fast path only applies
// when minMismatchDelta <= 1 (a larger delta requires the full scan to
// establish a second-best distance), and the full scan tracks best and
// second-best independently, accepting the best only when it is within
// maxMismatches and at least minMismatchDelta better than the second-best.
func (t *Table) Match(candidate string, maxNoCalls, maxMismatches, minMismatchDelta int) *Entry {
	if countNoCalls(candidate) > maxNoCalls {
		return t.Unassigned()
	}
	if minMismatchDelta <= 1 {
		if e, ok := t.index.lookup(candidate); ok {
			return e
		}
	}

	bound := len(t.Unassigned().Seq)
	best, second := bound, bound
	var bestEntry *Entry
	for _, e := range t.entries[1:] {
		nm := mismatches(e.Seq, candidate, second)
		if nm < best {
			second = best
			best = nm
			bestEntry = e
		} else if nm < second {
			second = nm
		}
	}
	if bestEntry != nil && best <= maxMismatches && second-best >= minMismatchDelta {
		return bestEntry
	}
	return t.Unassigned()
}

package decode

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/errors"
	"github.com/minio/highwayhash"
)

// totals are the cross-entry sums and maxima the ratio columns are computed
// against.
type totals struct {
	totalReads           uint64
	totalPFReads         uint64
	totalPFReadsAssigned uint64
	maxReads             uint64
	maxPFReads           uint64
	nReads               int
}

func computeTotals(t *Table) totals {
	var tt totals
	tt.totalReads = t.Unassigned().counters.Reads
	tt.totalPFReads = t.Unassigned().counters.PFReads
	for _, e := range t.Entries()[1:] {
		c := e.counters
		tt.totalReads += c.Reads
		tt.totalPFReads += c.PFReads
		tt.totalPFReadsAssigned += c.PFReads
		if c.Reads > tt.maxReads {
			tt.maxReads = c.Reads
		}
		if c.PFReads > tt.maxPFReads {
			tt.maxPFReads = c.PFReads
		}
		tt.nReads++
	}
	return tt
}

func ratio(num, den uint64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func normalized(pfReads uint64, nReads int, totalPFReadsAssigned uint64) float64 {
	if totalPFReadsAssigned == 0 {
		return 0
	}
	return float64(pfReads) * float64(nReads) / float64(totalPFReadsAssigned)
}

// tableChecksum is a highwayhash-256 digest over the loaded table's ordered
// (idx1, idx2) pairs, recorded in the report header so a pipeline can
// detect a barcode-file edit between two runs without diffing the file.
func tableChecksum(t *Table) string {
	var buf bytes.Buffer
	for _, e := range t.Entries()[1:] {
		buf.WriteString(e.Idx1)
		buf.WriteByte('\t')
		buf.WriteString(e.Idx2)
		buf.WriteByte('\n')
	}
	var seed [highwayhash.Size]byte
	sum := highwayhash.Sum(buf.Bytes(), seed[:])
	return hex.EncodeToString(sum[:])
}

func writeHeader(w io.Writer, o Opts, t *Table, toolVersion, commandLine string, includeNames bool) error {
	if _, err := fmt.Fprintf(w, "##\n# BARCODE_TAG_NAME=%s MAX_MISMATCHES=%d MIN_MISMATCH_DELTA=%d MAX_NO_CALLS=%d\n",
		o.BarcodeTagName, o.MaxMismatches, o.MinMismatchDelta, o.MaxNoCalls); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# BARCODE_TABLE_CHECKSUM=%s\n", tableChecksum(t)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "##\n# ID:%s VN:%s CL:%s\n\n##\n", toolName, toolVersion, commandLine); err != nil {
		return err
	}

	cols := []string{"BARCODE"}
	if includeNames {
		cols = append(cols, "BARCODE_NAME", "LIBRARY_NAME", "SAMPLE_NAME", "DESCRIPTION")
	}
	cols = append(cols, "READS")
	if !o.IgnorePF {
		cols = append(cols, "PF_READS")
	}
	cols = append(cols, "PERFECT_MATCHES")
	if !o.IgnorePF {
		cols = append(cols, "PF_PERFECT_MATCHES")
	}
	if includeNames {
		cols = append(cols, "ONE_MISMATCH_MATCHES")
		if !o.IgnorePF {
			cols = append(cols, "PF_ONE_MISMATCH_MATCHES")
		}
	}
	cols = append(cols, "PCT_MATCHES", "RATIO_THIS_BARCODE_TO_BEST_BARCODE_PCT")
	if !o.IgnorePF {
		cols = append(cols, "PF_PCT_MATCHES", "PF_RATIO_THIS_BARCODE_TO_BEST_BARCODE_PCT", "PF_NORMALIZED_MATCHES")
	}
	_, err := fmt.Fprintln(w, strings.Join(cols, "\t"))
	return err
}

func writeRow(w io.Writer, e *Entry, o Opts, tt totals, includeNames bool) error {
	cols := []string{barcodeColumn(e)}
	if includeNames {
		cols = append(cols, e.Name, e.Library, e.Sample, e.Description)
	}
	c := e.counters
	cols = append(cols, fmt.Sprintf("%d", c.Reads))
	if !o.IgnorePF {
		cols = append(cols, fmt.Sprintf("%d", c.PFReads))
	}
	cols = append(cols, fmt.Sprintf("%d", c.Perfect))
	if !o.IgnorePF {
		cols = append(cols, fmt.Sprintf("%d", c.PFPerfect))
	}
	if includeNames {
		cols = append(cols, fmt.Sprintf("%d", c.OneMismatch))
		if !o.IgnorePF {
			cols = append(cols, fmt.Sprintf("%d", c.PFOneMismatch))
		}
	}
	cols = append(cols, fmt.Sprintf("%.3f", ratio(c.Reads, tt.totalReads)))
	cols = append(cols, fmt.Sprintf("%.3f", ratio(c.Reads, tt.maxReads)))
	if !o.IgnorePF {
		cols = append(cols, fmt.Sprintf("%.3f", ratio(c.PFReads, tt.totalPFReads)))
		cols = append(cols, fmt.Sprintf("%.3f", ratio(c.PFReads, tt.maxPFReads)))
		cols = append(cols, fmt.Sprintf("%.3f", normalized(c.PFReads, tt.nReads, tt.totalPFReadsAssigned)))
	}
	_, err := fmt.Fprintln(w, strings.Join(cols, "\t"))
	return err
}

func barcodeColumn(e *Entry) string {
	if e.Idx2 == "" {
		return e.Idx1
	}
	return e.Idx1 + Sep + e.Idx2
}

// WriteMetrics implements the main table of C8: one row per table entry,
// the unassigned sentinel last with its perfect-match and name columns
// zeroed.
func WriteMetrics(w io.Writer, t *Table, o Opts, toolVersion, commandLine string) error {
	if err := writeHeader(w, o, t, toolVersion, commandLine, true); err != nil {
		return err
	}
	tt := computeTotals(t)
	for _, e := range t.Entries()[1:] {
		if err := writeRow(w, e, o, tt, true); err != nil {
			return err
		}
	}
	sentinel := *t.Unassigned()
	sentinel.counters.Perfect = 0
	sentinel.counters.PFPerfect = 0
	sentinel.Name = ""
	sentinelTotals := tt
	sentinelTotals.totalPFReadsAssigned = 0
	return writeRow(w, &sentinel, o, sentinelTotals, true)
}

// WriteHopMetrics implements the tag-hop sibling of C8: a preamble of
// aggregate hop counters, then one row per interned hop entry sorted by
// reads descending, then perfect-match count descending. It is a no-op for
// a single-indexed table.
func WriteHopMetrics(w io.Writer, t *Table, hops *HopTable, o Opts, toolVersion, commandLine string) error {
	if !t.DualIndexed() {
		return nil
	}
	tt := computeTotals(t)

	entries := append([]*Entry(nil), hops.Entries()...)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].counters.Reads != entries[j].counters.Reads {
			return entries[i].counters.Reads > entries[j].counters.Reads
		}
		if entries[i].counters.Perfect != entries[j].counters.Perfect {
			return entries[i].counters.Perfect > entries[j].counters.Perfect
		}
		// Final tie-break: a stable hash of the barcode keeps row order
		// reproducible across runs regardless of the order in which hops
		// were first seen, without sorting lexically on the barcode itself.
		return seahash.Sum64([]byte(barcodeColumn(entries[i]))) < seahash.Sum64([]byte(barcodeColumn(entries[j])))
	})

	var totalHopReads uint64
	for _, e := range entries {
		totalHopReads += e.counters.Reads
	}
	totalOriginalReads := tt.totalReads - t.Unassigned().counters.Reads
	pctHops := 0.0
	if tt.totalReads > 0 {
		pctHops = float64(totalHopReads) / float64(tt.totalReads) * 100
	}
	if _, err := fmt.Fprintf(w, "##\n# TOTAL_READS=%d, TOTAL_ORIGINAL_TAG_READS=%d, TOTAL_TAG_HOP_READS=%d, MAX_READ_ON_A_TAG=%d, TOTAL_TAG_HOPS=%d, PCT_TAG_HOPS=%f\n",
		tt.totalReads, totalOriginalReads, totalHopReads, tt.maxReads, len(entries), pctHops); err != nil {
		return err
	}
	if err := writeHeader(w, o, t, toolVersion, commandLine, false); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writeRow(w, e, o, tt, false); err != nil {
			return err
		}
	}
	return nil
}

// Report opens opts.MetricsName (and, for a dual-indexed table, its
// ".hops" sibling) and writes both metrics files. It is a no-op when
// MetricsName is empty.
func Report(o Opts, t *Table, hops *HopTable, toolVersion, commandLine string) (err error) {
	if o.MetricsName == "" {
		return nil
	}
	f, ferr := os.Create(o.MetricsName)
	if ferr != nil {
		return errors.E(ErrMetricsIO, ferr, "create metrics file", o.MetricsName)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err = WriteMetrics(f, t, o, toolVersion, commandLine); err != nil {
		return errors.E(ErrMetricsIO, err, "write metrics file", o.MetricsName)
	}
	if !t.DualIndexed() {
		return nil
	}

	hopPath := o.MetricsName + ".hops"
	hf, herr := os.Create(hopPath)
	if herr != nil {
		return errors.E(ErrMetricsIO, herr, "create tag hop metrics file", hopPath)
	}
	defer func() {
		if cerr := hf.Close(); err == nil {
			err = cerr
		}
	}()
	if err = WriteHopMetrics(hf, t, hops, o, toolVersion, commandLine); err != nil {
		return errors.E(ErrMetricsIO, err, "write tag hop metrics file", hopPath)
	}
	return nil
}

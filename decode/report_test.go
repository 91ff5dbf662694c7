package decode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteMetricsIncludesChecksumAndRows(t *testing.T) {
	tbl := mustLoadTable(t, singleIndexTable, 0)
	tbl.Entries()[1].Update("ATCACG", true)
	tbl.Entries()[2].Update("CGATGT", true)
	tbl.Entries()[2].Update("CGATGT", false)
	tbl.Unassigned().Update("TTTTTT", true)

	var buf bytes.Buffer
	err := WriteMetrics(&buf, tbl, DefaultOpts(), "1.0", "bio-decode -b t.tsv")
	assert.Nil(t, err)

	out := buf.String()
	assert.True(t, strings.Contains(out, "BARCODE_TABLE_CHECKSUM="))
	assert.True(t, strings.Contains(out, "BARCODE_NAME"))
	assert.True(t, strings.Contains(out, "ATCACG\t1\tLib1\tSample1"))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	last := lines[len(lines)-1]
	fields := strings.Split(last, "\t")
	// sentinel row: BARCODE, then empty BARCODE_NAME/LIBRARY/SAMPLE/DESC.
	assert.Equal(t, "NNNNNN", fields[0])
	assert.Equal(t, "", fields[1])
}

func TestWriteMetricsIgnorePFOmitsColumns(t *testing.T) {
	tbl := mustLoadTable(t, singleIndexTable, 0)
	o := DefaultOpts()
	o.IgnorePF = true

	var buf bytes.Buffer
	assert.Nil(t, WriteMetrics(&buf, tbl, o, "1.0", "cmd"))
	out := buf.String()
	assert.False(t, strings.Contains(out, "PF_READS"))
}

func TestWriteHopMetricsSingleIndexedIsNoOp(t *testing.T) {
	tbl := mustLoadTable(t, singleIndexTable, 0)
	hops := NewHopTable()
	var buf bytes.Buffer
	assert.Nil(t, WriteHopMetrics(&buf, tbl, hops, DefaultOpts(), "1.0", "cmd"))
	assert.Equal(t, 0, buf.Len())
}

func TestWriteHopMetricsSortsByReadsThenPerfect(t *testing.T) {
	tbl := mustLoadTable(t, dualIndexTable, 0)
	hops := NewHopTable()

	hopA := hops.intern("ATCACG", "TTAGGC")
	hopB := hops.intern("CGATGT", "GGCTAC")
	hopA.Update("ATCACG-TTAGGC", true)
	hopB.Update("CGATGT-GGCTAC", true)
	hopB.Update("CGATGT-GGCTAC", true) // hopB has more reads, should sort first

	var buf bytes.Buffer
	assert.Nil(t, WriteHopMetrics(&buf, tbl, hops, DefaultOpts(), "1.0", "cmd"))
	out := buf.String()

	idxA := strings.Index(out, "ATCACG-TTAGGC")
	idxB := strings.Index(out, "CGATGT-GGCTAC")
	assert.True(t, idxB < idxA, "entry with more reads should sort first")
	assert.True(t, strings.Contains(out, "TOTAL_TAG_HOPS=2"))
}

func TestTableChecksumStableAcrossCalls(t *testing.T) {
	tbl := mustLoadTable(t, singleIndexTable, 0)
	assert.Equal(t, tableChecksum(tbl), tableChecksum(tbl))
}

func TestTableChecksumDiffersForDifferentTables(t *testing.T) {
	a := mustLoadTable(t, singleIndexTable, 0)
	b := mustLoadTable(t, dualIndexTable, 0)
	assert.NotEqual(t, tableChecksum(a), tableChecksum(b))
}

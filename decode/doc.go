/*Package decode matches a sequenced sample barcode against an expected
barcode table and rewrites read groups so a downstream tool can split a
multiplexed lane by sample.

A sequencing run pools many samples into one lane. Each sample's library
prep attaches a short index sequence (the "barcode") to every read; the
instrument reports it back as an aux tag on the aligned record, alongside
the original per-base sequencing quality for that tag. This package's job
is to decide, for each template (the set of records sharing a read name),
which expected barcode it came from, and to rewrite the records so that
read group carries that decision.

A barcode table (Table, loaded with LoadTable) maps an expected sequence to
a sample name, library, and other bookkeeping the rewritten header needs. A
read's barcode rarely matches an entry exactly: sequencing errors and
low-quality base calls mean Table.Match has to tolerate some number of
mismatches, while still being confident the match isn't ambiguous against a
different entry. Reads that match nothing confidently enough land on the
table's unassigned sentinel entry.

A dual-indexed table additionally watches for tag hopping: a read whose
first half exactly matches one sample's index and whose second half exactly
matches a different sample's index, a failure mode specific to some
multiplexing chemistries. DetectHop interns these as synthetic entries so
they show up in the tag-hop report (WriteHopMetrics); the main report
(WriteMetrics) still counts them under the unassigned sentinel.

Driver ties the pieces together against a Stream, the small interface this
package uses in place of committing to one record container or codec; see
package recordio for the production implementation backed by
github.com/grailbio/hts.
*/
package decode

package decode

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Opts holds the configuration options for a decode run. There are no
// hidden defaults applied at use time: DefaultOpts sets the documented
// defaults once, explicitly, and every field afterwards means exactly what
// it says, including zero.
type Opts struct {
	// MaxLowQualityToConvert is the inclusive Phred-quality threshold at or
	// below which a barcode base is masked to 'N' by the quality masker
	// (C2). Zero means zero: a barcode whose bases all exceed quality 0 is
	// never masked. This package does not special-case zero into "use the
	// default" the way the original CLI historically did; see DESIGN.md.
	MaxLowQualityToConvert int

	// ConvertLowQuality enables the quality masker (C2). When false, the
	// barcode is matched exactly as read.
	ConvertLowQuality bool

	// MaxNoCalls is the maximum number of no-call bases ('N', 'n', '.') a
	// masked barcode may contain before it is routed to the unassigned
	// sentinel without going through the match engine.
	MaxNoCalls int

	// MaxMismatches is the maximum Hamming distance the match engine (C3)
	// will accept between a candidate and its best-matching table entry.
	MaxMismatches int

	// MinMismatchDelta is the minimum gap the match engine requires between
	// the best and second-best mismatch counts before accepting the best
	// match.
	MinMismatchDelta int

	// ChangeReadName appends "#"+entry.Name to each record's read name, in
	// addition to rewriting its RG tag.
	ChangeReadName bool

	// BarcodeTagName is the two-character aux tag holding the sequenced
	// barcode (commonly "BC").
	BarcodeTagName string

	// QualityTagName is the two-character aux tag holding the barcode's
	// per-base quality string (commonly "QT").
	QualityTagName string

	// IgnorePF omits all PF-qualified columns from the metrics report.
	IgnorePF bool

	// DualTag, when non-zero, is the 1-based offset at which a barcode
	// table entry's concatenated seq is split into (idx1, idx2), in place
	// of splitting on the '-' separator. Setting it non-zero also forces
	// MaxNoCalls to 0 (see Normalize).
	DualTag int

	// MetricsName, if non-empty, is the path the main metrics report is
	// written to. A dual-indexed table additionally gets a
	// MetricsName+".hops" tag-hop report.
	MetricsName string
}

// DefaultOpts returns the documented defaults for every field that has one.
func DefaultOpts() Opts {
	return Opts{
		MaxLowQualityToConvert: 15,
		MaxNoCalls:             2,
		MaxMismatches:          1,
		MinMismatchDelta:       1,
		BarcodeTagName:         "BC",
		QualityTagName:         "QT",
	}
}

// Normalize applies the one documented coupling between options: a non-zero
// DualTag forces MaxNoCalls to 0, since a dual_tag-split barcode has no
// notion of a separator-delimited no-call budget. This is applied once, at
// configuration time, not as a hidden runtime branch in the match engine.
func (o *Opts) Normalize() {
	if o.DualTag != 0 {
		o.MaxNoCalls = 0
	}
}

// Validate checks the option values that can be checked without the
// barcode table (tag name shape, non-negative thresholds). DualTag's range
// depends on the table's sequence length and is validated by LoadTable.
func (o *Opts) Validate() error {
	if len(o.BarcodeTagName) != 2 {
		return errors.E(ErrConfigInvalid, fmt.Sprintf("barcode_tag_name must be 2 characters, got %q", o.BarcodeTagName))
	}
	if len(o.QualityTagName) != 2 {
		return errors.E(ErrConfigInvalid, fmt.Sprintf("quality_tag_name must be 2 characters, got %q", o.QualityTagName))
	}
	if o.MaxNoCalls < 0 {
		return errors.E(ErrConfigInvalid, fmt.Sprintf("max_no_calls must be non-negative, got %d", o.MaxNoCalls))
	}
	if o.MaxMismatches < 0 {
		return errors.E(ErrConfigInvalid, fmt.Sprintf("max_mismatches must be non-negative, got %d", o.MaxMismatches))
	}
	if o.MinMismatchDelta < 0 {
		return errors.E(ErrConfigInvalid, fmt.Sprintf("min_mismatch_delta must be non-negative, got %d", o.MinMismatchDelta))
	}
	if o.DualTag < 0 {
		return errors.E(ErrConfigInvalid, fmt.Sprintf("dual_tag must be non-negative, got %d", o.DualTag))
	}
	return nil
}

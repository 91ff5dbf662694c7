package decode

import "errors"

// Sentinel error kinds a caller can match with errors.Is. Errors returned by
// LoadTable, Opts.Validate, Mask and Driver.Run, and Report's create and
// write failures, wrap exactly one of these via github.com/grailbio/base/errors.E,
// which preserves the sentinel as the Unwrap() target while attaching the
// offending value (a path, a read name, a barcode) as context. RewriteHeader,
// WriteMetrics and WriteHopMetrics return their collaborators' errors
// unwrapped, as does Report for a failure closing a metrics file.
var (
	// ErrConfigInvalid marks an inconsistent or out-of-range Opts value.
	ErrConfigInvalid = errors.New("decode: invalid configuration")

	// ErrBarcodeTableIO marks a failure to read or parse the barcode table.
	ErrBarcodeTableIO = errors.New("decode: barcode table io error")

	// ErrBarcodeShapeMismatch marks a barcode table row whose index lengths
	// disagree with the table's established shape.
	ErrBarcodeShapeMismatch = errors.New("decode: barcode shape mismatch")

	// ErrBarcodeQualityLengthMismatch marks a record whose barcode and
	// quality tag values have different lengths.
	ErrBarcodeQualityLengthMismatch = errors.New("decode: barcode/quality length mismatch")

	// ErrInconsistentTemplateBarcode marks a template whose records disagree
	// on the barcode tag value.
	ErrInconsistentTemplateBarcode = errors.New("decode: inconsistent template barcode")

	// ErrStreamIO marks a failure reading or writing the record stream.
	ErrStreamIO = errors.New("decode: stream io error")

	// ErrMetricsIO marks a failure writing the metrics report.
	ErrMetricsIO = errors.New("decode: metrics io error")
)

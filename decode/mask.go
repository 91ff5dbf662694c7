package decode

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// phredOffset is the ASCII offset Phred+33 quality encoding subtracts.
const phredOffset = 33

// Mask implements C2: replace each barcode base whose corresponding quality
// is at or below maxLowQuality with 'N'. An empty quality string is treated
// as "no quality available" and returns barcode unchanged, matching records
// whose quality tag is absent rather than malformed.
func Mask(barcode, quality string, maxLowQuality int) (string, error) {
	if quality == "" {
		return barcode, nil
	}
	if len(quality) != len(barcode) {
		return "", errors.E(ErrBarcodeQualityLengthMismatch, fmt.Sprintf("barcode %q (%d bases) and quality %q (%d bases) have different lengths", barcode, len(barcode), quality, len(quality)))
	}
	out := []byte(barcode)
	for i := range out {
		q := int(quality[i]) - phredOffset
		if isLetter(out[i]) && q <= maxLowQuality {
			out[i] = 'N'
		}
	}
	return string(out), nil
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

package recordio

import "errors"

var (
	errStreamForeignHeader = errors.New("recordio: SetHeader given a foreign Header implementation")
	errStreamForeignRecord = errors.New("recordio: Write given a foreign Record implementation")
)

package recordio

import (
	"github.com/grailbio/bio-decode/decode"
	"github.com/grailbio/hts/sam"
)

// BAMRecord wraps a *sam.Record to implement decode.Record.
type BAMRecord struct {
	rec *sam.Record
}

func newBAMRecord(rec *sam.Record) *BAMRecord {
	return &BAMRecord{rec: rec}
}

func (r *BAMRecord) Name() string { return r.rec.Name }

func (r *BAMRecord) SetName(name string) { r.rec.Name = name }

func (r *BAMRecord) Aux(tag [2]byte) (string, bool) {
	aux := r.rec.AuxFields.Get(sam.Tag{tag[0], tag[1]})
	if aux == nil {
		return "", false
	}
	v, ok := aux.Value().(string)
	return v, ok
}

// SetAux replaces any existing sub-field under tag with value, or appends a
// new one. AuxFields carries no indexed update, so this filters the
// existing slice by tag and appends, grounded on the Aux.Tag() accessor
// rather than on an internal helper with no available definition.
func (r *BAMRecord) SetAux(tag [2]byte, value string) {
	t := sam.Tag{tag[0], tag[1]}
	out := r.rec.AuxFields[:0]
	for _, aux := range r.rec.AuxFields {
		if aux.Tag() != t {
			out = append(out, aux)
		}
	}
	aux, err := sam.NewAux(t, value)
	if err != nil {
		// value came from our own masking/barcode logic, never user input
		// too large or malformed for a string aux field.
		panic(err)
	}
	r.rec.AuxFields = append(out, aux)
}

func (r *BAMRecord) QCFail() bool { return r.rec.Flags&sam.QCFail != 0 }

var _ decode.Record = (*BAMRecord)(nil)

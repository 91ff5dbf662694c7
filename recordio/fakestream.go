package recordio

import "github.com/grailbio/bio-decode/decode"

// FakeStream is an in-memory decode.Stream for tests that want the real
// recordio header/record wiring (BAMHeader, BAMRecord) without reading or
// writing an actual BAM file. It plays back a fixed slice of records and
// captures whatever is written to it in Output, mirroring the
// header/recs-in, Output-out shape of bamprovider's fake provider.
type FakeStream struct {
	header *BAMHeader
	input  []*BAMRecord
	pos    int
	Output []*BAMRecord
}

// NewFakeStream builds a FakeStream that will yield recs in order and
// report h as its header.
func NewFakeStream(h *BAMHeader, recs []*BAMRecord) *FakeStream {
	return &FakeStream{header: h, input: recs}
}

func (s *FakeStream) Header() decode.Header { return s.header }

func (s *FakeStream) SetHeader(h decode.Header) error {
	native, ok := h.(*BAMHeader)
	if !ok {
		return errStreamForeignHeader
	}
	s.header = native
	return nil
}

func (s *FakeStream) HasNext() bool { return s.pos < len(s.input) }

func (s *FakeStream) Peek() (decode.Record, bool) {
	if !s.HasNext() {
		return nil, false
	}
	return s.input[s.pos], true
}

func (s *FakeStream) Advance() (decode.Record, error) {
	rec, ok := s.Peek()
	if !ok {
		return nil, nil
	}
	s.pos++
	return rec, nil
}

func (s *FakeStream) Write(rec decode.Record) error {
	native, ok := rec.(*BAMRecord)
	if !ok {
		return errStreamForeignRecord
	}
	s.Output = append(s.Output, native)
	return nil
}

func (s *FakeStream) Close() error { return nil }

var _ decode.Stream = (*FakeStream)(nil)

package recordio

import (
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/bio-decode/decode"
	"github.com/grailbio/hts/bam"
)

// BAMStream implements decode.Stream over a BGZF/BAM reader and writer
// pair. Records are read one at a time; Peek buffers at most one record
// ahead so Driver can group a template without consuming past it. The
// writer is opened lazily, on the first Write, so that RewriteHeader can
// still mutate the header returned by Header() beforehand.
type BAMStream struct {
	r           *bam.Reader
	w           *bam.Writer
	h           *BAMHeader
	buf         *BAMRecord
	eof         bool
	writerSink  io.Writer
	concurrency int
}

// OpenBAMStream opens r for reading immediately; w is not touched until the
// first Write, by which point the caller has had a chance to rewrite the
// header via Header()/SetHeader(). concurrency is passed through to the
// underlying bam.Reader/bam.Writer.
func OpenBAMStream(r io.Reader, w io.Writer, concurrency int) (*BAMStream, error) {
	reader, err := bam.NewReader(r, concurrency)
	if err != nil {
		return nil, errors.E(decode.ErrStreamIO, err)
	}
	h, err := newBAMHeader(reader.Header())
	if err != nil {
		return nil, errors.E(decode.ErrStreamIO, err)
	}
	return &BAMStream{r: reader, h: h, writerSink: w, concurrency: concurrency}, nil
}

func (s *BAMStream) Header() decode.Header { return s.h }

func (s *BAMStream) SetHeader(h decode.Header) error {
	native, ok := h.(*BAMHeader)
	if !ok {
		return errors.E(decode.ErrStreamIO, errStreamForeignHeader)
	}
	s.h = native
	return nil
}

func (s *BAMStream) openWriter() error {
	if s.w != nil {
		return nil
	}
	sh, err := s.h.samHeader()
	if err != nil {
		return errors.E(decode.ErrStreamIO, err)
	}
	w, err := bam.NewWriter(s.writerSink, sh, s.concurrency)
	if err != nil {
		return errors.E(decode.ErrStreamIO, err)
	}
	s.w = w
	return nil
}

func (s *BAMStream) fill() error {
	if s.buf != nil || s.eof {
		return nil
	}
	rec, err := s.r.Read()
	if err == io.EOF {
		s.eof = true
		return nil
	}
	if err != nil {
		return errors.E(decode.ErrStreamIO, err)
	}
	s.buf = newBAMRecord(rec)
	return nil
}

func (s *BAMStream) HasNext() bool {
	s.fill()
	return s.buf != nil
}

func (s *BAMStream) Peek() (decode.Record, bool) {
	s.fill()
	if s.buf == nil {
		return nil, false
	}
	return s.buf, true
}

func (s *BAMStream) Advance() (decode.Record, error) {
	if err := s.fill(); err != nil {
		return nil, err
	}
	if s.buf == nil {
		return nil, nil
	}
	r := s.buf
	s.buf = nil
	return r, nil
}

func (s *BAMStream) Write(rec decode.Record) error {
	if err := s.openWriter(); err != nil {
		return err
	}
	native, ok := rec.(*BAMRecord)
	if !ok {
		return errors.E(decode.ErrStreamIO, errStreamForeignRecord)
	}
	if err := s.w.Write(native.rec); err != nil {
		return errors.E(decode.ErrStreamIO, err)
	}
	return nil
}

func (s *BAMStream) Close() error {
	var e errors.Once
	if s.r != nil {
		e.Set(s.r.Close())
	}
	if s.w != nil {
		e.Set(s.w.Close())
	}
	return e.Err()
}

var _ decode.Stream = (*BAMStream)(nil)

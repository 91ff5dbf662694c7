package recordio

import (
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/stretchr/testify/assert"
)

func TestFakeStreamPeekDoesNotConsume(t *testing.T) {
	h, err := newBAMHeader(mustHeader(t, "@HD\tVN:1.5\n"))
	assert.Nil(t, err)
	recs := []*BAMRecord{newBAMRecord(&sam.Record{Name: "read1"})}
	s := NewFakeStream(h, recs)

	r1, ok := s.Peek()
	assert.True(t, ok)
	r2, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, r1, r2)
	assert.True(t, s.HasNext())
}

func TestFakeStreamAdvanceConsumes(t *testing.T) {
	h, err := newBAMHeader(mustHeader(t, "@HD\tVN:1.5\n"))
	assert.Nil(t, err)
	recs := []*BAMRecord{
		newBAMRecord(&sam.Record{Name: "read1"}),
		newBAMRecord(&sam.Record{Name: "read2"}),
	}
	s := NewFakeStream(h, recs)

	r, err := s.Advance()
	assert.Nil(t, err)
	assert.Equal(t, "read1", r.Name())
	assert.True(t, s.HasNext())

	r, err = s.Advance()
	assert.Nil(t, err)
	assert.Equal(t, "read2", r.Name())
	assert.False(t, s.HasNext())
}

func TestFakeStreamWriteCapturesOutput(t *testing.T) {
	h, err := newBAMHeader(mustHeader(t, "@HD\tVN:1.5\n"))
	assert.Nil(t, err)
	s := NewFakeStream(h, nil)

	rec := newBAMRecord(&sam.Record{Name: "read1"})
	assert.Nil(t, s.Write(rec))
	assert.Equal(t, 1, len(s.Output))
	assert.Equal(t, "read1", s.Output[0].Name())
}

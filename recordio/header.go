// Package recordio adapts github.com/grailbio/hts's SAM/BAM codec to the
// small Record/Header/ReadGroup/Stream interfaces package decode operates
// against, and provides an in-memory FakeStream for tests that don't want
// to carry a real BAM file.
package recordio

import (
	"fmt"
	"strings"

	"github.com/grailbio/bio-decode/decode"
	"github.com/grailbio/hts/sam"
)

// bamReadGroup is an ordered set of two-character sub-tags, parsed from (and
// re-serialized to) one @RG header line. Keeping read groups in this plain
// representation, rather than against an uncertain mutation API on
// *sam.RG, means RewriteHeader can add/remove/update tags freely; the
// header is only reparsed into a real *sam.Header once, by
// BAMHeader.samHeader, when the rewritten header is about to be used.
type bamReadGroup struct {
	order []string
	vals  map[string]string
}

func parseReadGroupLine(line string) *bamReadGroup {
	rg := &bamReadGroup{vals: make(map[string]string)}
	for _, field := range strings.Split(line, "\t")[1:] {
		i := strings.IndexByte(field, ':')
		if i < 0 {
			continue
		}
		rg.SetTag(field[:i], field[i+1:])
	}
	return rg
}

func (rg *bamReadGroup) ID() string      { id, _ := rg.Tag("ID"); return id }
func (rg *bamReadGroup) SetID(id string) { rg.SetTag("ID", id) }

func (rg *bamReadGroup) Tag(key string) (string, bool) {
	v, ok := rg.vals[key]
	return v, ok
}

func (rg *bamReadGroup) SetTag(key, value string) {
	if _, ok := rg.vals[key]; !ok {
		rg.order = append(rg.order, key)
	}
	rg.vals[key] = value
}

func (rg *bamReadGroup) Clone() decode.ReadGroup {
	clone := &bamReadGroup{
		order: append([]string(nil), rg.order...),
		vals:  make(map[string]string, len(rg.vals)),
	}
	for k, v := range rg.vals {
		clone.vals[k] = v
	}
	return clone
}

func (rg *bamReadGroup) line() string {
	var b strings.Builder
	b.WriteString("@RG")
	for _, tag := range rg.order {
		b.WriteByte('\t')
		b.WriteString(tag)
		b.WriteByte(':')
		b.WriteString(rg.vals[tag])
	}
	return b.String()
}

var _ decode.ReadGroup = (*bamReadGroup)(nil)

// BAMHeader implements decode.Header by keeping the original header's text
// (minus its @RG lines) alongside a mutable set of read groups and pending
// @PG lines, reassembling them into a real *sam.Header only when needed.
type BAMHeader struct {
	refs     []*sam.Reference
	baseText string
	rgs      []*bamReadGroup
	programs []string
}

func newBAMHeader(h *sam.Header) (*BAMHeader, error) {
	text, err := h.MarshalText()
	if err != nil {
		return nil, err
	}
	var kept []string
	var rgs []*bamReadGroup
	for _, line := range strings.Split(string(text), "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "@RG") {
			rgs = append(rgs, parseReadGroupLine(line))
			continue
		}
		kept = append(kept, line)
	}
	base := strings.Join(kept, "\n")
	if base != "" {
		base += "\n"
	}
	return &BAMHeader{refs: h.Refs(), baseText: base, rgs: rgs}, nil
}

func (h *BAMHeader) ReadGroups() []decode.ReadGroup {
	out := make([]decode.ReadGroup, len(h.rgs))
	for i, rg := range h.rgs {
		out[i] = rg
	}
	return out
}

func (h *BAMHeader) RemoveReadGroup(id string) {
	out := h.rgs[:0]
	for _, rg := range h.rgs {
		if rg.ID() != id {
			out = append(out, rg)
		}
	}
	h.rgs = out
}

func (h *BAMHeader) AddReadGroup(rg decode.ReadGroup) error {
	native, ok := rg.(*bamReadGroup)
	if !ok {
		return fmt.Errorf("recordio: AddReadGroup given a foreign ReadGroup implementation")
	}
	h.rgs = append(h.rgs, native)
	return nil
}

func (h *BAMHeader) AddProgram(id, name, version, commandLine string) error {
	h.programs = append(h.programs, fmt.Sprintf("@PG\tID:%s\tPN:%s\tVN:%s\tCL:%s", id, name, version, commandLine))
	return nil
}

// samHeader reassembles the base header text, the current read groups, and
// any pending program lines into a real *sam.Header.
func (h *BAMHeader) samHeader() (*sam.Header, error) {
	var b strings.Builder
	b.WriteString(h.baseText)
	for _, rg := range h.rgs {
		b.WriteString(rg.line())
		b.WriteByte('\n')
	}
	for _, pg := range h.programs {
		b.WriteString(pg)
		b.WriteByte('\n')
	}
	return sam.NewHeader([]byte(b.String()), h.refs)
}

var _ decode.Header = (*BAMHeader)(nil)

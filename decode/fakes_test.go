package decode

// Minimal in-memory implementations of the Record/Header/ReadGroup/Stream
// interfaces, used only by this package's own tests. The production
// implementation lives in package recordio, backed by github.com/grailbio/hts.

type fakeReadGroup struct {
	id   string
	tags map[string]string
}

func newFakeReadGroup(id string) *fakeReadGroup {
	return &fakeReadGroup{id: id, tags: make(map[string]string)}
}

func (g *fakeReadGroup) ID() string                 { return g.id }
func (g *fakeReadGroup) SetID(id string)            { g.id = id }
func (g *fakeReadGroup) Tag(key string) (string, bool) {
	v, ok := g.tags[key]
	return v, ok
}
func (g *fakeReadGroup) SetTag(key, value string) { g.tags[key] = value }
func (g *fakeReadGroup) Clone() ReadGroup {
	clone := &fakeReadGroup{id: g.id, tags: make(map[string]string, len(g.tags))}
	for k, v := range g.tags {
		clone.tags[k] = v
	}
	return clone
}

type fakeHeader struct {
	rgs      []ReadGroup
	programs []string
}

func (h *fakeHeader) ReadGroups() []ReadGroup {
	out := make([]ReadGroup, len(h.rgs))
	copy(out, h.rgs)
	return out
}

func (h *fakeHeader) RemoveReadGroup(id string) {
	out := h.rgs[:0]
	for _, rg := range h.rgs {
		if rg.ID() != id {
			out = append(out, rg)
		}
	}
	h.rgs = out
}

func (h *fakeHeader) AddReadGroup(rg ReadGroup) error {
	h.rgs = append(h.rgs, rg)
	return nil
}

func (h *fakeHeader) AddProgram(id, name, version, commandLine string) error {
	h.programs = append(h.programs, id+"\t"+name+"\t"+version+"\t"+commandLine)
	return nil
}

type fakeRecord struct {
	name   string
	aux    map[[2]byte]string
	qcFail bool
}

func newFakeRecord(name string) *fakeRecord {
	return &fakeRecord{name: name, aux: make(map[[2]byte]string)}
}

func (r *fakeRecord) Name() string       { return r.name }
func (r *fakeRecord) SetName(name string) { r.name = name }
func (r *fakeRecord) Aux(tag [2]byte) (string, bool) {
	v, ok := r.aux[tag]
	return v, ok
}
func (r *fakeRecord) SetAux(tag [2]byte, value string) { r.aux[tag] = value }
func (r *fakeRecord) QCFail() bool                     { return r.qcFail }

// fakeStream is an in-memory Stream: Peek/HasNext/Advance walk a fixed
// slice of input records, Write appends to an Output slice a caller can
// inspect after Driver.Run returns.
type fakeStream struct {
	header *fakeHeader
	input  []Record
	pos    int
	Output []Record
}

func newFakeStream(h *fakeHeader, input []Record) *fakeStream {
	return &fakeStream{header: h, input: input}
}

func (s *fakeStream) Header() Header { return s.header }
func (s *fakeStream) SetHeader(h Header) error {
	s.header = h.(*fakeHeader)
	return nil
}
func (s *fakeStream) HasNext() bool { return s.pos < len(s.input) }
func (s *fakeStream) Peek() (Record, bool) {
	if !s.HasNext() {
		return nil, false
	}
	return s.input[s.pos], true
}
func (s *fakeStream) Advance() (Record, error) {
	r, ok := s.Peek()
	if !ok {
		return nil, nil
	}
	s.pos++
	return r, nil
}
func (s *fakeStream) Write(r Record) error {
	s.Output = append(s.Output, r)
	return nil
}
func (s *fakeStream) Close() error { return nil }

package decode

// toolName identifies this tool in the rewritten header's @PG line and in
// the metrics report's tool-identity comment.
const toolName = "bio-decode"

// RewriteHeader implements C6: every existing read group is replaced by one
// derived read group per barcode table entry (the unassigned sentinel
// included), and a @PG line records this run's tool name, version, and
// command line.
func RewriteHeader(h Header, t *Table, toolVersion, commandLine string) error {
	originals := h.ReadGroups()
	snapshot := make([]ReadGroup, len(originals))
	copy(snapshot, originals)

	for _, rg := range snapshot {
		h.RemoveReadGroup(rg.ID())
		for _, e := range t.Entries() {
			if err := h.AddReadGroup(deriveReadGroup(rg, e)); err != nil {
				return err
			}
		}
	}
	return h.AddProgram(toolName, toolName, toolVersion, commandLine)
}

// deriveReadGroup returns a copy of rg identified for barcode table entry e:
// ID gets "#"+e.Name appended, PU gets the same suffix, and LB/SM/DS are
// overridden from e when the table supplies a non-empty value.
func deriveReadGroup(rg ReadGroup, e *Entry) ReadGroup {
	derived := rg.Clone()
	derived.SetID(rg.ID() + "#" + e.Name)
	if pu, ok := derived.Tag("PU"); ok {
		derived.SetTag("PU", pu+"#"+e.Name)
	}
	if e.Library != "" {
		derived.SetTag("LB", e.Library)
	}
	if e.Sample != "" {
		derived.SetTag("SM", e.Sample)
	}
	if e.Description != "" {
		derived.SetTag("DS", e.Description)
	}
	return derived
}

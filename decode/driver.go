package decode

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

var rgTag = [2]byte{'R', 'G'}

func tagBytes(name string) [2]byte {
	var t [2]byte
	copy(t[:], name)
	return t
}

// Driver runs C7: it reads templates (records sharing a read name) from a
// Stream, matches each against Table via Match Engine and Tag-Hop Detector,
// rewrites each record's RG tag (and, if configured, its read name), and
// writes it back out. It stops at the first error, per spec: a malformed
// template or a write failure aborts the whole run rather than skipping the
// offending template.
type Driver struct {
	Table *Table
	Hops  *HopTable
	Opts  Opts
}

// Run drives s to completion.
func (d *Driver) Run(s Stream) error {
	barcodeTag := tagBytes(d.Opts.BarcodeTagName)
	qualityTag := tagBytes(d.Opts.QualityTagName)

	for s.HasNext() {
		template, err := loadTemplate(s)
		if err != nil {
			return err
		}
		if len(template) == 0 {
			break
		}
		if err := d.processTemplate(template, barcodeTag, qualityTag, s); err != nil {
			return err
		}
	}
	return nil
}

// loadTemplate consumes and returns every record at the front of s that
// shares the read name of the first. The input must already be grouped by
// read name; loadTemplate does not sort.
func loadTemplate(s Stream) ([]Record, error) {
	first, ok := s.Peek()
	if !ok {
		return nil, nil
	}
	name := first.Name()
	var template []Record
	for {
		rec, ok := s.Peek()
		if !ok || rec.Name() != name {
			break
		}
		r, err := s.Advance()
		if err != nil {
			return nil, errors.E(ErrStreamIO, err, "reading template", name)
		}
		template = append(template, r)
	}
	return template, nil
}

func (d *Driver) processTemplate(template []Record, barcodeTag, qualityTag [2]byte, s Stream) error {
	bcTag, qtTag, haveTag, err := templateBarcode(template, barcodeTag, qualityTag)
	if err != nil {
		return err
	}
	if !haveTag {
		return d.writeAll(template, s)
	}

	newTag := bcTag
	if d.Opts.ConvertLowQuality {
		masked, err := Mask(bcTag, qtTag, d.Opts.MaxLowQualityToConvert)
		if err != nil {
			return err
		}
		newTag = masked
	}

	b1, b2 := d.Table.Split(newTag)
	if len(b1) > d.Table.Idx1Len() {
		b1 = b1[:d.Table.Idx1Len()]
	}
	if len(b2) > d.Table.Idx2Len() {
		b2 = b2[:d.Table.Idx2Len()]
	}
	candidate := b1
	if d.Table.DualIndexed() {
		candidate = b1 + Sep + b2
	}

	isPF := !template[0].QCFail()
	entry := d.Table.Match(candidate, d.Opts.MaxNoCalls, d.Opts.MaxMismatches, d.Opts.MinMismatchDelta)
	entry.Update(candidate, isPF)

	if entry == d.Table.Unassigned() && d.Table.DualIndexed() {
		if hop := d.Table.DetectHop(d.Hops, b1, b2); hop != nil {
			hop.Update(candidate, isPF)
			log.Debug.Printf("tag hop detected: %s (from %s)", hop.Seq, candidate)
		}
	}

	for _, rec := range template {
		existingRG, _ := rec.Aux(rgTag)
		rec.SetAux(rgTag, existingRG+"#"+entry.Name)
		if d.Opts.ChangeReadName {
			rec.SetName(rec.Name() + "#" + entry.Name)
		}
	}
	return d.writeAll(template, s)
}

// templateBarcode scans template for the barcode (and co-located quality)
// tag, erroring if two records disagree on its value.
func templateBarcode(template []Record, barcodeTag, qualityTag [2]byte) (bcTag, qtTag string, haveTag bool, err error) {
	for _, rec := range template {
		v, ok := rec.Aux(barcodeTag)
		if !ok {
			continue
		}
		if haveTag {
			if v != bcTag {
				return "", "", false, errors.E(ErrInconsistentTemplateBarcode, fmt.Sprintf("template %q has two different barcode tags: %q and %q", template[0].Name(), bcTag, v))
			}
			continue
		}
		bcTag, haveTag = v, true
		qtTag, _ = rec.Aux(qualityTag)
	}
	return bcTag, qtTag, haveTag, nil
}

func (d *Driver) writeAll(template []Record, s Stream) error {
	for _, rec := range template {
		if err := s.Write(rec); err != nil {
			return errors.E(ErrStreamIO, err, "writing record", rec.Name())
		}
	}
	return nil
}

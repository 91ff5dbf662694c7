package main

/*
  bio-decode matches the index reads of a BAM/SAM file against a table of
  expected barcodes, rewrites read groups per matched sample, and reports
  per-barcode assignment and tag-hop metrics. For more information, see
  github.com/grailbio/bio-decode/decode/doc.go
*/

import (
	"flag"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/bio-decode/decode"
	"github.com/grailbio/bio-decode/recordio"
)

const version = "1.0.0"

var (
	bamFile                = flag.String("bam", "", "input BAM filename")
	outputPath             = flag.String("output", "", "output BAM filename")
	barcodeFile            = flag.String("barcode-file", "", "tab-separated table of expected barcodes")
	metricsFile            = flag.String("metrics", "", "output metrics filename; tag-hop metrics, when applicable, are written to this path plus '.hops'")
	barcodeTagName         = flag.String("barcode-tag-name", "BC", "two-character SAM tag carrying the raw index read")
	qualityTagName         = flag.String("quality-tag-name", "QT", "two-character SAM tag carrying the index read's quality string")
	dualTag                = flag.Int("dual-index-offset", 0, "1-based position of the last base of the first index within the combined index read (the second index starts right after it); 0 means the index is read from a single Sep-joined tag value")
	maxMismatches          = flag.Int("max-mismatches", 1, "maximum Hamming distance, over the whole index read, to accept a match")
	minMismatchDelta       = flag.Int("min-mismatch-delta", 1, "minimum gap between the best and second-best candidate's mismatch count required to accept a match")
	maxNoCalls             = flag.Int("max-no-calls", 2, "maximum number of no-call bases tolerated in a candidate index read")
	convertLowQuality      = flag.Bool("convert-low-quality", false, "mask index bases whose quality is at or below max-low-quality-to-convert to N before matching")
	maxLowQualityToConvert = flag.Int("max-low-quality-to-convert", 15, "Phred quality threshold used by convert-low-quality")
	changeReadName         = flag.Bool("change-read-name", false, "append the matched barcode name to each read's name")
	ignorePF               = flag.Bool("ignore-pf", false, "omit PF-specific columns from the metrics report")
	concurrency            = flag.Int("concurrency", 4, "BAM reader/writer concurrency")
)

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() > 0 {
		a := flag.Args()
		log.Fatalf("unparsed flags, please check flag syntax: '%s'", strings.Join(a[len(a)-flag.NArg():], " "))
	}
	if *bamFile == "" || *outputPath == "" || *barcodeFile == "" {
		log.Fatalf("-bam, -output, and -barcode-file are required")
	}

	opts := decode.DefaultOpts()
	opts.BarcodeTagName = *barcodeTagName
	opts.QualityTagName = *qualityTagName
	opts.DualTag = *dualTag
	opts.MaxMismatches = *maxMismatches
	opts.MinMismatchDelta = *minMismatchDelta
	opts.MaxNoCalls = *maxNoCalls
	opts.ConvertLowQuality = *convertLowQuality
	opts.MaxLowQualityToConvert = *maxLowQualityToConvert
	opts.ChangeReadName = *changeReadName
	opts.IgnorePF = *ignorePF
	opts.MetricsName = *metricsFile
	opts.Normalize()

	if err := opts.Validate(); err != nil {
		log.Fatalf(err.Error())
	}

	barcodes, err := os.Open(*barcodeFile)
	if err != nil {
		log.Fatalf(err.Error())
	}
	table, err := decode.LoadTable(barcodes, opts.DualTag)
	barcodes.Close()
	if err != nil {
		log.Fatalf(err.Error())
	}

	in, err := os.Open(*bamFile)
	if err != nil {
		log.Fatalf(err.Error())
	}
	defer in.Close()

	out, err := os.Create(*outputPath)
	if err != nil {
		log.Fatalf(err.Error())
	}
	defer out.Close()

	stream, err := recordio.OpenBAMStream(in, out, *concurrency)
	if err != nil {
		log.Fatalf(err.Error())
	}

	commandLine := "bio-decode " + strings.Join(os.Args[1:], " ")
	if err := decode.RewriteHeader(stream.Header(), table, version, commandLine); err != nil {
		log.Fatalf(err.Error())
	}

	hops := decode.NewHopTable()
	driver := &decode.Driver{Table: table, Hops: hops, Opts: opts}
	if err := driver.Run(stream); err != nil {
		log.Fatalf(err.Error())
	}
	if err := stream.Close(); err != nil {
		log.Fatalf(err.Error())
	}

	if err := decode.Report(opts, table, hops, version, commandLine); err != nil {
		log.Fatalf(err.Error())
	}
	log.Debug.Printf("exiting")
}

// umi-check scans a read file, looks for each read's UMI inside its
// sequence, and reports how many reads still carry the UMI. With an
// output prefix it also partitions the input: reads without the UMI go
// to <prefix>.<suffix>, reads still carrying it to
// <prefix>.removed.<suffix>.
//
// Inputs may be FASTQ (optionally gzipped), BAM, or SAM; the type is
// inferred from the file name. The summary is a single TSV line on
// stdout:
//
//	name  total  with_umi  pct_with_umi  without_umi  pct_without_umi
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/umicheck/checker"
	"github.com/klauspost/compress/gzip"
)

var (
	umiLengthFlag = flag.Int("umi-length", checker.DefaultOpts.UMILength,
		"Length in bases of the UMI encoded in each read name")
	mismatchesFlag = flag.Int("mismatches", checker.DefaultOpts.MaxMismatches,
		"Maximum mismatches tolerated when searching for the UMI in the sequence (0-3)")
	parallelismFlag = flag.Int("parallelism", checker.DefaultOpts.Parallelism,
		"Number of concurrent classification workers")
	outputFlag = flag.String("output", "",
		"Output path prefix for the partitioned reads. Empty writes no reads, only the summary")
	verboseFlag = flag.Bool("v", false, "Log record counts and elapsed time")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] input.{fq,fastq,fq.gz,fastq.gz,bam,sam}\n", os.Args[0])
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	input := flag.Arg(0)
	opts := checker.Opts{
		UMILength:     *umiLengthFlag,
		MaxMismatches: *mismatchesFlag,
		Parallelism:   *parallelismFlag,
	}
	if err := opts.Validate(); err != nil {
		log.Fatal(err)
	}
	ft, err := fileTypeFromPath(input)
	if err != nil {
		log.Fatal(err)
	}

	ctx := vcontext.Background()
	start := time.Now()
	stats, err := process(ctx, input, ft, opts, *outputFlag)
	if err != nil {
		log.Fatalf("%s: %v", input, err)
	}
	if err := writeSummary(os.Stdout, filepath.Base(input), stats.Summarize()); err != nil {
		log.Fatal(err)
	}
	if *verboseFlag {
		log.Printf("%s: classified %d records in %.3fs",
			input, stats.Total, time.Since(start).Seconds())
	}
}

// outFile pairs a created file with its optional gzip layer so both can
// be closed in the right order.
type outFile struct {
	f  file.File
	gz *gzip.Writer
	w  io.Writer
}

func createOutput(ctx context.Context, path string) (*outFile, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, err
	}
	o := &outFile{f: f, w: f.Writer(ctx)}
	if strings.HasSuffix(path, ".gz") {
		o.gz = gzip.NewWriter(o.w)
		o.w = o.gz
	}
	return o, nil
}

func (o *outFile) close(ctx context.Context) error {
	e := errors.Once{}
	if o.gz != nil {
		e.Set(o.gz.Close())
	}
	e.Set(o.f.Close(ctx))
	return e.Err()
}

// process classifies every record of the input, writing the partitions
// when prefix is nonempty.
func process(ctx context.Context, input string, ft fileType, opts checker.Opts, prefix string) (stats checker.Stats, err error) {
	in, err := file.Open(ctx, input)
	if err != nil {
		return checker.Stats{}, err
	}
	defer file.CloseAndReport(ctx, in, &err)

	var outs []*outFile
	defer func() {
		for _, o := range outs {
			if e := o.close(ctx); e != nil && err == nil {
				err = e
			}
		}
	}()
	newOutput := func(path string) (io.Writer, error) {
		o, e := createOutput(ctx, path)
		if e != nil {
			return nil, e
		}
		outs = append(outs, o)
		return o.w, nil
	}
	var cleanOut, removedOut io.Writer
	if prefix != "" {
		cleanPath, removedPath := ft.outputPaths(prefix)
		if cleanOut, err = newOutput(cleanPath); err != nil {
			return stats, err
		}
		if removedOut, err = newOutput(removedPath); err != nil {
			return stats, err
		}
		if *verboseFlag {
			log.Printf("writing %s and %s", cleanPath, removedPath)
		}
	}

	var (
		r      checker.Reader
		w      checker.Writer = checker.Discard
		header *sam.Header
	)
	switch ft {
	case fastqType, fastqGzType:
		var src io.Reader = in.Reader(ctx)
		if u := compress.NewReaderPath(src, input); u != nil {
			src = u
		}
		r = checker.NewFASTQReader(src)
		if cleanOut != nil {
			w = checker.NewFASTQWriter(removedOut, cleanOut)
		}
	case bamType:
		if r, header, err = checker.NewBAMReader(in.Reader(ctx), opts.Parallelism); err != nil {
			return stats, err
		}
		if cleanOut != nil {
			if w, err = checker.NewBAMWriter(removedOut, cleanOut, header); err != nil {
				return stats, err
			}
		}
	case samType:
		if r, header, err = checker.NewSAMReader(in.Reader(ctx)); err != nil {
			return stats, err
		}
		if cleanOut != nil {
			if w, err = checker.NewSAMWriter(removedOut, cleanOut, header); err != nil {
				return stats, err
			}
		}
	}

	stats, err = checker.Run(ctx, r, w, opts)
	if e := w.Close(); e != nil && err == nil {
		err = e
	}
	return stats, err
}

// writeSummary emits the one-line TSV report.
func writeSummary(out io.Writer, name string, sum checker.Summary) error {
	w := tsv.NewWriter(out)
	w.WriteString(name)
	w.WriteInt64(sum.Total)
	w.WriteInt64(sum.WithUMI)
	w.WriteString(strconv.FormatFloat(sum.PctWithUMI, 'f', 2, 64))
	w.WriteInt64(sum.WithoutUMI)
	w.WriteString(strconv.FormatFloat(sum.PctWithoutUMI, 'f', 2, 64))
	if err := w.EndLine(); err != nil {
		return err
	}
	return w.Flush()
}

package checker

import (
	"io"

	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/umicheck/encoding/fastq"
	"github.com/grailbio/umicheck/umi"
	pkgerrors "github.com/pkg/errors"
)

// fastqRecord wraps a full FASTQ read so the writer can reproduce all
// four lines verbatim.
type fastqRecord struct {
	read fastq.Read
}

func (r *fastqRecord) Name() string {
	// The scanner guarantees the ID line starts with "@".
	return r.read.ID[1:]
}

func (r *fastqRecord) Bases() []byte {
	return gunsafe.StringToBytes(r.read.Seq)
}

type fastqReader struct {
	sc  *fastq.Scanner
	cur *fastqRecord
}

// NewFASTQReader returns a Reader yielding the records of a FASTQ
// stream. The input must already be decompressed.
func NewFASTQReader(in io.Reader) Reader {
	return &fastqReader{sc: fastq.NewScanner(in)}
}

func (r *fastqReader) Scan() bool {
	rec := &fastqRecord{}
	if !r.sc.Scan(&rec.read) {
		return false
	}
	r.cur = rec
	return true
}

func (r *fastqReader) Record() Record { return r.cur }

func (r *fastqReader) Err() error {
	return pkgerrors.Wrap(r.sc.Err(), "reading FASTQ input")
}

type fastqWriter struct {
	withUMI    *fastq.Writer
	withoutUMI *fastq.Writer
}

// NewFASTQWriter returns a Writer that copies each record to one of two
// FASTQ outputs: reads whose UMI was found in the sequence go to
// withUMI, the rest (including extraction failures) to withoutUMI.
// Compression and closing of the underlying streams stay with the
// caller.
func NewFASTQWriter(withUMI, withoutUMI io.Writer) Writer {
	return &fastqWriter{
		withUMI:    fastq.NewWriter(withUMI),
		withoutUMI: fastq.NewWriter(withoutUMI),
	}
}

func (w *fastqWriter) Write(rec Record, v umi.Verdict) error {
	fr, ok := rec.(*fastqRecord)
	if !ok {
		return pkgerrors.Errorf("fastq writer: unexpected record type %T", rec)
	}
	out := w.withoutUMI
	if v.HasUMI() {
		out = w.withUMI
	}
	return pkgerrors.Wrap(out.Write(&fr.read), "writing FASTQ output")
}

func (w *fastqWriter) Close() error { return nil }

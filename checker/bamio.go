package checker

import (
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/umicheck/umi"
	pkgerrors "github.com/pkg/errors"
	"v.io/x/lib/vlog"
)

// bamRecord adapts a sam.Record. The 4-bit encoded sequence is expanded
// once, by the worker that owns the record.
type bamRecord struct {
	rec   *sam.Record
	bases []byte
}

func (r *bamRecord) Name() string { return r.rec.Name }

func (r *bamRecord) Bases() []byte {
	if r.bases == nil {
		r.bases = r.rec.Seq.Expand()
	}
	return r.bases
}

// samRecordReader is the part of bam.Reader and sam.Reader the stream
// adapter needs.
type samRecordReader interface {
	Read() (*sam.Record, error)
}

type alnReader struct {
	rr  samRecordReader
	cur Record
	err error
}

func (r *alnReader) Scan() bool {
	rec, err := r.rr.Read()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}
	r.cur = &bamRecord{rec: rec}
	return true
}

func (r *alnReader) Record() Record { return r.cur }
func (r *alnReader) Err() error     { return r.err }

// NewBAMReader returns a Reader yielding the records of a BAM stream,
// along with the header needed to construct the matching writer.
// parallelism bounds the number of bgzf decompression workers.
func NewBAMReader(in io.Reader, parallelism int) (Reader, *sam.Header, error) {
	br, err := bam.NewReader(in, parallelism)
	if err != nil {
		return nil, nil, errors.E(err, "opening BAM input")
	}
	h := br.Header()
	vlog.VI(1).Infof("bam: header with %d references", len(h.Refs()))
	return &alnReader{rr: br}, h, nil
}

// NewSAMReader is the text-format counterpart of NewBAMReader.
func NewSAMReader(in io.Reader) (Reader, *sam.Header, error) {
	sr, err := sam.NewReader(in)
	if err != nil {
		return nil, nil, errors.E(err, "opening SAM input")
	}
	return &alnReader{rr: sr}, sr.Header(), nil
}

// samRecordWriter is the part of bam.Writer and sam.Writer the
// partitioned writer needs.
type samRecordWriter interface {
	Write(*sam.Record) error
}

type alnWriter struct {
	withUMI    samRecordWriter
	withoutUMI samRecordWriter
	close      func() error
}

// NewBAMWriter returns a Writer that copies each record to one of two
// BAM outputs, both carrying the input's header. Close finishes both
// BAM streams (the EOF marker) but leaves the underlying transport to
// the caller.
func NewBAMWriter(withUMI, withoutUMI io.Writer, h *sam.Header) (Writer, error) {
	wu, err := bam.NewWriter(withUMI, h, 1)
	if err != nil {
		return nil, errors.E(err, "creating BAM output")
	}
	wo, err := bam.NewWriter(withoutUMI, h, 1)
	if err != nil {
		return nil, errors.E(err, "creating BAM output")
	}
	return &alnWriter{
		withUMI:    wu,
		withoutUMI: wo,
		close: func() error {
			e := errors.Once{}
			e.Set(wu.Close())
			e.Set(wo.Close())
			return e.Err()
		},
	}, nil
}

// NewSAMWriter is the text-format counterpart of NewBAMWriter.
func NewSAMWriter(withUMI, withoutUMI io.Writer, h *sam.Header) (Writer, error) {
	wu, err := sam.NewWriter(withUMI, h, sam.FlagDecimal)
	if err != nil {
		return nil, errors.E(err, "creating SAM output")
	}
	wo, err := sam.NewWriter(withoutUMI, h, sam.FlagDecimal)
	if err != nil {
		return nil, errors.E(err, "creating SAM output")
	}
	return &alnWriter{withUMI: wu, withoutUMI: wo, close: func() error { return nil }}, nil
}

func (w *alnWriter) Write(rec Record, v umi.Verdict) error {
	br, ok := rec.(*bamRecord)
	if !ok {
		return pkgerrors.Errorf("alignment writer: unexpected record type %T", rec)
	}
	out := w.withoutUMI
	if v.HasUMI() {
		out = w.withUMI
	}
	return out.Write(br.rec)
}

func (w *alnWriter) Close() error { return w.close() }

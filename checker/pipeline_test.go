package checker

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/umicheck/umi"
)

type memRecord struct {
	name string
	seq  string
}

func (r memRecord) Name() string  { return r.name }
func (r memRecord) Bases() []byte { return []byte(r.seq) }

type sliceReader struct {
	recs []memRecord
	next int
	err  error
}

func (r *sliceReader) Scan() bool {
	if r.next >= len(r.recs) {
		return false
	}
	r.next++
	return true
}

func (r *sliceReader) Record() Record { return r.recs[r.next-1] }
func (r *sliceReader) Err() error     { return r.err }

// collectWriter records routed names. Write is always called from a
// single goroutine, so no locking is needed.
type collectWriter struct {
	withUMI    []string
	withoutUMI []string
	failAt     int // fail the nth write when > 0
	writes     int
}

func (w *collectWriter) Write(rec Record, v umi.Verdict) error {
	w.writes++
	if w.failAt > 0 && w.writes >= w.failAt {
		return errors.New("disk full")
	}
	if v.HasUMI() {
		w.withUMI = append(w.withUMI, rec.Name())
	} else {
		w.withoutUMI = append(w.withoutUMI, rec.Name())
	}
	return nil
}

func (w *collectWriter) Close() error { return nil }

var testOpts = Opts{UMILength: 4, MaxMismatches: 0, Parallelism: 4}

// testRecords returns n records; every third one carries its UMI in the
// sequence and every seventh one has no extractable token.
func testRecords(n int) (recs []memRecord, withUMI int) {
	for i := 0; i < n; i++ {
		switch {
		case i%7 == 0:
			recs = append(recs, memRecord{fmt.Sprintf("r%d", i), "GGGGACGTGGGG"})
		case i%3 == 0:
			recs = append(recs, memRecord{fmt.Sprintf("r%d:ACGT", i), "GGGGACGTGGGG"})
			withUMI++
		default:
			recs = append(recs, memRecord{fmt.Sprintf("r%d:TTTT", i), "GGGGACGTGGGG"})
		}
	}
	return recs, withUMI
}

func TestRun(t *testing.T) {
	recs, withUMI := testRecords(100)
	w := &collectWriter{}
	stats, err := Run(context.Background(), &sliceReader{recs: recs}, w, testOpts)
	assert.NoError(t, err)
	expect.EQ(t, stats.Total, int64(100))
	expect.EQ(t, stats.WithUMI, int64(withUMI))
	expect.EQ(t, stats.WithoutUMI, int64(100-withUMI))
	expect.EQ(t, len(w.withUMI), withUMI)
	expect.EQ(t, len(w.withoutUMI), 100-withUMI)
}

// TestRunWorkerCounts checks that the tallies are exact regardless of
// worker count and scheduling order.
func TestRunWorkerCounts(t *testing.T) {
	recs, _ := testRecords(1000)
	var base Stats
	var basePartition []string
	for i, parallelism := range []int{1, 2, 4, 16} {
		opts := testOpts
		opts.Parallelism = parallelism
		w := &collectWriter{}
		stats, err := Run(context.Background(), &sliceReader{recs: recs}, w, opts)
		assert.NoError(t, err)
		expect.EQ(t, stats.Total, stats.WithUMI+stats.WithoutUMI)
		partition := append([]string{}, w.withUMI...)
		sort.Strings(partition)
		if i == 0 {
			base, basePartition = stats, partition
			continue
		}
		expect.EQ(t, stats, base, "parallelism=%d", parallelism)
		expect.EQ(t, partition, basePartition, "parallelism=%d", parallelism)
	}
}

func TestRunEmptyStream(t *testing.T) {
	w := &collectWriter{}
	stats, err := Run(context.Background(), &sliceReader{}, w, testOpts)
	assert.NoError(t, err)
	expect.EQ(t, stats, Stats{})
	expect.EQ(t, stats.Summarize(), Summary{})
	expect.EQ(t, w.writes, 0)
}

func TestRunConfigError(t *testing.T) {
	r := &sliceReader{recs: []memRecord{{"r0:ACGT", "ACGT"}}}
	opts := testOpts
	opts.MaxMismatches = 4
	_, err := Run(context.Background(), r, &collectWriter{}, opts)
	assert.HasSubstr(t, err.Error(), "max mismatches")
	// Nothing was dispatched.
	expect.EQ(t, r.next, 0)
}

func TestRunWriterError(t *testing.T) {
	recs, _ := testRecords(50000)
	w := &collectWriter{failAt: 10}
	_, err := Run(context.Background(), &sliceReader{recs: recs}, w, testOpts)
	assert.HasSubstr(t, err.Error(), "disk full")
}

func TestRunReaderError(t *testing.T) {
	recs, _ := testRecords(10)
	r := &sliceReader{recs: recs, err: errors.New("truncated input")}
	stats, err := Run(context.Background(), r, &collectWriter{}, testOpts)
	assert.HasSubstr(t, err.Error(), "truncated input")
	// Records yielded before the failure were still classified.
	expect.EQ(t, stats.Total, int64(10))
}

func TestRunDiscard(t *testing.T) {
	recs, withUMI := testRecords(30)
	stats, err := Run(context.Background(), &sliceReader{recs: recs}, Discard, testOpts)
	assert.NoError(t, err)
	expect.EQ(t, stats.WithUMI, int64(withUMI))
}

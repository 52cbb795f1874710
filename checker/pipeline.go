package checker

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/umicheck/umi"
)

// Channel depths bound the number of in-flight records, so memory use
// is proportional to the worker count, not the input size.
const (
	requestBuf = 1024
	resultBuf  = 1024
)

type result struct {
	rec Record
	v   umi.Verdict
}

// Run streams records from r through a fixed pool of opts.Parallelism
// classification workers and hands every (record, verdict) pair to w.
// Workers share nothing: each keeps a local Stats that is folded into
// the returned total after the stream drains, so the counts are exact
// for any worker count.
//
// A writer error stops dispatch of new records; records already handed
// to a worker still complete (and are counted) but are no longer
// written. A reader error likewise ends dispatch after in-flight work
// drains. Either error is returned, and the caller should treat the
// returned Stats as partial in that case. Run does not close w.
func Run(ctx context.Context, r Reader, w Writer, opts Opts) (Stats, error) {
	if err := opts.Validate(); err != nil {
		return Stats{}, err
	}

	var (
		reqCh   = make(chan Record, requestBuf)
		resCh   = make(chan result, resultBuf)
		stop    = make(chan struct{})
		tallies = make([]Stats, opts.Parallelism)
		once    = errors.Once{}
	)

	// Worker pool. Each worker drains reqCh until it closes; workers
	// never block each other, only the bounded channels pace them.
	go func() {
		defer close(resCh)
		_ = traverse.Each(opts.Parallelism, func(i int) error {
			tally := &tallies[i]
			for rec := range reqCh {
				v := umi.Classify(rec.Name(), rec.Bases(), opts.UMILength, opts.MaxMismatches)
				tally.observe(v)
				resCh <- result{rec: rec, v: v}
			}
			return nil
		})
	}()

	// Feeder. Stops dispatching once the writer has failed or the
	// context is done; a reader error surfaces via r.Err after Scan
	// returns false.
	go func() {
		defer close(reqCh)
		for r.Scan() {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				once.Set(ctx.Err())
				return
			case reqCh <- r.Record():
			}
		}
		once.Set(r.Err())
	}()

	// Single consumer: writes results and, on the first write error,
	// keeps draining so the workers can finish.
	writeFailed := false
	for res := range resCh {
		if writeFailed {
			continue
		}
		if err := w.Write(res.rec, res.v); err != nil {
			once.Set(err)
			writeFailed = true
			close(stop)
		}
	}

	var stats Stats
	for _, tally := range tallies {
		stats = stats.Merge(tally)
	}
	return stats, once.Err()
}

package checker

import "github.com/grailbio/umicheck/umi"

// Stats counts classification outcomes for one input. Workers keep
// their own Stats and the pipeline folds them together once the stream
// is drained, so no counter is ever shared between goroutines.
type Stats struct {
	// Total is the number of records classified.
	Total int64
	// WithUMI counts records whose UMI was found in the sequence.
	WithUMI int64
	// WithoutUMI counts the rest, including records where no UMI token
	// could be extracted from the identifier. That convention matches
	// the routing of the output partitions; see observe.
	WithoutUMI int64
}

// observe folds one verdict into the tally. Records with no extractable
// UMI count against the without-UMI bucket, the convention the summary
// line has always used.
func (s *Stats) observe(v umi.Verdict) {
	s.Total++
	if v.HasUMI() {
		s.WithUMI++
	} else {
		s.WithoutUMI++
	}
}

// Merge adds the field values of the two Stats and returns the result.
// Merge is commutative and associative, so per-worker tallies can be
// folded in any order.
func (s Stats) Merge(o Stats) Stats {
	s.Total += o.Total
	s.WithUMI += o.WithUMI
	s.WithoutUMI += o.WithoutUMI
	return s
}

// Summary is the finalized view of Stats exposed to reporting.
type Summary struct {
	Total, WithUMI, WithoutUMI int64
	PctWithUMI, PctWithoutUMI  float64
}

// Summarize derives the percentage fields. Both percentages are 0 when
// no records were processed; an empty input is not a fault.
func (s Stats) Summarize() Summary {
	sum := Summary{
		Total:      s.Total,
		WithUMI:    s.WithUMI,
		WithoutUMI: s.WithoutUMI,
	}
	if s.Total > 0 {
		sum.PctWithUMI = 100 * float64(s.WithUMI) / float64(s.Total)
		sum.PctWithoutUMI = 100 * float64(s.WithoutUMI) / float64(s.Total)
	}
	return sum
}

package checker

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/umicheck/umi"
)

func TestStatsObserve(t *testing.T) {
	var s Stats
	s.observe(umi.Verdict{Kind: umi.Found, Offset: 3})
	s.observe(umi.Verdict{Kind: umi.NotFound})
	// Extraction failures land in the without-UMI bucket.
	s.observe(umi.Verdict{Kind: umi.ExtractionFailed})
	expect.EQ(t, s, Stats{Total: 3, WithUMI: 1, WithoutUMI: 2})
	expect.EQ(t, s.Total, s.WithUMI+s.WithoutUMI)
}

func TestStatsMerge(t *testing.T) {
	a := Stats{Total: 5, WithUMI: 2, WithoutUMI: 3}
	b := Stats{Total: 7, WithUMI: 7}
	want := Stats{Total: 12, WithUMI: 9, WithoutUMI: 3}
	expect.EQ(t, a.Merge(b), want)
	expect.EQ(t, b.Merge(a), want)
	expect.EQ(t, a.Merge(Stats{}), a)
}

func TestSummarize(t *testing.T) {
	s := Stats{Total: 8, WithUMI: 6, WithoutUMI: 2}
	sum := s.Summarize()
	expect.EQ(t, sum.PctWithUMI, 75.0)
	expect.EQ(t, sum.PctWithoutUMI, 25.0)
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Stats{}.Summarize()
	expect.EQ(t, sum, Summary{})
}

package umi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		id   string
		seq  string
		want Verdict
	}{
		{
			name: "exact match at the start",
			id:   "read1:ACGTACGTACGT",
			seq:  "ACGTACGTACGTTTTT",
			want: Verdict{Kind: Found, Offset: 0},
		},
		{
			name: "match away from the start",
			id:   "read2:ACGTACGTACGT",
			seq:  "GGGGACGTACGTACGTGGGG",
			want: Verdict{Kind: Found, Offset: 4},
		},
		{
			name: "umi absent from the sequence",
			id:   "read3:ACGTACGTACGT",
			seq:  "TTTTTTTTTTTTTTTT",
			want: Verdict{Kind: NotFound},
		},
		{
			name: "no umi token in the identifier",
			id:   "read4",
			seq:  "ACGTACGTACGTTTTT",
			want: Verdict{Kind: ExtractionFailed},
		},
		{
			name: "token with the wrong length",
			id:   "read5:ACGT",
			seq:  "ACGTACGTACGTTTTT",
			want: Verdict{Kind: ExtractionFailed},
		},
	}
	for _, test := range tests {
		got := Classify(test.id, []byte(test.seq), 12, 0)
		assert.Equal(t, test.want, got, test.name)
	}
}

func TestClassifyMismatchBudget(t *testing.T) {
	// "ACGA" in the read is one substitution from the "ACGT" in the
	// header.
	const id = "read1:ACGT"
	seq := []byte("TTTTACGATTTT")
	assert.Equal(t, Verdict{Kind: NotFound}, Classify(id, seq, 4, 0))
	assert.Equal(t, Verdict{Kind: Found, Offset: 4}, Classify(id, seq, 4, 1))
}

func TestClassifyDeterministic(t *testing.T) {
	const id = "read1:ACGTACGTACGT"
	seq := []byte("GGGGACGTACGAACGTGGGG")
	for max := 0; max <= 3; max++ {
		first := Classify(id, seq, 12, max)
		second := Classify(id, seq, 12, max)
		assert.Equal(t, first, second, "max=%d", max)
	}
}

func TestVerdictHasUMI(t *testing.T) {
	assert.True(t, Verdict{Kind: Found}.HasUMI())
	assert.False(t, Verdict{Kind: NotFound}.HasUMI())
	// Reads with no extractable token are routed with the no-UMI reads.
	assert.False(t, Verdict{Kind: ExtractionFailed}.HasUMI())
}

package umi

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	lsbMask  = 0x0101010101010101
	msbMask  = 0x8080808080808080
	nPattern = 0x4e4e4e4e4e4e4e4e // 'N' in every byte
)

// countNonzeroBytes returns the number of nonzero bytes in x. Each byte
// folds its set bits into its LSB, then a multiply sums the LSBs into
// the top byte.
func countNonzeroBytes(x uint64) int {
	x |= x >> 4
	x |= x >> 2
	x |= x >> 1
	x &= lsbMask
	return int(x * lsbMask >> 56)
}

// nMask returns a word with 0x80 in every byte position of x that holds
// an uppercase 'N'.
func nMask(x uint64) uint64 {
	d := x ^ nPattern
	return (d - lsbMask) &^ d & msbMask
}

// HammingDistance returns the number of positions at which a and b
// differ, processing eight bytes per step. An uppercase 'N' on either
// side counts as a mismatch even when the other side is also 'N': an
// unknown base supports no match. Panics if the lengths differ.
func HammingDistance(a, b []byte) int {
	if len(a) != len(b) {
		panic(fmt.Sprintf("HammingDistance: length mismatch %d != %d", len(a), len(b)))
	}
	var d, i int
	for ; i+8 <= len(a); i += 8 {
		x := binary.LittleEndian.Uint64(a[i:])
		y := binary.LittleEndian.Uint64(b[i:])
		d += countNonzeroBytes((x ^ y) | nMask(x) | nMask(y))
	}
	for ; i < len(a); i++ {
		if a[i] != b[i] || a[i] == 'N' || b[i] == 'N' {
			d++
		}
	}
	return d
}

// withinDistance reports whether HammingDistance(a, b) <= max, bailing
// out as soon as the running count exceeds the budget.
func withinDistance(a, b []byte, max int) bool {
	var d, i int
	for ; i+8 <= len(a); i += 8 {
		x := binary.LittleEndian.Uint64(a[i:])
		y := binary.LittleEndian.Uint64(b[i:])
		d += countNonzeroBytes((x ^ y) | nMask(x) | nMask(y))
		if d > max {
			return false
		}
	}
	for ; i < len(a); i++ {
		if a[i] != b[i] || a[i] == 'N' || b[i] == 'N' {
			d++
			if d > max {
				return false
			}
		}
	}
	return true
}

// Find returns the leftmost offset at which umi occurs in seq with at
// most maxMismatches mismatching positions, and whether any such offset
// exists. The leftmost-match rule is deliberate: it pins the earliest
// position in the read so reruns are reproducible.
//
// A budget of zero is a plain byte-equality substring search, so 'N'
// matches 'N' there; with a positive budget 'N' on either side counts
// as a mismatch (see HammingDistance). If seq is shorter than umi the
// result is simply "not found".
//
// With a positive budget the scan uses a pigeonhole prefilter: umi is
// split into maxMismatches+1 chunks, and a window is only fully
// compared when at least one chunk matches exactly. No window within
// the budget can escape the prefilter, and nothing is allocated per
// offset.
func Find(seq, umi []byte, maxMismatches int) (int, bool) {
	n := len(umi)
	if n == 0 || len(seq) < n {
		return 0, false
	}
	if maxMismatches == 0 {
		if i := bytes.Index(seq, umi); i >= 0 {
			return i, true
		}
		return 0, false
	}

	numChunks := maxMismatches + 1
	if n < numChunks {
		// Too short to chunk; scan every window.
		for i := 0; i+n <= len(seq); i++ {
			if withinDistance(seq[i:i+n], umi, maxMismatches) {
				return i, true
			}
		}
		return 0, false
	}

	chunkSize := n / numChunks
	for i := 0; i+n <= len(seq); i++ {
		window := seq[i : i+n]
		if !anyChunkEqual(window, umi, chunkSize, numChunks) {
			continue
		}
		if withinDistance(window, umi, maxMismatches) {
			return i, true
		}
	}
	return 0, false
}

// anyChunkEqual reports whether any of the numChunks chunks of umi
// matches the corresponding bytes of window exactly. The last chunk
// absorbs the remainder when len(umi) is not a multiple of chunkSize.
func anyChunkEqual(window, umi []byte, chunkSize, numChunks int) bool {
	for c := 0; c < numChunks; c++ {
		start := c * chunkSize
		end := start + chunkSize
		if c == numChunks-1 {
			end = len(umi)
		}
		if bytes.Equal(window[start:end], umi[start:end]) {
			return true
		}
	}
	return false
}

package umi

import (
	gunsafe "github.com/grailbio/base/unsafe"
)

// VerdictKind enumerates classification outcomes for a single read.
type VerdictKind uint8

const (
	// Found means the UMI from the identifier occurs in the read
	// sequence within the mismatch budget.
	Found VerdictKind = iota
	// NotFound means a UMI was extracted but no window of the read
	// sequence is within the mismatch budget.
	NotFound
	// ExtractionFailed means no well-formed UMI token could be
	// extracted from the read identifier.
	ExtractionFailed
)

// String returns a short name for the verdict kind.
func (k VerdictKind) String() string {
	switch k {
	case Found:
		return "found"
	case NotFound:
		return "not-found"
	case ExtractionFailed:
		return "extraction-failed"
	}
	return "invalid"
}

// A Verdict is the write-once outcome of classifying one read.
type Verdict struct {
	Kind VerdictKind
	// Offset is the leftmost offset of the UMI in the read sequence.
	// Meaningful only when Kind is Found.
	Offset int
}

// HasUMI reports whether the read belongs in the with-UMI partition.
// Reads with no extractable UMI token do not.
func (v Verdict) HasUMI() bool { return v.Kind == Found }

// Classify extracts the UMI token from id and searches for it in seq.
// It is a pure function of its arguments and safe to call concurrently
// on disjoint records.
func Classify(id string, seq []byte, umiLength, maxMismatches int) Verdict {
	token, ok := Extract(id, umiLength)
	if !ok {
		return Verdict{Kind: ExtractionFailed}
	}
	off, ok := Find(seq, gunsafe.StringToBytes(token), maxMismatches)
	if !ok {
		return Verdict{Kind: NotFound}
	}
	return Verdict{Kind: Found, Offset: off}
}

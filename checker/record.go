// Package checker splits a stream of sequencing reads into those whose
// header-encoded UMI occurs in the read sequence and those where it
// does not, classifying records on a fixed pool of workers and tallying
// exact per-file counts.
package checker

import "github.com/grailbio/umicheck/umi"

// A Record is one sequencing read: an identifier and a base sequence.
// Implementations carry whatever format-specific payload their writer
// needs to reproduce the record verbatim. Records are never mutated
// after creation; a record is owned by the worker classifying it until
// its verdict is emitted.
type Record interface {
	// Name returns the read identifier without format framing (no
	// leading "@" for FASTQ).
	Name() string
	// Bases returns the read sequence. The caller must not modify it.
	Bases() []byte
}

// Reader yields a finite, single-pass stream of records.
type Reader interface {
	// Scan advances to the next record. It returns false at the end of
	// the stream or on error; check Err to tell the two apart.
	Scan() bool
	// Record returns the record produced by the last Scan. Ownership
	// passes to the caller; the record stays valid across further Scan
	// calls.
	Record() Record
	// Err returns the first error encountered, or nil on clean EOF.
	Err() error
}

// Writer routes classified records to the partitioned outputs. Write is
// called from a single goroutine; records arrive in no particular
// order. Close flushes format-level state but does not close the
// underlying transport.
type Writer interface {
	Write(rec Record, v umi.Verdict) error
	Close() error
}

// Discard is a Writer that drops all records. It is used when no output
// prefix is supplied and only the summary counts are wanted.
var Discard Writer = discard{}

type discard struct{}

func (discard) Write(Record, umi.Verdict) error { return nil }
func (discard) Close() error                    { return nil }

// Package umi decides whether the UMI (unique molecular identifier)
// encoded in a read's identifier also occurs in the read's sequence.
// It provides the token extractor, the bounded-mismatch sequence
// matcher, and the per-record classifier built from the two. All
// functions in this package are pure and safe for concurrent use.
package umi

package main

import (
	"path/filepath"
	"strings"

	errors "github.com/pkg/errors"
)

// fileType identifies the container format of an input, derived from
// its file name.
type fileType int

const (
	fastqType fileType = iota
	fastqGzType
	bamType
	samType
)

// fileTypeFromPath determines the input type from the filename suffix.
// Recognized suffixes: .fq, .fastq, .fq.gz, .fastq.gz, .bam, .sam.
func fileTypeFromPath(path string) (fileType, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".fq.gz"), strings.HasSuffix(name, ".fastq.gz"):
		return fastqGzType, nil
	case strings.HasSuffix(name, ".fq"), strings.HasSuffix(name, ".fastq"):
		return fastqType, nil
	case strings.HasSuffix(name, ".bam"):
		return bamType, nil
	case strings.HasSuffix(name, ".sam"):
		return samType, nil
	}
	return 0, errors.Errorf("%s: unsupported file type", path)
}

// suffixInfo returns the canonical output suffix for this type and the
// suffix variants recognized when trimming an output prefix.
func (t fileType) suffixInfo() (suffix string, variants []string) {
	switch t {
	case fastqType:
		return "fq", []string{".fq", ".fastq"}
	case fastqGzType:
		return "fq.gz", []string{".fq.gz", ".fastq.gz"}
	case bamType:
		return "bam", []string{".bam"}
	default:
		return "sam", []string{".sam"}
	}
}

// outputPaths derives the two output paths from prefix: reads without
// the UMI go to <base>.<suffix>, reads carrying it to
// <base>.removed.<suffix>. A prefix that already ends in a recognized
// suffix variant is trimmed first, so "out.fastq" and "out" name the
// same outputs.
func (t fileType) outputPaths(prefix string) (clean, removed string) {
	suffix, variants := t.suffixInfo()
	base := prefix
	for _, v := range variants {
		if strings.HasSuffix(prefix, v) {
			base = strings.TrimSuffix(prefix, v)
			break
		}
	}
	return base + "." + suffix, base + ".removed." + suffix
}

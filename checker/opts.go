package checker

import errors "github.com/pkg/errors"

// Opts configures one run. The zero value is not usable; start from
// DefaultOpts.
type Opts struct {
	// UMILength is the length, in bases, of the UMI token appended to
	// each read identifier. It is constant for a run.
	UMILength int
	// MaxMismatches is the number of mismatching positions tolerated
	// when searching for the UMI in the read sequence. Must be in
	// [0, 3].
	MaxMismatches int
	// Parallelism is the number of classification workers.
	Parallelism int
}

// DefaultOpts sets the default values for Opts.
var DefaultOpts = Opts{
	UMILength:     12,
	MaxMismatches: 0,
	Parallelism:   4,
}

// Validate reports a configuration error. It is called by Run before
// any record is dispatched, so a bad configuration fails fast.
func (o Opts) Validate() error {
	if o.MaxMismatches < 0 || o.MaxMismatches > 3 {
		return errors.Errorf("max mismatches must be in [0, 3], got %d", o.MaxMismatches)
	}
	if o.UMILength <= 0 {
		return errors.Errorf("umi length must be positive, got %d", o.UMILength)
	}
	if o.Parallelism <= 0 {
		return errors.Errorf("parallelism must be positive, got %d", o.Parallelism)
	}
	return nil
}

package hbbplot

import "errors"

var (
	ErrNotFound     = errors.New("hbbplot: histogram not found")
	ErrNotHistogram = errors.New("hbbplot: object is not a 1-dim histogram")
	ErrBinning      = errors.New("hbbplot: inconsistent binning")
	ErrNoBackground = errors.New("hbbplot: no background in signal window")
	ErrNoData       = errors.New("hbbplot: no data entries")
	ErrNegativeZ    = errors.New("hbbplot: asimov significance undefined")
	ErrConfig       = errors.New("hbbplot: invalid configuration")
)

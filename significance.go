package hbbplot

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// Significance summarises the expected signal sensitivity in a bin window.
type Significance struct {
	NSig float64
	NBkg float64
	// SOverSqrtB is NSig/sqrt(NBkg).
	SOverSqrtB float64
	// Asimov is sqrt(2((NSig+NBkg)ln(1+NSig/NBkg) - NSig)).
	Asimov float64
}

// ComputeSignificance sums sig and bkg over w. When the Asimov significance
// is undefined the other fields are still filled and ErrNegativeZ is
// returned.
func ComputeSignificance(sig, bkg *Hist, w BinWindow) (Significance, error) {
	s := sig.Integral(w.First, w.Last)
	b := bkg.Integral(w.First, w.Last)
	if b <= 0 {
		return Significance{NSig: s, NBkg: b}, fmt.Errorf("%w: bins %d..%d sum to %g", ErrNoBackground, w.First, w.Last, b)
	}

	res := Significance{
		NSig:       s,
		NBkg:       b,
		SOverSqrtB: s / math.Sqrt(b),
	}

	// The argument is non-negative for N_sig > -N_bkg; a fit with negative
	// signal yields can go past that.
	if s <= -b {
		return res, fmt.Errorf("%w: N_sig=%g N_bkg=%g", ErrNegativeZ, s, b)
	}
	arg := 2 * ((s+b)*math.Log1p(s/b) - s)
	res.Asimov = math.Sqrt(math.Max(arg, 0))
	return res, nil
}

func (s Significance) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("n_sig", s.NSig).
		Float64("n_bkg", s.NBkg).
		Float64("s_over_sqrt_b", s.SOverSqrtB).
		Float64("asimov_z", s.Asimov)
}

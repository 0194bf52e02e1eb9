package hbbplot

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

// Residual is the content of the lower panel: (data - bkg)/sqrt(N_data) per
// bin together with the signal scaled by sqrt(1/N_data).
type Residual struct {
	Hist   *Hist
	Signal *Hist
	NData  float64

	// Y range of the panel.
	Min, Max float64
}

// ComputeResidual builds the residual panel of a selection. In the fail
// region every error is 1 and the panel is capped at 1.1; in the pass region
// the residual is 0 inside the blind window.
func ComputeResidual(m *Model, region Region, blind BinWindow, log zerolog.Logger) (*Residual, error) {
	data, bkg := m.Data, m.TotalBkg
	if !data.SameBinning(bkg) {
		return nil, fmt.Errorf("%w: data and background differ", ErrBinning)
	}

	nData := data.Entries()
	if nData <= 0 {
		nData = data.SumW()
	}
	if nData <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoData, data.Name)
	}
	sqrtN := math.Sqrt(nData)

	res := data.Clone("residual")
	lows := make([]float64, data.Len())
	highs := make([]float64, data.Len())
	for i := 1; i <= data.Len(); i++ {
		dv := data.Content(i)
		bv := bkg.Content(i)
		r := (dv - bv) / sqrtN
		e := data.Error(i) / sqrtN
		log.Debug().
			Int("bin", i).
			Float64("data", dv).
			Float64("bkg", bv).
			Float64("sqrt_n", sqrtN).
			Float64("residual", r).
			Float64("err", e).
			Msg("residual")

		switch region {
		case RegionFail:
			e = 1
		case RegionPass:
			if blind.Contains(i) {
				r = 0
			}
		}
		res.SetContent(i, r)
		res.SetError(i, e)
		lows[i-1] = r - e
		highs[i-1] = r
	}

	sig := m.Signal.Clone("signal_residual")
	sig.Scale(math.Sqrt(1 / nData))

	out := &Residual{
		Hist:   res,
		Signal: sig,
		NData:  nData,
		Max:    1.1 * math.Max(floats.Max(highs), sig.Max()),
		Min:    1.1 * math.Min(floats.Min(lows), 0),
	}
	if region == RegionFail {
		out.Max = 1.1
	}
	if out.Max <= out.Min {
		out.Max = out.Min + 1
	}
	return out, nil
}

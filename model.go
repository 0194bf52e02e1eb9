package hbbplot

import (
	"fmt"
)

// Model holds the process histograms of one selection. TotalBkg is the
// background estimate the data is compared with.
type Model struct {
	Signal   *Hist
	QCD      *Hist
	W        *Hist
	Z        *Hist
	Top      *Hist
	TotalBkg *Hist
	Data     *Hist
}

// BuildModel fetches and combines the process histograms of sel. In the
// pass region the data bins of the blind window are emptied.
func BuildModel(src HistGetter, cfg *Config, mode Mode, sel Selection) (*Model, error) {
	var get func(string, Selection) (*Hist, error)
	switch mode {
	case ModePostfit:
		get = src.Fit
	case ModeTemplates:
		get = src.Template
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrConfig, mode)
	}

	var (
		m   Model
		err error
		p   = cfg.Processes
	)

	if m.Signal, err = sumProcesses(get, sel, GroupSignal, p.Signal); err != nil {
		return nil, err
	}
	if m.W, err = sumProcesses(get, sel, GroupW, p.W); err != nil {
		return nil, err
	}
	if m.Z, err = sumProcesses(get, sel, GroupZ, p.Z); err != nil {
		return nil, err
	}
	if m.Top, err = sumProcesses(get, sel, GroupTop, p.Top); err != nil {
		return nil, err
	}
	if m.QCD, err = src.Fit(p.QCD, sel); err != nil {
		return nil, err
	}
	m.QCD.Name = GroupQCD

	switch mode {
	case ModePostfit:
		if m.TotalBkg, err = src.Fit(p.TotalBkg, sel); err != nil {
			return nil, err
		}
		m.TotalBkg.Name = GroupTotalBkg
	default:
		m.TotalBkg = m.QCD.Clone(GroupTotalBkg)
		for _, h := range []*Hist{m.W, m.Z, m.Top} {
			if err := m.TotalBkg.Add(h); err != nil {
				return nil, err
			}
		}
	}

	if m.Data, err = src.Template(p.Data, sel); err != nil {
		return nil, err
	}
	m.Data.Name = GroupData
	if !m.Data.SameBinning(m.TotalBkg) {
		return nil, fmt.Errorf("%w: data and background of %s differ", ErrBinning, sel.Key())
	}

	if sel.Region == RegionPass {
		win := cfg.Windows(mode)
		if win.KeepBlindErrors {
			BlindContent(m.Data, win.BlindBins)
		} else {
			Blind(m.Data, win.BlindBins)
		}
	}
	return &m, nil
}

// Blind empties the bins of h inside w.
func Blind(h *Hist, w BinWindow) {
	BlindContent(h, w)
	for i := w.First; i <= w.Last; i++ {
		h.SetError(i, 0)
	}
}

// BlindContent zeroes the contents of h inside w and keeps the errors.
func BlindContent(h *Hist, w BinWindow) {
	for i := w.First; i <= w.Last; i++ {
		h.SetContent(i, 0)
	}
}

func sumProcesses(get func(string, Selection) (*Hist, error), sel Selection, name string, processes []string) (*Hist, error) {
	if len(processes) == 0 {
		return nil, fmt.Errorf("%w: no processes for %q", ErrConfig, name)
	}

	sum, err := get(processes[0], sel)
	if err != nil {
		return nil, err
	}
	sum = sum.Clone(name)
	for _, proc := range processes[1:] {
		h, err := get(proc, sel)
		if err != nil {
			return nil, err
		}
		if err := sum.Add(h); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

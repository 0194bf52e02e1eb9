package hbbplot

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/hbook"
)

// Hist is a binned 1-dim distribution using ROOT bin numbering: bin 0 is
// the underflow, bins 1..Len() are in range and Len()+1 is the overflow.
// Setters ignore bin numbers outside 0..Len()+1 and getters return 0 for
// them.
type Hist struct {
	Name string

	edges   []float64
	sumW    []float64
	sumW2   []float64
	entries float64
}

func NewHist(name string, edges []float64) (*Hist, error) {
	if len(edges) < 2 {
		return nil, fmt.Errorf("%w: %q needs at least 2 edges, got %d", ErrBinning, name, len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return nil, fmt.Errorf("%w: %q edges not ascending at %d", ErrBinning, name, i)
		}
	}

	n := len(edges) + 1
	return &Hist{
		Name:  name,
		edges: append([]float64(nil), edges...),
		sumW:  make([]float64, n),
		sumW2: make([]float64, n),
	}, nil
}

// HistFromH1D converts a go-hep histogram. Outflow bins are not carried.
func HistFromH1D(name string, h *hbook.H1D) (*Hist, error) {
	bins := h.Binning.Bins
	if len(bins) == 0 {
		return nil, fmt.Errorf("%w: %q has no bins", ErrBinning, name)
	}

	edges := make([]float64, len(bins)+1)
	for i, bin := range bins {
		edges[i] = bin.XMin()
	}
	edges[len(bins)] = bins[len(bins)-1].XMax()

	hist, err := NewHist(name, edges)
	if err != nil {
		return nil, err
	}
	for i, bin := range bins {
		hist.sumW[i+1] = bin.SumW()
		hist.sumW2[i+1] = bin.SumW2()
	}
	hist.entries = float64(h.Entries())
	return hist, nil
}

// H1D returns the go-hep representation used for drawing and ROOT export.
func (h *Hist) H1D() *hbook.H1D {
	out := hbook.NewH1DFromEdges(h.edges)
	var n int64
	for i := range out.Binning.Bins {
		bin := &out.Binning.Bins[i]
		w := h.sumW[i+1]
		bin.Dist.Dist.SumW = w
		bin.Dist.Dist.SumW2 = h.sumW2[i+1]
		bin.Dist.Stats.SumWX = w * h.Center(i+1)
		bin.Dist.Stats.SumWX2 = w * h.Center(i+1) * h.Center(i+1)
		if w != 0 || h.sumW2[i+1] != 0 {
			bin.Dist.Dist.N = 1
			n++
		}

		out.Binning.Dist.Dist.SumW += w
		out.Binning.Dist.Dist.SumW2 += h.sumW2[i+1]
		out.Binning.Dist.Stats.SumWX += bin.Dist.Stats.SumWX
		out.Binning.Dist.Stats.SumWX2 += bin.Dist.Stats.SumWX2
	}
	out.Binning.Dist.Dist.N = n
	if h.entries > 0 {
		out.Binning.Dist.Dist.N = int64(h.entries)
	}

	if out.Ann == nil {
		out.Ann = make(hbook.Annotation)
	}
	out.Ann["name"] = h.Name
	return out
}

func (h *Hist) Clone(name string) *Hist {
	return &Hist{
		Name:    name,
		edges:   append([]float64(nil), h.edges...),
		sumW:    append([]float64(nil), h.sumW...),
		sumW2:   append([]float64(nil), h.sumW2...),
		entries: h.entries,
	}
}

// Add adds o bin by bin, squared errors summed.
func (h *Hist) Add(o *Hist) error {
	if !h.SameBinning(o) {
		return fmt.Errorf("%w: cannot add %q to %q", ErrBinning, o.Name, h.Name)
	}
	for i := range h.sumW {
		h.sumW[i] += o.sumW[i]
		h.sumW2[i] += o.sumW2[i]
	}
	h.entries += o.entries
	return nil
}

func (h *Hist) Scale(f float64) {
	for i := range h.sumW {
		h.sumW[i] *= f
		h.sumW2[i] *= f * f
	}
}

func (h *Hist) SameBinning(o *Hist) bool {
	if len(h.edges) != len(o.edges) {
		return false
	}
	for i, e := range h.edges {
		if e != o.edges[i] {
			return false
		}
	}
	return true
}

// Len returns the number of in-range bins.
func (h *Hist) Len() int { return len(h.edges) - 1 }

func (h *Hist) Edges() []float64 { return append([]float64(nil), h.edges...) }

func (h *Hist) Entries() float64 { return h.entries }

func (h *Hist) SetEntries(n float64) { h.entries = n }

func (h *Hist) valid(i int) bool { return i >= 0 && i < len(h.sumW) }

func (h *Hist) Content(i int) float64 {
	if !h.valid(i) {
		return 0
	}
	return h.sumW[i]
}

func (h *Hist) Error(i int) float64 {
	if !h.valid(i) {
		return 0
	}
	return math.Sqrt(h.sumW2[i])
}

func (h *Hist) SetContent(i int, v float64) {
	if h.valid(i) {
		h.sumW[i] = v
	}
}

func (h *Hist) SetError(i int, e float64) {
	if h.valid(i) {
		h.sumW2[i] = e * e
	}
}

// Integral sums contents over bins first..last inclusive.
func (h *Hist) Integral(first, last int) float64 {
	if first < 0 {
		first = 0
	}
	if last > len(h.sumW)-1 {
		last = len(h.sumW) - 1
	}
	var sum float64
	for i := first; i <= last; i++ {
		sum += h.sumW[i]
	}
	return sum
}

// SumW is the sum of in-range contents.
func (h *Hist) SumW() float64 { return h.Integral(1, h.Len()) }

// Max returns the largest in-range content.
func (h *Hist) Max() float64 {
	max := h.sumW[1]
	for i := 2; i <= h.Len(); i++ {
		if h.sumW[i] > max {
			max = h.sumW[i]
		}
	}
	return max
}

// Center returns the center of bin i; outflow bins report the
// corresponding axis edge.
func (h *Hist) Center(i int) float64 {
	switch {
	case i <= 0:
		return h.edges[0]
	case i > h.Len():
		return h.edges[h.Len()]
	}
	return 0.5 * (h.edges[i-1] + h.edges[i])
}

func (h *Hist) Width(i int) float64 {
	if i < 1 || i > h.Len() {
		return 0
	}
	return h.edges[i] - h.edges[i-1]
}

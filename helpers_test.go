package hbbplot

import (
	"fmt"
	"math"
	"testing"
)

const tol = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) <= tol*math.Max(1, math.Abs(b)) }

// newTestHist fills bins 1..n with contents and Poisson errors.
func newTestHist(t *testing.T, name string, edges []float64, contents ...float64) *Hist {
	t.Helper()
	h, err := NewHist(name, edges)
	if err != nil {
		t.Fatalf("could not create %q: %v", name, err)
	}
	for i, v := range contents {
		h.SetContent(i+1, v)
		h.SetError(i+1, math.Sqrt(math.Abs(v)))
	}
	return h
}

func checkContents(t *testing.T, h *Hist, want ...float64) {
	t.Helper()
	if h.Len() != len(want) {
		t.Fatalf("%s: got %d bins, want %d", h.Name, h.Len(), len(want))
	}
	for i, w := range want {
		if got := h.Content(i + 1); !near(got, w) {
			t.Fatalf("%s: bin %d = %g, want %g", h.Name, i+1, got, w)
		}
	}
}

// mapGetter serves histograms keyed by template name or fit path.
type mapGetter struct {
	fitDir string
	hists  map[string]*Hist
}

func (g mapGetter) get(key string) (*Hist, error) {
	h, ok := g.hists[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return h.Clone(h.Name), nil
}

func (g mapGetter) Template(process string, sel Selection) (*Hist, error) {
	return g.get(sel.TemplateName(process))
}

func (g mapGetter) Fit(process string, sel Selection) (*Hist, error) {
	return g.get(sel.FitPath(g.fitDir, process))
}

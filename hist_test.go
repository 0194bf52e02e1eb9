package hbbplot

import (
	"errors"
	"math"
	"testing"
)

func TestNewHistBinning(t *testing.T) {
	for _, tc := range []struct {
		name  string
		edges []float64
		ok    bool
	}{
		{"two edges", []float64{0, 1}, true},
		{"uniform", []float64{40, 47, 54, 61}, true},
		{"single edge", []float64{0}, false},
		{"descending", []float64{0, 2, 1}, false},
		{"repeated", []float64{0, 1, 1}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewHist("h", tc.edges)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrBinning) {
				t.Fatalf("expected ErrBinning, got %v", err)
			}
		})
	}
}

func TestHistArithmetic(t *testing.T) {
	edges := []float64{0, 1, 2, 3}
	a := newTestHist(t, "a", edges, 1, 4, 9)
	b := newTestHist(t, "b", edges, 3, 0, 16)

	if err := a.Add(b); err != nil {
		t.Fatalf("Add: %v", err)
	}
	checkContents(t, a, 4, 4, 25)
	if got, want := a.Error(3), 5.0; !near(got, want) {
		t.Fatalf("error of bin 3 = %g, want %g", got, want)
	}

	a.Scale(7)
	checkContents(t, a, 28, 28, 175)
	if got, want := a.Error(3), 35.0; !near(got, want) {
		t.Fatalf("scaled error = %g, want %g", got, want)
	}

	if got, want := a.Integral(2, 3), 203.0; !near(got, want) {
		t.Fatalf("Integral(2,3) = %g, want %g", got, want)
	}
	if got, want := a.Integral(-5, 50), 231.0; !near(got, want) {
		t.Fatalf("clamped integral = %g, want %g", got, want)
	}
	if got, want := a.Max(), 175.0; got != want {
		t.Fatalf("Max = %g, want %g", got, want)
	}

	other := newTestHist(t, "c", []float64{0, 1, 2, 4}, 1, 1, 1)
	if err := a.Add(other); !errors.Is(err, ErrBinning) {
		t.Fatalf("expected ErrBinning, got %v", err)
	}
}

func TestHistCloneIsDeep(t *testing.T) {
	a := newTestHist(t, "a", []float64{0, 1, 2}, 1, 2)
	b := a.Clone("b")
	b.SetContent(1, 10)
	if a.Content(1) != 1 {
		t.Fatalf("clone shares storage with original")
	}
	if b.Name != "b" {
		t.Fatalf("clone name = %q", b.Name)
	}
}

func TestHistOutOfRange(t *testing.T) {
	h := newTestHist(t, "h", []float64{0, 1, 2}, 1, 2)
	h.SetContent(-1, 5)
	h.SetContent(4, 5)
	h.SetError(99, 1)
	if h.Content(-1) != 0 || h.Content(4) != 0 || h.Error(99) != 0 {
		t.Fatalf("out-of-range bins must read as zero")
	}

	h.SetContent(3, 6) // overflow
	if got := h.Integral(1, h.Len()); got != 3 {
		t.Fatalf("in-range integral = %g, want 3", got)
	}
	if got := h.Integral(0, h.Len()+1); got != 9 {
		t.Fatalf("integral with outflows = %g, want 9", got)
	}
}

func TestHistGeometry(t *testing.T) {
	h := newTestHist(t, "h", []float64{40, 47, 54, 68})
	if got := h.Center(2); got != 50.5 {
		t.Fatalf("Center(2) = %g", got)
	}
	if got := h.Width(3); got != 14 {
		t.Fatalf("Width(3) = %g", got)
	}
	if h.Center(0) != 40 || h.Center(4) != 68 {
		t.Fatalf("outflow centers should be the axis edges")
	}
}

func TestHistH1DConversion(t *testing.T) {
	h := newTestHist(t, "qcd", []float64{40, 47, 54, 61}, 2.5, 0, 10)
	h.SetError(1, 0.5)
	h.SetEntries(12)

	hh := h.H1D()
	if got := hh.Len(); got != 3 {
		t.Fatalf("H1D bins = %d", got)
	}
	if got := hh.Entries(); got != 12 {
		t.Fatalf("H1D entries = %d", got)
	}

	back, err := HistFromH1D("qcd", hh)
	if err != nil {
		t.Fatalf("HistFromH1D: %v", err)
	}
	if !back.SameBinning(h) {
		t.Fatalf("binning changed: %v", back.Edges())
	}
	checkContents(t, back, 2.5, 0, 10)
	if got := back.Error(1); !near(got, 0.5) {
		t.Fatalf("error of bin 1 = %g", got)
	}
	if got := back.Error(3); !near(got, math.Sqrt(10)) {
		t.Fatalf("error of bin 3 = %g", got)
	}
	if back.Entries() != 12 {
		t.Fatalf("entries = %g", back.Entries())
	}
}

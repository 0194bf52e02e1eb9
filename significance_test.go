package hbbplot

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
)

func TestComputeSignificance(t *testing.T) {
	edges := []float64{0, 1, 2, 3, 4}
	sig := newTestHist(t, "sig", edges, 100, 4, 6, 100)
	bkg := newTestHist(t, "bkg", edges, 1000, 40, 60, 1000)

	got, err := ComputeSignificance(sig, bkg, BinWindow{First: 2, Last: 3})
	if err != nil {
		t.Fatalf("ComputeSignificance: %v", err)
	}
	if got.NSig != 10 || got.NBkg != 100 {
		t.Fatalf("got N_sig=%g N_bkg=%g, want 10 and 100", got.NSig, got.NBkg)
	}
	if !near(got.SOverSqrtB, 1) {
		t.Fatalf("S/sqrt(B) = %g, want 1", got.SOverSqrtB)
	}

	want := math.Sqrt(2*(110*math.Log(1.1)) - 2*10)
	if !near(got.Asimov, want) {
		t.Fatalf("Asimov Z = %g, want %g", got.Asimov, want)
	}
	if math.Abs(got.Asimov-0.98399) > 1e-4 {
		t.Fatalf("Asimov Z = %g, want about 0.984", got.Asimov)
	}
}

func TestComputeSignificanceNoBackground(t *testing.T) {
	edges := []float64{0, 1, 2}
	sig := newTestHist(t, "sig", edges, 1, 1)
	bkg := newTestHist(t, "bkg", edges, 0, 0)

	_, err := ComputeSignificance(sig, bkg, BinWindow{First: 1, Last: 2})
	if !errors.Is(err, ErrNoBackground) {
		t.Fatalf("expected ErrNoBackground, got %v", err)
	}
}

func TestComputeSignificanceNegativeSignal(t *testing.T) {
	edges := []float64{0, 1, 2}
	bkg := newTestHist(t, "bkg", edges, 50, 50)

	for _, tc := range []struct {
		name string
		sig  float64
		err  bool
	}{
		{"small deficit", -5, false},
		{"equal to background", -50, true},
		{"beyond background", -80, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sig, err := NewHist("sig", edges)
			if err != nil {
				t.Fatal(err)
			}
			sig.SetContent(1, tc.sig)
			sig.SetContent(2, tc.sig)

			got, err := ComputeSignificance(sig, bkg, BinWindow{First: 1, Last: 2})
			if tc.err {
				if !errors.Is(err, ErrNegativeZ) {
					t.Fatalf("expected ErrNegativeZ, got %v", err)
				}
				if !near(got.SOverSqrtB, 2*tc.sig/10) {
					t.Fatalf("S/sqrt(B) = %g, want %g", got.SOverSqrtB, 2*tc.sig/10)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeSignificance: %v", err)
			}
			s, b := 2*tc.sig, 100.0
			want := math.Sqrt(2 * ((s+b)*math.Log(1+s/b) - s))
			if math.IsNaN(got.Asimov) || !near(got.Asimov, want) {
				t.Fatalf("Asimov Z = %g, want %g", got.Asimov, want)
			}
		})
	}
}

func TestSignificanceLogObject(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	log.Info().EmbedObject(Significance{NSig: 10, NBkg: 100, SOverSqrtB: 1, Asimov: 0.98}).Msg("significance")

	var fields map[string]any
	if err := json.Unmarshal(buf.Bytes(), &fields); err != nil {
		t.Fatalf("could not decode log line %q: %v", buf.String(), err)
	}
	for key, want := range map[string]float64{"n_sig": 10, "n_bkg": 100, "s_over_sqrt_b": 1, "asimov_z": 0.98} {
		if got, _ := fields[key].(float64); got != want {
			t.Fatalf("%s = %v, want %g", key, fields[key], want)
		}
	}
}

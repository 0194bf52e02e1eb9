package hbbplot

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Region is the double-b tagger category.
type Region string

const (
	RegionPass Region = "pass"
	RegionFail Region = "fail"
)

func ParseRegion(s string) (Region, error) {
	switch r := Region(strings.ToLower(s)); r {
	case RegionPass, RegionFail:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown region %q (want pass or fail)", ErrConfig, s)
}

func (r Region) Text() string {
	switch r {
	case RegionPass:
		return "Passing region"
	case RegionFail:
		return "Failing region"
	}
	return ""
}

// Mode selects where the process histograms are read from.
type Mode string

const (
	// ModePostfit reads every process and the total background from the fit
	// file and only data from the template file.
	ModePostfit Mode = "postfit"
	// ModeTemplates reads processes from the template file and only the
	// multijet shape from the fit file.
	ModeTemplates Mode = "templates"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case ModePostfit, ModeTemplates:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q (want postfit or templates)", ErrConfig, s)
}

type PtBin struct {
	Index     int
	Low, High float64
	Inclusive bool
}

// PtBins pairs consecutive edges. With inclusive set, a single bin spanning
// all edges is returned.
func PtBins(edges []float64, inclusive bool) []PtBin {
	if len(edges) < 2 {
		return nil
	}
	if inclusive {
		return []PtBin{{Low: edges[0], High: edges[len(edges)-1], Inclusive: true}}
	}

	bins := make([]PtBin, 0, len(edges)-1)
	for i := 0; i+1 < len(edges); i++ {
		bins = append(bins, PtBin{Index: i, Low: edges[i], High: edges[i+1]})
	}
	return bins
}

func (b PtBin) Text() string {
	return fmt.Sprintf("%s < pT < %s GeV", formatEdge(b.Low), formatEdge(b.High))
}

type Selection struct {
	Variable string
	Region   Region
	PtBin    PtBin
}

// TemplateName is the key of a process histogram in the template file.
func (s Selection) TemplateName(process string) string {
	if s.PtBin.Inclusive {
		return fmt.Sprintf("%s_%s", process, s.Region)
	}
	return fmt.Sprintf("%s_%s_pt%d", process, s.Region, s.PtBin.Index)
}

// FitPath is the path of a process shape in the fit diagnostics file.
func (s Selection) FitPath(dir, process string) string {
	return fmt.Sprintf("%s/ptbin%d%s/%s", dir, s.PtBin.Index, s.Region, process)
}

// OutputName builds the image file name under dir.
func (s Selection) OutputName(dir, year, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	var name string
	if s.PtBin.Inclusive {
		name = fmt.Sprintf("%s_%s_pt%s_%s.%s", s.Variable, year, formatEdge(s.PtBin.Low), s.Region, ext)
	} else {
		name = fmt.Sprintf("%s_%s_ptbins_pt%sto%s_%s.%s",
			s.Variable, year, formatEdge(s.PtBin.Low), formatEdge(s.PtBin.High), s.Region, ext,
		)
	}
	return filepath.Join(dir, name)
}

// Key identifies the selection inside an output ROOT file.
func (s Selection) Key() string {
	return fmt.Sprintf("%s/%s_pt%sto%s", s.Variable, s.Region, formatEdge(s.PtBin.Low), formatEdge(s.PtBin.High))
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

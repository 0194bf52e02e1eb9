package hbbplot

import (
	"fmt"
	stdpath "path"
	"strings"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/hbook/rootcnv"
)

// HistGetter provides the process histograms of a selection.
type HistGetter interface {
	// Template returns a histogram of the template (input) file.
	Template(process string, sel Selection) (*Hist, error)
	// Fit returns a fit shape, already multiplied by the fit scale.
	Fit(process string, sel Selection) (*Hist, error)
}

// Source reads histograms from a template file and a fit diagnostics file.
type Source struct {
	input, fit         *groot.File
	inputName, fitName string

	fitDir   string
	fitScale float64
}

func OpenSource(input, fit string, cfg *Config) (*Source, error) {
	fin, err := groot.Open(input)
	if err != nil {
		return nil, fmt.Errorf("could not open input file %q: %w", input, err)
	}

	ffit, err := groot.Open(fit)
	if err != nil {
		fin.Close()
		return nil, fmt.Errorf("could not open fit file %q: %w", fit, err)
	}

	return &Source{
		input:     fin,
		fit:       ffit,
		inputName: input,
		fitName:   fit,
		fitDir:    cfg.FitDir,
		fitScale:  cfg.FitScale,
	}, nil
}

func (s *Source) Template(process string, sel Selection) (*Hist, error) {
	name := sel.TemplateName(process)
	return readHist(s.input, s.inputName, name, name)
}

func (s *Source) Fit(process string, sel Selection) (*Hist, error) {
	h, err := readHist(s.fit, s.fitName, sel.FitPath(s.fitDir, process), process)
	if err != nil {
		return nil, err
	}
	h.Scale(s.fitScale)
	return h, nil
}

func (s *Source) Close() error {
	errIn := s.input.Close()
	errFit := s.fit.Close()
	if errIn != nil {
		return fmt.Errorf("could not close input file: %w", errIn)
	}
	if errFit != nil {
		return fmt.Errorf("could not close fit file: %w", errFit)
	}
	return nil
}

func readHist(f *groot.File, fname, path, name string) (*Hist, error) {
	obj, err := riofs.Dir(f).Get(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q in %q: %v", ErrNotFound, path, fname, err)
	}

	h1, ok := obj.(rhist.H1)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %q is a %T", ErrNotHistogram, path, fname, obj)
	}
	return HistFromH1D(name, rootcnv.H1D(h1))
}

// Writer stores histograms in a ROOT file, creating directories on the way.
type Writer struct {
	f    *groot.File
	dirs map[string]riofs.Directory
}

func CreateWriter(fname string) (*Writer, error) {
	f, err := groot.Create(fname)
	if err != nil {
		return nil, fmt.Errorf("could not create ROOT file %q: %w", fname, err)
	}
	return &Writer{f: f, dirs: make(map[string]riofs.Directory)}, nil
}

// Put writes h under path, e.g. "jmsoftdrop/pass_pt350to400/qcd".
func (w *Writer) Put(path string, h *Hist) error {
	dirName, name := stdpath.Split(strings.Trim(path, "/"))
	dir, err := w.mkdirAll(dirName)
	if err != nil {
		return fmt.Errorf("could not create directory for %q: %w", path, err)
	}

	err = dir.Put(name, rhist.NewH1DFrom(h.H1D()))
	if err != nil {
		return fmt.Errorf("could not write %q: %w", path, err)
	}
	return nil
}

// PutResult writes the histograms of a finished plot under the selection key.
func (w *Writer) PutResult(sel Selection, res *Result) error {
	m := res.Model
	hists := []*Hist{m.Signal, m.QCD, m.W, m.Z, m.Top, m.TotalBkg, m.Data, res.Residual.Hist}
	for _, h := range hists {
		if h == nil {
			continue
		}
		if err := w.Put(sel.Key()+"/"+h.Name, h); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) Close() error {
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("could not close ROOT file: %w", err)
	}
	return nil
}

func (w *Writer) mkdirAll(path string) (riofs.Directory, error) {
	var (
		dir  riofs.Directory = w.f
		full string
	)
	for _, name := range strings.Split(path, "/") {
		if name == "" {
			continue
		}
		full = stdpath.Join(full, name)
		if sub, ok := w.dirs[full]; ok {
			dir = sub
			continue
		}

		sub, err := dir.Mkdir(name)
		if err != nil {
			return nil, err
		}
		w.dirs[full] = sub
		dir = sub
	}
	return dir, nil
}

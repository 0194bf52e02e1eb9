package hbbplot

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go-hep.org/x/hep/hplot"
	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	// DefaultWidth and DefaultHeight are the canvas size of a figure.
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 7 * vg.Inch

	bottomFraction = 0.3
	headerHeight   = 20

	// logYMin is the lower edge of the upper pad on log scale.
	logYMin = 1.0
)

type FigureOptions struct {
	LogY bool
}

// Figure is a data/MC comparison: the stacked prediction with data on top
// and the residual panel below.
type Figure struct {
	Top    *plot.Plot
	Bottom *plot.Plot

	experiment string
	lumiText   string
	notes      []string
}

func NewFigure(cfg *Config, sel Selection, m *Model, res *Residual, opts FigureOptions) (*Figure, error) {
	top, err := newTopPad(cfg, m, opts)
	if err != nil {
		return nil, err
	}
	bot, err := newBottomPad(cfg, sel, res)
	if err != nil {
		return nil, err
	}

	notes := []string{sel.PtBin.Text()}
	if txt := sel.Region.Text(); txt != "" {
		notes = append(notes, txt)
	}
	return &Figure{
		Top:        top,
		Bottom:     bot,
		experiment: cfg.Experiment,
		lumiText:   fmt.Sprintf("%s (%s)", cfg.Year, cfg.Energy),
		notes:      notes,
	}, nil
}

func newTopPad(cfg *Config, m *Model, opts FigureOptions) (*plot.Plot, error) {
	p := plot.New()
	p.X.Tick.Marker = unlabeledTicks{PreciseTicks{NSuggestedTicks: 5}}
	p.Y.Label.Text = fmt.Sprintf("Events / %g GeV", m.Data.Width(1))
	if opts.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	stack := m.TotalBkg.Clone("stack")
	if err := stack.Add(m.Signal); err != nil {
		return nil, err
	}

	hStack := newH1D(stack, opts.LogY)
	hStack.FillColor = cfg.mustColor(GroupSignal)
	hStack.LineStyle.Color = cfg.mustColor(GroupSignal)

	hBkg := newH1D(m.TotalBkg, opts.LogY)
	hBkg.FillColor = color.White
	hBkg.LineStyle.Color = cfg.mustColor(GroupTotalBkg)
	hBkg.LineStyle.Width = vg.Points(2)

	p.Add(hStack, hBkg)

	outlines := []struct {
		group string
		h     *Hist
	}{
		{GroupW, m.W},
		{GroupZ, m.Z},
		{GroupTop, m.Top},
		{GroupQCD, m.QCD},
	}
	for _, o := range outlines {
		h := newH1D(o.h, opts.LogY)
		h.FillColor = nil
		h.LineStyle.Color = cfg.mustColor(o.group)
		h.LineStyle.Width = vg.Points(2)
		h.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		if o.group == GroupZ {
			h.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
		}
		p.Add(h)
		p.Legend.Add(cfg.LegendText(o.group), h)
	}
	p.Legend.Add(cfg.LegendText(GroupTotalBkg), hBkg)
	p.Legend.Add(cfg.LegendText(GroupSignal), hStack)

	logFloor := 0.0
	if opts.LogY {
		logFloor = logYMin
	}
	sc, yerr, err := newErrorPoints(m.Data, true, logFloor, cfg.mustColor(GroupData))
	if err != nil {
		return nil, fmt.Errorf("could not create data points: %w", err)
	}
	if sc != nil {
		p.Add(sc, yerr)
		p.Legend.Add(cfg.LegendText(GroupData), pointThumbnail{glyph: sc.GlyphStyle, line: yerr.LineStyle})
	}

	p.Legend.Top = true
	p.Legend.XOffs = -vg.Points(10)
	p.Legend.YOffs = -vg.Points(10)

	edges := m.Data.edges
	p.X.Min, p.X.Max = edges[0], edges[len(edges)-1]
	p.Y.Min, p.Y.Max = 0, 1.4*max(stack.Max(), m.Data.Max())
	if opts.LogY {
		p.Y.Min = logYMin
		p.Y.Max *= 10
	}
	if p.Y.Max <= p.Y.Min {
		p.Y.Max = p.Y.Min + 1
	}
	return p, nil
}

func newBottomPad(cfg *Config, sel Selection, res *Residual) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = cfg.AxisLabel(sel.Variable)
	p.Y.Label.Text = "(Data − Bkg) / σ_Data"
	p.X.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}

	hSig := newH1D(res.Signal, false)
	hSig.FillColor = cfg.mustColor(GroupSignal)
	hSig.LineStyle.Color = cfg.mustColor(GroupSignal)
	p.Add(hSig)

	edges := res.Hist.edges
	xmin, xmax := edges[0], edges[len(edges)-1]
	zero, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: 0}, {X: xmax, Y: 0}})
	if err != nil {
		return nil, fmt.Errorf("could not create zero line: %w", err)
	}
	zero.LineStyle.Color = color.Gray{Y: 128}
	zero.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(zero)

	sc, yerr, err := newErrorPoints(res.Hist, false, 0, cfg.mustColor(GroupData))
	if err != nil {
		return nil, fmt.Errorf("could not create residual points: %w", err)
	}
	if sc != nil {
		p.Add(sc, yerr)
	}

	p.X.Min, p.X.Max = xmin, xmax
	p.Y.Min, p.Y.Max = res.Min, res.Max
	return p, nil
}

func newH1D(h *Hist, logY bool) *hplot.H1D {
	hh := hplot.NewH1D(h.H1D(), hplot.WithLogY(logY))
	hh.Infos.Style = hplot.HInfoNone
	return hh
}

// newErrorPoints draws h as markers with vertical error bars. With skipEmpty
// set, bins without content and error are left out; nil plotters are
// returned when no point remains.
//
// A positive logFloor is the axis minimum of a log scale: points at or
// below zero are dropped and lower error bars stop at logFloor.
func newErrorPoints(h *Hist, skipEmpty bool, logFloor float64, c color.Color) (*plotter.Scatter, *plotter.YErrorBars, error) {
	var (
		points plotter.XYs
		yErrs  plotter.YErrors
	)
	for i := 1; i <= h.Len(); i++ {
		v, e := h.Content(i), h.Error(i)
		if skipEmpty && v == 0 && e == 0 {
			continue
		}
		low := e
		if logFloor > 0 {
			if v <= 0 {
				continue
			}
			if v-low < logFloor {
				low = math.Max(v-logFloor, 0)
			}
		}
		points = append(points, plotter.XY{X: h.Center(i), Y: v})
		yErrs = append(yErrs, struct{ Low, High float64 }{low, e})
	}
	if len(points) == 0 {
		return nil, nil, nil
	}

	sc, err := plotter.NewScatter(points)
	if err != nil {
		return nil, nil, err
	}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Radius = vg.Points(2.5)
	sc.GlyphStyle.Color = c

	yerr, err := plotter.NewYErrorBars(plotutil.ErrorPoints{XYs: points, YErrors: yErrs})
	if err != nil {
		return nil, nil, err
	}
	yerr.LineStyle.Color = c
	yerr.CapWidth = vg.Points(4)

	return sc, yerr, nil
}

// pointThumbnail is the legend entry of data points: a marker on a vertical
// error bar.
type pointThumbnail struct {
	glyph draw.GlyphStyle
	line  draw.LineStyle
}

func (t pointThumbnail) Thumbnail(c *draw.Canvas) {
	pt := c.Center()
	c.StrokeLine2(t.line, pt.X, c.Min.Y, pt.X, c.Max.Y)
	c.DrawGlyph(t.glyph, pt)
}

// Draw lays the two pads out on dc, with aligned x axes, and adds the
// header and note texts.
func (f *Figure) Draw(dc draw.Canvas) {
	h := dc.Max.Y - dc.Min.Y
	topC := draw.Crop(dc, 0, 0, h*bottomFraction, -headerHeight)
	botC := draw.Crop(dc, 0, 0, 0, -h*(1-bottomFraction))
	topC, botC = alignX(f.Top, topC, f.Bottom, botC)

	f.Top.Draw(topC)
	f.Bottom.Draw(botC)

	da := f.Top.DataCanvas(topC)
	sty := textStyle(vg.Points(14), false)
	bold := textStyle(vg.Points(14), true)

	bold.YAlign = text.YBottom
	dc.FillText(bold, vg.Point{X: da.Min.X, Y: topC.Max.Y + vg.Points(4)}, f.experiment)

	lumi := sty
	lumi.XAlign = text.XRight
	lumi.YAlign = text.YBottom
	dc.FillText(lumi, vg.Point{X: da.Max.X, Y: topC.Max.Y + vg.Points(4)}, f.lumiText)

	note := textStyle(vg.Points(12), false)
	note.YAlign = text.YTop
	w := da.Max.X - da.Min.X
	y := da.Max.Y - vg.Points(10)
	for _, txt := range f.notes {
		dc.FillText(note, vg.Point{X: da.Min.X + 0.06*w, Y: y}, txt)
		y -= vg.Points(18)
	}
}

// Save writes the figure with the format given by the file extension.
func (f *Figure) Save(w, h vg.Length, fname string) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(fname), "."))
	c, err := draw.NewFormattedCanvas(w, h, format)
	if err != nil {
		return fmt.Errorf("could not create %q canvas: %w", format, err)
	}
	f.Draw(draw.New(c))

	out, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer out.Close()

	if _, err := c.WriteTo(out); err != nil {
		return fmt.Errorf("could not write %q: %w", fname, err)
	}
	return out.Close()
}

func alignX(a *plot.Plot, ca draw.Canvas, b *plot.Plot, cb draw.Canvas) (draw.Canvas, draw.Canvas) {
	la := a.DataCanvas(ca).Min.X - ca.Min.X
	lb := b.DataCanvas(cb).Min.X - cb.Min.X
	switch {
	case la < lb:
		ca = draw.Crop(ca, lb-la, 0, 0, 0)
	case lb < la:
		cb = draw.Crop(cb, la-lb, 0, 0, 0)
	}
	return ca, cb
}

func textStyle(size vg.Length, bold bool) text.Style {
	fnt := plot.DefaultFont
	fnt.Size = size
	if bold {
		fnt.Weight = xfont.WeightBold
	}
	return text.Style{
		Color:   color.Black,
		Font:    fnt,
		XAlign:  text.XLeft,
		YAlign:  text.YCenter,
		Handler: plot.DefaultTextHandler,
	}
}

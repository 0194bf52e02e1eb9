package hbbplot

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Job describes one figure.
type Job struct {
	Selection
	Mode Mode
	LogY bool
	// Output is the image file name; nothing is written when empty.
	Output string
}

type Result struct {
	Model        *Model
	Significance Significance
	Residual     *Residual
	Figure       *Figure
}

// Run builds the model of a job, logs its significance, computes the
// residual panel and renders the figure.
func Run(src HistGetter, cfg *Config, job Job, log zerolog.Logger) (*Result, error) {
	log = log.With().
		Str("variable", job.Variable).
		Str("region", string(job.Region)).
		Str("pt", job.PtBin.Text()).
		Logger()

	m, err := BuildModel(src, cfg, job.Mode, job.Selection)
	if err != nil {
		return nil, fmt.Errorf("could not build model for %s: %w", job.Key(), err)
	}

	win := cfg.Windows(job.Mode)
	sig, err := ComputeSignificance(m.Signal, m.TotalBkg, win.SignalBins)
	switch {
	case errors.Is(err, ErrNegativeZ):
		log.Warn().Err(err).EmbedObject(sig).Msg("significance")
	case err != nil:
		log.Warn().Err(err).Msg("no significance")
	default:
		log.Info().EmbedObject(sig).Msg("significance")
	}

	res, err := ComputeResidual(m, job.Region, win.BlindBins, log)
	if err != nil {
		return nil, fmt.Errorf("could not compute residual for %s: %w", job.Key(), err)
	}

	fig, err := NewFigure(cfg, job.Selection, m, res, FigureOptions{LogY: job.LogY})
	if err != nil {
		return nil, fmt.Errorf("could not create figure for %s: %w", job.Key(), err)
	}

	if job.Output != "" {
		if err := fig.Save(DefaultWidth, DefaultHeight, job.Output); err != nil {
			return nil, err
		}
		log.Info().Str("output", job.Output).Msg("saved")
	}

	return &Result{
		Model:        m,
		Significance: sig,
		Residual:     res,
		Figure:       fig,
	}, nil
}

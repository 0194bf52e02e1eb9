package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/profile"

	"github.com/decibelcooper/hbbplot"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] <input-root-file>

Draws the data/MC comparison of the soft-drop mass (or any other jet
observable) with the residual panel, one figure per pT bin.

ex:
 $> sdmass -fit fitDiagnostics.root -ddb_region pass -output_path plots templates.root

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	env, err := hbbplot.ParseEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var (
		fit        = flag.String("fit", "", "fit diagnostics file")
		outputPath = flag.String("output_path", env.OutputPath, "path to output folder")
		region     = flag.String("ddb_region", "pass", "double-b tagger region (pass or fail)")
		mode       = flag.String("mode", string(hbbplot.ModePostfit), "histogram source (postfit or templates)")
		inclusive  = flag.Bool("inclusive", false, "single plot over the full pT range")
		cfgPath    = flag.String("config", "", "YAML plot configuration")
		format     = flag.String("format", env.Format, "image format (png, pdf, svg, ...)")
		rootOut    = flag.String("root-out", "", "also write the derived histograms to this ROOT file")
		logY       = flag.Bool("logy", false, "log scale for the upper pad")
		logLevel   = flag.String("log-level", env.LogLevel, "log level")
		prof       = flag.Bool("profile", false, "write a CPU profile")

		variables = hbbplot.StringArrayFlags{Array: []string{"jmsoftdrop"}}
		ptEdges   hbbplot.FloatArrayFlags
	)
	flag.Var(&variables, "var", "variable to plot (repeatable)")
	flag.Var(&ptEdges, "ptbin", "pT bin edge in GeV (repeatable, default from config)")
	flag.Usage = printUsage
	flag.Parse()

	log, err := hbbplot.NewLogger(os.Stderr, *logLevel, isatty.IsTerminal(os.Stderr.Fd()))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if flag.NArg() != 1 || *fit == "" {
		printUsage()
		log.Fatal().Msg("Invalid arguments")
	}

	if *prof {
		defer profile.Start(profile.ProfilePath(*outputPath), profile.Quiet).Stop()
	}

	cfg, err := hbbplot.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}
	if ptEdges.IsSet() {
		cfg.PtBins = ptEdges.Array
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("invalid pT bins")
		}
	}

	reg, err := hbbplot.ParseRegion(*region)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	srcMode, err := hbbplot.ParseMode(*mode)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	if err := os.MkdirAll(*outputPath, 0755); err != nil {
		log.Fatal().Err(err).Msg("could not create output folder")
	}

	src, err := hbbplot.OpenSource(flag.Arg(0), *fit, cfg)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	defer src.Close()

	var w *hbbplot.Writer
	if *rootOut != "" {
		w, err = hbbplot.CreateWriter(*rootOut)
		if err != nil {
			log.Fatal().Err(err).Send()
		}
	}

	for _, variable := range variables.Array {
		for _, ptBin := range hbbplot.PtBins(cfg.PtBins, *inclusive) {
			sel := hbbplot.Selection{Variable: variable, Region: reg, PtBin: ptBin}
			job := hbbplot.Job{
				Selection: sel,
				Mode:      srcMode,
				LogY:      *logY,
				Output:    sel.OutputName(*outputPath, cfg.Year, *format),
			}

			res, err := hbbplot.Run(src, cfg, job, log)
			if err != nil {
				log.Fatal().Err(err).Send()
			}

			if w != nil {
				if err := w.PutResult(sel, res); err != nil {
					log.Fatal().Err(err).Send()
				}
			}
		}
	}

	if w != nil {
		if err := w.Close(); err != nil {
			log.Fatal().Err(err).Send()
		}
	}
}

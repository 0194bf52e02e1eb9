package hbbplot

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfig []byte

// Config holds everything about a plot that is analysis bookkeeping rather
// than arithmetic: process groupings, styling and bin windows.
type Config struct {
	Experiment string  `yaml:"experiment"`
	Year       string  `yaml:"year"`
	Energy     string  `yaml:"energy"`
	FitDir     string  `yaml:"fit_dir"`
	FitScale   float64 `yaml:"fit_scale"`

	PtBins     []float64 `yaml:"pt_bins"`
	BlindBins  BinWindow `yaml:"blind_bins"`
	SignalBins BinWindow `yaml:"signal_bins"`
	// Templates holds the windows of templates mode.
	Templates Windows `yaml:"templates"`

	Processes Processes         `yaml:"processes"`
	Colors    map[string]string `yaml:"colors"`
	Legend    map[string]string `yaml:"legend"`
	Labels    map[string]string `yaml:"labels"`
}

// BinWindow is an inclusive range of ROOT bin numbers.
type BinWindow struct {
	First int `yaml:"first"`
	Last  int `yaml:"last"`
}

func (w BinWindow) Contains(i int) bool { return i >= w.First && i <= w.Last }

// Windows are the bin windows used for one mode.
type Windows struct {
	BlindBins  BinWindow `yaml:"blind_bins"`
	SignalBins BinWindow `yaml:"signal_bins"`
	// KeepBlindErrors empties only the contents of blinded bins.
	KeepBlindErrors bool `yaml:"keep_blind_errors"`
}

// Windows returns the bin windows of mode. Postfit uses the top-level
// blind_bins and signal_bins.
func (cfg *Config) Windows(mode Mode) Windows {
	if mode == ModeTemplates {
		return cfg.Templates
	}
	return Windows{BlindBins: cfg.BlindBins, SignalBins: cfg.SignalBins}
}

// Processes maps the plotted groups to the histogram names they are built
// from.
type Processes struct {
	Signal   []string `yaml:"signal"`
	W        []string `yaml:"w"`
	Z        []string `yaml:"z"`
	Top      []string `yaml:"top"`
	QCD      string   `yaml:"qcd"`
	TotalBkg string   `yaml:"total_background"`
	Data     string   `yaml:"data"`
}

// Group keys used by Colors and Legend.
const (
	GroupSignal   = "signal"
	GroupW        = "w"
	GroupZ        = "z"
	GroupTop      = "top"
	GroupQCD      = "qcd"
	GroupTotalBkg = "total_background"
	GroupData     = "data"
)

var groups = []string{GroupSignal, GroupW, GroupZ, GroupTop, GroupQCD, GroupTotalBkg, GroupData}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() (*Config, error) {
	var cfg Config
	if err := decodeConfig(bytes.NewReader(defaultConfig), &cfg); err != nil {
		return nil, fmt.Errorf("could not decode default config: %w", err)
	}
	return &cfg, nil
}

// LoadConfig returns the default configuration overlaid with the YAML file
// at fname. An empty fname yields the defaults.
func LoadConfig(fname string) (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}

	if fname != "" {
		f, err := os.Open(fname)
		if err != nil {
			return nil, fmt.Errorf("could not open config: %w", err)
		}
		defer f.Close()

		if err := decodeConfig(f, cfg); err != nil {
			return nil, fmt.Errorf("could not decode config %q: %w", fname, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeConfig(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(cfg)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (cfg *Config) Validate() error {
	switch {
	case cfg.FitScale <= 0:
		return fmt.Errorf("%w: fit_scale must be positive, got %g", ErrConfig, cfg.FitScale)
	case len(cfg.PtBins) < 2:
		return fmt.Errorf("%w: need at least 2 pt_bins edges", ErrConfig)
	case cfg.BlindBins.First > cfg.BlindBins.Last:
		return fmt.Errorf("%w: empty blind_bins window", ErrConfig)
	case cfg.SignalBins.First > cfg.SignalBins.Last:
		return fmt.Errorf("%w: empty signal_bins window", ErrConfig)
	case cfg.Templates.BlindBins.First > cfg.Templates.BlindBins.Last:
		return fmt.Errorf("%w: empty templates.blind_bins window", ErrConfig)
	case cfg.Templates.SignalBins.First > cfg.Templates.SignalBins.Last:
		return fmt.Errorf("%w: empty templates.signal_bins window", ErrConfig)
	case len(cfg.Processes.Signal) == 0:
		return fmt.Errorf("%w: no signal processes", ErrConfig)
	case cfg.Processes.Data == "":
		return fmt.Errorf("%w: no data histogram name", ErrConfig)
	}
	for i := 1; i < len(cfg.PtBins); i++ {
		if cfg.PtBins[i] <= cfg.PtBins[i-1] {
			return fmt.Errorf("%w: pt_bins not ascending at %d", ErrConfig, i)
		}
	}
	for _, g := range groups {
		if _, err := cfg.Color(g); err != nil {
			return err
		}
	}
	return nil
}

// Color resolves the colour of a group, given either as #rrggbb[aa] or as
// an SVG colour name.
func (cfg *Config) Color(group string) (color.Color, error) {
	v, ok := cfg.Colors[group]
	if !ok {
		return nil, fmt.Errorf("%w: no colour for %q", ErrConfig, group)
	}
	c, err := parseColor(v)
	if err != nil {
		return nil, fmt.Errorf("%w: colour of %q: %v", ErrConfig, group, err)
	}
	return c, nil
}

func (cfg *Config) mustColor(group string) color.Color {
	c, err := cfg.Color(group)
	if err != nil {
		return color.Black
	}
	return c
}

// LegendText falls back to the group key.
func (cfg *Config) LegendText(group string) string {
	if v, ok := cfg.Legend[group]; ok {
		return v
	}
	return group
}

// AxisLabel falls back to the variable name.
func (cfg *Config) AxisLabel(variable string) string {
	if v, ok := cfg.Labels[variable]; ok {
		return v
	}
	return variable
}

func parseColor(v string) (color.Color, error) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "#") {
		c, ok := colornames.Map[strings.ToLower(v)]
		if !ok {
			return nil, fmt.Errorf("unknown colour name %q", v)
		}
		return c, nil
	}

	hex := v[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return nil, fmt.Errorf("invalid hex colour %q", v)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid hex colour %q: %w", v, err)
	}
	if len(hex) == 6 {
		n = n<<8 | 0xff
	}
	return color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}

package hbbplot

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the defaults that may come from the environment. Command-line
// flags take precedence over them.
type Env struct {
	OutputPath string `env:"HBBPLOT_OUTPUT_PATH" envDefault:"."`
	LogLevel   string `env:"HBBPLOT_LOG_LEVEL" envDefault:"info"`
	Format     string `env:"HBBPLOT_FORMAT" envDefault:"png"`
}

func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return e, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

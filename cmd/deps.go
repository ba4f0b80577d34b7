// Package cmd provides CLI commands for the chatview tool.
package cmd

import (
	"io"

	"github.com/otherjamesbrown/chatview/config"
	"github.com/otherjamesbrown/chatview/pkg/logging"
)

// CommandDeps holds the dependencies shared by chatview subcommands.
type CommandDeps struct {
	Config     *config.CLIConfig
	LoadConfig func() (*config.CLIConfig, error)

	// NewLogger builds the logger for a command. w is the command's stderr.
	NewLogger func(cfg *config.CLIConfig, w io.Writer) logging.Logger
}

// DefaultDeps returns the default dependencies for production use.
func DefaultDeps() *CommandDeps {
	return &CommandDeps{
		LoadConfig: config.LoadConfig,
		NewLogger:  NewLogger,
	}
}

// config returns the injected configuration, loading it on first use.
func (d *CommandDeps) config() (*config.CLIConfig, error) {
	if d.Config != nil {
		return d.Config, nil
	}
	loader := d.LoadConfig
	if loader == nil {
		loader = config.LoadConfig
	}
	cfg, err := loader()
	if err != nil {
		return nil, err
	}
	d.Config = cfg
	return cfg, nil
}

func (d *CommandDeps) logger(cfg *config.CLIConfig, w io.Writer) logging.Logger {
	if d.NewLogger == nil {
		return NewLogger(cfg, w)
	}
	return d.NewLogger(cfg, w)
}

// NewLogger builds a zerolog-backed logger from the CLI configuration.
func NewLogger(cfg *config.CLIConfig, w io.Writer) logging.Logger {
	return logging.NewLogger(&logging.Config{
		Level:       cfg.EffectiveLogLevel(),
		ServiceName: "chatview",
		JSONFormat:  cfg.LogJSON,
		Output:      w,
	})
}

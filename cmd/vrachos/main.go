// SPDX-License-Identifier: MIT

// Command vrachos is the demo entrypoint for the vrachos utility
// packages: it exercises the logger, the config store, and the terminal
// UI end to end.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ManuGH/vrachos/cli"
	"github.com/ManuGH/vrachos/config"
	"github.com/ManuGH/vrachos/fsio"
	xlog "github.com/ManuGH/vrachos/log"
	"github.com/ManuGH/vrachos/modelops"
	"github.com/ManuGH/vrachos/ui"
)

type rootFlags struct {
	Debug  bool   `flag:"debug" short:"d" usage:"enable debug logging"`
	Config string `flag:"config" short:"c" usage:"config file path (defaults to a temp file)"`
}

// appConfig is the demo configuration, the vrachos equivalent of an
// application's settings struct.
type appConfig struct {
	Debug   bool `json:"debug"`
	Timeout int  `json:"timeout"`
}

func (c appConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.Timeout)
	}
	return nil
}

func defaultConfig() appConfig {
	return appConfig{Debug: false, Timeout: 30}
}

func newStore(path string) *config.Store[appConfig] {
	if path == "" {
		path = fsio.TempFilePath("json")
	}
	return config.NewStore(path,
		config.WithDefaults(defaultConfig()),
		config.WithEnvOverride(func(cfg *appConfig) {
			cfg.Debug = config.ParseBool("DEBUG", cfg.Debug)
			cfg.Timeout = config.ParseInt("TIMEOUT", cfg.Timeout)
		}),
	)
}

func buildRoot() *cli.Spec {
	flags := &rootFlags{}

	return &cli.Spec{
		Name:  "vrachos",
		Short: "vrachos utility toolbox",
		Long:  "Demo entrypoint for the vrachos utility packages: logging, configuration, and terminal UI.",
		Flags: flags,
		Init: func(context.Context) error {
			level := "info"
			if flags.Debug {
				level = "debug"
			}
			xlog.Configure(xlog.Config{Level: level})
			return nil
		},
		Subcommands: []*cli.Spec{
			demoSpec(flags),
			configSpec(flags),
		},
	}
}

func demoSpec(root *rootFlags) *cli.Spec {
	return &cli.Spec{
		Name:  "demo",
		Short: "Exercise logger, config, and UI",
		Run: func(ctx context.Context, _ []string) error {
			logger := xlog.WithComponent("demo")

			ui.Print("Test logger")
			logPath := fsio.TempFilePath("log")
			if err := xlog.AddFile(logPath); err != nil {
				return err
			}
			logger.Debug().Str(xlog.FieldPath, logPath).Msg("log file attached")
			logger.Debug().Msg("Hello")
			logger.Info().Msg("Hello")
			logger.Warn().Msg("Hello")
			logger.Error().Msg("Hello")

			ui.Print("Test configuration")
			store := newStore(root.Config)
			cfg, err := store.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg.Debug = true
			if err := store.Save(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			logger.Debug().Str(xlog.FieldPath, store.Path()).Msg("config file written")

			ui.Print(cfg)

			diff, err := modelops.UDiff(defaultConfig(), cfg)
			if err != nil {
				return fmt.Errorf("diff config: %w", err)
			}
			ui.Print("Changes against defaults")
			ui.Print(diff)
			return nil
		},
	}
}

func configSpec(root *rootFlags) *cli.Spec {
	return &cli.Spec{
		Name:  "config",
		Short: "Configuration helpers",
		Subcommands: []*cli.Spec{
			{
				Name:  "show",
				Short: "Load and pretty-print the config file",
				Run: func(ctx context.Context, _ []string) error {
					store := newStore(root.Config)
					cfg, err := store.Load()
					if err != nil {
						return fmt.Errorf("load config: %w", err)
					}
					return ui.PrintJSON(cfg)
				},
			},
		},
	}
}

func main() {
	if err := cli.Execute(buildRoot()); err != nil {
		logger := xlog.Base()
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

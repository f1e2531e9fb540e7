package main

import (
	"github.com/spf13/cobra"

	"shiftcal/internal/config"
	appLog "shiftcal/internal/log"
	"shiftcal/internal/ocr"
	"shiftcal/internal/pipeline"
)

// app carries what every subcommand shares once config is loaded.
type app struct {
	configPath string
	logLevel   string

	cfg  *config.Config
	pipe *pipeline.Pipeline
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "shiftcal",
		Short:         "Extract one employee's shifts from a weekly schedule sheet",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "/etc/shiftcal/config.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, error (overrides config if set)")

	rootCmd.AddCommand(newExtractCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))

	return rootCmd
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", a.configPath)
		return err
	}

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	appLog.SetLevel(appLog.ParseLevel(level))

	a.cfg = cfg
	a.pipe = &pipeline.Pipeline{
		OCR:     ocr.NewClient(cfg.OCR.URL, cfg.OCR.Secret, cfg.OCR.Lang, cfg.OCR.Timeout()),
		Markers: cfg.Markers,
	}

	appLog.Debug("effective config",
		"config_path", a.configPath,
		"listen", cfg.Listen,
		"timezone", cfg.Timezone,
		"year", cfg.Year,
		"ocr_configured", a.pipe.OCR.Configured(),
		"watch_names", len(cfg.Watch.Names),
	)
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/lorenzgif/internal/config"
	"github.com/san-kum/lorenzgif/internal/ctxlog"
)

var (
	configFile string
	outDir     string
	logLevel   string
)

// main registers the commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "lorenzgif",
		Short:         "render the Lorenz attractor growing over time as a looping GIF",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctxlog.New(os.Stderr, logLevel)
			if err != nil {
				return err
			}
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", "", "output directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "z maxima across a rho sweep (bifurcation diagram)",
		RunE:  sweepRho,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "rho-min", 10, "first rho")
	sweepCmd.Flags().Float64Var(&sweepMax, "rho-max", 30, "last rho")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 21, "number of rho values")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "run [regime...]",
			Short: "integrate, render and assemble the animation for each regime",
			Long: "Runs the regimes of the config file, or the named presets when given.\n" +
				"Each regime writes <out>/<regime>/frames/NNN.png and <out>/<regime>/<regime>.gif.",
			RunE: runRegimes,
		},
		&cobra.Command{
			Use:   "presets",
			Short: "list parameter presets",
			RunE:  listPresets,
		},
		&cobra.Command{
			Use:   "init-config [path]",
			Short: "write a config file with every preset",
			Args:  cobra.ExactArgs(1),
			RunE:  initConfig,
		},
		&cobra.Command{
			Use:   "list",
			Short: "list stored runs",
			RunE:  listRuns,
		},
		&cobra.Command{
			Use:   "plot [regime]",
			Short: "plot a stored trajectory against time",
			Args:  cobra.ExactArgs(1),
			RunE:  plotRun,
		},
		&cobra.Command{
			Use:   "analyze [regime]",
			Short: "power spectrum and Lyapunov exponent of a stored run",
			Args:  cobra.ExactArgs(1),
			RunE:  analyzeRun,
		},
		sweepCmd,
		&cobra.Command{
			Use:   "preview [regime]",
			Short: "play the growing trajectory in the terminal",
			Args:  cobra.MaximumNArgs(1),
			RunE:  previewRegime,
		},
		&cobra.Command{
			Use:   "export-csv [regime]",
			Short: "write a stored trajectory as CSV to stdout",
			Args:  cobra.ExactArgs(1),
			RunE:  exportCSV,
		},
		&cobra.Command{
			Use:   "export-json [regime]",
			Short: "write a stored run as JSON to stdout",
			Args:  cobra.ExactArgs(1),
			RunE:  exportJSON,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads --config, or starts from the defaults, and applies
// --out.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	return cfg, cfg.Validate()
}

// findRegime looks name up in the config first and then in the presets.
func findRegime(cfg *config.Config, name string) (config.Regime, error) {
	for _, r := range cfg.Regimes {
		if r.Name == name {
			return r, nil
		}
	}
	if r := config.Preset(name); r != nil {
		return *r, nil
	}
	return config.Regime{}, fmt.Errorf("unknown regime: %s (presets: %v)", name, config.PresetNames())
}

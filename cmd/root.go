package cmd

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/oupath/sim"
	"github.com/inference-sim/oupath/sim/summary"
)

var (
	// CLI flags for the OU process
	samples int     // Number of paths (n_samples)
	horizon float64 // Time horizon T
	steps   int     // Grid points per path (len_trajectory)
	mu      float64 // Long-run mean
	sigma   float64 // Volatility
	theta   float64 // Mean-reversion rate
	x0      float64 // Initial value

	// CLI flags for the run
	seed         int64  // Seed for the partitioned RNG
	ambient      bool   // Draw from the process-wide generator instead of seeding
	workers      int    // Concurrent simulations (seeded runs only)
	configPath   string // Optional YAML run file
	outDir       string // Directory for CSV export; empty disables export
	summaryLimit int    // Rows of the summary table; 0 disables it
	logLevel     string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "oupath",
	Short: "Synthetic Ornstein-Uhlenbeck path datasets with Hermite spline coefficients",
}

// generateCmd builds a dataset using parameters from a run file and CLI flags
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Simulate OU paths and compute their interpolation coefficients",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := resolveRunConfig(cmd)
		if err != nil {
			logrus.Fatalf("unable to read run config; %v", err)
		}

		logrus.Infof("Generating %d OU paths: T=%v steps=%d mu=%v sigma=%v theta=%v x0=%v",
			cfg.Samples, cfg.Horizon, cfg.Steps, cfg.Mu, cfg.Sigma, cfg.Theta, cfg.X0)
		if cfg.Ambient {
			logrus.Infof("Ambient randomness: output is not reproducible")
		} else {
			logrus.Infof("Seed %d, %d worker(s)", cfg.Seed, max(cfg.Workers, 1))
		}

		startTime := time.Now()
		ds, err := sim.BuildDataset(context.Background(), cfg.DatasetConfig(), cfg.RNG())
		if err != nil {
			logrus.Fatalf("dataset generation failed: %v", err)
		}
		logrus.Infof("Built dataset %v and coefficients %v in %v",
			ds.Paths.Shape(), ds.Coeffs.Shape(), time.Since(startTime))

		if summaryLimit > 0 {
			RenderSummary(os.Stdout, summary.Summarize(ds), summaryLimit)
		}

		if outDir != "" {
			var headerSeed *int64
			if !cfg.Ambient {
				headerSeed = &cfg.Seed
			}
			if err := ExportDataset(outDir, ds, NewExportHeader(ds, headerSeed)); err != nil {
				logrus.Fatalf("export failed: %v", err)
			}
			logrus.Infof("Wrote %s, %s and %s to %s", PathsFileName, CoeffsFileName, HeaderFileName, outDir)
		}

		logrus.Info("Generation complete.")
	},
}

// resolveRunConfig layers defaults, the optional run file, and explicitly set
// flags, in that order.
func resolveRunConfig(cmd *cobra.Command) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if configPath != "" {
		loaded, err := LoadRunConfig(configPath, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	applyFlagOverrides(cmd, &cfg)
	return cfg, nil
}

// applyFlagOverrides copies every flag the user set on the command line into cfg.
func applyFlagOverrides(cmd *cobra.Command, cfg *RunConfig) {
	flags := cmd.Flags()
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("mu") {
		cfg.Mu = mu
	}
	if flags.Changed("sigma") {
		cfg.Sigma = sigma
	}
	if flags.Changed("theta") {
		cfg.Theta = theta
	}
	if flags.Changed("x0") {
		cfg.X0 = x0
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("ambient") {
		cfg.Ambient = ambient
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	defaults := DefaultRunConfig()

	// OU process parameters
	generateCmd.Flags().IntVar(&samples, "samples", defaults.Samples, "Number of paths to simulate")
	generateCmd.Flags().Float64Var(&horizon, "horizon", defaults.Horizon, "Time horizon T")
	generateCmd.Flags().IntVar(&steps, "steps", defaults.Steps, "Grid points per path (>= 2)")
	generateCmd.Flags().Float64Var(&mu, "mu", defaults.Mu, "Long-run mean")
	generateCmd.Flags().Float64Var(&sigma, "sigma", defaults.Sigma, "Volatility")
	generateCmd.Flags().Float64Var(&theta, "theta", defaults.Theta, "Mean-reversion rate")
	generateCmd.Flags().Float64Var(&x0, "x0", defaults.X0, "Initial value")

	// Run configuration
	generateCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Seed for per-sample random streams")
	generateCmd.Flags().BoolVar(&ambient, "ambient", false, "Use the process-wide generator (ignores --seed, not reproducible)")
	generateCmd.Flags().IntVar(&workers, "workers", defaults.Workers, "Concurrent simulations for seeded runs")
	generateCmd.Flags().StringVar(&configPath, "config", "", "YAML run file; flags set on the command line override it")
	generateCmd.Flags().StringVar(&outDir, "out", "", "Directory for paths.csv, coeffs.csv and header.yaml")
	generateCmd.Flags().IntVar(&summaryLimit, "summary", 0, "Print a moments table with this many rows (0 disables)")
	generateCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Attach `generate` as a subcommand to `root`
	rootCmd.AddCommand(generateCmd)
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"crimelens/internal/app"
	"crimelens/internal/config"
	"crimelens/internal/infrastructure"
)

var (
	flagInput  string
	flagOutput string
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:   "crimereport",
	Short: "Generate a descriptive crime analysis report from an incident CSV",
	Long: `crimereport reads a police incident CSV, cleans and normalizes it,
computes descriptive aggregates (temporal, demographic, weapon, location)
and writes cleaned/summary CSVs, an Excel workbook and chart images.

The pipeline runs once per invocation: the input is read once,
transformed once and summarized once. Re-running on an unchanged input
produces identical summary files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagInput, "input", "i", "", "path of the raw incident CSV (default data/crimes.csv)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output directory for all artifacts (default results)")
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "optional YAML config file")
}

func run(cmd *cobra.Command, args []string) error {
	// A .env next to the binary is optional.
	_ = godotenv.Load()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("input") {
		cfg.Input.File = flagInput
	}
	if cmd.Flags().Changed("output") {
		cfg.Input.OutputDir = flagOutput
	}
	logger, closeLog, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	summary, err := app.New(cfg, logger).Run(cmd.Context())
	if err != nil {
		return err
	}

	logger.Info("report written",
		slog.String("output_dir", cfg.Input.OutputDir),
		slog.Int("artifacts", len(summary.Artifacts)))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

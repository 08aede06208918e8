// Package main provides the mhapviz command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var verbose bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mhapviz",
		Short: "Plot microhaplotype summary statistics",
		Long: `mhapviz renders per-window summary tables from microhaplotype pipelines
as PNG figures: per-metric scatter and line panels over the genomic
coordinate, gene exon/UTR schematics, and combined two-panel figures
that share an aligned x-axis.`,
		Version:      fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage: true,
	}

	cobra.OnInitialize(initConfig)
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newStructureCmd())
	cmd.AddCommand(newFigureCmd())
	cmd.AddCommand(newScreenCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// newLogger builds the stderr console logger handed to the parser and the
// panel builders. Data-quality warnings always show; --verbose adds the
// per-point debug output.
func newLogger() *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level))
}

// initConfig reads ~/.mhapviz.yaml if present. A missing config file is
// fine; flag defaults then stand.
func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.AddConfigPath(home)
	viper.SetConfigName(".mhapviz")
	viper.SetConfigType("yaml")
	viper.ReadInConfig()
}

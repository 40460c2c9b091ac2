package main

import (
	"fmt"
	"os"

	"github.com/ChicagoDave/showthr/internal/observability"
	"github.com/ChicagoDave/showthr/internal/server"
	"github.com/ChicagoDave/showthr/pkg/config"
	"github.com/ChicagoDave/showthr/pkg/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	err := newRootCmd().Execute()
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// options holds the flags shared by every command.
type options struct {
	configPath string
	logLevel   string
	logFormat  string
	logFile    string
	table      tableFlags

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "showthr",
		Short:        "Simulate a ball rolling through sand along a theta-rho track",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML config file (defaults built in)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: console or json")
	pf.StringVar(&opts.logFile, "log-file", "", "also write JSON logs to this rotating file")

	rootCmd.AddCommand(renderCmd(opts))
	rootCmd.AddCommand(batchCmd(opts))
	rootCmd.AddCommand(validateCmd(opts))
	rootCmd.AddCommand(configCmd(opts))
	rootCmd.AddCommand(serveCmd(opts))

	return rootCmd
}

// load reads the config file, applies flag overrides and sets up logging.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}
	applyTableFlags(cmd, cfg, &o.table)

	o.cfg = cfg
	observability.InitializeLogger(cfg.Log)
	return nil
}

// tableFlags are the simulation knobs available on render, batch and serve.
type tableFlags struct {
	width, height, border int
	ball, depth, dt       float64
}

func addTableFlags(cmd *cobra.Command, tf *tableFlags) {
	f := cmd.Flags()
	f.IntVarP(&tf.width, "width", "w", 0, "table width in cells (default 300)")
	f.IntVarP(&tf.height, "height", "H", 0, "table height in cells (default 300)")
	f.IntVar(&tf.border, "border", 0, "cells kept clear between rho=1 and the edge (default 20)")
	f.Float64VarP(&tf.ball, "ball", "b", 0, "ball radius in cells (default 5)")
	f.Float64VarP(&tf.depth, "depth", "d", 0, "initial sand depth (default 2)")
	f.Float64Var(&tf.dt, "dt", 0, "time step per advance (default 0.2)")
}

func applyTableFlags(cmd *cobra.Command, cfg *config.Config, tf *tableFlags) {
	f := cmd.Flags()
	if f.Lookup("width") == nil {
		return
	}
	if f.Changed("width") {
		cfg.Table.Width = tf.width
	}
	if f.Changed("height") {
		cfg.Table.Height = tf.height
	}
	if f.Changed("border") {
		cfg.Table.Border = tf.border
	}
	if f.Changed("ball") {
		cfg.Ball.Radius = tf.ball
	}
	if f.Changed("depth") {
		cfg.Sand.Depth = tf.depth
	}
	if f.Changed("dt") {
		cfg.Run.DT = tf.dt
	}
}

func renderCmd(opts *options) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "render [input.thr] [output.png]",
		Short: "Simulate one track and save the sand as an image",
		Long: "Simulate one track and save the sand as an image.\n\nSupported output formats: " +
			fmt.Sprint(render.SupportedFormats()),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd.OutOrStdout(), opts.cfg, args[0], args[1], quiet)
		},
	}

	addTableFlags(cmd, &opts.table)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print per-waypoint progress")
	return cmd
}

func batchCmd(opts *options) *cobra.Command {
	var (
		format string
		jobs   int
	)

	cmd := &cobra.Command{
		Use:   "batch [out-dir] [input.thr]...",
		Short: "Render several tracks concurrently into a directory",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("jobs") {
				opts.cfg.Run.Jobs = jobs
			}
			results, err := runBatch(cmd.Context(), opts.cfg, args[0], format, args[1:])
			printBatchResults(cmd.OutOrStdout(), results)
			return err
		},
	}

	addTableFlags(cmd, &opts.table)
	cmd.Flags().StringVarP(&format, "format", "f", "png", "output image format")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "tracks rendered at once (default 4)")
	return cmd
}

func validateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input.thr]...",
		Short: "Check the configuration and, optionally, tracks without simulating",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, summaries := runValidate(opts.cfg, args)
			out := cmd.OutOrStdout()
			printTrackSummaries(out, summaries)
			printValidationReport(out, report)
			return report.Err()
		},
	}
}

func configCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return config.Write(cmd.OutOrStdout(), opts.cfg)
		},
	}
	addTableFlags(cmd, &opts.table)
	return cmd
}

func serveCmd(opts *options) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start an HTTP server that renders uploaded tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				opts.cfg.Server.Port = port
			}
			if err := checkConfig(opts.cfg); err != nil {
				return err
			}
			logger := observability.GetLogger()
			logger.Info("serving", zap.Int("port", opts.cfg.Server.Port))
			return server.New(opts.cfg, logger).Start()
		},
	}

	addTableFlags(cmd, &opts.table)
	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}

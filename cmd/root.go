// Package cmd implements the insights command line.
package cmd

import (
	"context"
	"os"

	"github.com/TFMV/insights/config"
	"github.com/TFMV/insights/errors"
	"github.com/TFMV/insights/graphview"
	"github.com/TFMV/insights/ingest"
	"github.com/TFMV/insights/logger"
	"github.com/TFMV/insights/render"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

// app carries the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	logJSON    bool
	logLevel   string

	cfg *config.Config
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "insights",
		Short: "insights: force-directed layout for weighted, clustered networks",
		Long: Brand.Sprint("insights") + " lays out networks of weighted, clustered nodes and draws them\n" +
			Subtle.Sprint("Render to SVG, JSON or DOT; filter, focus and zoom from the command line"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}
	root.SetVersionTemplate("insights {{ .Version }}\n")

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to a TOML or YAML config file")
	flags.BoolVar(&a.logJSON, "log-json", false, "Write logs as JSON")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		a.renderCmd(),
		a.inspectCmd(),
		a.configCmd(),
	)
	return root
}

// setup loads the configuration and initializes logging. Flags override the
// file and the environment.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = a.logJSON
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
		return errors.Mark(errors.Wrap(err, "initialize logger"), errors.ErrInvalidConfig)
	}
	a.cfg = cfg
	return nil
}

// open loads a dataset and wraps it in a graph drawing into a recorder.
func (a *app) open(path string) (*graphview.Graph, *render.Recorder, *ingest.Dataset, error) {
	ds, err := ingest.ProcessFile(path)
	if err != nil {
		return nil, nil, nil, err
	}
	opts, err := graphview.OptionsFromConfig(a.cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	opts.Logger = logger.Named("graphview")

	surface := render.NewRecorder()
	g, err := graphview.New(surface, ds.Nodes, ds.Links, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	return g, surface, ds, nil
}

// Execute runs the command line and reports a failure with its hints.
func Execute(ctx context.Context) error {
	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		Bad.Fprintf(os.Stderr, "insights: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			Subtle.Fprintf(os.Stderr, "  hint: %s\n", hint)
		}
	}
	return err
}

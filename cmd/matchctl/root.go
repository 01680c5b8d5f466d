package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	app "github.com/okian/cvmatch/internal/app"
	"github.com/okian/cvmatch/internal/config"
	"github.com/okian/cvmatch/internal/domain/catalog"
	"github.com/okian/cvmatch/pkg/logger"
)

// options are the flags shared by every subcommand.
type options struct {
	catalogPath    string
	topN           int
	maxSuggestions int
	logLevel       string
	cfg            *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "matchctl",
		Short:         "Match résumés against a job catalog",
		Long:          "matchctl extracts skills from PDF, DOCX or TXT résumés and scores them against the postings of a CSV or XLSX job catalog.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.catalogPath, "catalog", "", "Path to the job catalog (.csv or .xlsx); defaults to catalog_path from config")
	flags.IntVar(&opts.topN, "top", 0, "Number of postings in a catalog-wide report; defaults to top_n from config")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(newMatchCmd(opts), newTargetCmd(opts))
	return root
}

// setup routes logs to stderr and layers flags over the loaded config.
func (o *options) setup(cmd *cobra.Command) error {
	if err := logger.InitWithWriter(cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(o.logLevel); err != nil {
		return err
	}

	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogPath = o.catalogPath
	}
	if cmd.Flags().Changed("top") && o.topN > 0 {
		cfg.TopN = o.topN
	}
	if o.maxSuggestions > 0 {
		cfg.MaxSuggestions = o.maxSuggestions
	}
	o.cfg = cfg
	return nil
}

// newService loads the catalog and returns a service for the synchronous
// pipeline; the worker pool is not started.
func (o *options) newService(ctx context.Context) (*app.Service, error) {
	c, err := catalog.Load(o.cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Get().Debug(ctx, "catalog loaded",
		logger.String("path", o.cfg.CatalogPath),
		logger.Int("postings", c.Len()),
	)
	return app.New(
		app.WithLogger(logger.Named("matchctl")),
		app.WithCatalog(c),
		app.WithTopN(o.cfg.TopN),
		app.WithMaxSuggestions(o.cfg.MaxSuggestions),
	), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

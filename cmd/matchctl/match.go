package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/okian/cvmatch/internal/domain/model"
)

type fileReport struct {
	File   string            `json:"file"`
	Report model.MatchReport `json:"report"`
}

func newMatchCmd(opts *options) *cobra.Command {
	var parallel int

	cmd := &cobra.Command{
		Use:   "match FILE...",
		Short: "Rank every posting against one or more résumés",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(cmd.Context())
			if err != nil {
				return err
			}

			reports := make([]fileReport, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(parallel, 1))
			for i, path := range args {
				g.Go(func() error {
					data, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("read %s: %w", path, err)
					}
					rep, err := svc.Match(ctx, filepath.Base(path), data)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					reports[i] = fileReport{File: path, Report: rep}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), reports)
		},
	}

	cmd.Flags().IntVarP(&parallel, "parallel", "p", runtime.NumCPU(), "Maximum number of résumés processed at once")
	return cmd
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/okian/cvmatch/internal/domain/report"
)

func newTargetCmd(opts *options) *cobra.Command {
	var q report.Query

	cmd := &cobra.Command{
		Use:   "target FILE",
		Short: "Compare one résumé with a single posting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(cmd.Context())
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			rep, err := svc.Target(cmd.Context(), filepath.Base(args[0]), data, q)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rep)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&q.Title, "title", "", "Job title (required)")
	flags.StringVar(&q.Region, "region", "", "Governorate (required)")
	flags.StringVar(&q.Level, "level", "", "Professional level (required)")
	flags.IntVar(&opts.maxSuggestions, "max-suggestions", 0, "Maximum missing skills to suggest; defaults to max_suggestions from config")
	for _, name := range []string{"title", "region", "level"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
	return cmd
}

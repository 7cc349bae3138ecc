package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jobmate/job-finder/internal/logger"
	"jobmate/job-finder/internal/report"
)

func newRunCmd() *cobra.Command {
	var mdPath, jsonPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one batch and print the ranked listings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, cmd, nil)
			if err != nil {
				return err
			}
			defer d.Close()

			res, err := d.runner.RunOnce(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			report.WriteSummary(out, res.Stats)
			report.WriteTable(out, res.Listings)

			profilePath, _ := cmd.Flags().GetString("profile")
			if mdPath != "" {
				if err := writeFile(mdPath, func(f *os.File) error {
					return report.WriteMarkdown(f, res.Listings, profilePath, time.Now())
				}); err != nil {
					return err
				}
				d.log.Info("markdown written", logger.String("path", mdPath))
			}
			if jsonPath != "" {
				if err := writeFile(jsonPath, func(f *os.File) error {
					return report.WriteJSON(f, res.Listings)
				}); err != nil {
					return err
				}
				d.log.Info("json written", logger.String("path", jsonPath))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mdPath, "out", "", "write a Markdown report to this path")
	cmd.Flags().StringVar(&jsonPath, "json", "", "write a JSON report to this path")
	return cmd
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

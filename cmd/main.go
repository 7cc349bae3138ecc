// jobfinder aggregates job listings from public portals, ranks them
// against an interest profile and writes a bounded, source-balanced list.
//
//	jobfinder run   --profile profile.yaml [--out jobs.md] [--json jobs.json]
//	jobfinder serve --profile profile.yaml
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jobfinder",
		Short:         "Aggregate, score and select job listings",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("profile", "p", "", "path to the JSON/YAML interest profile (defaults apply when empty)")

	root.AddCommand(newRunCmd(), newServeCmd())
	return root
}

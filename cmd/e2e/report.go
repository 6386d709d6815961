package main

import (
	"fmt"
	"os"
	"path/filepath"

	"conduit-e2e/internal/infrastructure/env"
	"conduit-e2e/internal/infrastructure/report"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the summary of the last run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				dir := env.NewEnvService().GetWithDefault(env.KeyArtifactsDir, "artifacts")
				path = filepath.Join(dir, reportFileName)
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("no report found: %w", err)
			}
			defer f.Close()

			r, err := report.Parse(f)
			if err != nil {
				return err
			}
			report.Render(cmd.OutOrStdout(), r)
			if !r.Passed() {
				return errTestsFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "from", "", "go test -json output to summarise (default: last run)")
	return cmd
}

package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "e2e",
		Short: "Run the Conduit sign-up and sign-in browser suite",
		Long: `e2e drives the browser scenarios in ./e2e through go test and prints a
summary. Without BASE_URL the scenarios run against the bundled demo app.`,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(`{{printf "e2e version %s\n" .Version}}`)

	root.AddCommand(newRunCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newProfilesCmd())
	root.AddCommand(newServeDemoCmd())
	return root
}

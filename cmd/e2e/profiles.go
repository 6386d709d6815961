package main

import (
	"fmt"

	"conduit-e2e/internal/infrastructure/env"
	"conduit-e2e/internal/infrastructure/profiles"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the browser profiles usable with run --profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := profiles.Load(env.NewEnvService().Get(env.KeyProfilesFile))
			if err != nil {
				return err
			}
			bold := color.New(color.Bold).SprintFunc()
			for _, name := range set.Names() {
				p, _ := set.Get(name)
				mode := "headless"
				if !p.Headless {
					mode = "headed"
				}
				engine := string(p.Engine)
				if p.Browser != "" {
					engine += "/" + p.Browser
				}
				line := fmt.Sprintf("%-16s %-20s %s", name, engine, mode)
				if name == set.DefaultName() {
					line = bold(line + "  (default)")
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

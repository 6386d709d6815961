package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"conduit-e2e/internal/infrastructure/demoapp"
	"conduit-e2e/internal/infrastructure/logger"

	"github.com/spf13/cobra"
)

func newServeDemoCmd() *cobra.Command {
	var (
		addr string
		seed bool
	)
	cmd := &cobra.Command{
		Use:   "serve-demo",
		Short: "Serve the bundled demo app for manual runs against BASE_URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := logger.DefaultConfig("serve-demo")
			cfg.Dir = ""
			cfg.Console = true
			log, err := logger.NewLoggerAdapter(cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			srv, err := demoapp.New(demoapp.Options{Seed: seed, AccessLog: os.Stderr}, log)
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "BASE_URL=http://%s/\n", ln.Addr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Serve(ctx, ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3000", "listen address")
	cmd.Flags().BoolVar(&seed, "seed", true, "create the test@example.com account")
	return cmd
}

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/df07/go-motion-pathtracer/web/server"
)

type serveOptions struct {
	port int
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP",
		Long: `Start an HTTP server that lists the builtin scenes, streams renders as
Server-Sent Events at /api/render, returns finished images at /api/image and
reports the surface under a pixel at /api/inspect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 8080, "Port to serve on")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	if opts.port < 1 || opts.port > 65535 {
		return fmt.Errorf("port %d out of range", opts.port)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return server.NewServer(opts.port, newLogger(cmd.ErrOrStderr())).Start(ctx)
}

package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/df07/go-motion-pathtracer/pkg/core"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pathtracer",
		Short: "A motion-blur path tracer for analytic scenes",
		Long: `pathtracer renders spheres, moving spheres and axis-aligned rectangles with
diffuse, metal, glass and emissive materials by unidirectional path tracing.
Scenes are accelerated with a bounding volume hierarchy and rendered in
parallel, one scanline per task, from the command line or over HTTP.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newScenesCmd())
	rootCmd.AddCommand(newServeCmd())
	return rootCmd
}

// newLogger writes timestamped progress lines to w
func newLogger(w io.Writer) core.Logger {
	return log.New(w, "pathtracer: ", log.Ltime)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"image"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/df07/go-motion-pathtracer/pkg/config"
	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/renderer"
	"github.com/df07/go-motion-pathtracer/pkg/watcher"
)

// watchDebounce collapses the burst of events an editor save produces
const watchDebounce = 250 * time.Millisecond

type renderOptions struct {
	configPath  string
	watch       bool
	printConfig bool

	// Flag values, applied over the config file only when set
	flags        config.RenderConfig
	shutterOpen  float64
	shutterClose float64
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to an image file",
		Long: `Render a builtin scene. Settings come from the defaults, then the YAML file
given with --config, then any flags set on the command line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML render configuration file")
	flags.BoolVar(&opts.watch, "watch", false, "Re-render whenever the --config file changes")
	flags.BoolVar(&opts.printConfig, "print-config", false, "Print the effective configuration as YAML and exit")

	flags.StringVarP(&opts.flags.Scene, "scene", "s", defaults.Scene, "Builtin scene name (see 'scenes')")
	flags.IntVarP(&opts.flags.Width, "width", "w", defaults.Width, "Image width in pixels, 0 for the scene default")
	flags.Float64Var(&opts.flags.AspectRatio, "aspect", defaults.AspectRatio, "Aspect ratio, 0 for the scene default")
	flags.IntVarP(&opts.flags.SamplesPerPixel, "samples", "n", defaults.SamplesPerPixel, "Samples per pixel, 0 for the scene default")
	flags.IntVarP(&opts.flags.MaxDepth, "depth", "d", defaults.MaxDepth, "Maximum bounces per path, 0 for the scene default")
	flags.Int64Var(&opts.flags.Seed, "seed", defaults.Seed, "Seed for scene layout, BVH construction and sampling")
	flags.IntVarP(&opts.flags.Workers, "workers", "j", defaults.Workers, "Render goroutines, 0 for one per logical CPU")
	flags.StringVarP(&opts.flags.Output, "output", "o", defaults.Output, "Output image path")
	flags.StringVarP(&opts.flags.Format, "format", "f", defaults.Format, "Image format: png, bmp or ppm (default from --output)")
	flags.Float64Var(&opts.shutterOpen, "shutter-open", 0, "Shutter open time, with --shutter-close overrides the scene")
	flags.Float64Var(&opts.shutterClose, "shutter-close", 0, "Shutter close time")
	flags.StringVarP(&opts.flags.Texture, "texture", "t", defaults.Texture, "PNG, JPEG or BMP map for the earth scene's globe")
	flags.IntVar(&opts.flags.ProgressInterval, "progress", defaults.ProgressInterval, "Log every N remaining scanlines, 0 to disable")

	return cmd
}

// resolveConfig layers the config file and the explicitly set flags over the defaults
func resolveConfig(cmd *cobra.Command, opts *renderOptions) (config.RenderConfig, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.RenderConfig{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("scene") {
		cfg.Scene = opts.flags.Scene
	}
	if flags.Changed("width") {
		cfg.Width = opts.flags.Width
	}
	if flags.Changed("aspect") {
		cfg.AspectRatio = opts.flags.AspectRatio
	}
	if flags.Changed("samples") {
		cfg.SamplesPerPixel = opts.flags.SamplesPerPixel
	}
	if flags.Changed("depth") {
		cfg.MaxDepth = opts.flags.MaxDepth
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.flags.Seed
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.flags.Workers
	}
	if flags.Changed("output") {
		cfg.Output = opts.flags.Output
	}
	if flags.Changed("format") {
		cfg.Format = opts.flags.Format
	}
	if flags.Changed("texture") {
		cfg.Texture = opts.flags.Texture
	}
	if flags.Changed("progress") {
		cfg.ProgressInterval = opts.flags.ProgressInterval
	}
	if flags.Changed("shutter-open") || flags.Changed("shutter-close") {
		shutter := config.Shutter{}
		if cfg.Shutter != nil {
			shutter = *cfg.Shutter
		}
		if flags.Changed("shutter-open") {
			shutter.Open = opts.shutterOpen
		}
		if flags.Changed("shutter-close") {
			shutter.Close = opts.shutterClose
		}
		cfg.Shutter = &shutter
	}

	if err := cfg.Validate(); err != nil {
		return config.RenderConfig{}, err
	}
	return cfg, nil
}

func runRender(cmd *cobra.Command, opts *renderOptions) error {
	if opts.watch && opts.configPath == "" {
		return errors.New("--watch requires --config")
	}

	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	if opts.printConfig {
		return cfg.Write(cmd.OutOrStdout())
	}

	logger := newLogger(cmd.ErrOrStderr())
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := renderToFile(ctx, cfg, logger); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	return watchAndRender(ctx, cmd, opts, logger)
}

// renderScene builds the configured scene and renders it
func renderScene(ctx context.Context, cfg config.RenderConfig, logger core.Logger) (*image.RGBA, renderer.RenderStats, error) {
	s, rt, err := cfg.Prepare(logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	bvhStats := s.BVH.Stats()
	logger.Printf("Scene %s: %d primitives, BVH %d nodes, depth %d\n",
		s.Name, s.GetPrimitiveCount(), bvhStats.Nodes, bvhStats.MaxDepth)

	return rt.Render(ctx)
}

// renderToFile renders and saves the image named by cfg.Output
func renderToFile(ctx context.Context, cfg config.RenderConfig, logger core.Logger) error {
	format, err := cfg.OutputFormat()
	if err != nil {
		return err
	}

	img, stats, err := renderScene(ctx, cfg, logger)
	if err != nil {
		return err
	}
	logger.Printf("Render completed: %s\n", stats)
	logger.Printf("Average luminance: %.3f\n", renderer.CalculateAverageLuminance(img))

	if err := renderer.SaveImage(cfg.Output, img, format); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", cfg.Output)
	return nil
}

// watchAndRender re-renders on every change to the config file until ctx is
// done. A bad edit is logged and the previous image is left in place.
func watchAndRender(ctx context.Context, cmd *cobra.Command, opts *renderOptions, logger core.Logger) error {
	fw, err := watcher.NewFileWatcher(watchDebounce, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	changes := make(chan struct{}, 1)
	err = fw.Watch([]string{opts.configPath}, func(string) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	fw.Start()
	logger.Printf("Watching %s for changes (Ctrl+C to stop)\n", opts.configPath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				logger.Printf("Config error: %v\n", err)
				continue
			}
			if err := renderToFile(ctx, cfg, logger); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Printf("Render failed: %v\n", err)
			}
		}
	}
}

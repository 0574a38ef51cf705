package main

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/scene"
)

type renderOptions struct {
	output    string
	frames    int
	spin      float64
	width     int
	height    int
	wireframe bool
	jobs      int
	quiet     bool
}

func newRenderCmd(g *globalOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the scene to PNG",
		Long:  "Render the scene to PNG. With more than one frame the output name gets a frame number before its extension.",
		Example: `  softrender render -c scene.yaml -o out.png
  softrender render -c scene.yaml -o spin.png --frames 36 --spin 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, g, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "out.png", "output PNG path")
	f.IntVar(&opts.frames, "frames", 0, "number of frames (overrides the scene)")
	f.Float64Var(&opts.spin, "spin", 0, "degrees of Y rotation per frame (overrides the scene)")
	f.IntVar(&opts.width, "width", 0, "image width (overrides the scene)")
	f.IntVar(&opts.height, "height", 0, "image height (overrides the scene)")
	f.BoolVar(&opts.wireframe, "wireframe", false, "overlay triangle edges")
	f.IntVarP(&opts.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "concurrent PNG encoders")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "hide the progress bar")
	return cmd
}

func runRender(cmd *cobra.Command, g *globalOptions, opts *renderOptions) error {
	c, err := g.loadConfig()
	if err != nil {
		return err
	}
	if opts.frames > 0 {
		c.Frames = opts.frames
	}
	if cmd.Flags().Changed("spin") {
		c.Spin = opts.spin
	}
	if opts.width > 0 {
		c.Width = opts.width
	}
	if opts.height > 0 {
		c.Height = opts.height
	}
	if err := c.Validate(); err != nil {
		return err
	}

	s, err := c.Build()
	if err != nil {
		return err
	}
	r := scene.NewRenderer(render.NewRenderTexture(c.Width, c.Height, true), s.Light)
	s.Apply(r)
	r.SetLogger(g.logger)
	if opts.wireframe {
		r.Wireframe = true
	}

	bar := progressbar.NewOptions(c.Frames,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("rendering"),
		progressbar.OptionSetVisibility(!opts.quiet && c.Frames > 1),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)

	// Rasterization stays on this goroutine; only encoding fans out.
	eg, ctx := errgroup.WithContext(cmd.Context())
	eg.SetLimit(max(opts.jobs, 1))
	start := time.Now()
	for i := range c.Frames {
		if err := ctx.Err(); err != nil {
			break
		}
		s.Frame(i)
		fs, err := r.Render(ctx, s.Camera, s.Objects)
		if err != nil {
			// A failed encode cancels ctx; report that failure, not the
			// cancellation it caused.
			if werr := eg.Wait(); werr != nil {
				return werr
			}
			return fmt.Errorf("frame %d: %w", i, err)
		}
		g.logger.Debug("rendered frame", "frame", i, "visible", fs.Visible, "fragments", fs.Fragments)

		frame := r.Target.Color.Clone()
		path := frameName(opts.output, i, c.Frames)
		eg.Go(func() error {
			if err := frame.SavePNG(path); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			return nil
		})
		_ = bar.Add(1)
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if err := cmd.Context().Err(); err != nil {
		return err
	}
	_ = bar.Finish()

	g.logger.Info("render complete",
		"frames", c.Frames,
		"size", fmt.Sprintf("%dx%d", c.Width, c.Height),
		"output", opts.output,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// frameName numbers the output path when more than one frame is written:
// out.png becomes out_007.png.
func frameName(output string, i, n int) string {
	if n <= 1 {
		return output
	}
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(output, ext), i, ext)
}

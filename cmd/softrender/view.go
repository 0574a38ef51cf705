package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/softrender/pkg/raster"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/scene"
)

const (
	mouseOn  = "\x1b[?1003h\x1b[?1006h" // any-event tracking, SGR coordinates
	mouseOff = "\x1b[?1003l\x1b[?1006l"

	fallbackShadowSize = 512
)

func newViewCmd(g *globalOptions) *cobra.Command {
	var fps int
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore the scene in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fps <= 0 {
				return fmt.Errorf("fps must be positive, got %d", fps)
			}
			return runView(cmd.Context(), g, fps)
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 30, "target frames per second")
	return cmd
}

// frame draws the framebuffer with the HUD on the bottom row.
type frame struct {
	fb  *render.Framebuffer
	hud string
}

func (f frame) Draw(scr uv.Screen, area uv.Rectangle) {
	f.fb.Draw(scr, area)
	if f.hud != "" && area.Dy() > 0 {
		uv.NewStyledString(f.hud).Draw(scr, uv.Rect(area.Min.X, area.Max.Y-1, area.Dx(), 1))
	}
}

func runView(ctx context.Context, g *globalOptions, fps int) error {
	c, err := g.loadConfig()
	if err != nil {
		return err
	}
	s, err := c.Build()
	if err != nil {
		return err
	}

	// Log lines on stderr would tear the screen.
	logger := g.logger
	if g.logFile == "" {
		logger = slog.New(slog.DiscardHandler)
		raster.SetLogger(logger)
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	_ = term.Resize(width, height)
	fmt.Fprint(os.Stdout, mouseOn)
	defer func() {
		fmt.Fprint(os.Stdout, mouseOff)
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Shutdown(context.Background())
	}()

	fbW, fbH := render.TerminalPixels(width, height)
	r := scene.NewRenderer(render.NewRenderTexture(fbW, fbH, true), s.Light)
	s.Apply(r)
	r.SetLogger(logger)

	shadowSize := r.ShadowSize
	if shadowSize == 0 {
		shadowSize = fallbackShadowSize
	}
	v := newViewer(fps, r.ShadowSize > 0)
	v.wireframe = r.Wireframe
	v.inset = r.ShadowInset

	cam := c.NewCamera(float64(fbW) / float64(fbH))
	target := c.Camera.Target.Vec()
	offset := cam.Position.Sub(target)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var counter fpsCounter
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	events := term.Events()
	for !v.quit {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if ws, ok := ev.(uv.WindowSizeEvent); ok {
				width, height = ws.Width, ws.Height
				term.Erase()
				_ = term.Resize(width, height)
				fbW, fbH = render.TerminalPixels(width, height)
				r.Resize(fbW, fbH)
				cam = c.NewCamera(float64(fbW) / float64(fbH))
				logger.Debug("resized", "cols", width, "rows", height)
				continue
			}
			v.handle(ev)
		case now := <-ticker.C:
			v.update()
			r.Wireframe = v.wireframe
			r.ShadowInset = v.inset
			r.ShadowSize = 0
			if v.shadows {
				r.ShadowSize = shadowSize
			}
			cam.SetPosition(target.Add(offset.Scale(v.zoom.Current)))
			s.Pose(v.pose())

			fs, err := r.Render(ctx, cam, s.Objects)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				return err
			}
			counter.tick(now)

			f := frame{fb: r.Target.Color}
			if v.showHUD {
				f.hud = v.hud(counter.fps, fs)
			}
			term.Draw(f)
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
	return nil
}

// softrender - CPU 3D renderer for YAML scenes.
//
// Render scenes to PNG frames, or explore them in the terminal.
//
// Viewer controls:
//
//	Arrows / drag - Rotate the scene
//	Scroll, +/-   - Zoom in/out
//	Space         - Apply random impulse
//	R             - Reset rotation and zoom
//	W             - Toggle wireframe overlay
//	S             - Toggle shadows
//	M             - Toggle shadow map inset
//	?             - Toggle HUD
//	Q / Esc       - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/softrender/pkg/config"
	"github.com/taigrr/softrender/pkg/raster"
)

var version = "dev"

type globalOptions struct {
	config  string
	verbose bool
	logFile string

	logger  *slog.Logger
	closeFn func() error
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "softrender",
		Short:         "Render 3D scenes on the CPU",
		Long:          "softrender rasterizes YAML scene descriptions in software, to PNG files or straight to the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setupLogging(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if opts.closeFn != nil {
				return opts.closeFn()
			}
			return nil
		},
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.config, "config", "c", "", "scene file (default: built-in demo scene)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(
		newRenderCmd(opts),
		newViewCmd(opts),
		newInitCmd(),
	)
	return root
}

func (o *globalOptions) setupLogging(stderr io.Writer) error {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	w := stderr
	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = f
		o.closeFn = f.Close
	}
	o.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	raster.SetLogger(o.logger)
	return nil
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.config == "" {
		return config.Default(), nil
	}
	c, err := config.Load(o.config)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("loaded scene", "path", o.config, "objects", len(c.Objects))
	return c, nil
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [file]",
		Short: "Write the demo scene as a starting point",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Default().Marshal()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(args[0], data, 0o644)
		},
	}
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

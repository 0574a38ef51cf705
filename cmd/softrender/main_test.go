package main

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/softrender/pkg/config"
	"github.com/taigrr/softrender/pkg/raster"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/scene"
)

func TestFrameName(t *testing.T) {
	tests := []struct {
		out  string
		i, n int
		want string
	}{
		{"out.png", 0, 1, "out.png"},
		{"out.png", 7, 36, "out_007.png"},
		{"dir/spin.png", 12, 20, "dir/spin_012.png"},
		{"noext", 1, 2, "noext_001"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := frameName(tt.out, tt.i, tt.n); got != tt.want {
				t.Errorf("frameName(%q, %d, %d) = %q, want %q", tt.out, tt.i, tt.n, got, tt.want)
			}
		})
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { raster.SetLogger(nil) })
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String() + errOut.String(), err
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "frame.png")
	if _, err := execute(t, "render", "-o", out, "--frames", "3", "--spin", "30", "--width", "48", "--height", "32", "-q"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for i := range 3 {
		path := frameName(out, i, 3)
		tex, err := render.LoadTexture(path)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if w, h := tex.Size(); w != 48 || h != 32 {
			t.Errorf("frame %d size = %dx%d, want 48x32", i, w, h)
		}
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("camera: {fov: 500}"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		args []string
	}{
		{"missing config", []string{"render", "-c", filepath.Join(dir, "nope.yaml")}},
		{"invalid config", []string{"render", "-c", bad}},
		{"bad size", []string{"render", "--width", "100000", "-o", filepath.Join(dir, "x.png")}},
		{"unwritable output", []string{"render", "-q", "-o", filepath.Join(dir, "missing", "x.png")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRenderCommandReportsWriteError(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "spin.png")
	_, err := execute(t, "render", "-q", "-j", "1", "--frames", "12", "--width", "32", "--height", "24", "-o", out)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, context.Canceled) {
		t.Fatalf("got cancellation instead of the write failure: %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) || !strings.Contains(err.Error(), "create") {
		t.Errorf("error = %v, want the PNG create failure", err)
	}
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if _, err := execute(t, "init", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Objects) == 0 {
		t.Error("written scene has no objects")
	}

	out, err := execute(t, "init")
	if err != nil {
		t.Fatalf("init to stdout: %v", err)
	}
	if !strings.Contains(out, "objects:") {
		t.Errorf("stdout missing scene:\n%s", out)
	}
}

func TestVerboseLogging(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "render.log")
	out := filepath.Join(t.TempDir(), "out.png")
	if _, err := execute(t, "render", "-v", "--log-file", logPath, "-o", out, "--width", "16", "--height", "16"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"level=DEBUG", "msg=submit", "msg=\"render complete\""} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log missing %q", want)
		}
	}
}

func TestRotationAxisSettles(t *testing.T) {
	a := newRotationAxis(60)
	a.Velocity = 0.5
	for range 600 {
		a.update()
	}
	if math.Abs(a.Velocity) > 1e-6 {
		t.Errorf("velocity = %v, want ~0", a.Velocity)
	}
	if a.Position <= 0 {
		t.Errorf("position = %v, want positive drift", a.Position)
	}
}

func TestViewerHandle(t *testing.T) {
	key := func(r rune) uv.KeyPressEvent { return uv.KeyPressEvent{Code: r, Text: string(r)} }
	v := newViewer(30, true)

	v.handle(key('w'))
	v.handle(key('s'))
	v.handle(key('m'))
	if !v.wireframe || v.shadows || !v.inset {
		t.Errorf("toggles = wire %v shadows %v inset %v", v.wireframe, v.shadows, v.inset)
	}

	v.handle(uv.KeyPressEvent{Code: uv.KeyRight})
	if v.yaw.Velocity <= 0 {
		t.Errorf("right arrow yaw velocity = %v", v.yaw.Velocity)
	}

	for range 50 {
		v.handle(uv.MouseWheelEvent{Button: uv.MouseWheelDown})
	}
	if v.zoom.Target != maxZoom {
		t.Errorf("zoom target = %v, want clamped to %v", v.zoom.Target, maxZoom)
	}

	v.handle(uv.MouseClickEvent{X: 10, Y: 10})
	v.handle(uv.MouseMotionEvent{X: 12, Y: 10})
	v.handle(uv.MouseReleaseEvent{})
	v.handle(uv.MouseMotionEvent{X: 40, Y: 40})
	if v.dragging {
		t.Error("still dragging after release")
	}

	v.handle(key('r'))
	if v.yaw.Velocity != 0 || v.zoom.Target != 1 {
		t.Error("reset did not clear motion")
	}

	v.handle(key('q'))
	if !v.quit {
		t.Error("q did not quit")
	}
}

func TestViewerPitchClamped(t *testing.T) {
	v := newViewer(30, false)
	v.pitch.Velocity = 10
	v.update()
	if v.pitch.Position > math.Pi/2 {
		t.Errorf("pitch = %v, want <= pi/2", v.pitch.Position)
	}
}

func TestFrameDrawsHUD(t *testing.T) {
	fb := render.NewFramebuffer(8, 8)
	fb.Clear(render.ColorRed)
	v := newViewer(30, true)
	f := frame{fb: fb, hud: v.hud(29.7, scene.FrameStats{Objects: 2, Visible: 1})}

	scr := uv.NewScreenBuffer(8, 4)
	f.Draw(scr, uv.Rect(0, 0, 8, 4))
	if c := scr.CellAt(0, 0); c == nil || c.Content != "▀" {
		t.Errorf("top-left cell = %+v, want half block", c)
	}
	if c := scr.CellAt(2, 3); c == nil || c.Content != "3" {
		t.Errorf("bottom row not covered by HUD: %+v", c)
	}
	if !strings.Contains(f.hud, "30 fps") || !strings.Contains(f.hud, "1/2 objects") {
		t.Errorf("hud = %q", f.hud)
	}
}

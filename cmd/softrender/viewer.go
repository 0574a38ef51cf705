package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/scene"
)

// rotationAxis tracks one rotation angle whose velocity springs back to 0.
type rotationAxis struct {
	Position float64
	Velocity float64
	spring   harmonica.Spring
	accel    float64
}

func newRotationAxis(fps int) rotationAxis {
	// Critically damped so a flick coasts to a stop without overshoot.
	return rotationAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

func (a *rotationAxis) update() {
	a.Position += a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

// zoomSpring eases the camera distance toward its target.
type zoomSpring struct {
	Current, Target float64
	vel             float64
	spring          harmonica.Spring
}

func newZoomSpring(fps int, start float64) zoomSpring {
	return zoomSpring{Current: start, Target: start, spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0)}
}

func (z *zoomSpring) update() {
	z.Current, z.vel = z.spring.Update(z.Current, z.vel, z.Target)
}

const (
	minZoom = 0.25
	maxZoom = 4.0
)

// viewer is the interactive state of the terminal viewer.
type viewer struct {
	fps          int
	pitch, yaw   rotationAxis
	zoom         zoomSpring
	wireframe    bool
	shadows      bool
	inset        bool
	showHUD      bool
	quit         bool
	dragging     bool
	lastX, lastY int
}

func newViewer(fps int, shadows bool) *viewer {
	v := &viewer{fps: fps, shadows: shadows, showHUD: true}
	v.reset()
	return v
}

func (v *viewer) reset() {
	v.pitch = newRotationAxis(v.fps)
	v.yaw = newRotationAxis(v.fps)
	v.zoom = newZoomSpring(v.fps, 1)
}

func (v *viewer) impulse(pitch, yaw float64) {
	v.pitch.Velocity += pitch
	v.yaw.Velocity += yaw
}

func (v *viewer) zoomBy(f float64) {
	v.zoom.Target = math.Max(minZoom, math.Min(maxZoom, v.zoom.Target*f))
}

func (v *viewer) update() {
	v.pitch.update()
	v.yaw.update()
	v.zoom.update()
	v.pitch.Position = math.Max(-math.Pi/2, math.Min(math.Pi/2, v.pitch.Position))
}

// pose is the scene rotation the user has dialed in.
func (v *viewer) pose() math3d.Mat4 {
	return math3d.RotateX(v.pitch.Position).Mul(math3d.RotateY(v.yaw.Position))
}

const keyImpulse = 0.04

// handle applies one input event.
func (v *viewer) handle(ev uv.Event) {
	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("q", "esc", "ctrl+c"):
			v.quit = true
		case ev.MatchString("up"):
			v.impulse(-keyImpulse, 0)
		case ev.MatchString("down"):
			v.impulse(keyImpulse, 0)
		case ev.MatchString("left"):
			v.impulse(0, -keyImpulse)
		case ev.MatchString("right"):
			v.impulse(0, keyImpulse)
		case ev.MatchString("+", "="):
			v.zoomBy(1 / 1.15)
		case ev.MatchString("-", "_"):
			v.zoomBy(1.15)
		case ev.MatchString("space"):
			v.impulse((rand.Float64()-0.5)*0.3, (rand.Float64()-0.5)*0.3)
		case ev.MatchString("r"):
			v.reset()
		case ev.MatchString("w"):
			v.wireframe = !v.wireframe
		case ev.MatchString("s"):
			v.shadows = !v.shadows
		case ev.MatchString("m"):
			v.inset = !v.inset
		case ev.MatchString("?", "shift+/"):
			v.showHUD = !v.showHUD
		}
	case uv.MouseClickEvent:
		v.dragging = true
		v.lastX, v.lastY = ev.X, ev.Y
	case uv.MouseReleaseEvent:
		v.dragging = false
	case uv.MouseMotionEvent:
		if v.dragging {
			v.impulse(float64(ev.Y-v.lastY)*0.03, float64(ev.X-v.lastX)*0.03)
			v.lastX, v.lastY = ev.X, ev.Y
		}
	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.zoomBy(1 / 1.1)
		case uv.MouseWheelDown:
			v.zoomBy(1.1)
		}
	}
}

// fpsCounter averages frames over one-second windows.
type fpsCounter struct {
	fps    float64
	frames int
	since  time.Time
}

func (f *fpsCounter) tick(now time.Time) {
	if f.since.IsZero() {
		f.since = now
	}
	f.frames++
	if elapsed := now.Sub(f.since); elapsed >= time.Second {
		f.fps = float64(f.frames) / elapsed.Seconds()
		f.frames = 0
		f.since = now
	}
}

var (
	hudStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f0f0f0")).Background(lipgloss.Color("#202030"))
	hudOnStyle = hudStyle.Foreground(lipgloss.Color("#7ee787"))
	hudDim     = hudStyle.Foreground(lipgloss.Color("#8b949e"))
)

func checkbox(on bool, label string) string {
	if on {
		return hudOnStyle.Render("[x] " + label)
	}
	return hudDim.Render("[ ] " + label)
}

// hud renders the status line.
func (v *viewer) hud(fps float64, fs scene.FrameStats) string {
	stats := fmt.Sprintf(" %3.0f fps  %d/%d objects  %d drawn  %d frags ",
		fps, fs.Visible, fs.Objects, fs.Primitives-fs.Culled-fs.Clipped, fs.Fragments)
	return hudStyle.Render(stats) +
		checkbox(v.wireframe, "wire") + hudStyle.Render(" ") +
		checkbox(v.shadows, "shadows") + hudStyle.Render(" ") +
		checkbox(v.inset, "map") + hudDim.Render("  ? hides ")
}

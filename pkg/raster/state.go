package raster

import "fmt"

// CullMode selects which triangle faces are discarded. Front faces wind
// counter-clockwise in window coordinates.
type CullMode int

const (
	CullOff CullMode = iota
	CullFront
	CullBack
)

func (m CullMode) String() string {
	switch m {
	case CullOff:
		return "off"
	case CullFront:
		return "front"
	case CullBack:
		return "back"
	default:
		return fmt.Sprintf("cull(%d)", int(m))
	}
}

// ParseCullMode accepts "off", "front" and "back".
func ParseCullMode(s string) (CullMode, error) {
	switch s {
	case "off", "none":
		return CullOff, nil
	case "front":
		return CullFront, nil
	case "back":
		return CullBack, nil
	default:
		return CullOff, fmt.Errorf("unknown cull mode %q", s)
	}
}

// culls reports whether a triangle with the given signed area is discarded.
func (m CullMode) culls(area int) bool {
	switch m {
	case CullFront:
		return area > 0
	case CullBack:
		return area < 0
	default:
		return false
	}
}

// RenderState holds the per-submit fixed-function toggles. The zero value
// draws both faces without depth testing.
type RenderState struct {
	Cull        CullMode
	DepthTest   bool // reject fragments not nearer than the stored depth
	DepthWrite  bool
	DepthOnly   bool // skip color writes
	Blend       bool // alpha-blend fragments over the target
	SmoothLines bool // antialiased lines, implies blending
}

// DefaultRenderState culls back faces with depth test and write enabled.
func DefaultRenderState() RenderState {
	return RenderState{
		Cull:       CullBack,
		DepthTest:  true,
		DepthWrite: true,
	}
}

// Stats counts what happened during submissions since the last reset.
type Stats struct {
	Submits       int
	Vertices      int // vertex shader invocations
	Primitives    int // primitives assembled from indices
	Clipped       int // primitives removed entirely by clipping
	Culled        int // triangles discarded by face culling
	Degenerate    int // zero-area triangles
	Fragments     int // fragment shader invocations
	DepthRejected int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Submits += o.Submits
	s.Vertices += o.Vertices
	s.Primitives += o.Primitives
	s.Clipped += o.Clipped
	s.Culled += o.Culled
	s.Degenerate += o.Degenerate
	s.Fragments += o.Fragments
	s.DepthRejected += o.DepthRejected
}
